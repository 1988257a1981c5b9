// Package sector models directional antenna faces and picks the one whose
// mounted azimuth best matches a computed bearing.
package sector

import (
	"math"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

// Sector is a directional antenna face at a site. ID and Name are opaque
// pass-through data; only Azimuth is interpreted.
type Sector struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Azimuth Azimuth `json:"azimuth"`
}

// FindBestMatch returns the sector whose azimuth is angularly closest to
// target. Sectors without a usable azimuth are skipped. Ties keep the
// earliest sector in input order. ok is false when nothing is usable.
func FindBestMatch(sectors []Sector, target float64) (best Sector, ok bool) {
	bestDist := math.MaxFloat64
	for _, s := range sectors {
		az, usable := s.Azimuth.Degrees()
		if !usable {
			continue
		}
		if d := geo.CircularDistance(target, az); d < bestDist {
			bestDist = d
			best = s
			ok = true
		}
	}
	return best, ok
}

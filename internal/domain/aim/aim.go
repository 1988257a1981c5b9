// Package aim records the final azimuth and downtilt an installer set on a
// piece of equipment.
package aim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

// MaxElevation bounds the downtilt/uptilt magnitude in degrees.
const MaxElevation = 90.0

// Record is the saved aim of one equipment id (a sector id or a CPE id).
type Record struct {
	EquipmentID string    `json:"equipment_id"`
	SiteID      string    `json:"site_id,omitempty"`
	Azimuth     float64   `json:"azimuth"`
	Elevation   *float64  `json:"elevation,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// NewRecord validates inputs and normalizes the azimuth into [0,360).
func NewRecord(equipmentID, siteID string, azimuth float64, elevation *float64, at time.Time) (Record, error) {
	if equipmentID == "" {
		return Record{}, errors.New("equipment id is required")
	}
	if math.IsNaN(azimuth) || math.IsInf(azimuth, 0) {
		return Record{}, fmt.Errorf("azimuth %v is not a finite number", azimuth)
	}
	if elevation != nil {
		e := *elevation
		if math.IsNaN(e) || math.Abs(e) > MaxElevation {
			return Record{}, fmt.Errorf("elevation %v out of range [-%g, %g]", e, MaxElevation, MaxElevation)
		}
	}
	return Record{
		EquipmentID: equipmentID,
		SiteID:      siteID,
		Azimuth:     geo.Normalize(azimuth),
		Elevation:   elevation,
		RecordedAt:  at.UTC(),
	}, nil
}

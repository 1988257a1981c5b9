package site

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
)

// siteToHash converts a domain Site to a map for HSET. Sectors are kept as
// JSON so raw azimuth values round-trip untouched.
func siteToHash(s domsite.Site) (map[string]string, error) {
	sectorsJSON, err := json.Marshal(s.Sectors())
	if err != nil {
		return nil, fmt.Errorf("marshal sectors: %w", err)
	}
	loc := s.Location()
	return map[string]string{
		"id":           s.ID(),
		"name":         s.Name(),
		"latitude":     strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		"longitude":    strconv.FormatFloat(loc.Lon, 'f', -1, 64),
		"sectors_json": string(sectorsJSON),
	}, nil
}

// siteFromHash hydrates a domain Site from an HGETALL result map.
func siteFromHash(m map[string]string) (domsite.Site, error) {
	lat, err := strconv.ParseFloat(m["latitude"], 64)
	if err != nil {
		return domsite.Site{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(m["longitude"], 64)
	if err != nil {
		return domsite.Site{}, fmt.Errorf("invalid longitude: %w", err)
	}

	var sectors []sector.Sector
	if raw := m["sectors_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sectors); err != nil {
			return domsite.Site{}, fmt.Errorf("unmarshal sectors: %w", err)
		}
	}

	return domsite.Reconstruct(m["id"], m["name"], geo.Coordinate{Lat: lat, Lon: lon}, sectors), nil
}

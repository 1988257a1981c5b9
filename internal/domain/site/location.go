package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

// ErrNoLocation signals a tower record without usable coordinates.
var ErrNoLocation = errors.New("site location not available")

// LocationFromRaw extracts a tower coordinate from the loosely typed
// "location" object of an inventory record. Latitude and longitude are read
// from the object itself, falling back to a nested "coordinates" object;
// each may be a number or a numeric string.
func LocationFromRaw(location map[string]any) (geo.Coordinate, error) {
	if location == nil {
		return geo.Coordinate{}, ErrNoLocation
	}

	lat, latOK := location["latitude"]
	lon, lonOK := location["longitude"]
	if !latOK || !lonOK || lat == nil || lon == nil {
		nested, ok := location["coordinates"].(map[string]any)
		if !ok {
			return geo.Coordinate{}, ErrNoLocation
		}
		lat, lon = nested["latitude"], nested["longitude"]
		if lat == nil || lon == nil {
			return geo.Coordinate{}, ErrNoLocation
		}
	}

	latDeg, err := toDegrees(lat)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lonDeg, err := toDegrees(lon)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}

	c := geo.Coordinate{Lat: latDeg, Lon: lonDeg}
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("coordinate (%f, %f) out of range", latDeg, lonDeg)
	}
	return c, nil
}

func toDegrees(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", t, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

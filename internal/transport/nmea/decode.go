// Package nmea reads position fixes and headings from an NMEA 0183 serial
// GPS/compass.
package nmea

import (
	"errors"
	"fmt"
	"strings"

	gonmea "github.com/adrianmo/go-nmea"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

var (
	// ErrVoid signals a well-formed sentence that carries no valid fix.
	ErrVoid = errors.New("nmea: void sentence")
	// ErrUnsupported signals a valid sentence type that is not used for aiming.
	ErrUnsupported = errors.New("nmea: unsupported sentence")
)

// Kind tells which field of an Event is populated.
type Kind int

const (
	// KindFix carries Position.
	KindFix Kind = iota + 1
	// KindHeading carries Heading.
	KindHeading
)

// Event is one decoded reading.
type Event struct {
	Kind     Kind
	Talker   string
	Type     string
	Position geo.Coordinate
	Heading  float64
	// TrueNorth is false for HDG, which reports a magnetic heading.
	TrueNorth bool
}

// Decode parses one sentence. GGA and RMC give fixes, HDT and HDG give
// headings. The checksum is always verified.
func Decode(line string) (Event, error) {
	if i := strings.IndexAny(line, "$!"); i > 0 {
		line = line[i:]
	}
	line = strings.TrimSpace(line)

	s, err := gonmea.Parse(line)
	if err != nil {
		return Event{}, fmt.Errorf("parse %q: %w", line, err)
	}
	ev := Event{Talker: s.TalkerID(), Type: s.DataType()}

	switch m := s.(type) {
	case gonmea.GGA:
		if m.FixQuality == gonmea.Invalid {
			return Event{}, fmt.Errorf("%s: %w", s.Prefix(), ErrVoid)
		}
		return fix(ev, m.Latitude, m.Longitude)
	case gonmea.RMC:
		if m.Validity != gonmea.ValidRMC {
			return Event{}, fmt.Errorf("%s: %w", s.Prefix(), ErrVoid)
		}
		return fix(ev, m.Latitude, m.Longitude)
	case gonmea.HDT:
		ev.Kind = KindHeading
		ev.Heading = geo.Normalize(m.Heading)
		ev.TrueNorth = m.True
		return ev, nil
	case gonmea.HDG:
		h := m.Heading
		switch m.DeviationDirection {
		case gonmea.East:
			h += m.Deviation
		case gonmea.West:
			h -= m.Deviation
		}
		ev.Kind = KindHeading
		ev.Heading = geo.Normalize(h)
		return ev, nil
	default:
		return Event{}, fmt.Errorf("%s: %w", s.Prefix(), ErrUnsupported)
	}
}

func fix(ev Event, lat, lon float64) (Event, error) {
	pos := geo.Coordinate{Lat: lat, Lon: lon}
	if !pos.Valid() {
		return Event{}, fmt.Errorf("%s (%f, %f): %w", ev.Type, lat, lon, ErrVoid)
	}
	ev.Kind = KindFix
	ev.Position = pos
	return ev, nil
}

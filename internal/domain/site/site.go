// Package site holds the tower/site aggregate the aiming flow targets.
package site

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Site is a tower location with its sector faces (immutable value object).
type Site struct {
	id       string
	name     string
	location geo.Coordinate
	sectors  []sector.Sector
}

// New validates and creates a Site.
func New(id, name string, location geo.Coordinate, sectors []sector.Sector) (Site, error) {
	if id == "" {
		return Site{}, errors.New("site id is required")
	}
	if len(id) > 128 {
		return Site{}, errors.New("site id too long (max 128)")
	}
	if !idRegex.MatchString(id) {
		return Site{}, fmt.Errorf("site id %q must be alphanumeric with '_', '-' or '.'", id)
	}
	if !location.Valid() {
		return Site{}, fmt.Errorf("site location (%f, %f) out of range", location.Lat, location.Lon)
	}
	return Reconstruct(id, name, location, sectors), nil
}

// Reconstruct creates a Site from storage without validation.
func Reconstruct(id, name string, location geo.Coordinate, sectors []sector.Sector) Site {
	cp := make([]sector.Sector, len(sectors))
	copy(cp, sectors)
	return Site{id: id, name: name, location: location, sectors: cp}
}

// ID returns the site id.
func (s Site) ID() string { return s.id }

// Name returns the display name.
func (s Site) Name() string { return s.name }

// Location returns the tower coordinate.
func (s Site) Location() geo.Coordinate { return s.location }

// Sectors returns a copy of the sector list in stored order.
func (s Site) Sectors() []sector.Sector {
	cp := make([]sector.Sector, len(s.sectors))
	copy(cp, s.sectors)
	return cp
}

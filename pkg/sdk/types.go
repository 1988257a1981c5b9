package fieldaim

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/fieldaim/internal/domain"
	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	siteuc "github.com/kailas-cloud/fieldaim/internal/usecase/site"
)

// AlignmentTolerance is the circular distance in degrees at which a heading
// counts as aligned.
const AlignmentTolerance = alignment.Tolerance

// Coordinate is a WGS84 latitude/longitude in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Sector is one antenna face of a site. Azimuth is kept as the inventory
// sent it; an empty or non-numeric value never matches.
type Sector struct {
	ID      string
	Name    string
	Azimuth string
}

// Site is a tower with its sectors.
type Site struct {
	ID       string
	Name     string
	Location Coordinate
	Sectors  []Sector
}

// Solution is the pointing answer between two coordinates.
type Solution struct {
	Bearing        float64
	DistanceMeters float64
	CompassPoint   string
}

// Aim is the solution from an installer position to a site plus the
// sector facing that way, if any.
type Aim struct {
	SiteID string
	Solution
	Sector *Sector
}

// AimRecord is the final aim saved for a piece of equipment.
type AimRecord struct {
	EquipmentID string
	SiteID      string
	Azimuth     float64
	Elevation   *float64
	RecordedAt  time.Time
}

// Phase is the session tracking phase.
type Phase string

// Session phases.
const (
	PhaseNoTarget Phase = Phase(alignment.NoTarget)
	PhaseTracking Phase = Phase(alignment.Tracking)
)

// Cadence is the cue timing for the current angular gap.
type Cadence struct {
	Tier  int
	Delay time.Duration
	Tone  time.Duration
}

// Session is a snapshot of one aiming session.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	Position  *Coordinate
	SiteID    string
	Solution  *Solution
	Sector    *Sector

	Phase            Phase
	Heading          float64
	HasHeading       bool
	Target           float64
	SignedDifference float64
	Distance         float64
	Aligned          bool

	Cadence     *Cadence
	CuesEmitted uint64
}

// Bearing returns the initial great-circle bearing, haversine distance and
// compass label from one coordinate to another.
func Bearing(from, to Coordinate) (Solution, error) {
	f, t := toGeo(from), toGeo(to)
	if !f.Valid() || !t.Valid() {
		return Solution{}, fmt.Errorf("bearing: %w", domain.ErrInvalidCoordinate)
	}
	return fromSolution(geo.Solve(f, t)), nil
}

// MatchSector returns the sector whose azimuth is closest to target. Ties
// keep the earlier sector; ok is false when no azimuth is usable.
func MatchSector(sectors []Sector, target float64) (Sector, bool) {
	best, ok := sector.FindBestMatch(toSectors(sectors), target)
	if !ok {
		return Sector{}, false
	}
	return fromSector(best), true
}

// CadenceFor maps a circular distance in degrees to cue timing.
func CadenceFor(distance float64) Cadence {
	return fromCadence(alignment.CadenceFor(distance))
}

// --- converters ---

func toGeo(c Coordinate) geo.Coordinate {
	return geo.Coordinate{Lat: c.Lat, Lon: c.Lon}
}

func fromGeo(c geo.Coordinate) Coordinate {
	return Coordinate{Lat: c.Lat, Lon: c.Lon}
}

func fromSolution(s geo.Solution) Solution {
	return Solution{Bearing: s.Bearing, DistanceMeters: s.Distance, CompassPoint: s.Compass}
}

func toSectors(in []Sector) []sector.Sector {
	out := make([]sector.Sector, len(in))
	for i, s := range in {
		out[i] = sector.Sector{ID: s.ID, Name: s.Name}
		if s.Azimuth != "" {
			out[i].Azimuth = sector.ParseAzimuth(s.Azimuth)
		}
	}
	return out
}

func fromSector(s sector.Sector) Sector {
	return Sector{ID: s.ID, Name: s.Name, Azimuth: s.Azimuth.String()}
}

func fromSite(s domsite.Site) Site {
	in := s.Sectors()
	sectors := make([]Sector, len(in))
	for i, sec := range in {
		sectors[i] = fromSector(sec)
	}
	return Site{ID: s.ID(), Name: s.Name(), Location: fromGeo(s.Location()), Sectors: sectors}
}

func fromAim(a siteuc.Aim) Aim {
	out := Aim{SiteID: a.Site.ID(), Solution: fromSolution(a.Solution)}
	if a.Matched {
		sec := fromSector(a.Sector)
		out.Sector = &sec
	}
	return out
}

func fromRecord(r domaim.Record) AimRecord {
	return AimRecord{
		EquipmentID: r.EquipmentID,
		SiteID:      r.SiteID,
		Azimuth:     r.Azimuth,
		Elevation:   r.Elevation,
		RecordedAt:  r.RecordedAt,
	}
}

func fromCadence(c alignment.Cadence) Cadence {
	return Cadence{Tier: c.Tier, Delay: c.Delay, Tone: c.Tone}
}

func fromSnapshot(s aiminguc.Snapshot) Session {
	st := s.State
	out := Session{
		ID:               s.ID,
		CreatedAt:        s.CreatedAt,
		LastSeen:         s.LastSeen,
		SiteID:           s.SiteID,
		Phase:            Phase(st.Phase),
		Heading:          st.Heading,
		HasHeading:       st.HasHeading,
		Target:           st.Target,
		SignedDifference: st.SignedDifference,
		Distance:         st.Distance,
		Aligned:          st.Aligned,
		CuesEmitted:      s.CuesEmitted,
	}
	if s.Position != nil {
		p := fromGeo(*s.Position)
		out.Position = &p
	}
	if s.Solution != nil {
		sol := fromSolution(*s.Solution)
		out.Solution = &sol
	}
	if s.Sector != nil {
		sec := fromSector(*s.Sector)
		out.Sector = &sec
	}
	if s.Cadence != nil {
		c := fromCadence(*s.Cadence)
		out.Cadence = &c
	}
	return out
}

package aiming

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
)

// Snapshot is the read model of one session.
type Snapshot struct {
	ID          string
	CreatedAt   time.Time
	LastSeen    time.Time
	Position    *geo.Coordinate
	SiteID      string
	Solution    *geo.Solution
	Sector      *sector.Sector
	State       alignment.State
	Cadence     *alignment.Cadence
	Feedback    bool
	CuesEmitted uint64
}

// session is one installer's aiming run: a position fix, an optional
// selected site, the heading tracker and its cue loop.
type session struct {
	id        string
	createdAt time.Time

	tracker   *alignment.Tracker
	scheduler *feedback.Scheduler
	cues      atomic.Uint64

	mu          sync.Mutex
	smoother    *Smoother
	position    geo.Coordinate
	hasPosition bool
	siteID      string
	siteSectors []sector.Sector
	solution    *geo.Solution
	sector      *sector.Sector
	lastSeen    time.Time

	// manualTarget is set while the tracker target is a typed azimuth
	// rather than the bearing to siteID.
	manualTarget bool
}

// snapshotLocked builds the read model. Caller holds s.mu.
func (s *session) snapshotLocked() Snapshot {
	st := s.tracker.State()
	snap := Snapshot{
		ID:          s.id,
		CreatedAt:   s.createdAt,
		LastSeen:    s.lastSeen,
		SiteID:      s.siteID,
		State:       st,
		Feedback:    s.scheduler != nil,
		CuesEmitted: s.cues.Load(),
	}
	if s.hasPosition {
		p := s.position
		snap.Position = &p
	}
	if s.solution != nil {
		sol := *s.solution
		snap.Solution = &sol
	}
	if s.sector != nil {
		sec := *s.sector
		snap.Sector = &sec
	}
	if st.Cueing() {
		c := alignment.CadenceFor(st.Distance)
		snap.Cadence = &c
	}
	return snap
}

// solveLocked recomputes the pointing solution to the selected site.
// Caller holds s.mu.
func (s *session) solveLocked(site geo.Coordinate) geo.Solution {
	sol := geo.Solve(s.position, site)
	s.solution = &sol
	return sol
}

// matchLocked pre-selects the sector closest to target. Caller holds s.mu.
func (s *session) matchLocked(target float64) bool {
	best, ok := sector.FindBestMatch(s.siteSectors, target)
	if ok {
		s.sector = &best
	} else {
		s.sector = nil
	}
	return ok
}

func (s *session) clearSelectionLocked() {
	s.siteID = ""
	s.siteSectors = nil
	s.manualTarget = false
	s.solution = nil
	s.sector = nil
}

func (s *session) stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

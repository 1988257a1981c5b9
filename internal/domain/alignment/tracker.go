// Package alignment tracks a device heading against a target azimuth and
// derives the aligned state and audible cue cadence from the gap.
package alignment

import (
	"sync"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

// Tolerance is the largest circular distance, in degrees, that still counts
// as aimed at the target.
const Tolerance = 5.0

// Phase is the tracker state.
type Phase string

const (
	// NoTarget is the initial phase: headings are recorded, nothing is compared.
	NoTarget Phase = "no_target"
	// Tracking means a target azimuth is set and every heading is compared to it.
	Tracking Phase = "tracking"
)

// State is a derived snapshot. It is recomputed on demand and never stored.
type State struct {
	Phase            Phase   `json:"phase"`
	Heading          float64 `json:"heading"`
	HasHeading       bool    `json:"has_heading"`
	Target           float64 `json:"target_azimuth"`
	SignedDifference float64 `json:"signed_difference"`
	Distance         float64 `json:"distance"`
	Aligned          bool    `json:"aligned"`
}

// HasTarget reports whether the snapshot was taken while tracking.
func (s State) HasTarget() bool {
	return s.Phase == Tracking
}

// Cueing reports whether a feedback cue should fire for this snapshot.
func (s State) Cueing() bool {
	return s.HasTarget() && s.HasHeading
}

// Tracker owns the current heading and target of one aiming session.
// A single heading source writes it; the feedback timer reads snapshots
// concurrently.
type Tracker struct {
	mu         sync.RWMutex
	heading    float64
	hasHeading bool
	target     float64
	hasTarget  bool
}

// NewTracker creates a tracker in the NoTarget phase.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetTarget enters Tracking with the given azimuth. Repeated calls replace it.
func (t *Tracker) SetTarget(azimuth float64) State {
	t.mu.Lock()
	t.target = geo.Normalize(azimuth)
	t.hasTarget = true
	s := t.stateLocked()
	t.mu.Unlock()
	return s
}

// ClearTarget returns to NoTarget. The last heading is kept.
func (t *Tracker) ClearTarget() State {
	t.mu.Lock()
	t.target = 0
	t.hasTarget = false
	s := t.stateLocked()
	t.mu.Unlock()
	return s
}

// UpdateHeading records a heading sample. Any angle is accepted and reduced
// modulo 360.
func (t *Tracker) UpdateHeading(heading float64) State {
	t.mu.Lock()
	t.heading = geo.Normalize(heading)
	t.hasHeading = true
	s := t.stateLocked()
	t.mu.Unlock()
	return s
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stateLocked()
}

func (t *Tracker) stateLocked() State {
	s := State{
		Phase:      NoTarget,
		Heading:    t.heading,
		HasHeading: t.hasHeading,
	}
	if !t.hasTarget {
		return s
	}
	s.Phase = Tracking
	s.Target = t.target
	if t.hasHeading {
		s.SignedDifference = geo.SignedDifference(t.heading, t.target)
		s.Distance = geo.CircularDistance(t.heading, t.target)
		s.Aligned = s.Distance <= Tolerance
	}
	return s
}

package aiming

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
)

const degToRad = math.Pi / 180

// Smoother is a moving circular mean over the last N compass samples.
// Averaging angles linearly breaks at north (359 and 1 average to 180), so
// samples are averaged as unit vectors.
type Smoother struct {
	samples []float64 // radians, ring buffer
	next    int
	filled  int
}

// NewSmoother returns a smoother over window samples, or nil when window <= 1.
func NewSmoother(window int) *Smoother {
	if window <= 1 {
		return nil
	}
	return &Smoother{samples: make([]float64, window)}
}

// Add records a sample in degrees and returns the smoothed heading in [0,360).
// A nil Smoother passes the sample through normalized.
func (s *Smoother) Add(deg float64) float64 {
	if s == nil {
		return geo.Normalize(deg)
	}
	s.samples[s.next] = geo.Normalize(deg) * degToRad
	s.next = (s.next + 1) % len(s.samples)
	if s.filled < len(s.samples) {
		s.filled++
	}
	mean := stat.CircularMean(s.samples[:s.filled], nil)
	return geo.Normalize(mean / degToRad)
}

// Reset drops all samples.
func (s *Smoother) Reset() {
	if s == nil {
		return
	}
	s.next, s.filled = 0, 0
}

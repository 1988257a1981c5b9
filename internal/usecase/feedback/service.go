// Package feedback drives the audible aiming cue: a self-rescheduling tick
// that reads the tracker and emits tones at a cadence set by the gap.
package feedback

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithAfterFunc replaces the timer factory (defaults to time.AfterFunc).
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Scheduler) { s.afterFunc = f }
}

// WithLogger sets the scheduler logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler runs the cue loop for one tracker.
// At most one tick is pending at any time.
type Scheduler struct {
	source    StateSource
	sink      ToneSink
	afterFunc AfterFunc
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	gen     uint64
	timer   Timer
}

// New creates a stopped Scheduler.
func New(source StateSource, sink ToneSink, opts ...Option) *Scheduler {
	s := &Scheduler{
		source: source,
		sink:   sink,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins the cue loop. The first tick runs immediately on the caller's
// goroutine. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.logger.Debug("feedback started")
	s.tick(gen)
}

// Stop cancels the pending tick and prevents any further rescheduling.
// A cue the sink is already playing when Stop returns runs to completion.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.logger.Debug("feedback stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) tick(gen uint64) {
	if !s.current(gen) {
		return
	}

	state := s.source.State()
	delay := alignment.IdleInterval
	if state.Cueing() {
		if !s.current(gen) {
			return
		}
		c := alignment.CadenceFor(state.Distance)
		s.sink.Cue(c, state)
		delay = c.Delay
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Stop or a restart may have happened while the sink was playing.
	if !s.running || s.gen != gen {
		return
	}
	s.timer = s.afterFunc(delay, func() { s.tick(gen) })
}

func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.gen == gen
}

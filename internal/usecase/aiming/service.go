// Package aiming manages live aiming sessions: position fixes, target
// selection, heading tracking and the audible cue loop.
package aiming

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/domain"
	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/metrics"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
)

// Config tunes session behavior.
type Config struct {
	SmoothingWindow int           // heading samples in the circular mean; <= 1 disables
	IdleTTL         time.Duration // sessions untouched this long are reaped; 0 disables
	Feedback        bool          // run a cue loop per session
}

// Option configures a Service.
type Option func(*Service)

// WithSinkFactory sets the per-session host tone sink.
func WithSinkFactory(f SinkFactory) Option {
	return func(s *Service) { s.sinkFor = f }
}

// WithAfterFunc replaces the cue loop timer factory.
func WithAfterFunc(f feedback.AfterFunc) Option {
	return func(s *Service) { s.afterFunc = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns all live sessions.
type Service struct {
	sites     SiteGetter
	cfg       Config
	sinkFor   SinkFactory
	afterFunc feedback.AfterFunc
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates an aiming service. sites may be nil when targets are only set
// by azimuth.
func New(sites SiteGetter, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		sites:    sites,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create opens a new session in the NoTarget phase.
func (s *Service) Create(_ context.Context) (Snapshot, error) {
	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		createdAt: now,
		lastSeen:  now,
		tracker:   alignment.NewTracker(),
		smoother:  NewSmoother(s.cfg.SmoothingWindow),
	}
	if s.cfg.Feedback {
		sess.scheduler = s.newScheduler(sess)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.AimingSessionsActive.Set(float64(active))
	s.logger.Info("Aiming session created", zap.String("session_id", sess.id))

	if sess.scheduler != nil {
		sess.scheduler.Start()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

func (s *Service) newScheduler(sess *session) *feedback.Scheduler {
	var host feedback.ToneSink
	if s.sinkFor != nil {
		host = s.sinkFor(sess.id)
	}
	sink := feedback.ToneSinkFunc(func(c alignment.Cadence, st alignment.State) {
		sess.cues.Add(1)
		metrics.RecordCue(c.Tier)
		if host != nil {
			host.Cue(c, st)
		}
	})

	opts := []feedback.Option{feedback.WithLogger(s.logger.With(zap.String("session_id", sess.id)))}
	if s.afterFunc != nil {
		opts = append(opts, feedback.WithAfterFunc(s.afterFunc))
	}
	return feedback.New(sess.tracker, sink, opts...)
}

// Get returns the current snapshot of a session.
func (s *Service) Get(_ context.Context, id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return sess.snapshotLocked(), nil
}

// Close stops a session's cue loop and forgets it.
func (s *Service) Close(_ context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("close session %s: %w", id, domain.ErrSessionNotFound)
	}
	sess.stop()
	metrics.AimingSessionsActive.Set(float64(active))
	s.logger.Info("Aiming session closed", zap.String("session_id", id))
	return nil
}

// UpdatePosition records a GPS fix. With a site selected, the solution is
// recomputed; its bearing becomes the new target unless an azimuth was
// entered manually since the site was selected. A selected site that no
// longer exists is dropped and the fix is still accepted.
func (s *Service) UpdatePosition(ctx context.Context, id string, lat, lon float64) (Snapshot, error) {
	pos := geo.Coordinate{Lat: lat, Lon: lon}
	if !pos.Valid() {
		return Snapshot{}, fmt.Errorf("position (%f, %f): %w", lat, lon, domain.ErrInvalidCoordinate)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	sess.position, sess.hasPosition = pos, true
	sess.lastSeen = s.now()
	siteID := sess.siteID
	sess.mu.Unlock()

	if siteID == "" || s.sites == nil {
		return s.Snapshot(id)
	}

	st, err := s.sites.Get(ctx, siteID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Snapshot{}, fmt.Errorf("position: site %s: %w", siteID, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.siteID != siteID {
		// Selection changed while the site was loading.
		return sess.snapshotLocked(), nil
	}
	if err != nil {
		if !sess.manualTarget {
			sess.tracker.ClearTarget()
		}
		sess.clearSelectionLocked()
		s.logger.Warn("Selected site gone, selection dropped",
			zap.String("session_id", id),
			zap.String("site_id", siteID),
		)
		return sess.snapshotLocked(), nil
	}

	sol := sess.solveLocked(st.Location())
	if !sess.manualTarget {
		sess.tracker.SetTarget(sol.Bearing)
		metrics.RecordSectorMatch(sess.matchLocked(sol.Bearing))
	}
	return sess.snapshotLocked(), nil
}

// UpdateHeading feeds one compass sample through the smoother into the tracker.
func (s *Service) UpdateHeading(_ context.Context, id string, heading float64) (Snapshot, error) {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return Snapshot{}, fmt.Errorf("heading %v: %w", heading, domain.ErrInvalidAngle)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.tracker.UpdateHeading(sess.smoother.Add(heading))
	sess.lastSeen = s.now()
	metrics.AimingHeadingUpdatesTotal.Inc()
	return sess.snapshotLocked(), nil
}

// SelectSite targets a site: the bearing from the last position fix to the
// site becomes the target and the closest sector is pre-selected.
func (s *Service) SelectSite(ctx context.Context, id, siteID string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	if s.sites == nil {
		return Snapshot{}, fmt.Errorf("select site %s: %w", siteID, domain.ErrNotFound)
	}

	sess.mu.Lock()
	hasPosition := sess.hasPosition
	sess.mu.Unlock()
	if !hasPosition {
		return Snapshot{}, fmt.Errorf("select site %s: %w", siteID, domain.ErrNoPositionFix)
	}

	st, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("select site %s: %w", siteID, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.siteID = st.ID()
	sess.siteSectors = st.Sectors()
	sess.manualTarget = false
	sol := sess.solveLocked(st.Location())
	sess.tracker.SetTarget(sol.Bearing)
	metrics.RecordSectorMatch(sess.matchLocked(sol.Bearing))
	sess.lastSeen = s.now()

	s.logger.Debug("Site selected",
		zap.String("session_id", id),
		zap.String("site_id", siteID),
		zap.Float64("bearing", sol.Bearing),
		zap.Float64("distance_meters", sol.Distance),
	)
	return sess.snapshotLocked(), nil
}

// SetTarget sets a manually entered azimuth. A selected site stays selected
// for display and its sectors are re-matched against the new azimuth; later
// position fixes no longer retarget until a site is selected again.
func (s *Service) SetTarget(_ context.Context, id string, azimuth float64) (Snapshot, error) {
	if math.IsNaN(azimuth) || math.IsInf(azimuth, 0) {
		return Snapshot{}, fmt.Errorf("azimuth %v: %w", azimuth, domain.ErrInvalidAngle)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	st := sess.tracker.SetTarget(azimuth)
	sess.manualTarget = true
	if sess.siteID != "" {
		metrics.RecordSectorMatch(sess.matchLocked(st.Target))
	}
	sess.lastSeen = s.now()
	return sess.snapshotLocked(), nil
}

// ClearTarget returns the session to NoTarget and drops the site selection.
func (s *Service) ClearTarget(_ context.Context, id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.tracker.ClearTarget()
	sess.clearSelectionLocked()
	sess.lastSeen = s.now()
	return sess.snapshotLocked(), nil
}

// Snapshot returns the session read model without touching its idle timer.
func (s *Service) Snapshot(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

// Active returns the number of live sessions.
func (s *Service) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown stops every cue loop and drops all sessions.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.stop()
	}
	metrics.AimingSessionsActive.Set(0)
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return sess, nil
}

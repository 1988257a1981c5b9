package fieldaim

import (
	"context"
	"fmt"
	"time"

	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
)

// SessionService drives live aiming sessions.
type SessionService struct {
	svc sessionUseCase
	obs *observer
}

// Create opens a session with no target.
func (s *SessionService) Create(ctx context.Context) (_ Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.create", start, err) }()

	snap, err := s.svc.Create(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return fromSnapshot(snap), nil
}

// Get returns a session snapshot.
func (s *SessionService) Get(ctx context.Context, id string) (Session, error) {
	return s.call("session.get", id, func() (aiminguc.Snapshot, error) {
		return s.svc.Get(ctx, id)
	})
}

// Close stops the session's cue loop and forgets it.
func (s *SessionService) Close(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.close", start, err, "session_id", id) }()

	if err = s.svc.Close(ctx, id); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// UpdatePosition records a GPS fix; a selected site is re-aimed from it.
func (s *SessionService) UpdatePosition(ctx context.Context, id string, fix Coordinate) (Session, error) {
	return s.call("session.update_position", id, func() (aiminguc.Snapshot, error) {
		return s.svc.UpdatePosition(ctx, id, fix.Lat, fix.Lon)
	})
}

// UpdateHeading feeds one compass sample in degrees.
func (s *SessionService) UpdateHeading(ctx context.Context, id string, heading float64) (Session, error) {
	return s.call("session.update_heading", id, func() (aiminguc.Snapshot, error) {
		return s.svc.UpdateHeading(ctx, id, heading)
	})
}

// SelectSite targets the bearing from the last position fix to a site.
func (s *SessionService) SelectSite(ctx context.Context, id, siteID string) (Session, error) {
	return s.call("session.select_site", id, func() (aiminguc.Snapshot, error) {
		return s.svc.SelectSite(ctx, id, siteID)
	})
}

// SetTarget targets a manually entered azimuth.
func (s *SessionService) SetTarget(ctx context.Context, id string, azimuth float64) (Session, error) {
	return s.call("session.set_target", id, func() (aiminguc.Snapshot, error) {
		return s.svc.SetTarget(ctx, id, azimuth)
	})
}

// ClearTarget drops the target and any selected site.
func (s *SessionService) ClearTarget(ctx context.Context, id string) (Session, error) {
	return s.call("session.clear_target", id, func() (aiminguc.Snapshot, error) {
		return s.svc.ClearTarget(ctx, id)
	})
}

// Active returns the number of live sessions.
func (s *SessionService) Active() int {
	return s.svc.Active()
}

func (s *SessionService) call(op, id string, fn func() (aiminguc.Snapshot, error)) (_ Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe(op, start, err, "session_id", id) }()

	snap, err := fn()
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return fromSnapshot(snap), nil
}

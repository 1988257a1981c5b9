package aiming

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/metrics"
)

const minJanitorInterval = time.Second

// Reap closes sessions idle for longer than the configured TTL and returns
// how many were removed.
func (s *Service) Reap(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}

	var stale []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.cfg.IdleTTL {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.stop()
		s.logger.Info("Aiming session reaped", zap.String("session_id", sess.id))
	}
	if len(stale) > 0 {
		metrics.AimingSessionsActive.Set(float64(active))
	}
	return len(stale)
}

// RunJanitor reaps idle sessions every half TTL until ctx is cancelled.
func (s *Service) RunJanitor(ctx context.Context) {
	if s.cfg.IdleTTL <= 0 {
		return
	}
	interval := s.cfg.IdleTTL / 2
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(s.now())
		}
	}
}

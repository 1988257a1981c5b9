package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Sessions int
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	sessions SessionCounter
	timeout  time.Duration
}

// New creates a Service. sessions can be nil.
func New(db DBPinger, sessions SessionCounter) *Service {
	return &Service{db: db, sessions: sessions, timeout: DefaultCheckTimeout}
}

// Check probes the database and reports the live session count.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.Ping(pingCtx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	r := Report{Status: status, Checks: checks}
	if s.sessions != nil {
		r.Sessions = s.sessions.Active()
	}
	return r
}

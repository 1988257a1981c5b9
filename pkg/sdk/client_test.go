package fieldaim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	healthuc "github.com/kailas-cloud/fieldaim/internal/usecase/health"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	sink := func(string, Cadence) {}
	for _, o := range []Option{
		WithRedis("redis:6379", "pw"),
		WithRedisACL("aim", 2),
		WithKeyPrefix("test:"),
		WithAimRetention(time.Hour),
		WithHeadingSmoothing(4),
		WithSessionIdleTTL(time.Minute),
		WithToneSink(sink),
	} {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "redis:6379" || cfg.password != "pw" {
		t.Errorf("redis: got %v / %q", cfg.addrs, cfg.password)
	}
	if cfg.username != "aim" || cfg.db != 2 {
		t.Errorf("acl: got %q / %d", cfg.username, cfg.db)
	}
	if cfg.keyPrefix != "test:" || cfg.aimRetention != time.Hour {
		t.Errorf("storage: got %q / %v", cfg.keyPrefix, cfg.aimRetention)
	}
	if cfg.smoothingWindow != 4 || cfg.sessionIdleTTL != time.Minute || cfg.toneSink == nil {
		t.Errorf("sessions: got %+v", cfg)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("get: %w", ErrNotFound), "not_found"},
		{fmt.Errorf("get: %w", ErrSessionNotFound), "not_found"},
		{fmt.Errorf("x: %w", ErrNoPositionFix), "rejected"},
		{fmt.Errorf("x: %w", ErrInvalidAngle), "rejected"},
		{errors.New("connection reset"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("site.get", time.Now(), nil)
	obs.observe("site.get", time.Now(), ErrNotFound)
	obs.observe("site.get", time.Now(), errors.New("boom"))

	for _, out := range []string{"ok", "not_found", "error"} {
		got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("site.get", out))
		if got != 1 {
			t.Errorf("operations{outcome=%s} = %v, want 1", out, got)
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	second.observe("ping", time.Now(), nil)
	if got := testutil.ToFloat64(first.metrics.operations.WithLabelValues("ping", "ok")); got != 1 {
		t.Errorf("shared counter = %v, want 1", got)
	}
}

func TestObserver_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs, err := newObserver(logger, nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("session.update_heading", time.Now(), errors.New("redis down"), "session_id", "s1")
	out := buf.String()
	for _, want := range []string{"operation failed", "session.update_heading", "session_id=s1", "redis down"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestObserver_NilIsSafe(t *testing.T) {
	var obs *observer
	obs.observe("ping", time.Now(), nil)
}

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status:   healthuc.Degraded,
		Checks:   map[string]healthuc.CheckResult{"database": healthuc.CheckError},
		Sessions: 3,
	}}}

	got := c.Health(context.Background())
	if got.Status != "degraded" || got.Checks["database"] != "error" || got.Sessions != 3 {
		t.Errorf("health: got %+v", got)
	}
}

func TestClient_CloseShutsDownSessions(t *testing.T) {
	sessions := &mockSessionUC{}
	stopped := false
	c := &Client{sessionSvc: sessions, stopReaper: func() { stopped = true }}

	c.Close()
	if !sessions.shutdown || !stopped {
		t.Errorf("close: shutdown=%v reaper stopped=%v", sessions.shutdown, stopped)
	}
}

package fieldaim

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// ToneSinkFunc receives one cue per feedback tick while a session has both
// a target and a heading. It runs on a timer goroutine and must not block.
type ToneSinkFunc func(sessionID string, c Cadence)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix       string
	aimRetention    time.Duration
	smoothingWindow int
	sessionIdleTTL  time.Duration
	toneSink        ToneSinkFunc

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the Redis instance holding the site catalog.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisACL sets an ACL username and logical database.
func WithRedisACL(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithKeyPrefix namespaces every key. Default: "fieldaim:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithAimRetention expires recorded aims after d. Zero keeps them forever.
func WithAimRetention(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.aimRetention = d
	})
}

// WithHeadingSmoothing averages the last n compass samples. n <= 1 disables it.
func WithHeadingSmoothing(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.smoothingWindow = n
	})
}

// WithSessionIdleTTL closes sessions that see no calls for d. Zero disables reaping.
func WithSessionIdleTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionIdleTTL = d
	})
}

// WithToneSink enables the per-session cue loop and delivers cues to fn.
func WithToneSink(fn ToneSinkFunc) Option {
	return optionFunc(func(c *clientConfig) {
		c.toneSink = fn
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

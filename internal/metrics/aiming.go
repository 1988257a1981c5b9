package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every fieldaim metric.
const Namespace = "fieldaim"

// Aiming Prometheus metrics.
var (
	AimingSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "aiming_sessions_active",
			Help:      "Number of open aiming sessions",
		},
	)

	AimingHeadingUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "aiming_heading_updates_total",
			Help:      "Total compass heading samples received",
		},
	)

	AimingFeedbackCuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "aiming_feedback_cues_total",
			Help:      "Audible cues emitted, by cadence tier",
		},
		[]string{"tier"},
	)

	AimingSectorMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "aiming_sector_matches_total",
			Help:      "Sector match attempts",
		},
		[]string{"result"}, // "matched" / "none"
	)
)

var aimingMetricsRegistered bool

// RegisterAimingMetrics registers Prometheus aiming metrics. Must be called once from main.
func RegisterAimingMetrics() {
	if aimingMetricsRegistered {
		return
	}
	prometheus.MustRegister(AimingSessionsActive)
	prometheus.MustRegister(AimingHeadingUpdatesTotal)
	prometheus.MustRegister(AimingFeedbackCuesTotal)
	prometheus.MustRegister(AimingSectorMatchesTotal)
	aimingMetricsRegistered = true
}

// RecordSectorMatch counts one sector match attempt.
func RecordSectorMatch(matched bool) {
	result := "none"
	if matched {
		result = "matched"
	}
	AimingSectorMatchesTotal.WithLabelValues(result).Inc()
}

// RecordCue counts one emitted cue for a cadence tier.
func RecordCue(tier int) {
	AimingFeedbackCuesTotal.WithLabelValues(strconv.Itoa(tier)).Inc()
}

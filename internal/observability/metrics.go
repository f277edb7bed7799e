// Package observability exposes the Prometheus metrics of the matching service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courier_matching"

// Label values shared by the handlers.
const (
	SourceMatcher = "matcher"
	SourceIntake  = "intake"

	PathInstant = "instant"
	PathQueue   = "queue"

	EventExpired = "expired"
	EventMatched = "matched"

	ResourceCourier = "courier"
	ResourceEntry   = "entry"
)

var (
	IntakeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "intake_outcomes_total", Help: "Request intake decisions by outcome"},
		[]string{"outcome"},
	)
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "matches_total", Help: "Requesters bound to a courier"},
		[]string{"path"},
	)
	ExpirationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "expirations_total", Help: "Queue entries expired"},
		[]string{"source"},
	)
	QueueWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "queue_wait_seconds",
		Help:      "Time between joining the queue and being matched",
		Buckets:   []float64{1, 5, 15, 30, 60, 90, 120, 180, 300},
	})
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "queue_depth", Help: "Searching entries in the queue",
	})
	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notification_failures_total", Help: "Best-effort notifications that failed"},
		[]string{"event"},
	)
	LostRacesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "lost_races_total", Help: "Conditional writes that affected no row"},
		[]string{"resource"},
	)
	MatcherCycleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "matcher_cycle_errors_total", Help: "Matcher cycles aborted by an error",
	})
)

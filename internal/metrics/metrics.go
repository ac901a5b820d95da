package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bracket"

type Metrics struct {
	registry *prometheus.Registry

	picks              *prometheus.CounterVec
	outcomes           *prometheus.CounterVec
	lockTransitions    prometheus.Counter
	leaderboardSeconds prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_submitted_total",
			Help:      "Pick submissions by result.",
		}, []string{"result"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_recorded_total",
			Help:      "Official outcomes set or cleared by admins.",
		}, []string{"action"}),
		lockTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_transitions_total",
			Help:      "Tournaments that locked because their lock time passed.",
		}),
		leaderboardSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leaderboard_duration_seconds",
			Help:      "Time to load and compute a leaderboard.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.picks,
		m.outcomes,
		m.lockTransitions,
		m.leaderboardSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) PickSubmitted(result string) {
	if m == nil {
		return
	}
	m.picks.WithLabelValues(result).Inc()
}

func (m *Metrics) OutcomeRecorded(action string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(action).Inc()
}

func (m *Metrics) TournamentLocked() {
	if m == nil {
		return
	}
	m.lockTransitions.Inc()
}

func (m *Metrics) ObserveLeaderboard(d time.Duration) {
	if m == nil {
		return
	}
	m.leaderboardSeconds.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

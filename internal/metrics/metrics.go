package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is implemented by the Prometheus-backed Metrics and by
// NoopMetrics when metrics are disabled.
type Recorder interface {
	RecordFeedRequest(kind, result string, duration time.Duration)
	RecordTokenIssued(kind string)
	RecordTokenRevoked(kind, reason string)
	RecordTokenCollision()
}

var _ Recorder = (*Metrics)(nil)

type Metrics struct {
	FeedRequestsTotal   *prometheus.CounterVec
	FeedBuildDuration   *prometheus.HistogramVec
	TokensIssuedTotal   *prometheus.CounterVec
	TokensRevokedTotal  *prometheus.CounterVec
	TokenCollisionTotal prometheus.Counter
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the Prometheus recorder when enabled, otherwise a no-op one.
// Collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		FeedRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendar_feed_requests_total",
				Help: "Calendar feed requests by feed kind and result",
			},
			[]string{"kind", "result"},
		),
		FeedBuildDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calendar_feed_build_duration_seconds",
				Help:    "Time spent loading data and assembling a calendar feed",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendar_feed_tokens_issued_total",
				Help: "Feed tokens issued by kind",
			},
			[]string{"kind"},
		),
		TokensRevokedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendar_feed_tokens_revoked_total",
				Help: "Feed tokens revoked by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		TokenCollisionTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "calendar_feed_token_collisions_total",
				Help: "Token inserts rejected by a uniqueness constraint",
			},
		),
	}
}

func (m *Metrics) RecordFeedRequest(kind, result string, duration time.Duration) {
	m.FeedRequestsTotal.WithLabelValues(kind, result).Inc()
	if result == "ok" {
		m.FeedBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordTokenIssued(kind string) {
	m.TokensIssuedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordTokenRevoked(kind, reason string) {
	m.TokensRevokedTotal.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) RecordTokenCollision() {
	m.TokenCollisionTotal.Inc()
}

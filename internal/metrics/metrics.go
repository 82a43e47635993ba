// Package metrics собирает метрики конвейера пересчета баланса и отдает их Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder интерфейс для сервисов и конвейера
type Recorder interface {
	RecordRecompute(duration time.Duration)
	RecordSnapshotFailure()
	RecordEventRegistered(eventType string)
	RecordFeedStarted()
	RecordFeedStopped()
}

// Collector реализация на Prometheus
type Collector struct {
	recomputes       prometheus.Counter
	recomputeLatency prometheus.Histogram
	snapshotFailures prometheus.Counter
	eventsRegistered *prometheus.CounterVec
	activeFeeds      prometheus.Gauge
}

// NewCollector создает Collector и регистрирует метрики
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ponto_ledger_recomputes_total",
			Help: "Number of ledger recomputations",
		}),
		recomputeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ponto_ledger_recompute_seconds",
			Help:    "Ledger computation latency, snapshot read excluded",
			Buckets: prometheus.DefBuckets,
		}),
		snapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ponto_ledger_snapshot_failures_total",
			Help: "Failed event snapshot reads",
		}),
		eventsRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ponto_clock_events_registered_total",
			Help: "Clock events written, by type",
		}, []string{"type"}),
		activeFeeds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ponto_ledger_active_feeds",
			Help: "Running per-person ledger feeds",
		}),
	}

	reg.MustRegister(
		c.recomputes,
		c.recomputeLatency,
		c.snapshotFailures,
		c.eventsRegistered,
		c.activeFeeds,
	)

	return c
}

func (c *Collector) RecordRecompute(duration time.Duration) {
	c.recomputes.Inc()
	c.recomputeLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordSnapshotFailure() {
	c.snapshotFailures.Inc()
}

func (c *Collector) RecordEventRegistered(eventType string) {
	c.eventsRegistered.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordFeedStarted() {
	c.activeFeeds.Inc()
}

func (c *Collector) RecordFeedStopped() {
	c.activeFeeds.Dec()
}

// Nop ничего не записывает
type Nop struct{}

func (Nop) RecordRecompute(time.Duration) {}
func (Nop) RecordSnapshotFailure() {}
func (Nop) RecordEventRegistered(string) {}
func (Nop) RecordFeedStarted() {}
func (Nop) RecordFeedStopped() {}

// Handler HTTP-обработчик для скрейпа
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute возвращает mux с /metrics
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

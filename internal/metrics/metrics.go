// Package metrics exposes race and hive telemetry as Prometheus metrics.
// Every Metrics value owns its registry so several instances can coexist.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/threadrace/internal/race"
)

const namespace = "threadrace"

// Metrics holds the collectors and the registry serving them.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	racesTotal     *prometheus.CounterVec
	racersActive   prometheus.Gauge
	stepsTotal     *prometheus.CounterVec
	finishSeconds  prometheus.Histogram
	raceSeconds    prometheus.Histogram
	nectarTotal    prometheus.Gauge
	depositsTotal  *prometheus.CounterVec
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		racesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_total",
			Help:      "Races run, by outcome.",
		}, []string{"outcome"}),
		racersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "racers_active",
			Help:      "Racers currently on the track.",
		}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "racer_steps_total",
			Help:      "Progress steps taken, by racer.",
		}, []string{"racer"}),
		finishSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "racer_finish_seconds",
			Help:      "Time from race start to a racer crossing the line.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		raceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "race_duration_seconds",
			Help:      "Wall-clock duration of whole races.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		nectarTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hive_nectar",
			Help:      "Nectar currently stored in the hive.",
		}),
		depositsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hive_deposits_total",
			Help:      "Nectar deposits, by bee.",
		}, []string{"bee"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "HTTP requests being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path.",
		}, []string{"path"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.racesTotal, m.racersActive, m.stepsTotal, m.finishSeconds, m.raceSeconds,
		m.nectarTotal, m.depositsTotal, m.activeRequests, m.requestsTotal,
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WritePrometheus serves the metrics in the text exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// IncrementActiveRequests marks the start of an HTTP request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// CountRequest counts one served request for path.
func (m *Metrics) CountRequest(path string) { m.requestsTotal.WithLabelValues(path).Inc() }

// RaceStarted implements race.Recorder.
func (m *Metrics) RaceStarted(racers int) { m.racersActive.Set(float64(racers)) }

// Step implements race.Recorder.
func (m *Metrics) Step(racer string, _ float64) { m.stepsTotal.WithLabelValues(racer).Inc() }

// Finished implements race.Recorder.
func (m *Metrics) Finished(f race.Finish) {
	m.racersActive.Dec()
	m.finishSeconds.Observe(f.Elapsed.Seconds())
}

// RaceEnded implements race.Recorder.
func (m *Metrics) RaceEnded(elapsed time.Duration, err error) {
	outcome := "completed"
	if err != nil {
		outcome = "aborted"
	}
	m.racesTotal.WithLabelValues(outcome).Inc()
	m.raceSeconds.Observe(elapsed.Seconds())
	m.racersActive.Set(0)
}

// Deposited implements hive.Recorder.
func (m *Metrics) Deposited(bee string, _ int, total int) {
	m.depositsTotal.WithLabelValues(bee).Inc()
	m.nectarTotal.Set(float64(total))
}

var _ race.Recorder = (*Metrics)(nil)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	backtestsTotal    *prometheus.CounterVec
	backtestDuration  prometheus.Histogram
	sweepsTotal       *prometheus.CounterVec
	sweepCombinations *prometheus.CounterVec
	signalsGenerated  *prometheus.CounterVec
	barCacheHits      prometheus.Counter
	barCacheMisses    prometheus.Counter
	jobsActive        *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_backtests_total",
			Help: "Total number of backtests",
		},
		[]string{"status"},
	)
	r.backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chronos_backtest_duration_seconds",
			Help:    "Backtest duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_sweeps_total",
			Help: "Total number of parameter sweeps",
		},
		[]string{"status"},
	)
	r.sweepCombinations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_sweep_combinations_total",
			Help: "Total number of sweep combinations evaluated",
		},
		[]string{"status"},
	)
	r.signalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronos_signals_generated_total",
			Help: "Total number of strategy signals generated",
		},
		[]string{"strategy", "type"},
	)
	r.barCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronos_bar_cache_hits_total",
			Help: "Total number of bar cache hits",
		},
	)
	r.barCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronos_bar_cache_misses_total",
			Help: "Total number of bar cache misses",
		},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chronos_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.sweepsTotal)
	reg.MustRegister(r.sweepCombinations)
	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.barCacheHits)
	reg.MustRegister(r.barCacheMisses)
	reg.MustRegister(r.jobsActive)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordSweep records a sweep completion.
func (r *Registry) RecordSweep(status string) {
	r.sweepsTotal.WithLabelValues(status).Inc()
}

// RecordSweepCombination records one evaluated sweep combination.
func (r *Registry) RecordSweepCombination(status string) {
	r.sweepCombinations.WithLabelValues(status).Inc()
}

// RecordSignal records a generated strategy signal.
func (r *Registry) RecordSignal(strategy, signalType string) {
	r.signalsGenerated.WithLabelValues(strategy, signalType).Inc()
}

// RecordCacheHit records a bar cache hit.
func (r *Registry) RecordCacheHit() {
	r.barCacheHits.Inc()
}

// RecordCacheMiss records a bar cache miss.
func (r *Registry) RecordCacheMiss() {
	r.barCacheMisses.Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

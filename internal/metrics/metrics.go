// Package metrics registers the prometheus collectors the exit manager,
// error handler, and orchestrator report against, mirroring the teacher's
// httpmetrics registration called from cmd/cryptorun/main.go
// (httpmetrics.InitializeMetrics()).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups every collector this module exports so main() can
// register them on a single prometheus.Registerer with one call.
type Registry struct {
	ExitDispatchTotal   *prometheus.CounterVec
	ExitLatencySeconds  *prometheus.HistogramVec
	ErrorEventsTotal    *prometheus.CounterVec
	AutoDisableTotal    prometheus.Counter
	OrchestratorLatency *prometheus.HistogramVec
	ActiveTrades        prometheus.Gauge
}

// New constructs a Registry with all collectors created but not yet
// registered; call Register to attach them to a prometheus.Registerer.
func New() *Registry {
	return &Registry{
		ExitDispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rangescalp",
			Subsystem: "exits",
			Name:      "dispatch_total",
			Help:      "Exit order dispatch outcomes by priority tier and result.",
		}, []string{"priority", "result"}),
		ExitLatencySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rangescalp",
			Subsystem: "exits",
			Name:      "dispatch_latency_seconds",
			Help:      "Wall-clock latency of exit order dispatch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"priority"}),
		ErrorEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rangescalp",
			Subsystem: "errors",
			Name:      "events_total",
			Help:      "Error events recorded by tag and severity.",
		}, []string{"tag", "severity"}),
		AutoDisableTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rangescalp",
			Subsystem: "errors",
			Name:      "auto_disable_total",
			Help:      "Number of times the rolling-hour critical-error threshold auto-disabled trading.",
		}),
		OrchestratorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rangescalp",
			Subsystem: "orchestrator",
			Name:      "analyse_latency_seconds",
			Help:      "Wall-clock latency of one full analyse() pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"symbol"}),
		ActiveTrades: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangescalp",
			Subsystem: "exits",
			Name:      "active_trades",
			Help:      "Current count of actively monitored trades.",
		}),
	}
}

// Register attaches every collector in r to reg. Safe to call once per
// process; a second registration against the same registerer panics with
// prometheus.AlreadyRegisteredError (via MustRegister).
func (r *Registry) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		r.ExitDispatchTotal,
		r.ExitLatencySeconds,
		r.ErrorEventsTotal,
		r.AutoDisableTotal,
		r.OrchestratorLatency,
		r.ActiveTrades,
	)
}

// Package observability wires Prometheus metrics for the registry core.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riya9927/balkanid-capstone/internal/logging"
)

// RegistryMetrics counts the interesting transitions inside the registry:
// applied and dropped push events, writes rejected by the version guard,
// snapshot refreshes, and mutation outcomes.
//
// All increment methods are nil-safe so tests can pass a nil collector.
type RegistryMetrics struct {
	eventsApplied     *prometheus.CounterVec
	eventsDropped     prometheus.Counter
	staleWrites       prometheus.Counter
	refreshes         *prometheus.CounterVec
	refreshFailures   prometheus.Counter
	mutations         *prometheus.CounterVec
	mutationRollbacks prometheus.Counter
}

// NewRegistryMetrics registers the registry collectors with reg. Registering
// twice is tolerated (useful for testing), mirroring how duplicate
// registration of gRPC server metrics is usually handled.
func NewRegistryMetrics(reg prometheus.Registerer) (*RegistryMetrics, error) {
	m := &RegistryMetrics{
		eventsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_events_applied_total",
			Help: "Push events applied to the store, by event type.",
		}, []string{"type"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_events_dropped_total",
			Help: "Push events dropped as malformed or unknown.",
		}),
		staleWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_stale_writes_total",
			Help: "Writes rejected by the store's version guard.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_refreshes_total",
			Help: "Completed snapshot refreshes, by scope.",
		}, []string{"scope"}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_refresh_failures_total",
			Help: "Snapshot refreshes that failed and left the store untouched.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_mutations_total",
			Help: "User-initiated mutations issued through the gateway, by operation.",
		}, []string{"op"}),
		mutationRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_mutation_rollbacks_total",
			Help: "Optimistic mutations rolled back after a server failure.",
		}),
	}

	collectors := []prometheus.Collector{
		m.eventsApplied, m.eventsDropped, m.staleWrites,
		m.refreshes, m.refreshFailures, m.mutations, m.mutationRollbacks,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *RegistryMetrics) EventApplied(eventType string) {
	if m == nil {
		return
	}
	m.eventsApplied.WithLabelValues(eventType).Inc()
}

func (m *RegistryMetrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

func (m *RegistryMetrics) StaleWrite() {
	if m == nil {
		return
	}
	m.staleWrites.Inc()
}

func (m *RegistryMetrics) Refresh(scope string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(scope).Inc()
}

func (m *RegistryMetrics) RefreshFailure() {
	if m == nil {
		return
	}
	m.refreshFailures.Inc()
}

func (m *RegistryMetrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *RegistryMetrics) MutationRollback() {
	if m == nil {
		return
	}
	m.mutationRollbacks.Inc()
}

// StartMetricsServer serves /metrics and /health on addr in the background.
func StartMetricsServer(addr string, log logging.Logger) {
	go func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		log.Info(ctx, "starting metrics server", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error(ctx, "metrics server failed", "error", err)
		}
	}()
}

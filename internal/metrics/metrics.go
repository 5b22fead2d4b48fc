// Package metrics groups the Prometheus collectors exported by the server.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds RPC and domain collectors.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	ActiveSessions prometheus.Gauge
	Allocations    *prometheus.CounterVec
}

// New registers and returns the collectors under namespace. A nil registerer
// uses prometheus.DefaultRegisterer. Collectors already registered under the
// same name are reused.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total number of RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_ms",
			Help:      "RPC latency distribution in milliseconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}, []string{"procedure"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of bill-splitting sessions currently held in memory.",
		}),
		Allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Allocations computed, by result.",
		}, []string{"result"}),
	}
	m.Requests = register(reg, m.Requests)
	m.Duration = register(reg, m.Duration)
	m.ActiveSessions = register(reg, m.ActiveSessions)
	m.Allocations = register(reg, m.Allocations)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(procedure, code).Inc()
	m.Duration.WithLabelValues(procedure).Observe(float64(elapsed) / float64(time.Millisecond))
}

// ObserveAllocation counts an allocation outcome ("ok", "rejected", "error").
func (m *Metrics) ObserveAllocation(result string) {
	if m == nil {
		return
	}
	m.Allocations.WithLabelValues(result).Inc()
}

// SetActiveSessions reports the live session count.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}

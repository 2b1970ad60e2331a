// Package metrics holds the Prometheus collectors exported by the settle server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests    *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	plansComputed  *prometheus.CounterVec
	planSize       prometheus.Histogram
	invalidRecords *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settle",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "settle",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		plansComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settle",
			Name:      "settlement_plans_total",
			Help:      "Settlement plans computed, by source (request or group).",
		}, []string{"source"}),
		planSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "settle",
			Name:      "settlement_plan_transactions",
			Help:      "Number of transactions per settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		invalidRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "settle",
			Name:      "rejected_inputs_total",
			Help:      "Inputs rejected by the calculator, by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.plansComputed, m.planSize, m.invalidRecords)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObservePlan records a computed settlement plan of n transactions.
func (m *Metrics) ObservePlan(source string, n int) {
	if m == nil {
		return
	}
	m.plansComputed.WithLabelValues(source).Inc()
	m.planSize.Observe(float64(n))
}

// ObserveRejected records an input rejected with the given error kind.
func (m *Metrics) ObserveRejected(kind string) {
	if m == nil {
		return
	}
	m.invalidRecords.WithLabelValues(kind).Inc()
}

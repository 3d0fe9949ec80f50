// Package telemetry exposes Prometheus metrics for tool calls and streaming sessions.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mcpgate"

const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusFallback = "fallback"
)

// Metrics groups gateway collectors on a dedicated registry.
type Metrics struct {
	registry     *prometheus.Registry
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	requests     *prometheus.CounterVec
	sessions     prometheus.Gauge
}

func New() *Metrics {
	ret := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by canonical tool name and status.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests by transport and outcome code.",
		}, []string{"transport", "code"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Streaming sessions currently open on this process.",
		}),
	}
	ret.registry.MustRegister(ret.toolCalls, ret.toolDuration, ret.requests, ret.sessions)
	return ret
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(tool, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// IncFallback counts a primary strategy degrading to its fallback.
func (m *Metrics) IncFallback(tool string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, StatusFallback).Inc()
}

// ObserveRequest records a handled envelope; code is "0" for success.
func (m *Metrics) ObserveRequest(transport, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport, code).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

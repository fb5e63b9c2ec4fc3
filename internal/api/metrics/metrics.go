// Package metrics defines and registers all custom Prometheus metrics for the
// planner API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "planner"

// --- Auth metrics ---

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "ok" or "conflict"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token refresh attempts.
// Label:
//   - result: "ok" or "unauthorized" (expired, revoked, superseded, missing)
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by result.",
	},
	[]string{"result"},
)

// --- Chat metrics ---

// ChatCompletionsTotal counts completion requests.
// Labels:
//   - mode: "blocking" or "stream"
//   - result: "ok", "cache_hit", or "error"
var ChatCompletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_completions_total",
		Help:      "Total number of chat completion requests, by mode and result.",
	},
	[]string{"mode", "result"},
)

// ChatCompletionDuration measures end-to-end completion latency.
// Label:
//   - mode: "blocking" or "stream"
var ChatCompletionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chat_completion_duration_seconds",
		Help:      "Duration of chat completions from request to final token.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"mode"},
)

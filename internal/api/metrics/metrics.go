// Package metrics defines and registers all custom Prometheus metrics for the
// membership registry admin gateway. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics alongside the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry_gateway"

// ── Upstream gateway metrics ──────────────────────────────────────────────────

// UpstreamRequestsTotal counts requests dispatched to the registry API,
// including 401-recovery replays.
// Labels:
//   - method: HTTP method of the upstream call
//   - status: numeric HTTP status returned by the registry
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the registry API, by method and status.",
	},
	[]string{"method", "status"},
)

// TokenRecoveryTotal counts 401-triggered silent re-authentication attempts.
// Label:
//   - result: "recovered" (request replayed) or "failed" (session reset)
var TokenRecoveryTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_recovery_total",
		Help:      "Total number of 401-triggered token recovery attempts, by result.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenRefreshTotal counts upstream /auth/refresh calls issued by sessions.
// Label:
//   - result: "success" or "failure"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh calls, by result.",
	},
	[]string{"result"},
)

// SessionsActive tracks the number of live browser sessions held in memory.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of browser sessions in the in-memory registry.",
	},
)

// ── Dashboard cache metrics ───────────────────────────────────────────────────

// StatsCacheTotal counts dashboard stats cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of dashboard statistics cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit entries processed by the writer pool.
// Label:
//   - result: "written" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit trail entries processed, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the entries waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each writer channel.",
	},
	[]string{"worker_id"},
)

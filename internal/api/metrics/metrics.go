// Package metrics defines and registers all custom Prometheus metrics for
// the account service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Registration happens at import time via promauto; the router only needs to
// expose the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// SignupsTotal counts sign-up attempts.
// Labels:
//   - logintype: "email" or "google"
//   - result: "created", "returning" (google upsert resolved to an existing
//     user), "conflict", or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up attempts, by login type and result.",
	},
	[]string{"logintype", "result"},
)

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "success", "not_found", "invalid_credentials", or "error"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts gate middleware outcomes.
// Labels:
//   - class: "public", "api", or "page"
//   - outcome: "allowed", "missing_token", "expired", "invalid_signature",
//     or "malformed"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of gate middleware decisions, by route class and outcome.",
	},
	[]string{"class", "outcome"},
)

// UserCacheTotal counts user-listing cache lookups.
// Label:
//   - result: "hit" or "miss"
var UserCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_total",
		Help:      "Total number of user listing cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

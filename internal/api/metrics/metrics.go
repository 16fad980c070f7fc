// Package metrics defines and registers all custom Prometheus metrics for
// the quotation API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quotation"

// QuotationsCreatedTotal counts newly created quotations.
// Label:
//   - taxation_type: "none", "gst", "pst" or "both"
var QuotationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotations_created_total",
		Help:      "Total number of quotations created, by taxation type.",
	},
	[]string{"taxation_type"},
)

// TransitionsTotal counts applied status transitions.
// Label:
//   - target: the status the record entered
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of status transitions applied, by target status.",
	},
	[]string{"target"},
)

// TransitionErrorsTotal counts rejected status changes.
// Label:
//   - reason: short failure class (e.g. "illegal_transition", "forbidden", "conflict")
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of status changes rejected before commit.",
	},
	[]string{"reason"},
)

// BulkItemsTotal counts per-item outcomes of bulk batches.
// Labels:
//   - action: "approve", "reject" or "delete"
//   - result: "succeeded" or "failed"
var BulkItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_items_total",
		Help:      "Total number of bulk batch items processed, by action and result.",
	},
	[]string{"action", "result"},
)

// EmailsTotal counts outbound quotation emails.
// Label:
//   - result: "sent", "failed" or "suppressed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of quotation email deliveries attempted, by result.",
	},
	[]string{"result"},
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the AI subsystem. Fallbacks are labeled by kind so the
// parse-default and the network-default stay distinguishable on dashboards.
var (
	ModelCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_model_calls_total",
		Help: "Requests issued to the generative model API.",
	})

	ModelFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_model_failures_total",
		Help: "Model API calls that errored or returned no text.",
	})

	ScoreFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_score_fallbacks_total",
		Help: "Priority scores that fell back to a default value.",
	}, []string{"kind"}) // kind: network | parse

	PriorityUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_priority_updates_total",
		Help: "Task priorities persisted by the distribution endpoint.",
	})

	SummaryFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_summary_fallbacks_total",
		Help: "Daily summaries served from the static fallback string.",
	})
)

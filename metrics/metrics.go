// Package metrics registers the prometheus counters the orchestrator
// increments around each template evaluation, in the style of Caddy's
// own admin metrics (caddy.go's metrics registration via
// prometheus/client_golang).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// EvaluationsTotal counts template evaluations, labeled by
	// outcome ("success" or "failure").
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reporttpl",
		Name:      "evaluations_total",
		Help:      "Count of template evaluations by outcome.",
	}, []string{"outcome"})

	// VariablesEvaluatedTotal counts individual variable evaluations
	// across all templates.
	VariablesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reporttpl",
		Name:      "variables_evaluated_total",
		Help:      "Count of variables evaluated across all templates.",
	})

	// ErrorsTotal counts evaluation errors, labeled by the Go type
	// name of the error taxonomy member raised.
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reporttpl",
		Name:      "errors_total",
		Help:      "Count of evaluation errors by error kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(EvaluationsTotal, VariablesEvaluatedTotal, ErrorsTotal)
}

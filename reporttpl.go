// Package reporttpl evaluates declarative report templates: it loads
// named data sources, resolves and evaluates the variables a template
// declares in dependency order, and renders the template's content
// blocks against the resulting environment. The package is a library
// only — an HTTP handler, CLI, or test harness is the caller's
// responsibility, matching the distilled specification's scope.
package reporttpl

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/metrics"
	"github.com/reporttpl/reporttpl/resolve"
)

// Evaluate runs a template end to end: load sources, build variables
// and content, resolve the variable dependency graph, evaluate it into
// an environment, render every content block, and assemble the
// response. rc may be nil, in which case a fresh Context with a no-op
// logger is created for the call.
func Evaluate(ctx context.Context, rc *Context, tmpl Template) (resp *Response, err error) {
	if rc == nil {
		rc = NewContext(nil)
	}
	log := rc.Logger()

	defer func() {
		if err != nil {
			metrics.EvaluationsTotal.WithLabelValues("failure").Inc()
			metrics.ErrorsTotal.WithLabelValues(fmt.Sprintf("%T", err)).Inc()
			log.Warn("template evaluation failed", zap.Error(err))
		} else {
			metrics.EvaluationsTotal.WithLabelValues("success").Inc()
		}
	}()

	sources, err := buildSources(tmpl.DataSources, rc)
	if err != nil {
		return nil, err
	}

	vars, err := buildVariables(tmpl.Variables, tmpl.Imports)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New()
	if err := resolver.AddMany(vars); err != nil {
		return nil, err
	}

	evaluated, env, err := resolver.Evaluate(ctx, sources)
	if err != nil {
		return nil, err
	}
	metrics.VariablesEvaluatedTotal.Add(float64(len(evaluated)))

	formatters := make(map[string]*exprlang.LazyExpr, len(evaluated))
	for _, ev := range evaluated {
		if ev.Formatter != nil {
			formatters[ev.Name] = ev.Formatter
		}
	}

	blocks, err := buildContent(tmpl.Content, tmpl.Imports)
	if err != nil {
		return nil, err
	}

	renderedContent := make([]any, 0, len(blocks))
	for i, c := range blocks {
		rendered, err := c.EvalResult(env, formatters)
		if err != nil {
			log.Debug("content block evaluation failed", zap.Int("content_index", i), zap.Error(err))
			return nil, err
		}
		renderedContent = append(renderedContent, rendered)
	}

	variableResults := make([]VariableResult, 0, len(evaluated))
	for _, ev := range evaluated {
		variableResults = append(variableResults, VariableResult{Name: ev.Name, Value: ev.Value})
	}

	return &Response{Variables: variableResults, Content: renderedContent}, nil
}

package content

import (
	"encoding/json"

	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/rterr"
)

// allowedPlotTypes is the plot_type whitelist spec requires.
var allowedPlotTypes = map[string]bool{
	"line": true, "bar": true, "pie": true, "scatter": true, "histogram": true,
}

type plotDescriptor struct {
	Kind     string                     `json:"kind"`
	PlotType string                     `json:"plot_type"`
	Data     map[string]json.RawMessage `json:"data"`
}

// plotContent renders a named-series plot: each series is either a
// literal numeric array passed through as-is, or a single expression
// evaluated to a numeric array at render time. Grounded on
// original_source's common_extract_for_column, the same rule
// tableContent applies to its columns.
type plotContent struct {
	plotType string
	columns  *columnSet
}

func newPlotContent(raw []byte, imports []string) (Content, error) {
	var d plotDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if !allowedPlotTypes[d.PlotType] {
		return nil, &rterr.DisallowedConstruct{Construct: "unknown plot type: " + d.PlotType}
	}
	cs, err := parseColumns(d.Data, imports)
	if err != nil {
		return nil, err
	}
	return &plotContent{plotType: d.PlotType, columns: cs}, nil
}

func (c *plotContent) Unbound() []string { return c.columns.unbound() }

func (c *plotContent) EvalResult(env map[string]any, formatters map[string]*exprlang.LazyExpr) (any, error) {
	data, err := c.columns.eval(env, formatters)
	if err != nil {
		return nil, err
	}
	return map[string]any{"data": data, "plot_type": c.plotType}, nil
}

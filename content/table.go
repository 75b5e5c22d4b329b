package content

import (
	"encoding/json"

	"github.com/reporttpl/reporttpl/exprlang"
)

type tableDescriptor struct {
	Kind      string                     `json:"kind"`
	TableType string                     `json:"table_type,omitempty"`
	Data      map[string]json.RawMessage `json:"data"`
}

// tableContent renders a named-column table: each column is either a
// literal numeric array passed through as-is, or a single expression
// evaluated to a numeric array at render time. Grounded on
// original_source's ColumnParseResult / common_extract_for_column.
type tableContent struct {
	tableType string
	columns   *columnSet
}

func newTableContent(raw []byte, imports []string) (Content, error) {
	var d tableDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	cs, err := parseColumns(d.Data, imports)
	if err != nil {
		return nil, err
	}
	return &tableContent{tableType: d.TableType, columns: cs}, nil
}

func (c *tableContent) Unbound() []string { return c.columns.unbound() }

func (c *tableContent) EvalResult(env map[string]any, formatters map[string]*exprlang.LazyExpr) (any, error) {
	data, err := c.columns.eval(env, formatters)
	if err != nil {
		return nil, err
	}
	return map[string]any{"data": data, "table_type": c.tableType}, nil
}

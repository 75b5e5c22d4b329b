package reporttpl

import (
	"encoding/json"

	"github.com/reporttpl/reporttpl/content"
	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/variable"
)

// Template is the wire shape of one report template: the named data
// sources it draws from, the variables it declares (evaluated in
// dependency order), and the content blocks rendered once all
// variables are resolved. Grounded on original_source's
// unmarshal_template orchestrator shape
// (app/template/__init__.py).
type Template struct {
	DataSources []datasource.Descriptor `json:"data_sources,omitempty"`
	Variables   []variable.Descriptor   `json:"variables"`
	Content     []json.RawMessage       `json:"content"`

	// Imports is the template-wide whitelisted prelude (spec's
	// Template.imports): namespace names threaded into every variable
	// and content expression this template parses, alongside whatever
	// inline `import` lines an individual expression names for itself.
	Imports []string `json:"imports,omitempty"`
}

// Response is the evaluated output: every variable's name and final
// value, in evaluation (dependency) order, and every content block's
// rendered result, in declaration order.
type Response struct {
	Variables []VariableResult `json:"variables"`
	Content   []any            `json:"content"`
}

// VariableResult is one entry of Response.Variables.
type VariableResult struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func buildSources(descs []datasource.Descriptor, rc *Context) (map[string]datasource.Source, error) {
	sources := make(map[string]datasource.Source, len(descs))
	for _, d := range descs {
		src, err := datasource.FromDescriptor(d)
		if err != nil {
			return nil, err
		}
		sources[d.Name] = rc.memoizedSource(d.Name, src)
	}
	return sources, nil
}

func buildVariables(descs []variable.Descriptor, imports []string) ([]variable.Variable, error) {
	vars := make([]variable.Variable, 0, len(descs))
	for _, d := range descs {
		v, err := variable.FromDescriptor(d, imports)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func buildContent(raws []json.RawMessage, imports []string) ([]content.Content, error) {
	blocks := make([]content.Content, 0, len(raws))
	for _, raw := range raws {
		c, err := content.Unmarshal(raw, imports)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, c)
	}
	return blocks, nil
}

package content

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/reporttpl/reporttpl/exprlang"
)

// columnSet is the shared data model behind tableContent and
// plotContent: a "data" map whose values are either already-materialized
// numeric arrays (literalCols, passed straight through) or single-
// expression strings (lazyCols, evaluated to a numeric array at render
// time). Grounded on original_source's common_extract_for_column.
type columnSet struct {
	literal map[string][]any
	lazy    map[string]*interpolatedText
}

// parseColumns splits raw's entries into literal and lazy columns. An
// entry that unmarshals as a JSON array is taken as a literal column;
// an entry that unmarshals as a string must interpolate to exactly one
// expression and becomes a lazy column.
func parseColumns(raw map[string]json.RawMessage, imports []string) (*columnSet, error) {
	cs := &columnSet{literal: map[string][]any{}, lazy: map[string]*interpolatedText{}}
	for name, v := range raw {
		var arr []any
		if err := json.Unmarshal(v, &arr); err == nil {
			cs.literal[name] = arr
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("content column %q: must be a numeric array or a single-expression string", name)
		}
		it, err := newInterpolatedText(s, imports)
		if err != nil {
			return nil, err
		}
		if _, err := it.soleExpression(name); err != nil {
			return nil, err
		}
		cs.lazy[name] = it
	}
	return cs, nil
}

func (cs *columnSet) unbound() []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range cs.lazy {
		for _, n := range it.unbound() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func (cs *columnSet) eval(env map[string]any, formatters map[string]*exprlang.LazyExpr) (map[string]any, error) {
	data := make(map[string]any, len(cs.literal)+len(cs.lazy))
	for name, arr := range cs.literal {
		data[name] = arr
	}
	for name, it := range cs.lazy {
		tok := it.order[0]
		val, err := it.evalToken(tok, env, formatters)
		if err != nil {
			return nil, err
		}
		arr, ok := toArray(val)
		if !ok {
			return nil, fmt.Errorf("content column %q: lazy expression did not evaluate to an array", name)
		}
		data[name] = arr
	}
	return data, nil
}

func toArray(val any) ([]any, bool) {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Package content implements the three content renderers a template
// can declare — Html, Plot, and Table — each of which extracts
// "${...}" placeholders from its text fields with the extract package
// and substitutes the evaluated value back in by an exact match on the
// bare token (the resolution of spec's delimiter Open Question: no
// "${...}" rewrapping at replacement time). A placeholder that is a
// bare reference to a single variable — no function call anywhere in
// it, and whose evaluated value's runtime type still matches the
// bound variable's — is rendered through that variable's formatter
// instead of its raw value, the sole-dependency + runtime-type-match
// rule spec's Open Question 2 resolves. Grounded on original_source's
// app/template/content/__init__.py.
package content

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/extract"
	"github.com/reporttpl/reporttpl/rterr"
)

// Content is the uniform capability set the orchestrator drives after
// all variables have been resolved: every content block can report
// its remaining dependencies and render itself into a JSON-able
// result. formatters carries each resolved variable's still-unapplied
// formatter, keyed by variable name, so a content block can apply one
// at render time.
type Content interface {
	Unbound() []string
	EvalResult(env map[string]any, formatters map[string]*exprlang.LazyExpr) (any, error)
}

// Unmarshal parses one content descriptor and constructs the concrete
// Content its kind names. imports is the template-wide whitelisted
// prelude (spec's Template.imports) threaded into every expression
// this content block parses.
func Unmarshal(raw []byte, imports []string) (Content, error) {
	var disc struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	switch disc.Kind {
	case "html":
		return newHTMLContent(raw, imports)
	case "plot":
		return newPlotContent(raw, imports)
	case "table":
		return newTableContent(raw, imports)
	default:
		return nil, &rterr.DisallowedConstruct{Construct: "unknown content kind: " + disc.Kind}
	}
}

// interpolatedText is the shared machinery behind all three content
// kinds: a text that may carry one or more "${...}" placeholders, each
// parsed once as a LazyExpr and substituted back in at EvalResult time
// by an exact match on its bare token.
type interpolatedText struct {
	tokenized string
	exprs     map[string]*exprlang.LazyExpr // token -> expression
	order     []string                      // tokens in appearance order
}

func newInterpolatedText(raw string, imports []string) (*interpolatedText, error) {
	res, err := extract.Extract(raw)
	if err != nil {
		return nil, err
	}
	it := &interpolatedText{
		tokenized: res.Text,
		exprs:     map[string]*exprlang.LazyExpr{},
	}
	for _, ph := range res.Placeholders {
		le, err := exprlang.NewWithImports(ph.Expr, imports)
		if err != nil {
			return nil, err
		}
		it.exprs[ph.Token] = le
		it.order = append(it.order, ph.Token)
	}
	return it, nil
}

func (it *interpolatedText) unbound() []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range it.order {
		for _, n := range it.exprs[tok].Unbound() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// evalToken evaluates one placeholder's expression against env. If the
// expression is a bare sole-dependency reference (no function call
// anywhere in it) to a variable whose formatter is known and whose
// evaluated value's runtime type still matches the bound variable's,
// the formatter is applied to the value in place of returning it
// as-is — spec's Open Question 2 resolution.
func (it *interpolatedText) evalToken(tok string, env map[string]any, formatters map[string]*exprlang.LazyExpr) (any, error) {
	le := it.exprs[tok]
	val, err := le.Evaluate(env)
	if err != nil {
		return nil, err
	}
	dep, ok := le.SoleDependency()
	if !ok {
		return val, nil
	}
	bound, boundOK := env[dep]
	if !boundOK || reflect.TypeOf(val) != reflect.TypeOf(bound) {
		return val, nil
	}
	formatter, ok := formatters[dep]
	if !ok || formatter == nil {
		return val, nil
	}
	fn, err := formatter.EvaluateCallable(env)
	if err != nil {
		return nil, err
	}
	return fn(val)
}

// render evaluates every placeholder against env and substitutes its
// string form back into the tokenized text by an exact, literal
// replacement of the token — never re-wrapped in "${...}".
func (it *interpolatedText) render(env map[string]any, formatters map[string]*exprlang.LazyExpr) (string, error) {
	text := it.tokenized
	for _, tok := range it.order {
		val, err := it.evalToken(tok, env, formatters)
		if err != nil {
			return "", err
		}
		text = strings.ReplaceAll(text, tok, toDisplayString(val))
	}
	return text, nil
}

// soleExpression requires the text to carry exactly one placeholder,
// returning its LazyExpr — the lazy-column requirement spec enforces
// for table/plot cells, grounded on common_extract_for_column.
func (it *interpolatedText) soleExpression(column string) (*exprlang.LazyExpr, error) {
	if len(it.order) != 1 {
		return nil, &rterr.ExpectedSingleExpression{Column: column, Got: len(it.order)}
	}
	return it.exprs[it.order[0]], nil
}

func toDisplayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

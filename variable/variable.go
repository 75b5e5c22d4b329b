// Package variable implements the two variable kinds a template can
// declare — LiteralVariable (an expression over already-evaluated
// variables) and PathVariable (a JSONPath query into a named data
// source, optionally preprocessed) — plus the EvaluatedVariable value
// the resolver produces for each. Grounded on original_source's final
// variable model (app/template/variable/model.py): common_parse_expr,
// common_format_impl, common_preprocess_impl and common_verify_impl
// are generalized here into shared helpers both variable kinds call.
package variable

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/rterr"
)

// Variable is the uniform capability set the resolver drives: every
// declared variable can report its name, its unresolved dependencies
// on other variables, can be loaded once those dependencies are bound
// in env, and exposes its (still-unapplied) formatter so the resolver
// can carry it on EvaluatedVariable for content-interpolation time.
type Variable interface {
	Name() string
	Unbound() []string
	Load(ctx context.Context, env map[string]any, sources map[string]datasource.Source) (any, error)
	Formatter() *exprlang.LazyExpr
}

// EvaluatedVariable pairs a variable's resolved value with its name
// and its formatter, the shape the resolver accumulates into the
// evaluation environment and the orchestrator ultimately reports,
// mirroring original_source's EvaluatedVariable dataclass. The
// formatter is carried, not applied: Value is always the raw loaded
// value, and content rendering decides at interpolation time whether
// the formatter applies (spec's sole-dependency + runtime-type-match
// rule).
type EvaluatedVariable struct {
	Name      string
	Value     any
	Formatter *exprlang.LazyExpr
}

// Descriptor is the wire shape of one entry in a template's
// "variables" list; Kind selects whether Unmarshal builds a
// LiteralVariable or a PathVariable.
type Descriptor struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // "literal" | "path"
	Comment string `json:"comment,omitempty"`

	Expr string `json:"expr,omitempty"` // literal

	Source       string `json:"source,omitempty"` // path
	Path         string `json:"path,omitempty"`
	Preprocessor string `json:"preprocessor,omitempty"`

	Formatter string `json:"formatter,omitempty"`
	Validator string `json:"validator,omitempty"`

	// ExpectedType, when set, names the Go shape the variable's value
	// must have once loaded ("string", "int", "float", "bool", "list",
	// "dict"); verified with reflect.TypeOf equality, surfacing
	// rterr.TypeMismatch on violation.
	ExpectedType string `json:"t,omitempty"`
}

// Unmarshal parses one variable descriptor and constructs the
// concrete Variable its kind names.
func Unmarshal(raw []byte, imports []string) (Variable, error) {
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return FromDescriptor(d, imports)
}

// FromDescriptor constructs the concrete Variable a Descriptor names.
// imports is the template-wide whitelisted-namespace prelude (spec's
// Template.imports) threaded into every expression this variable
// parses, alongside whatever inline `import` lines the expression text
// itself names.
func FromDescriptor(d Descriptor, imports []string) (Variable, error) {
	switch d.Kind {
	case "literal":
		return newLiteralVariable(d, imports)
	case "path":
		return newPathVariable(d, imports)
	default:
		return nil, &rterr.DisallowedConstruct{Construct: "unknown variable kind: " + d.Kind}
	}
}

// parseOptionalExpr parses src if non-empty, returning (nil, nil)
// otherwise — the shared form of common_parse_expr for the optional
// formatter/validator/preprocessor fields.
func parseOptionalExpr(src string, imports []string) (*exprlang.LazyExpr, error) {
	if src == "" {
		return nil, nil
	}
	return exprlang.NewWithImports(src, imports)
}

// expectedReflectType maps a Descriptor.ExpectedType name onto the
// reflect.Type a loaded value must match. An empty name performs no
// check.
func expectedReflectType(name string) (reflect.Type, error) {
	switch name {
	case "":
		return nil, nil
	case "string":
		return reflect.TypeOf(""), nil
	case "int":
		return reflect.TypeOf(0), nil
	case "float":
		return reflect.TypeOf(0.0), nil
	case "bool":
		return reflect.TypeOf(false), nil
	case "list":
		return reflect.TypeOf([]any{}), nil
	case "dict":
		return reflect.TypeOf(map[string]any{}), nil
	default:
		return nil, fmt.Errorf("unknown expected type %q", name)
	}
}

// checkExpectedType verifies val's runtime type against expected,
// surfacing rterr.TypeMismatch on a mismatch. A nil expected or nil
// val performs no check.
func checkExpectedType(name string, val any, expected reflect.Type) error {
	if expected == nil || val == nil {
		return nil
	}
	got := reflect.TypeOf(val)
	if got != expected {
		return &rterr.TypeMismatch{Name: name, Expected: expected.String(), Got: got.String()}
	}
	return nil
}

// applyValidator runs an optional validator expression over val,
// rejecting the value if the validator returns the bool false (any
// non-bool result is accepted) — common_verify_impl generalized
// across both variable kinds.
func applyValidator(name string, validator *exprlang.LazyExpr, val any, env map[string]any) error {
	if validator == nil {
		return nil
	}
	fn, err := validator.EvaluateCallable(env)
	if err != nil {
		return err
	}
	ok, err := fn(val)
	if err != nil {
		return &rterr.VerifyFailed{Name: name, Cause: err}
	}
	if b, isBool := ok.(bool); isBool && !b {
		return &rterr.VerifyFailed{Name: name}
	}
	return nil
}

func mergedUnbound(exprs ...*exprlang.LazyExpr) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range exprs {
		if e == nil {
			continue
		}
		for _, n := range e.Unbound() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

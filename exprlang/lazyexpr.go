// Package exprlang implements the sandboxed expression sub-language:
// parsing, a safety-policy walk that rejects assignment/class/function
// definitions while allowing lambdas and walrus sub-expressions, free
// variable (dependency) analysis, and a tree-walking evaluator. It
// reuses Go's own grammar (go/parser/go/ast) as the direct structural
// analogue of how the original implementation reused Python's own
// grammar via the `ast` stdlib module — see SPEC_FULL.md §4 for the
// concept-by-concept mapping.
package exprlang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strings"

	"github.com/reporttpl/reporttpl/exprlang/preludes"
	"github.com/reporttpl/reporttpl/rterr"
)

// LazyExpr is a parsed, analyzed, not-yet-evaluated expression body.
// Evaluation is deferred until the caller has an environment (the
// variables evaluated so far) to bind free references against —
// "lazy" in the same sense as the original's LazyExpr class.
type LazyExpr struct {
	raw      string
	body     *evaluableBody
	imports  map[string]preludes.Namespace
	analysis *analysisResult
}

// New parses and safety-analyzes raw, returning a LazyExpr ready to be
// evaluated against an environment. raw may begin with a leading block
// of import statements (`import "name"` or `import (...)`) naming
// whitelisted prelude namespaces, followed by one or more statements
// ending in an expression.
func New(raw string) (*LazyExpr, error) {
	return NewWithImports(raw, nil)
}

// NewWithImports is New, additionally merging presetImports — template-
// wide whitelisted prelude namespaces threaded in from outside the
// expression text itself (spec's Template.imports prelude) — into the
// expression's resolved imports, alongside whatever inline `import`
// statements the expression's own prelude names. A preset name already
// aliased by an inline import is left as the inline import resolved it.
func NewWithImports(raw string, presetImports []string) (*LazyExpr, error) {
	importSrc, bodySrc := splitImports(raw)

	aliases := map[string]string{}
	if strings.TrimSpace(importSrc) != "" {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, "prelude.go", "package expr\n"+importSrc, 0)
		if err != nil {
			return nil, &rterr.InvalidImport{Detail: err.Error()}
		}
		aliases, err = validateImportsFromFile(f)
		if err != nil {
			return nil, err
		}
	}

	resolved := map[string]preludes.Namespace{}
	for alias, path := range aliases {
		ns, ok := preludes.Lookup(path)
		if !ok {
			return nil, &rterr.InvalidImport{Detail: "namespace not whitelisted: " + path}
		}
		resolved[alias] = ns
	}
	for _, name := range presetImports {
		if _, exists := resolved[name]; exists {
			continue
		}
		ns, ok := preludes.Lookup(name)
		if !ok {
			return nil, &rterr.InvalidImport{Detail: "namespace not whitelisted: " + name}
		}
		resolved[name] = ns
	}

	fset := token.NewFileSet()
	wrapped := "package expr\nfunc __lazy_expr() any {\n" + bodySrc + "\n}\n"
	f, err := parser.ParseFile(fset, "body.go", wrapped, 0)
	if err != nil {
		return nil, &rterr.DisallowedConstruct{Construct: "parse error: " + err.Error()}
	}
	fn := f.Decls[0].(*ast.FuncDecl)
	stmts := fn.Body.List

	an, err := analyzeBody(stmts)
	if err != nil {
		return nil, err
	}
	for alias := range resolved {
		an.imports[alias] = true
	}
	// Re-run free-variable narrowing now that import aliases are
	// known: a SelectorExpr base that is an import alias must not be
	// counted as an unbound reference.
	for alias := range resolved {
		delete(an.unbound, alias)
	}

	return &LazyExpr{
		raw:      raw,
		body:     &evaluableBody{stmts: stmts},
		imports:  resolved,
		analysis: an,
	}, nil
}

func splitImports(raw string) (importSrc, bodySrc string) {
	lines := strings.Split(raw, "\n")
	i := 0
	var importLines []string
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}
		if strings.HasPrefix(trimmed, "import (") {
			importLines = append(importLines, lines[i])
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != ")" {
				importLines = append(importLines, lines[i])
				i++
			}
			if i < len(lines) {
				importLines = append(importLines, lines[i])
				i++
			}
			continue
		}
		if strings.HasPrefix(trimmed, "import ") {
			importLines = append(importLines, lines[i])
			i++
			continue
		}
		break
	}
	return strings.Join(importLines, "\n"), strings.Join(lines[i:], "\n")
}

func validateImportsFromFile(f *ast.File) (map[string]string, error) {
	return validateImports(f.Decls)
}

// Raw returns the expression's original source text.
func (le *LazyExpr) Raw() string { return le.raw }

// Unbound returns the sorted set of free identifiers the expression
// depends on: variables elsewhere in the template that must be
// evaluated before this one.
func (le *LazyExpr) Unbound() []string {
	out := make([]string, 0, len(le.analysis.unbound))
	for n := range le.analysis.unbound {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SoleDependency returns the expression's single free identifier and
// true, or ("", false) if it has zero or more than one, or if the
// expression contains any function-call node (anything beyond the
// implicit arithmetic operators) anywhere in its body.
func (le *LazyExpr) SoleDependency() (string, bool) {
	if le.analysis.hasCall {
		return "", false
	}
	if len(le.analysis.unbound) != 1 {
		return "", false
	}
	for n := range le.analysis.unbound {
		return n, true
	}
	return "", false
}

// WalrusTarget returns the name bound by the expression's last `:=`
// statement, if any.
func (le *LazyExpr) WalrusTarget() (string, bool) {
	if le.analysis.walrusTarget == "" {
		return "", false
	}
	return le.analysis.walrusTarget, true
}

// Evaluate runs the expression against env, which must already carry a
// binding for every name in Unbound().
func (le *LazyExpr) Evaluate(env map[string]any) (any, error) {
	in := &interpreter{imports: le.imports}
	scope := NewEnv(env).child()
	return in.evalBody(le.body, scope)
}

// EvaluateTyped runs the expression and additionally checks that the
// resulting value's type matches expected, returning a TypeMismatch
// error otherwise. A nil expected performs no check.
func (le *LazyExpr) EvaluateTyped(env map[string]any, expected reflect.Type) (any, error) {
	v, err := le.Evaluate(env)
	if err != nil {
		return nil, err
	}
	if expected == nil || v == nil {
		return v, nil
	}
	got := reflect.TypeOf(v)
	if got != expected {
		return nil, &rterr.TypeMismatch{Expected: expected.String(), Got: got.String()}
	}
	return v, nil
}

// EvaluateCallable evaluates the expression and requires the result to
// be a callable value (a *Closure from a FuncLit, or a Go func wired
// in through a prelude namespace) — the shape a formatter, validator,
// or preprocessor expression must take.
func (le *LazyExpr) EvaluateCallable(env map[string]any) (func(args ...any) (any, error), error) {
	v, err := le.Evaluate(env)
	if err != nil {
		return nil, err
	}
	in := &interpreter{imports: le.imports}
	if cl, ok := v.(*Closure); ok {
		return func(args ...any) (any, error) { return cl.Call(in, args) }, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return func(args ...any) (any, error) { return in.call(v, args) }, nil
	}
	return nil, &rterr.InvalidFormatter{Got: reflect.TypeOf(v).String()}
}

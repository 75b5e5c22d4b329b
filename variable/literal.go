package variable

import (
	"context"
	"reflect"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/exprlang"
)

// literalVariable evaluates an expression directly against the
// variables evaluated so far, the Go analogue of original_source's
// LiteralVariable. Its formatter is parsed but never applied here —
// it is deferred to content-interpolation time.
type literalVariable struct {
	name         string
	expr         *exprlang.LazyExpr
	expectedType reflect.Type
	formatter    *exprlang.LazyExpr
	validator    *exprlang.LazyExpr
}

func newLiteralVariable(d Descriptor, imports []string) (Variable, error) {
	expr, err := exprlang.NewWithImports(d.Expr, imports)
	if err != nil {
		return nil, err
	}
	expectedType, err := expectedReflectType(d.ExpectedType)
	if err != nil {
		return nil, err
	}
	formatter, err := parseOptionalExpr(d.Formatter, imports)
	if err != nil {
		return nil, err
	}
	validator, err := parseOptionalExpr(d.Validator, imports)
	if err != nil {
		return nil, err
	}
	return &literalVariable{
		name: d.Name, expr: expr, expectedType: expectedType,
		formatter: formatter, validator: validator,
	}, nil
}

func (v *literalVariable) Name() string { return v.name }

func (v *literalVariable) Unbound() []string {
	return mergedUnbound(v.expr, v.formatter, v.validator)
}

func (v *literalVariable) Formatter() *exprlang.LazyExpr { return v.formatter }

func (v *literalVariable) Load(ctx context.Context, env map[string]any, _ map[string]datasource.Source) (any, error) {
	val, err := v.expr.Evaluate(env)
	if err != nil {
		return nil, err
	}
	if err := checkExpectedType(v.name, val, v.expectedType); err != nil {
		return nil, err
	}
	if err := applyValidator(v.name, v.validator, val, env); err != nil {
		return nil, err
	}
	return val, nil
}

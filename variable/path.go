package variable

import (
	"context"
	"fmt"
	"reflect"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/reporttpl/reporttpl/jsonpath"
	"github.com/reporttpl/reporttpl/rterr"
)

// pathVariable queries a named data source with a JSONPath expression
// and optionally preprocesses and validates the result, the Go
// analogue of original_source's PathVariable. Its formatter is parsed
// but never applied here — it is deferred to content-interpolation
// time.
type pathVariable struct {
	name         string
	source       string
	path         string
	preprocessor *exprlang.LazyExpr
	expectedType reflect.Type
	formatter    *exprlang.LazyExpr
	validator    *exprlang.LazyExpr
}

func newPathVariable(d Descriptor, imports []string) (Variable, error) {
	preprocessor, err := parseOptionalExpr(d.Preprocessor, imports)
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
	return &pathVariable{
		name: d.Name, source: d.Source, path: d.Path,
		preprocessor: preprocessor, expectedType: expectedType,
		formatter: formatter, validator: validator,
	}, nil
}

func (v *pathVariable) Name() string { return v.name }

func (v *pathVariable) Unbound() []string {
	return mergedUnbound(v.preprocessor, v.formatter, v.validator)
}

func (v *pathVariable) Formatter() *exprlang.LazyExpr { return v.formatter }

func (v *pathVariable) Load(ctx context.Context, env map[string]any, sources map[string]datasource.Source) (any, error) {
	src, ok := sources[v.source]
	if !ok {
		return nil, fmt.Errorf("path variable %q references unknown data source %q", v.name, v.source)
	}
	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	val, err := jsonpath.Query(data, v.path)
	if err != nil {
		return nil, err
	}

	if v.preprocessor != nil {
		fn, err := v.preprocessor.EvaluateCallable(env)
		if err != nil {
			return nil, err
		}
		val, err = fn(val)
		if err != nil {
			return nil, &rterr.PreprocessFailed{Name: v.name, Cause: err}
		}
	}

	if err := checkExpectedType(v.name, val, v.expectedType); err != nil {
		return nil, err
	}
	if err := applyValidator(v.name, v.validator, val, env); err != nil {
		return nil, err
	}
	return val, nil
}

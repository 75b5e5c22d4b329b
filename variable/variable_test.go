package variable_test

import (
	"context"
	"testing"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralVariable(t *testing.T) {
	v, err := variable.FromDescriptor(variable.Descriptor{
		Name: "doubled", Kind: "literal", Expr: "total * 2",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"total"}, v.Unbound())

	val, err := v.Load(context.Background(), map[string]any{"total": 21}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestLiteralVariableFormatterIsDeferredNotApplied(t *testing.T) {
	v, err := variable.FromDescriptor(variable.Descriptor{
		Name:      "label",
		Kind:      "literal",
		Expr:      `"value="`,
		Formatter: `func(v any) any { return v + "formatted" }`,
		Validator: `func(v any) any { return true }`,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, v.Formatter())

	val, err := v.Load(context.Background(), map[string]any{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "value=", val, "Load must return the raw value; the formatter is applied at content-interpolation time")
}

func TestLiteralVariableExpectedType(t *testing.T) {
	v, err := variable.FromDescriptor(variable.Descriptor{
		Name: "count", Kind: "literal", Expr: "1", ExpectedType: "string",
	}, nil)
	require.NoError(t, err)

	_, err = v.Load(context.Background(), map[string]any{}, nil)
	require.Error(t, err)
}

func TestPathVariable(t *testing.T) {
	src, err := datasource.FromDescriptor(datasource.Descriptor{
		Name: "inventory", SourceType: "dict", Value: []byte(`{"count": 7}`),
	})
	require.NoError(t, err)

	v, err := variable.FromDescriptor(variable.Descriptor{
		Name: "count", Kind: "path", Source: "inventory", Path: "$.count",
	}, nil)
	require.NoError(t, err)

	val, err := v.Load(context.Background(), map[string]any{}, map[string]datasource.Source{"inventory": src})
	require.NoError(t, err)
	assert.Equal(t, float64(7), val)
}

func TestPathVariableUnknownSource(t *testing.T) {
	v, err := variable.FromDescriptor(variable.Descriptor{
		Name: "count", Kind: "path", Source: "missing", Path: "$.count",
	}, nil)
	require.NoError(t, err)

	_, err = v.Load(context.Background(), map[string]any{}, map[string]datasource.Source{})
	require.Error(t, err)
}

func TestUnknownVariableKind(t *testing.T) {
	_, err := variable.FromDescriptor(variable.Descriptor{Name: "x", Kind: "bogus"}, nil)
	require.Error(t, err)
}

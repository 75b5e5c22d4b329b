package resolve_test

import (
	"context"
	"testing"

	"github.com/reporttpl/reporttpl/resolve"
	"github.com/reporttpl/reporttpl/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVar(t *testing.T, d variable.Descriptor) variable.Variable {
	t.Helper()
	v, err := variable.FromDescriptor(d, nil)
	require.NoError(t, err)
	return v
}

func TestResolveOrdersByDependency(t *testing.T) {
	r := resolve.New()
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "base", Kind: "literal", Expr: "10"})))
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "doubled", Kind: "literal", Expr: "base * 2"})))
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "quadrupled", Kind: "literal", Expr: "doubled * 2"})))

	evaluated, env, err := r.Evaluate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, evaluated, 3)
	assert.Equal(t, "base", evaluated[0].Name)
	assert.Equal(t, "doubled", evaluated[1].Name)
	assert.Equal(t, "quadrupled", evaluated[2].Name)
	assert.Equal(t, 40, env["quadrupled"])
}

func TestResolveDuplicateName(t *testing.T) {
	r := resolve.New()
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "x", Kind: "literal", Expr: "1"})))
	err := r.Add(mustVar(t, variable.Descriptor{Name: "x", Kind: "literal", Expr: "2"}))
	require.Error(t, err)
}

func TestResolveUnboundAcrossTemplate(t *testing.T) {
	r := resolve.New()
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "a", Kind: "literal", Expr: "missing + 1"})))

	_, _, err := r.Evaluate(context.Background(), nil)
	require.Error(t, err)
}

func TestResolveCyclicDependency(t *testing.T) {
	r := resolve.New()
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "a", Kind: "literal", Expr: "b + 1"})))
	require.NoError(t, r.Add(mustVar(t, variable.Descriptor{Name: "b", Kind: "literal", Expr: "a + 1"})))

	_, _, err := r.Evaluate(context.Background(), nil)
	require.Error(t, err)
}

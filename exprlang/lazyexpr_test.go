package exprlang_test

import (
	"testing"

	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	le, err := exprlang.New("1 + 2 * 3")
	require.NoError(t, err)
	assert.Empty(t, le.Unbound())

	v, err := le.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestUnboundDependency(t *testing.T) {
	le, err := exprlang.New("a + b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, le.Unbound())

	_, ok := le.SoleDependency()
	assert.False(t, ok)

	v, err := le.Evaluate(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestSoleDependency(t *testing.T) {
	le, err := exprlang.New("total * 2")
	require.NoError(t, err)
	dep, ok := le.SoleDependency()
	require.True(t, ok)
	assert.Equal(t, "total", dep)
}

func TestWalrusTarget(t *testing.T) {
	le, err := exprlang.New("doubled := total * 2\ndoubled + 1")
	require.NoError(t, err)
	target, ok := le.WalrusTarget()
	require.True(t, ok)
	assert.Equal(t, "doubled", target)

	v, err := le.Evaluate(map[string]any{"total": 5})
	require.NoError(t, err)
	assert.Equal(t, 11, v)
}

func TestLambdaAndMapBuiltin(t *testing.T) {
	le, err := exprlang.New(`map(func(x any) any { return x * 2 }, xs)`)
	require.NoError(t, err)
	assert.Equal(t, []string{"xs"}, le.Unbound())

	v, err := le.Evaluate(map[string]any{"xs": []any{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []any{2, 4, 6}, v)
}

func TestPreludeImport(t *testing.T) {
	le, err := exprlang.New("import \"strings\"\nstrings.upper(name)")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, le.Unbound())

	v, err := le.Evaluate(map[string]any{"name": "abby"})
	require.NoError(t, err)
	assert.Equal(t, "ABBY", v)
}

func TestDisallowedAssignment(t *testing.T) {
	_, err := exprlang.New("x = 1\nx")
	require.Error(t, err)
}

func TestEmptyExpression(t *testing.T) {
	_, err := exprlang.New("")
	require.Error(t, err)
}

func TestNotAnExpressionTrailer(t *testing.T) {
	_, err := exprlang.New("x := 1")
	require.Error(t, err)
}

func TestDisallowedImport(t *testing.T) {
	_, err := exprlang.New("import \"os\"\nos.Getenv(\"X\")")
	require.Error(t, err)
}

func TestCallableFormatter(t *testing.T) {
	le, err := exprlang.New(`func(v any) any { return v + 1 }`)
	require.NoError(t, err)
	fn, err := le.EvaluateCallable(nil)
	require.NoError(t, err)
	v, err := fn(41)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

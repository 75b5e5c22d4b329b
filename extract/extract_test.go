package extract_test

import (
	"testing"

	"github.com/reporttpl/reporttpl/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSingle(t *testing.T) {
	res, err := extract.Extract("Total: ${total}")
	require.NoError(t, err)
	require.Len(t, res.Placeholders, 1)
	assert.Equal(t, "total", res.Placeholders[0].Expr)
	assert.Contains(t, res.Text, res.Placeholders[0].Token)
	assert.NotContains(t, res.Text, "${")
}

func TestExtractNestedBraces(t *testing.T) {
	res, err := extract.Extract(`${dict("a", 1)["a"]}`)
	require.NoError(t, err)
	require.Len(t, res.Placeholders, 1)
	assert.Equal(t, `dict("a", 1)["a"]`, res.Placeholders[0].Expr)
}

func TestExtractNestedMapLiteral(t *testing.T) {
	res, err := extract.Extract(`${map[string]any{"a": 1}["a"]}`)
	require.NoError(t, err)
	require.Len(t, res.Placeholders, 1)
	assert.Equal(t, `map[string]any{"a": 1}["a"]`, res.Placeholders[0].Expr)
}

func TestExtractMultiple(t *testing.T) {
	res, err := extract.Extract("${a} and ${b}")
	require.NoError(t, err)
	require.Len(t, res.Placeholders, 2)
	assert.Equal(t, "a", res.Placeholders[0].Expr)
	assert.Equal(t, "b", res.Placeholders[1].Expr)
}

func TestExtractUnmatchedBraces(t *testing.T) {
	_, err := extract.Extract("${unterminated")
	require.Error(t, err)
}

func TestExtractEmptyExpression(t *testing.T) {
	_, err := extract.Extract("${}")
	require.Error(t, err)
}

func TestExtractNoPlaceholders(t *testing.T) {
	res, err := extract.Extract("plain text")
	require.NoError(t, err)
	assert.Empty(t, res.Placeholders)
	assert.Equal(t, "plain text", res.Text)
}

func TestExtractTokenStable(t *testing.T) {
	res1, err := extract.Extract("${x + 1}")
	require.NoError(t, err)
	res2, err := extract.Extract("${x + 1}")
	require.NoError(t, err)
	assert.Equal(t, res1.Placeholders[0].Token, res2.Placeholders[0].Token)
}

package content_test

import (
	"testing"

	"github.com/reporttpl/reporttpl/content"
	"github.com/reporttpl/reporttpl/exprlang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLContent(t *testing.T) {
	c, err := content.Unmarshal([]byte(`{"kind":"html","tag":"p","content":"Total: ${total} units"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"total"}, c.Unbound())

	out, err := c.EvalResult(map[string]any{"total": 42}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tag": "p", "text": "Total: 42 units", "style": nil}, out)
}

func TestHTMLContentMultiplePlaceholders(t *testing.T) {
	c, err := content.Unmarshal([]byte(`{"kind":"html","tag":"p","content":"${a} + ${b} = ${a} plus ${b}"}`), nil)
	require.NoError(t, err)

	out, err := c.EvalResult(map[string]any{"a": 1, "b": 2}, nil)
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, "1 + 2 = 1 plus 2", result["text"])
}

func TestHTMLContentRejectsUnknownTag(t *testing.T) {
	_, err := content.Unmarshal([]byte(`{"kind":"html","tag":"span","content":"hi"}`), nil)
	require.Error(t, err)
}

func TestHTMLContentWithStyle(t *testing.T) {
	c, err := content.Unmarshal([]byte(`{"kind":"html","tag":"h1","content":"hi","style":{"color":"red"}}`), nil)
	require.NoError(t, err)

	out, err := c.EvalResult(map[string]any{}, nil)
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, "h1", result["tag"])
	assert.Equal(t, map[string]any{"color": "red"}, result["style"])
}

func TestTableContent(t *testing.T) {
	c, err := content.Unmarshal([]byte(`{
		"kind":"table",
		"table_type":"rows",
		"data":{
			"count":"${total}",
			"label":[1,2,3]
		}
	}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"total"}, c.Unbound())

	out, err := c.EvalResult(map[string]any{"total": []any{3, 4}}, nil)
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, "rows", result["table_type"])
	data := result["data"].(map[string]any)
	assert.Equal(t, []any{3, 4}, data["count"])
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, data["label"])
}

func TestTableContentRejectsMultiExpressionColumn(t *testing.T) {
	_, err := content.Unmarshal([]byte(`{
		"kind":"table",
		"data":{"bad":"${a} ${b}"}
	}`), nil)
	require.Error(t, err)
}

func TestPlotContent(t *testing.T) {
	c, err := content.Unmarshal([]byte(`{
		"kind":"plot",
		"plot_type":"line",
		"data":{"x":"${xs}","y":[1,2,3]}
	}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"xs"}, c.Unbound())

	out, err := c.EvalResult(map[string]any{"xs": []any{1, 2}}, nil)
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, "line", result["plot_type"])
	data := result["data"].(map[string]any)
	assert.Equal(t, []any{1, 2}, data["x"])
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, data["y"])
}

func TestPlotContentRejectsUnknownType(t *testing.T) {
	_, err := content.Unmarshal([]byte(`{"kind":"plot","plot_type":"bogus","data":{}}`), nil)
	require.Error(t, err)
}

func TestUnknownContentKind(t *testing.T) {
	_, err := content.Unmarshal([]byte(`{"kind":"bogus"}`), nil)
	require.Error(t, err)
}

func TestHTMLContentAppliesFormatterOnSoleDependency(t *testing.T) {
	formatter, err := exprlang.New(`func(v any) any { return v + 1 }`)
	require.NoError(t, err)

	c, err := content.Unmarshal([]byte(`{"kind":"html","tag":"p","content":"pi=${pi}"}`), nil)
	require.NoError(t, err)

	out, err := c.EvalResult(
		map[string]any{"pi": 3},
		map[string]*exprlang.LazyExpr{"pi": formatter},
	)
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, "pi=4", result["text"])
}

package reporttpl_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/reporttpl/reporttpl"
	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"count": 5}`), 0o644))

	tmpl := reporttpl.Template{
		DataSources: []datasource.Descriptor{
			{Name: "inventory", SourceType: "file", Path: path},
		},
		Variables: []variable.Descriptor{
			{Name: "count", Kind: "path", Source: "inventory", Path: "$.count"},
			{Name: "doubled", Kind: "literal", Expr: "count * 2"},
		},
		Content: []json.RawMessage{
			json.RawMessage(`{"kind":"html","tag":"p","content":"We have ${doubled} items"}`),
		},
	}

	resp, err := reporttpl.Evaluate(context.Background(), nil, tmpl)
	require.NoError(t, err)

	require.Len(t, resp.Variables, 2)
	assert.Equal(t, "count", resp.Variables[0].Name)
	assert.Equal(t, float64(5), resp.Variables[0].Value)
	assert.Equal(t, "doubled", resp.Variables[1].Name)
	assert.Equal(t, float64(10), resp.Variables[1].Value)

	require.Len(t, resp.Content, 1)
	content := resp.Content[0].(map[string]any)
	assert.Equal(t, "We have 10 items", content["text"])
}

func TestEvaluateUnboundVariableFails(t *testing.T) {
	tmpl := reporttpl.Template{
		Variables: []variable.Descriptor{
			{Name: "a", Kind: "literal", Expr: "missing + 1"},
		},
	}
	_, err := reporttpl.Evaluate(context.Background(), nil, tmpl)
	require.Error(t, err)
}

func TestEvaluateWithExplicitContext(t *testing.T) {
	rc := reporttpl.NewContext(nil)
	tmpl := reporttpl.Template{
		Variables: []variable.Descriptor{
			{Name: "one", Kind: "literal", Expr: "1"},
		},
	}
	resp, err := reporttpl.Evaluate(context.Background(), rc, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Variables[0].Value)
}

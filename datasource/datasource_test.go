package datasource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictSource(t *testing.T) {
	raw := []byte(`{"name":"widgets","source_type":"dict","value":{"count":3}}`)
	src, err := datasource.Unmarshal(raw)
	require.NoError(t, err)

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": float64(3)}, data)
}

func TestDictSourceSchemaValidationFails(t *testing.T) {
	raw := []byte(`{
		"name":"widgets",
		"source_type":"dict",
		"value":{"count":"three"},
		"json_schema":{"type":"object","properties":{"count":{"type":"number"}},"required":["count"]}
	}`)
	src, err := datasource.Unmarshal(raw)
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o644))

	src, err := datasource.FromDescriptor(datasource.Descriptor{
		Name: "f", SourceType: "file", Path: path,
	})
	require.NoError(t, err)

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, data)
}

func TestUnknownSourceType(t *testing.T) {
	_, err := datasource.Unmarshal([]byte(`{"name":"x","source_type":"bogus"}`))
	require.Error(t, err)
}

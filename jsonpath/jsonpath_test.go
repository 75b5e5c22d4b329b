package jsonpath_test

import (
	"testing"

	"github.com/reporttpl/reporttpl/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySimpleField(t *testing.T) {
	data := map[string]any{"name": "widget"}
	v, err := jsonpath.Query(data, "$.name")
	require.NoError(t, err)
	assert.Equal(t, "widget", v)
}

func TestQueryNestedAndIndex(t *testing.T) {
	data := map[string]any{
		"items": []any{
			map[string]any{"id": 1},
			map[string]any{"id": 2},
		},
	}
	v, err := jsonpath.Query(data, "$.items[0].id")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v)
}

func TestQueryNoMatch(t *testing.T) {
	data := map[string]any{"name": "widget"}
	_, err := jsonpath.Query(data, "$.missing")
	require.Error(t, err)
}

func TestQueryInvalidPath(t *testing.T) {
	data := map[string]any{"name": "widget"}
	_, err := jsonpath.Query(data, "$.[[[")
	require.Error(t, err)
}

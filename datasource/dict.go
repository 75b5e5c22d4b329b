package datasource

import (
	"context"
	"encoding/json"

	"github.com/reporttpl/reporttpl/rterr"
)

func init() {
	register("dict", newDictSource)
}

// dictSource wraps an inline JSON value already present in the
// template, the Go analogue of original_source's JsonSource/dict
// source_type.
type dictSource struct {
	name   string
	value  json.RawMessage
	schema json.RawMessage
}

func newDictSource(d Descriptor) (Source, error) {
	return &dictSource{name: d.Name, value: d.Value, schema: d.JSONSchema}, nil
}

func (s *dictSource) Load(ctx context.Context) (any, error) {
	var data any
	if err := json.Unmarshal(s.value, &data); err != nil {
		return nil, &rterr.SourceLoadFailed{Source: s.name, Cause: err}
	}
	if err := Verify(s.name, data, s.schema); err != nil {
		return nil, err
	}
	return data, nil
}

// Package datasource implements the SourceLoader boundary: loading
// already-materialized data (file/api/dict) that path-based variables
// query. Dispatch on the "source_type" discriminator follows the same
// registry idiom as Caddy's module system (modules.go's
// RegisterModule/GetModule), generalized here from Caddy's
// string-keyed Module registry to a closed set of source kinds.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
)

// Source is the boundary a variable's Load calls through to fetch
// already-materialized data before a JSONPath query runs against it.
type Source interface {
	// Load fetches and returns the source's data, already validated
	// against its optional JSON Schema.
	Load(ctx context.Context) (any, error)
}

// Descriptor is the wire shape of one named data source in a
// template's "data_sources" list. SourceType selects which concrete
// Source implementation Unmarshal produces; exactly one of the
// type-specific fields is meaningful for a given SourceType.
type Descriptor struct {
	Name       string          `json:"name"`
	SourceType string          `json:"source_type"`
	Comment    string          `json:"comment,omitempty"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`

	Path string `json:"path,omitempty"` // file

	URL     string            `json:"url,omitempty"` // api
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`

	Value json.RawMessage `json:"value,omitempty"` // dict
}

type factory func(d Descriptor) (Source, error)

var registry = map[string]factory{}

// register adds a factory for a source_type value; called from each
// concrete source's init.
func register(sourceType string, f factory) {
	registry[sourceType] = f
}

// Unmarshal parses raw JSON into a Descriptor and constructs the
// concrete Source its source_type names.
func Unmarshal(raw []byte) (Source, error) {
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("datasource: %w", err)
	}
	return FromDescriptor(d)
}

// FromDescriptor constructs the concrete Source a Descriptor names.
func FromDescriptor(d Descriptor) (Source, error) {
	f, ok := registry[d.SourceType]
	if !ok {
		return nil, fmt.Errorf("datasource: unknown source_type %q", d.SourceType)
	}
	return f(d)
}

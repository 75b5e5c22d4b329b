package datasource

import (
	"context"
	"encoding/json"
	"os"

	"github.com/reporttpl/reporttpl/rterr"
)

func init() {
	register("file", newFileSource)
}

// fileSource loads JSON data from a path on disk, the Go analogue of
// original_source's FileDataSource reading via aiofiles.
type fileSource struct {
	name   string
	path   string
	schema json.RawMessage
}

func newFileSource(d Descriptor) (Source, error) {
	return &fileSource{name: d.Name, path: d.Path, schema: d.JSONSchema}, nil
}

func (s *fileSource) Load(ctx context.Context) (any, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &rterr.SourceLoadFailed{Source: s.name, Cause: err}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &rterr.SourceLoadFailed{Source: s.name, Cause: err}
	}
	if err := Verify(s.name, data, s.schema); err != nil {
		return nil, err
	}
	return data, nil
}

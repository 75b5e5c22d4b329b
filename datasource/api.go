package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/reporttpl/reporttpl/rterr"
)

func init() {
	register("api", newAPISource)
}

// apiSource loads JSON data from an HTTP endpoint, the Go analogue of
// original_source's APISource using httpx.AsyncClient.
type apiSource struct {
	name    string
	url     string
	method  string
	headers map[string]string
	body    json.RawMessage
	schema  json.RawMessage
	client  *http.Client
}

func newAPISource(d Descriptor) (Source, error) {
	method := d.Method
	if method == "" {
		method = http.MethodGet
	}
	return &apiSource{
		name:    d.Name,
		url:     d.URL,
		method:  method,
		headers: d.Headers,
		body:    d.Body,
		schema:  d.JSONSchema,
		client:  http.DefaultClient,
	}, nil
}

func (s *apiSource) Load(ctx context.Context) (any, error) {
	var bodyReader io.Reader
	if len(s.body) > 0 {
		bodyReader = bytes.NewReader(s.body)
	}
	req, err := http.NewRequestWithContext(ctx, s.method, s.url, bodyReader)
	if err != nil {
		return nil, &rterr.SourceLoadFailed{Source: s.name, Cause: err}
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &rterr.SourceLoadFailed{Source: s.name, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
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

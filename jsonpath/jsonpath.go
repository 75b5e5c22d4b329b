// Package jsonpath implements the pathQuery boundary collaborator:
// evaluating a JSONPath expression against an already-materialized
// mapping. It adapts the standard "$.foo.bar[0]" dollar-rooted syntax
// onto k8s.io/client-go/util/jsonpath's "{.foo.bar[0]}" template
// syntax, reusing the JSONPath engine the pack's sthielo-client-go
// repo ships rather than hand-rolling a path evaluator. The package's
// public surface is Execute-to-writer rather than a FindResults-style
// reflect.Value accessor, so matches are captured by asking the
// template engine for its JSON-formatted rendering and decoding that
// back into a plain Go value.
package jsonpath

import (
	"bytes"
	"encoding/json"
	"strings"

	k8sjsonpath "k8s.io/client-go/util/jsonpath"

	"github.com/reporttpl/reporttpl/rterr"
)

// Query evaluates pathExpr (e.g. "$.items[0].name" or ".items[*].id")
// against data and returns the matched value: a single match is
// returned as-is (scalar/map/slice), several matches as a []any in
// match order. NoMatch is returned when the path names a missing key
// or resolves to null; a wildcard over an empty array yields an empty
// []any rather than NoMatch.
func Query(data any, pathExpr string) (any, error) {
	tmpl := toTemplate(pathExpr)

	jp := k8sjsonpath.New("pathQuery").EnableJSONOutput(true)
	if err := jp.Parse(tmpl); err != nil {
		return nil, &rterr.InvalidPath{Path: pathExpr, Cause: err}
	}

	var buf bytes.Buffer
	if err := jp.Execute(&buf, data); err != nil {
		return nil, &rterr.NoMatch{Path: pathExpr}
	}

	out := strings.TrimSpace(buf.String())
	if out == "" || out == "null" {
		return nil, &rterr.NoMatch{Path: pathExpr}
	}

	var v any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return nil, &rterr.InvalidPath{Path: pathExpr, Cause: err}
	}

	if arr, ok := v.([]any); ok && len(arr) == 1 {
		return arr[0], nil
	}
	return v, nil
}

// toTemplate converts a "$."-rooted JSONPath expression into the
// "{...}" template syntax client-go's jsonpath parser expects.
func toTemplate(pathExpr string) string {
	p := strings.TrimSpace(pathExpr)
	p = strings.TrimPrefix(p, "$")
	if !strings.HasPrefix(p, ".") && !strings.HasPrefix(p, "[") {
		p = "." + p
	}
	return "{" + p + "}"
}

package datasource

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/reporttpl/reporttpl/rterr"
)

// Verify validates data against an optional JSON Schema. A nil/empty
// schema is a no-op, matching original_source's sources that carry no
// schema at all.
func Verify(name string, data any, schema json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	docLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &rterr.VerifyFailed{Name: name, Cause: err}
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &rterr.VerifyFailed{Name: name, Cause: &schemaViolation{messages: msgs}}
	}
	return nil
}

type schemaViolation struct{ messages []string }

func (e *schemaViolation) Error() string {
	s := ""
	for i, m := range e.messages {
		if i > 0 {
			s += "; "
		}
		s += m
	}
	return s
}

// Package schema turns configuration structs into JSON schema documents so
// callers can author and validate pipeline configs outside the process.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// ToJSONSchema converts a struct to a JSON schema document.
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	s := r.Reflect(t)

	schemaBytes, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSchemaGeneration, "failed to marshal schema", err)
	}

	return string(schemaBytes), nil
}

package typemodel

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema returns the JSON Schema describing the model file format.
func JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}

	schema := reflector.Reflect(&File{})
	schema.Title = "core-schemagen type model"
	schema.Description = "Type declarations of one package, used in place of Go source"

	return json.MarshalIndent(schema, "", "  ")
}

package manifest

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchemaJSON is deliberately permissive: it pins the types of the
// known keys but requires none of them, so a manifest without a files
// list is accepted while a files string or numeric name is rejected.
const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "version": {"type": "string"},
    "files": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "sha256": {"type": "string"},
          "signature": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func manifestSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("cdf-meta.schema.json", strings.NewReader(manifestSchemaJSON)); err != nil {
			panic(err)
		}
		schema = c.MustCompile("cdf-meta.schema.json")
	})
	return schema
}

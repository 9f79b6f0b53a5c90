// internal/appconfig/validate.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of config.json before it is unmarshalled,
// so a typo'd key type fails at startup instead of silently defaulting.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "ollamaBinary":       { "type": "string" },
    "registryUrl":        { "type": "string" },
    "cacheDir":           { "type": "string" },
    "cacheTtlHours":      { "type": "integer", "minimum": 1 },
    "psRefreshSeconds":   { "type": "integer", "minimum": 1 },
    "httpTimeoutSeconds": { "type": "integer", "minimum": 1 },
    "logFile":            { "type": "string" },
    "debug":              { "type": "boolean" }
  }
}`

// ValidateJSON checks raw config file contents against the embedded schema.
func ValidateJSON(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("config failed validation: %s", strings.Join(details, "; "))
}

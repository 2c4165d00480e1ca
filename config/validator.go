package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/sensorbuf/errors"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Schema returns the JSON Schema that configuration documents must satisfy.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// ValidationError describes one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDocument checks a decoded JSON or YAML document against the schema.
// It returns nil when the document is valid.
func ValidateDocument(doc map[string]any) ([]ValidationError, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, errors.WrapInvalid(err, "config", "ValidateDocument", "schema evaluation")
	}

	if result.Valid() {
		return nil, nil
	}

	validationErrors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		validationErrors = append(validationErrors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return validationErrors, nil
}

// schemaError folds validation errors into one ErrInvalidConfig error.
func schemaError(path string, validationErrors []ValidationError) error {
	parts := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		parts[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s: %s", errors.ErrInvalidConfig, path, strings.Join(parts, "; "))
}

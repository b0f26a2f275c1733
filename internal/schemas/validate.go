// Package schemas provides JSON Schema validation for provider replies and profile documents.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed report.schema.json
	reportSchema string
	//go:embed profile.schema.json
	profileSchema string
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// compiled holds a schema parsed once on first use.
type compiled struct {
	name   string
	source string
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func (c *compiled) load() (*gojsonschema.Schema, error) {
	c.once.Do(func() {
		c.schema, c.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(c.source))
	})
	if c.err != nil {
		return nil, &SchemaLoadError{Path: c.name, Message: "invalid embedded schema", Cause: c.err}
	}
	return c.schema, nil
}

var (
	reportCompiled  = &compiled{name: "report.schema.json", source: reportSchema}
	profileCompiled = &compiled{name: "profile.schema.json", source: profileSchema}
)

// ValidateReportJSON checks a provider reply against the report schema.
func ValidateReportJSON(jsonContent string) error {
	return validateCompiled(reportCompiled, jsonContent)
}

// ValidateProfileJSON checks a profile document against the profile schema.
func ValidateProfileJSON(jsonContent string) error {
	return validateCompiled(profileCompiled, jsonContent)
}

func validateCompiled(c *compiled, jsonContent string) error {
	schema, err := c.load()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", c.name, err)
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var profileSchema string

// SchemaError lists every field that failed schema validation.
type SchemaError struct {
	Fields []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("profile does not match schema:")
	for _, f := range e.Fields {
		fmt.Fprintf(&sb, "\n  %s: %s", f.Field, f.Message)
	}
	return sb.String()
}

// ValidateSchema checks a decoded profile document against the embedded
// JSON schema.
func ValidateSchema(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(profileSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating profile: %w", err)
	}
	if result.Valid() {
		return nil
	}

	se := &SchemaError{Fields: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		se.Fields = append(se.Fields, FieldError{Field: field, Message: desc.Description()})
	}
	return se
}

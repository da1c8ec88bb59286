package overrides

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports overrides-file contents that violate the schema.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("overrides file %s failed schema validation: %s",
		e.Path, strings.Join(e.Issues, "; "))
}

// ValidateOverrides validates the overrides document against the JSON
// schema. Schema load failures and validation failures are both errors:
// a malformed correction file must stop the merge before any overlay
// happens.
func ValidateOverrides(schemaPath, documentPath string) error {
	schemaAbs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path %s: %w", schemaPath, err)
	}
	docAbs, err := filepath.Abs(documentPath)
	if err != nil {
		return fmt.Errorf("failed to resolve overrides path %s: %w", documentPath, err)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbs))
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(docAbs))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate overrides %s against schema %s: %w",
			documentPath, schemaPath, err)
	}

	if !result.Valid() {
		verr := &ValidationError{Path: documentPath}
		for _, desc := range result.Errors() {
			verr.Issues = append(verr.Issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return verr
	}

	return nil
}

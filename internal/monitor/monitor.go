package monitor

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/form_request.json
var formRequestSchema []byte

// ContractMonitor validates incoming requests against a JSON schema.
type ContractMonitor struct {
	schema *gojsonschema.Schema
}

// NewContractMonitor creates a new ContractMonitor with the given schema file path.
// Relative paths are resolved against the working directory.
func NewContractMonitor(schemaPath string) (*ContractMonitor, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("error resolving schema path %s: %w", schemaPath, err)
	}
	return newContractMonitor(gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(abs)), schemaPath)
}

// NewFormRequestMonitor creates a ContractMonitor for the built-in form request schema.
func NewFormRequestMonitor() (*ContractMonitor, error) {
	return newContractMonitor(gojsonschema.NewBytesLoader(formRequestSchema), "form_request")
}

func newContractMonitor(loader gojsonschema.JSONLoader, name string) (*ContractMonitor, error) {
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("error loading or compiling schema %s: %w", name, err)
	}
	return &ContractMonitor{schema: schema}, nil
}

// Validate validates the given request body against the loaded JSON schema.
// It returns true if valid, or false and a list of validation errors if invalid.
func (cm *ContractMonitor) Validate(requestBody []byte) (bool, []string, error) {
	result, err := cm.schema.Validate(gojsonschema.NewBytesLoader(requestBody))
	if err != nil {
		return false, nil, fmt.Errorf("error during validation: %w", err)
	}

	if result.Valid() {
		return true, nil, nil
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, desc.String())
	}
	return false, errors, nil
}

// FormatErrors formats a slice of validation error strings into a single string.
func FormatErrors(validationErrors []string) string {
	if len(validationErrors) == 0 {
		return ""
	}
	return "Validation errors: " + strings.Join(validationErrors, "; ")
}

package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed aws_schema.json
var awsSchemaJSON string

var loadAWSSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(awsSchemaJSON))
})

// AWSConfigSchema returns the JSON schema configuration documents must satisfy.
func AWSConfigSchema() string {
	return awsSchemaJSON
}

// validateAWSShape checks a masked configuration document against the schema.
// Messages name fields and rules, never values.
func validateAWSShape(shape map[string]interface{}) error {
	schema, err := loadAWSSchema()
	if err != nil {
		return fmt.Errorf("load configuration schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(shape))
	if err != nil {
		return vaultprovider.NewInvalidConfigurationError("schema validation error: "+err.Error(), err)
	}

	if result.Valid() {
		return nil
	}

	var messages []string
	for _, desc := range result.Errors() {
		// if/then wrappers add a redundant "must validate" entry per branch.
		if desc.Type() == "condition_then" || desc.Type() == "number_all_of" {
			continue
		}
		messages = append(messages, desc.String())
	}
	if len(messages) == 0 {
		messages = append(messages, "document does not match the configuration schema")
	}
	return vaultprovider.NewInvalidConfigurationError(strings.Join(messages, "; "), nil)
}

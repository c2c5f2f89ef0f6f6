package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of the configuration document.
const configSchema = `{
	"type": "object",
	"properties": {
		"server": {
			"type": "object",
			"properties": {
				"host": {"type": "string"},
				"port": {"type": "integer", "minimum": 1, "maximum": 65535},
				"max_upload_mb": {"type": "integer", "minimum": 1}
			}
		},
		"ai": {
			"type": "object",
			"properties": {
				"provider": {"enum": ["gemini", "anthropic", "openai", "mock", ""]},
				"model": {"type": "string"},
				"max_tokens": {"type": "integer", "minimum": 0},
				"temperature": {"type": "number", "minimum": 0, "maximum": 2},
				"timeout_seconds": {"type": "integer", "minimum": 0}
			}
		},
		"sessions": {
			"type": "object",
			"properties": {
				"idle_timeout_minutes": {"type": "integer", "minimum": 0},
				"sweep_schedule": {"type": "string"}
			}
		},
		"logging": {
			"type": "object",
			"properties": {
				"level": {"enum": ["debug", "info", "warn", "error", ""]}
			}
		}
	}
}`

// Validator validates configuration values
type Validator struct {
	schema gojsonschema.JSONLoader
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		schema: gojsonschema.NewStringLoader(configSchema),
	}
}

// Validate checks the configuration against the schema and provider rules
func (v *Validator) Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	result, err := gojsonschema.Validate(v.schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}

	return v.validateAPIKey(cfg.AI.APIKey, cfg.AI.Provider)
}

// validateAPIKey checks the API key format for the configured provider
func (v *Validator) validateAPIKey(key string, provider string) error {
	if provider == "mock" {
		return nil
	}

	if key == "" {
		return fmt.Errorf("%s API key cannot be empty", provider)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

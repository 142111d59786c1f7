package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mdtree/pkg/config"
)

// envVarPrefix is the prefix for all mdtree environment variables.
const envVarPrefix = "MDTREE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"PRESET":      {"preset", envTypeString, "Preset name: commonmark, gfm or zero"},
	"PLUGINS":     {"plugins", envTypeSlice, "Comma-separated rules to enable on top of the preset"},
	"XHTML":       {"xhtml", envTypeBool, "Render self-closing void elements: true or false"},
	"COLOR":       {"color", envTypeString, "Styled output: auto, always or never"},
	"FORMAT":      {"format", envTypeString, "Listing format: text, table or json"},
	"DEBUG":       {"debug", envTypeBool, "Enable debug logging: true or false"},
	"AST_ATTRS":   {"ast.attrs", envTypeBool, "Show rendering attributes in tree dumps"},
	"AST_SRCMAP":  {"ast.srcmap", envTypeBool, "Show byte spans in tree dumps"},
	"AST_META":    {"ast.meta", envTypeBool, "Show metadata in tree dumps"},
	"AST_CONTENT": {"ast.content", envTypeBool, "Show node content in tree dumps"},
	"AST_INDENT":  {"ast.indent", envTypeInt, "Spaces per depth level in tree dumps"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDTREE_ (e.g., MDTREE_PRESET).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "preset":
		cfg.Preset = value
	case "color":
		cfg.Color = config.ColorMode(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "xhtml":
		cfg.XHTML = config.Bool(value)
	case "debug":
		cfg.Debug = value
	case "ast.attrs":
		cfg.AST.Attrs = config.Bool(value)
	case "ast.srcmap":
		cfg.AST.Srcmap = config.Bool(value)
	case "ast.meta":
		cfg.AST.Meta = config.Bool(value)
	case "ast.content":
		cfg.AST.Content = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "ast.indent":
		cfg.AST.Indent = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "plugins":
		cfg.Plugins = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}

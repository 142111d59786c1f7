package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "plugins[2]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., repeated plugins).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration against the default rule registry.
func Validate(cfg *config.Config) *ValidationResult {
	return ValidateWith(cfg, goldmark.DefaultRegistry)
}

// ValidateWith checks a configuration for errors and warnings, resolving
// preset and plugin names against registry.
func ValidateWith(cfg *config.Config, registry *goldmark.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Preset != "" {
		if _, ok := ResolvePreset(registry, cfg.Preset); !ok {
			result.Errors = append(result.Errors, ValidationError{
				Field: "preset",
				Value: cfg.Preset,
				Message: fmt.Sprintf("unknown preset %q; must be one of: %s",
					cfg.Preset, strings.Join(registry.PresetNames(), ", ")),
			})
		}
	}

	validatePlugins(cfg, registry, result)

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, table, json", cfg.Format),
		})
	}

	if cfg.AST.Indent < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "ast.indent",
			Value:   cfg.AST.Indent,
			Message: "indent must be >= 0",
		})
	}

	return result
}

// validatePlugins reports unknown plugin names as errors and repeated ones
// as warnings.
func validatePlugins(cfg *config.Config, registry *goldmark.Registry, result *ValidationResult) {
	seen := make(map[string]bool, len(cfg.Plugins))
	for i, name := range cfg.Plugins {
		field := fmt.Sprintf("plugins[%d]", i)
		if _, ok := registry.Rule(name); !ok {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: fmt.Sprintf("unknown plugin %q; run 'mdtree rules' for the list", name),
			})
			continue
		}
		if seen[name] {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   name,
				Message: fmt.Sprintf("plugin %q is listed more than once", name),
			})
		}
		seen[name] = true
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Parser configuration fields.
	FieldPreset = "preset"
	FieldRule   = "rule"
	FieldRules  = "rules"
	FieldXHTML  = "xhtml"

	// Parse statistics fields.
	FieldBytes    = "bytes"
	FieldNodes    = "nodes"
	FieldDuration = "duration"

	// Configuration loading fields.
	FieldConfig = "config"
	FieldSource = "source"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldEngine  = "engine"
	FieldGo      = "go"
	FieldPresets = "presets"
)

// Package config defines configuration types for mdtree.
// These types are pure data structures; loading and merging live in the
// configloader package.
package config

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how listings such as the rule catalogue are
// printed.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON:
		return true
	default:
		return false
	}
}

// DefaultPreset is the preset used when nothing else is configured.
const DefaultPreset = "commonmark"

// DefaultIndent is the per-level indent of tree dumps.
const DefaultIndent = 2

// ASTConfig controls the tree dump printed by the ast command. Nil fields
// are unset and fall through to lower-precedence sources.
type ASTConfig struct {
	// Attrs includes rendering attributes.
	Attrs *bool `yaml:"attrs,omitempty"`

	// Srcmap includes byte spans.
	Srcmap *bool `yaml:"srcmap,omitempty"`

	// Meta includes every metadata entry.
	Meta *bool `yaml:"meta,omitempty"`

	// Content includes the content field of each node.
	Content *bool `yaml:"content,omitempty"`

	// Indent is the number of spaces per depth level; 0 is unset.
	Indent int `yaml:"indent,omitempty"`
}

// Config is the root configuration structure for mdtree.
type Config struct {
	// Preset names the baseline rule set ("commonmark", "gfm", "zero" or
	// an alias).
	Preset string `yaml:"preset,omitempty"`

	// Plugins are rules enabled on top of the preset, in order.
	Plugins []string `yaml:"plugins,omitempty"`

	// XHTML overrides the preset's render mode when set.
	XHTML *bool `yaml:"xhtml,omitempty"`

	// AST configures tree dumps.
	AST ASTConfig `yaml:"ast,omitempty"`

	// Color controls styled output: auto, always or never.
	Color ColorMode `yaml:"color,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format is the output format of listings.
	Format OutputFormat `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Preset: DefaultPreset,
		AST: ASTConfig{
			Attrs:   boolPtr(true),
			Srcmap:  boolPtr(true),
			Meta:    boolPtr(false),
			Content: boolPtr(false),
			Indent:  DefaultIndent,
		},
		Color:  ColorAuto,
		Format: FormatText,
	}
}

// BoolValue dereferences an optional flag, treating nil as false.
func BoolValue(b *bool) bool {
	return b != nil && *b
}

// Bool returns a pointer to b, for filling optional fields.
func Bool(b bool) *bool {
	return boolPtr(b)
}

func boolPtr(b bool) *bool {
	return &b
}

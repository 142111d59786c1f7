// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Tree dump components
	Kind      lipgloss.Style
	Unknown   lipgloss.Style
	AttrKey   lipgloss.Style
	AttrValue lipgloss.Style
	Srcmap    lipgloss.Style
	MetaKey   lipgloss.Style
	MetaValue lipgloss.Style
	Content   lipgloss.Style
	Bracket   lipgloss.Style

	// Rule listing styles
	RuleName  lipgloss.Style
	RuleGroup lipgloss.Style
	Enabled   lipgloss.Style

	// Status styles
	Error   lipgloss.Style
	Success lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Kind:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Unknown:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		AttrKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		AttrValue: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Srcmap:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		MetaKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		MetaValue: lipgloss.NewStyle(),
		Content:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true),
		Bracket:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		RuleName:  lipgloss.NewStyle().Bold(true),
		RuleGroup: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Enabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Styles{
		Kind:      plain,
		Unknown:   plain,
		AttrKey:   plain,
		AttrValue: plain,
		Srcmap:    plain,
		MetaKey:   plain,
		MetaValue: plain,
		Content:   plain,
		Bracket:   plain,
		RuleName:  plain,
		RuleGroup: plain,
		Enabled:   plain,
		Error:     plain,
		Success:   plain,
		Dim:       plain,
		Bold:      plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

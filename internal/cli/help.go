package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/ui/pretty"
)

// flagGap is the minimum run of spaces separating a flag from its usage
// text in pflag output.
const flagGap = "  "

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

// HelpFormatter renders Cobra help with the same styles as tree dumps.
// Colors are resolved when help is printed, so --color applies to help
// output as well.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a formatter that reads the color mode from
// colorMode each time help is rendered.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

// ApplyToCommand installs the styled help and usage functions on cmd.
// Subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command.OutOrStderr(), "usage", usageTemplate, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command.OutOrStdout(), "help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(out io.Writer, name, text string, command *cobra.Command) error {
	mode := "auto"
	if h.colorMode != nil && *h.colorMode != "" {
		mode = *h.colorMode
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(mode, out))

	tmpl, err := template.New(name).Funcs(helpFuncs(styles)).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl.Execute(out, command)
}

func helpFuncs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"heading":     styles.Bold.Render,
		"command":     styles.Kind.Render,
		"subcommand":  styles.RuleName.Render,
		"dim":         styles.Dim.Render,
		"join":        strings.Join,
		"rpad":        rpad,
		"trim":        trimTrailingWhitespace,
		"flags":       func(set *pflag.FlagSet) string { return formatFlags(styles, set) },
		"environment": func() string { return formatEnvironment(styles) },
	}
}

// formatFlags styles pflag's usage listing: flag names in the attribute
// color, value types dimmed, descriptions untouched.
func formatFlags(styles *pretty.Styles, set *pflag.FlagSet) string {
	usages := strings.TrimSuffix(set.FlagUsages(), "\n")
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		names, usage, ok := strings.Cut(trimmed, flagGap)
		if !ok {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		gap := usage[:len(usage)-len(strings.TrimLeft(usage, " "))]
		lines[i] = indent + styleFlagNames(styles, names) + flagGap + gap + strings.TrimLeft(usage, " ")
	}
	return strings.Join(lines, "\n")
}

func styleFlagNames(styles *pretty.Styles, names string) string {
	tokens := strings.Fields(names)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = styles.Dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = styles.AttrKey.Render(name)
		if comma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// formatEnvironment lists the environment variables the config loader
// reads, sorted by name.
func formatEnvironment(styles *pretty.Styles) string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+styles.AttrKey.Render(rpad(name, width))+"   "+vars[name])
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

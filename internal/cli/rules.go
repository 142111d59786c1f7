package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

type rulesFlags struct {
	format  string
	preset  string
	presets bool
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
	InPreset    bool   `json:"in_preset"`
}

// presetInfo represents a preset in JSON output.
type presetInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
	XHTML       bool     `json:"xhtml"`
}

func newRulesCommand(globals *globalFlags) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rules and presets",
		Long: `List every rule that can be enabled with --enable, or every preset
with --presets. With --config-preset, rules activated by that preset are
marked.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := config.OutputFormat(flags.format)
			if !format.IsValid() {
				return &UsageError{Err: fmt.Errorf("invalid format %q: use text, table, or json", flags.format)}
			}

			preset, ok := configloader.ResolvePreset(goldmark.DefaultRegistry, flags.preset)
			if !ok {
				return &goldmark.ConfigurationError{Kind: goldmark.ConfigKindPreset, Name: flags.preset}
			}

			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))
			if flags.presets {
				return writePresets(out, styles, format, goldmark.DefaultRegistry.Presets())
			}
			return writeRules(out, styles, format, goldmark.DefaultRegistry.Rules(), preset)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"output format: text, table, or json")
	cmd.Flags().StringVarP(&flags.preset, "config-preset", "c", config.DefaultPreset,
		"preset whose rules are marked as active")
	cmd.Flags().BoolVar(&flags.presets, "presets", false, "list presets instead of rules")

	return cmd
}

func writeRules(out io.Writer, styles *pretty.Styles, format config.OutputFormat, rules []goldmark.RuleSpec, preset *goldmark.Preset) error {
	switch format {
	case config.FormatJSON:
		infos := make([]ruleInfo, 0, len(rules))
		for _, rule := range rules {
			infos = append(infos, ruleInfo{
				Name:        rule.Name,
				Group:       string(rule.Group),
				Description: rule.Description,
				InPreset:    slices.Contains(preset.Rules, rule.Name),
			})
		}
		return writeJSON(out, infos)

	case config.FormatTable:
		tbl := newTable()
		tbl.AppendHeader(table.Row{"RULE", "GROUP", "IN " + strings.ToUpper(preset.Name), "DESCRIPTION"})
		for _, rule := range rules {
			active := "-"
			if slices.Contains(preset.Rules, rule.Name) {
				active = "yes"
			}
			tbl.AppendRow(table.Row{rule.Name, rule.Group, active, rule.Description})
		}
		_, err := fmt.Fprintln(out, tbl.Render())
		return err

	default:
		var builder strings.Builder
		for _, rule := range rules {
			name := styles.RuleName.Render(rule.Name)
			if slices.Contains(preset.Rules, rule.Name) {
				name = styles.Enabled.Render(rule.Name)
			}
			builder.WriteString(name)
			builder.WriteByte('\n')
		}
		_, err := io.WriteString(out, builder.String())
		return err
	}
}

func writePresets(out io.Writer, styles *pretty.Styles, format config.OutputFormat, presets []goldmark.Preset) error {
	switch format {
	case config.FormatJSON:
		infos := make([]presetInfo, 0, len(presets))
		for _, preset := range presets {
			infos = append(infos, presetInfo{
				Name:        preset.Name,
				Aliases:     preset.Aliases,
				Description: preset.Description,
				Rules:       append([]string{}, preset.Rules...),
				XHTML:       preset.XHTML,
			})
		}
		return writeJSON(out, infos)

	case config.FormatTable:
		tbl := newTable()
		tbl.AppendHeader(table.Row{"PRESET", "ALIASES", "RULES", "DESCRIPTION"})
		for _, preset := range presets {
			tbl.AppendRow(table.Row{
				preset.Name,
				strings.Join(preset.Aliases, ", "),
				len(preset.Rules),
				preset.Description,
			})
		}
		_, err := fmt.Fprintln(out, tbl.Render())
		return err

	default:
		var builder strings.Builder
		for _, preset := range presets {
			builder.WriteString(styles.RuleGroup.Render(preset.Name))
			builder.WriteByte('\n')
		}
		_, err := io.WriteString(out, builder.String())
		return err
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = true
	return tbl
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

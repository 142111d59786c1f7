package goldmark

// Preset names.
const (
	PresetCommonMark = "commonmark"
	PresetZero       = "zero"
	PresetGFM        = "gfm"
)

// Preset is a named baseline rule set.
type Preset struct {
	// Name is the canonical preset name.
	Name string

	// Aliases are alternative names accepted by NewConfig.
	Aliases []string

	// Description is a one-line summary for listings.
	Description string

	// Rules are activated, in order, before any explicitly enabled rule.
	Rules []string

	// XHTML selects self-closing void elements in rendered output.
	XHTML bool
}

//nolint:gochecknoglobals // Read-only lookup table.
var commonMarkRules = []string{
	"blockquote", "code", "fence", "heading", "hr", "lheading", "list",
	"paragraph", "reference", "html_block",
	"autolink", "backticks", "emphasis", "link", "image", "html_inline",
}

//nolint:gochecknoglobals // Read-only lookup table.
var builtinPresets = []Preset{
	{
		Name:        PresetCommonMark,
		Aliases:     []string{"full", "default"},
		Description: "CommonMark block, inline and raw HTML rules",
		Rules:       commonMarkRules,
		XHTML:       true,
	},
	{
		Name:        PresetZero,
		Aliases:     []string{"minimal"},
		Description: "No rules; text passes through as plain blocks",
		XHTML:       false,
	},
	{
		Name:        PresetGFM,
		Aliases:     []string{"curated", "github"},
		Description: "CommonMark plus tables, strikethrough, linkify and task lists",
		Rules:       append(append([]string(nil), commonMarkRules...), "table", "strikethrough", "linkify", "tasklist"),
		XHTML:       true,
	},
}

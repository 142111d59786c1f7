package goldmark

import (
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// RuleGroup classifies rules by the part of the engine they extend.
type RuleGroup string

// Rule groups.
const (
	GroupCore      RuleGroup = "core"
	GroupBlock     RuleGroup = "block"
	GroupInline    RuleGroup = "inline"
	GroupExtension RuleGroup = "extension"
)

// RuleSpec is a named unit of grammar or rendering behavior.
type RuleSpec struct {
	// Name is the identifier accepted by Enable.
	Name string

	// Group is the part of the engine the rule extends.
	Group RuleGroup

	// Description is a one-line summary for listings.
	Description string

	activate func(a *assembly)
}

// Component keys. Rules that share an engine component use the same key
// so the component is installed once.
const (
	componentLink        = "link"
	componentLinkify     = "linkify"
	componentTypographer = "typographer"
)

// Engine priorities, matching goldmark's defaults.
const (
	prioritySetext       = 100
	priorityThematic     = 200
	priorityList         = 300
	priorityListItem     = 400
	priorityCodeBlock    = 500
	priorityATX          = 600
	priorityFence        = 700
	priorityBlockquote   = 800
	priorityHTMLBlock    = 900
	priorityParagraph    = 1000
	priorityPlainBlock   = 2000
	priorityCodeSpan     = 100
	priorityLink         = 200
	priorityAutoLink     = 300
	priorityRawHTML      = 400
	priorityEmphasis     = 500
	priorityLinkRefs     = 100
	priorityFrontMatter  = 10
	priorityAnchors      = 900
	prioritySourcepos    = 1000
	priorityHTMLRenderer = 1000
	priorityOverrides    = 100
)

// Catalogue of rules in listing order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ruleCatalogue = []RuleSpec{
	{Name: "blockquote", Group: GroupBlock, Description: "Block quotes (> quote)", activate: blockRule(parser.NewBlockquoteParser, priorityBlockquote)},
	{Name: "code", Group: GroupBlock, Description: "Indented code blocks", activate: blockRule(parser.NewCodeBlockParser, priorityCodeBlock)},
	{Name: "fence", Group: GroupBlock, Description: "Fenced code blocks (``` or ~~~)", activate: blockRule(parser.NewFencedCodeBlockParser, priorityFence)},
	{Name: "heading", Group: GroupBlock, Description: "ATX headings (# title)", activate: blockRule(func() parser.BlockParser { return parser.NewATXHeadingParser() }, priorityATX)},
	{Name: "hr", Group: GroupBlock, Description: "Thematic breaks (---)", activate: blockRule(parser.NewThematicBreakParser, priorityThematic)},
	{Name: "lheading", Group: GroupBlock, Description: "Setext headings (underlined titles)", activate: blockRule(func() parser.BlockParser { return parser.NewSetextHeadingParser() }, prioritySetext)},
	{Name: "list", Group: GroupBlock, Description: "Bullet and ordered lists", activate: activateList},
	{Name: "paragraph", Group: GroupBlock, Description: "Paragraphs", activate: blockRule(parser.NewParagraphParser, priorityParagraph)},
	{Name: "reference", Group: GroupBlock, Description: "Link reference definitions", activate: activateReference},
	{Name: "html_block", Group: GroupBlock, Description: "Raw HTML blocks", activate: activateHTMLBlock},
	{Name: "autolink", Group: GroupInline, Description: "Autolinks (<https://...>)", activate: inlineRule(parser.NewAutoLinkParser, priorityAutoLink)},
	{Name: "backticks", Group: GroupInline, Description: "Inline code spans", activate: inlineRule(parser.NewCodeSpanParser, priorityCodeSpan)},
	{Name: "emphasis", Group: GroupInline, Description: "Emphasis and strong emphasis", activate: inlineRule(parser.NewEmphasisParser, priorityEmphasis)},
	{Name: "link", Group: GroupInline, Description: "Links", activate: activateLink},
	{Name: "image", Group: GroupInline, Description: "Images", activate: activateLink},
	{Name: "html_inline", Group: GroupInline, Description: "Raw inline HTML", activate: activateHTMLInline},
	{Name: "entity", Group: GroupCore, Description: "Character references (&amp;), always on", activate: activateBuiltin},
	{Name: "escape", Group: GroupCore, Description: "Backslash escapes, always on", activate: activateBuiltin},
	{Name: "newline", Group: GroupCore, Description: "Soft and hard line breaks, always on", activate: activateBuiltin},
	{Name: "linkify", Group: GroupExtension, Description: "Bare URLs become links", activate: activateLinkify},
	{Name: "autolink_ext", Group: GroupExtension, Description: "Bare URLs become links (same as linkify)", activate: activateLinkify},
	{Name: "replacements", Group: GroupExtension, Description: "Typographic replacements (--, ..., <<)", activate: activateReplacements},
	{Name: "smartquotes", Group: GroupExtension, Description: "Curly quotes", activate: activateSmartquotes},
	{Name: "strikethrough", Group: GroupExtension, Description: "Strikethrough (~~text~~)", activate: extensionRule(extension.Strikethrough)},
	{Name: "table", Group: GroupExtension, Description: "GFM tables", activate: extensionRule(extension.Table)},
	{Name: "tasklist", Group: GroupExtension, Description: "Task list checkboxes ([ ] and [x])", activate: extensionRule(extension.TaskList)},
	{Name: "footnote", Group: GroupExtension, Description: "Footnotes ([^1])", activate: extensionRule(extension.Footnote)},
	{Name: "definition_list", Group: GroupExtension, Description: "Definition lists", activate: extensionRule(extension.DefinitionList)},
	{Name: "front_matter", Group: GroupExtension, Description: "YAML front matter", activate: activateFrontMatter},
	{Name: "heading_anchors", Group: GroupExtension, Description: "Heading ids and self-links", activate: activateHeadingAnchors},
	{Name: "attrs", Group: GroupExtension, Description: "Attribute lists ({#id .class})", activate: activateAttrs},
	{Name: "sourcepos", Group: GroupExtension, Description: "data-sourcepos attributes on blocks", activate: activateSourcepos},
	{Name: "langdetect", Group: GroupExtension, Description: "Detected language classes on unlabeled fences", activate: activateLangDetect},
}

// step installs the components of one rule.
type step struct {
	rule      string
	parser    []parser.Option
	renderer  []renderer.Option
	extension goldmark.Extender
}

// assembly collects the engine components activated by rules.
type assembly struct {
	rule   string
	seen   map[string]bool
	steps  []step
	unsafe bool

	// typographer substitutions; nil entries are disabled.
	substitutions map[extension.TypographicPunctuation][]byte
	typoRule      string
}

func newAssembly() *assembly {
	return &assembly{seen: make(map[string]bool)}
}

// once reports whether key is being installed for the first time.
func (a *assembly) once(key string) bool {
	if a.seen[key] {
		return false
	}
	a.seen[key] = true
	return true
}

func (a *assembly) addParser(opts ...parser.Option) {
	a.steps = append(a.steps, step{rule: a.rule, parser: opts})
}

func (a *assembly) addRenderer(opts ...renderer.Option) {
	a.steps = append(a.steps, step{rule: a.rule, renderer: opts})
}

func (a *assembly) addExtension(ext goldmark.Extender) {
	a.steps = append(a.steps, step{rule: a.rule, extension: ext})
}

func (a *assembly) substitute(values map[extension.TypographicPunctuation]string) {
	if a.substitutions == nil {
		a.substitutions = make(map[extension.TypographicPunctuation][]byte)
		a.typoRule = a.rule
	}
	for k, v := range values {
		a.substitutions[k] = []byte(v)
	}
}

// build creates the engine. Each call returns an independent instance.
func (a *assembly) build(xhtml bool) goldmark.Markdown {
	engine := newRecordingParser()
	md := goldmark.New(
		goldmark.WithParser(engine),
		goldmark.WithRenderer(renderer.NewRenderer(
			renderer.WithNodeRenderers(
				util.Prioritized(html.NewRenderer(), priorityHTMLRenderer),
				util.Prioritized(&nodeRenderer{}, priorityOverrides),
			),
		)),
	)

	engine.rule = ""
	md.Parser().AddOptions(parser.WithBlockParsers(util.Prioritized(&plainBlockParser{}, priorityPlainBlock)))

	for _, s := range a.steps {
		engine.rule = s.rule
		if len(s.parser) > 0 {
			md.Parser().AddOptions(s.parser...)
		}
		if len(s.renderer) > 0 {
			md.Renderer().AddOptions(s.renderer...)
		}
		if s.extension != nil {
			s.extension.Extend(md)
		}
	}

	if a.substitutions != nil {
		engine.rule = a.typoRule
		subs := make(map[extension.TypographicPunctuation][]byte, len(allPunctuations))
		for _, p := range allPunctuations {
			subs[p] = a.substitutions[p]
		}
		extension.NewTypographer(extension.WithTypographicSubstitutions(subs)).Extend(md)
	}

	if xhtml {
		md.Renderer().AddOptions(html.WithXHTML())
	}
	if a.unsafe {
		md.Renderer().AddOptions(html.WithUnsafe())
	}
	return md
}

//nolint:gochecknoglobals // Read-only lookup table.
var allPunctuations = []extension.TypographicPunctuation{
	extension.LeftSingleQuote, extension.RightSingleQuote,
	extension.LeftDoubleQuote, extension.RightDoubleQuote,
	extension.EnDash, extension.EmDash, extension.Ellipsis,
	extension.LeftAngleQuote, extension.RightAngleQuote,
	extension.Apostrophe,
}

func blockRule(newParser func() parser.BlockParser, priority int) func(*assembly) {
	return func(a *assembly) {
		if a.once(a.rule) {
			a.addParser(parser.WithBlockParsers(util.Prioritized(newParser(), priority)))
		}
	}
}

func inlineRule(newParser func() parser.InlineParser, priority int) func(*assembly) {
	return func(a *assembly) {
		if a.once(a.rule) {
			a.addParser(parser.WithInlineParsers(util.Prioritized(newParser(), priority)))
		}
	}
}

func extensionRule(ext goldmark.Extender) func(*assembly) {
	return func(a *assembly) {
		if a.once(a.rule) {
			a.addExtension(ext)
		}
	}
}

func activateList(a *assembly) {
	if a.once("list") {
		a.addParser(parser.WithBlockParsers(
			util.Prioritized(parser.NewListParser(), priorityList),
			util.Prioritized(parser.NewListItemParser(), priorityListItem),
		))
	}
}

func activateReference(a *assembly) {
	if a.once("reference") {
		a.addParser(parser.WithParagraphTransformers(
			util.Prioritized(parser.LinkReferenceParagraphTransformer, priorityLinkRefs),
		))
	}
}

func activateHTMLBlock(a *assembly) {
	if a.once("html_block") {
		a.addParser(parser.WithBlockParsers(util.Prioritized(parser.NewHTMLBlockParser(), priorityHTMLBlock)))
		a.unsafe = true
	}
}

func activateHTMLInline(a *assembly) {
	if a.once("html_inline") {
		a.addParser(parser.WithInlineParsers(util.Prioritized(parser.NewRawHTMLParser(), priorityRawHTML)))
		a.unsafe = true
	}
}

func activateLink(a *assembly) {
	if a.once(componentLink) {
		a.addParser(parser.WithInlineParsers(util.Prioritized(parser.NewLinkParser(), priorityLink)))
	}
}

// activateBuiltin is used by rules the engine cannot switch off.
func activateBuiltin(*assembly) {}

func activateLinkify(a *assembly) {
	if a.once(componentLinkify) {
		a.addExtension(extension.Linkify)
	}
}

// isLinkifyRule reports whether rule installed the bare URL parser.
func isLinkifyRule(rule string) bool {
	return rule == "linkify" || rule == "autolink_ext"
}

func activateReplacements(a *assembly) {
	a.once(componentTypographer)
	a.substitute(map[extension.TypographicPunctuation]string{
		extension.EnDash:          "&ndash;",
		extension.EmDash:          "&mdash;",
		extension.Ellipsis:        "&hellip;",
		extension.LeftAngleQuote:  "&laquo;",
		extension.RightAngleQuote: "&raquo;",
	})
}

func activateSmartquotes(a *assembly) {
	a.once(componentTypographer)
	a.substitute(map[extension.TypographicPunctuation]string{
		extension.LeftSingleQuote:  "&lsquo;",
		extension.RightSingleQuote: "&rsquo;",
		extension.LeftDoubleQuote:  "&ldquo;",
		extension.RightDoubleQuote: "&rdquo;",
		extension.Apostrophe:       "&rsquo;",
	})
}

func activateFrontMatter(a *assembly) {
	if a.once("front_matter") {
		a.addExtension(meta.Meta)
		a.addParser(parser.WithASTTransformers(util.Prioritized(&frontMatterTransformer{}, priorityFrontMatter)))
	}
}

func activateHeadingAnchors(a *assembly) {
	if a.once("heading_anchors") {
		a.addParser(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&headingAnchorTransformer{}, priorityAnchors)),
		)
	}
}

func activateAttrs(a *assembly) {
	if a.once("attrs") {
		a.addParser(parser.WithAttribute())
	}
}

func activateSourcepos(a *assembly) {
	if a.once("sourcepos") {
		a.addParser(parser.WithASTTransformers(util.Prioritized(&sourceposTransformer{}, prioritySourcepos)))
	}
}

func activateLangDetect(a *assembly) {
	if a.once("langdetect") {
		a.addRenderer(renderer.WithNodeRenderers(util.Prioritized(&fenceRenderer{}, priorityOverrides)))
	}
}

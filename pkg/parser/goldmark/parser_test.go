package goldmark_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

func newParser(t *testing.T, preset string, rules ...string) *goldmark.Parser {
	t.Helper()

	cfg, err := goldmark.NewConfig(preset)
	require.NoError(t, err)
	require.NoError(t, cfg.EnableMany(rules))
	return cfg.Freeze()
}

func tree(t *testing.T, p *goldmark.Parser, src string) *mdast.Node {
	t.Helper()

	root, err := p.Tree(src)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func render(t *testing.T, p *goldmark.Parser, src string) string {
	t.Helper()

	html, err := p.Render(src)
	require.NoError(t, err)
	return html
}

func kindNames(nodes []*mdast.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Kind.String()
	}
	return names
}

func TestNewConfig_Presets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		preset    string
		canonical string
		xhtml     bool
		hasRules  bool
	}{
		{"commonmark", "commonmark", goldmark.PresetCommonMark, true, true},
		{"full alias", "full", goldmark.PresetCommonMark, true, true},
		{"zero", "zero", goldmark.PresetZero, false, false},
		{"minimal alias", "minimal", goldmark.PresetZero, false, false},
		{"gfm", "gfm", goldmark.PresetGFM, true, true},
		{"curated alias", "curated", goldmark.PresetGFM, true, true},
		{"github alias", "github", goldmark.PresetGFM, true, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := goldmark.NewConfig(testCase.preset)
			require.NoError(t, err)

			assert.Equal(t, testCase.canonical, cfg.Preset())
			assert.Equal(t, testCase.xhtml, cfg.XHTML())
			assert.Equal(t, testCase.hasRules, len(cfg.Rules()) > 0)
		})
	}
}

func TestNewConfig_UnknownPreset(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "nope", "commonmark2", "heading", "COMMONMARK", " zero ", "Full", "gfm\n"} {
		cfg, err := goldmark.NewConfig(name)

		require.Error(t, err, name)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, goldmark.ErrConfiguration)

		var cfgErr *goldmark.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, goldmark.ConfigKindPreset, cfgErr.Kind)
		assert.Equal(t, "unknown preset: "+name, err.Error())
	}
}

func TestConfig_GFMLayersOnCommonMark(t *testing.T) {
	t.Parallel()

	commonmark, err := goldmark.NewConfig("commonmark")
	require.NoError(t, err)
	gfm, err := goldmark.NewConfig("gfm")
	require.NoError(t, err)

	rules := gfm.Rules()
	base := commonmark.Rules()
	require.Greater(t, len(rules), len(base))
	assert.Equal(t, base, rules[:len(base)])
	assert.Subset(t, rules, []string{"table", "strikethrough", "linkify", "tasklist"})
}

func TestConfig_EnableEveryRuleTwice(t *testing.T) {
	t.Parallel()

	cfg, err := goldmark.NewConfig("zero")
	require.NoError(t, err)

	for _, name := range goldmark.AvailableRules() {
		require.NoError(t, cfg.Enable(name), name)
		require.NoError(t, cfg.Enable(name), name)
		assert.True(t, cfg.IsEnabled(name), name)
	}
	assert.Equal(t, goldmark.AvailableRules(), cfg.Rules())

	// Every rule active at once still builds a working parser.
	html := render(t, cfg.Freeze(), "# Title\n\nSome *text*.")
	assert.Contains(t, html, "Title</h1>")
}

func TestConfig_EnableUnknownRule(t *testing.T) {
	t.Parallel()

	cfg, err := goldmark.NewConfig("zero")
	require.NoError(t, err)

	err = cfg.Enable("no_such_rule")

	require.ErrorIs(t, err, goldmark.ErrConfiguration)
	assert.Equal(t, "unknown rule: no_such_rule", err.Error())
	assert.Empty(t, cfg.Rules())
}

func TestConfig_EnableManyStopsAtFirstUnknown(t *testing.T) {
	t.Parallel()

	cfg, err := goldmark.NewConfig("zero")
	require.NoError(t, err)

	err = cfg.EnableMany([]string{"heading", "unknown", "table"})

	var cfgErr *goldmark.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "unknown", cfgErr.Name)
	assert.Equal(t, goldmark.ConfigKindRule, cfgErr.Kind)

	// Rules before the failing name stay active.
	assert.Equal(t, []string{"heading"}, cfg.Rules())
	assert.True(t, cfg.IsEnabled("heading"))
	assert.False(t, cfg.IsEnabled("table"))
	assert.Equal(t, "<h1>markdown-it rulezz!</h1>\n", render(t, cfg.Freeze(), "# markdown-it rulezz!"))
}

func TestConfig_FreezeIsASnapshot(t *testing.T) {
	t.Parallel()

	cfg, err := goldmark.NewConfig("zero")
	require.NoError(t, err)

	before := cfg.Freeze()
	require.NoError(t, cfg.Enable("heading"))
	after := cfg.Freeze()

	assert.Equal(t, "# x\n", render(t, before, "# x"))
	assert.Equal(t, "<h1>x</h1>\n", render(t, after, "# x"))
	assert.Empty(t, before.Rules())
	assert.Equal(t, []string{"heading"}, after.Rules())
}

func TestRender_Presets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		preset   string
		rules    []string
		src      string
		expected string
	}{
		{"zero keeps text", "zero", nil, "# markdown-it rulezz!", "# markdown-it rulezz!\n"},
		{"zero with heading", "zero", []string{"heading"}, "# markdown-it rulezz!", "<h1>markdown-it rulezz!</h1>\n"},
		{"gfm heading", "gfm", nil, "# markdown-it rulezz!", "<h1>markdown-it rulezz!</h1>\n"},
		{"commonmark paragraph", "commonmark", nil, "a *b*", "<p>a <em>b</em></p>\n"},
		{"zero ignores emphasis", "zero", nil, "a *b*", "a *b*\n"},
		{"zero escapes html", "zero", nil, "a < b", "a &lt; b\n"},
		{"empty source", "commonmark", nil, "", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			p := newParser(t, testCase.preset, testCase.rules...)
			assert.Equal(t, testCase.expected, render(t, p, testCase.src))
		})
	}
}

func TestRender_XHTML(t *testing.T) {
	t.Parallel()

	cfg, err := goldmark.NewConfig("commonmark")
	require.NoError(t, err)

	assert.Contains(t, render(t, cfg.Freeze(), "a  \nb"), "<br />")

	cfg.SetXHTML(false)
	html := render(t, cfg.Freeze(), "a  \nb")
	assert.Contains(t, html, "<br>")
	assert.NotContains(t, html, "<br />")
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	t.Parallel()

	html := render(t, newParser(t, "commonmark"), "<div class=\"x\">hi</div>\n\na <span>b</span>")

	assert.Contains(t, html, `<div class="x">hi</div>`)
	assert.Contains(t, html, `<span>b</span>`)
}

func TestRender_InvalidUTF8(t *testing.T) {
	t.Parallel()

	p := newParser(t, "commonmark")

	_, err := p.Render("a\xffb")
	require.ErrorIs(t, err, goldmark.ErrInvalidUTF8)

	_, err = p.Tree("a\xffb")
	require.ErrorIs(t, err, goldmark.ErrInvalidUTF8)
}

func TestTree_HeadingAndStrong(t *testing.T) {
	t.Parallel()

	p := newParser(t, "commonmark")
	src := "# Hello\n\nWorld **strong**"
	root := tree(t, p, src)

	assert.Equal(t,
		[]string{"root", "heading", "text", "paragraph", "text", "strong", "text"},
		kindNames(root.Walk(true)))

	html := render(t, p, src)
	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<strong>strong</strong>")

	heading := root.Children[0]
	assert.Equal(t, 1, heading.Meta.IntOf(mdast.KeyLevel))
	assert.Equal(t, "github.com/yuin/goldmark/ast.Heading", heading.OriginKind)
	assert.Equal(t, mdast.Span{Start: 0, End: 7}, *heading.Span)

	text := heading.Children[0]
	assert.Equal(t, "Hello", text.Meta.StringOf(mdast.KeyContent))
	assert.Equal(t, mdast.Span{Start: 2, End: 7}, *text.Span)

	paragraph := root.Children[1]
	assert.Equal(t, mdast.Span{Start: 9, End: 25}, *paragraph.Span)

	strong := paragraph.Children[1]
	assert.Equal(t, "**", strong.Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, mdast.Span{Start: 15, End: 25}, *strong.Span)
}

func TestTree_Pretty(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "# markdown-it rulezz!")

	opts := mdast.DefaultPrettyOptions()
	opts.Srcmap = true
	opts.Meta = true

	assert.Equal(t, strings.Join([]string{
		`<root srcmap="0:21">`,
		`  <heading srcmap="0:21">`,
		`    level: 1`,
		`    <text srcmap="2:21">`,
		`      content: markdown-it rulezz!`,
		``,
	}, "\n"), root.Pretty(opts))
	assert.Equal(t, root.Pretty(opts), root.Pretty(opts))
}

func TestTree_TightListHoistsText(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "- a *b*")

	assert.Equal(t,
		[]string{"root", "bullet_list", "list_item", "text", "em", "text"},
		kindNames(root.Walk(true)))

	list := root.Children[0]
	assert.Equal(t, "-", list.Meta.StringOf(mdast.KeyMarker))
	assert.True(t, list.Meta.BoolOf(mdast.KeyTight))
	assert.Len(t, root.Walk(false), root.Count())
}

func TestTree_OrderedList(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "3) one\n4) two\n")
	list := root.Children[0]

	require.Equal(t, mdast.NodeOrderedList, list.Kind)
	assert.Equal(t, 3, list.Meta.IntOf(mdast.KeyStart))
	assert.Equal(t, ")", list.Meta.StringOf(mdast.KeyMarker))
	assert.Len(t, list.Children, 2)
}

func TestTree_LinkTitlePresence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		hasTitle bool
		title    string
	}{
		{"no title", "[a](http://x)", false, ""},
		{"empty title", `[a](http://x "")`, true, ""},
		{"single quoted empty title", `[a](http://x '')`, true, ""},
		{"title", `[a](http://x "t")`, true, "t"},
	}

	p := newParser(t, "commonmark")
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			link := mdast.FindFirst(tree(t, p, testCase.src), func(n *mdast.Node) bool {
				return n.Kind == mdast.NodeLink
			})
			require.NotNil(t, link)

			assert.Equal(t, "http://x", link.Meta.StringOf(mdast.KeyURL))
			assert.Equal(t, testCase.hasTitle, link.Meta.Has(mdast.KeyTitle))
			assert.Equal(t, testCase.title, link.Meta.StringOf(mdast.KeyTitle))
			assert.Equal(t, 0, link.Span.Start)
			assert.Equal(t, len(testCase.src), link.Span.End)
		})
	}
}

func TestTree_Image(t *testing.T) {
	t.Parallel()

	src := `![alt](/img.png "pic")`
	image := mdast.FindFirst(tree(t, newParser(t, "commonmark"), src), func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeImage
	})
	require.NotNil(t, image)

	assert.Equal(t, "/img.png", image.Meta.StringOf(mdast.KeyURL))
	assert.Equal(t, "pic", image.Meta.StringOf(mdast.KeyTitle))
	assert.Equal(t, mdast.Span{Start: 0, End: len(src)}, *image.Span)
}

func TestTree_LinkSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		kind mdast.NodeKind
		want mdast.Span
	}{
		{"inline link", "[a](http://x)", mdast.NodeLink, mdast.Span{Start: 0, End: 13}},
		{"image", "![i](u)", mdast.NodeImage, mdast.Span{Start: 0, End: 7}},
		{"link after text", "x [*a* b](u) y", mdast.NodeLink, mdast.Span{Start: 2, End: 12}},
		{"code span label", "[`c`](u)", mdast.NodeLink, mdast.Span{Start: 0, End: 8}},
		{"empty label", "[](u)", mdast.NodeLink, mdast.Span{Start: 0, End: 5}},
		{"reference link", "[a]\n\n[a]: /u\n", mdast.NodeLink, mdast.Span{Start: 0, End: 3}},
	}

	p := newParser(t, "commonmark")
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			found := mdast.FindByKind(tree(t, p, testCase.src), testCase.kind)
			require.Len(t, found, 1)
			require.NotNil(t, found[0].Span)
			assert.Equal(t, testCase.want, *found[0].Span)
		})
	}
}

func TestTree_MergesSplitText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		contents []string
		spans    []mdast.Span
	}{
		{
			name:     "trigger bytes",
			src:      "Hello! a_b [c] d",
			contents: []string{"Hello! a_b [c] d"},
			spans:    []mdast.Span{{Start: 0, End: 16}},
		},
		{
			name:     "around emphasis",
			src:      "a! *b!* c!",
			contents: []string{"a! ", "b!", " c!"},
			spans:    []mdast.Span{{Start: 0, End: 3}, {Start: 4, End: 6}, {Start: 7, End: 10}},
		},
		{
			name:     "line breaks stay separate",
			src:      "a!\nb!",
			contents: []string{"a!", "b!"},
			spans:    []mdast.Span{{Start: 0, End: 2}, {Start: 3, End: 5}},
		},
	}

	p := newParser(t, "commonmark")
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			texts := mdast.FindByKind(tree(t, p, testCase.src), mdast.NodeText)
			contents := make([]string, 0, len(texts))
			spans := make([]mdast.Span, 0, len(texts))
			for _, n := range texts {
				contents = append(contents, n.Meta.StringOf(mdast.KeyContent))
				spans = append(spans, *n.Span)
			}
			assert.Equal(t, testCase.contents, contents)
			assert.Equal(t, testCase.spans, spans)
		})
	}
}

func TestTree_Fence(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "~~~~go\nx := 1\n~~~~\n")
	fence := root.Children[0]

	require.Equal(t, mdast.NodeFence, fence.Kind)
	assert.Equal(t, "go", fence.Meta.StringOf(mdast.KeyInfo))
	assert.Equal(t, "~", fence.Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, 4, fence.Meta.IntOf(mdast.KeyMarkerLen))
	assert.Equal(t, "x := 1\n", fence.Meta.StringOf(mdast.KeyContent))
	assert.Equal(t, "language-", fence.Meta.StringOf(mdast.KeyLangPrefix))
	assert.False(t, fence.Meta.Has(mdast.KeyLang))
	assert.Equal(t, mdast.Span{Start: 0, End: 18}, *fence.Span)
	assert.True(t, mdast.SchemaFor(fence.Kind).Conforms(fence.Meta))
}

func TestTree_LangDetect(t *testing.T) {
	t.Parallel()

	src := "```\npackage main\n```\n"

	plain := tree(t, newParser(t, "commonmark"), src).Children[0]
	assert.False(t, plain.Meta.Has(mdast.KeyLang))

	p := newParser(t, "commonmark", "langdetect")
	detected := tree(t, p, src).Children[0]
	assert.Equal(t, "go", detected.Meta.StringOf(mdast.KeyLang))
	assert.Empty(t, detected.Meta.StringOf(mdast.KeyInfo))
	assert.Contains(t, render(t, p, src), `<code class="language-go">`)
}

func TestTree_SetextHeading(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "Title\n-----\n")
	heading := root.Children[0]

	require.Equal(t, mdast.NodeLHeading, heading.Kind)
	assert.Equal(t, 2, heading.Meta.IntOf(mdast.KeyLevel))
	assert.Equal(t, "-", heading.Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, 0, heading.Span.Start)
}

func TestTree_ThematicBreakAndCode(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "* * *\n\n    indented\n")
	require.Len(t, root.Children, 2)

	hr := root.Children[0]
	assert.Equal(t, mdast.NodeHR, hr.Kind)
	assert.Equal(t, "*", hr.Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, 3, hr.Meta.IntOf(mdast.KeyMarkerLen))

	code := root.Children[1]
	assert.Equal(t, mdast.NodeCodeBlock, code.Kind)
	assert.Equal(t, "indented\n", code.Meta.StringOf(mdast.KeyContent))
}

func TestTree_Breaks(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "a\nb  \nc")

	assert.Equal(t,
		[]string{"root", "paragraph", "text", "softbreak", "text", "hardbreak", "text"},
		kindNames(root.Walk(true)))
}

func TestTree_EscapesAndEntities(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), `\*a\* &amp; &#65;`)

	var content strings.Builder
	for _, n := range mdast.FindByKind(root, mdast.NodeText) {
		content.WriteString(n.Meta.StringOf(mdast.KeyContent))
	}
	assert.Equal(t, "*a* & A", content.String())
}

func TestTree_CodeSpan(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark"), "use ``a`b``")
	code := mdast.FindByKind(root, mdast.NodeCodeInline)
	require.Len(t, code, 1)

	assert.Equal(t, 2, code[0].Meta.IntOf(mdast.KeyMarkerLen))
	assert.Equal(t, mdast.Span{Start: 4, End: 11}, *code[0].Span)
	require.NotEmpty(t, code[0].Children)
	assert.Equal(t, "a`b", code[0].Children[0].Meta.StringOf(mdast.KeyContent))
}

func TestTree_AutolinkAndLinkify(t *testing.T) {
	t.Parallel()

	src := "<https://a.example> and https://b.example"
	root := tree(t, newParser(t, "gfm"), src)

	autolinks := mdast.FindByKind(root, mdast.NodeAutolink)
	require.Len(t, autolinks, 1)
	assert.Equal(t, "https://a.example", autolinks[0].Meta.StringOf(mdast.KeyURL))
	assert.Equal(t, mdast.Span{Start: 0, End: 19}, *autolinks[0].Span)

	linkified := mdast.FindByKind(root, mdast.NodeLinkify)
	require.Len(t, linkified, 1)
	assert.Equal(t, "https://b.example", linkified[0].Meta.StringOf(mdast.KeyURL))
	assert.Equal(t, mdast.Span{Start: 24, End: len(src)}, *linkified[0].Span)
	require.Len(t, linkified[0].Children, 1)
	assert.Equal(t, "https://b.example", linkified[0].Children[0].Meta.StringOf(mdast.KeyContent))
}

func TestConfig_AlwaysOnAndAliasRules(t *testing.T) {
	t.Parallel()

	src := "a &amp; \\* see https://b.example"

	tests := []struct {
		name     string
		rules    []string
		linkify  int
		wantText string
	}{
		{"core rules change nothing", []string{"entity", "escape", "newline"}, 0, "a & * see https://b.example"},
		{"autolink_ext", []string{"autolink_ext"}, 1, "a & * see "},
		{"both linkify names", []string{"linkify", "autolink_ext"}, 1, "a & * see "},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			for _, name := range testCase.rules {
				spec, ok := goldmark.DefaultRegistry.Rule(name)
				require.True(t, ok, name)
				assert.NotEmpty(t, spec.Group, name)
			}

			root := tree(t, newParser(t, "commonmark", testCase.rules...), src)
			assert.Len(t, mdast.FindByKind(root, mdast.NodeLinkify), testCase.linkify)

			paragraph := root.Children[0]
			require.NotEmpty(t, paragraph.Children)
			assert.Equal(t, testCase.wantText, paragraph.Children[0].Meta.StringOf(mdast.KeyContent))
		})
	}
}

func TestTree_Table(t *testing.T) {
	t.Parallel()

	src := "| a | b |\n|:--|--:|\n| 1 | 2 |\n| 3 | 4 |\n"
	p := newParser(t, "gfm")
	root := tree(t, p, src)
	table := root.Children[0]

	require.Equal(t, mdast.NodeTable, table.Kind)
	aligns, ok := table.Meta[mdast.KeyAlignments].AsStrings()
	require.True(t, ok)
	assert.Equal(t, []string{"left", "right"}, aligns)
	assert.Equal(t, []string{"thead", "tbody"}, kindNames(table.Children))

	head := table.Children[0]
	require.Len(t, head.Children, 1)
	assert.Equal(t, mdast.NodeTableRow, head.Children[0].Kind)
	assert.Len(t, head.Children[0].Children, 2)
	assert.Len(t, table.Children[1].Children, 2)

	cell := head.Children[0].Children[1]
	assert.Equal(t, "right", cell.Meta.StringOf(mdast.KeyAlignment))
	assert.Equal(t, 0, table.Span.Start)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(render(t, p, src)))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("table thead tr th").Length())
	assert.Equal(t, 4, doc.Find("table tbody tr td").Length())
	assert.Equal(t, "4", doc.Find("table tbody tr").Last().Find("td").Last().Text())
}

func TestTree_StrikethroughAndTasklist(t *testing.T) {
	t.Parallel()

	p := newParser(t, "gfm")
	root := tree(t, p, "- [x] ~~gone~~\n- [ ] todo\n")

	boxes := mdast.FindByKind(root, mdast.NodeTodoCheckbox)
	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].Meta.BoolOf(mdast.KeyChecked))
	assert.False(t, boxes[1].Meta.BoolOf(mdast.KeyChecked))
	assert.True(t, boxes[0].Meta.BoolOf(mdast.KeyDisabled))

	strike := mdast.FindByKind(root, mdast.NodeStrikethrough)
	require.Len(t, strike, 1)
	assert.Equal(t, "~~", strike[0].Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, mdast.Span{Start: 6, End: 14}, *strike[0].Span)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(render(t, p, "~~gone~~")))
	require.NoError(t, err)
	assert.Equal(t, "gone", doc.Find("del").Text())
}

func TestTree_Footnotes(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark", "footnote"), "a[^note]\n\n[^note]: text\n")

	refs := mdast.FindByKind(root, mdast.NodeFootnoteRef)
	require.Len(t, refs, 1)
	assert.Equal(t, "note", refs[0].Meta.StringOf(mdast.KeyLabel))

	containers := mdast.FindByKind(root, mdast.NodeFootnoteContainer)
	require.Len(t, containers, 1)

	defs := mdast.FindByKind(containers[0], mdast.NodeFootnoteDef)
	require.Len(t, defs, 1)
	assert.Equal(t, "note", defs[0].Meta.StringOf(mdast.KeyLabel))
	assert.Equal(t, refs[0].Meta.IntOf(mdast.KeyDefID), defs[0].Meta.IntOf(mdast.KeyDefID))
	assert.NotEmpty(t, mdast.FindByKind(defs[0], mdast.NodeFootnoteRefAnchor))
}

func TestTree_DefinitionList(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark", "definition_list"), "Term\n: Meaning\n")

	assert.Equal(t, []string{"dl"}, kindNames(root.Children))
	assert.Equal(t, []string{"dt", "dd"}, kindNames(root.Children[0].Children))
}

func TestTree_FrontMatter(t *testing.T) {
	t.Parallel()

	src := "---\ntitle: x\n---\n# H\n"
	p := newParser(t, "commonmark", "front_matter")
	root := tree(t, p, src)

	require.Len(t, root.Children, 2)
	front := root.Children[0]
	assert.Equal(t, mdast.NodeFrontMatter, front.Kind)
	assert.Equal(t, "title: x\n", front.Meta.StringOf(mdast.KeyContent))
	assert.Equal(t, 0, front.Span.Start)
	assert.Equal(t, mdast.NodeHeading, root.Children[1].Kind)

	assert.Equal(t, "<h1>H</h1>\n", render(t, p, src))
}

func TestTree_HeadingAnchors(t *testing.T) {
	t.Parallel()

	p := newParser(t, "commonmark", "heading_anchors")
	root := tree(t, p, "# Hello")
	heading := root.Children[0]

	assert.Equal(t, "hello", heading.Attrs["id"])
	require.NotEmpty(t, heading.Children)
	anchor := heading.Children[0]
	assert.Equal(t, mdast.NodeHeadingAnchor, anchor.Kind)
	assert.Equal(t, "#hello", anchor.Meta.StringOf(mdast.KeyHref))

	assert.Contains(t, render(t, p, "# Hello"),
		`<h1 id="hello"><a class="anchor" aria-hidden="true" href="#hello">#</a>Hello</h1>`)
}

func TestTree_Attrs(t *testing.T) {
	t.Parallel()

	root := tree(t, newParser(t, "commonmark", "attrs"), "# Title {#custom .big}")
	heading := root.Children[0]

	assert.Equal(t, "custom", heading.Attrs["id"])
	assert.Equal(t, "big", heading.Attrs["class"])
}

func TestRender_Sourcepos(t *testing.T) {
	t.Parallel()

	p := newParser(t, "commonmark", "sourcepos")
	html := render(t, p, "# Hi\n\npara")

	assert.Contains(t, html, `<h1 data-sourcepos="1:1-1:4">Hi</h1>`)
	assert.Contains(t, html, `<p data-sourcepos="3:1-3:4">para</p>`)

	root := tree(t, p, "# Hi\n\npara")
	assert.Equal(t, "3:1-3:4", root.Children[1].Attrs["data-sourcepos"])
}

func TestTree_Typographer(t *testing.T) {
	t.Parallel()

	p := newParser(t, "commonmark", "replacements")
	root := tree(t, p, "a -- b")

	special := mdast.FindByKind(root, mdast.NodeTextSpecial)
	require.Len(t, special, 1)
	assert.Equal(t, "–", special[0].Meta.StringOf(mdast.KeyContent))
	assert.Equal(t, "--", special[0].Meta.StringOf(mdast.KeyMarkup))
	assert.Equal(t, "typographer", special[0].Meta.StringOf(mdast.KeyInfo))
	assert.Contains(t, render(t, p, "a -- b"), "&ndash;")

	// Quotes stay plain until smartquotes is enabled.
	assert.NotContains(t, render(t, p, `"q"`), "&ldquo;")
	assert.Contains(t, render(t, newParser(t, "commonmark", "replacements", "smartquotes"), `"q"`), "&ldquo;")
}

func TestTree_DeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 20000
	src := strings.Repeat(">", depth) + " deep"
	p := newParser(t, "commonmark")

	root := tree(t, p, src)

	quotes := mdast.FindByKind(root, mdast.NodeBlockquote)
	assert.NotEmpty(t, quotes)
	text := mdast.FindFirst(root, func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeText && strings.Contains(n.Meta.StringOf(mdast.KeyContent), "deep")
	})
	assert.NotNil(t, text)
	assert.Len(t, root.Walk(true), root.Count()+1)

	_, err := p.Render(src)
	require.NoError(t, err)
}

func TestTree_SpansStayInsideSource(t *testing.T) {
	t.Parallel()

	sources := []string{
		"# Hello\n\nWorld **strong**",
		"> quote\n> more\n\n- a\n- b\n\n1. x\n",
		"| a |\n|---|\n| b |\n",
		"```\ncode\n```\n\n<div>\nhtml\n</div>\n",
		"[ref]\n\n[ref]: http://x \"t\"\n",
		"a  \nb\\\nc",
	}

	p := newParser(t, "gfm", "footnote", "definition_list", "replacements", "smartquotes")
	for _, src := range sources {
		root := tree(t, p, src)
		for _, n := range root.Walk(true) {
			if n.Span == nil {
				continue
			}
			assert.LessOrEqual(t, 0, n.Span.Start, src)
			assert.LessOrEqual(t, n.Span.Start, n.Span.End, src)
			assert.LessOrEqual(t, n.Span.End, len(src), src)
			assert.True(t, mdast.SchemaFor(n.Kind).Conforms(n.Meta), "%s in %q", n.Kind, src)
		}
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	t.Parallel()

	p := newParser(t, "gfm")
	src := "# Title\n\n| a |\n|---|\n| b |\n\n- [x] done\n"
	expected := render(t, p, src)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Go(func() {
			html, err := p.Render(src)
			if err == nil {
				results[i] = html
			}
		})
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, expected, got)
	}
}

func TestAvailableRules(t *testing.T) {
	t.Parallel()

	rules := goldmark.AvailableRules()

	assert.Equal(t, "blockquote", rules[0])
	assert.Contains(t, rules, "table")
	assert.Contains(t, rules, "sourcepos")

	seen := make(map[string]bool)
	for _, name := range rules {
		assert.False(t, seen[name], "duplicate rule %s", name)
		seen[name] = true

		spec, ok := goldmark.DefaultRegistry.Rule(name)
		require.True(t, ok)
		assert.NotEmpty(t, spec.Description)
	}

	assert.Equal(t, []string{"commonmark", "gfm", "zero"}, goldmark.AvailablePresets())
}

package goldmark

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

// langPrefix is the class prefix given to fence languages.
const langPrefix = "language-"

// classification is the result of classifying one engine node.
type classification struct {
	// node is the converted node, nil for transparent engine nodes whose
	// children belong to the enclosing node.
	node *mdast.Node

	// after holds siblings emitted right after node, such as line breaks.
	after []*mdast.Node

	// inner receives the converted children instead of node.
	inner *mdast.Node

	// lead and trail widen a span derived from the children.
	lead, trail int

	// end, when positive, is the exact end offset of a derived span.
	end int

	// derived spans come from the children widened by lead and trail,
	// never from the span recorded while parsing.
	derived bool

	// finish runs once the span of node is final.
	finish func(n *mdast.Node)
}

// classify maps one engine node to its generic kind and metadata. Kinds the
// switch does not know fall back to NodeUnknown and keep only attributes,
// span, and children.
func (c *converter) classify(node ast.Node) classification {
	var out classification

	switch n := node.(type) {
	case *ast.Document:
		out.node = mdast.NewRoot()

	case *ast.TextBlock, *PlainBlock:
		return classification{}

	case *ast.Paragraph:
		out.node = mdast.NewNode(mdast.NodeParagraph)

	case *ast.Heading:
		out = c.classifyHeading(n)

	case *ast.Blockquote:
		out.node = mdast.NewNode(mdast.NodeBlockquote)

	case *ast.CodeBlock:
		out.node = mdast.NewNode(mdast.NodeCodeBlock).
			WithMeta(mdast.KeyContent, mdast.StringValue(string(codeLines(n, c.source))))

	case *ast.FencedCodeBlock:
		out.node = c.classifyFence(n)

	case *ast.ThematicBreak:
		out.node = c.classifyThematicBreak(n)

	case *ast.List:
		out.node = classifyList(n)

	case *ast.ListItem:
		out.node = mdast.NewNode(mdast.NodeListItem)

	case *ast.HTMLBlock:
		content := codeLines(n, c.source)
		if n.HasClosure() {
			content = append(content, n.ClosureLine.Value(c.source)...)
		}
		out.node = mdast.NewNode(mdast.NodeHTMLBlock).
			WithMeta(mdast.KeyContent, mdast.StringValue(string(content)))

	case *ast.Text:
		out = c.classifyText(n)

	case *ast.String:
		out.node = c.classifyString(n)

	case *ast.CodeSpan:
		out.node = c.classifyCodeSpan(n)

	case *ast.Emphasis:
		out = classifyEmphasis(n, c.source)

	case *ast.Link:
		out = c.classifyLink(n, mdast.NodeLink, 1, n.Destination, n.Title)

	case *ast.Image:
		out = c.classifyLink(n, mdast.NodeImage, 2, n.Destination, n.Title)

	case *ast.AutoLink:
		out.node = c.classifyAutoLink(n)

	case *ast.RawHTML:
		var content []byte
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			content = append(content, seg.Value(c.source)...)
		}
		out.node = mdast.NewNode(mdast.NodeHTMLInline).
			WithMeta(mdast.KeyContent, mdast.StringValue(string(content)))

	case *east.Strikethrough:
		out = classifyStrikethrough(c.source)

	case *east.Table:
		aligns := make([]string, len(n.Alignments))
		for i, a := range n.Alignments {
			aligns[i] = a.String()
		}
		out.node = mdast.NewNode(mdast.NodeTable).
			WithMeta(mdast.KeyAlignments, mdast.StringsValue(aligns))

	case *east.TableHeader:
		// Header cells hang directly off the header node; markdown trees
		// put them in a row.
		out.node = mdast.NewNode(mdast.NodeTableHead)
		out.inner = mdast.NewNode(mdast.NodeTableRow)

	case *east.TableRow:
		out.node = mdast.NewNode(mdast.NodeTableRow)

	case *east.TableCell:
		out.node = mdast.NewNode(mdast.NodeTableCell).
			WithMeta(mdast.KeyAlignment, mdast.StringValue(n.Alignment.String()))

	case *east.TaskCheckBox:
		out.node = mdast.NewNode(mdast.NodeTodoCheckbox).
			WithMeta(mdast.KeyChecked, mdast.BoolValue(n.IsChecked)).
			WithMeta(mdast.KeyDisabled, mdast.BoolValue(true))

	case *east.FootnoteLink:
		out.node = c.classifyFootnoteRef(n)

	case *east.Footnote:
		out.node = mdast.NewNode(mdast.NodeFootnoteDef).
			WithMeta(mdast.KeyDefID, mdast.IntValue(n.Index)).
			WithMeta(mdast.KeyInline, mdast.BoolValue(false))
		if len(n.Ref) > 0 {
			out.node.WithMeta(mdast.KeyLabel, mdast.StringValue(string(n.Ref)))
		}

	case *east.FootnoteList:
		out.node = mdast.NewNode(mdast.NodeFootnoteContainer)

	case *east.FootnoteBacklink:
		out.node = mdast.NewNode(mdast.NodeFootnoteRefAnchor).
			WithMeta(mdast.KeyRefIDs, mdast.StringsValue([]string{strconv.Itoa(n.RefIndex)}))

	case *east.DefinitionList:
		out.node = mdast.NewNode(mdast.NodeDefinitionList)

	case *east.DefinitionTerm:
		out.node = mdast.NewNode(mdast.NodeDefinitionTerm)

	case *east.DefinitionDescription:
		out.node = mdast.NewNode(mdast.NodeDefinitionDesc).
			WithMeta(mdast.KeyTight, mdast.BoolValue(n.IsTight))

	case *FrontMatter:
		out.node = mdast.NewNode(mdast.NodeFrontMatter).
			WithMeta(mdast.KeyContent, mdast.StringValue(string(n.Content)))

	case *HeadingAnchor:
		target := string(n.Target)
		out.node = mdast.NewNode(mdast.NodeHeadingAnchor).
			WithMeta(mdast.KeyHref, mdast.StringValue("#"+target)).
			WithMeta(mdast.KeyID, mdast.StringValue(target))

	default:
		out.node = mdast.NewNode(mdast.NodeUnknown)
	}

	out.node.OriginKind = originKind(node)
	out.node.Attrs = attributes(node)
	if out.node.Span == nil && !out.derived {
		out.node.Span = c.recordedSpan(node)
	}
	return out
}

func (c *converter) classifyHeading(n *ast.Heading) classification {
	span := c.rec.block(n)
	if c.rec.rule(n) != "lheading" && (span == nil || c.byteAt(span.Start) == '#') {
		return classification{
			node: mdast.NewNode(mdast.NodeHeading).WithMeta(mdast.KeyLevel, mdast.IntValue(n.Level)),
		}
	}

	marker := "="
	if n.Level == 2 {
		marker = "-"
	}
	if span != nil {
		end := span.End
		for end > span.Start && isSpace(c.byteAt(end-1)) {
			end--
		}
		if b := c.byteAt(end - 1); b == '=' || b == '-' {
			marker = string(b)
		}
	}
	return classification{
		node: mdast.NewNode(mdast.NodeLHeading).
			WithMeta(mdast.KeyLevel, mdast.IntValue(n.Level)).
			WithMeta(mdast.KeyMarker, mdast.StringValue(marker)),
	}
}

func (c *converter) classifyFence(n *ast.FencedCodeBlock) *mdast.Node {
	marker, markerLen := "`", 3
	if span := c.rec.block(n); span != nil {
		start := span.Start
		for isSpace(c.byteAt(start)) && start < span.End {
			start++
		}
		if b := c.byteAt(start); b == '`' || b == '~' {
			marker = string(b)
			markerLen = runLength(c.source, start, b)
		}
	}

	var info string
	if n.Info != nil {
		info = string(unescape(n.Info.Segment.Value(c.source)))
	}

	node := mdast.NewNode(mdast.NodeFence).
		WithMeta(mdast.KeyInfo, mdast.StringValue(info)).
		WithMeta(mdast.KeyMarker, mdast.StringValue(marker)).
		WithMeta(mdast.KeyMarkerLen, mdast.IntValue(markerLen)).
		WithMeta(mdast.KeyContent, mdast.StringValue(string(codeLines(n, c.source)))).
		WithMeta(mdast.KeyLangPrefix, mdast.StringValue(langPrefix))
	if info == "" && c.detectLang {
		if lang := fenceLanguage(n, c.source, true); lang != "" {
			node.WithMeta(mdast.KeyLang, mdast.StringValue(lang))
		}
	}
	return node
}

func (c *converter) classifyThematicBreak(n *ast.ThematicBreak) *mdast.Node {
	marker, count := "-", 3
	if span := c.rec.block(n); span != nil {
		for i := span.Start; i < span.End; i++ {
			if b := c.byteAt(i); b == '-' || b == '*' || b == '_' {
				marker = string(b)
				count = bytes.Count(c.source[i:span.End], []byte{b})
				break
			}
		}
	}
	return mdast.NewNode(mdast.NodeHR).
		WithMeta(mdast.KeyMarker, mdast.StringValue(marker)).
		WithMeta(mdast.KeyMarkerLen, mdast.IntValue(count))
}

func classifyList(n *ast.List) *mdast.Node {
	if n.IsOrdered() {
		return mdast.NewNode(mdast.NodeOrderedList).
			WithMeta(mdast.KeyStart, mdast.IntValue(n.Start)).
			WithMeta(mdast.KeyMarker, mdast.StringValue(string(n.Marker))).
			WithMeta(mdast.KeyTight, mdast.BoolValue(n.IsTight))
	}
	return mdast.NewNode(mdast.NodeBulletList).
		WithMeta(mdast.KeyMarker, mdast.StringValue(string(n.Marker))).
		WithMeta(mdast.KeyTight, mdast.BoolValue(n.IsTight))
}

// classifyText converts a text run. A trailing line break becomes a
// separate sibling node.
func (c *converter) classifyText(n *ast.Text) classification {
	var out classification

	value := n.Segment.Value(c.source)
	content := value
	if !n.IsRaw() {
		content = unescape(value)
	}

	var brk *mdast.Node
	switch {
	case n.HardLineBreak():
		brk = mdast.NewNode(mdast.NodeHardbreak)
	case n.SoftLineBreak():
		brk = mdast.NewNode(mdast.NodeSoftbreak)
	}
	if brk != nil {
		brk.OriginKind = originKind(n)
		brk.Span = c.breakSpan(n.Segment.Stop)
	}

	if len(value) == 0 && brk != nil {
		out.node = brk
		return out
	}

	out.node = mdast.NewNode(mdast.NodeText).
		WithMeta(mdast.KeyContent, mdast.StringValue(string(content))).
		WithSpan(&mdast.Span{Start: n.Segment.Start, End: n.Segment.Stop})
	if brk != nil {
		out.after = []*mdast.Node{brk}
	}
	return out
}

// classifyString converts a typographer substitution.
func (c *converter) classifyString(n *ast.String) *mdast.Node {
	markup := string(n.Value)
	if rec, ok := c.rec.inline(n); ok {
		span := rec.span.Clamp(len(c.source))
		markup = string(c.source[span.Start:span.End])
	}
	content := string(n.Value)
	if n.IsCode() {
		content = string(util.ResolveEntityNames(util.ResolveNumericReferences(n.Value)))
	}
	return mdast.NewNode(mdast.NodeTextSpecial).
		WithMeta(mdast.KeyContent, mdast.StringValue(content)).
		WithMeta(mdast.KeyMarkup, mdast.StringValue(markup)).
		WithMeta(mdast.KeyInfo, mdast.StringValue("typographer"))
}

func (c *converter) classifyCodeSpan(n *ast.CodeSpan) *mdast.Node {
	markerLen := 1
	if rec, ok := c.rec.inline(n); ok {
		markerLen = max(1, runLength(c.source, rec.span.Start, '`'))
	}
	return mdast.NewNode(mdast.NodeCodeInline).
		WithMeta(mdast.KeyMarker, mdast.StringValue("`")).
		WithMeta(mdast.KeyMarkerLen, mdast.IntValue(markerLen))
}

func classifyEmphasis(n *ast.Emphasis, source []byte) classification {
	kind, marker := mdast.NodeEm, "*"
	if n.Level >= 2 {
		kind, marker = mdast.NodeStrong, "**"
	}
	return classification{
		node:  mdast.NewNode(kind).WithMeta(mdast.KeyMarker, mdast.StringValue(marker)),
		lead:  n.Level,
		trail: n.Level,
		finish: func(node *mdast.Node) {
			if node.Span == nil {
				return
			}
			if b := byteAt(source, node.Span.Start); b == '*' || b == '_' {
				node.WithMeta(mdast.KeyMarker, mdast.StringValue(string(bytes.Repeat([]byte{b}, min(n.Level, 2)))))
			}
		},
	}
}

func classifyStrikethrough(source []byte) classification {
	return classification{
		node:  mdast.NewNode(mdast.NodeStrikethrough).WithMeta(mdast.KeyMarker, mdast.StringValue("~~")),
		lead:  2,
		trail: 2,
		finish: func(node *mdast.Node) {
			if node.Span == nil {
				return
			}
			node.WithMeta(mdast.KeyMarker, mdast.StringValue(
				string(bytes.Repeat([]byte{'~'}, max(1, min(2, runLength(source, node.Span.Start, '~')))))))
		},
	}
}

// classifyLink converts links and images. lead is the length of the
// opening bracket markup.
func (c *converter) classifyLink(node ast.Node, kind mdast.NodeKind, lead int, dest, title []byte) classification {
	out := classification{
		node: mdast.NewNode(kind).WithMeta(mdast.KeyURL, mdast.StringValue(string(unescape(dest)))),
		lead: lead,
	}
	// The link parser fires on the closing bracket, so the recorded span
	// starts there. The opening bracket is found from the label instead.
	rec, recorded := c.rec.inline(node)
	if recorded {
		out.end = rec.span.End
	}
	switch {
	case node.FirstChild() != nil:
		out.derived = true
	case recorded:
		out.node.Span = &mdast.Span{Start: max(0, rec.span.Start-lead), End: rec.span.End}
	}

	switch {
	case title != nil:
		out.node.WithMeta(mdast.KeyTitle, mdast.StringValue(string(unescape(title))))
	case recorded && hasEmptyTitle(c.source[rec.span.Start:min(rec.span.End, len(c.source))]):
		out.node.WithMeta(mdast.KeyTitle, mdast.StringValue(""))
	}
	return out
}

// hasEmptyTitle reports whether the inline destination of a link ends with
// an explicit empty title: "", ” or ().
func hasEmptyTitle(markup []byte) bool {
	if !bytes.HasSuffix(markup, []byte(")")) {
		return false
	}
	inner := bytes.TrimRight(markup[:len(markup)-1], " \t\r\n")
	for _, empty := range []string{`""`, `''`, `()`} {
		if bytes.HasSuffix(inner, []byte(empty)) {
			rest := inner[:len(inner)-len(empty)]
			return len(rest) > 0 && isSpace(rest[len(rest)-1])
		}
	}
	return false
}

func (c *converter) classifyAutoLink(n *ast.AutoLink) *mdast.Node {
	url := string(n.URL(c.source))
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix([]byte(url), []byte("mailto:")) {
		url = "mailto:" + url
	}

	kind := mdast.NodeAutolink
	rec, recorded := c.rec.inline(n)
	if recorded && isLinkifyRule(rec.rule) {
		kind = mdast.NodeLinkify
	}
	node := mdast.NewNode(kind).WithMeta(mdast.KeyURL, mdast.StringValue(url))

	label := mdast.NewNode(mdast.NodeText).
		WithMeta(mdast.KeyContent, mdast.StringValue(string(n.Label(c.source))))
	label.OriginKind = originKind(n)
	if recorded {
		span := rec.span.Clamp(len(c.source))
		if kind == mdast.NodeLinkify {
			// The linkify parser is triggered by the byte before the URL.
			for span.Start < span.End && bytes.IndexByte([]byte(" *_~("), c.source[span.Start]) >= 0 {
				span.Start++
			}
			node.Span = &mdast.Span{Start: span.Start, End: span.End}
		}
		if kind == mdast.NodeAutolink && span.Len() >= 2 {
			span = mdast.Span{Start: span.Start + 1, End: span.End - 1}
		}
		label.Span = &span
	}
	mdast.AppendChild(node, label)
	return node
}

func (c *converter) classifyFootnoteRef(n *east.FootnoteLink) *mdast.Node {
	node := mdast.NewNode(mdast.NodeFootnoteRef).
		WithMeta(mdast.KeyDefID, mdast.IntValue(n.Index)).
		WithMeta(mdast.KeyRefID, mdast.IntValue(n.RefIndex))
	if rec, ok := c.rec.inline(n); ok {
		markup := c.source[rec.span.Start:min(rec.span.End, len(c.source))]
		if bytes.HasPrefix(markup, []byte("[^")) && bytes.HasSuffix(markup, []byte("]")) {
			node.WithMeta(mdast.KeyLabel, mdast.StringValue(string(markup[2:len(markup)-1])))
		}
	}
	return node
}

// recordedSpan returns the span captured for node while parsing.
func (c *converter) recordedSpan(node ast.Node) *mdast.Span {
	if span := c.rec.block(node); span != nil {
		clamped := span.Clamp(len(c.source))
		return &clamped
	}
	if rec, ok := c.rec.inline(node); ok {
		clamped := rec.span.Clamp(len(c.source))
		return &clamped
	}
	return nil
}

// breakSpan covers the line ending that starts at offset, including
// trailing spaces or a backslash.
func (c *converter) breakSpan(offset int) *mdast.Span {
	end := offset
	for end < len(c.source) && c.source[end] != '\n' {
		end++
	}
	if end < len(c.source) {
		end++
	}
	return &mdast.Span{Start: min(offset, len(c.source)), End: end}
}

func (c *converter) byteAt(offset int) byte {
	return byteAt(c.source, offset)
}

func byteAt(source []byte, offset int) byte {
	if offset < 0 || offset >= len(source) {
		return 0
	}
	return source[offset]
}

func runLength(source []byte, start int, b byte) int {
	n := 0
	for byteAt(source, start+n) == b {
		n++
	}
	return n
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// unescape resolves backslash escapes and character references.
func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// originKind names the engine type of node, e.g.
// "github.com/yuin/goldmark/ast.Heading".
func originKind(node ast.Node) string {
	t := reflect.TypeOf(node)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// attributes copies the rendering attributes of node.
func attributes(node ast.Node) map[string]string {
	attrs := node.Attributes()
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		out[string(attr.Name)] = attributeValue(attr.Value)
	}
	return out
}

func attributeValue(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([][]byte, 0, len(v))
		for _, item := range v {
			parts = append(parts, []byte(attributeValue(item)))
		}
		return string(bytes.Join(parts, []byte(" ")))
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

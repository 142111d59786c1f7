package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

// Engine node kinds added by this package.
//
//nolint:gochecknoglobals // Kinds are registered once, like goldmark's own.
var (
	KindPlainBlock    = ast.NewNodeKind("PlainBlock")
	KindFrontMatter   = ast.NewNodeKind("FrontMatter")
	KindHeadingAnchor = ast.NewNodeKind("HeadingAnchor")
)

// PlainBlock holds lines no enabled block rule claimed. It renders as its
// inline content followed by a newline and is transparent in trees.
type PlainBlock struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *PlainBlock) Kind() ast.NodeKind {
	return KindPlainBlock
}

// Dump implements ast.Node.
func (n *PlainBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// FrontMatter is a YAML block delimited by "---" lines at the top of a
// document.
type FrontMatter struct {
	ast.BaseBlock

	// Content is the text between the delimiters.
	Content []byte
}

// Kind implements ast.Node.
func (n *FrontMatter) Kind() ast.NodeKind {
	return KindFrontMatter
}

// IsRaw implements ast.Node.
func (n *FrontMatter) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *FrontMatter) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Content": string(n.Content)}, nil)
}

// HeadingAnchor is a self-link placed at the start of a heading.
type HeadingAnchor struct {
	ast.BaseInline

	// Target is the heading id the anchor points to.
	Target []byte
}

// Kind implements ast.Node.
func (n *HeadingAnchor) Kind() ast.NodeKind {
	return KindHeadingAnchor
}

// Dump implements ast.Node.
func (n *HeadingAnchor) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Target": string(n.Target)}, nil)
}

// nodeRenderer renders the kinds above.
type nodeRenderer struct{}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindPlainBlock, r.renderPlainBlock)
	reg.Register(KindFrontMatter, r.renderFrontMatter)
	reg.Register(KindHeadingAnchor, r.renderHeadingAnchor)
}

func (r *nodeRenderer) renderPlainBlock(
	w util.BufWriter, _ []byte, _ ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderFrontMatter(
	util.BufWriter, []byte, ast.Node, bool,
) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderHeadingAnchor(
	w util.BufWriter, _ []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	anchor := node.(*HeadingAnchor)
	_, _ = w.WriteString(`<a class="anchor" aria-hidden="true" href="#`)
	html.DefaultWriter.Write(w, anchor.Target)
	_, _ = w.WriteString(`">#</a>`)
	return ast.WalkSkipChildren, nil
}

// fenceRenderer replaces the fenced code renderer so that fences without
// an info string get a detected language class.
type fenceRenderer struct{}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFence)
}

func (r *fenceRenderer) renderFence(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	fence := node.(*ast.FencedCodeBlock)
	lang := fenceLanguage(fence, source, true)
	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="` + langPrefix)
		html.DefaultWriter.Write(w, []byte(lang))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	lines := fence.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		html.DefaultWriter.RawWrite(w, line.Value(source))
	}
	return ast.WalkContinue, nil
}

// fenceLanguage returns the language of a fence: the first word of its info
// string, or a detected language when detect is set and the info is empty.
func fenceLanguage(fence *ast.FencedCodeBlock, source []byte, detect bool) string {
	if lang := fence.Language(source); len(lang) > 0 {
		return string(lang)
	}
	if !detect {
		return ""
	}
	lang, ok := langdetect.Detect(codeLines(fence, source))
	if !ok {
		return ""
	}
	return lang
}

// codeLines joins the content lines of a code block.
func codeLines(node ast.Node, source []byte) []byte {
	lines := node.Lines()
	var buf []byte
	for i := range lines.Len() {
		line := lines.At(i)
		buf = append(buf, line.Value(source)...)
	}
	return buf
}

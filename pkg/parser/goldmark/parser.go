// Package goldmark builds configurable Markdown parsers on goldmark and
// converts their output into generic mdast trees.
package goldmark

import (
	"bytes"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/mdast"
)

// Parser is a frozen configuration. It never changes after Freeze, so a
// Parser may be shared between goroutines.
type Parser struct {
	preset     string
	rules      []string
	xhtml      bool
	detectLang bool
	md         goldmark.Markdown
}

// Preset returns the preset the parser was built from.
func (p *Parser) Preset() string {
	return p.preset
}

// Rules returns the rules active in the parser.
func (p *Parser) Rules() []string {
	return slices.Clone(p.rules)
}

// XHTML reports whether Render emits self-closing void elements.
func (p *Parser) XHTML() bool {
	return p.xhtml
}

// Render converts Markdown source to HTML.
func (p *Parser) Render(src string) (string, error) {
	source, err := checkSource(src)
	if err != nil {
		return "", err
	}

	started := time.Now()
	doc, _ := p.parse(source)

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	logging.Default().Debug("rendered",
		logging.FieldBytes, humanize.Bytes(uint64(len(source))),
		logging.FieldOutput, humanize.Bytes(uint64(buf.Len())),
		logging.FieldDuration, time.Since(started),
	)
	return buf.String(), nil
}

// Tree parses Markdown source into a generic tree owned by the caller.
func (p *Parser) Tree(src string) (*mdast.Node, error) {
	source, err := checkSource(src)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	doc, rec := p.parse(source)
	conv := &converter{source: source, rec: rec, detectLang: p.detectLang}
	root := conv.convert(doc)

	logging.Default().Debug("parsed",
		logging.FieldBytes, humanize.Bytes(uint64(len(source))),
		logging.FieldNodes, root.Count(),
		logging.FieldDuration, time.Since(started),
	)
	return root, nil
}

// parse runs the engine with a fresh span recorder.
func (p *Parser) parse(source []byte) (ast.Node, *spanRecorder) {
	rec := newSpanRecorder()
	pc := parser.NewContext()
	pc.Set(spanRecorderKey, rec)
	doc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))
	return doc, rec
}

// checkSource rejects text that is not valid UTF-8 and returns a private
// copy of the bytes.
func checkSource(src string) ([]byte, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidUTF8
	}
	return []byte(src), nil
}

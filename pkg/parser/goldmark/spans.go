package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

//nolint:gochecknoglobals // Context keys are process-wide, like goldmark's own.
var spanRecorderKey = parser.NewContextKey()

// spanRecorder collects byte spans of engine nodes while a document is
// parsed. One recorder serves exactly one parse call.
type spanRecorder struct {
	blocks  map[ast.Node]*mdast.Span
	inlines map[ast.Node]inlineRecord
	rules   map[ast.Node]string
}

type inlineRecord struct {
	span mdast.Span
	rule string
}

func newSpanRecorder() *spanRecorder {
	return &spanRecorder{
		blocks:  make(map[ast.Node]*mdast.Span),
		inlines: make(map[ast.Node]inlineRecord),
		rules:   make(map[ast.Node]string),
	}
}

// recorderFrom returns the recorder attached to pc, or nil.
func recorderFrom(pc parser.Context) *spanRecorder {
	rec, _ := pc.Get(spanRecorderKey).(*spanRecorder)
	return rec
}

// block returns the recorded span of a block node, or nil.
func (r *spanRecorder) block(node ast.Node) *mdast.Span {
	if r == nil {
		return nil
	}
	return r.blocks[node]
}

// inline returns the recorded span and producing rule of an inline node.
func (r *spanRecorder) inline(node ast.Node) (inlineRecord, bool) {
	if r == nil {
		return inlineRecord{}, false
	}
	rec, ok := r.inlines[node]
	return rec, ok
}

// rule returns the rule whose block parser opened node.
func (r *spanRecorder) rule(node ast.Node) string {
	if r == nil {
		return ""
	}
	return r.rules[node]
}

func (r *spanRecorder) extend(node ast.Node, end int) {
	if span := r.blocks[node]; span != nil && end > span.End {
		span.End = end
	}
}

// lineEnd returns the offset of the end of the line held by seg, without
// its line terminator.
func lineEnd(source []byte, seg text.Segment) int {
	end := min(seg.Stop, len(source))
	for end > seg.Start && (source[end-1] == '\n' || source[end-1] == '\r') {
		end--
	}
	return end
}

// recordingBlockParser records the lines a block parser claims.
type recordingBlockParser struct {
	parser.BlockParser

	rule string
}

func (b *recordingBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	rec := recorderFrom(pc)
	if rec == nil {
		return b.BlockParser.Open(parent, reader, pc)
	}

	line, seg := reader.PeekLine()
	start := seg.Start
	if offset := pc.BlockOffset(); offset > 0 && offset < len(line) {
		start += offset
	}
	last := pc.LastOpenedBlock().Node

	node, state := b.BlockParser.Open(parent, reader, pc)
	if node == nil {
		return node, state
	}

	// Setext headings take over the paragraph above their underline.
	if state&parser.RequireParagraph != 0 {
		if span := rec.blocks[last]; span != nil {
			start = span.Start
		}
	}
	end := max(start, lineEnd(reader.Source(), seg))
	rec.blocks[node] = &mdast.Span{Start: start, End: end}
	rec.rules[node] = b.rule
	return node, state
}

func (b *recordingBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	rec := recorderFrom(pc)
	if rec == nil {
		return b.BlockParser.Continue(node, reader, pc)
	}

	line, seg := reader.PeekLine()
	_, before := reader.Position()
	state := b.BlockParser.Continue(node, reader, pc)
	if line == nil || util.IsBlank(line) {
		return state
	}

	_, after := reader.Position()
	if state&parser.Continue != 0 || after.Start != before.Start {
		rec.extend(node, lineEnd(reader.Source(), seg))
	}
	return state
}

// SetOption forwards parser options such as auto heading IDs.
func (b *recordingBlockParser) SetOption(name parser.OptionName, value any) {
	if so, ok := b.BlockParser.(parser.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

// recordingInlineParser records the bytes an inline parser consumed.
type recordingInlineParser struct {
	parser.InlineParser

	rule string
}

func (p *recordingInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	_, before := block.Position()
	node := p.InlineParser.Parse(parent, block, pc)

	rec := recorderFrom(pc)
	if node == nil || rec == nil {
		return node
	}

	_, after := block.Position()
	end := after.Start
	if end <= before.Start {
		end = lineEnd(block.Source(), before)
	}
	rec.inlines[node] = inlineRecord{
		span: mdast.Span{Start: before.Start, End: end},
		rule: p.rule,
	}
	return node
}

// CloseBlock forwards to parsers that keep per-block state.
func (p *recordingInlineParser) CloseBlock(parent ast.Node, block text.Reader, pc parser.Context) {
	if cb, ok := p.InlineParser.(parser.CloseBlocker); ok {
		cb.CloseBlock(parent, block, pc)
	}
}

// SetOption forwards parser options.
func (p *recordingInlineParser) SetOption(name parser.OptionName, value any) {
	if so, ok := p.InlineParser.(parser.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

// recordingParagraphTransformer hands the span of a paragraph to the
// block that replaced it, such as a table.
type recordingParagraphTransformer struct {
	parser.ParagraphTransformer
}

func (t *recordingParagraphTransformer) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	parent, prev := node.Parent(), node.PreviousSibling()
	t.ParagraphTransformer.Transform(node, reader, pc)

	rec := recorderFrom(pc)
	if rec == nil || parent == nil || node.Parent() != nil {
		return
	}
	span := rec.blocks[node]
	if span == nil {
		return
	}

	replacement := parent.FirstChild()
	if prev != nil {
		replacement = prev.NextSibling()
	}
	if replacement != nil && rec.blocks[replacement] == nil {
		rec.blocks[replacement] = &mdast.Span{Start: span.Start, End: span.End}
	}
}

// SetOption forwards parser options.
func (t *recordingParagraphTransformer) SetOption(name parser.OptionName, value any) {
	if so, ok := t.ParagraphTransformer.(parser.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

// recordingParser is the engine parser handed to goldmark. Every option
// added to it, including those added by extensions, is unpacked so that
// block and inline parsers can be wrapped with span recording.
type recordingParser struct {
	parser.Parser

	// rule is attributed to the parsers added next.
	rule string
}

func newRecordingParser() *recordingParser {
	return &recordingParser{Parser: parser.NewParser()}
}

// AddOptions implements parser.Parser.
func (p *recordingParser) AddOptions(opts ...parser.Option) {
	for _, opt := range opts {
		probe := parser.NewConfig()
		opt.SetParserOption(probe)
		p.Parser.AddOptions(p.unpack(probe)...)
	}
}

// unpack rebuilds the effect of one option on a parser config, with its
// block and inline parsers wrapped.
func (p *recordingParser) unpack(cfg *parser.Config) []parser.Option {
	var opts []parser.Option

	if len(cfg.BlockParsers) > 0 {
		wrapped := make([]util.PrioritizedValue, len(cfg.BlockParsers))
		for i, v := range cfg.BlockParsers {
			bp, _ := v.Value.(parser.BlockParser)
			wrapped[i] = util.Prioritized(&recordingBlockParser{BlockParser: bp, rule: p.rule}, v.Priority)
		}
		opts = append(opts, parser.WithBlockParsers(wrapped...))
	}
	if len(cfg.InlineParsers) > 0 {
		wrapped := make([]util.PrioritizedValue, len(cfg.InlineParsers))
		for i, v := range cfg.InlineParsers {
			ip, _ := v.Value.(parser.InlineParser)
			wrapped[i] = util.Prioritized(&recordingInlineParser{InlineParser: ip, rule: p.rule}, v.Priority)
		}
		opts = append(opts, parser.WithInlineParsers(wrapped...))
	}
	if len(cfg.ParagraphTransformers) > 0 {
		wrapped := make([]util.PrioritizedValue, len(cfg.ParagraphTransformers))
		for i, v := range cfg.ParagraphTransformers {
			pt, _ := v.Value.(parser.ParagraphTransformer)
			wrapped[i] = util.Prioritized(&recordingParagraphTransformer{ParagraphTransformer: pt}, v.Priority)
		}
		opts = append(opts, parser.WithParagraphTransformers(wrapped...))
	}
	if len(cfg.ASTTransformers) > 0 {
		opts = append(opts, parser.WithASTTransformers(cfg.ASTTransformers...))
	}
	for name, value := range cfg.Options {
		opts = append(opts, parser.WithOption(name, value))
	}
	if cfg.EscapedSpace {
		opts = append(opts, parser.WithEscapedSpace())
	}
	return opts
}

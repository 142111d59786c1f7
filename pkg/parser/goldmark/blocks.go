package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// plainBlockParser claims the lines no other block parser opened. With the
// paragraph rule active it never opens, since paragraphs accept any
// non-blank line first.
type plainBlockParser struct{}

// Trigger returns nil: the parser is tried on every line.
func (b *plainBlockParser) Trigger() []byte {
	return nil
}

func (b *plainBlockParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return nil, parser.NoChildren
	}
	node := &PlainBlock{}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (b *plainBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (b *plainBlockParser) Close(node ast.Node, reader text.Reader, _ parser.Context) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}
	last := lines.At(lines.Len() - 1)
	lines.Set(lines.Len()-1, last.TrimRightSpace(reader.Source()))
}

func (b *plainBlockParser) CanInterruptParagraph() bool {
	return false
}

func (b *plainBlockParser) CanAcceptIndentedLine() bool {
	return true
}

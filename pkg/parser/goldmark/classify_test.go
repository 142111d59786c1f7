package goldmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

// futureNode stands in for an engine node kind the classifier has never
// seen.
type futureNode struct {
	ast.BaseInline
}

//nolint:gochecknoglobals // Test-only node kind.
var kindFuture = ast.NewNodeKind("Future")

func (n *futureNode) Kind() ast.NodeKind {
	return kindFuture
}

func (n *futureNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

func TestClassify_UnknownKindKeepsCommonFields(t *testing.T) {
	t.Parallel()

	source := []byte("before future after")
	doc := ast.NewDocument()
	paragraph := ast.NewParagraph()
	future := &futureNode{}
	future.SetAttributeString("class", []byte("next"))
	future.AppendChild(future, ast.NewTextSegment(text.NewSegment(7, 13)))
	paragraph.AppendChild(paragraph, ast.NewTextSegment(text.NewSegment(0, 7)))
	paragraph.AppendChild(paragraph, future)
	doc.AppendChild(doc, paragraph)

	rec := newSpanRecorder()
	rec.inlines[future] = inlineRecord{span: mdast.Span{Start: 7, End: 13}}

	conv := &converter{source: source, rec: rec}
	var root *mdast.Node
	require.NotPanics(t, func() { root = conv.convert(doc) })

	unknown := mdast.FindByKind(root, mdast.NodeUnknown)
	require.Len(t, unknown, 1)

	node := unknown[0]
	assert.Equal(t, "unknown", node.Kind.String())
	assert.Equal(t, "next", node.Attrs["class"])
	assert.Equal(t, mdast.Span{Start: 7, End: 13}, *node.Span)
	assert.Empty(t, node.Meta)
	assert.Equal(t, "github.com/yaklabco/mdtree/pkg/parser/goldmark.futureNode", node.OriginKind)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "future", node.Children[0].Meta.StringOf(mdast.KeyContent))
}

func TestClassify_WithoutRecorder(t *testing.T) {
	t.Parallel()

	source := []byte("*a*")
	doc := ast.NewDocument()
	paragraph := ast.NewParagraph()
	em := ast.NewEmphasis(1)
	em.AppendChild(em, ast.NewTextSegment(text.NewSegment(1, 2)))
	paragraph.AppendChild(paragraph, em)
	doc.AppendChild(doc, paragraph)

	root := (&converter{source: source}).convert(doc)

	require.Len(t, root.Children, 1)
	emphasis := root.Children[0].Children[0]
	assert.Equal(t, mdast.NodeEm, emphasis.Kind)
	assert.Equal(t, mdast.Span{Start: 0, End: 3}, *emphasis.Span)
	assert.Equal(t, "*", emphasis.Meta.StringOf(mdast.KeyMarker))
	assert.Equal(t, mdast.Span{Start: 0, End: 3}, *root.Children[0].Span)
}

func TestHasEmptyTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		markup   string
		expected bool
	}{
		{`](http://x)`, false},
		{`](http://x "")`, true},
		{`](http://x '')`, true},
		{`](http://x ())`, true},
		{`](http://x "t")`, false},
		{`](<a"">)`, false},
		{`]`, false},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, hasEmptyTitle([]byte(testCase.markup)), testCase.markup)
	}
}

func TestAttributeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x", attributeValue([]byte("x")))
	assert.Equal(t, "x", attributeValue("x"))
	assert.Equal(t, "true", attributeValue(true))
	assert.Equal(t, "1.5", attributeValue(1.5))
	assert.Equal(t, "a b", attributeValue([]any{[]byte("a"), "b"}))
	assert.Empty(t, attributeValue(nil))
	assert.Equal(t, "7", attributeValue(7))
}

package mdast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

func text(content string) *mdast.Node {
	return mdast.NewNode(mdast.NodeText).WithMeta(mdast.KeyContent, mdast.StringValue(content))
}

func buildTestTree() *mdast.Node {
	// Build a simple tree:
	// root
	//   heading
	//     text
	//   paragraph
	//     text
	//     em
	//       text
	root := mdast.NewRoot()

	heading := mdast.NewNode(mdast.NodeHeading).WithMeta(mdast.KeyLevel, mdast.IntValue(1))
	mdast.AppendChild(heading, text("Title"))

	emphasis := mdast.NewNode(mdast.NodeEm).WithMeta(mdast.KeyMarker, mdast.StringValue("*"))
	mdast.AppendChild(emphasis, text("there"))

	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(para, text("hello "), emphasis)

	mdast.AppendChild(root, heading, para)
	return root
}

func kinds(nodes []*mdast.Node) []mdast.NodeKind {
	result := make([]mdast.NodeKind, len(nodes))
	for i, n := range nodes {
		result[i] = n.Kind
	}
	return result
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var visited []mdast.NodeKind
	err := mdast.Walk(buildTestTree(), func(n *mdast.Node) error {
		visited = append(visited, n.Kind)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeRoot,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEm,
		mdast.NodeText,
	}, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := mdast.Walk(buildTestTree(), func(n *mdast.Node) error {
		count++
		if n.Kind == mdast.NodeParagraph {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 4, count)
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	called := false
	err := mdast.Walk(nil, func(*mdast.Node) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestWalkWithContext(t *testing.T) {
	t.Parallel()

	var events []string
	err := mdast.WalkWithContext(buildTestTree(),
		func(n *mdast.Node) error {
			events = append(events, "enter:"+n.Kind.String())
			return nil
		},
		func(n *mdast.Node) error {
			events = append(events, "leave:"+n.Kind.String())
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"enter:root",
		"enter:heading",
		"enter:text",
		"leave:text",
		"leave:heading",
		"enter:paragraph",
		"enter:text",
		"leave:text",
		"enter:em",
		"enter:text",
		"leave:text",
		"leave:em",
		"leave:paragraph",
		"leave:root",
	}, events)
}

func TestNode_Walk(t *testing.T) {
	t.Parallel()

	root := buildTestTree()

	withSelf := root.Walk(true)
	require.Len(t, withSelf, 1+root.Count())
	assert.Same(t, root, withSelf[0])
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeRoot, mdast.NodeHeading, mdast.NodeText, mdast.NodeParagraph,
		mdast.NodeText, mdast.NodeEm, mdast.NodeText,
	}, kinds(withSelf))

	withoutSelf := root.Walk(false)
	require.Len(t, withoutSelf, root.Count())
	assert.Equal(t, withSelf[1:], withoutSelf)

	leaf := text("x")
	assert.Equal(t, []*mdast.Node{leaf}, leaf.Walk(true))
	assert.Empty(t, leaf.Walk(false))
}

func TestNode_Walk_DeepTree(t *testing.T) {
	t.Parallel()

	const depth = 100_000

	root := mdast.NewRoot()
	current := root
	for range depth {
		child := mdast.NewNode(mdast.NodeBlockquote)
		mdast.AppendChild(current, child)
		current = child
	}

	assert.Len(t, root.Walk(true), depth+1)
	assert.Equal(t, depth, root.Count())
	assert.Len(t, mdast.FindByKind(root, mdast.NodeBlockquote), depth)
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	texts := mdast.FindByKind(buildTestTree(), mdast.NodeText)
	require.Len(t, texts, 3)

	var contents []string
	for _, n := range texts {
		content, _ := n.Content()
		contents = append(contents, content)
	}
	assert.Equal(t, []string{"Title", "hello ", "there"}, contents)
}

func TestFindFirst(t *testing.T) {
	t.Parallel()

	root := buildTestTree()

	found := mdast.FindFirst(root, func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeText
	})
	require.NotNil(t, found)
	assert.Equal(t, "Title", found.Meta.StringOf(mdast.KeyContent))

	assert.Nil(t, mdast.FindFirst(root, func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeTable
	}))
}

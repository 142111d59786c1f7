package goldmark

import (
	"slices"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

// converter mirrors an engine tree into a generic tree. It keeps its work
// list on the heap, so nesting depth is bounded by memory only.
type converter struct {
	source     []byte
	rec        *spanRecorder
	detectLang bool
}

// pending is one entry of the conversion work list. Either src is converted
// and attached to parent, or ready is attached to parent as is.
type pending struct {
	src    ast.Node
	ready  *mdast.Node
	parent *mdast.Node
}

// converted remembers how to derive the span of a node once all of its
// children exist.
type converted struct {
	node        *mdast.Node
	lead, trail int
	end         int
	finish      func(n *mdast.Node)
}

// convert returns the generic tree for doc.
func (c *converter) convert(doc ast.Node) *mdast.Node {
	rootClass := c.classify(doc)
	root := rootClass.node
	root.Span = &mdast.Span{Start: 0, End: len(c.source)}

	order := []converted{{node: root}}
	stack := c.pushChildren(nil, doc, root)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.ready != nil {
			mdast.AppendChild(top.parent, top.ready)
			order = append(order, converted{node: top.ready})
			continue
		}

		class := c.classify(top.src)
		if class.node == nil {
			// Transparent: children go to the enclosing node.
			stack = c.pushChildren(stack, top.src, top.parent)
			continue
		}

		if mergeText(top.parent, class.node) {
			for _, sibling := range class.after {
				mdast.AppendChild(top.parent, sibling)
				order = append(order, converted{node: sibling})
			}
			continue
		}

		mdast.AppendChild(top.parent, class.node)
		order = append(order, converted{
			node:   class.node,
			lead:   class.lead,
			trail:  class.trail,
			end:    class.end,
			finish: class.finish,
		})
		for _, child := range class.node.Children {
			order = append(order, converted{node: child})
		}
		for _, sibling := range class.after {
			mdast.AppendChild(top.parent, sibling)
			order = append(order, converted{node: sibling})
		}

		target := class.node
		if class.inner != nil {
			mdast.AppendChild(class.node, class.inner)
			order = append(order, converted{node: class.inner})
			target = class.inner
		}

		if _, ok := top.src.(*east.Table); ok {
			stack = c.pushTableChildren(stack, top.src, target)
			continue
		}
		stack = c.pushChildren(stack, top.src, target)
	}

	// Reverse pre-order visits every node after all of its descendants.
	for i := len(order) - 1; i >= 0; i-- {
		c.settle(order[i])
	}
	return root
}

// pushChildren schedules the children of src so that they are popped in
// document order.
func (c *converter) pushChildren(stack []pending, src ast.Node, parent *mdast.Node) []pending {
	start := len(stack)
	for child := src.FirstChild(); child != nil; child = child.NextSibling() {
		stack = append(stack, pending{src: child, parent: parent})
	}
	slices.Reverse(stack[start:])
	return stack
}

// pushTableChildren schedules a table's header and groups the body rows
// under a tbody node, which the engine does not have.
func (c *converter) pushTableChildren(stack []pending, table ast.Node, node *mdast.Node) []pending {
	start := len(stack)
	var body *mdast.Node
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*east.TableRow); !ok {
			stack = append(stack, pending{src: child, parent: node})
			continue
		}
		if body == nil {
			body = mdast.NewNode(mdast.NodeTableBody)
			stack = append(stack, pending{ready: body, parent: node})
		}
		stack = append(stack, pending{src: child, parent: body})
	}
	slices.Reverse(stack[start:])
	return stack
}

// mergeText folds node into the text node before it when both come from
// one run that the engine split at an inline trigger byte such as '!' or
// '_'. It reports whether node was absorbed.
func mergeText(parent, node *mdast.Node) bool {
	if node.Kind != mdast.NodeText || node.Span == nil || len(parent.Children) == 0 {
		return false
	}
	prev := parent.Children[len(parent.Children)-1]
	if prev.Kind != mdast.NodeText || prev.OriginKind != node.OriginKind ||
		prev.Span == nil || prev.Span.End != node.Span.Start {
		return false
	}

	content := prev.Meta.StringOf(mdast.KeyContent) + node.Meta.StringOf(mdast.KeyContent)
	prev.WithMeta(mdast.KeyContent, mdast.StringValue(content))
	prev.Span = &mdast.Span{Start: prev.Span.Start, End: node.Span.End}
	return true
}

// settle fixes the span of a node from its children and runs its finish
// hook.
func (c *converter) settle(entry converted) {
	node := entry.node
	var inner *mdast.Span
	for _, child := range node.Children {
		inner = mdast.Union(inner, child.Span)
	}

	switch {
	case node.Span == nil && inner != nil:
		span := mdast.Span{Start: inner.Start - entry.lead, End: inner.End + entry.trail}
		if entry.end > 0 {
			span.End = entry.end
		}
		span = span.Clamp(len(c.source))
		node.Span = &span
	case node.Span != nil && inner != nil:
		node.Span = mdast.Union(node.Span, inner)
	}

	if entry.finish != nil {
		entry.finish(node)
	}
}

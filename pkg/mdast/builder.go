package mdast

// NewNode creates a new node of the specified kind with no children.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewRoot creates a new root node.
func NewRoot() *Node {
	return NewNode(NodeRoot)
}

// AppendChild appends children to a parent, keeping document order.
func AppendChild(parent *Node, children ...*Node) {
	if parent == nil {
		return
	}
	for _, child := range children {
		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
}

// WithMeta sets a metadata entry and returns n for chaining.
func (n *Node) WithMeta(key string, value Value) *Node {
	if n.Meta == nil {
		n.Meta = make(Meta)
	}
	n.Meta[key] = value
	return n
}

// WithAttr sets a rendering attribute and returns n for chaining.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// WithSpan sets the source span and returns n for chaining.
func (n *Node) WithSpan(span *Span) *Node {
	n.Span = span
	return n
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	type frame struct {
		src *Node
		dst *Node
	}

	root := cloneShallow(n)
	stack := []frame{{src: n, dst: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		top.dst.Children = make([]*Node, len(top.src.Children))
		for i, child := range top.src.Children {
			copied := cloneShallow(child)
			top.dst.Children[i] = copied
			stack = append(stack, frame{src: child, dst: copied})
		}
	}

	return root
}

func cloneShallow(n *Node) *Node {
	out := &Node{Kind: n.Kind, OriginKind: n.OriginKind}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Meta != nil {
		out.Meta = make(Meta, len(n.Meta))
		for k, v := range n.Meta {
			if list, ok := v.AsStrings(); ok {
				v = StringsValue(list)
			}
			out.Meta[k] = v
		}
	}
	if n.Span != nil {
		span := *n.Span
		out.Span = &span
	}
	return out
}

// Package mdast defines the generic document tree produced by the parsers:
// node kinds with their metadata schema, source spans, traversal, and
// indented dumps.
package mdast

// NodeKind classifies a node of the generic document tree.
// The set is closed: nodes the converter cannot classify use NodeUnknown.
type NodeKind uint16

// Node kinds. String returns the stable identifier used in dumps.
const (
	NodeUnknown NodeKind = iota
	NodeRoot

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeLHeading
	NodeBlockquote
	NodeCodeBlock
	NodeFence
	NodeHR
	NodeBulletList
	NodeOrderedList
	NodeListItem
	NodeHTMLBlock

	// Inline-level nodes.
	NodeText
	NodeTextSpecial
	NodeAutolink
	NodeLinkify
	NodeCodeInline
	NodeEm
	NodeStrong
	NodeStrikethrough
	NodeLink
	NodeImage
	NodeHardbreak
	NodeSoftbreak
	NodeHTMLInline

	// Table nodes.
	NodeTable
	NodeTableHead
	NodeTableBody
	NodeTableRow
	NodeTableCell

	// Extension nodes.
	NodeFrontMatter
	NodeTodoCheckbox
	NodeFootnoteRef
	NodeFootnoteDef
	NodeFootnoteContainer
	NodeFootnoteRefAnchor
	NodeHeadingAnchor
	NodeDefinitionList
	NodeDefinitionTerm
	NodeDefinitionDesc

	nodeKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [nodeKindCount]string{
	NodeUnknown:           "unknown",
	NodeRoot:              "root",
	NodeParagraph:         "paragraph",
	NodeHeading:           "heading",
	NodeLHeading:          "lheading",
	NodeBlockquote:        "blockquote",
	NodeCodeBlock:         "code_block",
	NodeFence:             "fence",
	NodeHR:                "hr",
	NodeBulletList:        "bullet_list",
	NodeOrderedList:       "ordered_list",
	NodeListItem:          "list_item",
	NodeHTMLBlock:         "html_block",
	NodeText:              "text",
	NodeTextSpecial:       "text_special",
	NodeAutolink:          "autolink",
	NodeLinkify:           "linkify",
	NodeCodeInline:        "code_inline",
	NodeEm:                "em",
	NodeStrong:            "strong",
	NodeStrikethrough:     "strikethrough",
	NodeLink:              "link",
	NodeImage:             "image",
	NodeHardbreak:         "hardbreak",
	NodeSoftbreak:         "softbreak",
	NodeHTMLInline:        "html_inline",
	NodeTable:             "table",
	NodeTableHead:         "thead",
	NodeTableBody:         "tbody",
	NodeTableRow:          "trow",
	NodeTableCell:         "tcell",
	NodeFrontMatter:       "front_matter",
	NodeTodoCheckbox:      "todo_checkbox",
	NodeFootnoteRef:       "footnote_ref",
	NodeFootnoteDef:       "footnote_def",
	NodeFootnoteContainer: "footnote_container",
	NodeFootnoteRefAnchor: "footnote_ref_anchor",
	NodeHeadingAnchor:     "heading_anchor",
	NodeDefinitionList:    "dl",
	NodeDefinitionTerm:    "dt",
	NodeDefinitionDesc:    "dd",
}

// String returns the lower-case identifier of the kind.
func (k NodeKind) String() string {
	if k >= nodeKindCount {
		return nodeKindNames[NodeUnknown]
	}
	return nodeKindNames[k]
}

// ParseNodeKind maps an identifier produced by String back to its kind.
func ParseNodeKind(name string) (NodeKind, bool) {
	for k, n := range nodeKindNames {
		if n == name {
			return NodeKind(k), true
		}
	}
	return NodeUnknown, false
}

// NodeKinds returns every kind in declaration order.
func NodeKinds() []NodeKind {
	kinds := make([]NodeKind, 0, nodeKindCount)
	for k := range nodeKindCount {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsBlock returns true for block-level kinds, including the root.
func (k NodeKind) IsBlock() bool {
	switch k {
	case NodeRoot, NodeParagraph, NodeHeading, NodeLHeading, NodeBlockquote,
		NodeCodeBlock, NodeFence, NodeHR, NodeBulletList, NodeOrderedList,
		NodeListItem, NodeHTMLBlock, NodeTable, NodeTableHead, NodeTableBody,
		NodeTableRow, NodeTableCell, NodeFrontMatter, NodeFootnoteContainer,
		NodeFootnoteDef, NodeDefinitionList, NodeDefinitionTerm, NodeDefinitionDesc:
		return true
	default:
		return false
	}
}

// Node is one node of a converted document tree.
//
// A tree returned by a parser is owned by the caller; the parser keeps no
// reference to it.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// OriginKind names the engine type the node was converted from,
	// e.g. "github.com/yuin/goldmark/ast.Heading".
	OriginKind string

	// Attrs are rendering attributes (id, class, data-*).
	Attrs map[string]string

	// Meta holds the kind-specific fields described by SchemaFor.
	Meta Meta

	// Span is the byte range of the node in the source, nil when unknown.
	Span *Span

	// Children in document order.
	Children []*Node
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// Count returns the number of descendants, not counting n itself.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	count := 0
	stack := append([]*Node(nil), n.Children...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, top.Children...)
	}
	return count
}

// Attr returns a rendering attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Content returns the kind's designated content field, if it has one and
// it is set.
func (n *Node) Content() (string, bool) {
	key := SchemaFor(n.Kind).Content
	if key == "" {
		return "", false
	}
	v, ok := n.Meta[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

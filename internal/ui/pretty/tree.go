package pretty

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

// FormatTree renders the same dump as mdast's Pretty, with each part of a
// line styled. Without color the output is byte-identical to Pretty.
func (s *Styles) FormatTree(root *mdast.Node, opts mdast.PrettyOptions) string {
	if root == nil {
		return ""
	}

	type frame struct {
		node   *mdast.Node
		indent int
	}

	var builder strings.Builder
	stack := []frame{{node: root, indent: opts.IndentCurrent}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.writeNode(&builder, top.node, opts, top.indent)

		if !opts.Recurse {
			continue
		}
		children := top.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], indent: top.indent + opts.Indent})
		}
	}
	return builder.String()
}

func (s *Styles) writeNode(builder *strings.Builder, node *mdast.Node, opts mdast.PrettyOptions, indent int) {
	pad := strings.Repeat(" ", indent)
	inner := strings.Repeat(" ", indent+opts.Indent)

	kind := s.Kind
	if node.Kind == mdast.NodeUnknown {
		kind = s.Unknown
	}

	builder.WriteString(pad + s.Bracket.Render("<") + kind.Render(node.Kind.String()))
	if opts.Attrs {
		keys := make([]string, 0, len(node.Attrs))
		for key := range node.Attrs {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			builder.WriteString(" " + s.AttrKey.Render(key) + "=" + s.AttrValue.Render(`"`+node.Attrs[key]+`"`))
		}
	}
	if opts.Srcmap && node.Span != nil {
		builder.WriteString(" " + s.Srcmap.Render(`srcmap="`+node.Span.String()+`"`))
	}
	builder.WriteString(s.Bracket.Render(">") + "\n")

	if opts.Meta {
		for _, key := range node.Meta.Keys() {
			builder.WriteString(inner + s.MetaKey.Render(key+":") + " ")
			s.writeLines(builder, s.MetaValue, node.Meta[key].String(), inner)
		}
	}

	if opts.Content {
		if key := mdast.SchemaFor(node.Kind).Content; key != "" {
			if value, ok := node.Meta[key]; ok {
				builder.WriteString(inner)
				s.writeLines(builder, s.Content, value.String(), inner)
			}
		}
	}
}

// writeLines styles a possibly multi-line value one line at a time, so
// that lipgloss never pads lines to a common width.
func (s *Styles) writeLines(builder *strings.Builder, style lipgloss.Style, value, pad string) {
	for i, line := range strings.Split(value, "\n") {
		if i > 0 {
			builder.WriteString("\n" + pad)
		}
		if line != "" {
			builder.WriteString(style.Render(line))
		}
	}
	builder.WriteString("\n")
}

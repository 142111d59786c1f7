package mdast

import (
	"slices"
	"strings"
)

// PrettyOptions controls the output of Pretty.
type PrettyOptions struct {
	// Attrs includes rendering attributes, sorted by key.
	Attrs bool

	// Srcmap includes the byte span as srcmap="start:end".
	Srcmap bool

	// Meta includes every metadata entry, sorted by key.
	Meta bool

	// Content includes the kind's content field on its own line.
	Content bool

	// Recurse descends into children.
	Recurse bool

	// Indent is the number of spaces added per depth level.
	Indent int

	// IndentCurrent is the indentation of the first line.
	IndentCurrent int
}

// DefaultPrettyOptions returns options that dump kinds only, recursively,
// with a two-space indent.
func DefaultPrettyOptions() PrettyOptions {
	return PrettyOptions{
		Recurse: true,
		Indent:  2,
	}
}

// Pretty renders n as an indented text dump, one line per node:
//
//	<kind key="value" srcmap="start:end">
//
// followed by optional metadata and content lines. Identical trees and
// options always produce identical output.
func (n *Node) Pretty(opts PrettyOptions) string {
	if n == nil {
		return ""
	}

	type frame struct {
		node   *Node
		indent int
	}

	var sb strings.Builder
	stack := []frame{{node: n, indent: opts.IndentCurrent}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		writeNode(&sb, top.node, opts, top.indent)

		if !opts.Recurse {
			continue
		}
		children := top.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], indent: top.indent + opts.Indent})
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, node *Node, opts PrettyOptions, indent int) {
	pad := strings.Repeat(" ", indent)
	inner := strings.Repeat(" ", indent+opts.Indent)

	sb.WriteString(pad)
	sb.WriteByte('<')
	sb.WriteString(node.Kind.String())
	if opts.Attrs {
		keys := make([]string, 0, len(node.Attrs))
		for key := range node.Attrs {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			sb.WriteString(" " + key + `="` + node.Attrs[key] + `"`)
		}
	}
	if opts.Srcmap && node.Span != nil {
		sb.WriteString(` srcmap="` + node.Span.String() + `"`)
	}
	sb.WriteString(">\n")

	if opts.Meta {
		for _, key := range node.Meta.Keys() {
			value := reindent(node.Meta[key].String(), inner)
			sb.WriteString(inner + key + ": " + value + "\n")
		}
	}

	if opts.Content {
		if key := SchemaFor(node.Kind).Content; key != "" {
			if value, ok := node.Meta[key]; ok {
				sb.WriteString(inner + reindent(value.String(), inner) + "\n")
			}
		}
	}
}

func reindent(value, pad string) string {
	return strings.ReplaceAll(value, "\n", "\n"+pad)
}

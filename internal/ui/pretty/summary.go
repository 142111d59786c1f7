package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

const (
	summaryDividerWidth = 40
	wordNode            = "node"
	wordNodes           = "nodes"
)

// TreeStats describes the shape of a converted tree.
type TreeStats struct {
	// Nodes counts every node including the root.
	Nodes int

	// Depth is the longest root-to-leaf path, the root alone being 1.
	Depth int

	// SourceBytes is the length of the source the tree was built from.
	SourceBytes int

	// Unknown counts nodes of a kind the converter could not classify.
	Unknown int

	// ByKind counts nodes per kind name.
	ByKind map[string]int
}

// CollectTreeStats walks root once and tallies its nodes.
func CollectTreeStats(root *mdast.Node, sourceBytes int) TreeStats {
	stats := TreeStats{SourceBytes: sourceBytes, ByKind: make(map[string]int)}
	if root == nil {
		return stats
	}

	type frame struct {
		node  *mdast.Node
		depth int
	}
	stack := []frame{{node: root, depth: 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		stats.Depth = max(stats.Depth, top.depth)
		stats.ByKind[top.node.Kind.String()]++
		if top.node.Kind == mdast.NodeUnknown {
			stats.Unknown++
		}
		for _, child := range top.node.Children {
			stack = append(stack, frame{node: child, depth: top.depth + 1})
		}
	}
	return stats
}

// FormatSummaryOneLine formats tree statistics as a single line.
// Example: "12 nodes, depth 4, 3 kinds from 120 B".
func (s *Styles) FormatSummaryOneLine(stats TreeStats) string {
	nodeWord := wordNodes
	if stats.Nodes == 1 {
		nodeWord = wordNode
	}

	parts := []string{
		s.Bold.Render(fmt.Sprintf("%d %s", stats.Nodes, nodeWord)),
		fmt.Sprintf("depth %d", stats.Depth),
		fmt.Sprintf("%d kinds from %s", len(stats.ByKind), humanize.Bytes(uint64(max(stats.SourceBytes, 0)))),
	}
	if stats.Unknown > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d unknown", stats.Unknown)))
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats tree statistics as a block with one line per kind,
// most frequent first.
func (s *Styles) FormatSummary(stats TreeStats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.Bold.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Source:  " + humanize.Bytes(uint64(max(stats.SourceBytes, 0))) + "\n")
	builder.WriteString("  Nodes:   " + strconv.Itoa(stats.Nodes) + "\n")
	builder.WriteString("  Depth:   " + strconv.Itoa(stats.Depth) + "\n")
	builder.WriteString("\n")

	kinds := make([]string, 0, len(stats.ByKind))
	width := 0
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
		width = max(width, len(kind))
	}
	slices.SortFunc(kinds, func(a, b string) int {
		if c := cmp.Compare(stats.ByKind[b], stats.ByKind[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	for _, kind := range kinds {
		style := s.Kind
		if kind == mdast.NodeUnknown.String() {
			style = s.Unknown
		}
		padding := strings.Repeat(" ", width-len(kind))
		builder.WriteString("  " + style.Render(kind) + padding + "  " +
			s.Dim.Render(strconv.Itoa(stats.ByKind[kind])) + "\n")
	}

	return builder.String()
}

package latex

import (
	"fmt"
	"strings"
)

// Outline renders a tree as an indented one-node-per-line listing with
// kind, identity, span, and leaf payloads. Debugging/inspection output;
// not parseable.
func Outline(n Node) string {
	var b strings.Builder
	outline(&b, n, 0)
	return b.String()
}

func outline(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "%s %s [%d,%d)", kindName(n), n.NodeID(), n.NodeSpan().Start, n.NodeSpan().End)
	switch n := n.(type) {
	case *Symbol:
		fmt.Fprintf(b, " %q", n.Text)
	case *TextBlock:
		fmt.Fprintf(b, " %s %q", n.Command, n.Raw)
	case *MatrixEnv:
		fmt.Fprintf(b, " %s", n.Name)
	}
	b.WriteByte('\n')
	for _, c := range ChildrenOf(n) {
		outline(b, c, depth+1)
	}
}

// DumpMap converts a tree to nested maps suitable for YAML or JSON
// encoding: kind, id, span, leaf payloads, and children.
func DumpMap(n Node) map[string]any {
	m := map[string]any{
		"kind": kindName(n),
		"id":   n.NodeID(),
		"span": []int{n.NodeSpan().Start, n.NodeSpan().End},
	}
	switch n := n.(type) {
	case *Symbol:
		m["text"] = n.Text
	case *TextBlock:
		m["command"] = n.Command
		m["raw"] = n.Raw
	case *MatrixEnv:
		m["name"] = n.Name
	}
	if kids := ChildrenOf(n); len(kids) > 0 {
		out := make([]map[string]any, len(kids))
		for i, c := range kids {
			out[i] = DumpMap(c)
		}
		m["children"] = out
	}
	return m
}

func kindName(n Node) string {
	switch n.(type) {
	case *Sequence:
		return "Sequence"
	case *Group:
		return "Group"
	case *Fraction:
		return "Fraction"
	case *Root:
		return "Root"
	case *SupSub:
		return "SupSub"
	case *Symbol:
		return "Symbol"
	case *TextBlock:
		return "TextBlock"
	case *MatrixRow:
		return "MatrixRow"
	case *MatrixEnv:
		return "MatrixEnv"
	default:
		return "Unknown"
	}
}

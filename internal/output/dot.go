// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
)

type DOTGenerator struct {
	summary aggregate.ProjectSummary
}

func NewDOTGenerator(summary aggregate.ProjectSummary) *DOTGenerator {
	return &DOTGenerator{summary: summary}
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	declared := make(map[string]bool)
	for _, node := range d.summary.Graph.Nodes() {
		declared[node.Name] = true
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"%s\", style=\"rounded,filled\"];\n",
			node.Name, node.Name, kindFill(node.Kind)))
	}
	buf.WriteString("\n")

	// Capitalized externals referenced but never declared in the project.
	for _, edge := range d.summary.Graph.Edges() {
		if declared[edge.To] {
			continue
		}
		declared[edge.To] = true
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"gainsboro\", style=\"rounded,filled\", color=\"grey\"];\n",
			edge.To, edge.To))
	}
	buf.WriteString("\n")

	for _, edge := range d.summary.Graph.Edges() {
		attrs := "color=\"darkslategrey\""
		if edge.Calls > 1 {
			attrs = fmt.Sprintf("color=\"darkslategrey\", label=\"×%d\"", edge.Calls)
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", edge.From, edge.To, attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func kindFill(kind string) string {
	switch kind {
	case analyzer.KindComponent:
		return "lightsteelblue"
	case analyzer.KindHandler:
		return "moccasin"
	default:
		return "white"
	}
}

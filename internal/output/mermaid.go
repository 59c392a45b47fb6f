// # internal/output/mermaid.go
package output

import (
	"fmt"
	"strings"
	"unicode"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
)

type MermaidGenerator struct {
	summary aggregate.ProjectSummary
}

func NewMermaidGenerator(summary aggregate.ProjectSummary) *MermaidGenerator {
	return &MermaidGenerator{summary: summary}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	nodes := m.summary.Graph.Nodes()
	edges := m.summary.Graph.Edges()

	allNames := make([]string, 0, len(nodes))
	seen := make(map[string]bool)
	for _, node := range nodes {
		allNames = append(allNames, node.Name)
		seen[node.Name] = true
	}
	for _, edge := range edges {
		if !seen[edge.To] {
			seen[edge.To] = true
			allNames = append(allNames, edge.To)
		}
	}
	ids := makeMermaidIDs(allNames)

	for _, node := range nodes {
		shapeOpen, shapeClose := "[", "]"
		if node.Kind == analyzer.KindComponent {
			shapeOpen, shapeClose = "([", "])"
		}
		b.WriteString(fmt.Sprintf("  %s%s\"%s\"%s\n", ids[node.Name], shapeOpen, node.Name, shapeClose))
	}
	for _, edge := range edges {
		if !nodeDeclared(nodes, edge.To) {
			b.WriteString(fmt.Sprintf("  %s[/\"%s\"/]\n", ids[edge.To], edge.To))
		}
	}

	for _, edge := range edges {
		if edge.Calls > 1 {
			b.WriteString(fmt.Sprintf("  %s -->|×%d| %s\n", ids[edge.From], edge.Calls, ids[edge.To]))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s --> %s\n", ids[edge.From], ids[edge.To]))
	}

	return b.String(), nil
}

func nodeDeclared(nodes []analyzer.FunctionNode, name string) bool {
	for _, node := range nodes {
		if node.Name == name {
			return true
		}
	}
	return false
}

// makeMermaidIDs maps names onto unique mermaid-safe identifiers.
func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		id := sanitizeMermaidID(name)
		candidate := id
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s_%d", id, i)
		}
		used[candidate] = true
		ids[name] = candidate
	}
	return ids
}

func sanitizeMermaidID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "n"
	}
	id := b.String()
	if unicode.IsDigit(rune(id[0])) {
		id = "n" + id
	}
	return id
}

// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
)

type TSVGenerator struct {
	summary aggregate.ProjectSummary
}

func NewTSVGenerator(summary aggregate.ProjectSummary) *TSVGenerator {
	return &TSVGenerator{summary: summary}
}

func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tFromKind\tTo\tToKind\tCalls\n")
	for _, edge := range t.summary.Graph.Edges() {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\n",
			edge.From, edge.FromKind, edge.To, edge.ToKind, edge.Calls))
	}

	return buf.String(), nil
}

// GenerateFiles emits one row per analyzed file.
func (t *TSVGenerator) GenerateFiles(records []*analyzer.FileReport) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLines\tFunctions\tComponents\tHooks\tComplexity\tMaxDepth\tIssues\tMaintainability\tQuality\tError\n")
	for _, record := range records {
		if record == nil {
			continue
		}
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			record.Filename,
			record.LineCount,
			len(record.Functions),
			len(record.Components),
			len(record.Hooks),
			record.Metrics.Cyclomatic,
			record.Complexity.MaxDepth,
			len(record.Issues),
			record.Metrics.Maintainability,
			record.QualityScore,
			record.Error,
		))
	}

	return buf.String(), nil
}

// # internal/output/markdown.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
)

// MarkdownReport renders the project summary for humans: header table,
// worst-quality files, security issues, and the dependency diagram injected
// between stable markers so re-runs replace it in place.
type MarkdownReport struct {
	summary aggregate.ProjectSummary
	records []*analyzer.FileReport
}

func NewMarkdownReport(summary aggregate.ProjectSummary, records []*analyzer.FileReport) *MarkdownReport {
	return &MarkdownReport{summary: summary, records: records}
}

func (m *MarkdownReport) Generate() (string, error) {
	var b strings.Builder
	s := m.summary

	b.WriteString("# Code Profile\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Files analyzed | %d (%d failed) |\n", s.AnalyzedFiles, s.FailedFiles))
	b.WriteString(fmt.Sprintf("| Total lines | %d |\n", s.TotalLines))
	b.WriteString(fmt.Sprintf("| Functions | %d |\n", s.TotalFunctions))
	b.WriteString(fmt.Sprintf("| Components | %d |\n", s.TotalComponents))
	b.WriteString(fmt.Sprintf("| Handlers | %d |\n", s.TotalHandlers))
	b.WriteString(fmt.Sprintf("| Hooks in use | %d |\n", len(s.HookNames)))
	b.WriteString(fmt.Sprintf("| Security issues | %d |\n", s.TotalIssues))
	b.WriteString(fmt.Sprintf("| Mean quality | %.1f |\n", s.AvgQuality))
	b.WriteString(fmt.Sprintf("| Mean complexity | %.1f |\n", s.AvgComplexity))
	b.WriteString(fmt.Sprintf("| Mean maintainability | %.1f |\n", s.AvgMaintainability))
	b.WriteString("\n")

	if len(s.HookNames) > 0 {
		b.WriteString("Hooks: `" + strings.Join(s.HookNames, "`, `") + "`\n\n")
	}

	m.writeWorstFiles(&b)
	m.writeIssues(&b)

	mermaid := NewMermaidGenerator(s)
	diagram, err := mermaid.Generate()
	if err != nil {
		return "", err
	}
	b.WriteString("## Dependency Graph\n\n")
	b.WriteString("<!-- codeprof:graph:start -->\n")
	b.WriteString("```mermaid\n")
	b.WriteString(diagram)
	b.WriteString("```\n")
	b.WriteString("<!-- codeprof:graph:end -->\n")

	return b.String(), nil
}

func (m *MarkdownReport) writeWorstFiles(b *strings.Builder) {
	successes := make([]*analyzer.FileReport, 0, len(m.records))
	for _, record := range m.records {
		if record != nil && !record.Failed() {
			successes = append(successes, record)
		}
	}
	if len(successes) == 0 {
		return
	}
	sort.Slice(successes, func(i, j int) bool {
		if successes[i].QualityScore != successes[j].QualityScore {
			return successes[i].QualityScore < successes[j].QualityScore
		}
		return successes[i].Filename < successes[j].Filename
	})
	if len(successes) > 10 {
		successes = successes[:10]
	}

	b.WriteString("## Lowest Quality Files\n\n")
	b.WriteString("| File | Quality | Complexity | Maintainability | Issues |\n|---|---|---|---|---|\n")
	for _, record := range successes {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n",
			record.Filename, record.QualityScore, record.Metrics.Cyclomatic,
			record.Metrics.Maintainability, len(record.Issues)))
	}
	b.WriteString("\n")
}

func (m *MarkdownReport) writeIssues(b *strings.Builder) {
	type fileIssue struct {
		file  string
		issue analyzer.Issue
	}
	var all []fileIssue
	for _, record := range m.records {
		if record == nil {
			continue
		}
		for _, issue := range record.Issues {
			all = append(all, fileIssue{file: record.Filename, issue: issue})
		}
	}
	if len(all) == 0 {
		return
	}

	b.WriteString("## Security Issues\n\n")
	b.WriteString("| File | Severity | Message |\n|---|---|---|\n")
	for _, fi := range all {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", fi.file, fi.issue.Severity, fi.issue.Message))
	}
	b.WriteString("\n")
}

// InjectDiagram replaces the region between codeprof markers in an existing
// markdown file, writing atomically via a sibling temp file.
func InjectDiagram(filePath, marker, diagram string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read markdown file %q: %w", filePath, err)
	}

	next, err := ReplaceBetweenMarkers(string(content), marker, diagram)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, ".markdown-inject-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", filePath, err)
	}
	tmpName := tmp.Name()

	writeErr := error(nil)
	if _, err := tmp.WriteString(next); err != nil {
		writeErr = fmt.Errorf("write temp markdown file %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("close temp markdown file %q: %w", tmpName, err)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return writeErr
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace markdown file %q: %w", filePath, err)
	}
	return nil
}

func ReplaceBetweenMarkers(content, marker, replacement string) (string, error) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return "", fmt.Errorf("markdown marker must not be empty")
	}

	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}

	start := fmt.Sprintf("<!-- codeprof:%s:start -->", marker)
	end := fmt.Sprintf("<!-- codeprof:%s:end -->", marker)

	startIdx := strings.Index(content, start)
	endIdx := strings.Index(content, end)
	if startIdx < 0 || endIdx < 0 || endIdx < startIdx {
		return "", fmt.Errorf("markers %q not found or malformed", marker)
	}

	var b strings.Builder
	b.WriteString(content[:startIdx+len(start)])
	b.WriteString(newline)
	b.WriteString(strings.TrimRight(replacement, "\r\n"))
	b.WriteString(newline)
	b.WriteString(content[endIdx:])
	return b.String(), nil
}

// # cmd/codeprof/ui.go
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
	"codeprof/internal/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	issueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	lowQualityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	summary    aggregate.ProjectSummary
	records    []*analyzer.FileReport
	lastUpdate time.Time
}

type updateMsg struct {
	summary aggregate.ProjectSummary
	records []*analyzer.FileReport
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.summary = msg.summary
		m.records = msg.records
		m.lastUpdate = time.Now()
		m.list.SetItems(buildItems(msg.records))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// buildItems lists issues first, then files from lowest quality upward.
func buildItems(records []*analyzer.FileReport) []list.Item {
	items := []list.Item{}

	for _, r := range records {
		if r.Failed() {
			items = append(items, item{
				title: "Parse Failure",
				desc:  fmt.Sprintf("%s: %s", r.Filename, r.Error),
			})
			continue
		}
		for _, issue := range r.Issues {
			items = append(items, item{
				title: fmt.Sprintf("%s issue (%s)", issue.Kind, issue.Severity),
				desc:  fmt.Sprintf("%s: %s", r.Filename, issue.Message),
			})
		}
	}

	ranked := make([]*analyzer.FileReport, 0, len(records))
	for _, r := range records {
		if !r.Failed() {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QualityScore < ranked[j].QualityScore
	})
	for _, r := range ranked {
		items = append(items, item{
			title: fmt.Sprintf("%s  [quality %d]", r.Filename, r.QualityScore),
			desc: fmt.Sprintf("%d lines | CC %d | %d functions | %d components | MI %d",
				r.LineCount, r.Complexity.Cyclomatic, len(r.Functions), len(r.Components), r.Metrics.Maintainability),
		})
	}
	return items
}

func (m model) View() string {
	s := m.summary
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d functions | %d edges",
		m.lastUpdate.Format("15:04:05"), s.TotalFiles, s.TotalFunctions, s.Graph.EdgeCount()))

	var headline string
	switch {
	case s.TotalIssues == 0 && s.FailedFiles == 0:
		headline = successStyle.Render(fmt.Sprintf("✅ Clean | avg quality %.1f", s.AvgQuality))
	case s.TotalIssues > 0:
		headline = fmt.Sprintf("⚠️  %s | %s",
			issueStyle.Render(fmt.Sprintf("%d Issues", s.TotalIssues)),
			lowQualityStyle.Render(fmt.Sprintf("avg quality %.1f", s.AvgQuality)))
	default:
		headline = issueStyle.Render(fmt.Sprintf("%d Parse Failures", s.FailedFiles))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Code Profile Monitor"), status, headline)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Files and Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// runUI blocks until the TUI exits. Watcher rescans push fresh summaries in
// through App.OnUpdate.
func runUI(a *app.App) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())

	a.OnUpdate = func(summary aggregate.ProjectSummary) {
		p.Send(updateMsg{summary: summary, records: a.Records()})
	}

	go func() {
		p.Send(updateMsg{summary: a.Summary(), records: a.Records()})
	}()

	_, err := p.Run()
	return err
}

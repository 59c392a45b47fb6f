// # internal/aggregate/aggregate.go
package aggregate

import (
	"sort"
	"time"

	"codeprof/internal/analyzer"
	"codeprof/internal/graph"
)

// ProjectSummary is the project-level merge of per-file reports. The
// aggregator only reads records, never mutates them.
type ProjectSummary struct {
	TotalFiles    int
	AnalyzedFiles int
	FailedFiles   int

	// TotalLines sums over all records, errored ones included. Every other
	// metric sums over successful records only.
	TotalLines int

	TotalFunctions  int
	TotalVariables  int
	TotalHandlers   int
	TotalComponents int

	HookNames     []string
	ImportSources []string

	TotalIssues int

	AvgQuality         float64
	AvgComplexity      float64
	AvgMaintainability float64

	TotalCoupling        int
	TotalWeightedMethods int
	TotalDuration        time.Duration

	Graph *graph.Graph

	States      []analyzer.StateUnit
	Transitions []analyzer.StateTransition
	Effects     []analyzer.EffectUnit
}

// Aggregate merges per-file reports into a ProjectSummary. Zero successful
// records yields zero-valued means, never a division fault.
func Aggregate(records []*analyzer.FileReport) ProjectSummary {
	summary := ProjectSummary{Graph: graph.New()}

	hookSet := make(map[string]bool)
	sourceSet := make(map[string]bool)

	var qualitySum, complexitySum, maintainabilitySum int

	for _, record := range records {
		if record == nil {
			continue
		}
		summary.TotalFiles++
		summary.TotalLines += record.LineCount
		summary.TotalDuration += record.Duration

		if record.Failed() {
			summary.FailedFiles++
			continue
		}
		summary.AnalyzedFiles++

		summary.TotalFunctions += len(record.Functions)
		summary.TotalVariables += len(record.Variables)
		summary.TotalHandlers += len(record.Handlers)
		summary.TotalComponents += len(record.Components)
		summary.TotalIssues += len(record.Issues)
		summary.TotalCoupling += record.Metrics.Coupling
		summary.TotalWeightedMethods += record.Metrics.WeightedMethods

		for _, hook := range record.Hooks {
			hookSet[hook] = true
		}
		for _, imp := range record.Imports {
			sourceSet[imp.Source] = true
		}

		qualitySum += record.QualityScore
		complexitySum += record.Metrics.Cyclomatic
		maintainabilitySum += record.Metrics.Maintainability

		summary.Graph.MergeFile(record.Dependencies)

		summary.States = append(summary.States, record.State.States...)
		summary.Transitions = append(summary.Transitions, record.State.Transitions...)
		summary.Effects = append(summary.Effects, record.State.Effects...)
	}

	if summary.AnalyzedFiles > 0 {
		n := float64(summary.AnalyzedFiles)
		summary.AvgQuality = float64(qualitySum) / n
		summary.AvgComplexity = float64(complexitySum) / n
		summary.AvgMaintainability = float64(maintainabilitySum) / n
	}

	summary.HookNames = sortedKeys(hookSet)
	summary.ImportSources = sortedKeys(sourceSet)
	return summary
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

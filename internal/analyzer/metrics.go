// # internal/analyzer/metrics.go
package analyzer

import "math"

// MaintainabilityIndex computes the composite 0-100 maintainability score.
// Both logarithmic terms intentionally use ln(LOC+1): the classical formula's
// Halstead-volume term is unavailable here and LOC substitutes for it.
func MaintainabilityIndex(loc, cyclomatic int) int {
	logLOC := math.Log(float64(loc) + 1)
	mi := 171 - 5.2*logLOC - 0.23*float64(cyclomatic) - 16.2*logLOC
	return clampScore(int(math.Round(mi)))
}

// QualityScore synthesizes the 0-100 quality score from the traversal
// counters. An error record scores 0 unconditionally.
func QualityScore(r *FileReport) int {
	if r.Failed() {
		return 0
	}

	score := 100
	score -= minInt(30, r.Complexity.Cyclomatic*2)
	score -= minInt(15, r.Complexity.MaxDepth)
	score -= 10 * len(r.Issues)
	if r.LineCount > 300 {
		score -= 10
	}
	if r.LineCount > 500 {
		score -= 10
	}
	if len(r.Hooks) > 0 && len(r.Components) > 0 {
		score += 5
	}
	return clampScore(score)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package history

import (
	"fmt"
	"math"
	"time"
)

// TrendPoint is one snapshot enriched with deltas against its predecessor
// and a moving average over the window.
type TrendPoint struct {
	Timestamp time.Time
	RunID     string

	FileCount     int
	FunctionCount int
	IssueCount    int

	AvgQuality         float64
	AvgComplexity      float64
	AvgMaintainability float64

	DeltaFiles      int
	DeltaFunctions  int
	DeltaIssues     int
	DeltaQuality    float64
	DeltaComplexity float64

	WindowQuality float64
	WindowHours   float64
}

type TrendReport struct {
	Since     time.Time
	Until     time.Time
	Window    string
	ScanCount int
	Points    []TrendPoint
}

// BuildTrendReport computes per-run deltas over snapshots ordered oldest
// first.
func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:          current.Timestamp,
			RunID:              current.RunID,
			FileCount:          current.FileCount,
			FunctionCount:      current.FunctionCount,
			IssueCount:         current.IssueCount,
			AvgQuality:         current.AvgQuality,
			AvgComplexity:      current.AvgComplexity,
			AvgMaintainability: current.AvgMaintainability,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaFunctions = current.FunctionCount - prev.FunctionCount
			point.DeltaIssues = current.IssueCount - prev.IssueCount
			point.DeltaQuality = round2(current.AvgQuality - prev.AvgQuality)
			point.DeltaComplexity = round2(current.AvgComplexity - prev.AvgComplexity)
		}

		point.WindowQuality = round2(movingQuality(snapshots, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		Since:     snapshots[0].Timestamp,
		Until:     snapshots[len(snapshots)-1].Timestamp,
		Window:    window.String(),
		ScanCount: len(points),
		Points:    points,
	}, nil
}

func movingQuality(snapshots []Snapshot, index int, window time.Duration) float64 {
	if window <= 0 {
		return snapshots[index].AvgQuality
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	total := 0.0
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		total += snapshots[i].AvgQuality
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

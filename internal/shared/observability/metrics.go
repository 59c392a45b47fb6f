package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeprof_parsing_seconds",
		Help:    "Time spent parsing and profiling a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	FilesAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeprof_files_analyzed_total",
		Help: "Total number of files analyzed, by outcome.",
	}, []string{"outcome"})

	IssuesFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeprof_issues_found_total",
		Help: "Total number of security issues found across analyzed files.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codeprof_graph_nodes_total",
		Help: "Total number of nodes in the merged dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codeprof_graph_edges_total",
		Help: "Total number of edges in the merged dependency graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeprof_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeprof_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"codeprof/internal/aggregate"
)

const driverName = "sqlite"

// Snapshot is one persisted analysis run.
type Snapshot struct {
	RunID              string
	ProjectKey         string
	Timestamp          time.Time
	FileCount          int
	AnalyzedCount      int
	FailedCount        int
	TotalLines         int
	FunctionCount      int
	ComponentCount     int
	HandlerCount       int
	IssueCount         int
	CouplingTotal      int
	WMCTotal           int
	AvgQuality         float64
	AvgComplexity      float64
	AvgMaintainability float64
	GraphNodes         int
	GraphEdges         int
	Duration           time.Duration
}

// FromSummary captures a ProjectSummary as a snapshot with a fresh run ID.
func FromSummary(projectKey string, summary aggregate.ProjectSummary) Snapshot {
	return Snapshot{
		RunID:              uuid.NewString(),
		ProjectKey:         projectKey,
		Timestamp:          time.Now().UTC(),
		FileCount:          summary.TotalFiles,
		AnalyzedCount:      summary.AnalyzedFiles,
		FailedCount:        summary.FailedFiles,
		TotalLines:         summary.TotalLines,
		FunctionCount:      summary.TotalFunctions,
		ComponentCount:     summary.TotalComponents,
		HandlerCount:       summary.TotalHandlers,
		IssueCount:         summary.TotalIssues,
		CouplingTotal:      summary.TotalCoupling,
		WMCTotal:           summary.TotalWeightedMethods,
		AvgQuality:         summary.AvgQuality,
		AvgComplexity:      summary.AvgComplexity,
		AvgMaintainability: summary.AvgMaintainability,
		GraphNodes:         summary.Graph.NodeCount(),
		GraphEdges:         summary.Graph.EdgeCount(),
		Duration:           summary.TotalDuration,
	}
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.ProjectKey == "" {
		snapshot.ProjectKey = "default"
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Exec(`
INSERT INTO snapshots (
  run_id, project_key, schema_version, ts_utc,
  file_count, analyzed_count, failed_count, total_lines,
  function_count, component_count, handler_count, issue_count,
  coupling_total, wmc_total,
  avg_quality, avg_complexity, avg_maintainability,
  graph_nodes, graph_edges, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.RunID,
		snapshot.ProjectKey,
		SchemaVersion,
		snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
		snapshot.FileCount,
		snapshot.AnalyzedCount,
		snapshot.FailedCount,
		snapshot.TotalLines,
		snapshot.FunctionCount,
		snapshot.ComponentCount,
		snapshot.HandlerCount,
		snapshot.IssueCount,
		snapshot.CouplingTotal,
		snapshot.WMCTotal,
		snapshot.AvgQuality,
		snapshot.AvgComplexity,
		snapshot.AvgMaintainability,
		snapshot.GraphNodes,
		snapshot.GraphEdges,
		snapshot.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snapshot.RunID, err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots for a project, newest first.
func (s *Store) RecentSnapshots(projectKey string, limit int) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey == "" {
		projectKey = "default"
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
SELECT run_id, project_key, ts_utc,
  file_count, analyzed_count, failed_count, total_lines,
  function_count, component_count, handler_count, issue_count,
  coupling_total, wmc_total,
  avg_quality, avg_complexity, avg_maintainability,
  graph_nodes, graph_edges, duration_ms
FROM snapshots
WHERE project_key = ?
ORDER BY ts_utc DESC
LIMIT ?`, projectKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts string
		var durationMS int64
		if err := rows.Scan(
			&snap.RunID, &snap.ProjectKey, &ts,
			&snap.FileCount, &snap.AnalyzedCount, &snap.FailedCount, &snap.TotalLines,
			&snap.FunctionCount, &snap.ComponentCount, &snap.HandlerCount, &snap.IssueCount,
			&snap.CouplingTotal, &snap.WMCTotal,
			&snap.AvgQuality, &snap.AvgComplexity, &snap.AvgMaintainability,
			&snap.GraphNodes, &snap.GraphEdges, &durationMS,
		); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			snap.Timestamp = parsed
		}
		snap.Duration = time.Duration(durationMS) * time.Millisecond
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// # internal/app/app.go
package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"codeprof/internal/aggregate"
	"codeprof/internal/analyzer"
	"codeprof/internal/config"
	"codeprof/internal/core/errors"
	"codeprof/internal/history"
	"codeprof/internal/ingest"
	"codeprof/internal/output"
	"codeprof/internal/secrets"
	"codeprof/internal/shared/observability"
	"codeprof/internal/shared/util"
	"codeprof/internal/watcher"
)

// App wires ingestion, per-file analysis, secret scanning, aggregation and
// output generation. Per-file analysis is sequential; the aggregate step is
// the only cross-file merge point.
type App struct {
	Config *config.Config

	filter   *ingest.Filter
	detector *secrets.Detector
	limiter  *util.Limiter
	store    *history.Store
	watch    *watcher.Watcher

	mu      sync.RWMutex
	records map[string]*analyzer.FileReport
	summary aggregate.ProjectSummary

	// OnUpdate, when set, is invoked after every re-aggregation.
	OnUpdate func(aggregate.ProjectSummary)
}

func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}

	filter, err := ingest.NewFilter(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile exclude filters")
	}

	app := &App{
		Config:  cfg,
		filter:  filter,
		limiter: util.NewLimiter(cfg.Watch.RescansPerSec, cfg.Watch.RescanBurst),
		records: make(map[string]*analyzer.FileReport),
		summary: aggregate.Aggregate(nil),
	}

	if cfg.Secrets.Enabled {
		app.detector = secrets.NewDetector(secrets.Config{
			EntropyThreshold: cfg.Secrets.EntropyThreshold,
			MinTokenLength:   cfg.Secrets.MinTokenLength,
		})
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "open history store")
		}
		app.store = store
	}

	return app, nil
}

// RunScan walks the configured paths and profiles every supported file.
// A file that fails to parse becomes an error record; it never aborts the
// scan.
func (a *App) RunScan(ctx context.Context) (aggregate.ProjectSummary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunScan")
	defer span.End()

	files, err := ingest.ScanDirectories(a.Config.Paths, a.filter)
	if err != nil {
		return aggregate.ProjectSummary{}, errors.AddContext(err, errors.CtxOperation, "scan_directories")
	}

	sources, readErrs := ingest.ReadSources(files)
	for _, readErr := range readErrs {
		slog.Warn("skipping unreadable file", "error", readErr)
	}

	return a.analyzeSources(ctx, sources), nil
}

// RunZip profiles every supported entry of a project archive.
func (a *App) RunZip(ctx context.Context, archivePath string) (aggregate.ProjectSummary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunZip")
	defer span.End()

	sources, err := ingest.ReadZip(archivePath, a.filter)
	if err != nil {
		return aggregate.ProjectSummary{}, errors.AddContext(err, errors.CtxPath, archivePath)
	}
	return a.analyzeSources(ctx, sources), nil
}

func (a *App) analyzeSources(ctx context.Context, sources []ingest.Source) aggregate.ProjectSummary {
	start := time.Now()
	a.mu.Lock()
	a.records = make(map[string]*analyzer.FileReport, len(sources))
	for _, source := range sources {
		a.records[source.Name] = a.profile(source)
	}
	a.mu.Unlock()
	observability.AnalysisDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())

	return a.reaggregate(ctx)
}

// profile runs the traversal engine on one source, then layers secret
// findings on top. Quality is re-synthesized when new issues arrive so the
// per-issue penalty stays uniform.
func (a *App) profile(source ingest.Source) *analyzer.FileReport {
	record := analyzer.Analyze(source.Content, source.Name)

	dialect, _ := analyzer.DetectDialect(source.Name)
	observability.ParsingDuration.WithLabelValues(string(dialect)).Observe(record.Duration.Seconds())

	outcome := "ok"
	if record.Failed() {
		outcome = "parse_error"
	}
	observability.FilesAnalyzedTotal.WithLabelValues(outcome).Inc()

	if a.detector != nil && !record.Failed() {
		if found := a.detector.Detect(source.Content); len(found) > 0 {
			record.Issues = append(record.Issues, found...)
			record.QualityScore = analyzer.QualityScore(record)
		}
	}
	if len(record.Issues) > 0 {
		observability.IssuesFoundTotal.Add(float64(len(record.Issues)))
	}
	return record
}

func (a *App) reaggregate(ctx context.Context) aggregate.ProjectSummary {
	_, span := observability.Tracer.Start(ctx, "app.Aggregate")
	defer span.End()

	a.mu.Lock()
	summary := aggregate.Aggregate(a.recordsLocked())
	a.summary = summary
	a.mu.Unlock()

	observability.GraphNodes.Set(float64(summary.Graph.NodeCount()))
	observability.GraphEdges.Set(float64(summary.Graph.EdgeCount()))

	// Called outside the lock so subscribers may read back through the app.
	if a.OnUpdate != nil {
		a.OnUpdate(summary)
	}
	return summary
}

func (a *App) recordsLocked() []*analyzer.FileReport {
	names := util.SortedStringKeys(a.records)
	records := make([]*analyzer.FileReport, 0, len(names))
	for _, name := range names {
		records = append(records, a.records[name])
	}
	return records
}

// Records returns the current per-file reports sorted by filename.
func (a *App) Records() []*analyzer.FileReport {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recordsLocked()
}

func (a *App) Summary() aggregate.ProjectSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.summary
}

// GenerateOutputs writes every configured report artifact.
func (a *App) GenerateOutputs(ctx context.Context, summary aggregate.ProjectSummary) error {
	_, span := observability.Tracer.Start(ctx, "app.GenerateOutputs")
	defer span.End()

	records := a.Records()
	cfg := a.Config.Output

	if cfg.Mermaid != "" {
		diagram, err := output.NewMermaidGenerator(summary).Generate()
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "generate mermaid")
		}
		if err := util.WriteStringWithDirs(cfg.Mermaid, diagram, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write mermaid output")
		}
	}
	if cfg.DOT != "" {
		dot, err := output.NewDOTGenerator(summary).Generate()
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "generate dot")
		}
		if err := util.WriteStringWithDirs(cfg.DOT, dot, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write dot output")
		}
	}
	if cfg.TSV != "" {
		tsv, err := output.NewTSVGenerator(summary).GenerateFiles(records)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "generate tsv")
		}
		if err := util.WriteStringWithDirs(cfg.TSV, tsv, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write tsv output")
		}
	}
	if cfg.Markdown != "" {
		report, err := output.NewMarkdownReport(summary, records).Generate()
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "generate markdown report")
		}
		if err := util.WriteStringWithDirs(cfg.Markdown, report, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write markdown report")
		}
	}
	return nil
}

// SaveSnapshot persists the summary when a history store is configured.
func (a *App) SaveSnapshot(summary aggregate.ProjectSummary) error {
	if a.store == nil {
		return nil
	}
	return a.store.SaveSnapshot(history.FromSummary("default", summary))
}

// Trends returns the recent snapshot trend for the default project.
func (a *App) Trends(ctx context.Context, limit int, window time.Duration) (history.TrendReport, error) {
	_, span := observability.Tracer.Start(ctx, "app.Trends")
	defer span.End()

	if a.store == nil {
		return history.TrendReport{}, errors.New(errors.CodeNotFound, "history store not configured")
	}
	snapshots, err := a.store.RecentSnapshots("default", limit)
	if err != nil {
		return history.TrendReport{}, err
	}
	// RecentSnapshots returns newest first; trends want oldest first.
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return history.BuildTrendReport(snapshots, window)
}

// StartWatcher begins debounced re-analysis of the configured paths. Rescans
// are rate limited so editor save storms collapse into few full passes.
func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, func(paths []string) {
		if !a.limiter.Allow(1) {
			slog.Debug("rescan suppressed by rate limiter", "changed", len(paths))
			return
		}
		slog.Info("change detected, rescanning", "changed", len(paths))
		summary, err := a.RunScan(ctx)
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		if err := a.GenerateOutputs(ctx, summary); err != nil {
			slog.Error("failed to regenerate outputs", "error", err)
		}
		if err := a.SaveSnapshot(summary); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create watcher")
	}
	if err := w.Watch(a.Config.Paths); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch paths")
	}
	a.watch = w
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if a.watch != nil {
		_ = a.watch.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

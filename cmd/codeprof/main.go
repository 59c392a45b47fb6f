// # cmd/codeprof/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeprof/internal/aggregate"
	"codeprof/internal/app"
	"codeprof/internal/config"
	"codeprof/internal/history"
	"codeprof/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./codeprof.toml", "Path to config file")
	zipPath    = flag.String("zip", "", "Profile a project zip archive instead of directories")
	once       = flag.Bool("once", false, "Run single scan and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	trends     = flag.Bool("trends", false, "Print quality trend from stored snapshots and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("codeprof v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			logOutput = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./codeprof.toml" {
			cfg, err = config.Load("./codeprof.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Warn("tracing setup failed, continuing without traces", "error", err)
	} else {
		defer shutdownTracing(ctx)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	if *trends {
		report, err := a.Trends(ctx, 30, 24*time.Hour)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(formatTrendReport(report))
		os.Exit(0)
	}

	var summary aggregate.ProjectSummary
	if *zipPath != "" {
		summary, err = a.RunZip(ctx, *zipPath)
	} else {
		summary, err = a.RunScan(ctx)
	}
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}

	if err := a.GenerateOutputs(ctx, summary); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if err := a.SaveSnapshot(summary); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}

	if !*ui {
		printSummary(summary)
	}

	if *once || *zipPath != "" {
		os.Exit(0)
	}

	if cfg.Observability.ListenAddr != "" {
		srv := observability.NewServer(cfg.Observability.ListenAddr, func(context.Context) observability.HealthStatus {
			return observability.HealthStatus{Status: "up", CheckedAt: time.Now().UTC()}
		})
		if err := srv.Start(ctx); err != nil {
			slog.Error("observability server failed to start", "error", err)
		}
		defer srv.Stop(ctx)
	}

	if err := a.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := runUI(a); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeprof", "codeprof.log")
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "codeprof", "codeprof.log")
	}
	return "codeprof.log"
}

func printSummary(s aggregate.ProjectSummary) {
	fmt.Printf("Files: %d analyzed, %d failed | %d lines\n", s.AnalyzedFiles, s.FailedFiles, s.TotalLines)
	fmt.Printf("Functions: %d | Components: %d | Handlers: %d | Hooks: %d\n",
		s.TotalFunctions, s.TotalComponents, s.TotalHandlers, len(s.HookNames))
	fmt.Printf("Avg quality: %.1f | Avg complexity: %.1f | Avg maintainability: %.1f\n",
		s.AvgQuality, s.AvgComplexity, s.AvgMaintainability)
	fmt.Printf("Graph: %d nodes, %d edges | Issues: %d\n",
		s.Graph.NodeCount(), s.Graph.EdgeCount(), s.TotalIssues)
	if cycles := s.Graph.DetectCycles(); len(cycles) > 0 {
		fmt.Printf("Call cycles: %d\n", len(cycles))
		for _, cycle := range cycles {
			fmt.Printf("  %s\n", strings.Join(cycle, " -> "))
		}
	}
}

func formatTrendReport(report history.TrendReport) string {
	var b strings.Builder

	b.WriteString("Quality Trend\n")
	b.WriteString("=============\n")
	b.WriteString(fmt.Sprintf("Scans: %d (%s .. %s, window %s)\n\n",
		report.ScanCount,
		report.Since.Format("2006-01-02 15:04"),
		report.Until.Format("2006-01-02 15:04"),
		report.Window))

	for _, p := range report.Points {
		b.WriteString(fmt.Sprintf("%s  quality %.1f (%+.1f, avg %.1f)  complexity %.1f (%+.1f)  files %d  issues %d\n",
			p.Timestamp.Format("2006-01-02 15:04"),
			p.AvgQuality, p.DeltaQuality, p.WindowQuality,
			p.AvgComplexity, p.DeltaComplexity,
			p.FileCount, p.IssueCount))
	}
	return b.String()
}

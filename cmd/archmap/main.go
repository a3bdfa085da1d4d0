package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"archmap/internal/analyzer"
	"archmap/internal/classify"
	"archmap/internal/graph"
	"archmap/internal/server"
	"archmap/internal/store"
	"archmap/internal/symbols"
	"archmap/internal/workspace"
	"archmap/util"
)

const version = "0.3.0"

const usage = `archmap - structural analysis for multi-language repositories

Usage:
  archmap [flags] serve     Run the MCP stdio server (default)
  archmap [flags] analyze   Run one analysis pass and print the snapshot as JSON

Flags:
  -root path    Workspace root (default: enclosing git repository)
  -db path      Snapshot database path; empty disables persistence
  -log-level l  debug, info, warn or error (default info)
`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		rootFlag = flag.String("root", "", "workspace root")
		dbFlag   = flag.String("db", "", "snapshot database path")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// Logs go to stderr: stdout belongs to the MCP transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	root := *rootFlag
	if root == "" {
		var err error
		root, err = util.FindGitRoot()
		if err != nil {
			logger.Error("could not determine workspace root", "error", err)
			return 1
		}
	}

	cfg, err := analyzer.LoadConfig(root)
	if err != nil {
		logger.Error("could not load config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "serve"
	}
	switch cmd {
	case "serve":
		return serve(ctx, root, *dbFlag, cfg, logger)
	case "analyze":
		return analyze(ctx, root, cfg, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func serve(ctx context.Context, root, dbPath string, cfg analyzer.Config, logger *slog.Logger) int {
	walker, eng := buildEngine(root, cfg, logger)

	var st *store.Store
	if dbPath == "" {
		dbPath = filepath.Join(root, ".archmap.db")
	}
	if dbPath != "-" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			logger.Warn("snapshot persistence disabled", "error", err)
		} else {
			defer st.Close()
		}
	}

	srv := server.New(server.Options{
		Root:     root,
		Version:  version,
		Analyzer: eng,
		Walker:   walker,
		Store:    st,
		Logger:   logger,
	})
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

func analyze(ctx context.Context, root string, cfg analyzer.Config, logger *slog.Logger) int {
	walker, eng := buildEngine(root, cfg, logger)

	paths, err := walker.Walk()
	if err != nil {
		logger.Error("workspace walk failed", "error", err)
		return 1
	}
	snap, err := eng.Run(ctx, paths)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		logger.Error("could not encode snapshot", "error", err)
		return 1
	}
	return 0
}

// buildEngine wires the walker, classifier, extractor and analyzer from the
// workspace configuration.
func buildEngine(root string, cfg analyzer.Config, logger *slog.Logger) (*workspace.Walker, *analyzer.Analyzer) {
	walker := workspace.New(root,
		workspace.WithExcludeGlobs(cfg.Exclude),
		workspace.WithLogger(logger))

	classifierOpts := []classify.Option{
		classify.WithExcludeGlobs(cfg.Exclude),
		classify.WithIncludeOverrides(cfg.Include),
	}
	if ign := walker.IgnoreMatcher(); ign != nil {
		classifierOpts = append(classifierOpts, classify.WithIgnoreMatcher(ign))
	}
	classifier := classify.New(classifierOpts...)

	extractor := symbols.New(
		symbols.WithSyntax(symbols.NewTreeSitterExtractor()),
		symbols.WithLogger(logger))

	eng := analyzer.New(analyzer.OSProvider{Root: root},
		analyzer.WithClassifier(classifier),
		analyzer.WithExtractor(extractor),
		analyzer.WithConcurrency(cfg.Concurrency),
		analyzer.WithMetricsOptions(graph.MetricsOptions{
			HubLimit:     cfg.HubLimit,
			HighInDegree: cfg.HighInDegree,
		}),
		analyzer.WithLogger(logger))
	return walker, eng
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

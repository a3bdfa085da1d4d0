// Package server exposes the structural analysis engine over MCP stdio.
// One analysis pass runs at a time; query tools answer from the last
// completed snapshot and block briefly while the first pass finishes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"archmap/internal/analyzer"
	"archmap/internal/graph"
	"archmap/internal/store"
	"archmap/internal/workspace"
)

const serverName = "archmap"

type AnalysisStatus string

const (
	AnalysisStatusIdle       AnalysisStatus = "idle"
	AnalysisStatusInProgress AnalysisStatus = "in_progress"
	AnalysisStatusReady      AnalysisStatus = "ready"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

type Server struct {
	mcpServer *mcp.Server
	analyzer  *analyzer.Analyzer
	walker    *workspace.Walker
	store     *store.Store
	logger    *slog.Logger
	root      string
	version   string

	mu            sync.RWMutex
	status        AnalysisStatus
	statusErr     error
	duration      time.Duration
	snapshot      *graph.Snapshot
	analysisReady chan struct{}
}

// Options configures a Server. Store is optional; without it snapshots are
// held in memory only.
type Options struct {
	Root     string
	Version  string
	Analyzer *analyzer.Analyzer
	Walker   *workspace.Walker
	Store    *store.Store
	Logger   *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		analyzer:      opts.Analyzer,
		walker:        opts.Walker,
		store:         opts.Store,
		logger:        logger,
		root:          opts.Root,
		version:       version,
		status:        AnalysisStatusIdle,
		analysisReady: make(chan struct{}),
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)
	s.registerTools()
	s.registerResources()
	return s
}

// Run restores any persisted snapshot, kicks off the initial analysis pass
// in the background and serves MCP over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.restoreSnapshot()
	go func() {
		if err := s.runAnalysis(ctx); err != nil {
			s.logger.Error("initial analysis failed", "error", err)
		}
	}()
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// restoreSnapshot loads the persisted snapshot so queries can answer before
// the first fresh pass completes.
func (s *Server) restoreSnapshot() {
	if s.store == nil {
		return
	}
	snap, err := s.store.LoadSnapshot()
	if err != nil {
		s.logger.Warn("could not restore persisted snapshot", "error", err)
		return
	}
	if snap == nil {
		return
	}
	s.mu.Lock()
	s.snapshot = snap
	s.status = AnalysisStatusReady
	close(s.analysisReady)
	s.mu.Unlock()
	s.logger.Info("restored persisted snapshot", "files", len(snap.Files))
}

// runAnalysis executes one full pass and swaps in the resulting snapshot.
// Only one pass runs at a time.
func (s *Server) runAnalysis(ctx context.Context) error {
	s.mu.Lock()
	if s.status == AnalysisStatusInProgress {
		s.mu.Unlock()
		return fmt.Errorf("analysis already in progress")
	}
	if s.status == AnalysisStatusReady || s.status == AnalysisStatusFailed {
		if isClosed(s.analysisReady) {
			s.analysisReady = make(chan struct{})
		}
	}
	s.status = AnalysisStatusInProgress
	s.statusErr = nil
	s.mu.Unlock()

	start := time.Now()
	paths, err := s.walker.Walk()
	if err != nil {
		s.finish(nil, time.Since(start), fmt.Errorf("walk workspace: %w", err))
		return err
	}
	snap, err := s.analyzer.Run(ctx, paths)
	if err != nil {
		s.finish(nil, time.Since(start), err)
		return err
	}

	if s.store != nil {
		if err := s.store.SaveSnapshot(snap); err != nil {
			s.logger.Warn("could not persist snapshot", "error", err)
		}
		if pruned, err := s.store.PruneStale(paths); err != nil {
			s.logger.Warn("could not prune stale rows", "error", err)
		} else if pruned > 0 {
			s.logger.Info("pruned stale rows", "count", pruned)
		}
	}

	s.finish(snap, time.Since(start), nil)
	return nil
}

func (s *Server) finish(snap *graph.Snapshot, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duration = d
	s.statusErr = err
	if err != nil {
		s.status = AnalysisStatusFailed
	} else {
		s.status = AnalysisStatusReady
		s.snapshot = snap
	}
	if !isClosed(s.analysisReady) {
		close(s.analysisReady)
	}
}

// Status returns the current pass state, its error if it failed and the
// duration of the last pass.
func (s *Server) Status() (AnalysisStatus, error, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.statusErr, s.duration
}

// Snapshot returns the last completed snapshot, or nil before the first
// pass finishes.
func (s *Server) Snapshot() *graph.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// WaitForSnapshot blocks until a pass has completed (successfully or not)
// or ctx is done.
func (s *Server) WaitForSnapshot(ctx context.Context) error {
	s.mu.RLock()
	ready := s.analysisReady
	s.mu.RUnlock()
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archmap/internal/analyzer"
	"archmap/internal/classify"
	"archmap/internal/graph"
	"archmap/internal/symbols"
	"archmap/internal/workspace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"app.py":    "from models import Order\n\nif __name__ == \"__main__\":\n    run()\n",
		"models.py": "class Order:\n    def total(self):\n        return 0\n",
	}
	for rel, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}
	return New(Options{
		Root:     root,
		Analyzer: analyzer.New(analyzer.OSProvider{Root: root}),
		Walker:   workspace.New(root),
	})
}

func TestServerAnalysisLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, _, _ := s.Status()
	assert.Equal(t, AnalysisStatusIdle, status)
	assert.Nil(t, s.Snapshot())

	require.NoError(t, s.runAnalysis(context.Background()))

	status, statusErr, duration := s.Status()
	assert.Equal(t, AnalysisStatusReady, status)
	assert.NoError(t, statusErr)
	assert.Greater(t, duration, time.Duration(0))

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Files, 2)

	// The ready channel is closed, so waiting returns immediately.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.WaitForSnapshot(ctx))
}

func TestWaitForSnapshotTimesOutBeforeFirstPass(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitForSnapshot(ctx), context.DeadlineExceeded)
}

func TestFileDetail(t *testing.T) {
	snap := &graph.Snapshot{
		Files: []graph.FileRecord{
			{Path: "src/app.ts", Kind: classify.KindApp, ContentHash: "aabb"},
			{Path: "src/util.ts", Kind: classify.KindApp},
		},
		Edges: []graph.DependencyEdge{
			{Source: "src/app.ts", Target: "src/util.ts", Kind: graph.EdgeImport, Symbols: []string{"clamp"}},
		},
		Symbols: []symbols.Record{
			{File: "src/util.ts", Name: "clamp", Kind: symbols.KindFunction, Exported: true, Line: 1},
		},
		EntryPoints: []classify.EntryPoint{
			{File: "src/app.ts", Category: classify.EntryRuntime, Confidence: classify.ConfidenceHigh, RouteCount: 3},
		},
	}

	detail, ok := fileDetail(snap, "src/util.ts")
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", detail.Path)
	assert.Equal(t, "app", detail.Kind)
	assert.Len(t, detail.Symbols, 1)
	assert.Equal(t, []string{"src/app.ts"}, detail.Dependents)
	assert.Empty(t, detail.Imports)
	assert.Nil(t, detail.EntryPoint)

	detail, ok = fileDetail(snap, "src/app.ts")
	require.True(t, ok)
	assert.Len(t, detail.Imports, 1)
	require.NotNil(t, detail.EntryPoint)
	assert.Equal(t, "runtime", detail.EntryPoint.Category)
	assert.Equal(t, 3, detail.EntryPoint.RouteCount)

	_, ok = fileDetail(snap, "missing.ts")
	assert.False(t, ok)
}

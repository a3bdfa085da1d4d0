package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archmap/internal/classify"
	"archmap/internal/graph"
	"archmap/internal/symbols"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSnapshot() *graph.Snapshot {
	return &graph.Snapshot{
		Files: []graph.FileRecord{
			{Path: "src/app.ts", Kind: classify.KindApp, ContentHash: "aabb"},
			{Path: "src/util.ts", Kind: classify.KindApp, ContentHash: "ccdd"},
		},
		Edges: []graph.DependencyEdge{
			{Source: "src/app.ts", Target: "src/util.ts", Kind: graph.EdgeImport, Symbols: []string{"clamp"}},
		},
		Symbols: []symbols.Record{
			{File: "src/util.ts", Name: "clamp", Kind: symbols.KindFunction, Exported: true, Line: 1},
		},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, loaded, "empty store has no snapshot")

	snap := sampleSnapshot()
	require.NoError(t, s.SaveSnapshot(snap))

	loaded, err = s.LoadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Files, loaded.Files)
	assert.Equal(t, snap.Edges, loaded.Edges)
	assert.Equal(t, snap.Symbols, loaded.Symbols)
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveSnapshot(sampleSnapshot()))

	updated := sampleSnapshot()
	updated.Files[0].ContentHash = "eeff"
	require.NoError(t, s.SaveSnapshot(updated))

	hashes, err := s.LoadFileHashes()
	require.NoError(t, err)
	assert.Equal(t, "eeff", hashes["src/app.ts"])
	assert.Equal(t, "ccdd", hashes["src/util.ts"])
}

func TestPruneStale(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveSnapshot(sampleSnapshot()))

	pruned, err := s.PruneStale([]string{"src/app.ts"})
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	hashes, err := s.LoadFileHashes()
	require.NoError(t, err)
	assert.Contains(t, hashes, "src/app.ts")
	assert.NotContains(t, hashes, "src/util.ts")

	// Nothing stale on a second pass.
	pruned, err = s.PruneStale([]string{"src/app.ts"})
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

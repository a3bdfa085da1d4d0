package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archmap/internal/classify"
)

func appFiles(paths ...string) []FileRecord {
	records := make([]FileRecord, len(paths))
	for i, p := range paths {
		records[i] = FileRecord{Path: p, Kind: classify.KindApp}
	}
	return records
}

func TestComputeClustersCoImport(t *testing.T) {
	files := appFiles("lib/auth.ts", "lib/session.ts", "lib/crypto.ts")
	edges := []DependencyEdge{
		edge("app/login.ts", "lib/auth.ts"),
		edge("app/login.ts", "lib/session.ts"),
		edge("app/logout.ts", "lib/auth.ts"),
		edge("app/logout.ts", "lib/session.ts"),
		edge("app/admin.ts", "lib/auth.ts"),
		edge("app/admin.ts", "lib/session.ts"),
		edge("app/admin.ts", "lib/crypto.ts"),
	}

	clusters := ComputeClusters(files, edges, classify.New())
	require.Len(t, clusters, 1)

	// auth and session share three importers; crypto shares only one and
	// stays out.
	assert.Equal(t, []string{"lib/auth.ts", "lib/session.ts"}, clusters[0].Members)
	assert.Equal(t, "lib", clusters[0].Name)
	assert.Contains(t, clusters[0].Rationale, "co-imported")
}

func TestComputeClustersDirectoryFallback(t *testing.T) {
	files := appFiles(
		"services/users.py",
		"services/orders.py",
		"services/billing.py",
		"other/readme_gen.py",
	)
	// No file pair shares two importers, so co-import yields nothing.
	edges := []DependencyEdge{
		edge("main.py", "services/users.py"),
		edge("main.py", "services/orders.py"),
	}

	clusters := ComputeClusters(files, edges, classify.New())
	require.Len(t, clusters, 1)

	assert.Equal(t, "services", clusters[0].Name)
	assert.Equal(t, []string{
		"services/billing.py",
		"services/orders.py",
		"services/users.py",
	}, clusters[0].Members)
	assert.Contains(t, clusters[0].Rationale, "colocated")
}

func TestComputeClustersNameCollision(t *testing.T) {
	files := appFiles("api/util/fmt.ts", "api/util/io.ts", "web/util/fmt.ts", "web/util/io.ts")
	edges := []DependencyEdge{
		edge("api/a.ts", "api/util/fmt.ts"),
		edge("api/a.ts", "api/util/io.ts"),
		edge("api/b.ts", "api/util/fmt.ts"),
		edge("api/b.ts", "api/util/io.ts"),
		edge("web/a.ts", "web/util/fmt.ts"),
		edge("web/a.ts", "web/util/io.ts"),
		edge("web/b.ts", "web/util/fmt.ts"),
		edge("web/b.ts", "web/util/io.ts"),
	}

	clusters := ComputeClusters(files, edges, classify.New())
	require.Len(t, clusters, 2)

	assert.Equal(t, "api/util", clusters[0].Name)
	assert.Equal(t, "web/util", clusters[1].Name)
}

func TestComputeClustersNameCollisionSameSegment(t *testing.T) {
	// Both clusters share the distinguishing segment too, so only the
	// numeric suffix can tell them apart.
	files := appFiles("a/api/util/fmt.ts", "a/api/util/io.ts", "b/api/util/fmt.ts", "b/api/util/io.ts")
	edges := []DependencyEdge{
		edge("a/x1.ts", "a/api/util/fmt.ts"),
		edge("a/x1.ts", "a/api/util/io.ts"),
		edge("a/x2.ts", "a/api/util/fmt.ts"),
		edge("a/x2.ts", "a/api/util/io.ts"),
		edge("b/y1.ts", "b/api/util/fmt.ts"),
		edge("b/y1.ts", "b/api/util/io.ts"),
		edge("b/y2.ts", "b/api/util/fmt.ts"),
		edge("b/y2.ts", "b/api/util/io.ts"),
	}

	clusters := ComputeClusters(files, edges, classify.New())
	require.Len(t, clusters, 2)

	assert.Equal(t, "api/util", clusters[0].Name)
	assert.Equal(t, "api/util-2", clusters[1].Name)
}

func TestComputeClustersExcludesTooling(t *testing.T) {
	files := appFiles("src/a.ts", "src/b.ts", "vite.config.ts")
	edges := []DependencyEdge{
		edge("src/main.ts", "src/a.ts"),
		edge("src/main.ts", "src/b.ts"),
		edge("src/main.ts", "vite.config.ts"),
		edge("src/alt.ts", "src/a.ts"),
		edge("src/alt.ts", "src/b.ts"),
		edge("src/alt.ts", "vite.config.ts"),
	}

	clusters := ComputeClusters(files, edges, classify.New())
	require.Len(t, clusters, 1)
	assert.NotContains(t, clusters[0].Members, "vite.config.ts")
}

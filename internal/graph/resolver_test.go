package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelative(t *testing.T) {
	r := NewResolver([]string{
		"src/api/client.ts",
		"src/api/types.ts",
		"src/orders/index.ts",
		"app/models/__init__.py",
		"app/models/order.py",
	})

	tests := []struct {
		name string
		from string
		spec string
		want string
	}{
		{"exact sibling", "src/api/client.ts", "./types.ts", "src/api/types.ts"},
		{"extension added", "src/api/client.ts", "./types", "src/api/types.ts"},
		{"directory index", "src/api/client.ts", "../orders", "src/orders/index.ts"},
		{"bare dot resolves to package init", "app/models/order.py", "./", "app/models/__init__.py"},
		{"unresolved relative", "src/api/client.ts", "./missing", ""},
		{"python sibling", "app/models/__init__.py", "./order", "app/models/order.py"},
		{"up one level", "src/orders/index.ts", "../api/client", "src/api/client.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.from, tt.spec)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBare(t *testing.T) {
	r := NewResolver([]string{
		"internal/billing/invoice.go",
		"internal/shipping/invoice.go",
		"pkg/util/strings.go",
	})

	// Longest segment suffix wins.
	got, ok := r.Resolve("cmd/main.go", "billing/invoice")
	require.True(t, ok)
	assert.Equal(t, "internal/billing/invoice.go", got)

	// Ambiguous single-segment specifier breaks ties lexicographically.
	got, ok = r.Resolve("cmd/main.go", "invoice")
	require.True(t, ok)
	assert.Equal(t, "internal/billing/invoice.go", got)

	_, ok = r.Resolve("cmd/main.go", "left-pad")
	assert.False(t, ok)
}

func TestResolveBareDirectory(t *testing.T) {
	r := NewResolver([]string{
		"internal/billing/billing.go",
		"internal/billing/tax.go",
		"internal/store/store.go",
	})

	// Package-style import names a directory; the dir-named file stands in.
	got, ok := r.Resolve("cmd/main.go", "example.com/app/internal/billing")
	require.True(t, ok)
	assert.Equal(t, "internal/billing/billing.go", got)
}

func TestResolveDeterminism(t *testing.T) {
	paths := []string{
		"a/common/util.py",
		"b/common/util.py",
	}
	r := NewResolver(paths)
	for i := 0; i < 20; i++ {
		got, ok := r.Resolve("main.py", "common/util")
		require.True(t, ok)
		assert.Equal(t, "a/common/util.py", got)
	}
}

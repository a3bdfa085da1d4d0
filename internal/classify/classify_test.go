package classify

import (
	"testing"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/stretchr/testify/assert"
)

func TestClassifyConventions(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"plain source", "internal/service/handler.go", KindApp},
		{"root file", "main.go", KindApp},
		{"node_modules", "node_modules/lodash/index.js", KindThirdParty},
		{"nested vendor", "backend/vendor/lib/util.go", KindThirdParty},
		{"build output", "dist/bundle.js", KindThirdParty},
		{"pycache", "pkg/__pycache__/mod.py", KindThirdParty},
		{"go test file", "internal/service/handler_test.go", KindTest},
		{"python test prefix", "app/test_models.py", KindTest},
		{"conftest", "app/conftest.py", KindTest},
		{"js spec suffix", "src/user.spec.ts", KindTest},
		{"tests directory", "tests/helpers.py", KindTest},
		{"dunder tests dir", "src/__tests__/render.js", KindTest},
		{"test dir inside vendor", "vendor/tests/x.go", KindThirdParty},
		{"file merely named test", "src/test.ts", KindApp},
		{"dir named test as final segment parent", "test/util.py", KindTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.path))
		})
	}
}

func TestClassifyOverrides(t *testing.T) {
	c := New(
		WithExcludeGlobs([]string{"legacy/**"}),
		WithIncludeOverrides([]string{"vendor/ours/"}),
	)

	assert.Equal(t, KindThirdParty, c.Classify("legacy/old/service.go"))
	// Include prefixes win over every exclusion rule.
	assert.Equal(t, KindApp, c.Classify("vendor/ours/client.go"))
	assert.Equal(t, KindThirdParty, c.Classify("vendor/theirs/client.go"))
}

func TestClassifyGitignore(t *testing.T) {
	ign := gitignore.CompileIgnoreLines("generated-output/", "*.tmp.js")
	c := New(WithIgnoreMatcher(ign))

	assert.Equal(t, KindThirdParty, c.Classify("generated-output/api.go"))
	assert.Equal(t, KindThirdParty, c.Classify("src/view.tmp.js"))
	assert.Equal(t, KindApp, c.Classify("src/view.js"))
}

func TestIsStructural(t *testing.T) {
	c := New()

	tests := []struct {
		path string
		want bool
	}{
		{"internal/service/handler.go", true},
		{"api/v1/service.pb.go", false},
		{"db/migrations/0001_init.py", false},
		{"src/types.d.ts", false},
		{"assets/app.min.js", false},
		{"internal/service/handler_test.go", false},
		{"node_modules/pkg/index.js", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsStructural(tt.path), tt.path)
	}
}

func TestIsTooling(t *testing.T) {
	c := New()

	assert.True(t, c.IsTooling("webpack.config.js"))
	assert.True(t, c.IsTooling("frontend/vite.config.ts"))
	assert.True(t, c.IsTooling("eslint.config.mjs"))
	assert.True(t, c.IsTooling("setup.py"))
	assert.False(t, c.IsTooling("src/config.go"))
}

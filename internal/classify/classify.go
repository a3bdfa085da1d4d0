package classify

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Kind is the coarse classification of a workspace file.
type Kind string

const (
	KindApp        Kind = "app"
	KindTest       Kind = "test"
	KindThirdParty Kind = "third_party"
)

// thirdPartyDirs are path segments that mark dependency caches, build output
// and VCS metadata. Any match wins outright over the test rules.
var thirdPartyDirs = map[string]bool{
	"node_modules":     true,
	"vendor":           true,
	"bower_components": true,
	".git":             true,
	".hg":              true,
	".svn":             true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"target":           true,
	"__pycache__":      true,
	".venv":            true,
	"venv":             true,
	"site-packages":    true,
	".next":            true,
	".nuxt":            true,
	"coverage":         true,
	".cache":           true,
}

// testDirs are path segments that mark test trees.
var testDirs = map[string]bool{
	"test":         true,
	"tests":        true,
	"testdata":     true,
	"__tests__":    true,
	"__mocks__":    true,
	"__fixtures__": true,
	"spec":         true,
	"e2e":          true,
	"cypress":      true,
	"integration":  true,
	"quicktests":   true,
}

// Classifier assigns a Kind to workspace paths. The zero value uses the
// built-in conventions only; New wires optional gitignore and config
// overrides so no process-wide state is involved.
type Classifier struct {
	ignore  *gitignore.GitIgnore
	exclude []string // doublestar globs forced to third_party
	include []string // path prefixes forced back to app
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithIgnoreMatcher supplies a compiled .gitignore matcher. Matching paths
// classify as third_party even when the caller's enumeration let them
// through.
func WithIgnoreMatcher(ign *gitignore.GitIgnore) Option {
	return func(c *Classifier) { c.ignore = ign }
}

// WithExcludeGlobs supplies config-driven glob patterns treated as
// third_party.
func WithExcludeGlobs(globs []string) Option {
	return func(c *Classifier) { c.exclude = globs }
}

// WithIncludeOverrides supplies path prefixes that are always classified as
// app. Include wins over exclude, matching the config contract.
func WithIncludeOverrides(prefixes []string) Option {
	return func(c *Classifier) { c.include = prefixes }
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps a path to its Kind. Pure and total: any string input,
// including paths outside the workspace root, yields a valid Kind.
// Precedence: third_party conventions win outright, then test conventions,
// then app.
func (c *Classifier) Classify(path string) Kind {
	p := filepath.ToSlash(path)

	for _, prefix := range c.include {
		if strings.HasPrefix(p, prefix) {
			return KindApp
		}
	}

	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if thirdPartyDirs[strings.ToLower(seg)] {
			return KindThirdParty
		}
	}
	if c.ignore != nil && c.ignore.MatchesPath(p) {
		return KindThirdParty
	}
	for _, glob := range c.exclude {
		if ok, err := doublestar.Match(glob, p); err == nil && ok {
			return KindThirdParty
		}
	}

	// Directory conventions: all but the final segment.
	for _, seg := range segments[:max(len(segments)-1, 0)] {
		if testDirs[strings.ToLower(seg)] {
			return KindTest
		}
	}
	if isTestFilename(filepath.Base(p)) {
		return KindTest
	}

	return KindApp
}

// isTestFilename matches test/spec filename conventions across the
// supported languages.
func isTestFilename(base string) bool {
	lower := strings.ToLower(base)
	ext := filepath.Ext(lower)
	stem := strings.TrimSuffix(lower, ext)

	if strings.HasSuffix(lower, "_test.go") {
		return true
	}
	switch ext {
	case ".py", ".pyi":
		if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") || stem == "conftest" {
			return true
		}
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
		if strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec") {
			return true
		}
	}
	return false
}

// generatedMarkers flag files produced by code generators or migration
// tooling. They stay in the file set but are kept out of architectural
// rankings.
var generatedMarkers = []string{
	".pb.go", ".pb.gw.go", "_gen.go", ".gen.go", ".generated.",
	"_generated.", ".min.js", ".bundle.js", ".d.ts",
}

var scaffoldDirs = map[string]bool{
	"migrations":    true,
	"migration":     true,
	"generated":     true,
	"gen":           true,
	"scaffold":      true,
	"fixtures":      true,
	"snapshots":     true,
	"__snapshots__": true,
}

// IsStructural reports whether an app-classified file should participate in
// architecture-level rankings. Generated, migration and scaffold files are
// excluded while still counting in completeness views.
func (c *Classifier) IsStructural(path string) bool {
	if c.Classify(path) != KindApp {
		return false
	}
	p := filepath.ToSlash(strings.ToLower(path))
	base := filepath.Base(p)
	for _, marker := range generatedMarkers {
		if strings.Contains(base, marker) {
			return false
		}
	}
	segments := strings.Split(p, "/")
	for _, seg := range segments[:max(len(segments)-1, 0)] {
		if scaffoldDirs[seg] {
			return false
		}
	}
	return true
}

// toolingNames are build/config tooling files excluded from cluster
// membership.
var toolingNames = map[string]bool{
	"makefile":          true,
	"dockerfile":        true,
	"webpack.config.js": true,
	"vite.config.js":    true,
	"vite.config.ts":    true,
	"rollup.config.js":  true,
	"gulpfile.js":       true,
	"gruntfile.js":      true,
	"babel.config.js":   true,
	"jest.config.js":    true,
	"jest.config.ts":    true,
	"setup.py":          true,
	"conftest.py":       true,
	"tsconfig.json":     true,
	"package.json":      true,
}

// IsTooling reports whether a path is a build or config tooling file.
func (c *Classifier) IsTooling(path string) bool {
	base := strings.ToLower(filepath.Base(filepath.ToSlash(path)))
	if toolingNames[base] {
		return true
	}
	return strings.Contains(base, ".config.")
}

// Package workspace discovers candidate source files under a repository
// root, honoring .gitignore and configured exclude globs.
package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"archmap/internal/symbols"
)

// skipDirs are never descended into. Their contents are either not source
// code or belong to a package manager, and walking node_modules alone can
// cost more than the rest of the pass combined.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".cache":       true,
}

// Walker lists the source files an analysis pass should consider.
type Walker struct {
	root    string
	ignore  *gitignore.GitIgnore
	exclude []string
	exts    map[string]bool
	logger  *slog.Logger
}

type Option func(*Walker)

// WithExcludeGlobs adds doublestar patterns matched against the
// slash-separated relative path.
func WithExcludeGlobs(globs []string) Option {
	return func(w *Walker) { w.exclude = append(w.exclude, globs...) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New builds a walker rooted at root. A .gitignore at the root is compiled
// when present; a missing or unparsable one is ignored.
func New(root string, opts ...Option) *Walker {
	w := &Walker{
		root:   root,
		exts:   make(map[string]bool),
		logger: slog.Default(),
	}
	for _, ext := range symbols.SupportedExtensions() {
		w.exts[ext] = true
	}
	if ign, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		w.ignore = ign
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// IgnoreMatcher exposes the compiled .gitignore so the classifier can share
// it. Nil when the root has no .gitignore.
func (w *Walker) IgnoreMatcher() *gitignore.GitIgnore {
	return w.ignore
}

// Walk returns the sorted, slash-separated relative paths of every
// supported source file under the root.
func (w *Walker) Walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("walk error", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(w.root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] || w.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.exts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		if w.excluded(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (w *Walker) excluded(rel string) bool {
	if w.ignore != nil && w.ignore.MatchesPath(rel) {
		return true
	}
	for _, glob := range w.exclude {
		if ok, err := doublestar.Match(glob, strings.TrimSuffix(rel, "/")); err == nil && ok {
			return true
		}
	}
	return false
}

package graph

import (
	"path"
	"sort"
	"strings"
)

// Resolver maps module specifiers to workspace files. Relative specifiers
// resolve against the importing file's directory; bare specifiers use a
// longest-suffix match against the discovered file set. Unresolved
// specifiers are external dependencies and produce no edge.
type Resolver struct {
	files  map[string]bool
	byStem map[string][]string // base name without extension -> sorted paths
	byDir  map[string][]string // directory -> sorted member files
}

// NewResolver indexes the discovered workspace paths. Paths are expected
// slash-normalized; anything else is normalized here defensively.
func NewResolver(paths []string) *Resolver {
	r := &Resolver{
		files:  make(map[string]bool, len(paths)),
		byStem: make(map[string][]string),
		byDir:  make(map[string][]string),
	}
	for _, p := range paths {
		p = strings.ReplaceAll(p, "\\", "/")
		if r.files[p] {
			continue
		}
		r.files[p] = true
		stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
		r.byStem[stem] = append(r.byStem[stem], p)
		dir := path.Dir(p)
		r.byDir[dir] = append(r.byDir[dir], p)
	}
	for stem := range r.byStem {
		sort.Strings(r.byStem[stem])
	}
	for dir := range r.byDir {
		sort.Strings(r.byDir[dir])
	}
	return r
}

// extensionCandidates are tried, in order, when a specifier omits the file
// extension. Index files cover directory imports.
var extensionCandidates = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".py", ".go",
	"/index.ts", "/index.tsx", "/index.js", "/index.jsx",
	"/__init__.py",
}

// Resolve maps one import specifier from the given file to a workspace
// file. ok is false for external dependencies; the caller treats that as a
// silent no-op.
func (r *Resolver) Resolve(fromFile, spec string) (string, bool) {
	if spec == "" {
		return "", false
	}
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		return r.resolveRelative(fromFile, spec)
	}
	return r.resolveBare(spec)
}

func (r *Resolver) resolveRelative(fromFile, spec string) (string, bool) {
	base := path.Join(path.Dir(fromFile), spec)
	if r.files[base] {
		return base, true
	}
	for _, ext := range extensionCandidates {
		if candidate := base + ext; r.files[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// resolveBare picks the workspace file sharing the longest path-segment
// suffix with the specifier. File matches win over directory matches at
// equal length; remaining ties break on the lexicographically smallest
// path for determinism.
func (r *Resolver) resolveBare(spec string) (string, bool) {
	spec = strings.TrimSuffix(spec, path.Ext(spec))
	segments := strings.Split(spec, "/")
	stem := segments[len(segments)-1]

	best := ""
	bestScore := 0
	for _, candidate := range r.byStem[stem] {
		score := suffixLen(segments, splitNoExt(candidate))
		if score > bestScore || (score == bestScore && score > 0 && candidate < best) {
			best = candidate
			bestScore = score
		}
	}

	// Package-style imports name a directory; resolve to a deterministic
	// representative file inside it. A directory match must beat the best
	// file match outright: at equal suffix length the file wins.
	dirBest := ""
	dirScore := bestScore
	for dir, members := range r.byDir {
		score := suffixLen(segments, strings.Split(dir, "/"))
		if score <= bestScore || score < dirScore {
			continue
		}
		rep := representative(stem, members)
		if rep == "" {
			continue
		}
		if score > dirScore || dirBest == "" || rep < dirBest {
			dirBest = rep
			dirScore = score
		}
	}
	if dirBest != "" {
		best = dirBest
	}

	if best == "" {
		return "", false
	}
	return best, true
}

// suffixLen counts how many trailing segments of spec match the trailing
// segments of the candidate path.
func suffixLen(spec, candidate []string) int {
	n := 0
	for n < len(spec) && n < len(candidate) {
		if spec[len(spec)-1-n] != candidate[len(candidate)-1-n] {
			break
		}
		n++
	}
	return n
}

func splitNoExt(p string) []string {
	return strings.Split(strings.TrimSuffix(p, path.Ext(p)), "/")
}

// representative picks the file that stands for a directory import: the
// file named after the directory's last segment, then an index/__init__
// file, then the lexicographically first member.
func representative(stem string, members []string) string {
	for _, m := range members {
		if strings.TrimSuffix(path.Base(m), path.Ext(m)) == stem {
			return m
		}
	}
	for _, m := range members {
		base := path.Base(m)
		if strings.HasPrefix(base, "index.") || base == "__init__.py" {
			return m
		}
	}
	if len(members) > 0 {
		return members[0]
	}
	return ""
}

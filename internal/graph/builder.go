package graph

import (
	"log/slog"
	"sort"

	"archmap/internal/symbols"
)

// Build resolves every file's import statements into directed dependency
// edges. Parallel imports of the same target merge into one edge whose
// symbol set is the union of the identified bindings; a whole-module import
// clears the set, since any export may then be used. Self-loops are dropped
// as a degenerate no-op and unresolved specifiers are silently skipped as
// external dependencies.
func Build(results []symbols.ParseResult, resolver *Resolver) []DependencyEdge {
	type edgeKey struct{ source, target string }
	type edgeAccum struct {
		syms        map[string]bool
		wholeModule bool
		lines       map[int]bool
	}
	accum := make(map[edgeKey]*edgeAccum)

	for _, r := range results {
		for _, imp := range r.Imports {
			target, ok := resolver.Resolve(r.Path, imp.Spec)
			if !ok {
				continue // external library, no edge
			}
			if target == r.Path {
				continue // self-loop
			}
			key := edgeKey{source: r.Path, target: target}
			acc := accum[key]
			if acc == nil {
				acc = &edgeAccum{syms: make(map[string]bool), lines: make(map[int]bool)}
				accum[key] = acc
			}
			if len(imp.Names) == 0 {
				acc.wholeModule = true
			}
			for _, name := range imp.Names {
				acc.syms[name] = true
			}
			if imp.Line > 0 {
				acc.lines[imp.Line] = true
			}
		}
	}

	edges := make([]DependencyEdge, 0, len(accum))
	for key, acc := range accum {
		edge := DependencyEdge{Source: key.source, Target: key.target, Kind: EdgeImport}
		if !acc.wholeModule {
			edge.Symbols = sortedKeys(acc.syms)
		}
		edge.ReferenceLines = sortedInts(acc.lines)
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	markCircular(edges)

	slog.Debug("dependency graph built",
		slog.Int("files", len(results)),
		slog.Int("edges", len(edges)),
	)
	return edges
}

// markCircular tags both directions of every reciprocal pair. The tag is
// derived, not authoritative: the raw import edge remains in place.
func markCircular(edges []DependencyEdge) {
	seen := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		seen[[2]string{e.Source, e.Target}] = true
	}
	for i := range edges {
		if seen[[2]string{edges[i].Target, edges[i].Source}] {
			edges[i].Kind = EdgeCircular
		}
	}
}

// CircularPairs groups reciprocal edges into unique unordered pairs,
// ordered lexicographically. Cycles longer than two nodes are not detected;
// this is pairwise reciprocity only.
func CircularPairs(edges []DependencyEdge) []CircularPair {
	seen := make(map[CircularPair]bool)
	var pairs []CircularPair
	for _, e := range edges {
		if e.Kind != EdgeCircular {
			continue
		}
		pair := CircularPair{A: e.Source, B: e.Target}
		if pair.B < pair.A {
			pair.A, pair.B = pair.B, pair.A
		}
		if !seen[pair] {
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// CircularSummaryCap bounds how many pairs a summary view reports. The
// full set stays in the snapshot.
const CircularSummaryCap = 5

// SummarizeCircularPairs returns the first pairs up to the cap, relying on
// the lexicographic order CircularPairs already established.
func SummarizeCircularPairs(pairs []CircularPair) []CircularPair {
	if len(pairs) <= CircularSummaryCap {
		return pairs
	}
	return pairs[:CircularSummaryCap]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedInts(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	vals := make([]int, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Ints(vals)
	return vals
}

package graph

import (
	"sort"
	"strings"

	"archmap/internal/classify"
)

const (
	// maxChainDepth keeps a chain short enough to narrate.
	maxChainDepth = 6
	minChainFiles = 3
	maxChains     = 5

	entryStartBonus = 3
	leafEndBonus    = 2
)

// ComputeChains walks representative dependency paths through the graph.
// Runtime entry points seed the walk first, then the most depended-upon
// files, so the result reads as "how a request flows" rather than an
// arbitrary traversal.
func ComputeChains(edges []DependencyEdge, entryPoints []classify.EntryPoint) []Chain {
	outgoing := make(map[string][]string)
	for _, e := range edges {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}
	for src := range outgoing {
		sort.Strings(outgoing[src])
	}

	starts := chainStarts(edges, entryPoints)
	entrySet := make(map[string]bool)
	for _, ep := range entryPoints {
		if ep.Category == classify.EntryRuntime {
			entrySet[ep.File] = true
		}
	}

	seen := make(map[string]bool)
	var chains []Chain
	for _, start := range starts {
		files := walkChain(start, outgoing)
		if len(files) < minChainFiles {
			continue
		}
		key := strings.Join(files, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true

		score := len(files)
		if entrySet[start] {
			score += entryStartBonus
		}
		if len(outgoing[files[len(files)-1]]) == 0 {
			score += leafEndBonus
		}
		chains = append(chains, Chain{Files: files, Score: score})
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i].Score != chains[j].Score {
			return chains[i].Score > chains[j].Score
		}
		return chains[i].Files[0] < chains[j].Files[0]
	})
	if len(chains) > maxChains {
		chains = chains[:maxChains]
	}
	return chains
}

// chainStarts orders candidate start files: runtime entry points by route
// count, then remaining sources by in-degree so heavily used files fill in
// when a repo has no recognizable entry points.
func chainStarts(edges []DependencyEdge, entryPoints []classify.EntryPoint) []string {
	var starts []string
	added := make(map[string]bool)

	runtime := make([]classify.EntryPoint, 0, len(entryPoints))
	for _, ep := range entryPoints {
		if ep.Category == classify.EntryRuntime {
			runtime = append(runtime, ep)
		}
	}
	sort.Slice(runtime, func(i, j int) bool {
		if runtime[i].RouteCount != runtime[j].RouteCount {
			return runtime[i].RouteCount > runtime[j].RouteCount
		}
		return runtime[i].File < runtime[j].File
	})
	for _, ep := range runtime {
		if !added[ep.File] {
			added[ep.File] = true
			starts = append(starts, ep.File)
		}
	}

	inDegree := make(map[string]int)
	sources := make(map[string]bool)
	for _, e := range edges {
		inDegree[e.Target]++
		sources[e.Source] = true
	}
	rest := make([]string, 0, len(sources))
	for src := range sources {
		if !added[src] {
			rest = append(rest, src)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if inDegree[rest[i]] != inDegree[rest[j]] {
			return inDegree[rest[i]] > inDegree[rest[j]]
		}
		return rest[i] < rest[j]
	})
	return append(starts, rest...)
}

// walkChain follows the lexicographically first unvisited outgoing edge at
// each step. Deterministic by construction: same edges, same chain.
func walkChain(start string, outgoing map[string][]string) []string {
	files := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for len(files) < maxChainDepth {
		next := ""
		for _, target := range outgoing[current] {
			if !visited[target] {
				next = target
				break
			}
		}
		if next == "" {
			break
		}
		visited[next] = true
		files = append(files, next)
		current = next
	}
	return files
}

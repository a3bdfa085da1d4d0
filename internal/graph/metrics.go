package graph

import (
	"sort"

	"archmap/internal/classify"
)

// MetricsOptions tunes hub ranking. Zero fields fall back to the defaults.
type MetricsOptions struct {
	// HubLimit caps the hub list.
	HubLimit int
	// HighInDegree is the structural threshold above which a file is
	// high-risk regardless of external signal.
	HighInDegree int
	// MinConnectivity is the minimum in+out degree (absent any external
	// signal) for a file to be considered at all.
	MinConnectivity int
	// HighSignal and MediumSignal grade the pluggable external signal
	// count into risk tiers.
	HighSignal   int
	MediumSignal int
}

// DefaultMetricsOptions returns the documented defaults.
func DefaultMetricsOptions() MetricsOptions {
	return MetricsOptions{
		HubLimit:        12,
		HighInDegree:    8,
		MinConnectivity: 2,
		HighSignal:      10,
		MediumSignal:    3,
	}
}

func (o MetricsOptions) withDefaults() MetricsOptions {
	def := DefaultMetricsOptions()
	if o.HubLimit <= 0 {
		o.HubLimit = def.HubLimit
	}
	if o.HighInDegree <= 0 {
		o.HighInDegree = def.HighInDegree
	}
	if o.MinConnectivity <= 0 {
		o.MinConnectivity = def.MinConnectivity
	}
	if o.HighSignal <= 0 {
		o.HighSignal = def.HighSignal
	}
	if o.MediumSignal <= 0 {
		o.MediumSignal = def.MediumSignal
	}
	return o
}

// FileMetrics is the per-file connectivity summary.
type FileMetrics struct {
	InDegree  int
	OutDegree int
	// Signal is the optional external signal count supplied by an
	// out-of-scope collaborator; zero when absent.
	Signal int
}

// Centrality weights callers double: fan-in predicts blast radius better
// than fan-out.
func (m FileMetrics) Centrality() int {
	return 2*m.InDegree + m.OutDegree
}

// Hotspot combines total connectivity with the external signal.
func (m FileMetrics) Hotspot() int {
	return 2*(m.InDegree+m.OutDegree) + m.Signal
}

// Degrees counts direct edges per file. Signals supplies the optional
// external signal map; nil means all zero.
func Degrees(edges []DependencyEdge, signals map[string]int) map[string]FileMetrics {
	metrics := make(map[string]FileMetrics)
	for _, e := range edges {
		src := metrics[e.Source]
		src.OutDegree++
		metrics[e.Source] = src

		dst := metrics[e.Target]
		dst.InDegree++
		metrics[e.Target] = dst
	}
	for file, count := range signals {
		if count <= 0 {
			continue
		}
		m := metrics[file]
		m.Signal = count
		metrics[file] = m
	}
	return metrics
}

// Dependents inverts the edge set: target -> sorted importing files.
func Dependents(edges []DependencyEdge) map[string][]string {
	deps := make(map[string][]string)
	for _, e := range edges {
		deps[e.Target] = append(deps[e.Target], e.Source)
	}
	for target := range deps {
		sort.Strings(deps[target])
	}
	return deps
}

// secondLevelCap bounds the dependents walked per first-level dependent so
// dense graphs stay cheap.
const secondLevelCap = 3

// BlastRadius lists the files affected if the given file's interface
// changes: direct app-classified dependents plus up to three second-level
// dependents per first-level dependent, deduplicated.
func BlastRadius(file string, dependents map[string][]string, cls *classify.Classifier) []string {
	seen := map[string]bool{file: true}
	var radius []string

	var direct []string
	for _, d := range dependents[file] {
		if cls.Classify(d) != classify.KindApp || seen[d] {
			continue
		}
		seen[d] = true
		direct = append(direct, d)
		radius = append(radius, d)
	}

	for _, d := range direct {
		added := 0
		for _, second := range dependents[d] {
			if added >= secondLevelCap {
				break
			}
			if seen[second] || cls.Classify(second) != classify.KindApp {
				continue
			}
			seen[second] = true
			radius = append(radius, second)
			added++
		}
	}
	return radius
}

// ComputeHubs ranks structural app files by hotspot score. Ties break on
// the path string so repeated passes over unchanged input produce an
// identical list.
func ComputeHubs(files []FileRecord, edges []DependencyEdge, signals map[string]int, cls *classify.Classifier, opts MetricsOptions) []Hub {
	opts = opts.withDefaults()
	metrics := Degrees(edges, signals)
	dependents := Dependents(edges)

	var hubs []Hub
	for _, f := range files {
		if f.Kind != classify.KindApp || !cls.IsStructural(f.Path) {
			continue
		}
		m := metrics[f.Path]
		if m.InDegree+m.OutDegree < opts.MinConnectivity && m.Signal == 0 {
			continue
		}
		hubs = append(hubs, Hub{
			File:         f.Path,
			InDegree:     m.InDegree,
			OutDegree:    m.OutDegree,
			HotspotScore: m.Hotspot(),
			RiskTier:     riskTier(m, opts),
			BlastRadius:  BlastRadius(f.Path, dependents, cls),
		})
	}

	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].HotspotScore != hubs[j].HotspotScore {
			return hubs[i].HotspotScore > hubs[j].HotspotScore
		}
		return hubs[i].File < hubs[j].File
	})
	if len(hubs) > opts.HubLimit {
		hubs = hubs[:opts.HubLimit]
	}
	return hubs
}

func riskTier(m FileMetrics, opts MetricsOptions) RiskTier {
	switch {
	case m.InDegree > opts.HighInDegree || m.Signal >= opts.HighSignal:
		return RiskHigh
	case m.InDegree+m.OutDegree >= opts.MinConnectivity+3 || m.Signal >= opts.MediumSignal:
		return RiskMedium
	default:
		return RiskLow
	}
}

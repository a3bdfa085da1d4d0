// Package graph builds and analyzes the file-level dependency graph: edge
// construction from resolved imports, reciprocal-pair circular detection,
// connectivity metrics, co-import clustering and representative chains.
// Everything derived is a pure function of the immutable edge/symbol set.
package graph

import (
	"archmap/internal/classify"
	"archmap/internal/symbols"
)

// EdgeKind tags a dependency edge.
type EdgeKind string

const (
	EdgeImport   EdgeKind = "import"
	EdgeCircular EdgeKind = "circular"
)

// FileRecord is one workspace file in the analyzed set. Immutable per pass;
// a new pass replaces the whole set.
type FileRecord struct {
	Path string        `json:"path"`
	Kind classify.Kind `json:"kind"`
	// ContentHash is the xxhash of the file content at read time, hex
	// encoded. Empty for files that were not read (third_party, unreadable).
	ContentHash string `json:"content_hash,omitempty"`
}

// DependencyEdge is a directed file-to-file dependency. Symbols carries the
// specific referenced bindings when they could be identified; an empty set
// means whole-module semantics (any export may be used by the caller).
type DependencyEdge struct {
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Kind           EdgeKind `json:"kind"`
	Symbols        []string `json:"symbols,omitempty"`
	ReferenceLines []int    `json:"reference_lines,omitempty"`
}

// CircularPair is one unordered reciprocal import pair. A and B are ordered
// lexicographically so each pair is reported once.
type CircularPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// RiskTier grades how risky a hub is to modify.
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

// Hub is a highly connected app file ranked by hotspot score.
type Hub struct {
	File         string   `json:"file"`
	InDegree     int      `json:"in_degree"`
	OutDegree    int      `json:"out_degree"`
	HotspotScore int      `json:"hotspot_score"`
	RiskTier     RiskTier `json:"risk_tier"`
	// BlastRadius lists the files structurally affected if this hub's
	// interface changes: direct app dependents plus up to three
	// second-level dependents each, deduplicated.
	BlastRadius []string `json:"blast_radius,omitempty"`
}

// Cluster groups files frequently co-imported by the same callers.
type Cluster struct {
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	Rationale string   `json:"rationale"`
}

// Chain is a representative ordered dependency path.
type Chain struct {
	Files []string `json:"files"`
	Score int      `json:"score"`
}

// Snapshot is the completed, immutable analysis result. All fields are
// plain serializable values with no references into engine-internal state;
// identical file paths and contents produce a byte-for-byte identical
// snapshot.
type Snapshot struct {
	Files         []FileRecord          `json:"files"`
	Edges         []DependencyEdge      `json:"edges"`
	Symbols       []symbols.Record      `json:"symbols"`
	CircularPairs []CircularPair        `json:"circular_pairs,omitempty"`
	Hubs          []Hub                 `json:"hubs,omitempty"`
	Clusters      []Cluster             `json:"clusters,omitempty"`
	Chains        []Chain               `json:"chains,omitempty"`
	EntryPoints   []classify.EntryPoint `json:"entry_points,omitempty"`
}

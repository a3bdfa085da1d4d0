// Package analyzer orchestrates a full structural pass: bounded concurrent
// file reads, symbol and import extraction, then the sequential graph
// pipeline that derives edges, hubs, clusters and chains. A pass returns an
// immutable snapshot; nothing downstream mutates analyzer state.
package analyzer

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"archmap/internal/classify"
	"archmap/internal/graph"
	"archmap/internal/symbols"
)

// DefaultConcurrency bounds simultaneous file reads. High enough to keep an
// SSD busy, low enough to stay under default fd limits.
const DefaultConcurrency = 30

// ContentProvider supplies file contents by workspace-relative path.
type ContentProvider interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSProvider reads files from a root directory on the local filesystem.
type OSProvider struct {
	Root string
}

func (p OSProvider) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(path)))
}

// Analyzer runs structural passes over a set of workspace files.
type Analyzer struct {
	provider    ContentProvider
	classifier  *classify.Classifier
	extractor   *symbols.Extractor
	signals     map[string]int
	concurrency int
	metricsOpts graph.MetricsOptions
	logger      *slog.Logger
}

type Option func(*Analyzer)

// WithClassifier replaces the default classifier, typically to carry
// gitignore and config-driven include/exclude rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithExtractor replaces the default pattern-only extractor, typically with
// one carrying the syntax-aware strategy.
func WithExtractor(e *symbols.Extractor) Option {
	return func(a *Analyzer) { a.extractor = e }
}

// WithExternalSignals supplies the per-file external signal counts folded
// into hotspot scores. The map is keyed by workspace-relative path.
func WithExternalSignals(signals map[string]int) Option {
	return func(a *Analyzer) { a.signals = signals }
}

// WithConcurrency bounds simultaneous file reads.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithMetricsOptions tunes hub ranking thresholds.
func WithMetricsOptions(opts graph.MetricsOptions) Option {
	return func(a *Analyzer) { a.metricsOpts = opts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func New(provider ContentProvider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider:    provider,
		classifier:  classify.New(),
		extractor:   symbols.New(),
		concurrency: DefaultConcurrency,
		metricsOpts: graph.DefaultMetricsOptions(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fileOutcome is one file's read+parse result. Failures are recorded, not
// propagated: a single unreadable file must not sink the pass.
type fileOutcome struct {
	record graph.FileRecord
	parse  symbols.ParseResult
	entry  classify.EntryPoint
	hasEP  bool
	parsed bool
	err    error
}

// Run executes one structural pass over paths and returns the snapshot.
// Paths are workspace-relative with forward slashes. App and test files in
// a supported language are read and parsed, so test imports of app code
// count toward in-degrees; third-party files are recorded with their
// classification and never read. Given identical paths and contents the
// snapshot is identical.
func (a *Analyzer) Run(ctx context.Context, paths []string) (*graph.Snapshot, error) {
	paths = normalizePaths(paths)

	outcomes := make([]fileOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = a.processFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis pass: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis pass: %w", err)
	}

	snapshot := a.assemble(outcomes)
	a.logger.Info("analysis pass complete",
		"files", len(snapshot.Files),
		"edges", len(snapshot.Edges),
		"symbols", len(snapshot.Symbols),
		"hubs", len(snapshot.Hubs))
	return snapshot, nil
}

func (a *Analyzer) processFile(ctx context.Context, path string) fileOutcome {
	out := fileOutcome{record: graph.FileRecord{
		Path: path,
		Kind: a.classifier.Classify(path),
	}}
	if out.record.Kind == classify.KindThirdParty {
		return out
	}
	lang := symbols.LanguageForPath(path)
	if lang == "" {
		return out
	}

	content, err := a.provider.ReadFile(ctx, path)
	if err != nil {
		out.err = fmt.Errorf("read %s: %w", path, err)
		return out
	}
	out.record.ContentHash = contentHash(content)
	out.parse = a.extractor.ExtractFile(path, content)
	out.parsed = true
	if ep, ok := classify.ClassifyEntryPoint(path, lang, content); ok {
		out.entry = ep
		out.hasEP = true
	}
	return out
}

// assemble runs the sequential pure pipeline over the per-file outcomes.
func (a *Analyzer) assemble(outcomes []fileOutcome) *graph.Snapshot {
	var (
		files   []graph.FileRecord
		results []symbols.ParseResult
		records []symbols.Record
		entries []classify.EntryPoint
		paths   []string
	)
	for _, out := range outcomes {
		if out.err != nil {
			a.logger.Warn("skipping file", "path", out.record.Path, "error", out.err)
		}
		files = append(files, out.record)
		if out.record.Kind != classify.KindThirdParty {
			paths = append(paths, out.record.Path)
		}
		if out.parsed {
			results = append(results, out.parse)
			records = append(records, out.parse.Symbols...)
		}
		if out.hasEP {
			entries = append(entries, out.entry)
		}
	}

	resolver := graph.NewResolver(paths)
	edges := graph.Build(results, resolver)

	sort.Slice(records, func(i, j int) bool {
		if records[i].File != records[j].File {
			return records[i].File < records[j].File
		}
		if records[i].Line != records[j].Line {
			return records[i].Line < records[j].Line
		}
		return records[i].Name < records[j].Name
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].File < entries[j].File
	})

	return &graph.Snapshot{
		Files:         files,
		Edges:         edges,
		Symbols:       records,
		CircularPairs: graph.CircularPairs(edges),
		Hubs:          graph.ComputeHubs(files, edges, a.signals, a.classifier, a.metricsOpts),
		Clusters:      graph.ComputeClusters(files, edges, a.classifier),
		Chains:        graph.ComputeChains(edges, entries),
		EntryPoints:   entries,
	}
}

func normalizePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimPrefix(filepath.ToSlash(p), "./")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func contentHash(content []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(content))
	return hex.EncodeToString(buf[:])
}

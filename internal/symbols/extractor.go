package symbols

import (
	"log/slog"
)

// SyntaxExtractor is the optional syntax-tree capability. Parse walks
// top-level and class-member declarations of the given language and returns
// ok=false when the language is not covered or the parse fails, which
// triggers the pattern fallback as a normal branch.
type SyntaxExtractor interface {
	Parse(language string, content []byte) (records []Record, ok bool)
}

// Extractor turns file content into ordered symbol records and import
// statements. The zero value is unusable; construct with New.
type Extractor struct {
	syntax SyntaxExtractor // nil means pattern-based only
	logger *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithSyntax injects a syntax-tree capability.
func WithSyntax(s SyntaxExtractor) ExtractorOption {
	return func(e *Extractor) { e.syntax = s }
}

// WithLogger overrides the diagnostic logger.
func WithLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// New creates an Extractor.
func New(opts ...ExtractorOption) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile produces the ParseResult for one file. It never fails: files
// in unsupported languages or that defeat both strategies yield an empty
// symbol list, logged diagnostically. Imports are always recognized with the
// line-oriented scanner so both strategies share one deterministic code path.
func (e *Extractor) ExtractFile(path string, content []byte) ParseResult {
	lang := LanguageForPath(path)
	result := ParseResult{Path: path, Language: lang}
	if lang == "" {
		return result
	}

	result.Imports = scanImports(lang, content)

	if e.syntax != nil {
		if records, ok := e.syntax.Parse(lang, content); ok {
			result.Symbols = bindFile(markExported(lang, records), path)
			return result
		}
		e.logger.Debug("syntax parse unavailable, using pattern fallback",
			slog.String("file", path),
			slog.String("language", lang),
		)
	}

	result.Symbols = bindFile(markExported(lang, matchPatterns(lang, content)), path)
	return result
}

// bindFile stamps the owning file onto extracted records.
func bindFile(records []Record, path string) []Record {
	for i := range records {
		records[i].File = path
	}
	return records
}

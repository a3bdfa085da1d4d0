// Package symbols extracts declared symbols and import statements from
// source files. A syntax-tree strategy is used when a parse capability is
// registered for the language; a line-oriented pattern fallback covers
// everything else. Extraction is best-effort and never fails.
package symbols

import (
	"path/filepath"
	"strings"
)

// Record is one declared symbol, produced once and never mutated.
type Record struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Signature string `json:"signature,omitempty"`
	Exported  bool   `json:"exported"`
	Line      int    `json:"line"`
}

const (
	KindFunction  = "function"
	KindMethod    = "method"
	KindClass     = "class"
	KindInterface = "interface"
	KindType      = "type"
	KindConstant  = "constant"
	KindVariable  = "variable"
)

// Import is one import-like statement recognized in a file. Spec keeps the
// module specifier as written, except that relative python imports are
// normalized to "./" and "../" prefixes so resolution is language-agnostic.
type Import struct {
	Spec  string   `json:"spec"`
	Names []string `json:"names,omitempty"` // named bindings; empty means whole module
	Line  int      `json:"line"`
}

// ParseResult is the per-file extraction output.
type ParseResult struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Symbols  []Record `json:"symbols"`
	Imports  []Import `json:"imports"`
}

// LanguageForPath detects the language tag from the file extension. Returns
// an empty string for unsupported extensions.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py", ".pyi":
		return "python"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript"
	default:
		return ""
	}
}

// SupportedExtensions lists the file extensions the extractor understands.
func SupportedExtensions() []string {
	return []string{
		".go",
		".py", ".pyi",
		".js", ".jsx", ".mjs", ".cjs",
		".ts", ".tsx", ".mts", ".cts",
	}
}

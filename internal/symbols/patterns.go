package symbols

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineMatcher tries to match one declaration form against a single line.
// Matchers are consulted in priority order; the first match wins the line.
// next carries the following line so multi-line signatures can be
// approximated when the current line ends in an opener.
type lineMatcher interface {
	match(line, next string, lineNo int) (Record, bool)
}

// regexMatcher recognizes a declaration by regular expression. The first
// capture group is the symbol name.
type regexMatcher struct {
	re      *regexp.Regexp
	kind    string
	withSig bool
}

func (m regexMatcher) match(line, next string, lineNo int) (Record, bool) {
	groups := m.re.FindStringSubmatch(line)
	if groups == nil {
		return Record{}, false
	}
	rec := Record{Name: groups[1], Kind: m.kind, Line: lineNo}
	if m.withSig {
		rec.Signature = approximateParams(line, next)
	}
	return rec, true
}

// pyDefMatcher distinguishes top-level functions from class members by
// indentation, which the regex form cannot express cleanly.
type pyDefMatcher struct{}

var pyDefRe = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

func (pyDefMatcher) match(line, next string, lineNo int) (Record, bool) {
	groups := pyDefRe.FindStringSubmatch(line)
	if groups == nil {
		return Record{}, false
	}
	kind := KindFunction
	if groups[1] != "" {
		kind = KindMethod
	}
	return Record{
		Name:      groups[2],
		Kind:      kind,
		Line:      lineNo,
		Signature: approximateParams(line, next),
	}, true
}

var goMatchers = []lineMatcher{
	regexMatcher{re: regexp.MustCompile(`^func\s+\([^)]+\)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`), kind: KindMethod, withSig: true},
	regexMatcher{re: regexp.MustCompile(`^func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`), kind: KindFunction, withSig: true},
	regexMatcher{re: regexp.MustCompile(`^type\s+([A-Za-z_][A-Za-z0-9_]*)\s+interface\b`), kind: KindInterface},
	regexMatcher{re: regexp.MustCompile(`^type\s+([A-Za-z_][A-Za-z0-9_]*)\b`), kind: KindType},
	regexMatcher{re: regexp.MustCompile(`^const\s+([A-Za-z_][A-Za-z0-9_]*)\b`), kind: KindConstant},
	regexMatcher{re: regexp.MustCompile(`^var\s+([A-Za-z_][A-Za-z0-9_]*)\b`), kind: KindVariable},
}

var pythonMatchers = []lineMatcher{
	regexMatcher{re: regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)\s*[(:]`), kind: KindClass},
	pyDefMatcher{},
	regexMatcher{re: regexp.MustCompile(`^([A-Z_][A-Z0-9_]+)\s*=`), kind: KindConstant},
}

// JavaScript and TypeScript carry explicit export modifiers, so the
// matchers only fire on exported declarations.
var javascriptMatchers = []lineMatcher{
	regexMatcher{re: regexp.MustCompile(`^export\s+(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`), kind: KindFunction, withSig: true},
	regexMatcher{re: regexp.MustCompile(`^export\s+(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindClass},
	regexMatcher{re: regexp.MustCompile(`^export\s+const\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?\(`), kind: KindFunction, withSig: true},
	regexMatcher{re: regexp.MustCompile(`^export\s+const\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindConstant},
	regexMatcher{re: regexp.MustCompile(`^export\s+(?:let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindVariable},
}

var typescriptMatchers = append([]lineMatcher{
	regexMatcher{re: regexp.MustCompile(`^export\s+interface\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindInterface},
	regexMatcher{re: regexp.MustCompile(`^export\s+type\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindType},
	regexMatcher{re: regexp.MustCompile(`^export\s+(?:const\s+)?enum\s+([A-Za-z_$][A-Za-z0-9_$]*)`), kind: KindType},
}, javascriptMatchers...)

var patternMatchers = map[string][]lineMatcher{
	"go":         goMatchers,
	"python":     pythonMatchers,
	"javascript": javascriptMatchers,
	"typescript": typescriptMatchers,
}

// matchPatterns is the pattern-based fallback strategy: one pass over the
// lines, first matcher wins, export filtering per language convention.
func matchPatterns(lang string, content []byte) []Record {
	matchers := patternMatchers[lang]
	if matchers == nil {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	var records []Record
	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		if line == "" {
			continue
		}
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}
		for _, m := range matchers {
			rec, ok := m.match(line, next, i+1)
			if !ok {
				continue
			}
			if keepSymbol(lang, rec) {
				records = append(records, rec)
			}
			break
		}
	}
	return records
}

// keepSymbol applies the per-language visibility convention and stamps the
// Exported flag. Languages with explicit export modifiers only reach here
// with exported symbols; Go exports by capitalization; Python hides
// leading-underscore members.
func keepSymbol(lang string, rec Record) bool {
	switch lang {
	case "go":
		return true
	case "python":
		return !strings.HasPrefix(rec.Name, "_")
	default:
		return true
	}
}

// markExported stamps the Exported flag per language convention.
func markExported(lang string, records []Record) []Record {
	for i := range records {
		switch lang {
		case "go":
			r, _ := utf8.DecodeRuneInString(records[i].Name)
			records[i].Exported = unicode.IsUpper(r)
		case "python":
			records[i].Exported = !strings.HasPrefix(records[i].Name, "_")
		default:
			records[i].Exported = true
		}
	}
	return records
}

// approximateParams extracts a best-effort parameter list from a
// declaration line. When the line ends in an opener the next line is
// consulted once. At most three parameters are shown, with an ellipsis
// beyond.
func approximateParams(line, next string) string {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return ""
	}
	body := line[open+1:]
	if close := matchingParen(body); close >= 0 {
		body = body[:close]
	} else if endsInOpener(line) {
		// Multi-line signature: approximate using the following line.
		if close := matchingParen(next); close >= 0 {
			body = strings.TrimSuffix(body, "(") + next[:close]
		} else {
			body = strings.TrimSuffix(body, "(") + next
		}
	}

	params := splitParams(body)
	if len(params) == 0 {
		return "()"
	}
	if len(params) > 3 {
		params = append(params[:3], "...")
	}
	return "(" + strings.Join(params, ", ") + ")"
}

// matchingParen returns the index of the parenthesis closing an already-open
// group at depth one, or -1.
func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func endsInOpener(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '(', ',', '{', '[':
		return true
	}
	return false
}

func splitParams(body string) []string {
	var params []string
	depth := 0
	start := 0
	flush := func(end int) {
		p := strings.TrimSpace(body[start:end])
		if p != "" {
			params = append(params, p)
		}
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(body))
	return params
}

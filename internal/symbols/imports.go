package symbols

import (
	"regexp"
	"strings"
)

// scanImports recognizes import-like statements per language convention.
// The scanner is line-oriented and shared by both extraction strategies so
// edge construction has a single deterministic code path.
func scanImports(lang string, content []byte) []Import {
	lines := strings.Split(string(content), "\n")
	switch lang {
	case "go":
		return scanGoImports(lines)
	case "python":
		return scanPythonImports(lines)
	case "javascript", "typescript":
		return scanJSImports(lines)
	default:
		return nil
	}
}

var (
	goImportSingleRe = regexp.MustCompile(`^import\s+(?:[A-Za-z_.][A-Za-z0-9_]*\s+)?"([^"]+)"`)
	goImportSpecRe   = regexp.MustCompile(`^(?:[A-Za-z_.][A-Za-z0-9_]*\s+)?"([^"]+)"`)
)

func scanGoImports(lines []string) []Import {
	var imports []Import
	inBlock := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if inBlock {
			if strings.HasPrefix(line, ")") {
				inBlock = false
				continue
			}
			if groups := goImportSpecRe.FindStringSubmatch(line); groups != nil {
				imports = append(imports, Import{Spec: groups[1], Line: i + 1})
			}
			continue
		}
		if line == "import (" || strings.HasPrefix(line, "import (") {
			inBlock = true
			continue
		}
		if groups := goImportSingleRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{Spec: groups[1], Line: i + 1})
		}
	}
	return imports
}

var (
	pyImportRe     = regexp.MustCompile(`^import\s+(.+)$`)
	pyFromImportRe = regexp.MustCompile(`^from\s+([.\w]+)\s+import\s+(.+)$`)
)

func scanPythonImports(lines []string) []Import {
	var imports []Import
	for i, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\\"))

		if groups := pyFromImportRe.FindStringSubmatch(line); groups != nil {
			module := groups[1]
			names := splitPythonNames(groups[2])
			rel, path := splitPythonModule(module)
			if path == "" {
				// "from . import x" style: each name is a sibling module.
				for _, name := range names {
					imports = append(imports, Import{Spec: rel + name, Line: i + 1})
				}
				continue
			}
			imports = append(imports, Import{Spec: rel + path, Names: names, Line: i + 1})
			continue
		}

		if groups := pyImportRe.FindStringSubmatch(line); groups != nil {
			for _, part := range strings.Split(groups[1], ",") {
				module := strings.TrimSpace(part)
				if idx := strings.Index(module, " as "); idx >= 0 {
					module = strings.TrimSpace(module[:idx])
				}
				if module == "" || strings.ContainsAny(module, "(\"'") {
					continue
				}
				imports = append(imports, Import{Spec: strings.ReplaceAll(module, ".", "/"), Line: i + 1})
			}
		}
	}
	return imports
}

// splitPythonModule normalizes "..pkg.mod" into a "../" prefix and a
// slash-separated path so resolution is language-agnostic.
func splitPythonModule(module string) (rel, path string) {
	dots := 0
	for dots < len(module) && module[dots] == '.' {
		dots++
	}
	path = strings.ReplaceAll(module[dots:], ".", "/")
	switch dots {
	case 0:
		return "", path
	case 1:
		return "./", path
	default:
		return strings.Repeat("../", dots-1), path
	}
}

func splitPythonNames(clause string) []string {
	clause = strings.TrimSpace(clause)
	clause = strings.Trim(clause, "()")
	if clause == "*" {
		return nil // star import: whole-module semantics
	}
	var names []string
	for _, part := range strings.Split(clause, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

var (
	jsImportFromRe    = regexp.MustCompile(`^import\s+(?:type\s+)?(.+?)\s+from\s+['"]([^'"]+)['"]`)
	jsImportBareRe    = regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`)
	jsExportFromRe    = regexp.MustCompile(`^export\s+(\*(?:\s+as\s+\w+)?|\{[^}]*\})\s+from\s+['"]([^'"]+)['"]`)
	jsRequireRe       = regexp.MustCompile(`(?:const|let|var)\s+(\{[^}]*\}|[A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsBareRequireRe   = regexp.MustCompile(`^require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynamicImportRe = regexp.MustCompile(`\bimport\(\s*['"]([^'"]+)['"]\s*\)`)
)

func scanJSImports(lines []string) []Import {
	var imports []Import
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if groups := jsImportFromRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{
				Spec:  groups[2],
				Names: parseImportClause(groups[1]),
				Line:  i + 1,
			})
			continue
		}
		if groups := jsExportFromRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{
				Spec:  groups[2],
				Names: parseImportClause(groups[1]),
				Line:  i + 1,
			})
			continue
		}
		if groups := jsImportBareRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{Spec: groups[1], Line: i + 1})
			continue
		}
		if groups := jsRequireRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{
				Spec:  groups[2],
				Names: parseImportClause(groups[1]),
				Line:  i + 1,
			})
			continue
		}
		if groups := jsBareRequireRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{Spec: groups[1], Line: i + 1})
			continue
		}
		if groups := jsDynamicImportRe.FindStringSubmatch(line); groups != nil {
			imports = append(imports, Import{Spec: groups[1], Line: i + 1})
		}
	}
	return imports
}

// parseImportClause extracts the referenced binding names from an import or
// export clause. Namespace and star forms mean whole-module, so they yield
// no names. For aliased bindings the source-module name is kept, since that
// is the export the edge refers to.
func parseImportClause(clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" || strings.HasPrefix(clause, "*") {
		return nil
	}

	var names []string
	braceStart := strings.IndexByte(clause, '{')

	// Default import before any named group refers to the module's
	// default export.
	head := clause
	if braceStart >= 0 {
		head = clause[:braceStart]
	}
	head = strings.TrimSuffix(strings.TrimSpace(head), ",")
	if head != "" && !strings.HasPrefix(head, "{") && !strings.HasPrefix(head, "*") {
		names = append(names, "default")
	}

	if braceStart >= 0 {
		inner := clause[braceStart+1:]
		if end := strings.IndexByte(inner, '}'); end >= 0 {
			inner = inner[:end]
		}
		for _, part := range strings.Split(inner, ",") {
			name := strings.TrimSpace(part)
			name = strings.TrimPrefix(name, "type ")
			if idx := strings.Index(name, " as "); idx >= 0 {
				name = strings.TrimSpace(name[:idx])
			}
			if idx := strings.Index(name, ":"); idx >= 0 { // destructuring rename
				name = strings.TrimSpace(name[:idx])
			}
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

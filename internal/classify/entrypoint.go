package classify

import (
	"strings"
)

// EntryPointCategory describes where external execution begins in a file.
type EntryPointCategory string

const (
	EntryRuntime EntryPointCategory = "runtime"
	EntryTooling EntryPointCategory = "tooling"
	EntryBarrel  EntryPointCategory = "barrel"
)

// Confidence grades how strong the content evidence is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// EntryPoint is the content-based classification of a single file.
type EntryPoint struct {
	File       string             `json:"file"`
	Category   EntryPointCategory `json:"category"`
	Confidence Confidence         `json:"confidence"`
	// RouteCount tallies route/handler registrations. Populated for
	// runtime entry points only; used for ranking within that category.
	RouteCount int `json:"route_count,omitempty"`
}

// entryRule matches one idiom in file content. Substring rules are the
// construction logic only; callers see the tagged category, never the
// substrings.
type entryRule struct {
	marker string
	weight int
	route  bool // counts toward the route/handler tally
}

var runtimeRules = map[string][]entryRule{
	"go": {
		{marker: "func main(", weight: 3},
		{marker: "http.HandleFunc(", weight: 2, route: true},
		{marker: "http.Handle(", weight: 2, route: true},
		{marker: ".ListenAndServe(", weight: 2},
		{marker: ".GET(", weight: 1, route: true},
		{marker: ".POST(", weight: 1, route: true},
		{marker: ".PUT(", weight: 1, route: true},
		{marker: ".DELETE(", weight: 1, route: true},
	},
	"python": {
		{marker: "if __name__ ==", weight: 3},
		{marker: "@app.route(", weight: 2, route: true},
		{marker: "@router.", weight: 2, route: true},
		{marker: "@app.get(", weight: 2, route: true},
		{marker: "@app.post(", weight: 2, route: true},
		{marker: "FastAPI(", weight: 2},
		{marker: "Flask(__name__", weight: 2},
		{marker: ".run(host", weight: 1},
	},
	"javascript": {
		{marker: "app.get(", weight: 2, route: true},
		{marker: "app.post(", weight: 2, route: true},
		{marker: "app.put(", weight: 2, route: true},
		{marker: "app.delete(", weight: 2, route: true},
		{marker: "app.use(", weight: 1, route: true},
		{marker: "router.get(", weight: 2, route: true},
		{marker: "router.post(", weight: 2, route: true},
		{marker: ".listen(", weight: 2},
		{marker: "createServer(", weight: 2},
		{marker: "express()", weight: 2},
	},
}

var toolingRules = map[string][]entryRule{
	"go": {
		{marker: "cobra.Command{", weight: 3},
		{marker: "flag.Parse()", weight: 2},
		{marker: "cli.App{", weight: 3},
	},
	"python": {
		{marker: "argparse.ArgumentParser", weight: 3},
		{marker: "@click.command", weight: 3},
		{marker: "add_argument(", weight: 1},
		{marker: "sys.argv", weight: 1},
	},
	"javascript": {
		{marker: "process.argv", weight: 2},
		{marker: "yargs(", weight: 3},
		{marker: "new Command(", weight: 3},
		{marker: "commander", weight: 2},
		{marker: "#!/usr/bin/env node", weight: 3},
	},
}

// ClassifyEntryPoint inspects file content against per-language rule tables.
// Stateless and content-only; the dependency graph is never consulted. The
// second return is false when the file shows no entry-point idiom at all.
func ClassifyEntryPoint(path, language string, content []byte) (EntryPoint, bool) {
	lang := normalizeRuleLanguage(language)
	text := string(content)

	if ep, ok := classifyBarrel(path, lang, text); ok {
		return ep, true
	}

	runtimeScore, routes := scoreRules(text, runtimeRules[lang])
	toolingScore, _ := scoreRules(text, toolingRules[lang])

	if runtimeScore == 0 && toolingScore == 0 {
		return EntryPoint{}, false
	}

	// Route registrations are a stronger runtime signal than CLI markers
	// are a tooling one; ties go to runtime.
	if runtimeScore >= toolingScore {
		return EntryPoint{
			File:       path,
			Category:   EntryRuntime,
			Confidence: gradeConfidence(runtimeScore),
			RouteCount: routes,
		}, true
	}
	return EntryPoint{
		File:       path,
		Category:   EntryTooling,
		Confidence: gradeConfidence(toolingScore),
	}, true
}

func scoreRules(text string, rules []entryRule) (score, routes int) {
	for _, rule := range rules {
		n := strings.Count(text, rule.marker)
		if n == 0 {
			continue
		}
		score += rule.weight * n
		if rule.route {
			routes += n
		}
	}
	return score, routes
}

func gradeConfidence(score int) Confidence {
	switch {
	case score >= 4:
		return ConfidenceHigh
	case score >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// classifyBarrel detects files whose primary content is re-exports. Only
// meaningful for languages with explicit re-export syntax.
func classifyBarrel(path, lang, text string) (EntryPoint, bool) {
	if lang != "javascript" && lang != "python" {
		return EntryPoint{}, false
	}

	reexports := 0
	significant := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		significant++
		switch lang {
		case "javascript":
			if strings.HasPrefix(trimmed, "export ") && strings.Contains(trimmed, " from ") {
				reexports++
			} else if strings.HasPrefix(trimmed, "export * from") {
				reexports++
			}
		case "python":
			if strings.HasPrefix(trimmed, "from .") && strings.Contains(trimmed, " import ") {
				reexports++
			}
		}
	}

	if reexports < 3 || significant == 0 || reexports*2 < significant {
		return EntryPoint{}, false
	}
	conf := ConfidenceMedium
	if reexports*4 >= significant*3 {
		conf = ConfidenceHigh
	}
	return EntryPoint{File: path, Category: EntryBarrel, Confidence: conf}, true
}

// normalizeRuleLanguage folds dialects into the rule-table keys. TypeScript
// shares the JavaScript idioms.
func normalizeRuleLanguage(language string) string {
	if language == "typescript" {
		return "javascript"
	}
	return language
}

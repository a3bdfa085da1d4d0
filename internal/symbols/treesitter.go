package symbols

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// treeQueries capture top-level and class-member declarations per language.
// Every pattern captures the declaration node as @def and its name as @name.
var treeQueries = map[string]string{
	"go": `
		(function_declaration name: (identifier) @name) @def
		(method_declaration name: (field_identifier) @name) @def
		(type_declaration (type_spec name: (type_identifier) @name)) @def
		(const_declaration (const_spec name: (identifier) @name)) @def
		(var_declaration (var_spec name: (identifier) @name)) @def
	`,
	"python": `
		(function_definition name: (identifier) @name) @def
		(class_definition name: (identifier) @name) @def
	`,
	"javascript": `
		(function_declaration name: (identifier) @name) @def
		(class_declaration name: (identifier) @name) @def
		(method_definition name: (property_identifier) @name) @def
		(variable_declarator name: (identifier) @name) @def
	`,
	"typescript": `
		(function_declaration name: (identifier) @name) @def
		(class_declaration name: (type_identifier) @name) @def
		(method_definition name: (property_identifier) @name) @def
		(interface_declaration name: (type_identifier) @name) @def
		(type_alias_declaration name: (type_identifier) @name) @def
		(enum_declaration name: (identifier) @name) @def
		(variable_declarator name: (identifier) @name) @def
	`,
}

// TreeSitterExtractor is the syntax-tree capability backed by the compiled
// tree-sitter grammars. Languages without a registered grammar report
// ok=false from Parse, which routes the caller onto the pattern fallback.
type TreeSitterExtractor struct {
	languages map[string]*tree_sitter.Language
	queries   map[string]*tree_sitter.Query
}

// NewTreeSitterExtractor compiles the declaration queries for the built-in
// grammars. A grammar whose query fails to compile is skipped rather than
// failing construction.
func NewTreeSitterExtractor() *TreeSitterExtractor {
	e := &TreeSitterExtractor{
		languages: make(map[string]*tree_sitter.Language),
		queries:   make(map[string]*tree_sitter.Query),
	}
	e.register("go", tree_sitter.NewLanguage(tree_sitter_go.Language()))
	e.register("python", tree_sitter.NewLanguage(tree_sitter_python.Language()))
	e.register("javascript", tree_sitter.NewLanguage(tree_sitter_javascript.Language()))
	e.register("typescript", tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
	return e
}

func (e *TreeSitterExtractor) register(name string, lang *tree_sitter.Language) {
	query, err := tree_sitter.NewQuery(lang, treeQueries[name])
	if err != nil || query == nil {
		return
	}
	e.languages[name] = lang
	e.queries[name] = query
}

// Parse implements SyntaxExtractor.
func (e *TreeSitterExtractor) Parse(language string, content []byte) ([]Record, bool) {
	lang := e.languages[language]
	query := e.queries[language]
	if lang == nil || query == nil {
		return nil, false
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, false
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	var records []Record
	for {
		m := matches.Next()
		if m == nil {
			break
		}

		var name string
		var def *tree_sitter.Node
		for _, c := range m.Captures {
			node := c.Node
			switch captureNames[c.Index] {
			case "name":
				name = string(content[node.StartByte():node.EndByte()])
			case "def":
				def = &node
			}
		}
		if name == "" || def == nil {
			continue
		}

		rec := Record{
			Name:      name,
			Kind:      kindForNode(language, def),
			Line:      int(def.StartPosition().Row) + 1,
			Signature: signatureFromNode(def, content),
		}
		if !keepTreeSymbol(language, def, rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, true
}

// kindForNode maps a grammar node type to a symbol kind.
func kindForNode(language string, def *tree_sitter.Node) string {
	switch def.Kind() {
	case "function_declaration", "generator_function_declaration":
		return KindFunction
	case "function_definition":
		if insideClass(def) {
			return KindMethod
		}
		return KindFunction
	case "method_declaration", "method_definition":
		return KindMethod
	case "class_declaration", "class_definition":
		return KindClass
	case "interface_declaration":
		return KindInterface
	case "type_declaration":
		if spec := def.NamedChild(0); spec != nil {
			if typ := spec.ChildByFieldName("type"); typ != nil && typ.Kind() == "interface_type" {
				return KindInterface
			}
		}
		return KindType
	case "type_alias_declaration", "enum_declaration":
		return KindType
	case "const_declaration":
		return KindConstant
	case "var_declaration":
		return KindVariable
	case "variable_declarator":
		if isConstDeclarator(def) {
			return KindConstant
		}
		return KindVariable
	default:
		return KindVariable
	}
}

// signatureFromNode approximates the parameter list from the declaration's
// parameters child. The same three-parameter cap as the pattern strategy
// applies so both strategies render identically.
func signatureFromNode(def *tree_sitter.Node, content []byte) string {
	params := def.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	text := string(content[params.StartByte():params.EndByte()])
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	parts := splitParams(text)
	if len(parts) == 0 {
		return "()"
	}
	if len(parts) > 3 {
		parts = append(parts[:3], "...")
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// keepTreeSymbol applies the per-language visibility convention on tree
// matches: explicit-export languages keep exported declarations only,
// python hides leading-underscore members, go keeps everything.
func keepTreeSymbol(language string, def *tree_sitter.Node, rec Record) bool {
	switch language {
	case "javascript", "typescript":
		return underExport(def)
	case "python":
		return !strings.HasPrefix(rec.Name, "_")
	default:
		return true
	}
}

// underExport reports whether any ancestor is an export statement. A method
// of an exported class counts as exported.
func underExport(node *tree_sitter.Node) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Kind() == "export_statement" {
			return true
		}
	}
	return false
}

func insideClass(node *tree_sitter.Node) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch n.Kind() {
		case "class_definition", "class_declaration", "class_body":
			return true
		case "module", "program", "source_file":
			return false
		}
	}
	return false
}

// isConstDeclarator reports whether a JS/TS variable_declarator sits in a
// const lexical declaration.
func isConstDeclarator(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "lexical_declaration" {
		return false
	}
	if child := parent.Child(0); child != nil {
		return child.Kind() == "const"
	}
	return false
}

// # internal/analyzer/parser.go
package analyzer

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Dialect identifies the grammar used for a file.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

var (
	jsLanguage  = sitter.NewLanguage(tree_sitter_javascript.Language())
	tsLanguage  = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	tsxLanguage = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
)

// DetectDialect maps a filename onto the grammar that parses it. The
// javascript grammar is JSX-capable, so .jsx shares it.
func DetectDialect(filename string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript, true
	case ".ts", ".mts", ".cts":
		return DialectTypeScript, true
	case ".tsx":
		return DialectTSX, true
	}
	return "", false
}

// IsSupportedPath reports whether the analyzer has a grammar for the file.
func IsSupportedPath(filename string) bool {
	_, ok := DetectDialect(filename)
	return ok
}

func languageFor(d Dialect) *sitter.Language {
	switch d {
	case DialectTypeScript:
		return tsLanguage
	case DialectTSX:
		return tsxLanguage
	default:
		return jsLanguage
	}
}

// parseSource runs the tree-sitter front end. The grammars are
// error-recovering, so a partially broken file still yields a usable tree;
// only a nil tree or an input that parses to a bare ERROR node counts as a
// parse failure.
func parseSource(source []byte, dialect Dialect) (*sitter.Tree, string) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(languageFor(dialect)); err != nil {
		return nil, "grammar unavailable: " + err.Error()
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, "parse failed"
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, "parse produced no syntax tree"
	}
	if root.IsError() {
		tree.Close()
		return nil, "unrecoverable syntax error"
	}
	return tree, ""
}

// nodeText returns the trimmed source slice spanned by a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}

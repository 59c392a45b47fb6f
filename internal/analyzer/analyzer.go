// # internal/analyzer/analyzer.go
package analyzer

import (
	"sort"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Analyze parses source and derives its structural profile in a single
// depth-first pass. It never fails outward: a parse failure degrades to an
// error record carrying the failure message.
func Analyze(source []byte, filename string) *FileReport {
	start := time.Now()
	report := &FileReport{
		Filename:  filename,
		LineCount: countLines(source),
	}

	dialect, ok := DetectDialect(filename)
	if !ok {
		dialect = DialectJavaScript
	}

	tree, parseErr := parseSource(source, dialect)
	if parseErr != "" {
		report.Error = parseErr
		report.Duration = time.Since(start)
		return report
	}
	defer tree.Close()

	fa := newFileAnalysis(source, report)
	fa.walk(tree.RootNode(), 0)
	fa.finalize()

	report.Duration = time.Since(start)
	return report
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	return strings.Count(string(source), "\n") + 1
}

var effectHooks = map[string]bool{
	"useEffect":   true,
	"useCallback": true,
	"useMemo":     true,
}

// functionValueKinds are initializer node kinds that make a variable
// declarator function-like. Older javascript grammars used "function" where
// newer ones use "function_expression"; both are accepted.
var functionValueKinds = map[string]bool{
	"arrow_function":      true,
	"function_expression": true,
	"function":            true,
	"generator_function":  true,
}

type edgeKey struct {
	from string
	to   string
}

// fileAnalysis threads every accumulator through the traversal explicitly;
// there is no shared mutable state outside this value.
type fileAnalysis struct {
	source []byte
	report *FileReport
	scope  *scopeTracker

	functions  map[string]bool
	variables  map[string]bool
	handlers   map[string]bool
	components map[string]bool
	hooks      map[string]bool

	declKinds map[string]string // declared name -> kind, last write wins
	setters   map[string]string // setter name -> state name
	edges     map[edgeKey]*DependencyEdge
}

func newFileAnalysis(source []byte, report *FileReport) *fileAnalysis {
	report.Complexity.Cyclomatic = 1
	return &fileAnalysis{
		source:     source,
		report:     report,
		scope:      newScopeTracker(),
		functions:  make(map[string]bool),
		variables:  make(map[string]bool),
		handlers:   make(map[string]bool),
		components: make(map[string]bool),
		hooks:      make(map[string]bool),
		declKinds:  make(map[string]string),
		setters:    make(map[string]string),
		edges:      make(map[edgeKey]*DependencyEdge),
	}
}

// walk visits node and all of its children in pre-order. depth is used only
// to update MaxDepth.
func (fa *fileAnalysis) walk(node *sitter.Node, depth int) {
	if node == nil {
		return
	}
	if depth > fa.report.Complexity.MaxDepth {
		fa.report.Complexity.MaxDepth = depth
	}

	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if name := nodeText(node.ChildByFieldName("name"), fa.source); name != "" {
			fa.registerFunction(name)
			fa.walkChildrenInScope(node, depth, name)
			return
		}

	case "variable_declarator":
		if fa.handleDeclarator(node, depth) {
			return
		}

	case "call_expression":
		fa.handleCall(node)

	case "jsx_opening_element", "jsx_self_closing_element":
		fa.handleJSXTag(node)

	case "jsx_attribute":
		fa.handleJSXAttribute(node)

	case "import_statement":
		fa.handleImport(node)

	case "export_statement":
		fa.handleExport(node)

	case "if_statement", "ternary_expression", "switch_case", "catch_clause":
		fa.report.Complexity.BranchCount++
		fa.report.Complexity.Cyclomatic++

	case "for_statement", "while_statement", "do_statement", "for_in_statement":
		fa.report.Complexity.LoopCount++
		fa.report.Complexity.Cyclomatic++

	case "binary_expression":
		switch nodeText(node.ChildByFieldName("operator"), fa.source) {
		case "&&", "||":
			fa.report.Complexity.Cyclomatic++
		}
	}

	fa.walkChildren(node, depth)
}

func (fa *fileAnalysis) walkChildren(node *sitter.Node, depth int) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		fa.walk(node.Child(i), depth+1)
	}
}

func (fa *fileAnalysis) walkChildrenInScope(node *sitter.Node, depth int, scope string) {
	prev := fa.scope.Enter(scope)
	fa.walkChildren(node, depth)
	fa.scope.Leave(prev)
}

// registerFunction records a function-like declaration under the naming
// convention. Re-declared names stay a single set entry but still count
// toward WMC.
func (fa *fileAnalysis) registerFunction(name string) {
	fa.functions[name] = true
	fa.report.Metrics.WeightedMethods++

	kind := classifyDeclaration(name)
	fa.declKinds[name] = kind
	switch kind {
	case KindComponent:
		fa.components[name] = true
	case KindHandler:
		fa.handlers[name] = true
	}
}

// handleDeclarator covers the three variable_declarator shapes the engine
// cares about: function-valued bindings, useState destructuring, and plain
// variables. Returns true when it walked the children itself.
func (fa *fileAnalysis) handleDeclarator(node *sitter.Node, depth int) bool {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil {
		return false
	}

	switch nameNode.Kind() {
	case "identifier":
		name := nodeText(nameNode, fa.source)
		if name == "" {
			return false
		}
		if valueNode != nil && functionValueKinds[valueNode.Kind()] {
			fa.registerFunction(name)
			fa.walkChildrenInScope(node, depth, name)
			return true
		}
		fa.variables[name] = true

	case "array_pattern":
		fa.handleStateDeclarator(nameNode, valueNode)
	}
	return false
}

// handleStateDeclarator matches `const [x, setX] = useState(init)` exactly:
// a two-element array destructuring initialized by a call literally named
// useState.
func (fa *fileAnalysis) handleStateDeclarator(pattern, valueNode *sitter.Node) {
	if valueNode == nil || valueNode.Kind() != "call_expression" {
		return
	}
	callee := valueNode.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" || nodeText(callee, fa.source) != "useState" {
		return
	}

	var names []string
	count := pattern.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := pattern.NamedChild(i)
		if child != nil && child.Kind() == "identifier" {
			names = append(names, nodeText(child, fa.source))
		}
	}
	if len(names) != 2 {
		return
	}

	initial := "undefined"
	if args := valueNode.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
		if text := nodeText(args.NamedChild(0), fa.source); text != "" {
			initial = text
		}
	}

	fa.report.State.States = append(fa.report.State.States, StateUnit{
		Name:      names[0],
		Setter:    names[1],
		Initial:   initial,
		Component: fa.scope.Current(),
	})
	fa.setters[names[1]] = names[0]
}

/// handleCall fires every matching call-expression rule: hook registration,
// effect extraction, setter transitions, eval detection, dependency edges.
func (fa *fileAnalysis) handleCall(node *sitter.Node) {
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" {
		return
	}
	name := nodeText(callee, fa.source)
	if name == "" {
		return
	}

	if name == "eval" {
		fa.report.Issues = append(fa.report.Issues, Issue{
			Kind:     IssueKindSecurity,
			Message:  "use of eval()",
			Severity: SeverityHigh,
		})
	}

	if isHookName(name) {
		fa.hooks[name] = true
		if effectHooks[name] {
			fa.report.State.Effects = append(fa.report.State.Effects, EffectUnit{
				Component:    fa.scope.Current(),
				Dependencies: fa.effectDependencies(node),
				Kind:         name,
			})
		}
	}

	if state, ok := fa.setters[name]; ok {
		fa.report.State.Transitions = append(fa.report.State.Transitions, StateTransition{
			State:     state,
			Setter:    name,
			Component: fa.scope.Current(),
		})
	}

	if hostBuiltins[name] || isHookName(name) || isSetterName(name) {
		return
	}
	if name == fa.scope.Current() {
		return
	}
	fa.addEdge(fa.scope.Current(), name)
}

// effectDependencies returns the identifier names inside the second
// argument's array literal. Non-identifier entries are dropped silently.
func (fa *fileAnalysis) effectDependencies(call *sitter.Node) []string {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() < 2 {
		return nil
	}
	dep := args.NamedChild(1)
	if dep == nil || dep.Kind() != "array" {
		return nil
	}

	var names []string
	count := dep.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := dep.NamedChild(i)
		if child != nil && child.Kind() == "identifier" {
			if text := nodeText(child, fa.source); text != "" {
				names = append(names, text)
			}
		}
	}
	return names
}

// handleJSXTag treats a capitalized tag as a component reference, sharing the
// call-edge accumulation structure.
func (fa *fileAnalysis) handleJSXTag(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return
	}
	name := nodeText(nameNode, fa.source)
	if name == "" || !isCapitalized(name) {
		return
	}
	if name == fa.scope.Current() {
		return
	}
	fa.addEdge(fa.scope.Current(), name)
}

func (fa *fileAnalysis) handleJSXAttribute(node *sitter.Node) {
	attr := node.Child(0)
	if attr == nil || attr.Kind() != "property_identifier" {
		return
	}
	if nodeText(attr, fa.source) != "dangerouslySetInnerHTML" {
		return
	}
	fa.report.Issues = append(fa.report.Issues, Issue{
		Kind:     IssueKindSecurity,
		Message:  "use of dangerouslySetInnerHTML",
		Severity: SeverityHigh,
	})
}

func (fa *fileAnalysis) handleImport(node *sitter.Node) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	module := strings.Trim(nodeText(sourceNode, fa.source), `"'`)

	var names []string
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "import_clause" {
			names = append(names, fa.importClauseNames(child)...)
		}
	}

	fa.report.Imports = append(fa.report.Imports, ImportEdge{Source: module, Names: names})
	fa.report.Metrics.Coupling++
}

// importClauseNames collects the local bound names of default, namespace and
// named imports.
func (fa *fileAnalysis) importClauseNames(clause *sitter.Node) []string {
	var names []string
	count := clause.ChildCount()
	for i := uint(0); i < count; i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, fa.source))
		case "namespace_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				inner := child.Child(j)
				if inner != nil && inner.Kind() == "identifier" {
					names = append(names, nodeText(inner, fa.source))
				}
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				// The local binding is the alias when present.
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					names = append(names, nodeText(alias, fa.source))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, nodeText(name, fa.source))
				}
			}
		}
	}
	return names
}

func (fa *fileAnalysis) handleExport(node *sitter.Node) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		fa.exportDeclarationNames(decl)
	}
	if value := node.ChildByFieldName("value"); value != nil && value.Kind() == "identifier" {
		fa.appendExport(nodeText(value, fa.source))
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "export_clause" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			spec := child.NamedChild(j)
			if spec == nil || spec.Kind() != "export_specifier" {
				continue
			}
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				fa.appendExport(nodeText(alias, fa.source))
			} else if name := spec.ChildByFieldName("name"); name != nil {
				fa.appendExport(nodeText(name, fa.source))
			}
		}
	}
}

func (fa *fileAnalysis) exportDeclarationNames(decl *sitter.Node) {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		fa.appendExport(nodeText(decl.ChildByFieldName("name"), fa.source))
	case "lexical_declaration", "variable_declaration":
		count := decl.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := decl.NamedChild(i)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				fa.appendExport(nodeText(name, fa.source))
			}
		}
	}
}

func (fa *fileAnalysis) appendExport(name string) {
	if name == "" {
		return
	}
	fa.report.Exports = append(fa.report.Exports, name)
}

func (fa *fileAnalysis) addEdge(from, to string) {
	key := edgeKey{from: from, to: to}
	if edge, ok := fa.edges[key]; ok {
		edge.Calls++
		return
	}
	fa.edges[key] = &DependencyEdge{From: from, To: to, Calls: 1}
}

// finalize de-duplicates the name collections, discards edges whose target is
// neither locally declared nor capitalized, and synthesizes the metrics.
func (fa *fileAnalysis) finalize() {
	r := fa.report
	r.Functions = sortedNames(fa.functions)
	r.Variables = sortedNames(fa.variables)
	r.Handlers = sortedNames(fa.handlers)
	r.Components = sortedNames(fa.components)
	r.Hooks = sortedNames(fa.hooks)

	for _, name := range r.Functions {
		r.Dependencies.Functions = append(r.Dependencies.Functions, FunctionNode{
			Name: name,
			Kind: fa.declKinds[name],
		})
	}

	for key, edge := range fa.edges {
		if !fa.functions[key.to] && !isCapitalized(key.to) {
			continue
		}
		edge.FromKind = fa.kindOf(key.from)
		edge.ToKind = fa.kindOf(key.to)
		r.Dependencies.Edges = append(r.Dependencies.Edges, *edge)
	}
	sort.Slice(r.Dependencies.Edges, func(i, j int) bool {
		a, b := r.Dependencies.Edges[i], r.Dependencies.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	r.Metrics.Cyclomatic = r.Complexity.Cyclomatic
	r.Metrics.Maintainability = MaintainabilityIndex(r.LineCount, r.Complexity.Cyclomatic)
	r.QualityScore = QualityScore(r)
}

// kindOf resolves a graph node kind: declared kind when known, component for
// capitalized external references, helper otherwise.
func (fa *fileAnalysis) kindOf(name string) string {
	if kind, ok := fa.declKinds[name]; ok {
		return kind
	}
	if isCapitalized(name) {
		return KindComponent
	}
	return KindHelper
}

func sortedNames(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

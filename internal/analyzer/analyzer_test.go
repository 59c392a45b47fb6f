// # internal/analyzer/analyzer_test.go
package analyzer

import (
	"reflect"
	"testing"
)

func TestAnalyzeComplexityCounters(t *testing.T) {
	source := []byte(`
function main(a, b) {
  if (a && b) {
    return 1;
  }
  for (let i = 0; i < 2; i++) {
    b = a ? 1 : 2;
  }
  return 0;
}
`)
	report := Analyze(source, "main.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	// base 1 + if + && + for + ternary
	if report.Complexity.Cyclomatic != 5 {
		t.Errorf("Expected cyclomatic 5, got %d", report.Complexity.Cyclomatic)
	}
	if report.Complexity.BranchCount != 2 {
		t.Errorf("Expected 2 branches, got %d", report.Complexity.BranchCount)
	}
	if report.Complexity.LoopCount != 1 {
		t.Errorf("Expected 1 loop, got %d", report.Complexity.LoopCount)
	}
	if report.Metrics.Cyclomatic != report.Complexity.Cyclomatic {
		t.Errorf("Metrics.Cyclomatic diverged: %d vs %d", report.Metrics.Cyclomatic, report.Complexity.Cyclomatic)
	}
}

func TestAnalyzeSwitchAndLoops(t *testing.T) {
	source := []byte(`
function pick(x) {
  switch (x) {
    case 1: return "a";
    case 2: return "b";
    default: return "c";
  }
}
function churn(f) {
  try { f(); } catch (e) { return null; }
  while (false) {}
  do {} while (false);
  for (const k in {}) {}
}
`)
	report := Analyze(source, "pick.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	// base 1 + 2 cases (default excluded) + catch + while + do + for-in
	if report.Complexity.Cyclomatic != 7 {
		t.Errorf("Expected cyclomatic 7, got %d", report.Complexity.Cyclomatic)
	}
	if report.Complexity.LoopCount != 3 {
		t.Errorf("Expected 3 loops, got %d", report.Complexity.LoopCount)
	}
}

func TestAnalyzeClassification(t *testing.T) {
	source := []byte(`
function Button() { return null; }
function HandleStuff() { return null; }
function handleClick() {}
function onSubmit() {}
const format = (x) => x;
const theme = "dark";
`)
	report := Analyze(source, "classify.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	wantFunctions := []string{"Button", "HandleStuff", "format", "handleClick", "onSubmit"}
	if !reflect.DeepEqual(report.Functions, wantFunctions) {
		t.Errorf("Unexpected functions: %v", report.Functions)
	}
	// Capitalized names classify as components even when handler-shaped.
	wantComponents := []string{"Button", "HandleStuff"}
	if !reflect.DeepEqual(report.Components, wantComponents) {
		t.Errorf("Unexpected components: %v", report.Components)
	}
	wantHandlers := []string{"handleClick", "onSubmit"}
	if !reflect.DeepEqual(report.Handlers, wantHandlers) {
		t.Errorf("Unexpected handlers: %v", report.Handlers)
	}
	if !reflect.DeepEqual(report.Variables, []string{"theme"}) {
		t.Errorf("Unexpected variables: %v", report.Variables)
	}
	if report.Metrics.WeightedMethods != 5 {
		t.Errorf("Expected WMC 5, got %d", report.Metrics.WeightedMethods)
	}
}

func TestAnalyzeComponentProfile(t *testing.T) {
	source := []byte(`
import React, { useState, useEffect } from 'react';

const Button = () => {
  const [count, setCount] = useState(0);
  useEffect(() => { console.log(count); }, [count]);
  const handleClick = () => { setCount(count + 1); };
  return <button onClick={handleClick}>Go</button>;
};

export default Button;
`)
	report := Analyze(source, "button.jsx")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	if !reflect.DeepEqual(report.Components, []string{"Button"}) {
		t.Errorf("Unexpected components: %v", report.Components)
	}
	if !reflect.DeepEqual(report.Handlers, []string{"handleClick"}) {
		t.Errorf("Unexpected handlers: %v", report.Handlers)
	}
	if !reflect.DeepEqual(report.Hooks, []string{"useEffect", "useState"}) {
		t.Errorf("Unexpected hooks: %v", report.Hooks)
	}

	if len(report.Imports) != 1 {
		t.Fatalf("Expected 1 import edge, got %d", len(report.Imports))
	}
	imp := report.Imports[0]
	if imp.Source != "react" {
		t.Errorf("Expected import source react, got %s", imp.Source)
	}
	if !reflect.DeepEqual(imp.Names, []string{"React", "useState", "useEffect"}) {
		t.Errorf("Unexpected import names: %v", imp.Names)
	}
	if report.Metrics.Coupling != 1 {
		t.Errorf("Expected coupling 1, got %d", report.Metrics.Coupling)
	}
	if !reflect.DeepEqual(report.Exports, []string{"Button"}) {
		t.Errorf("Unexpected exports: %v", report.Exports)
	}

	if len(report.State.States) != 1 {
		t.Fatalf("Expected 1 state unit, got %d", len(report.State.States))
	}
	state := report.State.States[0]
	if state.Name != "count" || state.Setter != "setCount" || state.Initial != "0" || state.Component != "Button" {
		t.Errorf("Unexpected state unit: %+v", state)
	}

	if len(report.State.Transitions) != 1 {
		t.Fatalf("Expected 1 transition, got %d", len(report.State.Transitions))
	}
	tr := report.State.Transitions[0]
	if tr.State != "count" || tr.Setter != "setCount" || tr.Component != "handleClick" {
		t.Errorf("Unexpected transition: %+v", tr)
	}

	if len(report.State.Effects) != 1 {
		t.Fatalf("Expected 1 effect, got %d", len(report.State.Effects))
	}
	effect := report.State.Effects[0]
	if effect.Component != "Button" || effect.Kind != "useEffect" {
		t.Errorf("Unexpected effect: %+v", effect)
	}
	if !reflect.DeepEqual(effect.Dependencies, []string{"count"}) {
		t.Errorf("Unexpected effect dependencies: %v", effect.Dependencies)
	}

	if len(report.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", report.Issues)
	}
	if len(report.Dependencies.Edges) != 0 {
		t.Errorf("Expected no edges, got %v", report.Dependencies.Edges)
	}
}

func TestAnalyzeButtonScenario(t *testing.T) {
	source := []byte(`function Button(){ const [x,setX]=useState(0); useEffect(()=>{},[x]); return handleClick(); } function handleClick(){}`)

	report := Analyze(source, "button.jsx")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	if !reflect.DeepEqual(report.Functions, []string{"Button", "handleClick"}) {
		t.Errorf("Unexpected functions: %v", report.Functions)
	}
	if !reflect.DeepEqual(report.Components, []string{"Button"}) {
		t.Errorf("Unexpected components: %v", report.Components)
	}
	if !reflect.DeepEqual(report.Handlers, []string{"handleClick"}) {
		t.Errorf("Unexpected handlers: %v", report.Handlers)
	}

	if len(report.State.States) != 1 {
		t.Fatalf("Expected 1 state unit, got %v", report.State.States)
	}
	state := report.State.States[0]
	if state.Name != "x" || state.Setter != "setX" || state.Initial != "0" || state.Component != "Button" {
		t.Errorf("Unexpected state unit: %+v", state)
	}

	if len(report.State.Effects) != 1 {
		t.Fatalf("Expected 1 effect, got %v", report.State.Effects)
	}
	if !reflect.DeepEqual(report.State.Effects[0].Dependencies, []string{"x"}) {
		t.Errorf("Unexpected effect dependencies: %v", report.State.Effects[0].Dependencies)
	}

	if len(report.Dependencies.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %v", report.Dependencies.Edges)
	}
	edge := report.Dependencies.Edges[0]
	if edge.From != "Button" || edge.To != "handleClick" || edge.Calls != 1 {
		t.Errorf("Unexpected edge: %+v", edge)
	}
}

func TestAnalyzeRedeclaredName(t *testing.T) {
	source := []byte(`
function dup() {}
function dup() {}
`)
	report := Analyze(source, "dup.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}
	if !reflect.DeepEqual(report.Functions, []string{"dup"}) {
		t.Errorf("Expected single set entry, got %v", report.Functions)
	}
	if report.Metrics.WeightedMethods != 2 {
		t.Errorf("Expected WMC 2 for redeclared name, got %d", report.Metrics.WeightedMethods)
	}
}

func TestAnalyzeDependencyEdges(t *testing.T) {
	source := []byte(`
function helper() { return 1; }
function main() {
  helper();
  helper();
  format();
}
`)
	report := Analyze(source, "deps.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	if len(report.Dependencies.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %v", report.Dependencies.Edges)
	}
	edge := report.Dependencies.Edges[0]
	if edge.From != "main" || edge.To != "helper" {
		t.Errorf("Unexpected edge endpoints: %+v", edge)
	}
	if edge.Calls != 2 {
		t.Errorf("Expected 2 calls on deduplicated edge, got %d", edge.Calls)
	}
	if edge.FromKind != KindHelper || edge.ToKind != KindHelper {
		t.Errorf("Unexpected edge kinds: %+v", edge)
	}

	wantNodes := []FunctionNode{
		{Name: "helper", Kind: KindHelper},
		{Name: "main", Kind: KindHelper},
	}
	if !reflect.DeepEqual(report.Dependencies.Functions, wantNodes) {
		t.Errorf("Unexpected function nodes: %v", report.Dependencies.Functions)
	}
}

func TestAnalyzeCapitalizedExternalTarget(t *testing.T) {
	source := []byte(`
function App() {
  return <Layout title="x" />;
}
`)
	report := Analyze(source, "app.jsx")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	// Layout is undeclared but capitalized, so the edge survives.
	if len(report.Dependencies.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %v", report.Dependencies.Edges)
	}
	edge := report.Dependencies.Edges[0]
	if edge.From != "App" || edge.To != "Layout" {
		t.Errorf("Unexpected edge: %+v", edge)
	}
	if edge.ToKind != KindComponent {
		t.Errorf("Expected undeclared capitalized target classified as component, got %s", edge.ToKind)
	}
}

func TestAnalyzeBuiltinsNeverBecomeEdges(t *testing.T) {
	source := []byte(`
function init() {
  alert("hi");
  setTimeout(init, 10);
  fetch("/api");
  require("fs");
}
`)
	report := Analyze(source, "init.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}
	if len(report.Dependencies.Edges) != 0 {
		t.Errorf("Expected no edges for host builtins, got %v", report.Dependencies.Edges)
	}
	if len(report.Hooks) != 0 {
		t.Errorf("Expected no hooks, got %v", report.Hooks)
	}
}

func TestAnalyzeTopLevelScopeIsUnknown(t *testing.T) {
	source := []byte(`
function helper() { return 1; }
helper();
`)
	report := Analyze(source, "top.js")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}
	if len(report.Dependencies.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %v", report.Dependencies.Edges)
	}
	if report.Dependencies.Edges[0].From != ScopeUnknown {
		t.Errorf("Expected top-level caller %q, got %q", ScopeUnknown, report.Dependencies.Edges[0].From)
	}
}

func TestAnalyzeSecurityIssues(t *testing.T) {
	source := []byte(`
function App({ html }) {
  eval("x");
  return <div dangerouslySetInnerHTML={{ __html: html }} />;
}
`)
	report := Analyze(source, "app.jsx")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}

	if len(report.Issues) != 2 {
		t.Fatalf("Expected 2 issues, got %v", report.Issues)
	}
	for _, issue := range report.Issues {
		if issue.Kind != IssueKindSecurity {
			t.Errorf("Expected security issue kind, got %s", issue.Kind)
		}
		if issue.Severity != SeverityHigh {
			t.Errorf("Expected high severity, got %s", issue.Severity)
		}
	}
}

func TestAnalyzeTypeScriptDialect(t *testing.T) {
	source := []byte(`
export function formatLabel(value: number): string {
  return value > 3 ? "big" : "small";
}
`)
	report := Analyze(source, "label.ts")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}
	if !reflect.DeepEqual(report.Functions, []string{"formatLabel"}) {
		t.Errorf("Unexpected functions: %v", report.Functions)
	}
	if !reflect.DeepEqual(report.Exports, []string{"formatLabel"}) {
		t.Errorf("Unexpected exports: %v", report.Exports)
	}
	if report.Complexity.Cyclomatic != 2 {
		t.Errorf("Expected cyclomatic 2, got %d", report.Complexity.Cyclomatic)
	}
}

func TestAnalyzeTSXDialect(t *testing.T) {
	source := []byte(`
type Props = { label: string };

export const Badge = ({ label }: Props) => <span>{label}</span>;
`)
	report := Analyze(source, "badge.tsx")
	if report.Failed() {
		t.Fatalf("Unexpected parse failure: %s", report.Error)
	}
	if !reflect.DeepEqual(report.Components, []string{"Badge"}) {
		t.Errorf("Unexpected components: %v", report.Components)
	}
	if !reflect.DeepEqual(report.Exports, []string{"Badge"}) {
		t.Errorf("Unexpected exports: %v", report.Exports)
	}
}

func TestAnalyzeLineCount(t *testing.T) {
	report := Analyze([]byte("const a = 1;\nconst b = 2;\nconst c = 3;"), "lines.js")
	if report.LineCount != 3 {
		t.Errorf("Expected 3 lines, got %d", report.LineCount)
	}

	empty := Analyze(nil, "empty.js")
	if empty.LineCount != 0 {
		t.Errorf("Expected 0 lines for empty input, got %d", empty.LineCount)
	}
	if empty.Complexity.Cyclomatic != 1 {
		t.Errorf("Expected baseline cyclomatic 1, got %d", empty.Complexity.Cyclomatic)
	}
}

func TestDetectDialect(t *testing.T) {
	cases := map[string]Dialect{
		"a.js":  DialectJavaScript,
		"a.jsx": DialectJavaScript,
		"a.mjs": DialectJavaScript,
		"a.cjs": DialectJavaScript,
		"a.ts":  DialectTypeScript,
		"a.mts": DialectTypeScript,
		"a.tsx": DialectTSX,
	}
	for filename, want := range cases {
		got, ok := DetectDialect(filename)
		if !ok || got != want {
			t.Errorf("DetectDialect(%s) = %s, %v; want %s", filename, got, ok, want)
		}
	}
	if IsSupportedPath("style.css") {
		t.Error("Expected css to be unsupported")
	}
}

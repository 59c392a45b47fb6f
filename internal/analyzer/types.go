// # internal/analyzer/types.go
package analyzer

import (
	"time"
)

// FileReport is the complete structural profile of one source file. A report
// is either a success record (all analytical fields populated) or an error
// record (Filename, LineCount, Error and Duration only), never both.
type FileReport struct {
	Filename  string
	LineCount int

	Functions  []string
	Variables  []string
	Handlers   []string
	Components []string
	Hooks      []string

	Imports []ImportEdge
	Exports []string

	Complexity ComplexityCounters
	Issues     []Issue
	Metrics    Metrics

	State        StateModel
	Dependencies DependencyGraph

	QualityScore int
	Duration     time.Duration

	// Error is the parse failure message. Non-empty only on error records.
	Error string
}

// Failed reports whether this is an error record.
func (r *FileReport) Failed() bool { return r.Error != "" }

type ImportEdge struct {
	Source string
	Names  []string
}

type ComplexityCounters struct {
	MaxDepth    int
	BranchCount int
	LoopCount   int
	Cyclomatic  int
}

type Issue struct {
	Kind     string
	Message  string
	Severity string
}

const (
	IssueKindSecurity = "security"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Metrics are the synthesized per-file quality metrics.
type Metrics struct {
	Cyclomatic      int
	Coupling        int // import statement count (CBO proxy)
	WeightedMethods int // function-like declaration count (WMC proxy)
	Maintainability int
}

type StateModel struct {
	States      []StateUnit
	Transitions []StateTransition
	Effects     []EffectUnit
}

// StateUnit is one `const [x, setX] = useState(init)` declaration.
type StateUnit struct {
	Name      string
	Setter    string
	Initial   string // rendered initializer text, "undefined" when absent
	Component string
}

// StateTransition is one call site of a previously registered setter.
type StateTransition struct {
	State     string
	Setter    string
	Component string
}

// EffectUnit is one useEffect/useCallback/useMemo call with the identifier
// names found in its dependency array.
type EffectUnit struct {
	Component    string
	Dependencies []string
	Kind         string
}

// DeclKind values for declared functions.
const (
	KindComponent = "component"
	KindHandler   = "handler"
	KindHelper    = "helper"
)

type FunctionNode struct {
	Name string
	Kind string
}

// DependencyEdge records that From calls or renders To.
type DependencyEdge struct {
	From     string
	To       string
	Calls    int
	FromKind string
	ToKind   string
}

type DependencyGraph struct {
	Functions []FunctionNode
	Edges     []DependencyEdge
}

// ScopeUnknown is the sentinel scope for top-level statements.
const ScopeUnknown = "Unknown"

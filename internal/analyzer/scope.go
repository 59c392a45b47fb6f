// # internal/analyzer/scope.go
package analyzer

// scopeTracker keeps the name of the enclosing function-like declaration so
// call sites and JSX usages can be attributed to it. Enter/Leave follow a
// strict push/pop discipline; depth is bounded by function nesting.
type scopeTracker struct {
	current string
}

func newScopeTracker() *scopeTracker {
	return &scopeTracker{current: ScopeUnknown}
}

// Enter makes name the current scope and returns the previous one.
func (s *scopeTracker) Enter(name string) string {
	prev := s.current
	s.current = name
	return prev
}

// Leave restores the scope returned by the matching Enter.
func (s *scopeTracker) Leave(prev string) {
	s.current = prev
}

func (s *scopeTracker) Current() string {
	return s.current
}

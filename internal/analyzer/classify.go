// # internal/analyzer/classify.go
package analyzer

import (
	"regexp"
	"strings"
)

// Naming-convention classification. This is a heuristic policy, not a
// semantic guarantee; downstream metrics depend on it exactly as written.
// The component check runs first, so a capitalized handler-shaped name
// (OnFoo) is a component.
var (
	componentNameRE = regexp.MustCompile(`^[A-Z]`)
	handlerNameRE   = regexp.MustCompile(`^(handle|on)[A-Z]`)
	setterNameRE    = regexp.MustCompile(`^set[A-Z].+`)
)

func classifyDeclaration(name string) string {
	switch {
	case componentNameRE.MatchString(name):
		return KindComponent
	case handlerNameRE.MatchString(name):
		return KindHandler
	default:
		return KindHelper
	}
}

func isHookName(name string) bool {
	return strings.HasPrefix(name, "use")
}

func isSetterName(name string) bool {
	return setterNameRE.MatchString(name)
}

func isCapitalized(name string) bool {
	return componentNameRE.MatchString(name)
}

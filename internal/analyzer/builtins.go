// # internal/analyzer/builtins.go
package analyzer

// hostBuiltins are host/runtime globals that never become dependency edges.
var hostBuiltins = map[string]bool{
	"alert":              true,
	"console":            true,
	"setTimeout":         true,
	"setInterval":        true,
	"clearTimeout":       true,
	"clearInterval":      true,
	"parseInt":           true,
	"parseFloat":         true,
	"isNaN":              true,
	"isFinite":           true,
	"encodeURI":          true,
	"decodeURI":          true,
	"encodeURIComponent": true,
	"decodeURIComponent": true,
	"JSON":               true,
	"Math":               true,
	"Date":               true,
	"Array":              true,
	"Object":             true,
	"String":             true,
	"Number":             true,
	"Boolean":            true,
	"Symbol":             true,
	"Map":                true,
	"Set":                true,
	"WeakMap":            true,
	"WeakSet":            true,
	"Promise":            true,
	"fetch":              true,
	"require":            true,
}

// Package languages holds the grammars that ship with hlconv, written against
// the shared helper library in pkg/hljs.
package languages

import (
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/hlconv/pkg/grammar"
)

var builtins = map[string]grammar.Builder{
	"bash":       Bash,
	"cmake":      CMake,
	"css":        CSS,
	"dockerfile": Dockerfile,
	"go":         Go,
	"json":       JSON,
	"lua":        Lua,
	"makefile":   Makefile,
	"python":     Python,
	"sql":        SQL,
}

// Builtins returns the built-in grammar builders keyed by language identifier.
func Builtins() map[string]grammar.Builder {
	return maps.Clone(builtins)
}

// IDs lists the built-in language identifiers, sorted.
func IDs() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// NewStore returns a grammar store serving the built-in languages.
func NewStore() *grammar.BuiltinStore {
	return grammar.NewBuiltinStore(nil, builtins)
}

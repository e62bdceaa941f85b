// Package batch drives the conversion of a catalog of grammars into
// artifacts and a manifest.
package batch

import "slices"

// Catalog is the ordered set of languages to convert. Core and Extra are
// processed identically, core first.
type Catalog struct {
	Core  []string
	Extra []string
}

var defaultCore = []string{
	"cmake", "cpp", "cs", "css", "go", "java", "javascript", "json", "objectivec",
	"perl", "php", "python", "ruby", "sql", "swift",
}

var defaultExtra = []string{
	"bash", "clojure", "coffeescript", "d", "dart", "delphi", "django", "dockerfile",
	"elixir", "erlang", "fsharp", "glsl", "groovy", "haskell", "haxe", "julia", "less", "lisp",
	"lua", "makefile", "markdown", "mathematica", "matlab", "nginx", "nimrod", "ocaml",
	"powershell", "processing", "protobuf", "puppet", "r", "rust", "scala", "scheme",
	"smalltalk", "tcl", "tex", "vbnet", "verilog", "vhdl", "x86asm", "xml",
}

// DefaultCatalog returns the stock language lists.
func DefaultCatalog() Catalog {
	return Catalog{Core: slices.Clone(defaultCore), Extra: slices.Clone(defaultExtra)}
}

// IDs returns every identifier in processing order.
func (c Catalog) IDs() []string {
	return slices.Concat(c.Core, c.Extra)
}

// Len is the number of languages in the catalog.
func (c Catalog) Len() int {
	return len(c.Core) + len(c.Extra)
}

// Duplicates lists identifiers that appear more than once, in first-repeat order.
func (c Catalog) Duplicates() []string {
	seen := make(map[string]bool, c.Len())

	var dups []string

	for _, id := range c.IDs() {
		if seen[id] && !slices.Contains(dups, id) {
			dups = append(dups, id)
		}

		seen[id] = true
	}

	return dups
}

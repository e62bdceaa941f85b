// Package mode provides the grammar rule tree shared by the source grammars and
// the converted highlighter artifacts.
//
// A Node is one rule at one nesting depth. Optional members are explicit:
// a nil pattern, a nil children slice or an empty class name means the field is absent.
package mode

import (
	"maps"
	"slices"
)

// Output field names of a node.
const (
	FieldClassName       = "className"
	FieldBegin           = "begin"
	FieldEnd             = "end"
	FieldIllegal         = "illegal"
	FieldContains        = "contains"
	FieldCaseInsensitive = "case_insensitive"
)

// Node is one lexical rule and its nested children.
type Node struct {
	// ClassName is the semantic token category (string, comment, number, ...).
	ClassName string

	Begin   *Pattern
	End     *Pattern
	Illegal *Pattern

	// Contains holds the nested rules, tried in order by tokenizers.
	Contains []*Node

	// Keywords is only meaningful at the grammar root.
	Keywords *Keywords

	// Variants are partial overrides, each describing one specialization of this node.
	Variants []*Node

	// Lexemes overrides the identifier pattern; only meaningful at the grammar root.
	Lexemes *Pattern

	CaseInsensitive *bool

	// Fields below are read from source grammars but never written to artifacts.
	Aliases        []string
	Relevance      *int
	EndsWithParent bool
	ReturnBegin    bool
	BeginKeywords  string

	// Extra carries any other source field through to the output unchanged.
	Extra map[string]any
}

// Kind classifies a node by the fields it declares.
type Kind int

// Node kinds.
const (
	// KindPlain is an ordinary rule.
	KindPlain Kind = iota
	// KindVariant is a rule that is replaced by its variants.
	KindVariant
	// KindGrouping is an anonymous rule: no class, but a begin pattern.
	KindGrouping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindVariant:
		return "variant"
	case KindGrouping:
		return "grouping"
	default:
		return "unknown"
	}
}

// Kind returns the node kind. A nil node is plain.
func (n *Node) Kind() Kind {
	switch {
	case n == nil:
		return KindPlain
	case n.Variants != nil:
		return KindVariant
	case n.ClassName == "" && !n.Begin.Empty():
		return KindGrouping
	default:
		return KindPlain
	}
}

// HasClass reports whether the node declares a class.
func (n *Node) HasClass() bool {
	return n != nil && n.ClassName != ""
}

// HasChildren reports whether the node declares a children sequence, even an empty one.
func (n *Node) HasChildren() bool {
	return n != nil && n.Contains != nil
}

// Clone returns a shallow copy of the node. Slices and the extra map are
// copied one level deep so the copy can be edited without touching n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	clone := *n
	clone.Contains = slices.Clone(n.Contains)
	clone.Variants = slices.Clone(n.Variants)
	clone.Aliases = slices.Clone(n.Aliases)
	clone.Extra = maps.Clone(n.Extra)

	return &clone
}

// StripNonPortable removes fields the target highlighter does not understand.
func (n *Node) StripNonPortable() {
	n.Aliases = nil
	n.Relevance = nil
	n.EndsWithParent = false
	n.ReturnBegin = false
	n.BeginKeywords = ""
}

// Inherit returns a copy of parent with every field declared by override
// replacing the parent's value.
func Inherit(parent, override *Node) *Node {
	if parent == nil {
		return override.Clone()
	}

	result := parent.Clone()
	if override == nil {
		return result
	}

	if override.ClassName != "" {
		result.ClassName = override.ClassName
	}

	if override.Begin != nil {
		result.Begin = override.Begin
	}

	if override.End != nil {
		result.End = override.End
	}

	if override.Illegal != nil {
		result.Illegal = override.Illegal
	}

	if override.Contains != nil {
		result.Contains = slices.Clone(override.Contains)
	}

	if override.Keywords != nil {
		result.Keywords = override.Keywords
	}

	if override.Variants != nil {
		result.Variants = slices.Clone(override.Variants)
	}

	if override.Lexemes != nil {
		result.Lexemes = override.Lexemes
	}

	if override.CaseInsensitive != nil {
		result.CaseInsensitive = override.CaseInsensitive
	}

	if override.Aliases != nil {
		result.Aliases = slices.Clone(override.Aliases)
	}

	if override.Relevance != nil {
		result.Relevance = override.Relevance
	}

	result.EndsWithParent = result.EndsWithParent || override.EndsWithParent
	result.ReturnBegin = result.ReturnBegin || override.ReturnBegin

	if override.BeginKeywords != "" {
		result.BeginKeywords = override.BeginKeywords
	}

	if len(override.Extra) > 0 {
		if result.Extra == nil {
			result.Extra = make(map[string]any, len(override.Extra))
		}

		maps.Copy(result.Extra, override.Extra)
	}

	return result
}

// Merge builds the concrete rule for one variant of base: base's own fields,
// overridden by those the variant declares. The result never has variants.
func Merge(base, variant *Node) *Node {
	result := Inherit(base, variant)
	if result != nil {
		result.Variants = nil
	}

	return result
}

// MarshalJSON encodes the portable fields of the node plus its extra fields.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+6)

	for key, value := range n.Extra {
		out[key] = value
	}

	if n.ClassName != "" {
		out[FieldClassName] = n.ClassName
	}

	if n.Begin != nil {
		out[FieldBegin] = n.Begin
	}

	if n.End != nil {
		out[FieldEnd] = n.End
	}

	if n.Illegal != nil {
		out[FieldIllegal] = n.Illegal
	}

	if n.CaseInsensitive != nil {
		out[FieldCaseInsensitive] = *n.CaseInsensitive
	}

	if len(n.Contains) > 0 {
		out[FieldContains] = n.Contains
	}

	return marshalNoEscape(out)
}

// Walk calls visit for n and every rule below it, pre-order, with its depth
// relative to n. Variants are not visited.
func (n *Node) Walk(visit func(node *Node, depth int)) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(node *Node, depth int), depth int) {
	if n == nil {
		return
	}

	visit(n, depth)

	for _, child := range n.Contains {
		child.walk(visit, depth+1)
	}
}

// Bool returns a pointer to b, for optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i, for optional integer fields.
func Int(i int) *int {
	return &i
}

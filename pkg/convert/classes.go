package convert

import (
	"log/slog"
	"slices"

	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// Semantic classes understood by the target highlighter.
const (
	ClassString       = "string"
	ClassPreprocessor = "preprocessor"
	ClassComment      = "comment"
	ClassNumber       = "number"
	ClassOperator     = "operator"
	ClassRegexp       = "regexp"
	ClassKeyword      = "keyword"

	// ClassIdentifier is the class of the synthetic identifier rule.
	ClassIdentifier = "identifier"
)

// maxDepth is the deepest nesting level, counted from the grammar root, that survives.
const maxDepth = 2

// defaultAllowedClasses is the closed set of classes a rule may carry. Adding a
// class requires every consumer of the artifacts to learn it first.
var defaultAllowedClasses = []string{
	ClassString, ClassPreprocessor, ClassComment, ClassNumber, ClassOperator, ClassRegexp, ClassKeyword,
}

// classMap renames source classes on retained rules.
var classMap = map[string]string{
	"variable": ClassIdentifier,
}

// AllowedClasses returns the default class allow-list.
func AllowedClasses() []string {
	return slices.Clone(defaultAllowedClasses)
}

// RemapClass returns the output name of a source class.
func RemapClass(class string) string {
	if mapped, ok := classMap[class]; ok {
		return mapped
	}

	return class
}

// Rejection records a rule dropped because its class is not allowed.
type Rejection struct {
	Class string `json:"class"`
	Depth int    `json:"depth"`
}

// Validator decides whether a rule survives at a given depth.
type Validator struct {
	allowed    map[string]struct{}
	logger     *slog.Logger
	rejections []Rejection
}

// NewValidator creates a validator for the given class allow-list.
func NewValidator(allowed []string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	set := make(map[string]struct{}, len(allowed))

	for _, class := range allowed {
		set[class] = struct{}{}
	}

	return &Validator{allowed: set, logger: logger}
}

// IsRetained reports whether node survives at depth.
func (v *Validator) IsRetained(node *mode.Node, depth int) bool {
	if node == nil || depth > maxDepth {
		return false
	}

	if depth == maxDepth && node.Kind() == mode.KindGrouping {
		return true
	}

	if !node.HasClass() {
		return false
	}

	if _, ok := v.allowed[node.ClassName]; !ok {
		v.rejections = append(v.rejections, Rejection{Class: node.ClassName, Depth: depth})
		v.logger.Info("dropping rule", "class", node.ClassName, "depth", depth)

		return false
	}

	return true
}

// Rejections returns the class rejections recorded so far.
func (v *Validator) Rejections() []Rejection {
	return slices.Clone(v.rejections)
}

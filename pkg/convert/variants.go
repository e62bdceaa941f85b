package convert

import (
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// ExpandVariants replaces every variant rule in children with one merged rule
// per variant, in variant order, at the position the original occupied.
// The input slice is not modified.
func ExpandVariants(children []*mode.Node) []*mode.Node {
	if children == nil {
		return nil
	}

	expanded := make([]*mode.Node, 0, len(children))

	for _, child := range children {
		if child.Kind() != mode.KindVariant {
			expanded = append(expanded, child)

			continue
		}

		for _, variant := range child.Variants {
			expanded = append(expanded, mode.Merge(child, variant))
		}
	}

	return expanded
}

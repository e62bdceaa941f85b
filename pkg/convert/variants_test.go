package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/convert"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

func TestExpandVariants_OrderAndPosition(t *testing.T) {
	t.Parallel()

	first := &mode.Node{ClassName: "comment", Begin: mode.Plain("#")}
	last := &mode.Node{ClassName: "number", Begin: mode.Plain(`\d`)}
	variant := &mode.Node{
		ClassName: "string",
		Illegal:   mode.Plain(`\n`),
		Variants: []*mode.Node{
			{Begin: mode.Plain("'"), End: mode.Plain("'")},
			{Begin: mode.Plain(`"`), End: mode.Plain(`"`), ClassName: "regexp"},
		},
	}

	expanded := convert.ExpandVariants([]*mode.Node{first, variant, last})

	require.Len(t, expanded, 4)
	assert.Same(t, first, expanded[0])
	assert.Same(t, last, expanded[3])

	assert.Equal(t, "string", expanded[1].ClassName)
	assert.Equal(t, "'", expanded[1].Begin.Source)
	assert.Equal(t, `\n`, expanded[1].Illegal.Source)
	assert.Equal(t, "regexp", expanded[2].ClassName)
	assert.Equal(t, `"`, expanded[2].End.Source)

	for _, node := range expanded {
		assert.Nil(t, node.Variants)
	}

	assert.Len(t, variant.Variants, 2, "input is not modified")
}

func TestExpandVariants_EmptyVariantListExpandsToNothing(t *testing.T) {
	t.Parallel()

	expanded := convert.ExpandVariants([]*mode.Node{{ClassName: "string", Variants: []*mode.Node{}}})

	assert.NotNil(t, expanded)
	assert.Empty(t, expanded)
}

func TestExpandVariants_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, convert.ExpandVariants(nil))
}

func TestExpandVariants_VariantChildrenKept(t *testing.T) {
	t.Parallel()

	escape := &mode.Node{Begin: mode.Plain(`\\.`)}
	node := &mode.Node{
		ClassName: "string",
		Contains:  []*mode.Node{escape},
		Variants:  []*mode.Node{{Begin: mode.Plain("'")}, {Begin: mode.Plain("r'"), Contains: []*mode.Node{}}},
	}

	expanded := convert.ExpandVariants([]*mode.Node{node})

	require.Len(t, expanded, 2)
	assert.Equal(t, []*mode.Node{escape}, expanded[0].Contains)
	assert.NotNil(t, expanded[1].Contains)
	assert.Empty(t, expanded[1].Contains)
}

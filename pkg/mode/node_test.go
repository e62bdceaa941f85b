package mode_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

func TestNode_Kind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *mode.Node
		want mode.Kind
	}{
		{name: "nil", node: nil, want: mode.KindPlain},
		{name: "classed", node: &mode.Node{ClassName: "string", Begin: mode.Plain(`"`)}, want: mode.KindPlain},
		{name: "grouping", node: &mode.Node{Begin: mode.Plain(`\(`)}, want: mode.KindGrouping},
		{name: "empty begin", node: &mode.Node{Begin: mode.Plain("")}, want: mode.KindPlain},
		{name: "variants", node: &mode.Node{Variants: []*mode.Node{{Begin: mode.Plain("a")}}}, want: mode.KindVariant},
		{name: "empty variants", node: &mode.Node{Variants: []*mode.Node{}}, want: mode.KindVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.node.Kind())
		})
	}
}

func TestNode_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	child := &mode.Node{ClassName: "string"}
	original := &mode.Node{
		ClassName: "comment",
		Contains:  []*mode.Node{child},
		Aliases:   []string{"py"},
		Extra:     map[string]any{"subLanguage": "xml"},
	}

	clone := original.Clone()
	clone.Contains[0] = &mode.Node{ClassName: "number"}
	clone.Aliases[0] = "py3"
	clone.Extra["subLanguage"] = "css"

	assert.Same(t, child, original.Contains[0])
	assert.Equal(t, []string{"py"}, original.Aliases)
	assert.Equal(t, "xml", original.Extra["subLanguage"])
}

func TestMerge_VariantOverridesBase(t *testing.T) {
	t.Parallel()

	base := &mode.Node{
		ClassName: "string",
		Begin:     mode.Plain("'"),
		End:       mode.Plain("'"),
		Relevance: mode.Int(0),
		Variants:  []*mode.Node{{Begin: mode.Plain(`"`)}},
	}

	merged := mode.Merge(base, &mode.Node{Begin: mode.Plain(`"`), End: mode.Plain(`"`)})

	require.NotNil(t, merged)
	assert.Equal(t, "string", merged.ClassName)
	assert.Equal(t, `"`, merged.Begin.Source)
	assert.Equal(t, `"`, merged.End.Source)
	assert.Nil(t, merged.Variants)
	assert.Equal(t, "'", base.Begin.Source, "base must not change")
}

func TestInherit_KeepsOverrideVariants(t *testing.T) {
	t.Parallel()

	parent := &mode.Node{ClassName: "number", Begin: mode.Plain(`\d+`)}
	override := &mode.Node{Variants: []*mode.Node{{Begin: mode.Plain("0x")}}}

	result := mode.Inherit(parent, override)

	assert.Equal(t, mode.KindVariant, result.Kind())
	assert.Equal(t, "number", result.ClassName)
	assert.Nil(t, parent.Variants)
}

func TestNode_MarshalJSONPortableFieldsOnly(t *testing.T) {
	t.Parallel()

	node := &mode.Node{
		ClassName:       "comment",
		Begin:           mode.Literal(`\/\*`, "m"),
		End:             mode.Plain(`\*/`),
		CaseInsensitive: mode.Bool(true),
		Keywords:        mode.WordList("if else"),
		Aliases:         []string{"c"},
		Relevance:       mode.Int(10),
		ReturnBegin:     true,
		BeginKeywords:   "func",
		Contains:        []*mode.Node{{ClassName: "string", Begin: mode.Plain("<")}},
		Extra:           map[string]any{"excludeEnd": true},
	}

	data, err := node.MarshalJSON()
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "comment", decoded["className"])
	assert.Equal(t, `\/\*`, decoded["begin"])
	assert.Equal(t, `\*/`, decoded["end"])
	assert.Equal(t, true, decoded["case_insensitive"])
	assert.Equal(t, true, decoded["excludeEnd"])
	assert.NotContains(t, decoded, "keywords")
	assert.NotContains(t, decoded, "aliases")
	assert.NotContains(t, decoded, "relevance")
	assert.NotContains(t, decoded, "returnBegin")
	assert.NotContains(t, decoded, "beginKeywords")
	assert.Contains(t, string(data), `"begin":"<"`)
}

func TestNode_WalkDepths(t *testing.T) {
	t.Parallel()

	root := &mode.Node{Contains: []*mode.Node{
		{ClassName: "a", Contains: []*mode.Node{{ClassName: "b"}}},
		{ClassName: "c"},
	}}

	var visited []string

	var depths []int

	root.Walk(func(node *mode.Node, depth int) {
		visited = append(visited, node.ClassName)
		depths = append(depths, depth)
	})

	assert.Equal(t, []string{"", "a", "b", "c"}, visited)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

package hljs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

func TestLibrary_ModeReturnsFreshCopies(t *testing.T) {
	t.Parallel()

	lib := hljs.New()

	first, err := lib.Mode("QUOTE_STRING_MODE")
	require.NoError(t, err)

	first.ClassName = "changed"
	first.Contains = nil

	second, err := lib.Mode("QUOTE_STRING_MODE")
	require.NoError(t, err)

	assert.Equal(t, "string", second.ClassName)
	assert.Len(t, second.Contains, 1)
}

func TestLibrary_UnknownMode(t *testing.T) {
	t.Parallel()

	_, err := hljs.New().Mode("PHRASAL_WORDS_MODE")
	require.ErrorIs(t, err, hljs.ErrUnknownMode)
}

func TestLibrary_ModeNamesResolve(t *testing.T) {
	t.Parallel()

	lib := hljs.New()

	names := lib.ModeNames()
	require.NotEmpty(t, names)

	for _, name := range names {
		node, err := lib.Mode(name)
		require.NoError(t, err, name)
		assert.False(t, node.Begin.Empty(), name)
	}
}

func TestLineCommentModeBounds(t *testing.T) {
	t.Parallel()

	comment := hljs.CLineCommentMode()

	assert.Equal(t, "comment", comment.ClassName)
	assert.Equal(t, "//", comment.Begin.Source)
	assert.Equal(t, "$", comment.End.Source)
}

func TestRegexpModeUsesLiterals(t *testing.T) {
	t.Parallel()

	regexp := hljs.RegexpMode()

	assert.True(t, regexp.End.Literal)
	assert.Equal(t, `\/[gimuy]*`, regexp.End.Source)
	assert.Equal(t, mode.KindGrouping, regexp.Contains[1].Kind())
}

func TestLibrary_Inherit(t *testing.T) {
	t.Parallel()

	lib := hljs.New()

	number := lib.Inherit(hljs.NumberMode(), &mode.Node{Begin: mode.Plain(`\b0x[0-9a-f]+`)})

	assert.Equal(t, "number", number.ClassName)
	assert.Equal(t, `\b0x[0-9a-f]+`, number.Begin.Source)
}

package grammar_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/grammar"
	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

func testBuilders() map[string]grammar.Builder {
	return map[string]grammar.Builder{
		"tiny": func(lib *hljs.Library) *mode.Node {
			return &mode.Node{
				Aliases:  []string{"tn"},
				Contains: []*mode.Node{hljs.QuoteStringMode(), lib.Inherit(hljs.NumberMode(), nil)},
			}
		},
		"broken": func(_ *hljs.Library) *mode.Node {
			panic("missing helper")
		},
		"empty": func(_ *hljs.Library) *mode.Node {
			return nil
		},
	}
}

func TestBuiltinStore_Load(t *testing.T) {
	t.Parallel()

	store := grammar.NewBuiltinStore(nil, testBuilders())

	def, err := store.Load(context.Background(), "tiny")
	require.NoError(t, err)

	assert.Equal(t, "tiny", def.ID)
	assert.Equal(t, "builtin", def.Source)
	assert.Equal(t, []string{"tn"}, def.Aliases())
	assert.Len(t, def.Root.Contains, 2)
	assert.Equal(t, []string{"broken", "empty", "tiny"}, store.IDs())
}

func TestBuiltinStore_Failures(t *testing.T) {
	t.Parallel()

	store := grammar.NewBuiltinStore(hljs.New(), testBuilders())

	_, err := store.Load(context.Background(), "broken")
	require.ErrorIs(t, err, grammar.ErrBuilderFailed)
	assert.Contains(t, err.Error(), "missing helper")

	_, err = store.Load(context.Background(), "empty")
	require.ErrorIs(t, err, grammar.ErrInvalidDefinition)

	_, err = store.Load(context.Background(), "nope")
	require.ErrorIs(t, err, grammar.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Load(ctx, "tiny")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFSStore_Load(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"lua.yaml":  {Data: []byte("aliases: [luau]\ncontains: [!ref C_NUMBER_MODE]\n")},
		"json.json": {Data: []byte(`{"contains": [{"$ref": "QUOTE_STRING_MODE"}]}`)},
		"bad.yml":   {Data: []byte("contains: nope\n")},
	}

	store := grammar.NewFSStore(fsys, nil)

	lua, err := store.Load(context.Background(), "lua")
	require.NoError(t, err)
	assert.Equal(t, "lua.yaml", lua.Source)
	assert.Equal(t, []string{"luau"}, lua.Aliases())

	jsonDef, err := store.Load(context.Background(), "json")
	require.NoError(t, err)
	assert.Equal(t, "string", jsonDef.Root.Contains[0].ClassName)

	_, err = store.Load(context.Background(), "bad")
	require.ErrorIs(t, err, grammar.ErrInvalidDefinition)

	_, err = store.Load(context.Background(), "ruby")
	require.ErrorIs(t, err, grammar.ErrNotFound)

	_, err = store.Load(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, grammar.ErrInvalidDefinition)
}

func TestChainStore_FallsThroughNotFound(t *testing.T) {
	t.Parallel()

	files := grammar.NewFSStore(fstest.MapFS{
		"tiny.yaml": {Data: []byte("contains: []\n")},
		"lua.yaml":  {Data: []byte("contains: []\n")},
	}, nil)
	builtins := grammar.NewBuiltinStore(nil, testBuilders())

	chain := grammar.NewChainStore(files, builtins)

	tiny, err := chain.Load(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Equal(t, "tiny.yaml", tiny.Source, "first store wins")

	_, err = chain.Load(context.Background(), "broken")
	require.ErrorIs(t, err, grammar.ErrBuilderFailed, "real failures are not masked")

	_, err = chain.Load(context.Background(), "missing")
	require.ErrorIs(t, err, grammar.ErrNotFound)
}

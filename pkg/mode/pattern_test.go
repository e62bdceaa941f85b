package mode_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text      string
		wantSrc   string
		wantFlags string
	}{
		{text: `/\//`, wantSrc: `\/`},
		{text: `/\/[gimuy]*/`, wantSrc: `\/[gimuy]*`},
		{text: `/[a-z]+/gi`, wantSrc: `[a-z]+`, wantFlags: "gi"},
		{text: `/a/b/m`, wantSrc: `a/b`, wantFlags: "m"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			pattern, err := mode.ParseLiteral(tt.text)
			require.NoError(t, err)

			assert.True(t, pattern.Literal)
			assert.Equal(t, tt.wantSrc, pattern.Source)
			assert.Equal(t, tt.wantFlags, pattern.Flags)
			assert.Equal(t, tt.text, pattern.String())
		})
	}
}

func TestParseLiteral_Rejects(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "/", "abc", "/abc", "/abc/1"} {
		_, err := mode.ParseLiteral(text)
		require.ErrorIs(t, err, mode.ErrNotLiteral, text)
	}
}

func TestPattern_MarshalJSONDropsDelimitersAndFlags(t *testing.T) {
	t.Parallel()

	literal, err := mode.ParseLiteral(`/\/[gimuy]*/gi`)
	require.NoError(t, err)

	data, err := json.Marshal(literal)
	require.NoError(t, err)

	var decoded string

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, `\/[gimuy]*`, decoded)
}

func TestPattern_MarshalJSONPlainPassThrough(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(mode.Plain(`[a-zA-Z_]\w*`))
	require.NoError(t, err)

	assert.JSONEq(t, `"[a-zA-Z_]\\w*"`, string(data))
}

func TestPattern_Empty(t *testing.T) {
	t.Parallel()

	var missing *mode.Pattern

	assert.True(t, missing.Empty())
	assert.True(t, mode.Plain("").Empty())
	assert.False(t, mode.Plain("#").Empty())
}

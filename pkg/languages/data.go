package languages

import (
	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// JSON is the grammar for JSON documents.
func JSON(_ *hljs.Library) *mode.Node {
	literals := mode.Categorized(map[string]string{"literal": "true false null"})

	value := []*mode.Node{
		hljs.QuoteStringMode(),
		hljs.CNumberMode(),
	}

	object := &mode.Node{
		Begin: mode.Plain(`{`),
		End:   mode.Plain(`}`),
		Contains: []*mode.Node{
			{
				ClassName: "attribute",
				Begin:     mode.Plain(`\s*"`),
				End:       mode.Plain(`"\s*:\s*`),
				Contains:  []*mode.Node{hljs.BackslashEscape()},
				Illegal:   mode.Plain(`\n`),
			},
			hljs.QuoteStringMode(),
		},
		Illegal: mode.Plain(`\S`),
	}

	array := &mode.Node{
		Begin:    mode.Plain(`\[`),
		End:      mode.Plain(`\]`),
		Contains: append([]*mode.Node{hljs.QuoteStringMode()}, value[1:]...),
		Illegal:  mode.Plain(`\S`),
	}

	return &mode.Node{
		Aliases:  []string{"jsonc"},
		Keywords: literals,
		Contains: append(value, object, array),
		Illegal:  mode.Plain(`\S`),
	}
}

// CSS is the grammar for cascading style sheets.
func CSS(_ *hljs.Library) *mode.Node {
	identRE := `[a-zA-Z-][a-zA-Z0-9_-]*`

	return &mode.Node{
		CaseInsensitive: mode.Bool(true),
		Illegal:         mode.Plain(`[=\/|'\$]`),
		Contains: []*mode.Node{
			hljs.CBlockCommentMode(),
			{ClassName: "selector-id", Begin: mode.Plain(`#[A-Za-z0-9_-]+`)},
			{ClassName: "selector-class", Begin: mode.Plain(`\.` + identRE)},
			{
				ClassName: "preprocessor",
				Begin:     mode.Plain(`@(font-face|page)`),
				Lexemes:   mode.Plain(`[a-z-]+`),
				Keywords:  mode.WordList("font-face page"),
			},
			{
				ClassName: "preprocessor",
				Begin:     mode.Plain(`@`),
				End:       mode.Plain(`[{;]`),
				Contains: []*mode.Node{
					{ClassName: "keyword", Begin: mode.Plain(`\w+`)},
					hljs.AposStringMode(),
					hljs.QuoteStringMode(),
					hljs.CSSNumberMode(),
				},
			},
			{
				Begin: mode.Plain(`{`),
				End:   mode.Plain(`}`),
				Contains: []*mode.Node{
					hljs.CBlockCommentMode(),
					{
						ClassName: "keyword",
						Begin:     mode.Plain(`[A-Z\_\.\-]+\s*:`),
						End:       mode.Plain(`;`),
						Contains: []*mode.Node{
							hljs.CSSNumberMode(),
							hljs.QuoteStringMode(),
							hljs.AposStringMode(),
						},
					},
				},
			},
			{
				ClassName: "string",
				Variants: []*mode.Node{
					hljs.AposStringMode(),
					hljs.QuoteStringMode(),
				},
			},
			hljs.CSSNumberMode(),
		},
	}
}

// SQL is the grammar for structured query language scripts.
func SQL(_ *hljs.Library) *mode.Node {
	comment := &mode.Node{ClassName: "comment", Begin: mode.Plain(`--`), End: mode.Plain(`$`)}

	return &mode.Node{
		Aliases:         []string{"mysql", "psql"},
		CaseInsensitive: mode.Bool(true),
		Illegal:         mode.Plain(`[<>{}*#]`),
		Keywords: mode.Categorized(map[string]string{
			"keyword": "abort add all alter and any as asc begin between by cascade case check " +
				"column commit constraint create cross database default delete desc distinct drop " +
				"else end escape except exists foreign from full grant group having if in index " +
				"inner insert intersect into is join key left like limit natural not null offset " +
				"on or order outer primary references revoke right rollback select set table then " +
				"to transaction trigger union unique update using values view when where with",
			"literal":  "true false null unknown",
			"built_in": "array bigint binary bit blob boolean char character date dec decimal float int8 int integer interval number numeric real serial smallint varchar varying int8 serial8 text",
		}),
		Contains: []*mode.Node{
			{
				ClassName: "string",
				Begin:     mode.Plain(`'`),
				End:       mode.Plain(`'`),
				Contains:  []*mode.Node{hljs.BackslashEscape(), {Begin: mode.Plain(`''`)}},
			},
			{
				ClassName: "string",
				Begin:     mode.Plain(`"`),
				End:       mode.Plain(`"`),
				Contains:  []*mode.Node{hljs.BackslashEscape(), {Begin: mode.Plain(`""`)}},
			},
			{
				ClassName: "string",
				Begin:     mode.Plain("`"),
				End:       mode.Plain("`"),
				Contains:  []*mode.Node{hljs.BackslashEscape()},
			},
			hljs.CNumberMode(),
			hljs.CBlockCommentMode(),
			comment,
			{ClassName: "operator", Begin: mode.Plain(`<>|<=|>=|!=|\|\||::|[=<>+\-*/%]`), Relevance: mode.Int(0)},
		},
	}
}

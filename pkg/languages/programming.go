package languages

import (
	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// Go is the grammar for the Go programming language.
func Go(_ *hljs.Library) *mode.Node {
	return &mode.Node{
		Aliases: []string{"golang"},
		Keywords: mode.Categorized(map[string]string{
			"keyword": "break default func interface select case map struct chan else goto package switch " +
				"const fallthrough if range type continue for import return var go defer " +
				"bool byte complex64 complex128 float32 float64 int8 int16 int32 int64 string uint8 " +
				"uint16 uint32 uint64 int uint uintptr rune any comparable",
			"literal":  "true false iota nil",
			"built_in": "append cap clear close complex copy imag len make max min new panic print println real recover delete",
		}),
		Illegal: mode.Plain(`</`),
		Contains: []*mode.Node{
			hljs.CLineCommentMode(),
			hljs.CBlockCommentMode(),
			hljs.QuoteStringMode(),
			{ClassName: "string", Begin: mode.Plain(`'`), End: mode.Plain(`[^\\]'`)},
			{ClassName: "string", Begin: mode.Plain("`"), End: mode.Plain("`")},
			{
				ClassName: "number",
				Begin:     mode.Plain(hljs.CNumberRE + `[dflsi]?`),
				Relevance: mode.Int(0),
			},
			hljs.CNumberMode(),
			{ClassName: "operator", Begin: mode.Plain(`:=|<-|&\^|\.\.\.|[-+*/%&|^<>=!]=?`), Relevance: mode.Int(0)},
		},
	}
}

// Lua is the grammar for the Lua scripting language.
func Lua(_ *hljs.Library) *mode.Node {
	openingLongBracket := `\[=*\[`
	closingLongBracket := `\]=*\]`

	longBracket := &mode.Node{
		Begin:    mode.Plain(openingLongBracket),
		End:      mode.Plain(closingLongBracket),
		Contains: []*mode.Node{{Begin: mode.Plain(openingLongBracket), End: mode.Plain(closingLongBracket)}},
	}

	comments := []*mode.Node{
		{
			ClassName: "comment",
			Begin:     mode.Plain(`--(?!` + openingLongBracket + `)`),
			End:       mode.Plain(`$`),
		},
		{
			ClassName: "comment",
			Begin:     mode.Plain(`--` + openingLongBracket),
			End:       mode.Plain(closingLongBracket),
			Contains:  []*mode.Node{longBracket},
			Relevance: mode.Int(10),
		},
	}

	return &mode.Node{
		Lexemes: mode.Plain(hljs.UnderscoreIdentRE),
		Keywords: mode.Categorized(map[string]string{
			"keyword": "and break do else elseif end false for goto if in local nil not or repeat " +
				"return then true until while function",
			"built_in": "_G _ENV _VERSION __index __newindex __mode __call __metatable __tostring " +
				"assert collectgarbage dofile error getmetatable ipairs load loadfile next pairs " +
				"pcall print rawequal rawget rawlen rawset require select setmetatable tonumber " +
				"tostring type xpcall coroutine debug io math os package string table utf8",
		}),
		Contains: append(comments,
			&mode.Node{
				ClassName:     "function",
				BeginKeywords: "function",
				Begin:         mode.Plain(`\bfunction\b`),
				End:           mode.Plain(`\)`),
				Contains: []*mode.Node{
					hljs.UnderscoreTitleMode(),
					{ClassName: "params", Begin: mode.Plain(`\(`), EndsWithParent: true},
				},
			},
			hljs.CNumberMode(),
			hljs.AposStringMode(),
			hljs.QuoteStringMode(),
			&mode.Node{
				ClassName: "string",
				Begin:     mode.Plain(openingLongBracket),
				End:       mode.Plain(closingLongBracket),
				Contains:  []*mode.Node{longBracket},
				Relevance: mode.Int(5),
			},
		),
	}
}

// Python is the grammar for the Python programming language.
func Python(lib *hljs.Library) *mode.Node {
	prompt := &mode.Node{ClassName: "meta", Begin: mode.Plain(`^(>>>|\.\.\.) `)}

	str := &mode.Node{
		ClassName: "string",
		Contains:  []*mode.Node{hljs.BackslashEscape()},
		Variants: []*mode.Node{
			{Begin: mode.Plain(`(u|b)?r?'''`), End: mode.Plain(`'''`), Contains: []*mode.Node{prompt}, Relevance: mode.Int(10)},
			{Begin: mode.Plain(`(u|b)?r?"""`), End: mode.Plain(`"""`), Contains: []*mode.Node{prompt}, Relevance: mode.Int(10)},
			{Begin: mode.Plain(`(fr|rf|f)'`), End: mode.Plain(`'`)},
			{Begin: mode.Plain(`(fr|rf|f)"`), End: mode.Plain(`"`)},
			{Begin: mode.Plain(`(u|r|ur)'`), End: mode.Plain(`'`), Relevance: mode.Int(10)},
			{Begin: mode.Plain(`(u|r|ur)"`), End: mode.Plain(`"`), Relevance: mode.Int(10)},
			{Begin: mode.Plain(`(b|br)'`), End: mode.Plain(`'`)},
			{Begin: mode.Plain(`(b|br)"`), End: mode.Plain(`"`)},
			hljs.AposStringMode(),
			hljs.QuoteStringMode(),
		},
	}

	number := &mode.Node{
		ClassName: "number",
		Relevance: mode.Int(0),
		Variants: []*mode.Node{
			{Begin: mode.Plain(hljs.BinaryNumberRE + `[lLjJ]?`)},
			{Begin: mode.Plain(`\b(0o[0-7]+)[lLjJ]?`)},
			{Begin: mode.Plain(hljs.CNumberRE + `[lLjJ]?`)},
		},
	}

	params := &mode.Node{
		ClassName: "params",
		Begin:     mode.Plain(`\(`),
		End:       mode.Plain(`\)`),
		Contains:  []*mode.Node{number, str},
	}

	return &mode.Node{
		Aliases: []string{"py", "gyp", "ipython"},
		Keywords: mode.Categorized(map[string]string{
			"keyword": "and elif is global as in if from raise for except finally print import pass " +
				"return exec else break not with class assert yield try while continue del or def " +
				"lambda async await nonlocal|10 match case",
			"built_in": "Ellipsis NotImplemented",
			"literal":  "False None True",
		}),
		Illegal: mode.Plain(`(<\/|->|\?)|=>`),
		Contains: []*mode.Node{
			prompt,
			number,
			str,
			hljs.HashCommentMode(),
			{
				ClassName: "function",
				Variants: []*mode.Node{
					{ClassName: "function", BeginKeywords: "def", Begin: mode.Plain(`\bdef\b`)},
					{ClassName: "class", BeginKeywords: "class", Begin: mode.Plain(`\bclass\b`)},
				},
				End:     mode.Plain(`:`),
				Illegal: mode.Plain(`[${=;\n,]`),
				Contains: []*mode.Node{
					lib.Inherit(hljs.UnderscoreTitleMode(), nil),
					params,
					{Begin: mode.Plain(`->`), EndsWithParent: true, Keywords: mode.WordList("None")},
				},
			},
			{ClassName: "preprocessor", Begin: mode.Plain(`^[\t ]*@`), End: mode.Plain(`$`)},
			{Begin: mode.Plain(`\b(print|exec)\(`)},
		},
	}
}

// Package hljs provides the shared building blocks grammar definitions are
// written against: common identifier and number regular expressions, and
// ready-made string, comment and number modes.
//
// Every mode constructor returns a fresh tree, so a grammar may edit what it
// gets without affecting other grammars.
package hljs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// ErrUnknownMode is returned when a named mode does not exist in the library.
var ErrUnknownMode = errors.New("unknown helper mode")

// Common regular expressions.
const (
	IdentRE           = `[a-zA-Z]\w*`
	UnderscoreIdentRE = `[a-zA-Z_]\w*`
	NumberRE          = `\b\d+(\.\d+)?`
	CNumberRE         = `\b(0[xX][a-fA-F0-9]+|(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?)`
	BinaryNumberRE    = `\b(0b[01]+)`
	REStartersRE      = `!|!=|!==|%|%=|&|&&|&=|\*|\*=|\+|\+=|,|-|-=|/=|/|:|;|<<|<<=|<=|<|===|==|=|>>>=|>>=|>=|>>>|>>|>|\?|\[|\{|\(|\^|\^=|\||\|=|\|\||~`
)

// cssUnits are the suffixes CSSNumberMode accepts after a number.
const cssUnits = `%|em|ex|ch|rem|vw|vh|vmin|vmax|cm|mm|in|pt|pc|px|deg|grad|rad|turn|s|ms|Hz|kHz|dpi|dpcm|dppx`

// Library hands out the shared regular expressions and modes.
type Library struct {
	IdentRE           string
	UnderscoreIdentRE string
	NumberRE          string
	CNumberRE         string
	BinaryNumberRE    string
	REStartersRE      string

	modes map[string]func() *mode.Node
}

// New creates a library with the standard building blocks.
func New() *Library {
	lib := &Library{
		IdentRE:           IdentRE,
		UnderscoreIdentRE: UnderscoreIdentRE,
		NumberRE:          NumberRE,
		CNumberRE:         CNumberRE,
		BinaryNumberRE:    BinaryNumberRE,
		REStartersRE:      REStartersRE,
	}

	lib.modes = map[string]func() *mode.Node{
		"BACKSLASH_ESCAPE":      BackslashEscape,
		"APOS_STRING_MODE":      AposStringMode,
		"QUOTE_STRING_MODE":     QuoteStringMode,
		"C_LINE_COMMENT_MODE":   CLineCommentMode,
		"C_BLOCK_COMMENT_MODE":  CBlockCommentMode,
		"HASH_COMMENT_MODE":     HashCommentMode,
		"NUMBER_MODE":           NumberMode,
		"C_NUMBER_MODE":         CNumberMode,
		"BINARY_NUMBER_MODE":    BinaryNumberMode,
		"CSS_NUMBER_MODE":       CSSNumberMode,
		"REGEXP_MODE":           RegexpMode,
		"TITLE_MODE":            TitleMode,
		"UNDERSCORE_TITLE_MODE": UnderscoreTitleMode,
	}

	return lib
}

// Mode returns a fresh copy of the named mode, e.g. "C_LINE_COMMENT_MODE".
func (l *Library) Mode(name string) (*mode.Node, error) {
	build, ok := l.modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	return build(), nil
}

// ModeNames lists the named modes, sorted.
func (l *Library) ModeNames() []string {
	names := make([]string, 0, len(l.modes))

	for name := range l.modes {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Inherit copies parent and applies the fields of override on top of it.
func (l *Library) Inherit(parent, override *mode.Node) *mode.Node {
	return mode.Inherit(parent, override)
}

// BackslashEscape matches a backslash and the character after it.
func BackslashEscape() *mode.Node {
	return &mode.Node{Begin: mode.Plain(`\\[\s\S]`), Relevance: mode.Int(0)}
}

// AposStringMode is a single-quoted string with backslash escapes.
func AposStringMode() *mode.Node {
	return &mode.Node{
		ClassName: "string",
		Begin:     mode.Plain(`'`),
		End:       mode.Plain(`'`),
		Illegal:   mode.Plain(`\n`),
		Contains:  []*mode.Node{BackslashEscape()},
	}
}

// QuoteStringMode is a double-quoted string with backslash escapes.
func QuoteStringMode() *mode.Node {
	return &mode.Node{
		ClassName: "string",
		Begin:     mode.Plain(`"`),
		End:       mode.Plain(`"`),
		Illegal:   mode.Plain(`\n`),
		Contains:  []*mode.Node{BackslashEscape()},
	}
}

// CLineCommentMode is a // comment running to the end of the line.
func CLineCommentMode() *mode.Node {
	return &mode.Node{ClassName: "comment", Begin: mode.Plain(`//`), End: mode.Plain(`$`)}
}

// CBlockCommentMode is a /* */ comment.
func CBlockCommentMode() *mode.Node {
	return &mode.Node{ClassName: "comment", Begin: mode.Plain(`/\*`), End: mode.Plain(`\*/`)}
}

// HashCommentMode is a # comment running to the end of the line.
func HashCommentMode() *mode.Node {
	return &mode.Node{ClassName: "comment", Begin: mode.Plain(`#`), End: mode.Plain(`$`)}
}

// NumberMode matches integers and simple decimals.
func NumberMode() *mode.Node {
	return &mode.Node{ClassName: "number", Begin: mode.Plain(NumberRE), Relevance: mode.Int(0)}
}

// CNumberMode matches C-style hex, decimal and float literals.
func CNumberMode() *mode.Node {
	return &mode.Node{ClassName: "number", Begin: mode.Plain(CNumberRE), Relevance: mode.Int(0)}
}

// BinaryNumberMode matches 0b binary literals.
func BinaryNumberMode() *mode.Node {
	return &mode.Node{ClassName: "number", Begin: mode.Plain(BinaryNumberRE), Relevance: mode.Int(0)}
}

// CSSNumberMode matches numbers with an optional CSS unit.
func CSSNumberMode() *mode.Node {
	return &mode.Node{
		ClassName: "number",
		Begin:     mode.Plain(NumberRE + `(` + cssUnits + `)?`),
		Relevance: mode.Int(0),
	}
}

// RegexpMode is a /.../flags regular expression literal.
func RegexpMode() *mode.Node {
	return &mode.Node{
		ClassName: "regexp",
		Begin:     mode.Literal(`\/`, ""),
		End:       mode.Literal(`\/[gimuy]*`, ""),
		Illegal:   mode.Literal(`\n`, ""),
		Contains: []*mode.Node{
			BackslashEscape(),
			{
				Begin:     mode.Literal(`\[`, ""),
				End:       mode.Literal(`\]`, ""),
				Relevance: mode.Int(0),
				Contains:  []*mode.Node{BackslashEscape()},
			},
		},
	}
}

// TitleMode matches a name being declared.
func TitleMode() *mode.Node {
	return &mode.Node{ClassName: "title", Begin: mode.Plain(IdentRE), Relevance: mode.Int(0)}
}

// UnderscoreTitleMode is TitleMode allowing a leading underscore.
func UnderscoreTitleMode() *mode.Node {
	return &mode.Node{ClassName: "title", Begin: mode.Plain(UnderscoreIdentRE), Relevance: mode.Int(0)}
}

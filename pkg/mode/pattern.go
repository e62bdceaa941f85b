package mode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotLiteral is returned when text is not a delimited /body/flags pattern literal.
var ErrNotLiteral = errors.New("not a delimited pattern literal")

// literalDelimiter opens and closes a delimited pattern literal.
const literalDelimiter = '/'

// Pattern is a begin/end/illegal pattern of a mode.
//
// A plain pattern is a bare regular expression string. A literal pattern was
// written as /body/flags in the source grammar; only its Source survives encoding.
type Pattern struct {
	Source  string
	Flags   string
	Literal bool
}

// Plain returns a plain pattern string.
func Plain(source string) *Pattern {
	return &Pattern{Source: source}
}

// Literal returns a delimited pattern literal with inline match flags.
func Literal(source, flags string) *Pattern {
	return &Pattern{Source: source, Flags: flags, Literal: true}
}

// ParseLiteral parses /body/flags text into a literal pattern.
// The body may itself contain escaped or unescaped slashes; the last slash closes it.
func ParseLiteral(text string) (*Pattern, error) {
	if len(text) < 2 || text[0] != literalDelimiter {
		return nil, fmt.Errorf("%w: %q", ErrNotLiteral, text)
	}

	closing := strings.LastIndexByte(text, literalDelimiter)
	if closing == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotLiteral, text)
	}

	flags := text[closing+1:]

	for _, flag := range flags {
		if (flag < 'a' || flag > 'z') && (flag < 'A' || flag > 'Z') {
			return nil, fmt.Errorf("%w: bad flag %q in %q", ErrNotLiteral, flag, text)
		}
	}

	return Literal(text[1:closing], flags), nil
}

// Empty reports whether the pattern is absent or has no source text.
func (p *Pattern) Empty() bool {
	return p == nil || p.Source == ""
}

// String returns the pattern as it was written: /body/flags for literals.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}

	if p.Literal {
		return string(literalDelimiter) + p.Source + string(literalDelimiter) + p.Flags
	}

	return p.Source
}

// MarshalJSON encodes the portable form of the pattern: the inner pattern text
// only, without delimiters or flags.
func (p Pattern) MarshalJSON() ([]byte, error) {
	return marshalNoEscape(p.Source)
}

// marshalNoEscape encodes v as JSON without HTML escaping, so patterns such as
// "<" or "&&" stay readable in the output artifacts.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Package manifest builds the index of converted grammars: display name to
// artifact and recognized file extensions.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/src-d/enry/v2"
)

// Format selects the layout of the encoded manifest.
type Format string

// Manifest layouts.
const (
	// FormatExtensions maps display names to {meta_file, extensions}.
	FormatExtensions Format = "extensions"
	// FormatStatLang nests entries under stat_lang.languages with file globs,
	// the settings layout the highlighter reads.
	FormatStatLang Format = "statlang"
)

// ErrUnknownFormat is returned for a manifest format that is not supported.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Entry describes one converted language.
type Entry struct {
	MetaFile   string   `json:"meta_file"`
	Extensions []string `json:"extensions"`
}

// Manifest maps display names to entries.
type Manifest map[string]Entry

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case FormatExtensions, FormatStatLang:
		return format, nil
	case "":
		return FormatExtensions, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DisplayName is the language identifier with its first letter upper-cased.
func DisplayName(id string) string {
	first, size := utf8.DecodeRuneInString(id)
	if size == 0 {
		return id
	}

	return string(unicode.ToUpper(first)) + id[size:]
}

// Extensions returns "." + id followed by "." + alias for each alias, in order.
func Extensions(id string, aliases []string) []string {
	extensions := make([]string, 0, len(aliases)+1)
	extensions = append(extensions, "."+id)

	for _, alias := range aliases {
		extensions = append(extensions, "."+alias)
	}

	return extensions
}

// NewEntry builds the entry of a language backed by the artifact named id.
func NewEntry(id string, aliases []string) Entry {
	return Entry{MetaFile: id, Extensions: Extensions(id, aliases)}
}

// Linguist appends the extensions GitHub linguist knows for the language,
// resolved by id first and then by each alias. Known extensions are not repeated.
func Linguist(entry Entry, id string, aliases []string) Entry {
	language, ok := resolveLinguist(id, aliases)
	if !ok {
		return entry
	}

	extensions := slices.Clone(entry.Extensions)

	for _, ext := range enry.GetLanguageExtensions(language) {
		if !slices.Contains(extensions, ext) {
			extensions = append(extensions, ext)
		}
	}

	entry.Extensions = extensions

	return entry
}

func resolveLinguist(id string, aliases []string) (string, bool) {
	for _, name := range append([]string{id}, aliases...) {
		language, ok := enry.GetLanguageByAlias(name)
		if ok {
			return language, true
		}
	}

	return "", false
}

// Add records the entry under the display name of id. A later language with
// the same display name replaces the earlier one.
func (m Manifest) Add(id string, entry Entry) string {
	name := DisplayName(id)
	m[name] = entry

	return name
}

// Names lists the display names, sorted.
func (m Manifest) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

type statLangEntry struct {
	MetaFile string   `json:"meta_file"`
	Globs    []string `json:"globs"`
}

type statLangDocument struct {
	StatLang struct {
		Languages map[string]statLangEntry `json:"languages"`
	} `json:"stat_lang"`
}

// Encode renders the manifest as indented JSON in the given layout.
func Encode(m Manifest, format Format) ([]byte, error) {
	var doc any

	switch format {
	case FormatExtensions, "":
		if m == nil {
			m = Manifest{}
		}

		doc = m
	case FormatStatLang:
		doc = toStatLang(m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	return buf.Bytes(), nil
}

func toStatLang(m Manifest) statLangDocument {
	var doc statLangDocument

	doc.StatLang.Languages = make(map[string]statLangEntry, len(m))

	for name, entry := range m {
		globs := make([]string, 0, len(entry.Extensions))

		for _, ext := range entry.Extensions {
			globs = append(globs, "*"+ext)
		}

		doc.StatLang.Languages[name] = statLangEntry{MetaFile: entry.MetaFile, Globs: globs}
	}

	return doc
}

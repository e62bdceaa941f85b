package mode

import (
	"strings"
)

// DefaultKeywordCategory is the category a bare word-list keyword table is filed under.
const DefaultKeywordCategory = "keyword"

// Keywords is a keyword table: either a bare word list or a mapping from
// category name to word list. Word lists are space separated; a word may carry
// a |N relevance suffix or be joined to others with |.
type Keywords struct {
	Words      string
	Categories map[string]string
}

// Meta is the normalized keyword table of an output artifact: category name to member list.
type Meta map[string][]string

// WordList returns a bare word-list keyword table.
func WordList(words string) *Keywords {
	return &Keywords{Words: words}
}

// Categorized returns a keyword table with named categories.
func Categorized(categories map[string]string) *Keywords {
	return &Keywords{Categories: categories}
}

// Normalize wraps a bare word list into a one-category mapping and splits
// every category into its member words.
func (k *Keywords) Normalize() Meta {
	if k == nil {
		return nil
	}

	if k.Categories == nil {
		return Meta{DefaultKeywordCategory: SplitWords(k.Words)}
	}

	meta := make(Meta, len(k.Categories))

	for category, words := range k.Categories {
		meta[category] = SplitWords(words)
	}

	return meta
}

// SplitWords splits a keyword word list into members, in order.
// "class|10" yields "class"; "and|or" yields "and", "or".
func SplitWords(list string) []string {
	words := make([]string, 0, strings.Count(list, " ")+1)

	for _, field := range strings.Fields(list) {
		word, rest, found := strings.Cut(field, "|")
		if found && isRelevance(rest) {
			if word != "" {
				words = append(words, word)
			}

			continue
		}

		for part := range strings.SplitSeq(field, "|") {
			if part != "" {
				words = append(words, part)
			}
		}
	}

	return words
}

func isRelevance(text string) bool {
	if text == "" {
		return false
	}

	for idx := range len(text) {
		if text[idx] < '0' || text[idx] > '9' {
			return false
		}
	}

	return true
}

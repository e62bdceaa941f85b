package grammar

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// YAML tags understood in source grammar files.
const (
	tagPattern = "!re"
	tagRef     = "!ref"
)

// Keys with special meaning in source grammar files.
const (
	keyRef     = "$ref"
	keyInherit = "inherit"
	keyPattern = "pattern"
	keyFlags   = "flags"

	// selfReference marks a recursive child; it has no portable form.
	selfReference = "self"
)

// Decode parses a YAML or JSON grammar definition into its root rule.
//
// Besides the plain highlight.js field names, a definition may use:
//   - `!re /body/flags` or {pattern: body, flags: f} for delimited pattern literals;
//   - `$ref: NAME` or `!ref NAME` to use a helper mode such as C_LINE_COMMENT_MODE;
//   - `inherit: NAME` plus fields, to override a helper mode;
//   - YAML anchors and aliases to share rules inside one file.
func Decode(data []byte, lib *hljs.Library) (*mode.Node, error) {
	if lib == nil {
		lib = hljs.New()
	}

	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
	}

	dec := decoder{lib: lib}

	return dec.node(doc.Content[0], "$")
}

type decoder struct {
	lib *hljs.Library
}

func (d decoder) node(value *yaml.Node, path string) (*mode.Node, error) {
	value = resolveAlias(value)

	if value.Tag == tagRef {
		return d.ref(value.Value, path)
	}

	if value.Kind != yaml.MappingNode {
		return nil, d.fail(path, value, "expected a mapping")
	}

	var base *mode.Node

	result := &mode.Node{}

	for idx := 0; idx+1 < len(value.Content); idx += 2 {
		key := value.Content[idx].Value
		field := resolveAlias(value.Content[idx+1])
		fieldPath := path + "." + key

		var err error

		switch key {
		case keyRef, keyInherit:
			base, err = d.ref(field.Value, fieldPath)
		default:
			err = d.field(result, key, field, fieldPath)
		}

		if err != nil {
			return nil, err
		}
	}

	if base != nil {
		return d.lib.Inherit(base, result), nil
	}

	return result, nil
}

//nolint:cyclop,gocyclo // one case per highlight.js field
func (d decoder) field(target *mode.Node, key string, value *yaml.Node, path string) error {
	var err error

	switch key {
	case "className":
		target.ClassName, err = scalar(value, path)
	case "begin":
		target.Begin, err = d.pattern(value, path)
	case "end":
		target.End, err = d.pattern(value, path)
	case "illegal":
		target.Illegal, err = d.pattern(value, path)
	case "lexemes":
		target.Lexemes, err = d.pattern(value, path)
	case "contains":
		target.Contains, err = d.children(value, path)
	case "variants":
		target.Variants, err = d.variants(value, path)
	case "keywords":
		target.Keywords, err = d.keywords(value, path)
	case "case_insensitive":
		target.CaseInsensitive = new(bool)
		err = value.Decode(target.CaseInsensitive)
	case "aliases":
		err = value.Decode(&target.Aliases)
	case "relevance":
		target.Relevance = new(int)
		err = value.Decode(target.Relevance)
	case "endsWithParent":
		err = value.Decode(&target.EndsWithParent)
	case "returnBegin":
		err = value.Decode(&target.ReturnBegin)
	case "beginKeywords":
		target.BeginKeywords, err = scalar(value, path)
	default:
		var extra any

		err = value.Decode(&extra)
		if err == nil {
			if target.Extra == nil {
				target.Extra = make(map[string]any)
			}

			target.Extra[key] = extra
		}
	}

	if err != nil && !errors.Is(err, ErrInvalidDefinition) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
	}

	return err
}

func (d decoder) pattern(value *yaml.Node, path string) (*mode.Pattern, error) {
	switch {
	case value.Kind == yaml.ScalarNode && value.Tag == tagPattern:
		pattern, err := mode.ParseLiteral(value.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
		}

		return pattern, nil
	case value.Kind == yaml.ScalarNode:
		return mode.Plain(value.Value), nil
	case value.Kind == yaml.MappingNode:
		var literal struct {
			Pattern string `yaml:"pattern"`
			Flags   string `yaml:"flags"`
		}

		err := value.Decode(&literal)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
		}

		return mode.Literal(literal.Pattern, literal.Flags), nil
	default:
		return nil, d.fail(path, value, "expected a pattern")
	}
}

func (d decoder) children(value *yaml.Node, path string) ([]*mode.Node, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, d.fail(path, value, "expected a sequence of rules")
	}

	children := make([]*mode.Node, 0, len(value.Content))

	for idx, item := range value.Content {
		item = resolveAlias(item)
		itemPath := fmt.Sprintf("%s[%d]", path, idx)

		if item.Kind == yaml.ScalarNode && item.Tag != tagRef {
			if item.Value == selfReference {
				continue
			}

			child, err := d.ref(item.Value, itemPath)
			if err != nil {
				return nil, err
			}

			children = append(children, child)

			continue
		}

		child, err := d.node(item, itemPath)
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return children, nil
}

func (d decoder) variants(value *yaml.Node, path string) ([]*mode.Node, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, d.fail(path, value, "expected a sequence of variants")
	}

	variants := make([]*mode.Node, 0, len(value.Content))

	for idx, item := range value.Content {
		variant, err := d.node(item, fmt.Sprintf("%s[%d]", path, idx))
		if err != nil {
			return nil, err
		}

		variants = append(variants, variant)
	}

	return variants, nil
}

func (d decoder) keywords(value *yaml.Node, path string) (*mode.Keywords, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		return mode.WordList(value.Value), nil
	case yaml.MappingNode:
		categories := make(map[string]string, len(value.Content)/2)

		for idx := 0; idx+1 < len(value.Content); idx += 2 {
			category := value.Content[idx].Value

			words, err := wordList(resolveAlias(value.Content[idx+1]), path+"."+category)
			if err != nil {
				return nil, err
			}

			categories[category] = words
		}

		return mode.Categorized(categories), nil
	default:
		return nil, d.fail(path, value, "expected a word list or a mapping of word lists")
	}
}

func (d decoder) ref(name, path string) (*mode.Node, error) {
	node, err := d.lib.Mode(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
	}

	return node, nil
}

func (d decoder) fail(path string, value *yaml.Node, msg string) error {
	return fmt.Errorf("%w: %s (line %d): %s", ErrInvalidDefinition, path, value.Line, msg)
}

// wordList accepts either a space separated string or a sequence of words.
func wordList(value *yaml.Node, path string) (string, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Value, nil
	case yaml.SequenceNode:
		var words []string

		err := value.Decode(&words)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
		}

		return strings.Join(words, " "), nil
	default:
		return "", fmt.Errorf("%w: %s (line %d): expected words", ErrInvalidDefinition, path, value.Line)
	}
}

func scalar(value *yaml.Node, path string) (string, error) {
	if value.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: %s (line %d): expected a string", ErrInvalidDefinition, path, value.Line)
	}

	return value.Value, nil
}

func resolveAlias(value *yaml.Node) *yaml.Node {
	for value != nil && value.Kind == yaml.AliasNode {
		value = value.Alias
	}

	return value
}

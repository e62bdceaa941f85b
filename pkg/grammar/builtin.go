package grammar

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
)

// sourceBuiltin is the Definition.Source of grammars built in Go.
const sourceBuiltin = "builtin"

// BuiltinStore serves grammars from Go builder functions.
type BuiltinStore struct {
	lib      *hljs.Library
	builders map[string]Builder
}

// NewBuiltinStore creates a store over builders, keyed by language identifier.
func NewBuiltinStore(lib *hljs.Library, builders map[string]Builder) *BuiltinStore {
	if lib == nil {
		lib = hljs.New()
	}

	return &BuiltinStore{lib: lib, builders: maps.Clone(builders)}
}

// IDs lists the languages the store can build, sorted.
func (s *BuiltinStore) IDs() []string {
	return slices.Sorted(maps.Keys(s.builders))
}

// Load implements Store. A panicking builder is reported as ErrBuilderFailed.
func (s *BuiltinStore) Load(ctx context.Context, id string) (def *Definition, err error) {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return nil, fmt.Errorf("load %s: %w", id, ctxErr)
	}

	build, ok := s.builders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			def = nil
			err = fmt.Errorf("%w: %s: %v", ErrBuilderFailed, id, recovered)
		}
	}()

	root := build(s.lib)
	if root == nil {
		return nil, fmt.Errorf("%w: %s: builder returned no root", ErrInvalidDefinition, id)
	}

	return &Definition{ID: id, Root: root, Source: sourceBuiltin}, nil
}

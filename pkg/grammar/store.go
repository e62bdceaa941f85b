// Package grammar loads source grammar definitions from their backing stores.
package grammar

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// Sentinel errors for grammar loading.
var (
	ErrNotFound          = errors.New("grammar not found")
	ErrBuilderFailed     = errors.New("grammar builder failed")
	ErrInvalidDefinition = errors.New("invalid grammar definition")
)

// Definition is one source grammar, ready to be converted.
type Definition struct {
	ID     string
	Root   *mode.Node
	Source string
}

// Aliases returns the alternative names the grammar declares on its root.
func (d *Definition) Aliases() []string {
	if d == nil || d.Root == nil {
		return nil
	}

	return slices.Clone(d.Root.Aliases)
}

// Builder constructs the root rule of a grammar from the shared helper library.
type Builder func(lib *hljs.Library) *mode.Node

// Store loads grammar definitions by language identifier.
type Store interface {
	Load(ctx context.Context, id string) (*Definition, error)
}

// ChainStore asks each store in turn; the first one that knows the language wins.
type ChainStore struct {
	stores []Store
}

// NewChainStore creates a store that falls through the given stores in order.
func NewChainStore(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

// Load implements Store.
func (c *ChainStore) Load(ctx context.Context, id string) (*Definition, error) {
	for _, store := range c.stores {
		def, err := store.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}

		return def, err
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

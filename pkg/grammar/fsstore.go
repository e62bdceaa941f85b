package grammar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
)

// definitionExtensions are tried in order when looking up a language file.
var definitionExtensions = []string{".yaml", ".yml", ".json"}

// FSStore serves grammars from definition files named after the language
// identifier, e.g. python.yaml or python.json.
type FSStore struct {
	fsys fs.FS
	lib  *hljs.Library
}

// NewFSStore creates a store reading definition files from the root of fsys.
func NewFSStore(fsys fs.FS, lib *hljs.Library) *FSStore {
	if lib == nil {
		lib = hljs.New()
	}

	return &FSStore{fsys: fsys, lib: lib}
}

// Load implements Store.
func (s *FSStore) Load(ctx context.Context, id string) (*Definition, error) {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return nil, fmt.Errorf("load %s: %w", id, ctxErr)
	}

	if !fs.ValidPath(id) || path.Base(id) != id {
		return nil, fmt.Errorf("%w: %q is not a language identifier", ErrInvalidDefinition, id)
	}

	for _, ext := range definitionExtensions {
		name := id + ext

		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		root, err := Decode(data, s.lib)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}

		return &Definition{ID: id, Root: root, Source: name}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

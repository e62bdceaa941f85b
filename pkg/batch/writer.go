package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const (
	artifactExtension   = ".json"
	compressedExtension = ".lz4"
	tmpExtension        = ".tmp"

	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrArtifactNotFound is returned when an artifact has not been written.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactWriter persists encoded artifacts.
type ArtifactWriter interface {
	// WriteArtifact stores data under id and returns where it went and how
	// many bytes were stored.
	WriteArtifact(ctx context.Context, id string, data []byte) (location string, size int64, err error)
}

// DirWriter writes one file per artifact into a directory, atomically.
type DirWriter struct {
	dir      string
	compress bool
}

// DirOption configures a DirWriter.
type DirOption func(*DirWriter)

// WithCompression stores artifacts as LZ4 frames with a .json.lz4 name.
func WithCompression(enabled bool) DirOption {
	return func(w *DirWriter) {
		w.compress = enabled
	}
}

// NewDirWriter creates a writer targeting dir. The directory is created on first write.
func NewDirWriter(dir string, opts ...DirOption) *DirWriter {
	w := &DirWriter{dir: dir}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Path is where the artifact of id is written.
func (w *DirWriter) Path(id string) string {
	name := id + artifactExtension
	if w.compress {
		name += compressedExtension
	}

	return filepath.Join(w.dir, name)
}

// WriteArtifact implements ArtifactWriter.
func (w *DirWriter) WriteArtifact(ctx context.Context, id string, data []byte) (string, int64, error) {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return "", 0, fmt.Errorf("write %s: %w", id, ctxErr)
	}

	payload := data

	if w.compress {
		compressed, err := compress(data)
		if err != nil {
			return "", 0, fmt.Errorf("compress %s: %w", id, err)
		}

		payload = compressed
	}

	mkdirErr := os.MkdirAll(w.dir, dirPerm)
	if mkdirErr != nil {
		return "", 0, fmt.Errorf("create output dir: %w", mkdirErr)
	}

	path := w.Path(id)

	err := WriteFileAtomic(path, payload)
	if err != nil {
		return "", 0, err
	}

	return path, int64(len(payload)), nil
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	tmpPath := path + tmpExtension

	fd, createErr := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if createErr != nil {
		return fmt.Errorf("create %s: %w", tmpPath, createErr)
	}

	_, writeErr := fd.Write(data)
	if writeErr != nil {
		fd.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("write %s: %w", tmpPath, writeErr)
	}

	syncErr := fd.Sync()
	if syncErr != nil {
		fd.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("sync %s: %w", tmpPath, syncErr)
	}

	closeErr := fd.Close()
	if closeErr != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("close %s: %w", tmpPath, closeErr)
	}

	renameErr := os.Rename(tmpPath, path)
	if renameErr != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("rename %s: %w", path, renameErr)
	}

	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := lz4.NewWriter(&buf)

	_, err := zw.Write(data)
	if err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadArtifact reads an artifact file, decompressing .lz4 files.
func ReadArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !strings.HasSuffix(path, compressedExtension) {
		return data, nil
	}

	plain, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	return plain, nil
}

// MemoryWriter keeps artifacts in memory, keyed by language identifier.
type MemoryWriter struct {
	mu        sync.Mutex
	artifacts map[string][]byte
}

// NewMemoryWriter creates an empty in-memory writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{artifacts: make(map[string][]byte)}
}

// WriteArtifact implements ArtifactWriter.
func (w *MemoryWriter) WriteArtifact(ctx context.Context, id string, data []byte) (string, int64, error) {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return "", 0, fmt.Errorf("write %s: %w", id, ctxErr)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.artifacts[id] = bytes.Clone(data)

	return id + artifactExtension, int64(len(data)), nil
}

// Artifact returns the bytes written for id.
func (w *MemoryWriter) Artifact(id string) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, ok := w.artifacts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, id)
	}

	return bytes.Clone(data), nil
}

// Artifacts returns a copy of everything written.
func (w *MemoryWriter) Artifacts() map[string][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()

	return maps.Clone(w.artifacts)
}

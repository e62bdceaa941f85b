// Package schema provides the embedded JSON schemas of hlconv output documents
// and validation against them.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// FS contains the embedded JSON schemas.
//
//go:embed artifact-schema.json manifest-schema.json statlang-schema.json
var FS embed.FS

// Document names one kind of output document.
type Document string

// Document kinds, each backed by an embedded schema.
const (
	Artifact Document = "artifact"
	Manifest Document = "manifest"
	StatLang Document = "statlang"
)

// ErrInvalidDocument is returned when a document does not match its schema.
var ErrInvalidDocument = errors.New("document does not match schema")

// ErrUnknownDocument is returned for a document kind without a schema.
var ErrUnknownDocument = errors.New("unknown document kind")

// maxReportedErrors caps how many schema violations are folded into an error message.
const maxReportedErrors = 3

var files = map[Document]string{
	Artifact: "artifact-schema.json",
	Manifest: "manifest-schema.json",
	StatLang: "statlang-schema.json",
}

var (
	compileOnce sync.Once
	compiled    map[Document]*gojsonschema.Schema
	compileErr  error
)

// Documents lists the known document kinds.
func Documents() []Document {
	return []Document{Artifact, Manifest, StatLang}
}

// Bytes returns the raw embedded schema of doc.
func Bytes(doc Document) ([]byte, error) {
	name, ok := files[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, doc)
	}

	return FS.ReadFile(name)
}

// Loader returns a gojsonschema loader for the embedded schema of doc.
func Loader(doc Document) (gojsonschema.JSONLoader, error) {
	data, err := Bytes(doc)
	if err != nil {
		return nil, err
	}

	return gojsonschema.NewBytesLoader(data), nil
}

func compile() (map[Document]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[Document]*gojsonschema.Schema, len(files))

		for _, doc := range Documents() {
			loader, err := Loader(doc)
			if err != nil {
				compileErr = err

				return
			}

			schema, err := gojsonschema.NewSchema(loader)
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", doc, err)

				return
			}

			compiled[doc] = schema
		}
	})

	return compiled, compileErr
}

// Validate checks data against the schema of doc and returns the full result.
func Validate(doc Document, data []byte) (*gojsonschema.Result, error) {
	schemas, err := compile()
	if err != nil {
		return nil, err
	}

	schema, ok := schemas[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, doc)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", doc, err)
	}

	return result, nil
}

// Check validates data against the schema of doc, reporting violations as ErrInvalidDocument.
func Check(doc Document, data []byte) error {
	result, err := Validate(doc, data)
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	return fmt.Errorf("%w: %s: %s", ErrInvalidDocument, doc, Summarize(result.Errors()))
}

// Summarize renders the first few violations as one line.
func Summarize(violations []gojsonschema.ResultError) string {
	parts := make([]string, 0, maxReportedErrors)

	for idx, violation := range violations {
		if idx == maxReportedErrors {
			parts = append(parts, fmt.Sprintf("and %d more", len(violations)-maxReportedErrors))

			break
		}

		parts = append(parts, violation.Field()+": "+violation.Description())
	}

	return strings.Join(parts, "; ")
}

// ValidateArtifact checks one converted grammar document.
func ValidateArtifact(data []byte) error {
	return Check(Artifact, data)
}

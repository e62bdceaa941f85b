// Package convert rewrites source grammar trees into the depth-bounded,
// class-validated artifacts the target highlighter loads.
//
// The conversion is one-way: it consumes source-shaped trees only and is not
// meant to be re-run on its own output.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// DefaultIdentifierPattern is used for the synthetic identifier rule when the
// grammar does not declare its own lexemes.
const DefaultIdentifierPattern = hljs.UnderscoreIdentRE

// Artifact is the converted form of one grammar.
type Artifact struct {
	Meta mode.Meta  `json:"meta,omitempty"`
	Root *mode.Node `json:"root"`
}

// Encode renders the artifact as indented JSON. Literal patterns lose their
// delimiters and flags here.
func (a *Artifact) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}

	return buf.Bytes(), nil
}

// Report summarizes what a conversion dropped.
type Report struct {
	// Rejected lists rules dropped for a class outside the allow-list.
	Rejected []Rejection
	// Dropped counts every rule removed during validation, rejected classes included.
	Dropped int
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger used for rejection diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		t.logger = logger
	}
}

// WithIdentifierPattern overrides DefaultIdentifierPattern.
func WithIdentifierPattern(pattern string) Option {
	return func(t *Transformer) {
		if pattern != "" {
			t.identifierPattern = pattern
		}
	}
}

// WithAllowedClasses replaces the class allow-list.
func WithAllowedClasses(classes []string) Option {
	return func(t *Transformer) {
		if len(classes) > 0 {
			t.allowed = classes
		}
	}
}

// Transformer converts grammar trees.
type Transformer struct {
	logger            *slog.Logger
	identifierPattern string
	allowed           []string
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		logger:            slog.Default(),
		identifierPattern: DefaultIdentifierPattern,
		allowed:           AllowedClasses(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}

	return t
}

// Grammar converts a grammar root into an artifact.
func (t *Transformer) Grammar(root *mode.Node) (*Artifact, Report) {
	run := t.newPass()

	node, meta := run.transform(root, 0)

	return &Artifact{Meta: meta, Root: node}, run.report()
}

// Transform converts node sitting at depth and returns the new node. Its
// children are filtered; node itself is not validated. At depth 0 the keyword
// table is discarded, use Grammar to keep it.
func (t *Transformer) Transform(node *mode.Node, depth int) (*mode.Node, Report) {
	run := t.newPass()

	out, _ := run.transform(node, depth)

	return out, run.report()
}

// pass holds the state of one conversion.
type pass struct {
	validator         *Validator
	identifierPattern string
	dropped           int
}

func (t *Transformer) newPass() *pass {
	return &pass{
		validator:         NewValidator(t.allowed, t.logger),
		identifierPattern: t.identifierPattern,
	}
}

func (p *pass) report() Report {
	return Report{Rejected: p.validator.Rejections(), Dropped: p.dropped}
}

// transform returns a rewritten copy of src; src is never modified.
func (p *pass) transform(src *mode.Node, depth int) (*mode.Node, mode.Meta) {
	if src == nil {
		return nil, nil
	}

	node := src.Clone()

	if depth == maxDepth {
		node.Contains = nil
	}

	if depth > 0 {
		node.Keywords = nil
	}

	node.StripNonPortable()
	node.Variants = nil

	if node.HasChildren() {
		node.Contains = p.children(node.Contains, depth)
	}

	var meta mode.Meta

	if node.Keywords != nil {
		meta = node.Keywords.Normalize()
		node.Keywords = nil
	}

	if depth == 0 {
		node.ClassName = RemapClass(node.ClassName)

		lexemes := mode.Plain(p.identifierPattern)
		if node.Lexemes != nil {
			lexemes = node.Lexemes
		}

		identifier := &mode.Node{ClassName: ClassIdentifier, Begin: lexemes}
		node.Contains = append([]*mode.Node{identifier}, node.Contains...)
	}

	node.Lexemes = nil

	return node, meta
}

// children expands variants, transforms each child one level deeper and keeps
// the ones that validate, in order.
func (p *pass) children(contains []*mode.Node, depth int) []*mode.Node {
	expanded := ExpandVariants(contains)
	kept := make([]*mode.Node, 0, len(expanded))

	for _, child := range expanded {
		out, _ := p.transform(child, depth+1)

		if !p.validator.IsRetained(out, depth+1) {
			p.dropped++

			continue
		}

		out.ClassName = RemapClass(out.ClassName)
		kept = append(kept, out)
	}

	return kept
}

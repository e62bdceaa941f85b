package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/hlconv/pkg/schema"
)

// kindAuto detects the document kind from its top-level keys.
const kindAuto = "auto"

// Validation errors.
var (
	ErrValidationFailed = errors.New("document failed validation")
	ErrInvalidJSON      = errors.New("invalid JSON")
	ErrUnknownKind      = errors.New("unknown document kind")
)

// validateOptions are the flags of the validate command.
type validateOptions struct {
	kind       string
	schemaPath string
	colorize   bool
	nocolor    bool
}

func validateCmd(flags *rootFlags) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file.json|file.json.lz4|->",
		Short: "Validate an artifact or manifest against its JSON schema",
		Long: `Validate checks a generated document against its embedded JSON schema.

The kind is detected from the document unless --kind is given: a top-level
"root" is an artifact, "stat_lang" a statlang manifest, anything else an
extensions manifest.

Examples:
  hlconv validate output/python.json
  hlconv validate --kind manifest output/manifest.json
  hlconv validate - < output/go.json
  hlconv validate --schema custom-schema.json output/lua.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts, flags.quiet)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", kindAuto, "document kind: auto, artifact, manifest or statlang")
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "path to a JSON schema replacing the embedded one")
	cmd.Flags().BoolVar(&opts.colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&opts.nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, inputPath string, opts *validateOptions, quiet bool) error {
	if opts.nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if opts.colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	data, label, err := loadInput(cmd.InOrStdin(), inputPath)
	if err != nil {
		return err
	}

	kind, err := documentKind(opts.kind, data)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	result, err := validateDocument(kind, opts.schemaPath, data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if result.Valid() {
		if !quiet {
			color.New(color.FgGreen).Fprintf(out, "%s is valid (%s)\n", kind, label)
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "%s validation failed (%s)\n", kind, label)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, verr := range result.Errors() {
		value := sanitizeForTerminal(fmt.Sprint(verr.Value()))
		color.New(color.FgRed).Fprintf(out, "  - %s: %s (got %s)\n", verr.Field(), verr.Description(), value)
	}

	return fmt.Errorf("%w: %s: %d errors", ErrValidationFailed, label, len(result.Errors()))
}

//nolint:nonamedreturns // named returns needed for gocritic unnamedResult
func loadInput(stdin io.Reader, inputPath string) (data []byte, label string, err error) {
	if inputPath == "-" {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, resolved, err := safeReadArtifact(inputPath)
	if err != nil {
		return nil, "", err
	}

	return data, resolved, nil
}

// documentKind resolves the requested kind, detecting it for kindAuto.
func documentKind(requested string, data []byte) (schema.Document, error) {
	var top map[string]json.RawMessage

	err := json.Unmarshal(data, &top)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	requested = strings.ToLower(strings.TrimSpace(requested))

	if requested != kindAuto {
		kind := schema.Document(requested)
		if !slices.Contains(schema.Documents(), kind) {
			return "", fmt.Errorf("%w: %q", ErrUnknownKind, requested)
		}

		return kind, nil
	}

	switch {
	case top["root"] != nil:
		return schema.Artifact, nil
	case top["stat_lang"] != nil:
		return schema.StatLang, nil
	default:
		return schema.Manifest, nil
	}
}

func validateDocument(kind schema.Document, schemaPath string, data []byte) (*gojsonschema.Result, error) {
	if schemaPath == "" {
		return schema.Validate(kind, data)
	}

	schemaBytes, _, err := safeReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	return result, nil
}


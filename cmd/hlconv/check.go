package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/batch"
	"github.com/Sumatoshi-tech/hlconv/pkg/config"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
)

// ErrDrift is returned by check when the output directory is out of date.
var ErrDrift = errors.New("generated output is out of date")

// Drift states.
const (
	driftMissing = "missing"
	driftChanged = "changed"
)

// drift describes one generated file that differs from a fresh conversion.
type drift struct {
	name    string
	state   string
	added   int
	removed int
	diffs   []diffmatchpatch.Diff
}

func checkCmd(flags *rootFlags) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the output directory matches a fresh conversion",
		Long: `Check converts the catalog in memory and compares every artifact and the
manifest with what is on disk, without writing anything. It fails when a file
is missing or differs, which makes it suitable for CI.

Run with -v to print line diffs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, flags, only)
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "check only these language identifiers")

	return cmd
}

func runCheck(cmd *cobra.Command, flags *rootFlags, only []string) error {
	ctx := cmd.Context()

	sess, err := openSession(cmd, flags, observability.ModeCheck, func(cfg *config.Config) {
		catalog := restrictCatalog(cfg.CatalogValue(), only)
		cfg.Catalog.Core = catalog.Core
		cfg.Catalog.Extra = catalog.Extra
	})
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	cfg := sess.cfg
	memory := batch.NewMemoryWriter()

	driver, err := sess.driver(memory)
	if err != nil {
		return err
	}

	report, err := driver.Run(ctx, cfg.CatalogValue())
	if err != nil {
		return err
	}

	onDisk := batch.NewDirWriter(cfg.Output.Dir, batch.WithCompression(cfg.Output.Compress))

	var drifts []drift

	for _, res := range report.Results {
		if !res.OK() {
			continue
		}

		fresh, artifactErr := memory.Artifact(res.ID)
		if artifactErr != nil {
			return artifactErr
		}

		d, compareErr := compareFile(onDisk.Path(res.ID), fresh)
		if compareErr != nil {
			return compareErr
		}

		if d != nil {
			drifts = append(drifts, *d)
		}
	}

	manifestDrift, err := compareManifest(cfg, report.Manifest)
	if err != nil {
		return err
	}

	if manifestDrift != nil {
		drifts = append(drifts, *manifestDrift)
	}

	out := cmd.OutOrStdout()

	if len(drifts) == 0 {
		if !sess.quiet {
			color.New(color.FgGreen).Fprintf(out, "Output is up to date (%d languages)\n", report.Converted())
		}

		return nil
	}

	printDrifts(out, drifts, flags.verbose)

	return fmt.Errorf("%w: %d files", ErrDrift, len(drifts))
}

func compareManifest(cfg *config.Config, m manifest.Manifest) (*drift, error) {
	path := cfg.ManifestPath()
	if path == config.StdoutPath {
		return nil, nil //nolint:nilnil // a streamed manifest has nothing on disk to compare.
	}

	format, err := manifest.ParseFormat(cfg.Manifest.Format)
	if err != nil {
		return nil, err
	}

	fresh, err := manifest.Encode(m, format)
	if err != nil {
		return nil, err
	}

	return compareFile(path, fresh)
}

// compareFile returns nil when the file at path holds exactly fresh.
func compareFile(path string, fresh []byte) (*drift, error) {
	current, err := batch.ReadArtifact(path)
	if errors.Is(err, batch.ErrArtifactNotFound) {
		return &drift{name: path, state: driftMissing}, nil
	}

	if err != nil {
		return nil, err
	}

	if bytes.Equal(current, fresh) {
		return nil, nil //nolint:nilnil // no drift.
	}

	diffs := lineDiff(string(current), string(fresh))
	d := &drift{name: path, state: driftChanged, diffs: diffs}

	for _, edit := range diffs {
		lines := strings.Count(edit.Text, "\n")

		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			d.added += lines
		case diffmatchpatch.DiffDelete:
			d.removed += lines
		case diffmatchpatch.DiffEqual:
		}
	}

	return d, nil
}

// lineDiff diffs two documents line by line and returns edits carrying the
// original line text.
func lineDiff(from, to string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(from, to)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCleanupMerge(dmp.DiffCleanupSemanticLossless(diffs))

	return dmp.DiffCharsToLines(diffs, lines)
}

func printDrifts(out io.Writer, drifts []drift, verbose bool) {
	color.New(color.FgRed).Fprintf(out, "Output is out of date (%d files)\n", len(drifts))

	for _, d := range drifts {
		if d.state == driftMissing {
			color.New(color.FgYellow).Fprintf(out, "  - %s: %s\n", d.name, d.state)

			continue
		}

		color.New(color.FgYellow).Fprintf(out, "  - %s: %s (+%d -%d lines)\n", d.name, d.state, d.added, d.removed)

		if verbose {
			printDiff(out, d.diffs)
		}
	}

	fmt.Fprintf(out, "\nRun hlconv convert to regenerate.\n")
}

func printDiff(out io.Writer, diffs []diffmatchpatch.Diff) {
	for _, edit := range diffs {
		prefix, paint := "", color.New(color.FgRed)

		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", color.New(color.FgGreen)
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
			continue
		}

		for line := range strings.Lines(edit.Text) {
			if !utf8.ValidString(line) {
				line = strings.ToValidUTF8(line, "?")
			}

			paint.Fprintf(out, "    %s%s", prefix, line)

			if !strings.HasSuffix(line, "\n") {
				fmt.Fprintln(out)
			}
		}
	}
}

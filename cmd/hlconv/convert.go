package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/batch"
	"github.com/Sumatoshi-tech/hlconv/pkg/config"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
)

// ErrLanguagesFailed is returned by convert --strict when any language failed.
var ErrLanguagesFailed = errors.New("languages failed to convert")

const manifestDirPerm = 0o755

// convertOptions are the command-line overrides of the configuration.
type convertOptions struct {
	inputDir  string
	noBuiltin bool
	outputDir string
	compress  bool
	manifest  string
	format    string
	linguist  bool
	noVerify  bool
	only      []string
	strict    bool
}

func convertCmd(flags *rootFlags) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every catalog language and write the manifest",
		Long: `Convert loads each language of the catalog, rewrites its grammar into an
artifact, writes <output-dir>/<id>.json and finally writes the manifest.

A language that fails to load, validate or write is reported and skipped.

Examples:
  hlconv convert
  hlconv convert --output-dir dist --compress
  hlconv convert --input-dir grammars --only python,go --manifest -
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "directory of <id>.yaml / <id>.json grammar definitions")
	cmd.Flags().BoolVar(&opts.noBuiltin, "no-builtin", false, "do not fall back to the built-in grammars")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "artifact directory")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "write LZ4-compressed .json.lz4 artifacts")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "manifest path, - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", "", "manifest format: extensions or statlang")
	cmd.Flags().BoolVar(&opts.linguist, "linguist", false, "add linguist extensions to manifest entries")
	cmd.Flags().BoolVar(&opts.noVerify, "no-validate", false, "skip the artifact schema check")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "convert only these language identifiers")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any language fails")

	return cmd
}

// apply copies the flags the user set onto cfg.
func (o *convertOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("input-dir") {
		cfg.Input.Dir = o.inputDir
	}

	if changed("no-builtin") {
		cfg.Input.Builtin = !o.noBuiltin
	}

	if changed("output-dir") {
		cfg.Output.Dir = o.outputDir
	}

	if changed("compress") {
		cfg.Output.Compress = o.compress
	}

	if changed("manifest") {
		cfg.Manifest.Path = o.manifest
	}

	if changed("format") {
		cfg.Manifest.Format = o.format
	}

	if changed("linguist") {
		cfg.Manifest.Linguist = o.linguist
	}

	if changed("no-validate") {
		cfg.Output.Validate = !o.noVerify
	}

	if len(o.only) > 0 {
		catalog := restrictCatalog(cfg.CatalogValue(), o.only)
		cfg.Catalog.Core = catalog.Core
		cfg.Catalog.Extra = catalog.Extra
	}
}

func runConvert(cmd *cobra.Command, flags *rootFlags, opts *convertOptions) error {
	ctx := cmd.Context()

	sess, err := openSession(cmd, flags, observability.ModeConvert, func(cfg *config.Config) {
		opts.apply(cmd, cfg)
	})
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	cfg := sess.cfg

	driver, err := sess.driver(batch.NewDirWriter(cfg.Output.Dir, batch.WithCompression(cfg.Output.Compress)))
	if err != nil {
		return err
	}

	report, runErr := driver.Run(ctx, cfg.CatalogValue())
	if runErr != nil {
		return runErr
	}

	format, err := manifest.ParseFormat(cfg.Manifest.Format)
	if err != nil {
		return err
	}

	data, err := manifest.Encode(report.Manifest, format)
	if err != nil {
		return err
	}

	manifestPath := cfg.ManifestPath()
	summaryOut := cmd.OutOrStdout()

	if manifestPath == config.StdoutPath {
		_, err = cmd.OutOrStdout().Write(data)
		summaryOut = cmd.ErrOrStderr()
	} else {
		err = writeManifest(manifestPath, data)
	}

	if err != nil {
		return err
	}

	sess.logger.InfoContext(ctx, "manifest written",
		"path", manifestPath, "languages", len(report.Manifest), "format", string(format))

	if !sess.quiet {
		printSummary(summaryOut, report)
	}

	failures := report.Failures()
	if opts.strict && len(failures) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrLanguagesFailed, len(failures), len(report.Results))
	}

	return nil
}

func writeManifest(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), manifestDirPerm)
	if err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	return batch.WriteFileAtomic(path, data)
}

func printSummary(out io.Writer, report *batch.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.DrawBorder = false

	tw.AppendHeader(table.Row{"Language", "Name", "Status", "Size", "Rejected", "Time"})

	var total int64

	for _, res := range report.Results {
		if !res.OK() {
			tw.AppendRow(table.Row{
				res.ID, res.DisplayName, color.RedString("failed"), "-", "-", res.Duration.Round(time.Microsecond),
			})

			continue
		}

		total += res.Size

		tw.AppendRow(table.Row{
			res.ID,
			res.DisplayName,
			color.GreenString("ok"),
			humanize.Bytes(uint64(res.Size)), //nolint:gosec // sizes are never negative.
			rejectedClasses(res),
			res.Duration.Round(time.Microsecond),
		})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d languages", len(report.Results)),
		"",
		fmt.Sprintf("%d ok", report.Converted()),
		humanize.Bytes(uint64(total)), //nolint:gosec // sizes are never negative.
		"",
		"",
	})

	tw.Render()

	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	fmt.Fprintf(out, "\nFailures:\n")

	for _, res := range failures {
		color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", res.ID, sanitizeForTerminal(res.Err.Error()))
	}
}

// rejectedClasses lists the distinct classes a language lost, in first-seen order.
func rejectedClasses(res batch.Result) string {
	if len(res.Rejected) == 0 {
		return "-"
	}

	seen := make(map[string]bool, len(res.Rejected))

	var classes []string

	for _, rejection := range res.Rejected {
		if !seen[rejection.Class] {
			seen[rejection.Class] = true
			classes = append(classes, rejection.Class)
		}
	}

	return strings.Join(classes, ",")
}

package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/grammar"
	"github.com/Sumatoshi-tech/hlconv/pkg/manifest"
	"github.com/Sumatoshi-tech/hlconv/pkg/observability"
)

// Catalog sections and source placeholders shown by list.
const (
	sectionCore   = "core"
	sectionExtra  = "extra"
	sourceMissing = "missing"
	sourceBroken  = "error"
)

// catalogRow is one line of the list table.
type catalogRow struct {
	id      string
	section string
	source  string
	aliases []string
}

func listCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog and where each grammar comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	sess, err := openSession(cmd, flags, observability.ModeCLI, nil)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	store := sess.store()
	catalog := sess.cfg.CatalogValue()

	rows := make([]catalogRow, 0, catalog.Len())

	for _, id := range catalog.IDs() {
		row := catalogRow{id: id, section: sectionExtra}
		if slices.Contains(catalog.Core, id) {
			row.section = sectionCore
		}

		def, loadErr := store.Load(ctx, id)

		switch {
		case loadErr == nil:
			row.source = def.Source
			row.aliases = def.Aliases()
		case errors.Is(loadErr, grammar.ErrNotFound):
			row.source = sourceMissing
		default:
			row.source = sourceBroken

			sess.logger.WarnContext(ctx, "grammar does not load", "language", id, "error", loadErr)
		}

		rows = append(rows, row)
	}

	printCatalog(cmd.OutOrStdout(), rows)

	return nil
}

func printCatalog(out io.Writer, rows []catalogRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.DrawBorder = false

	tw.AppendHeader(table.Row{"#", "Language", "Name", "Catalog", "Source", "Extensions"})

	available := 0

	for idx, row := range rows {
		source := row.source

		switch row.source {
		case sourceMissing:
			source = color.YellowString(row.source)
		case sourceBroken:
			source = color.RedString(row.source)
		default:
			available++
		}

		extensions := "-"
		if row.source != sourceMissing && row.source != sourceBroken {
			extensions = strings.Join(manifest.Extensions(row.id, row.aliases), " ")
		}

		tw.AppendRow(table.Row{idx + 1, row.id, manifest.DisplayName(row.id), row.section, source, extensions})
	}

	tw.AppendFooter(table.Row{
		"", fmt.Sprintf("Total: %d languages", len(rows)), "", "", fmt.Sprintf("%d available", available), "",
	})

	tw.Render()
}

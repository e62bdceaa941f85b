// Package main provides the hlconv CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/version"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	cfgFile string
	verbose bool
	quiet   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "hlconv",
		Short: "Convert highlight.js grammars into portable highlighter artifacts",
		Long: `hlconv converts highlight.js language grammars into depth-bounded,
class-validated JSON artifacts and writes a manifest describing them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is ./hlconv.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(convertCmd(flags))
	rootCmd.AddCommand(checkCmd(flags))
	rootCmd.AddCommand(listCmd(flags))
	rootCmd.AddCommand(validateCmd(flags))
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hlconv %s\n", version.String())
		},
	}

	return cmd
}

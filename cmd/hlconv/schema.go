package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hlconv/pkg/schema"
)

func schemaCmd() *cobra.Command {
	kinds := make([]string, 0, len(schema.Documents()))
	for _, doc := range schema.Documents() {
		kinds = append(kinds, string(doc))
	}

	cmd := &cobra.Command{
		Use:       "schema <" + strings.Join(kinds, "|") + ">",
		Short:     "Print an embedded JSON schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.Bytes(schema.Document(args[0]))
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmrdoc/internal/scaffold"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new documentation project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := scaffold.CreateProject(args[0])
			if err != nil {
				return fmt.Errorf("scaffold failed: %w", err)
			}
			for _, f := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", f)
			}
			success(cmd, "New project created in %s.", args[0])
			return nil
		},
	}
}

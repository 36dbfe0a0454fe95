package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmrdoc/internal/builder"
	"qmrdoc/internal/catalog"
)

func newTOCCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toc",
		Short: "Rewrite the table of contents of the index page",
		Long:  `Scan the models and replace the section between the start and end markers of the index page. Demo reports are not embedded.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cat, err := catalog.Build(builder.CatalogOptions(cfg, log))
			if err != nil {
				return fmt.Errorf("catalog failed: %w", err)
			}
			updated, err := builder.SpliceTOC(cfg, cat, log)
			if err != nil {
				return fmt.Errorf("table of contents update failed: %w", err)
			}
			if updated {
				success(cmd, "Updated %s with %d categories.", cfg.IndexFile, cat.Categories.Len())
			}
			return nil
		},
	}
}

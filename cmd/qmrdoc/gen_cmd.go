package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmrdoc/internal/builder"
)

func newGenCmd(root *rootOptions) *cobra.Command {
	var opts builder.BuildOptions
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Embed every demo report and rewrite the table of contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			res, err := builder.Build(cfg, opts, log)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			success(cmd, "Generated %d pages for %d models in %d categories.", res.Pages, res.Models, res.Categories)
			if res.PreviewPages > 0 {
				success(cmd, "Preview: %d pages in %s.", res.PreviewPages, cfg.PreviewPath())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.CleanDestination, "clean", false, "Remove previously generated pages first")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "Also render an HTML preview")
	cmd.Flags().BoolVar(&opts.Sanitize, "sanitize", false, "Strip scripts and unsafe attributes from the reports")
	cmd.Flags().BoolVar(&opts.SkipTOC, "no-toc", false, "Leave the index page untouched")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmrdoc/internal/embed"
)

func newEmbedCmd(root *rootOptions) *cobra.Command {
	var sanitize bool
	cmd := &cobra.Command{
		Use:   "embed <dst> <src> <title>",
		Short: "Embed one HTML report into a reStructuredText page",
		Long: `Extract the content of the HTML report at <src>, copy its images into the
static directory next to <dst> and write <dst> as a page titled <title>.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			emb := embed.New(cfg.StaticDir, log)
			emb.Sanitize = cfg.Sanitize || sanitize

			page, err := emb.Embed(args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("embedding failed: %w", err)
			}
			success(cmd, "Wrote %s with %d images.", args[0], len(page.Assets))
			return nil
		},
	}
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Strip scripts and unsafe attributes from the report")
	return cmd
}

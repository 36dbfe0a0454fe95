package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"qmrdoc/internal/builder"
	"qmrdoc/internal/catalog"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the models by category",
		Long:  `Scan the models directory and print every model with its category, display name and demo report.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			cat, err := catalog.Build(builder.CatalogOptions(cfg, log))
			if err != nil {
				return fmt.Errorf("catalog failed: %w", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cat.Models)
			}
			printCatalog(cmd, cat)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the model records as JSON")
	return cmd
}

// printCatalog lists the models of each category in first-seen order.
func printCatalog(cmd *cobra.Command, cat *catalog.Catalog) {
	out := cmd.OutOrStdout()
	for _, category := range cat.Categories.Values() {
		fmt.Fprintln(out, category)
		for _, m := range cat.ModelsIn(category) {
			demo := "-"
			if m.HasDemo {
				demo = m.DemoPath
			}
			fmt.Fprintf(out, "  %-20s %s  [%s]\n", m.Stem, m.Title(), demo)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Total: %d models in %d categories, %d with demos\n",
		len(cat.Models), cat.Categories.Len(), len(cat.Demos()))
}

package main

import (
	"github.com/spf13/cobra"

	"qmrdoc/internal/builder"
	"qmrdoc/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live-reloading HTML preview",
		Long:  `Build the documentation with a preview, serve it over HTTP and rebuild whenever a model, a demo report, the index page or the configuration changes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			build := func() error {
				// Reload so edits to the config file apply on the next build.
				cfg, _, err := root.load(cmd)
				if err != nil {
					return err
				}
				_, err = builder.Build(cfg, builder.BuildOptions{Preview: true}, log)
				return err
			}
			srv := server.New(server.Options{
				Port:   port,
				Root:   cfg.PreviewPath(),
				Watch:  []string{cfg.ModelsDir, cfg.DataDir, cfg.IndexFile, root.configPath},
				Ignore: func(p string) bool { return builder.IsGenerated(cfg, p) },
			}, build, log)
			return srv.Run()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 1313, "Port for the preview server")
	return cmd
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qmrdoc/internal/config"
	"qmrdoc/internal/logging"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	debug      bool
}

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "qmrdoc",
		Short: "qmrdoc generates the Sphinx pages for a model toolbox",
		Long: `qmrdoc scans a tree of model sources, embeds each model's HTML demo report
into a reStructuredText page and rewrites the table of contents of the
documentation index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "docs.yaml", "Path to the configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newEmbedCmd(opts))
	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newTOCCmd(opts))
	rootCmd.AddCommand(newGenCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newNewCmd())

	return rootCmd
}

// load reads the configuration, applies the logging flags and builds the
// logger for one command run. A missing config file means defaults.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, found, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	log := logging.New(cfg.Log, cmd.ErrOrStderr())
	if !found {
		log.Debug().Str("config", o.configPath).Msg("no config file, using defaults")
	}
	return cfg, log, nil
}

func success(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✅ %s\n", fmt.Sprintf(format, args...))
}

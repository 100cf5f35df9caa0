package cli

import (
	"github.com/spf13/cobra"

	"beam-website/internal/config"
	"beam-website/pkg/logger"
)

type rootOptions struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd builds the beam-website command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "beam-website",
		Short: "Beam Wallet marketing site",
		Long: `beam-website renders the Beam Wallet marketing site from the headless CMS.
It can serve the site over HTTP or export every route as static HTML.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			logger.Init(cfg.LogLevel, cfg.LogFormat)
			logger.Debug("Configuration loaded", map[string]interface{}{
				"environment": cfg.Environment,
				"config_file": opts.configFile,
				"cms":         cfg.CMSAPIURL,
			})
			opts.cfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json, toml or env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newBuildCmd(opts),
		newPurgeCacheCmd(opts),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// internal/cli/config.go
package cli

import (
	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// configCmd groups configuration inspection subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved application configuration",
}

// configShowCmd prints the fully resolved configuration, including defaults
// applied on top of the config file and flags.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig

		color.Cyan("Config file: %s", cfg.ConfigPath)
		color.Cyan("Cache dir:   %s", cfg.CachePath())
		color.Cyan("Log file:    %s", cfg.LogFilePath())

		if cfg.Debug {
			pp.Println(cfg)
			return nil
		}

		resolved := map[string]any{
			"ollamaBinary":      cfg.Binary(),
			"registryUrl":       cfg.Registry(),
			"cacheTtl":          cfg.CacheTTL().String(),
			"psRefreshInterval": cfg.PSRefreshInterval().String(),
			"httpTimeout":       cfg.HTTPTimeout().String(),
			"debug":             cfg.Debug,
		}
		pp.Println(resolved)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

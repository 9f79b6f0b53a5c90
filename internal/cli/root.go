// internal/cli/root.go
// Package cli provides the command-line surface for ollamadash. The bare
// command launches the interactive dashboard; subcommands cover config
// inspection.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/ollamadash/internal/appconfig"
	"github.com/mwiater/ollamadash/internal/cache"
	"github.com/mwiater/ollamadash/internal/logging"
	"github.com/mwiater/ollamadash/internal/ollamacli"
	"github.com/mwiater/ollamadash/internal/tui"
)

var (
	cfgFile       string
	flushCache    bool
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ollamadash",
	Short: "Terminal dashboard for local Ollama models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// If the user did not set a flag, copy the config value into the flag
		// so pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		if !cmd.Flags().Changed("log-file") {
			_ = cmd.Flags().Set("log-file", viper.GetString("logFile"))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig

		if flushCache {
			store := cache.New(cfg.CachePath(), cfg.CacheTTL())
			if err := store.Flush(); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			color.Yellow("Cache flushed: %s", cfg.CachePath())
			logging.Event("cache flushed: %s", cfg.CachePath())
		}

		// A completely absent binary is the one unrecoverable startup
		// condition; degraded states (daemon down etc.) surface inside the
		// dashboard instead.
		adapter := ollamacli.New(cfg.Binary())
		if err := adapter.CheckAvailable(context.Background()); err != nil {
			if errors.Is(err, ollamacli.ErrAdapterUnavailable) {
				return fmt.Errorf("ollama binary %q not found: %w", cfg.Binary(), err)
			}
		}

		return tui.Start(cfg)
	},
	SilenceUsage: true,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "path to the log file")
	rootCmd.Flags().BoolVar(&flushCache, "flush-cache", false, "delete all cached registry data before starting")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig points viper at the configured file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file if present and validates it.
// A missing file is fine: defaults and flags apply.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	if data, err := os.ReadFile(viper.ConfigFileUsed()); err == nil {
		if err := appconfig.ValidateJSON(data); err != nil {
			return err
		}
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

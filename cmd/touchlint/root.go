package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"touchlint-hq/touchlint/pkg/cli"
	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/telemetry/logging"
)

// defaultConfigFile is read when --config is not given. It may be absent.
const defaultConfigFile = ".touchlint.yaml"

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "touchlint",
	Short: "Touchlint - accessibility lint for React Native touchables",
	Long: `Touchlint checks JSX and TSX sources for touchable components that
assistive technology cannot reach.

Two rules are built in:
  - accessible-touchable: touchables must set accessible={true}
  - tsx-a11y-touchables:  touchables must set accessible, accessibilityLabel
                          and accessibilityRole

Runs can be recorded in a local SQLite history, and watch mode re-lints on
every change while serving health, metrics and the latest report over HTTP.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits with the lint exit code.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrViolations) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// setup loads the configuration and installs the logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	explicit := cmd.Flags().Changed("config")
	if err := config.Initialize(cfgFile, explicit); err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if err := cfg.CheckMinVersion(Version); err != nil {
		return cli.NewConfigError("lint.min_version", err.Error())
	}

	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     logCfg.Level,
		Format:    logCfg.Format,
		AddSource: logCfg.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	appLogger = logger
	slog.SetDefault(logger.Slog())

	slog.Debug("configuration loaded",
		"path", cfgFile,
		"explicit", explicit,
		"store_enabled", cfg.Store.Enabled,
	)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termhost/internal/shared/paths"
)

type rootOptions struct {
	configPath string
	logLevel   string

	config *config.Config
	logger *logging.Logger
}

// prepare loads configuration and builds the logger. Interactive commands
// log to stderr and stay quiet below warn unless asked otherwise.
func (r *rootOptions) prepare(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(r.configPath)
	if err != nil {
		return err
	}
	r.config = cfg

	level, output := cfg.Logging.Level, "stdout"
	if cmd.Name() != "serve" {
		level, output = "warn", "stderr"
	}
	if r.logLevel != "" {
		level = r.logLevel
	}

	logger, err := logging.New(logging.FromSettings(level, cfg.Logging.Development).WithOutput(output))
	if err != nil {
		return err
	}
	r.logger = logger
	return nil
}

func defaultConfigPath() string {
	if path := os.Getenv(config.FileEnv); path != "" {
		return path
	}
	path := paths.DefaultConfigFile()
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "termhost",
		Short:         "Terminal backend: PTY sessions and one-shot shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return opts.prepare(cmd)
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		if opts.logger != nil {
			opts.logger.Sync()
		}
	}

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newShellsCmd(opts))
	rootCmd.AddCommand(newAttachCmd(opts))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "termhost:", err)
		os.Exit(1)
	}
}

func logFatal(logger *logging.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

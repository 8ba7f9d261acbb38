package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cyra/apachelogs/internal/config"
	"github.com/cyra/apachelogs/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
	logJSON  bool
}

// NewRootCmd builds the apachelogs command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "apachelogs",
		Short: "Parse Apache access logs with their LogFormat",
		Long: `apachelogs compiles an Apache mod_log_config LogFormat string and uses it
to turn access log lines into structured records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "write diagnostics as JSON")

	root.AddCommand(
		newParseCmd(opts),
		newFormatsCmd(),
		newCompileCmd(),
		newVersionCmd(version),
	)
	return root
}

// Execute runs the command line and reports any error on stderr.
func Execute(ctx context.Context, version string) error {
	err := NewRootCmd(version).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apachelogs:", err)
	}
	return err
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (o *rootOptions) loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if o.cfgFile != "" {
		var err error
		if cfg, err = config.Load(o.cfgFile); err != nil {
			return nil, err
		}
	}
	override(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *rootOptions) applyLogging(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Logging.JSON = o.logJSON
	}
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:      cfg.Level,
		JSON:       cfg.JSON,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyra/apachelogs/internal/config"
	"github.com/cyra/apachelogs/internal/logging"
	"github.com/cyra/apachelogs/internal/logtail"
	"github.com/cyra/apachelogs/internal/output"
	"github.com/cyra/apachelogs/internal/pipeline"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	format        string
	follow        bool
	poll          bool
	ignoreInvalid bool
	output        string
	timeFormat    string
	fields        []string
	directives    bool
	encoding      string
	bytes         bool
	errors        string
	timezone      string
}

func newParseCmd(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse log files, or stdin when no paths are given",
		Long: `Parse access log lines and print one record per line.

Paths may contain ** globs, e.g. '/var/log/apache2/**/access*.log'. The
format is a predefined name (see "apachelogs formats") or a LogFormat string.`,
		Example: `  apachelogs parse -F combined /var/log/apache2/access.log
  tail -n 100 access.log | apachelogs parse -F '%h %l %u %t "%r" %>s %b' -o text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "F", "", "log format name or LogFormat string (default combined)")
	f.BoolVarP(&opts.follow, "follow", "f", false, "keep reading as the files grow")
	f.BoolVar(&opts.poll, "poll", false, "poll files for changes instead of using inotify")
	f.BoolVar(&opts.ignoreInvalid, "ignore-invalid", false, "skip lines that do not match the format")
	f.StringVarP(&opts.output, "output", "o", "", "output format: json, text")
	f.StringVar(&opts.timeFormat, "time-format", "", "strftime layout for timestamps")
	f.StringSliceVar(&opts.fields, "fields", nil, "only print these fields")
	f.BoolVar(&opts.directives, "directives", false, "include per-directive values in JSON output")
	f.StringVar(&opts.encoding, "encoding", "", "charset of logged strings, e.g. iso-8859-1")
	f.BoolVar(&opts.bytes, "bytes", false, "keep logged strings as raw bytes")
	f.StringVar(&opts.errors, "errors", "", "invalid byte handling when decoding: strict, replace")
	f.StringVar(&opts.timezone, "timezone", "", "zone for timestamps without an offset")
	return cmd
}

// overrides copies the flags the user set onto cfg.
func (o *parseOptions) overrides(cmd *cobra.Command, root *rootOptions, args []string) func(*config.Config) {
	return func(cfg *config.Config) {
		root.applyLogging(cmd, cfg)
		changed := cmd.Flags().Changed
		if len(args) > 0 {
			cfg.Input.Paths = args
		}
		if changed("follow") {
			cfg.Input.Follow = o.follow
		}
		if changed("poll") {
			cfg.Input.Poll = o.poll
		}
		if changed("format") {
			cfg.Parser.Format = o.format
		}
		if changed("ignore-invalid") {
			cfg.Parser.IgnoreInvalid = o.ignoreInvalid
		}
		if changed("encoding") {
			cfg.Parser.Encoding = o.encoding
		}
		if o.bytes {
			cfg.Parser.Encoding = "bytes"
		}
		if changed("errors") {
			cfg.Parser.Errors = o.errors
		}
		if changed("timezone") {
			cfg.Parser.Timezone = o.timezone
		}
		if changed("output") {
			cfg.Output.Format = o.output
		}
		if changed("time-format") {
			cfg.Output.TimeFormat = o.timeFormat
		}
		if changed("fields") {
			cfg.Output.Fields = o.fields
		}
		if changed("directives") {
			cfg.Output.Directives = o.directives
		}
	}
}

func runParse(cmd *cobra.Command, root *rootOptions, opts *parseOptions, args []string) error {
	override := opts.overrides(cmd, root, args)
	cfg, err := root.loadConfig(override)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	paths, err := logtail.Expand(cfg.Input.Paths)
	if err != nil {
		return err
	}

	renderer, err := output.New(cfg.Output.Format, cmd.OutOrStdout(), output.Options{
		TimeFormat: cfg.Output.TimeFormat,
		Fields:     cfg.Output.Fields,
		Directives: cfg.Output.Directives,
	})
	if err != nil {
		return err
	}

	store := config.NewStore(cfg)
	pipe, err := pipeline.New(store, logger)
	if err != nil {
		return err
	}
	logger.Debugf("log format %q compiled to %s", pipe.Parser().Format(), pipe.Parser().Pattern())

	ctx := cmd.Context()
	if cfg.Input.Follow {
		if root.cfgFile != "" {
			stop, err := config.WatchFile(root.cfgFile, store, override, logger)
			if err != nil {
				logger.Errorf("config watcher disabled: %v", err)
			} else {
				defer stop()
			}
		}
		stats, err := pipe.Follow(ctx, paths, cfg.Input.Poll, renderer.Render)
		logger.Infof("followed %d files: %d lines, %d parsed, %d skipped", len(paths), stats.Lines, stats.Parsed, stats.Skipped)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	for _, path := range paths {
		if err := parseFile(ctx, cmd, pipe, path, renderer, logger); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(ctx context.Context, cmd *cobra.Command, pipe *pipeline.Pipeline, path string, r output.Renderer, logger *logging.Logger) error {
	f, err := logtail.Open(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer f.Close()

	lr := logtail.NewLineReader(f)
	stats, err := pipe.Run(ctx, lr.All(), r.Render)
	logger.With("path", path).Infof("%d lines, %d parsed, %d skipped", stats.Lines, stats.Parsed, stats.Skipped)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := lr.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

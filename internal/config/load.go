package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cyra/apachelogs/internal/logging"
	"github.com/cyra/apachelogs/internal/parser"
	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates configuration from the provided path.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks c and fills in defaults. The log format is compiled, so a
// bad directive is reported here rather than on the first line.
func Validate(c *Config) error {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	for _, p := range c.Input.Paths {
		if p == "" {
			return fmt.Errorf("input.paths: empty path")
		}
		if p != "-" && !doublestar.ValidatePathPattern(p) {
			return fmt.Errorf("input.paths: bad pattern %q", p)
		}
	}
	if c.Input.Follow && len(c.Input.Paths) == 0 {
		return fmt.Errorf("input.follow requires input.paths")
	}

	if c.Parser.Format == "" {
		return fmt.Errorf("parser.format is required")
	}
	if _, err := c.Parser.Compile(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}

	switch c.Output.Format {
	case "":
		c.Output.Format = "json"
	case "json", "text":
	default:
		return fmt.Errorf("unsupported output.format %q", c.Output.Format)
	}

	return nil
}

// Options translates the parser section into parser options.
func (p ParserConfig) Options() ([]parser.Option, error) {
	var opts []parser.Option
	if p.Encoding != "" {
		opts = append(opts, parser.WithEncoding(p.Encoding))
	}
	if p.Errors != "" {
		opts = append(opts, parser.WithDecodeErrors(p.Errors))
	}
	if p.Timezone != "" {
		loc, err := time.LoadLocation(p.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone: %w", err)
		}
		opts = append(opts, parser.WithNaiveLocation(loc))
	}
	return opts, nil
}

// Compile builds the parser described by p. Format may name a predefined
// format.
func (p ParserConfig) Compile() (*parser.Parser, error) {
	opts, err := p.Options()
	if err != nil {
		return nil, err
	}
	return parser.New(parser.ResolveFormat(p.Format), opts...)
}

package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Input   InputConfig   `yaml:"input"`
	Parser  ParserConfig  `yaml:"parser"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig controls diagnostics written by apachelogs itself.
type LoggingConfig struct {
	Level      string `yaml:"level"` // e.g. "info", "debug"
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file,omitempty"` // rotated copy of the log, e.g. /var/log/apachelogs.log
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// InputConfig lists the access logs to read.
type InputConfig struct {
	Paths  []string `yaml:"paths"`  // files or ** globs; "-" or empty reads stdin
	Follow bool     `yaml:"follow"` // keep reading as the files grow
	Poll   bool     `yaml:"poll"`   // poll for changes instead of inotify
}

// ParserConfig selects the log format and how captured text is decoded.
type ParserConfig struct {
	Format        string `yaml:"format"`   // predefined name such as "combined", or a LogFormat string
	Encoding      string `yaml:"encoding"` // IANA charset, "bytes", or empty for raw
	Errors        string `yaml:"errors"`   // "strict" or "replace"
	IgnoreInvalid bool   `yaml:"ignore_invalid"`
	Timezone      string `yaml:"timezone"` // zone for times without an offset, e.g. "Europe/Berlin"
}

// OutputConfig controls how parsed entries are rendered.
type OutputConfig struct {
	Format     string   `yaml:"format"`      // "json" or "text"
	TimeFormat string   `yaml:"time_format"` // strftime layout; RFC 3339 when empty
	Fields     []string `yaml:"fields,omitempty"`
	Directives bool     `yaml:"directives"` // include the per-directive map in JSON output
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28},
		Parser:  ParserConfig{Format: "combined", Errors: "strict"},
		Output:  OutputConfig{Format: "json"},
	}
}

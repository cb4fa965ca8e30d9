// Package config provides configuration loading and validation for rdfmine.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration errors. They abort startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultLimitMB is the default per-file size limit.
const DefaultLimitMB = 500

// Config is the complete rdfmine configuration.
type Config struct {
	// Root is the folder holding one directory per dataset.
	Root string `yaml:"root"`
	// LogFile is the error log written during mining.
	LogFile string `yaml:"log_file"`
	// LimitMB skips files strictly larger than this many MiB.
	LimitMB int64 `yaml:"limit_mb"`
	// Resume skips datasets already flagged as mined.
	Resume bool `yaml:"resume"`
	// Dedup selects the deduplication and label-resolution strategy.
	Dedup bool `yaml:"dedup"`
	// Only restricts mining to dataset names matching one of these globs.
	Only []string `yaml:"only"`
	// MetricsFile receives Prometheus text-format counters after a run.
	MetricsFile string `yaml:"metrics_file"`
	// Parser bounds the work the triple source does per file.
	Parser ParserConfig `yaml:"parser"`
}

// ParserConfig configures the triple source limits. Zero keeps the parser
// default.
type ParserConfig struct {
	MaxLineBytes      int   `yaml:"max_line_bytes"`
	MaxStatementBytes int   `yaml:"max_statement_bytes"`
	MaxDepth          int   `yaml:"max_depth"`
	MaxTriples        int64 `yaml:"max_triples"`
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile: "rdfmine_errors.log",
		LimitMB: DefaultLimitMB,
	}
}

// Validate checks that the configuration can drive a run. Every failure
// wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: root is required", ErrInvalidConfig)
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("%w: root %s: %v", ErrInvalidConfig, c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: root %s is not a directory", ErrInvalidConfig, c.Root)
	}
	if c.LogFile == "" {
		return fmt.Errorf("%w: log_file is required", ErrInvalidConfig)
	}
	if info, err := os.Stat(c.LogFile); err == nil && info.IsDir() {
		return fmt.Errorf("%w: log_file %s is a directory", ErrInvalidConfig, c.LogFile)
	}
	if c.LimitMB <= 0 {
		return fmt.Errorf("%w: limit_mb must be positive", ErrInvalidConfig)
	}
	if c.Parser.MaxLineBytes < 0 || c.Parser.MaxStatementBytes < 0 || c.Parser.MaxDepth < 0 || c.Parser.MaxTriples < 0 {
		return fmt.Errorf("%w: parser limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Root != "" {
		c.Root = other.Root
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
	if other.LimitMB != 0 {
		c.LimitMB = other.LimitMB
	}
	if other.Resume {
		c.Resume = true
	}
	if other.Dedup {
		c.Dedup = true
	}
	if len(other.Only) > 0 {
		c.Only = other.Only
	}
	if other.MetricsFile != "" {
		c.MetricsFile = other.MetricsFile
	}

	// Parser
	if other.Parser.MaxLineBytes != 0 {
		c.Parser.MaxLineBytes = other.Parser.MaxLineBytes
	}
	if other.Parser.MaxStatementBytes != 0 {
		c.Parser.MaxStatementBytes = other.Parser.MaxStatementBytes
	}
	if other.Parser.MaxDepth != 0 {
		c.Parser.MaxDepth = other.Parser.MaxDepth
	}
	if other.Parser.MaxTriples != 0 {
		c.Parser.MaxTriples = other.Parser.MaxTriples
	}
}

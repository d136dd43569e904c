package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grouping modes for the consolidated output.
const (
	GroupBySite      = "vacunacion"
	GroupByResidence = "residencia"
	GroupByBoth      = "ambos"
)

// Output formats.
const (
	FormatXLSX    = "xlsx"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Config holds all runtime configuration for a consolidation run.
type Config struct {
	Dir     string // root directory holding year/municipality folders
	OutDir  string
	Vaccine string
	Pattern string // file glob, e.g. "*.xlsm"

	// Optional year/month filter applied after the merge.
	Year  string
	Month string

	GroupBy string // "vacunacion", "residencia" or "ambos"
	Format  string // "xlsx", "csv" or "parquet"

	Workers         int
	ContinueOnError bool

	StatsFile string // optional aggregate-statistics report path
	LogFormat string // "text" or "json"
	Verbose   bool   // debug-level logging with per-file detail

	Matching Matching
}

// yamlConfig is the on-disk YAML structure. Only the matching vocabulary is
// file-configurable; everything else comes from flags.
type yamlConfig struct {
	Matching Matching `yaml:"matching"`
}

// LoadFromFile reads a YAML config file and merges any non-empty matching
// vocabulary entries over the defaults.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Matching.merge(yc.Matching)
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("--dir is required")
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.Dir)
	}
	if c.Vaccine == "" {
		return fmt.Errorf("--vaccine must not be empty")
	}
	switch c.GroupBy {
	case GroupBySite, GroupByResidence, GroupByBoth:
	default:
		return fmt.Errorf("unknown --group %q (want %s, %s or %s)",
			c.GroupBy, GroupBySite, GroupByResidence, GroupByBoth)
	}
	switch c.Format {
	case FormatXLSX, FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("unknown --format %q (want %s, %s or %s)",
			c.Format, FormatXLSX, FormatCSV, FormatParquet)
	}
	if c.Workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents configuration data for the report generator.
type Config struct {
	InputFile          string `yaml:"input_file"`
	CSVOutputFile      string `yaml:"csv_output_file"`
	MarkdownOutputFile string `yaml:"markdown_output_file"`
	ExpectedPatchDate  string `yaml:"expected_patch_date"`
	LogLevel           string `yaml:"log_level"`
}

// DefaultConfig returns the fixed paths used when no configuration file is provided.
func DefaultConfig() Config {
	return Config{
		InputFile:          "validation_raw_results.json",
		CSVOutputFile:      "monthly_patching_report.csv",
		MarkdownOutputFile: "monthly_patching_report.md",
		LogLevel:           "info",
	}
}

// Load reads configuration from yaml file. Missing files fall back to defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.InputFile == "" {
		cfg.InputFile = DefaultConfig().InputFile
	}
	if cfg.CSVOutputFile == "" {
		cfg.CSVOutputFile = DefaultConfig().CSVOutputFile
	}
	if cfg.MarkdownOutputFile == "" {
		cfg.MarkdownOutputFile = DefaultConfig().MarkdownOutputFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultConfig().LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c Config) Validate() error {
	input := filepath.Clean(c.InputFile)
	csvPath := filepath.Clean(c.CSVOutputFile)
	mdPath := filepath.Clean(c.MarkdownOutputFile)
	if csvPath == mdPath {
		return fmt.Errorf("csv_output_file and markdown_output_file must differ (both %q)", c.CSVOutputFile)
	}
	if csvPath == input {
		return fmt.Errorf("csv_output_file must not overwrite input_file %q", c.InputFile)
	}
	if mdPath == input {
		return fmt.Errorf("markdown_output_file must not overwrite input_file %q", c.InputFile)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := c.PatchCutoff(); err != nil {
		return err
	}
	return nil
}

// PatchCutoff parses expected_patch_date. The zero time means no cutoff is configured.
func (c Config) PatchCutoff() (time.Time, error) {
	if c.ExpectedPatchDate == "" {
		return time.Time{}, nil
	}
	cutoff, err := dateparse.ParseAny(c.ExpectedPatchDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected_patch_date %q: %w", c.ExpectedPatchDate, err)
	}
	return cutoff, nil
}

// Package config loads refbuilder configuration from an optional YAML file,
// a .env file, and REFBUILDER_* environment variables. CLI flags are applied
// on top by the command layer.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tmorg/refbuilder/internal/errors"
)

// Config holds the settings for one conversion run.
type Config struct {
	// Input is the monolithic reference-manual HTML export.
	Input string `yaml:"input"`

	// Output is the root directory of the generated Markdown tree.
	Output string `yaml:"output"`

	// SectionLinks makes resolved links to section pages target the
	// section's index document.
	SectionLinks bool `yaml:"section_links"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input:        "info.html",
		Output:       "build",
		SectionLinks: true,
	}
}

// Load builds the effective configuration: defaults, then the YAML file (if
// present), then environment overrides. A missing config file is not an
// error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	// Populate the process environment from .env if one exists.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal,
					fmt.Sprintf("malformed configuration file %s", path))
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal,
				fmt.Sprintf("unreadable configuration file %s", path))
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "input path is empty")
	}
	if c.Output == "" {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "output directory is empty")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REFBUILDER_INPUT"); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv("REFBUILDER_OUTPUT"); v != "" {
		cfg.Output = v
	}
}

package main

import (
	"fmt"

	"github.com/kbukum/fluxkit/config"
	"github.com/kbukum/fluxkit/observability"
	"github.com/kbukum/fluxkit/tutorial"
	"github.com/kbukum/fluxkit/validation"
)

const serviceName = "fluxkit"

// Config is the fluxkit CLI configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Examples             tutorial.Config      `yaml:"examples" mapstructure:"examples"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Examples.ApplyDefaults()
	c.Telemetry.Environment = c.Environment
	if c.Telemetry.Enabled {
		c.Telemetry.ApplyDefaults()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Examples.Validate(); err != nil {
		return fmt.Errorf("config.examples: %w", err)
	}
	return validation.New().
		Custom(c.Telemetry.SampleRate >= 0 && c.Telemetry.SampleRate <= 1, "telemetry.sample_rate", "must be between 0 and 1").
		Validate()
}

// loadConfig reads the config file (searched when path is empty) and
// applies the --log-level override.
func loadConfig(path, logLevel string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg := &Config{}
	if err := config.Load(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return cfg, nil
}

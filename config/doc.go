// Package config loads fluxkit configuration from a YAML file, an optional
// .env file and the process environment.
//
// # Usage
//
//	var cfg CLIConfig
//	err := config.Load("fluxkit", &cfg, config.WithConfigFile(path))
//
// Environment variables carrying the service prefix override file values,
// with underscores standing for either nesting or word breaks
// (FLUXKIT_EXAMPLES_INTERVAL_PERIOD sets examples.interval_period).
package config

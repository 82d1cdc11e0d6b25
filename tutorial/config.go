package tutorial

import (
	"time"

	"github.com/kbukum/fluxkit/validation"
)

// DefaultNames are the names the user examples start from.
var DefaultNames = []string{
	"Andres Guzman",
	"Pedro Velasquez",
	"Diego Rodriguez",
	"Juan Lopez",
	"Bruce Lee",
	"Bruce Willis",
}

// DefaultComments are the comments of the user-comments examples.
var DefaultComments = []string{"Hola mundo!", "Adios mundo!", "Comentarios pruebas"}

// Config tunes the timed examples and the input data. Retries is nil when
// unset; an explicit 0 disables retrying.
type Config struct {
	IntervalPeriod time.Duration `yaml:"interval_period" mapstructure:"interval_period" validate:"gt=0"`
	DelayPeriod    time.Duration `yaml:"delay_period" mapstructure:"delay_period" validate:"gt=0"`
	Retries        *int          `yaml:"retries" mapstructure:"retries" validate:"omitempty,gte=0"`
	Limit          int64         `yaml:"limit" mapstructure:"limit" validate:"gt=0"`
	Names          []string      `yaml:"names" mapstructure:"names" validate:"min=1"`
	Comments       []string      `yaml:"comments" mapstructure:"comments"`
}

// DefaultConfig returns the tutorial's stock settings: one second
// periods, two retries and a limit of five.
func DefaultConfig() Config {
	c := Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.IntervalPeriod == 0 {
		c.IntervalPeriod = time.Second
	}
	if c.DelayPeriod == 0 {
		c.DelayPeriod = time.Second
	}
	if c.Retries == nil {
		n := 2
		c.Retries = &n
	}
	if c.Limit == 0 {
		c.Limit = 5
	}
	if len(c.Names) == 0 {
		c.Names = DefaultNames
	}
	if len(c.Comments) == 0 {
		c.Comments = DefaultComments
	}
}

// RetryCount returns the configured retries, or 0 when unset.
func (c Config) RetryCount() int {
	if c.Retries == nil {
		return 0
	}
	return *c.Retries
}

// Validate checks the config.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

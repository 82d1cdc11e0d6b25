// Package validation validates configuration and command input.
//
// Struct tag validation uses the validator library and reports fields by
// their config key:
//
//	type Config struct {
//	    Retries int `mapstructure:"retries" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors:
//
//	v := validation.New()
//	v.OneOf("example", name, known)
//	err := v.Validate()
//
// Both return an INVALID_INPUT *errors.AppError.
package validation

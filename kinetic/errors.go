package kinetic

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// ConfigError reports a single out-of-range tuning value.
type ConfigError struct {
	Field  string // Config field name, e.g. "Friction"
	Value  any    // Offending value
	Reason string // Human readable constraint
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("kinetic: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

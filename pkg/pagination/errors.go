package pagination

import (
	"errors"
	"fmt"
)

// ErrConfig matches every *ConfigError.
var ErrConfig = errors.New("invalid pagination configuration")

// ConfigError reports pagination settings that do not fit the responses
// of the API: a data key or key path that does not resolve, or a last link
// without a usable page parameter.
type ConfigError struct {
	// Field is the offending option, e.g. "data-key" or "param-page".
	Field string
	// Value is the option value.
	Value string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %q: %v", ErrConfig, e.Field, e.Value, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

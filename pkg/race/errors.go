package race

import (
	"errors"
	"strings"
)

var ErrInvalidConfiguration = errors.New("invalid race configuration")

// ConfigError lists every problem found in a race configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return ErrInvalidConfiguration.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func (e *ConfigError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ConfigError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

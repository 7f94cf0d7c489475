package layout

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("invalid layout configuration")
	ErrUnknownBlueprint = errors.New("unknown venue blueprint")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrInvalidLabel     = errors.New("invalid seat label")
)

// ConfigurationError is raised at build time for geometry that cannot be laid out
type ConfigurationError struct {
	Section string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("layout configuration: %s", e.Reason)
	}
	return fmt.Sprintf("layout configuration: section %q: %s", e.Section, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErr(section, format string, args ...interface{}) error {
	return &ConfigurationError{Section: section, Reason: fmt.Sprintf(format, args...)}
}

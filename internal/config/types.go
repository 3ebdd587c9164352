// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Timeout is a Go duration string ("30s", "5m"). The zero value means no timeout.
	Timeout string

	// InvalidTimeoutError is returned when a Timeout does not parse or is negative.
	InvalidTimeoutError struct {
		Value Timeout
		Cause error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// AcceptableExitCodes lists the exit codes treated as success (default [0]).
		AcceptableExitCodes []int `json:"acceptable_exit_codes" mapstructure:"acceptable_exit_codes" toml:"acceptable_exit_codes"`
		// ContainerEngine specifies whether to use "podman" or "docker"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine" toml:"container_engine"`
		// Encoding names the character encoding of child output; empty means UTF-8.
		Encoding string `json:"encoding" mapstructure:"encoding" toml:"encoding"`
		// Timeout bounds each run; empty means no timeout.
		Timeout Timeout `json:"timeout" mapstructure:"timeout" toml:"timeout"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and error chains
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}
)

// ExitCodes returns the acceptable exit codes as a set.
func (c Config) ExitCodes() types.ExitCodeSet {
	if c.AcceptableExitCodes == nil {
		return nil
	}
	set := make(types.ExitCodeSet, len(c.AcceptableExitCodes))
	for i, code := range c.AcceptableExitCodes {
		set[i] = types.ExitCode(code)
	}
	return set
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if err := c.ExitCodes().Validate(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := process.ValidateEncoding(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Timeout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle maps the scheme to a glamour style name.
func (cs ColorScheme) GlamourStyle() string {
	switch cs {
	case ColorSchemeDark, ColorSchemeLight:
		return string(cs)
	default:
		return "auto"
	}
}

// Error implements the error interface for InvalidTimeoutError.
func (e *InvalidTimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid timeout %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid timeout %q: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidTimeout for errors.Is() compatibility.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// String returns the string representation of the Timeout.
func (t Timeout) String() string { return string(t) }

// Duration parses the timeout. The zero value yields 0.
func (t Timeout) Duration() (time.Duration, error) {
	if strings.TrimSpace(string(t)) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(string(t)))
	if err != nil {
		return 0, &InvalidTimeoutError{Value: t, Cause: err}
	}
	if d < 0 {
		return 0, &InvalidTimeoutError{Value: t}
	}
	return d, nil
}

// IsValid returns whether the Timeout parses to a non-negative duration.
func (t Timeout) IsValid() (bool, []error) {
	if _, err := t.Duration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AcceptableExitCodes: []int{0},
		ContainerEngine:     ContainerEngineDocker,
		Encoding:            "",
		Timeout:             "",
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ExitCodeLaunchFailed is reported when the process could not be started and
// therefore never produced an exit status. No started process reports it.
const ExitCodeLaunchFailed ExitCode = -1

// signalExitBase is added to the signal number of a process killed by a
// signal, following the shell convention (SIGKILL reports 137).
const signalExitBase = 128

var (
	// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
	ErrInvalidExitCode = errors.New("invalid exit code")

	// ErrEmptyExitCodeSet is returned when an ExitCodeSet is explicitly empty.
	ErrEmptyExitCodeSet = errors.New("acceptable exit code set is empty")
)

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems. A process killed by a
	// signal reports 128 plus the signal number. Windows programs may exit
	// with larger values (NTSTATUS codes such as 0xC0000005); those are
	// reported as-is but cannot be listed in an ExitCodeSet.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}

	// ExitCodeSet is the set of exit codes a caller treats as success.
	// A nil set means "use the default", which is {0}.
	ExitCodeSet []ExitCode
)

// DefaultExitCodes returns a fresh copy of the default acceptable set {0}.
func DefaultExitCodes() ExitCodeSet { return ExitCodeSet{0} }

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// SignalExitCode returns the exit code reported for a process killed by sig.
func SignalExitCode(sig int) ExitCode { return ExitCode(signalExitBase + sig) }

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsTransient returns true if the exit code indicates a transient container
// engine error that may succeed on retry (codes 125 and 126).
func (c ExitCode) IsTransient() bool { return c == 125 || c == 126 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Contains reports whether code is acceptable. A nil set behaves as {0}.
func (s ExitCodeSet) Contains(code ExitCode) bool {
	if s == nil {
		return code == 0
	}
	return slices.Contains(s, code)
}

// OrDefault returns s, or the default set when s is nil.
func (s ExitCodeSet) OrDefault() ExitCodeSet {
	if s == nil {
		return DefaultExitCodes()
	}
	return s
}

// Clone returns an independent copy of the set, preserving nil.
func (s ExitCodeSet) Clone() ExitCodeSet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Validate checks every member. A non-nil empty set is rejected because no
// exit code could ever be acceptable.
func (s ExitCodeSet) Validate() error {
	if s != nil && len(s) == 0 {
		return ErrEmptyExitCodeSet
	}
	var errs []error
	for _, c := range s {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// String renders the set as "{0,1}".
func (s ExitCodeSet) String() string {
	parts := make([]string, 0, len(s.OrDefault()))
	for _, c := range s.OrDefault() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// ParseExitCodeSet parses integer strings into a set. An empty input yields nil.
func ParseExitCodeSet(values []string) (ExitCodeSet, error) {
	if len(values) == 0 {
		return nil, nil
	}
	set := make(ExitCodeSet, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("parse exit code %q: %w", v, err)
		}
		code := ExitCode(n)
		if err := code.Validate(); err != nil {
			return nil, err
		}
		if !slices.Contains(set, code) {
			set = append(set, code)
		}
	}
	return set, nil
}

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
	ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

	// ErrNotADirectory is returned when a working directory exists but is a file.
	ErrNotADirectory = errors.New("not a directory")
)

type (
	// FilesystemPath represents an absolute or relative filesystem path.
	// The zero value ("") means "unset" (for a working directory: inherit the
	// parent's). Non-zero values must not be whitespace-only.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// non-empty but whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsSet reports whether the path carries a value.
func (p FilesystemPath) IsSet() bool { return p != "" }

// Validate returns an error if the path is whitespace-only.
// The zero value is valid.
func (p FilesystemPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// ValidateDir validates the path and, when set, checks that it names an
// existing directory.
func (p FilesystemPath) ValidateDir() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsSet() {
		return nil
	}
	info, err := os.Stat(string(p))
	if err != nil {
		return fmt.Errorf("working directory %q: %w", p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %q: %w", p, ErrNotADirectory)
	}
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

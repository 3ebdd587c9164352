// SPDX-License-Identifier: MPL-2.0

package process

import (
	"errors"
	"fmt"
	"os"

	"mvdan.cc/sh/v3/shell"
)

// ErrInvalidCommandLine is returned when a command line cannot be split
// into words.
var ErrInvalidCommandLine = errors.New("invalid command line")

// ParseCommandLine splits a command line into an executable and its
// arguments using POSIX shell word rules: quotes, escapes, variable and tilde
// expansion. No shell is executed; command substitution is rejected.
// Variables are resolved from env first, then from the process environment.
func ParseCommandLine(line string, env map[string]string) (path string, args []string, err error) {
	fields, err := shell.Fields(line, func(name string) string {
		if v, ok := env[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w %q: %w", ErrInvalidCommandLine, line, err)
	}
	if len(fields) == 0 {
		return "", nil, ErrEmptyCommand
	}
	return fields[0], fields[1:], nil
}

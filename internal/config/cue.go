// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// maxConfigFileSize bounds the config file read before CUE compilation.
const maxConfigFileSize = 1 << 20

// formatCUEError flattens CUE errors into "<file>: <path>: <message>" lines.
func formatCUEError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		path := formatPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			lines = append(lines, path+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders ["ui", "color_scheme"] as "ui.color_scheme" and
// ["acceptable_exit_codes", "1"] as "acceptable_exit_codes[1]".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func checkFileSize(data []byte, filename string) error {
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxConfigFileSize)
	}
	return nil
}

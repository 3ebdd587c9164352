// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the process pipeline, the
// container collaborators and the CLI: exit codes, acceptable exit code sets
// and working directory paths.
//
// This package is a leaf dependency: it imports only the standard library.
package types

// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/procline/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/procline/config.cue on macOS, %APPDATA%\procline\config.cue
// on Windows), falling back to ./config.cue. An explicit file can be forced with --config.
// PROCLINE_* environment variables override file values.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before decoding.
package config

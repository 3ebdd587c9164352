// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/procline/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	// Zero-value paths mean "use the default".
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath types.FilesystemPath
		// BaseDir is where the ./config.cue fallback is looked up.
		BaseDir types.FilesystemPath
	}

	// InvalidLoadOptionsError collects the invalid LoadOptions fields.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Loaded is a configuration together with the file it came from.
	Loaded struct {
		Config *Config
		// Path is the file that was read, or "" when only defaults applied.
		Path types.FilesystemPath
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct{}
)

// Validate checks every path field; whitespace-only values are rejected.
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.BaseDir} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: types.FilesystemPath(path)}, nil
}

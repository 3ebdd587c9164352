// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invowk/procline/internal/issue"
	"github.com/invowk/procline/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "procline"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (PROCLINE_CONTAINER_ENGINE, PROCLINE_UI_VERBOSE).
	EnvPrefix = "PROCLINE"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the procline configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions resolves, validates and decodes the configuration. It
// returns the path of the file that was read, or "" when only defaults and
// environment overrides apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("acceptable_exit_codes", defaults.AcceptableExitCodes)
	v.SetDefault("container_engine", defaults.ContainerEngine)
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(resolvedPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(resolvedPath, fmt.Errorf("failed to parse config: %w", err))
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the values against 'procline config show'").
			WithSuggestion("Unset PROCLINE_* environment variables that may override the file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigPath picks the file to load: an explicit path (which must
// exist), then the config directory, then ./config.cue.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath.IsSet() {
		explicit := opts.ConfigFilePath.String()
		if !fileExists(explicit) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(explicit).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'procline config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", explicit)).
				BuildError()
		}
		return explicit, nil
	}

	cfgDir := opts.ConfigDirPath.String()
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	for _, candidate := range []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		filepath.Join(opts.BaseDir.String(), ConfigFileName+"."+ConfigFileExt),
	} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func loadError(path string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'procline config --help' for configuration options").
		Wrap(cause).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The file decodes to map[string]any rather than Config so that Viper keeps
// its defaults for omitted fields and environment overrides still apply.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config into configDirPath (or
// ConfigDir() when empty). An existing file is left untouched and reported
// with created == false.
func CreateDefaultConfig(configDirPath string) (path string, created bool, err error) {
	cfgDir := configDirPath
	if cfgDir == "" {
		if cfgDir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// procline configuration file\n")
	sb.WriteString("// Validated against the #Config schema; every field is optional.\n\n")

	codes := make([]string, len(cfg.AcceptableExitCodes))
	for i, c := range cfg.AcceptableExitCodes {
		codes[i] = fmt.Sprint(c)
	}
	fmt.Fprintf(&sb, "acceptable_exit_codes: [%s]\n", strings.Join(codes, ", "))
	fmt.Fprintf(&sb, "container_engine: %q\n", cfg.ContainerEngine)
	fmt.Fprintf(&sb, "encoding: %q\n", cfg.Encoding)
	fmt.Fprintf(&sb, "timeout: %q\n", cfg.Timeout)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders the configuration as TOML.
func GenerateTOML(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(out), nil
}

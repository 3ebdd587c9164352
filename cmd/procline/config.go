// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/procline/internal/config"
	"github.com/invowk/procline/internal/issue"
)

// errUnknownFormat is returned for an unsupported 'config show --format'.
var errUnknownFormat = errors.New("unknown output format")

// newConfigCommand creates the 'procline config' command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage procline configuration",
		Long: `Manage procline configuration.

Configuration is stored in:
  - Linux: ~/.config/procline/config.cue
  - macOS: ~/Library/Application Support/procline/config.cue
  - Windows: %APPDATA%\procline\config.cue

Every key can be overridden with a PROCLINE_ environment variable, for
example PROCLINE_CONTAINER_ENGINE=podman or PROCLINE_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfig(app, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", "text", "output format: text, cue or toml")
	cfgCmd.AddCommand(showCmd)

	var dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app, dir)
		},
	}
	initCmd.Flags().StringVar(&dir, "dir", "", "directory to create config.cue in (default is the user config directory)")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(app *App, format string) error {
	if app.cfgErr != nil {
		// Verbose mode renders the help from the error handler.
		var ae *issue.ActionableError
		if !app.verbose && errors.As(app.cfgErr, &ae) {
			fmt.Fprint(app.stderr, ae.Help(app.cfg.UI.ColorScheme.GlamourStyle()))
		}
		return app.cfgErr
	}

	switch format {
	case "cue":
		fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
		return nil
	case "toml":
		out, err := config.GenerateTOML(app.cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
		return nil
	case "text":
		writeConfigText(app.stdout, app.cfg, app.cfgPath.String())
		return nil
	default:
		return fmt.Errorf("%w %q (valid: text, cue, toml)", errUnknownFormat, format)
	}
}

func writeConfigText(w io.Writer, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	codes := make([]string, len(cfg.AcceptableExitCodes))
	for i, c := range cfg.AcceptableExitCodes {
		codes[i] = strconv.Itoa(c)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("acceptable_exit_codes"), valueStyle.Render(strings.Join(codes, ", ")))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(cfg.ContainerEngine.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("encoding"), valueOrUnset(valueStyle.Render(cfg.Encoding), cfg.Encoding == ""))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("timeout"), valueOrUnset(valueStyle.Render(cfg.Timeout.String()), cfg.Timeout == ""))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
}

func valueOrUnset(rendered string, unset bool) string {
	if unset {
		return SubtitleStyle.Render("(not set)")
	}
	return rendered
}

func initConfig(app *App, dir string) error {
	path, created, err := config.CreateDefaultConfig(dir)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Configuration file already exists:"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created configuration file:"), path)
	return nil
}

func showConfigPath(app *App) error {
	if app.cfgPath.IsSet() {
		fmt.Fprintln(app.stdout, app.cfgPath)
		return nil
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	fmt.Fprintf(app.stdout, "%s %s\n", path, SubtitleStyle.Render("(not created)"))
	return nil
}

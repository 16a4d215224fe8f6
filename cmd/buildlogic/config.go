// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/issue"
	"github.com/mardroemmar/buildlogic/internal/render"
)

// newConfigCommand creates the `buildlogic config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage buildlogic configuration",
		Long: `Manage buildlogic configuration.

Configuration is stored in:
  - Linux: ~/.config/buildlogic/config.cue
  - macOS: ~/Library/Application Support/buildlogic/config.cue
  - Windows: %APPDATA%\buildlogic\config.cue

Every key can be overridden with a BUILDLOGIC_ environment variable, for
example BUILDLOGIC_OUTPUT_FORMAT=json.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if format == "" || format == string(config.FormatText) {
				fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
				return nil
			}
			f, err := app.outputFormat(format)
			if err != nil {
				return err
			}
			return render.Encode(app.stdout, app.cfg, f)
		},
	}
	show.Flags().StringVar(&format, "format", "", "output format: text (CUE), json, yaml or toml")

	path := &cobra.Command{
		Use:         "path",
		Short:       "Show the configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := config.FilePath(config.LoadOptions{ConfigFilePath: app.flags.configPath})
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			fmt.Fprintln(app.stdout, p)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := config.WriteDefault(config.LoadOptions{ConfigFilePath: app.flags.configPath}, force)
			if errors.Is(err, config.ErrConfigExists) {
				return &ExitError{Code: ExitFailure, Err: issue.NewErrorContext().
					WithOperation("create configuration file").
					WithResource(p).
					WithSuggestion("Pass --force to overwrite it").
					Wrap(err).
					BuildError()}
			}
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			fmt.Fprintln(app.stdout, render.SuccessStyle.Render("✓ ")+"Created "+p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	cfgCmd.AddCommand(show, path, initCmd)
	return cfgCmd
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/issue"
	"github.com/mardroemmar/buildlogic/internal/render"
	"github.com/mardroemmar/buildlogic/pkg/buildfile"
)

func newInitCommand(app *App) *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init <root-name>",
		Short: "Create a starter settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := buildfile.StarterSettings(args[0])
			if err != nil {
				return usageErrorf("%w", err)
			}

			name := app.cfg.Build.SettingsFile
			if name == "" {
				name = buildfile.SettingsFileName
			}
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil && !force {
				return &ExitError{Code: ExitFailure, Err: issue.NewErrorContext().
					WithOperation("create settings file").
					WithResource(p).
					WithSuggestion("Pass --force to overwrite it").
					Wrap(fs.ErrExist).
					BuildError()}
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return &ExitError{Code: ExitFailure, Err: err}
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			if err := os.WriteFile(p, data, 0o644); err != nil {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("write settings file: %w", err)}
			}
			fmt.Fprintln(app.stdout, render.SuccessStyle.Render("✓ ")+"Created "+p)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "project root directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

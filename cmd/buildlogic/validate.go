// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/configure"
	"github.com/mardroemmar/buildlogic/internal/render"
)

func newValidateCommand(app *App) *cobra.Command {
	var (
		dir       string
		noPresets bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the build description without printing the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := app.configureOptions(dir, noPresets)
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			plan, err := configure.Run(cmd.Context(), opts)
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}

			applied := 0
			for _, m := range plan.Modules {
				applied += len(m.Applied)
			}
			fmt.Fprintln(app.stdout, render.SuccessStyle.Render("✓ ")+
				fmt.Sprintf("%s is valid: %d modules, %d conventions applied", plan.RootName, len(plan.Modules), applied))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "project root directory")
	cmd.Flags().BoolVar(&noPresets, "no-presets", false, "do not register the built-in conventions")
	return cmd
}

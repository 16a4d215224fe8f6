// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/issue"
	"github.com/mardroemmar/buildlogic/internal/render"
	"github.com/mardroemmar/buildlogic/pkg/convention"
)

type (
	conventionRow struct {
		Name     string   `json:"name" yaml:"name" toml:"name"`
		Source   string   `json:"source" yaml:"source" toml:"source"`
		Requires []string `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
		Actions  int      `json:"actions" yaml:"actions" toml:"actions"`
	}

	conventionList struct {
		Conventions []conventionRow `json:"conventions" yaml:"conventions" toml:"conventions"`
	}

	resolvedOrder struct {
		Convention string   `json:"convention" yaml:"convention" toml:"convention"`
		Order      []string `json:"order" yaml:"order" toml:"order"`
	}
)

func newConventionsCommand(app *App) *cobra.Command {
	var (
		dir       string
		format    string
		kinds     bool
		noPresets bool
	)
	cmd := &cobra.Command{
		Use:   "conventions [name]",
		Short: "List conventions, or show one convention's application order",
		Long: `List the registered conventions with their prerequisites.

With a name, print the order in which that convention and its prerequisites
are applied. With --kinds, print the supported action kinds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kinds {
				fmt.Fprintln(app.stdout, strings.Join(convention.Kinds(), "\n"))
				return nil
			}
			f, err := app.outputFormat(format)
			if err != nil {
				return err
			}
			s, err := app.prepare(cmd.Context(), dir, noPresets)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				order, err := s.Registry.Resolve(args[0])
				if err != nil {
					return &ExitError{Code: ExitFailure, Err: issue.NewErrorContext().
						WithOperation(fmt.Sprintf("resolve convention %q", args[0])).
						WithSuggestion("Run 'buildlogic conventions' to list the registered conventions").
						Wrap(err).
						BuildError()}
				}
				if f != config.FormatText {
					return render.Encode(app.stdout, resolvedOrder{Convention: args[0], Order: order}, f)
				}
				for i, name := range order {
					fmt.Fprintf(app.stdout, "%d. %s\n", i+1, render.ModuleStyle.Render(name))
				}
				return nil
			}

			var rows []conventionRow
			for _, name := range s.Registry.Names() {
				b, _ := s.Registry.Lookup(name)
				rows = append(rows, conventionRow{Name: b.Name, Source: b.Source, Requires: b.Requires, Actions: len(b.Actions)})
			}
			if f != config.FormatText {
				return render.Encode(app.stdout, conventionList{Conventions: rows}, f)
			}
			for _, r := range rows {
				line := render.ModuleStyle.Render(r.Name) + " " + render.SubtitleStyle.Render(r.Source)
				if len(r.Requires) > 0 {
					line += render.ValueStyle.Render(" requires " + strings.Join(r.Requires, ", "))
				}
				fmt.Fprintln(app.stdout, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "project root directory")
	cmd.Flags().StringVar(&format, "format", "", "output format: text, json, yaml or toml")
	cmd.Flags().BoolVar(&kinds, "kinds", false, "list the supported action kinds")
	cmd.Flags().BoolVar(&noPresets, "no-presets", false, "do not register the built-in conventions")
	return cmd
}

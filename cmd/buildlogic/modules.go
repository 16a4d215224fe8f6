// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/render"
	"github.com/mardroemmar/buildlogic/pkg/project"
)

type moduleRow struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Explicit bool   `json:"explicit_name" yaml:"explicit_name" toml:"explicit_name"`
	Root     bool   `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
}

// moduleList wraps rows so TOML output has a top-level table.
type moduleList struct {
	Modules []moduleRow `json:"modules" yaml:"modules" toml:"modules"`
}

func newModulesCommand(app *App) *cobra.Command {
	var dir, format string
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List registered modules and their external names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := app.outputFormat(format)
			if err != nil {
				return err
			}
			s, err := app.prepare(cmd.Context(), dir, false)
			if err != nil {
				return err
			}

			rows := []moduleRow{toRow(s.Registrar.Root(), true)}
			for _, d := range s.Registrar.Modules() {
				rows = append(rows, toRow(d, false))
			}
			if f != config.FormatText {
				return render.Encode(app.stdout, moduleList{Modules: rows}, f)
			}
			fmt.Fprint(app.stdout, modulesText(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "project root directory")
	cmd.Flags().StringVar(&format, "format", "", "output format: text, json, yaml or toml")
	return cmd
}

func toRow(d project.Descriptor, root bool) moduleRow {
	return moduleRow{Path: d.Path.String(), Name: d.Name.String(), Explicit: d.Explicit, Root: root}
}

func modulesText(rows []moduleRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Path))
	}
	var sb strings.Builder
	for _, r := range rows {
		note := ""
		switch {
		case r.Root:
			note = " (root)"
		case r.Explicit:
			note = " (explicit)"
		}
		sb.WriteString(render.ModuleStyle.Render(r.Path + strings.Repeat(" ", width-len(r.Path))))
		sb.WriteString("  ")
		sb.WriteString(r.Name)
		sb.WriteString(render.SubtitleStyle.Render(note))
		sb.WriteString("\n")
	}
	return sb.String()
}

// SPDX-License-Identifier: MPL-2.0

// Package render prints configuration plans as styled text or as JSON, YAML
// or TOML documents.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/configure"
	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
)

// ErrUnsupportedFormat is returned for formats render cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Plan writes plan to w in the given format.
func Plan(w io.Writer, plan *configure.Plan, format config.OutputFormat) error {
	if format == config.FormatText {
		_, err := io.WriteString(w, PlanText(plan))
		return err
	}
	return Encode(w, plan, format)
}

// Encode writes v as a JSON, YAML or TOML document.
func Encode(w io.Writer, v any, format config.OutputFormat) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.FormatTOML:
		enc := toml.NewEncoder(w).SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// PlanText renders plan for a terminal.
func PlanText(plan *configure.Plan) string {
	var sb strings.Builder

	header := TitleStyle.Render(plan.RootName)
	if plan.Project.Version != "" {
		header += " " + SubtitleStyle.Render(plan.Project.Group+":"+plan.Project.Version)
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	if plan.Project.Prerelease {
		sb.WriteString(WarningStyle.Render("prerelease version"))
		sb.WriteString("\n")
	}
	if plan.Signing.Enabled {
		sb.WriteString(SuccessStyle.Render("signing enabled (" + plan.Signing.KeySource + " key)"))
	} else {
		sb.WriteString(SubtitleStyle.Render("signing disabled"))
	}
	sb.WriteString("\n")

	for _, m := range plan.Modules {
		sb.WriteString("\n")
		writeModule(&sb, m)
	}
	return sb.String()
}

func writeModule(sb *strings.Builder, m configure.ModulePlan) {
	name := m.Name
	if m.Explicit && m.Path != "." {
		name += " (explicit)"
	}
	sb.WriteString(ModuleStyle.Render(m.Path))
	sb.WriteString(" ")
	sb.WriteString(SubtitleStyle.Render(name))
	sb.WriteString("\n")

	field := func(label string, values ...string) {
		if len(values) == 0 {
			return
		}
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(ValueStyle.Render(strings.Join(values, ", ")))
		sb.WriteString("\n")
	}

	cfg := m.Config
	field("applied", m.Applied...)
	if cfg == nil {
		return
	}
	field("plugins", cfg.Plugins...)
	field("repositories", cfg.Repositories...)
	field("compiler args", cfg.CompilerArgs...)
	if cfg.JavaTarget > 0 {
		field("java target", strconv.Itoa(cfg.JavaTarget))
	}
	field("dependencies", mapEach(cfg.Dependencies, func(d buildconfig.Dependency) string {
		return d.Configuration + " " + d.Coordinate
	})...)
	field("exclusions", mapEach(cfg.Exclusions, func(e buildconfig.Exclusion) string {
		return e.Configuration + " -" + e.Group
	})...)
	field("tasks", mapEach(cfg.Tasks, func(t buildconfig.Task) string { return t.Name })...)
	if cfg.TestLogger != "" {
		field("test logger", cfg.TestLogger)
	}
	field("javadoc", javadocValues(cfg.Javadoc)...)
	if p := cfg.Publication; p != nil {
		field("publication", p.GroupID+":"+p.ArtifactID+":"+p.Version)
	}
	if cfg.Signing.Enabled {
		field("signing", cfg.Signing.KeySource)
	}
}

func javadocValues(j buildconfig.Javadoc) []string {
	var out []string
	for _, o := range j.Options {
		out = append(out, o.Key+"="+o.Value)
	}
	if j.Encoding != "" {
		out = append(out, "encoding="+j.Encoding)
	}
	if j.Charset != "" && j.Charset != j.Encoding {
		out = append(out, "charset="+j.Charset)
	}
	return append(out, j.Links...)
}

func mapEach[T any](in []T, fn func(T) string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

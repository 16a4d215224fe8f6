// SPDX-License-Identifier: MPL-2.0

package configure

import (
	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
)

type (
	// Plan is the result of a configuration pass.
	Plan struct {
		RootName        string         `json:"root_name" yaml:"root_name" toml:"root_name"`
		Dir             string         `json:"dir" yaml:"dir" toml:"dir"`
		SettingsFile    string         `json:"settings_file" yaml:"settings_file" toml:"settings_file"`
		ConventionFiles []string       `json:"convention_files,omitempty" yaml:"convention_files,omitempty" toml:"convention_files,omitempty"`
		Project         ProjectSummary `json:"project" yaml:"project" toml:"project"`
		Signing         SigningSummary `json:"signing" yaml:"signing" toml:"signing"`
		// Modules starts with the root project, then follows declaration order.
		Modules []ModulePlan `json:"modules" yaml:"modules" toml:"modules"`
	}

	// ProjectSummary is the project metadata shown in a plan.
	ProjectSummary struct {
		Group       string `json:"group" yaml:"group" toml:"group"`
		Version     string `json:"version" yaml:"version" toml:"version"`
		Prerelease  bool   `json:"prerelease" yaml:"prerelease" toml:"prerelease"`
		Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
		License     string `json:"license,omitempty" yaml:"license,omitempty" toml:"license,omitempty"`
		JavaTarget  int    `json:"java_target" yaml:"java_target" toml:"java_target"`
	}

	// SigningSummary reports whether signing is enabled. It never carries
	// key material.
	SigningSummary struct {
		Enabled   bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
		KeySource string `json:"key_source,omitempty" yaml:"key_source,omitempty" toml:"key_source,omitempty"`
	}

	// ModulePlan is the configuration of one module.
	ModulePlan struct {
		Path     string `json:"path" yaml:"path" toml:"path"`
		Name     string `json:"name" yaml:"name" toml:"name"`
		Explicit bool   `json:"explicit_name" yaml:"explicit_name" toml:"explicit_name"`
		// Applied lists bundles in application order.
		Applied []string            `json:"applied,omitempty" yaml:"applied,omitempty" toml:"applied,omitempty"`
		Config  *buildconfig.Config `json:"config" yaml:"config" toml:"config"`
	}
)

func newPlan(s *Session) *Plan {
	desc := s.Description
	proj := desc.Settings.Project
	return &Plan{
		RootName:        desc.Settings.RootName,
		Dir:             desc.Dir,
		SettingsFile:    desc.SettingsFile,
		ConventionFiles: desc.ConventionFiles,
		Project: ProjectSummary{
			Group:       proj.Group,
			Version:     proj.Version,
			Prerelease:  metadata.IsPrerelease(proj.Version),
			Description: proj.Description,
			License:     proj.License,
			JavaTarget:  proj.EffectiveJavaTarget(),
		},
		Signing: SigningSummary{Enabled: s.Signing.Enabled, KeySource: s.Signing.KeySource},
	}
}

func (p *Plan) add(d project.Descriptor, t *convention.Target, applied []string) {
	p.Modules = append(p.Modules, ModulePlan{
		Path:     d.Path.String(),
		Name:     d.Name.String(),
		Explicit: d.Explicit,
		Applied:  applied,
		Config:   t.Config,
	})
}

// Module returns the plan entry for the module at path.
func (p *Plan) Module(path string) (ModulePlan, bool) {
	for _, m := range p.Modules {
		if m.Path == path {
			return m, true
		}
	}
	return ModulePlan{}, false
}

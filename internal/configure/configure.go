// SPDX-License-Identifier: MPL-2.0

// Package configure runs the configuration pass of a multi-module build.
//
// A pass loads the build description, registers every module, registers
// convention bundles and applies them, producing a Plan with the resulting
// build configuration of each module. A pass is single-threaded and stops at
// the first error.
package configure

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mardroemmar/buildlogic/internal/issue"
	"github.com/mardroemmar/buildlogic/pkg/buildfile"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/presets"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

type (
	// Options configures a pass.
	Options struct {
		// Dir is the project root. Empty means the working directory.
		Dir string
		// SettingsFile overrides buildfile.SettingsFileName.
		SettingsFile string
		// Presets registers the built-in bundles before build-logic files.
		Presets bool
		// Credentials are the signing values read at the process boundary.
		Credentials signing.Credentials
		// Logger receives step-by-step debug output. Nil discards it.
		Logger *log.Logger
	}

	// Session is a loaded build whose modules and bundles are registered
	// but not yet applied.
	Session struct {
		Description *buildfile.Description
		Registrar   *project.Registrar
		Registry    *convention.Registry
		Signing     signing.Decision

		logger  *log.Logger
		applied bool
	}
)

// Run prepares and applies the build at opts.Dir.
func Run(ctx context.Context, opts Options) (*Plan, error) {
	s, err := Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx)
}

// Prepare loads the build description, validates project metadata, resolves
// signing, registers every module and registers every bundle.
func Prepare(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}

	logger.Debug("loading build description", "dir", dir)
	desc, err := buildfile.Load(dir, buildfile.LoadOptions{SettingsFile: opts.SettingsFile})
	if err != nil {
		return nil, loadError(err, dir, opts.SettingsFile)
	}
	logger.Debug("build description loaded",
		"settings", desc.SettingsFile, "conventionFiles", len(desc.ConventionFiles), "bundles", len(desc.Bundles))

	if err := desc.Settings.Project.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate project metadata").
			WithResource(desc.SettingsFile).
			WithSuggestion("Fix the listed fields in the project block").
			Wrap(err).
			BuildError()
	}

	decision, err := signing.Resolve(opts.Credentials)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve signing credentials").
			WithResource("environment").
			WithSuggestion(fmt.Sprintf("Set both %s and %s, or neither", signing.KeyVar, signing.PasswordVar)).
			Wrap(err).
			BuildError()
	}
	logger.Debug("signing resolved", "enabled", decision.Enabled, "keySource", decision.KeySource)

	reg, err := registerModules(desc, logger)
	if err != nil {
		return nil, err
	}

	bundles, err := registerBundles(desc, opts.Presets, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		Description: desc,
		Registrar:   reg,
		Registry:    bundles,
		Signing:     decision,
		logger:      logger,
	}, nil
}

func loadError(err error, dir, settingsFile string) error {
	if settingsFile == "" {
		settingsFile = buildfile.SettingsFileName
	}
	ec := issue.NewErrorContext().
		WithOperation("load build description").
		WithResource(filepath.Join(dir, settingsFile))
	if issue.Classify(err) == issue.SettingsNotFoundId {
		ec.WithSuggestion("Run 'buildlogic init <root-name>' to create a starter settings file").
			WithSuggestion("Pass --dir to point at the project root")
	} else {
		ec.WithSuggestion("Run 'buildlogic conventions --kinds' to list the supported action kinds")
	}
	return ec.Wrap(err).BuildError()
}

func registerModules(desc *buildfile.Description, logger *log.Logger) (*project.Registrar, error) {
	reg, err := project.NewRegistrar(desc.Settings.RootName)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("register root project").
			WithResourcef("%s: root_name", desc.SettingsFile).
			Wrap(err).
			BuildError()
	}
	for i, m := range desc.Settings.Modules {
		d, err := reg.Register(m.Path, m.Name)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("register module").
				WithResourcef("%s: modules[%d] (%s)", desc.SettingsFile, i, m.Path).
				WithSuggestions(registerSuggestions(err)...).
				Wrap(err).
				BuildError()
		}
		logger.Debug("module registered", "path", d.Path, "name", d.Name, "explicit", d.Explicit)
	}
	reg.Close()
	return reg, nil
}

func registerSuggestions(err error) []string {
	switch issue.Classify(err) {
	case issue.ModuleNameCollisionId:
		return []string{"Give one of the modules an explicit name"}
	case issue.InvalidModulePathId:
		return []string{"Use a relative path inside the project root, such as \"currency\" or \"extras/time\""}
	case issue.InvalidModuleNameId:
		return []string{"Names start with a letter or digit and contain only letters, digits, '.', '_' and '-'"}
	}
	return nil
}

func registerBundles(desc *buildfile.Description, withPresets bool, logger *log.Logger) (*convention.Registry, error) {
	reg := convention.NewRegistry()
	if withPresets {
		if err := presets.Register(reg); err != nil {
			return nil, issue.WrapWithOperation(err, "register built-in conventions")
		}
		logger.Debug("presets registered", "count", reg.Len())
	}
	for _, b := range desc.Bundles {
		if err := reg.Register(b); err != nil {
			ec := issue.NewErrorContext().
				WithOperation("register convention").
				WithResource(b.Source).
				Wrap(err)
			if withPresets && b.Source != presets.Source {
				if existing, ok := reg.Lookup(b.Name); ok && existing.Source == presets.Source {
					ec.WithSuggestion("Rename the convention or run with --no-presets to replace the built-in one")
				}
			}
			return nil, ec.BuildError()
		}
		logger.Debug("convention registered", "name", b.Name, "source", b.Source)
	}
	return reg, nil
}

// Apply applies root conventions to the root project, then each module's
// conventions and dependencies in declaration order. A Session can be
// applied once.
func (s *Session) Apply(ctx context.Context) (*Plan, error) {
	if s.applied {
		return nil, fmt.Errorf("configuration pass already applied")
	}
	s.applied = true

	settings := s.Description.Settings
	plan := newPlan(s)

	root := s.Registrar.Root()
	rootTarget := convention.NewTarget(root, settings.Project, s.Signing)
	if err := s.applyAll(ctx, rootTarget, settings.RootConventions, "root_conventions"); err != nil {
		return nil, err
	}
	plan.add(root, rootTarget, s.Registry.Applied(root.Path))

	for i, m := range settings.Modules {
		d, ok := s.Registrar.Lookup(m.Path)
		if !ok {
			return nil, fmt.Errorf("internal error: module %q was not registered", m.Path)
		}
		target := convention.NewTarget(d, settings.Project, s.Signing)
		if err := s.applyAll(ctx, target, m.Conventions, fmt.Sprintf("modules[%d]", i)); err != nil {
			return nil, err
		}
		for _, dep := range m.Dependencies {
			target.Config.AddDependency(dep)
		}
		plan.add(d, target, s.Registry.Applied(d.Path))
	}
	return plan, nil
}

func (s *Session) applyAll(ctx context.Context, target *convention.Target, names []string, field string) error {
	for _, name := range names {
		applied, err := s.Registry.Apply(ctx, target, name)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return issue.NewErrorContext().
				WithOperation(fmt.Sprintf("apply convention %q", name)).
				WithResourcef("%s: %s (module %s)", s.Description.SettingsFile, field, target.Module.Name).
				WithSuggestions(applySuggestions(err)...).
				Wrap(err).
				BuildError()
		}
		s.logger.Debug("convention applied", "module", target.Module.Path, "requested", name, "newlyApplied", applied)
	}
	return nil
}

func applySuggestions(err error) []string {
	switch issue.Classify(err) {
	case issue.UnknownConventionId:
		return []string{
			"Run 'buildlogic conventions' to list the registered conventions",
			"Check the build-logic directory for a missing file",
		}
	case issue.ConventionCycleId:
		return []string{"Remove one of the requires entries in the cycle"}
	}
	return nil
}

// BundleSources maps each registered bundle name to where it was defined.
func (s *Session) BundleSources() map[string]string {
	out := make(map[string]string, s.Registry.Len())
	for _, name := range s.Registry.Names() {
		if b, ok := s.Registry.Lookup(name); ok {
			out[name] = b.Source
		}
	}
	return out
}

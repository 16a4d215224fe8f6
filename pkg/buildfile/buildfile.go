// SPDX-License-Identifier: MPL-2.0

// Package buildfile reads the declarative build description of a project:
// settings.cue at the project root and the convention files under its
// build-logic directory.
package buildfile

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/cueutil"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
)

const (
	// SettingsFileName is the default settings file at the project root.
	SettingsFileName = "settings.cue"
	// DefaultBuildLogicDir holds convention files unless settings override it.
	DefaultBuildLogicDir = "build-logic"
	// ConventionPattern selects convention files inside the build-logic directory.
	ConventionPattern = "**/*.cue"
)

var (
	//go:embed settings_schema.cue
	settingsSchema []byte

	//go:embed conventions_schema.cue
	conventionsSchema []byte

	// ErrSettingsNotFound is returned when the settings file does not exist.
	ErrSettingsNotFound = errors.New("settings file not found")
)

type (
	// Settings is the decoded settings.cue.
	Settings struct {
		RootName        string           `json:"root_name"`
		BuildLogic      string           `json:"build_logic,omitempty"`
		Project         metadata.Project `json:"project"`
		RootConventions []string         `json:"root_conventions,omitempty"`
		Modules         []ModuleSpec     `json:"modules,omitempty"`
	}

	// ModuleSpec declares one participating module.
	ModuleSpec struct {
		Path         string                   `json:"path"`
		Name         string                   `json:"name,omitempty"`
		Conventions  []string                 `json:"conventions,omitempty"`
		Dependencies []buildconfig.Dependency `json:"dependencies,omitempty"`
	}

	// ConventionFile is one decoded build-logic file.
	ConventionFile struct {
		Conventions []convention.BundleSpec `json:"conventions"`
	}

	// Description is a fully loaded build description.
	Description struct {
		// Dir is the project root.
		Dir          string
		SettingsFile string
		Settings     *Settings
		// Bundles are in file order, then declaration order within each file.
		Bundles []convention.Bundle
		// ConventionFiles are relative to Dir, sorted.
		ConventionFiles []string
	}

	// LoadOptions configures Load.
	LoadOptions struct {
		// SettingsFile overrides SettingsFileName, relative to the project root.
		SettingsFile string
	}
)

// BuildLogicDir returns the configured build-logic directory.
func (s *Settings) BuildLogicDir() string {
	if s.BuildLogic == "" {
		return DefaultBuildLogicDir
	}
	return s.BuildLogic
}

// Load reads settings and every convention file of the project at dir.
func Load(dir string, opts LoadOptions) (*Description, error) {
	name := opts.SettingsFile
	if name == "" {
		name = SettingsFileName
	}
	settingsPath := filepath.Join(dir, name)

	settings, err := ParseSettingsFile(settingsPath)
	if err != nil {
		return nil, err
	}

	files, err := DiscoverConventionFiles(dir, settings.BuildLogicDir())
	if err != nil {
		return nil, err
	}

	desc := &Description{
		Dir:             dir,
		SettingsFile:    settingsPath,
		Settings:        settings,
		ConventionFiles: files,
	}
	for _, rel := range files {
		bundles, err := ParseConventionFile(filepath.Join(dir, filepath.FromSlash(rel)), rel)
		if err != nil {
			return nil, err
		}
		desc.Bundles = append(desc.Bundles, bundles...)
	}
	return desc, nil
}

// ParseSettingsFile reads and decodes the settings file at p.
func ParseSettingsFile(p string) (*Settings, error) {
	res, err := cueutil.ParseFile[Settings](settingsSchema, p, "#Settings")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, p)
		}
		return nil, err
	}
	return res.Value, nil
}

// ParseSettings decodes settings content. filename is used in errors.
func ParseSettings(data []byte, filename string) (*Settings, error) {
	res, err := cueutil.ParseAndDecode[Settings](settingsSchema, data, "#Settings", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// DiscoverConventionFiles lists the convention files under buildLogic,
// relative to root and slash-separated. A missing directory yields no files.
func DiscoverConventionFiles(root, buildLogic string) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(buildLogic))
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build-logic path %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), ConventionPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover convention files in %s: %w", dir, err)
	}
	slices.Sort(matches)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, path.Join(filepath.ToSlash(buildLogic), m))
	}
	return out, nil
}

// ParseConventionFile reads the convention file at p. source names the file in
// bundle diagnostics.
func ParseConventionFile(p, source string) ([]convention.Bundle, error) {
	res, err := cueutil.ParseFile[ConventionFile](conventionsSchema, p, "#ConventionFile", cueutil.WithFilename(source))
	if err != nil {
		return nil, err
	}
	return res.Value.bundles(source)
}

// ParseConventions decodes convention file content.
func ParseConventions(data []byte, source string) ([]convention.Bundle, error) {
	res, err := cueutil.ParseAndDecode[ConventionFile](conventionsSchema, data, "#ConventionFile", cueutil.WithFilename(source))
	if err != nil {
		return nil, err
	}
	return res.Value.bundles(source)
}

func (f *ConventionFile) bundles(source string) ([]convention.Bundle, error) {
	out := make([]convention.Bundle, 0, len(f.Conventions))
	for _, spec := range f.Conventions {
		b, err := spec.Bundle(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		out = append(out, b)
	}
	return out, nil
}

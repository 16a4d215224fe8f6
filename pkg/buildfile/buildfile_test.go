// SPDX-License-Identifier: MPL-2.0

package buildfile

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/cueutil"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
)

const truthSettings = `
root_name: "truth-extensions"
project: {
	group:       "dev.mardroemmar"
	version:     "0.1.0"
	description: "Commonly wanted extensions for Truth."
	license:     "MIT"
	scm: { host: "github", organization: "Mardroemmar", repository: "truth-extensions", ci: true }
	developers: [{ id: "Proximyst", name: "Mariell Hoversholm", timezone: "Europe/Stockholm" }]
}
root_conventions: ["te.publishing"]
modules: [
	{ path: "bom" },
	{ path: "currency", conventions: ["te.java-conventions"], dependencies: [
		{ configuration: "api", coordinate: "com.google.truth:truth:1.1.3" },
	] },
]
`

const javaConventions = `
conventions: [{
	name: "te.java-conventions"
	requires: ["te.base-conventions"]
	actions: [
		{ kind: "compiler-arg", value: "-Xlint:all" },
		{ kind: "exclude-group", configuration: "testImplementation", group: "junit" },
	]
}]
`

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseSettings(t *testing.T) {
	t.Parallel()

	s, err := ParseSettings([]byte(truthSettings), "settings.cue")
	if err != nil {
		t.Fatalf("ParseSettings() error: %v", err)
	}
	if s.RootName != "truth-extensions" || s.BuildLogicDir() != DefaultBuildLogicDir {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.Project.SCM == nil || s.Project.SCM.Host != metadata.HostGitHub || !s.Project.SCM.CI {
		t.Errorf("SCM = %+v", s.Project.SCM)
	}
	if len(s.Modules) != 2 || s.Modules[1].Dependencies[0].Coordinate != "com.google.truth:truth:1.1.3" {
		t.Errorf("modules = %+v", s.Modules)
	}
	if err := s.Project.Validate(); err != nil {
		t.Errorf("decoded project does not validate: %v", err)
	}
}

func TestParseSettings_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing root name", `project: { group: "g", version: "1.0.0" }`},
		{"bad root name", `root_name: "has space", project: { group: "g", version: "1.0.0" }`},
		{"unknown host", `root_name: "r", project: { group: "g", version: "1.0.0", scm: { host: "svn", organization: "o", repository: "r" } }`},
		{"unknown field", `root_name: "r", project: { group: "g", version: "1.0.0" }, modulez: []`},
		{"module without path", `root_name: "r", project: { group: "g", version: "1.0.0" }, modules: [{ name: "x" }]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseSettings([]byte(tt.data), "settings.cue"); !errors.Is(err, cueutil.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestParseConventions(t *testing.T) {
	t.Parallel()

	bundles, err := ParseConventions([]byte(javaConventions), "build-logic/java.cue")
	if err != nil {
		t.Fatalf("ParseConventions() error: %v", err)
	}
	if len(bundles) != 1 {
		t.Fatalf("got %d bundles", len(bundles))
	}
	b := bundles[0]
	if b.Name != "te.java-conventions" || !slices.Equal(b.Requires, []string{"te.base-conventions"}) {
		t.Errorf("unexpected bundle: %+v", b)
	}
	if b.Source != "build-logic/java.cue" || len(b.Actions) != 2 || b.Actions[1].Kind() != convention.KindExcludeGroup {
		t.Errorf("unexpected bundle details: %+v", b)
	}
}

func TestParseConventions_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseConventions([]byte(`conventions: [{ name: "x", actions: [{ kind: "shell" }] }]`), "x.cue"); !errors.Is(err, cueutil.ErrValidation) {
		t.Errorf("unknown kind: expected ErrValidation, got %v", err)
	}

	_, err := ParseConventions([]byte(`conventions: [{ name: "x", actions: [{ kind: "plugin" }] }]`), "x.cue")
	var decodeErr *convention.ActionDecodeError
	if !errors.As(err, &decodeErr) || !errors.Is(err, convention.ErrEmptyValue) {
		t.Errorf("plugin without id: expected ActionDecodeError, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "settings.cue", truthSettings)
	writeFile(t, dir, "build-logic/java.cue", javaConventions)
	writeFile(t, dir, "build-logic/extra/docs.cue", `conventions: [{ name: "docs", actions: [{ kind: "javadoc-link", url: "https://example.com/api/" }] }]`)
	writeFile(t, dir, "build-logic/README.md", "not a convention file")

	desc, err := Load(dir, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	wantFiles := []string{"build-logic/extra/docs.cue", "build-logic/java.cue"}
	if !slices.Equal(desc.ConventionFiles, wantFiles) {
		t.Errorf("ConventionFiles = %v, want %v", desc.ConventionFiles, wantFiles)
	}
	var names []string
	for _, b := range desc.Bundles {
		names = append(names, b.Name)
	}
	if !slices.Equal(names, []string{"docs", "te.java-conventions"}) {
		t.Errorf("bundle names = %v", names)
	}
}

func TestLoad_CustomBuildLogicDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "settings.cue", `root_name: "r", build_logic: "gradle/logic", project: { group: "g", version: "1.0.0" }`)
	writeFile(t, dir, "gradle/logic/a.cue", `conventions: [{ name: "a" }]`)

	desc, err := Load(dir, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !slices.Equal(desc.ConventionFiles, []string{"gradle/logic/a.cue"}) {
		t.Errorf("ConventionFiles = %v", desc.ConventionFiles)
	}
}

func TestLoad_MissingSettings(t *testing.T) {
	t.Parallel()
	if _, err := Load(t.TempDir(), LoadOptions{}); !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}
}

func TestDiscoverConventionFiles_MissingDir(t *testing.T) {
	t.Parallel()
	files, err := DiscoverConventionFiles(t.TempDir(), DefaultBuildLogicDir)
	if err != nil || len(files) != 0 {
		t.Fatalf("got %v, %v; want no files and no error", files, err)
	}
}

func TestStarterSettings_Parses(t *testing.T) {
	t.Parallel()

	data, err := StarterSettings("my-lib")
	if err != nil {
		t.Fatal(err)
	}
	s, err := ParseSettings(data, "settings.cue")
	if err != nil {
		t.Fatalf("starter settings do not parse: %v", err)
	}
	if s.RootName != "my-lib" {
		t.Errorf("RootName = %q", s.RootName)
	}

	if _, err := StarterSettings("bad name"); err == nil {
		t.Error("expected error for invalid root name")
	}
}

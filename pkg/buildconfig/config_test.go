// SPDX-License-Identifier: MPL-2.0

package buildconfig

import (
	"slices"
	"testing"

	"github.com/mardroemmar/buildlogic/pkg/project"
)

func newTestConfig() *Config {
	return New(project.Descriptor{Path: "currency", Name: "truth-extensions-currency"})
}

func TestNew_RecordsModule(t *testing.T) {
	t.Parallel()
	c := newTestConfig()
	if c.Module.Path != "currency" || c.Module.Name != "truth-extensions-currency" {
		t.Errorf("unexpected module ref: %+v", c.Module)
	}
}

func TestMutators_AreIdempotent(t *testing.T) {
	t.Parallel()
	c := newTestConfig()

	steps := []struct {
		name string
		fn   func() bool
	}{
		{"plugin", func() bool { return c.ApplyPlugin("java") }},
		{"repository", func() bool { return c.AddRepository("mavenCentral") }},
		{"compiler arg", func() bool { return c.AddCompilerArg("-parameters") }},
		{"dependency", func() bool {
			return c.AddDependency(Dependency{Configuration: "api", Coordinate: "com.google.truth:truth:1.1.3"})
		}},
		{"exclusion", func() bool { return c.Exclude(Exclusion{Configuration: "testImplementation", Group: "junit"}) }},
		{"task", func() bool { return c.RegisterTask(Task{Name: "javadoc", Type: "Javadoc"}) }},
		{"javadoc option", func() bool { return c.SetJavadocOption("Xdoclint:none", "-quiet") }},
		{"javadoc encoding", func() bool { return c.SetJavadocEncoding("UTF-8", "UTF-8") }},
		{"javadoc link", func() bool { return c.AddJavadocLink("https://docs.oracle.com/javase/8/docs/api/") }},
		{"java target", func() bool { return c.SetJavaTarget(8) }},
		{"test logger", func() bool { return c.SetTestLoggerTheme("plain-parallel") }},
		{"signing", func() bool { return c.EnableSigning("in-memory") }},
		{"publication", func() bool {
			return c.SetPublication(Publication{GroupID: "dev.mardroemmar", ArtifactID: "x", Version: "0.1.0"})
		}},
	}

	for _, s := range steps {
		if !s.fn() {
			t.Errorf("%s: first application reported no change", s.name)
		}
		if s.fn() {
			t.Errorf("%s: second application reported a change", s.name)
		}
	}

	if len(c.Plugins) != 1 || len(c.Repositories) != 1 || len(c.CompilerArgs) != 1 ||
		len(c.Dependencies) != 1 || len(c.Exclusions) != 1 || len(c.Tasks) != 1 ||
		len(c.Javadoc.Options) != 1 || len(c.Javadoc.Links) != 1 {
		t.Errorf("duplicate entries recorded: %+v", c)
	}
}

func TestRegisterTask_KeepsFirstDefinition(t *testing.T) {
	t.Parallel()
	c := newTestConfig()
	c.RegisterTask(Task{Name: "docs", Type: "Javadoc"})
	c.RegisterTask(Task{Name: "docs", Type: "Other"})

	if len(c.Tasks) != 1 || c.Tasks[0].Type != "Javadoc" {
		t.Errorf("unexpected tasks: %+v", c.Tasks)
	}
	if !c.HasTask("docs") || c.HasTask("missing") {
		t.Error("HasTask mismatch")
	}
}

func TestSetJavadocOption_ReplacesValueInPlace(t *testing.T) {
	t.Parallel()
	c := newTestConfig()
	c.SetJavadocOption("a", "1")
	c.SetJavadocOption("b", "2")
	if !c.SetJavadocOption("a", "3") {
		t.Fatal("replacing a value reported no change")
	}

	want := []Option{{Key: "a", Value: "3"}, {Key: "b", Value: "2"}}
	if !slices.Equal(c.Javadoc.Options, want) {
		t.Errorf("options = %v, want %v", c.Javadoc.Options, want)
	}
}

func TestPlugins_KeepApplicationOrder(t *testing.T) {
	t.Parallel()
	c := newTestConfig()
	for _, id := range []string{"net.kyori.indra", "java", "jacoco", "java"} {
		c.ApplyPlugin(id)
	}
	want := []string{"net.kyori.indra", "java", "jacoco"}
	if !slices.Equal(c.Plugins, want) {
		t.Errorf("plugins = %v, want %v", c.Plugins, want)
	}
}

func TestSetPublication_DetectsChanges(t *testing.T) {
	t.Parallel()
	c := newTestConfig()
	base := Publication{
		GroupID:    "dev.mardroemmar",
		ArtifactID: "truth-extensions-currency",
		Version:    "0.1.0",
		SCM:        &SCM{URL: "https://github.com/Mardroemmar/truth-extensions"},
		Developers: []Developer{{ID: "Proximyst"}},
	}
	c.SetPublication(base)

	same := base
	same.SCM = &SCM{URL: "https://github.com/Mardroemmar/truth-extensions"}
	if c.SetPublication(same) {
		t.Error("equal publication reported a change")
	}

	changed := base
	changed.Developers = []Developer{{ID: "someone-else"}}
	if !c.SetPublication(changed) {
		t.Error("different developers reported no change")
	}
}

// SPDX-License-Identifier: MPL-2.0

package convention

import (
	"errors"
	"fmt"

	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

// Action kinds accepted in convention files.
const (
	KindPlugin          = "plugin"
	KindRepository      = "repository"
	KindCompilerArg     = "compiler-arg"
	KindExcludeGroup    = "exclude-group"
	KindDependency      = "dependency"
	KindTask            = "task"
	KindJavadocOption   = "javadoc-option"
	KindJavadocEncoding = "javadoc-encoding"
	KindJavadocLink     = "javadoc-link"
	KindJavaTarget      = "java-target"
	KindTestLoggerTheme = "test-logger-theme"
	KindPublication     = "publication"
	KindSigning         = "signing"
)

// ErrEmptyValue is returned by actions constructed without a required value.
var ErrEmptyValue = errors.New("required value is empty")

type (
	// Action is one configuration step of a bundle. Actions must be safe to
	// run against any module; the registry guarantees each is run at most
	// once per module.
	Action interface {
		Kind() string
		Apply(t *Target) error
	}

	// Target is the module an action configures, along with the
	// project-wide values actions may read.
	Target struct {
		Module  project.Descriptor
		Config  *buildconfig.Config
		Project metadata.Project
		Signing signing.Decision
	}

	// Plugin applies a build plugin by id.
	Plugin struct{ ID string }

	// Repository adds an artifact repository.
	Repository struct{ Name string }

	// CompilerArg adds a compiler argument.
	CompilerArg struct{ Arg string }

	// ExcludeGroup excludes a dependency group from a configuration.
	ExcludeGroup struct {
		Configuration string
		Group         string
	}

	// Dependency adds a dependency coordinate to a configuration.
	Dependency struct {
		Configuration string
		Coordinate    string
	}

	// Task registers a build task.
	Task struct {
		Name        string
		Type        string
		Description string
	}

	// JavadocOption sets a documentation tool option.
	JavadocOption struct {
		Key   string
		Value string
	}

	// JavadocEncoding sets the documentation source encoding and charset.
	// An empty Charset uses Encoding.
	JavadocEncoding struct {
		Encoding string
		Charset  string
	}

	// JavadocLink links external API documentation.
	JavadocLink struct{ URL string }

	// JavaTarget sets the target Java release. Zero uses the project's
	// declared target.
	JavaTarget struct{ Release int }

	// TestLoggerTheme sets the test output theme.
	TestLoggerTheme struct{ Theme string }

	// Publication attaches the project's publication metadata using the
	// module's external name as the artifact id.
	Publication struct{}

	// Signing enables artifact signing when the pass resolved credentials.
	// Without credentials it changes nothing.
	Signing struct{}

	// Func adapts a function to the Action interface.
	Func struct {
		Name string
		Fn   func(t *Target) error
	}
)

// NewTarget creates a Target with a fresh build configuration for module.
func NewTarget(module project.Descriptor, proj metadata.Project, decision signing.Decision) *Target {
	return &Target{
		Module:  module,
		Config:  buildconfig.New(module),
		Project: proj,
		Signing: decision,
	}
}

func (Plugin) Kind() string { return KindPlugin }

func (a Plugin) Apply(t *Target) error {
	if a.ID == "" {
		return emptyValue("id")
	}
	t.Config.ApplyPlugin(a.ID)
	return nil
}

func (Repository) Kind() string { return KindRepository }

func (a Repository) Apply(t *Target) error {
	if a.Name == "" {
		return emptyValue("value")
	}
	t.Config.AddRepository(a.Name)
	return nil
}

func (CompilerArg) Kind() string { return KindCompilerArg }

func (a CompilerArg) Apply(t *Target) error {
	if a.Arg == "" {
		return emptyValue("value")
	}
	t.Config.AddCompilerArg(a.Arg)
	return nil
}

func (ExcludeGroup) Kind() string { return KindExcludeGroup }

func (a ExcludeGroup) Apply(t *Target) error {
	if a.Configuration == "" {
		return emptyValue("configuration")
	}
	if a.Group == "" {
		return emptyValue("group")
	}
	t.Config.Exclude(buildconfig.Exclusion{Configuration: a.Configuration, Group: a.Group})
	return nil
}

func (Dependency) Kind() string { return KindDependency }

func (a Dependency) Apply(t *Target) error {
	if a.Configuration == "" {
		return emptyValue("configuration")
	}
	if a.Coordinate == "" {
		return emptyValue("coordinate")
	}
	t.Config.AddDependency(buildconfig.Dependency{Configuration: a.Configuration, Coordinate: a.Coordinate})
	return nil
}

func (Task) Kind() string { return KindTask }

func (a Task) Apply(t *Target) error {
	if a.Name == "" {
		return emptyValue("name")
	}
	t.Config.RegisterTask(buildconfig.Task{Name: a.Name, Type: a.Type, Description: a.Description})
	return nil
}

func (JavadocOption) Kind() string { return KindJavadocOption }

func (a JavadocOption) Apply(t *Target) error {
	if a.Key == "" {
		return emptyValue("key")
	}
	t.Config.SetJavadocOption(a.Key, a.Value)
	return nil
}

func (JavadocEncoding) Kind() string { return KindJavadocEncoding }

func (a JavadocEncoding) Apply(t *Target) error {
	if a.Encoding == "" {
		return emptyValue("encoding")
	}
	charset := a.Charset
	if charset == "" {
		charset = a.Encoding
	}
	t.Config.SetJavadocEncoding(a.Encoding, charset)
	return nil
}

func (JavadocLink) Kind() string { return KindJavadocLink }

func (a JavadocLink) Apply(t *Target) error {
	if a.URL == "" {
		return emptyValue("url")
	}
	t.Config.AddJavadocLink(a.URL)
	return nil
}

func (JavaTarget) Kind() string { return KindJavaTarget }

func (a JavaTarget) Apply(t *Target) error {
	release := a.Release
	if release == 0 {
		release = t.Project.EffectiveJavaTarget()
	}
	if release < 0 {
		return fmt.Errorf("java target release %d is negative", release)
	}
	t.Config.SetJavaTarget(release)
	return nil
}

func (TestLoggerTheme) Kind() string { return KindTestLoggerTheme }

func (a TestLoggerTheme) Apply(t *Target) error {
	if a.Theme == "" {
		return emptyValue("value")
	}
	t.Config.SetTestLoggerTheme(a.Theme)
	return nil
}

func (Publication) Kind() string { return KindPublication }

func (Publication) Apply(t *Target) error {
	t.Config.SetPublication(t.Project.Publication(t.Module.Name.String()))
	return nil
}

func (Signing) Kind() string { return KindSigning }

func (Signing) Apply(t *Target) error {
	if t.Signing.Enabled {
		t.Config.EnableSigning(t.Signing.KeySource)
	}
	return nil
}

// Kind returns the function's name, or "func" when unnamed.
func (f Func) Kind() string {
	if f.Name == "" {
		return "func"
	}
	return f.Name
}

// Apply calls the wrapped function.
func (f Func) Apply(t *Target) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(t)
}

func emptyValue(field string) error {
	return fmt.Errorf("%s: %w", field, ErrEmptyValue)
}

// SPDX-License-Identifier: MPL-2.0

package convention

import (
	"errors"
	"slices"
	"testing"

	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

func TestActions_MutateConfig(t *testing.T) {
	t.Parallel()
	target := NewTarget(
		project.Descriptor{Path: "currency", Name: "truth-extensions-currency"},
		metadata.Project{
			Group:   "dev.mardroemmar",
			Version: "0.1.0",
			License: "MIT",
			SCM:     &metadata.SCM{Host: metadata.HostGitHub, Organization: "Mardroemmar", Repository: "truth-extensions", CI: true},
		},
		signing.Decision{Enabled: true, KeySource: signing.KeySourceInMemory},
	)

	actions := []Action{
		Plugin{ID: "java"},
		Repository{Name: "mavenCentral"},
		CompilerArg{Arg: "-parameters"},
		ExcludeGroup{Configuration: "testImplementation", Group: "junit"},
		Dependency{Configuration: "api", Coordinate: "com.google.truth:truth:1.1.3"},
		Task{Name: "javadocJar", Type: "Jar"},
		JavadocOption{Key: "Xdoclint:none", Value: "-quiet"},
		JavadocEncoding{Encoding: "UTF-8"},
		JavadocLink{URL: "https://docs.oracle.com/javase/8/docs/api/"},
		JavaTarget{},
		TestLoggerTheme{Theme: "plain-parallel"},
		Publication{},
		Signing{},
	}
	for _, a := range actions {
		if err := a.Apply(target); err != nil {
			t.Fatalf("%s: Apply() error: %v", a.Kind(), err)
		}
	}

	c := target.Config
	if !slices.Equal(c.Plugins, []string{"java"}) || !slices.Equal(c.Repositories, []string{"mavenCentral"}) {
		t.Errorf("plugins/repositories: %v %v", c.Plugins, c.Repositories)
	}
	if c.Javadoc.Charset != "UTF-8" {
		t.Errorf("charset should default to encoding, got %q", c.Javadoc.Charset)
	}
	if c.JavaTarget != metadata.DefaultJavaTarget {
		t.Errorf("JavaTarget = %d, want project default", c.JavaTarget)
	}
	if c.Publication == nil || c.Publication.ArtifactID != "truth-extensions-currency" {
		t.Errorf("publication should use the external name: %+v", c.Publication)
	}
	if !c.Signing.Enabled || c.Signing.KeySource != signing.KeySourceInMemory {
		t.Errorf("signing not enabled: %+v", c.Signing)
	}
}

func TestSigning_WithoutCredentialsIsNoop(t *testing.T) {
	t.Parallel()
	target := testTarget("m")
	if err := (Signing{}).Apply(target); err != nil {
		t.Fatal(err)
	}
	if target.Config.Signing.Enabled {
		t.Error("signing enabled without credentials")
	}
}

func TestActions_RejectEmptyValues(t *testing.T) {
	t.Parallel()
	for _, a := range []Action{
		Plugin{}, Repository{}, CompilerArg{}, ExcludeGroup{Group: "junit"}, Dependency{Configuration: "api"},
		Task{}, JavadocOption{}, JavadocEncoding{}, JavadocLink{}, TestLoggerTheme{},
	} {
		if err := a.Apply(testTarget("m")); !errors.Is(err, ErrEmptyValue) {
			t.Errorf("%s: expected ErrEmptyValue, got %v", a.Kind(), err)
		}
	}
}

func TestActionSpec_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    ActionSpec
		want    Action
		wantErr error
	}{
		{name: "plugin", spec: ActionSpec{Kind: KindPlugin, ID: "jacoco"}, want: Plugin{ID: "jacoco"}},
		{name: "compiler arg", spec: ActionSpec{Kind: KindCompilerArg, Value: "-parameters"}, want: CompilerArg{Arg: "-parameters"}},
		{
			name: "exclude group",
			spec: ActionSpec{Kind: KindExcludeGroup, Configuration: "testImplementation", Group: "junit"},
			want: ExcludeGroup{Configuration: "testImplementation", Group: "junit"},
		},
		{name: "java target", spec: ActionSpec{Kind: KindJavaTarget, Release: 11}, want: JavaTarget{Release: 11}},
		{name: "publication", spec: ActionSpec{Kind: KindPublication}, want: Publication{}},
		{name: "unknown kind", spec: ActionSpec{Kind: "shell"}, wantErr: ErrUnknownActionKind},
		{name: "missing kind", spec: ActionSpec{}, wantErr: ErrUnknownActionKind},
		{name: "missing group", spec: ActionSpec{Kind: KindExcludeGroup, Configuration: "x"}, wantErr: ErrEmptyValue},
		{name: "blank plugin id", spec: ActionSpec{Kind: KindPlugin, ID: " "}, wantErr: ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.spec.Decode()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBundleSpec_Bundle(t *testing.T) {
	t.Parallel()

	spec := BundleSpec{
		Name:     " te.java-conventions ",
		Requires: []string{"te.base-conventions"},
		Actions: []ActionSpec{
			{Kind: KindCompilerArg, Value: "-Xlint:all"},
			{Kind: "bogus"},
		},
	}
	_, err := spec.Bundle("build-logic/java.cue")
	var decodeErr *ActionDecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Index != 1 || decodeErr.Bundle != "te.java-conventions" {
		t.Fatalf("expected ActionDecodeError at index 1, got %v", err)
	}

	spec.Actions = spec.Actions[:1]
	b, err := spec.Bundle("build-logic/java.cue")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "te.java-conventions" || len(b.Actions) != 1 || b.Source != "build-logic/java.cue" {
		t.Errorf("unexpected bundle: %+v", b)
	}
}

func TestKinds_Sorted(t *testing.T) {
	t.Parallel()
	kinds := Kinds()
	if !slices.IsSorted(kinds) || len(kinds) != 13 {
		t.Errorf("Kinds() = %v", kinds)
	}
}

// SPDX-License-Identifier: MPL-2.0

package presets

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

func newRegistry(t *testing.T) *convention.Registry {
	t.Helper()
	reg := convention.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	return reg
}

func TestBundles_Names(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	want := []string{Publishing, BaseConventions, Sonatype}
	if !slices.Equal(reg.Names(), want) {
		t.Errorf("Names() = %v, want %v", reg.Names(), want)
	}
}

func TestBaseConventions_RequiresPublishing(t *testing.T) {
	t.Parallel()
	order, err := newRegistry(t).Resolve(BaseConventions)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(order, []string{Publishing, BaseConventions}) {
		t.Errorf("Resolve() = %v", order)
	}
}

func TestBaseConventions_Apply(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	target := convention.NewTarget(
		project.Descriptor{Path: "currency", Name: "truth-extensions-currency"},
		metadata.Project{Group: "dev.mardroemmar", Version: "0.1.0", License: "MIT"},
		signing.Decision{},
	)

	if _, err := reg.Apply(context.Background(), target, BaseConventions); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	c := target.Config
	wantPlugins := []string{"net.kyori.indra.publishing", "net.kyori.indra", "com.adarshr.test-logger", "java", "jacoco"}
	if !slices.Equal(c.Plugins, wantPlugins) {
		t.Errorf("Plugins = %v, want %v", c.Plugins, wantPlugins)
	}
	wantExclusions := []buildconfig.Exclusion{
		{Configuration: "testImplementation", Group: "junit"},
		{Configuration: "testCompileClasspath", Group: "junit"},
	}
	if !slices.Equal(c.Exclusions, wantExclusions) {
		t.Errorf("Exclusions = %v", c.Exclusions)
	}
	if c.JavaTarget != 8 || c.TestLogger != "plain-parallel" || c.Javadoc.Charset != "UTF-8" {
		t.Errorf("unexpected settings: target=%d theme=%q charset=%q", c.JavaTarget, c.TestLogger, c.Javadoc.Charset)
	}
	if c.Publication == nil || c.Publication.ArtifactID != "truth-extensions-currency" {
		t.Errorf("Publication = %+v", c.Publication)
	}
	if c.Signing.Enabled {
		t.Error("signing enabled without credentials")
	}
}

func TestRegister_ConflictsWithUserBundle(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	err := reg.Register(convention.Bundle{Name: Publishing, Source: "build-logic/publishing.cue"})
	if !errors.Is(err, convention.ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
}

func TestBundles_ReturnsFreshCopies(t *testing.T) {
	t.Parallel()
	a, err := Bundles()
	if err != nil {
		t.Fatal(err)
	}
	a[0].Requires = append(a[0].Requires, "mutated")
	b, err := Bundles()
	if err != nil {
		t.Fatal(err)
	}
	if len(b[0].Requires) != 0 {
		t.Error("Bundles() shares state between calls")
	}
}

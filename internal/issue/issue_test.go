// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mardroemmar/buildlogic/internal/dag"
	"github.com/mardroemmar/buildlogic/pkg/buildfile"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/cueutil"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

func TestValues_CoversEveryId(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(ConfigLoadFailedId) {
		t.Fatalf("catalog has %d entries, want %d", len(values), ConfigLoadFailedId)
	}
	for i, is := range values {
		if is.Id() != Id(i+1) {
			t.Errorf("entry %d has id %d", i, is.Id())
		}
		if is.Title() == "" || strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("entry %d has no content", is.Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		out, err := is.Render("notty")
		if err != nil {
			t.Errorf("Render(%d) error: %v", is.Id(), err)
			continue
		}
		if !strings.Contains(out, is.Title()) {
			t.Errorf("Render(%d) output misses the title", is.Id())
		}
	}
}

func TestIssue_MarkdownIncludesLinks(t *testing.T) {
	t.Parallel()
	md := Get(InvalidMetadataId).Markdown()
	if !strings.Contains(md, "## See also") || !strings.Contains(md, "https://semver.org/") {
		t.Errorf("links missing:\n%s", md)
	}
	if strings.Contains(Get(ConventionCycleId).Markdown(), "See also") {
		t.Error("entry without links renders a See also section")
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()
	if Get(0) != nil || Get(999) != nil {
		t.Error("Get returned an entry for an unknown id")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"unrelated", errors.New("x"), 0},
		{"settings missing", fmt.Errorf("%w: settings.cue", buildfile.ErrSettingsNotFound), SettingsNotFoundId},
		{"duplicate", &convention.DuplicateDefinitionError{Name: "a"}, DuplicateConventionId},
		{"unknown", &convention.UnknownBundleError{Name: "a"}, UnknownConventionId},
		{"cycle", &convention.CyclicDependencyError{Cycle: []string{"a", "b", "a"}}, ConventionCycleId},
		{"raw dag cycle", &dag.CycleError{Cycle: []string{"a", "a"}}, ConventionCycleId},
		{"invalid path", &project.InvalidPathError{Path: ""}, InvalidModulePathId},
		{"invalid name", &project.InvalidExternalNameError{Value: "a b"}, InvalidModuleNameId},
		{"collision", &project.NameCollisionError{Field: "name"}, ModuleNameCollisionId},
		{"partial signing", &signing.PartialCredentialError{Present: signing.KeyVar, Missing: signing.PasswordVar}, PartialSigningCredentialsId},
		{"metadata", &metadata.InvalidMetadataError{Field: "version"}, InvalidMetadataId},
		{"schema", &cueutil.ValidationError{Filename: "settings.cue"}, BuildFileInvalidId},
		{"decode", &convention.ActionDecodeError{Bundle: "x", Err: convention.ErrEmptyValue}, BuildFileInvalidId},
		{"action", &convention.ActionError{Bundle: "x", Err: errors.New("boom")}, ConventionActionFailedId},
		{"wrapped", WrapWithOperation(&convention.UnknownBundleError{Name: "a"}, "apply"), UnknownConventionId},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %d, want %d", got, tt.want)
			}
		})
	}
}

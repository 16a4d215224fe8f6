// SPDX-License-Identifier: MPL-2.0

package convention

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownActionKind is returned when an action spec names an unsupported kind.
var ErrUnknownActionKind = errors.New("unknown action kind")

type (
	// BundleSpec is the declarative form of a bundle as read from a
	// convention file.
	BundleSpec struct {
		Name     string       `json:"name"`
		Requires []string     `json:"requires,omitempty"`
		Actions  []ActionSpec `json:"actions,omitempty"`
	}

	// ActionSpec is the declarative form of one action. Which fields are
	// used depends on Kind.
	ActionSpec struct {
		Kind          string `json:"kind"`
		ID            string `json:"id,omitempty"`
		Value         string `json:"value,omitempty"`
		Key           string `json:"key,omitempty"`
		Configuration string `json:"configuration,omitempty"`
		Group         string `json:"group,omitempty"`
		Coordinate    string `json:"coordinate,omitempty"`
		Name          string `json:"name,omitempty"`
		Type          string `json:"type,omitempty"`
		Description   string `json:"description,omitempty"`
		URL           string `json:"url,omitempty"`
		Encoding      string `json:"encoding,omitempty"`
		Charset       string `json:"charset,omitempty"`
		Release       int    `json:"release,omitempty"`
	}

	// ActionDecodeError is returned when an action spec cannot be turned
	// into an Action.
	ActionDecodeError struct {
		Bundle string
		Index  int
		Kind   string
		Err    error
	}
)

// Kinds returns every supported action kind, sorted.
func Kinds() []string {
	kinds := []string{
		KindPlugin, KindRepository, KindCompilerArg, KindExcludeGroup, KindDependency, KindTask,
		KindJavadocOption, KindJavadocEncoding, KindJavadocLink, KindJavaTarget, KindTestLoggerTheme,
		KindPublication, KindSigning,
	}
	slices.Sort(kinds)
	return kinds
}

// Decode turns an action spec into an Action, checking that the fields its
// kind needs are present.
func (s ActionSpec) Decode() (Action, error) {
	var (
		a        Action
		required map[string]string
	)

	switch s.Kind {
	case KindPlugin:
		a, required = Plugin{ID: s.ID}, map[string]string{"id": s.ID}
	case KindRepository:
		a, required = Repository{Name: s.Value}, map[string]string{"value": s.Value}
	case KindCompilerArg:
		a, required = CompilerArg{Arg: s.Value}, map[string]string{"value": s.Value}
	case KindExcludeGroup:
		a = ExcludeGroup{Configuration: s.Configuration, Group: s.Group}
		required = map[string]string{"configuration": s.Configuration, "group": s.Group}
	case KindDependency:
		a = Dependency{Configuration: s.Configuration, Coordinate: s.Coordinate}
		required = map[string]string{"configuration": s.Configuration, "coordinate": s.Coordinate}
	case KindTask:
		a = Task{Name: s.Name, Type: s.Type, Description: s.Description}
		required = map[string]string{"name": s.Name}
	case KindJavadocOption:
		a, required = JavadocOption{Key: s.Key, Value: s.Value}, map[string]string{"key": s.Key}
	case KindJavadocEncoding:
		a = JavadocEncoding{Encoding: s.Encoding, Charset: s.Charset}
		required = map[string]string{"encoding": s.Encoding}
	case KindJavadocLink:
		a, required = JavadocLink{URL: s.URL}, map[string]string{"url": s.URL}
	case KindJavaTarget:
		if s.Release < 0 {
			return nil, fmt.Errorf("release %d is negative", s.Release)
		}
		a = JavaTarget{Release: s.Release}
	case KindTestLoggerTheme:
		a, required = TestLoggerTheme{Theme: s.Value}, map[string]string{"value": s.Value}
	case KindPublication:
		a = Publication{}
	case KindSigning:
		a = Signing{}
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownActionKind, s.Kind, strings.Join(Kinds(), ", "))
	}

	fields := make([]string, 0, len(required))
	for field := range required {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		if strings.TrimSpace(required[field]) == "" {
			return nil, emptyValue(field)
		}
	}
	return a, nil
}

// Bundle decodes every action of the spec. source is recorded on the bundle
// for diagnostics.
func (s BundleSpec) Bundle(source string) (Bundle, error) {
	b := Bundle{
		Name:     strings.TrimSpace(s.Name),
		Requires: slices.Clone(s.Requires),
		Source:   source,
	}
	for i, spec := range s.Actions {
		a, err := spec.Decode()
		if err != nil {
			return Bundle{}, &ActionDecodeError{Bundle: b.Name, Index: i, Kind: spec.Kind, Err: err}
		}
		b.Actions = append(b.Actions, a)
	}
	return b, nil
}

// Error implements the error interface for ActionDecodeError.
func (e *ActionDecodeError) Error() string {
	return fmt.Sprintf("convention %q: actions[%d] (%s): %v", e.Bundle, e.Index, e.Kind, e.Err)
}

// Unwrap returns the decoding error.
func (e *ActionDecodeError) Unwrap() error { return e.Err }

// SPDX-License-Identifier: MPL-2.0

// Package metadata describes the published-artifact metadata of a project:
// coordinates, license, source control and developers.
//
// All values are static literals from the build description. Derived values
// such as SCM URLs are computed by string concatenation only.
package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // developer timezones must resolve on hosts without zoneinfo

	"golang.org/x/mod/semver"

	"github.com/mardroemmar/buildlogic/pkg/buildconfig"
)

const (
	// HostGitHub is the github.com SCM host.
	HostGitHub Host = "github"
	// HostGitLab is the gitlab.com SCM host.
	HostGitLab Host = "gitlab"

	// DefaultJavaTarget is used when no target release is declared.
	DefaultJavaTarget = 8
)

var (
	// ErrInvalidMetadata is the sentinel error wrapped by InvalidMetadataError.
	ErrInvalidMetadata = errors.New("invalid project metadata")

	groupPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*(\.[A-Za-z_][A-Za-z0-9_-]*)*$`)
	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

type (
	// Host is a source control hosting service.
	Host string

	// Project is the metadata shared by every published module.
	Project struct {
		Group       string      `json:"group"`
		Version     string      `json:"version"`
		Description string      `json:"description,omitempty"`
		License     string      `json:"license,omitempty"`
		SCM         *SCM        `json:"scm,omitempty"`
		Developers  []Developer `json:"developers,omitempty"`
		JavaTarget  int         `json:"java_target,omitempty"`
	}

	// SCM identifies a hosted repository.
	SCM struct {
		Host         Host   `json:"host"`
		Organization string `json:"organization"`
		Repository   string `json:"repository"`
		CI           bool   `json:"ci,omitempty"`
	}

	// Developer is one developer record.
	Developer struct {
		ID       string `json:"id"`
		Name     string `json:"name,omitempty"`
		Timezone string `json:"timezone,omitempty"`
	}

	// InvalidMetadataError is returned when a metadata field fails validation.
	InvalidMetadataError struct {
		Field  string
		Value  string
		Reason string
	}
)

// Validate checks every field and returns all problems joined.
func (p Project) Validate() error {
	var errs []error

	if !groupPattern.MatchString(p.Group) {
		errs = append(errs, &InvalidMetadataError{Field: "group", Value: p.Group, Reason: "must be a dotted identifier such as dev.example"})
	}
	if !IsValidVersion(p.Version) {
		errs = append(errs, &InvalidMetadataError{Field: "version", Value: p.Version, Reason: "must be a semantic version such as 1.2.3"})
	}
	if p.JavaTarget < 0 {
		errs = append(errs, &InvalidMetadataError{Field: "java_target", Value: fmt.Sprint(p.JavaTarget), Reason: "must not be negative"})
	}
	if p.SCM != nil {
		if err := p.SCM.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i, d := range p.Developers {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("developers[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// EffectiveJavaTarget returns the declared target release or DefaultJavaTarget.
func (p Project) EffectiveJavaTarget() int {
	if p.JavaTarget == 0 {
		return DefaultJavaTarget
	}
	return p.JavaTarget
}

// Publication returns the publication metadata for one artifact.
func (p Project) Publication(artifactID string) buildconfig.Publication {
	pub := buildconfig.Publication{
		GroupID:     p.Group,
		ArtifactID:  artifactID,
		Version:     p.Version,
		Description: p.Description,
		License:     p.License,
	}
	if p.SCM != nil {
		coords := p.SCM.Coordinates()
		pub.SCM = &coords
	}
	for _, d := range p.Developers {
		pub.Developers = append(pub.Developers, buildconfig.Developer(d))
	}
	return pub
}

// IsValidVersion reports whether v is a semantic version. A leading "v" is
// accepted but not required.
func IsValidVersion(v string) bool {
	if v == "" {
		return false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.IsValid(v) && semver.Canonical(v) == strings.SplitN(v, "+", 2)[0]
}

// IsPrerelease reports whether v carries a prerelease suffix.
func IsPrerelease(v string) bool {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Prerelease(v) != ""
}

// Validate checks the host and repository segments.
func (s SCM) Validate() error {
	switch s.Host {
	case HostGitHub, HostGitLab:
	default:
		return &InvalidMetadataError{Field: "scm.host", Value: string(s.Host), Reason: "must be github or gitlab"}
	}
	if !segmentPattern.MatchString(s.Organization) {
		return &InvalidMetadataError{Field: "scm.organization", Value: s.Organization, Reason: "must be a single path segment"}
	}
	if !segmentPattern.MatchString(s.Repository) {
		return &InvalidMetadataError{Field: "scm.repository", Value: s.Repository, Reason: "must be a single path segment"}
	}
	return nil
}

// BaseURL returns the browsable repository URL.
func (s SCM) BaseURL() string {
	return "https://" + s.domain() + "/" + s.Organization + "/" + s.Repository
}

// Coordinates derives the SCM block of a publication.
func (s SCM) Coordinates() buildconfig.SCM {
	base := s.BaseURL()
	coords := buildconfig.SCM{
		URL:        base,
		Connection: "scm:git:" + base + ".git",
		Issues:     base + "/issues",
	}
	if s.CI {
		switch s.Host {
		case HostGitHub:
			coords.CI = base + "/actions"
		case HostGitLab:
			coords.CI = base + "/-/pipelines"
		}
	}
	return coords
}

func (s SCM) domain() string {
	if s.Host == HostGitLab {
		return "gitlab.com"
	}
	return "github.com"
}

// Validate checks that the developer has an id and a loadable timezone.
func (d Developer) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return &InvalidMetadataError{Field: "id", Value: d.ID, Reason: "must not be empty"}
	}
	if d.Timezone != "" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			return &InvalidMetadataError{Field: "timezone", Value: d.Timezone, Reason: "unknown IANA timezone"}
		}
	}
	return nil
}

// Error implements the error interface for InvalidMetadataError.
func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidMetadata for errors.Is() compatibility.
func (e *InvalidMetadataError) Unwrap() error { return ErrInvalidMetadata }

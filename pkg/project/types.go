// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// RootPath is the path of the root project itself.
const RootPath Path = "."

// nameDelimiter replaces path separators in derived external names.
const nameDelimiter = "-"

var (
	// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid module path")
	// ErrInvalidExternalName is the sentinel error wrapped by InvalidExternalNameError.
	ErrInvalidExternalName = errors.New("invalid external name")

	externalNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

type (
	// Path is a module directory relative to the project root, using forward
	// slashes (e.g., "currency" or "extras/time").
	Path string

	// ExternalName is the identifier a module is known by outside the build,
	// such as the artifact id in published coordinates.
	ExternalName string

	// InvalidPathError is returned when a module path is empty, absolute, or
	// does not stay inside the project root.
	InvalidPathError struct {
		Path   string
		Reason string
	}

	// InvalidExternalNameError is returned when an explicit or derived
	// external name is not a usable identifier.
	InvalidExternalNameError struct {
		Value ExternalName
	}
)

// String returns the string representation of the Path.
func (p Path) String() string { return string(p) }

// String returns the string representation of the ExternalName.
func (n ExternalName) String() string { return string(n) }

// Validate returns nil if the ExternalName starts with a letter or digit and
// contains only letters, digits, dots, underscores, or hyphens.
func (n ExternalName) Validate() error {
	if !externalNamePattern.MatchString(string(n)) {
		return &InvalidExternalNameError{Value: n}
	}
	return nil
}

// NormalizePath converts raw into a clean forward-slash Path. Backslashes are
// treated as separators. Empty and whitespace-only paths, absolute paths,
// the root itself and paths that climb out of the root are rejected.
func NormalizePath(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &InvalidPathError{Path: raw, Reason: "path is empty"}
	}

	slashed := strings.ReplaceAll(trimmed, `\`, "/")
	if strings.HasPrefix(slashed, "/") || hasVolumePrefix(slashed) {
		return "", &InvalidPathError{Path: raw, Reason: "path must be relative to the project root"}
	}

	cleaned := path.Clean(slashed)
	switch {
	case cleaned == ".":
		return "", &InvalidPathError{Path: raw, Reason: "path refers to the project root"}
	case cleaned == ".." || strings.HasPrefix(cleaned, "../"):
		return "", &InvalidPathError{Path: raw, Reason: "path leaves the project root"}
	}

	return Path(cleaned), nil
}

// DeriveName computes the default external name for a module: the root
// project's name followed by the path segments, all joined with "-".
// For root "R" and path "a/b" the result is "R-a-b".
func DeriveName(rootName ExternalName, p Path) ExternalName {
	return ExternalName(string(rootName) + nameDelimiter + strings.ReplaceAll(string(p), "/", nameDelimiter))
}

// hasVolumePrefix reports Windows drive-qualified paths such as "C:/x".
func hasVolumePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid module path %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Error implements the error interface for InvalidExternalNameError.
func (e *InvalidExternalNameError) Error() string {
	return fmt.Sprintf(
		"invalid external name %q: must start with a letter or digit and contain only letters, digits, dots, underscores, or hyphens",
		string(e.Value),
	)
}

// Unwrap returns ErrInvalidExternalName for errors.Is() compatibility.
func (e *InvalidExternalNameError) Unwrap() error { return ErrInvalidExternalName }

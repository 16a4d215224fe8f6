// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrValidation is the sentinel error wrapped by ValidationError.
	ErrValidation = errors.New("cue validation failed")
	// ErrFileTooLarge is the sentinel error wrapped by FileSizeError.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// Issue is one validation problem at a CUE path.
	Issue struct {
		// Path is in JSON-path notation, e.g. "modules[0].path". It is empty
		// for document-level problems such as syntax errors.
		Path    string
		Message string
		// Line is the 1-based source line, or 0 when unknown.
		Line int
	}

	// ValidationError reports every issue found in one document.
	ValidationError struct {
		Filename string
		Issues   []Issue
	}

	// FileSizeError is returned for documents over the size limit.
	FileSizeError struct {
		Filename string
		Size     int64
		Max      int64
	}
)

// FormatError converts a CUE error into a *ValidationError for filename.
// Errors that carry no CUE detail produce a single path-less issue.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return &ValidationError{Filename: filename, Issues: []Issue{{Message: err.Error()}}}
	}

	issues := make([]Issue, 0, len(cueErrs))
	for _, e := range cueErrs {
		p := formatPath(e.Path())
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if p != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, p), ":"))
		}

		issue := Issue{Path: p, Message: msg}
		if pos := e.Position(); pos.IsValid() {
			issue.Line = pos.Line()
		}
		issues = append(issues, issue)
	}
	return &ValidationError{Filename: filename, Issues: issues}
}

// formatPath turns a CUE path such as ["modules", "0", "path"] into
// "modules[0].path".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileSizeError when data is larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return &FileSizeError{Filename: filename, Size: int64(len(data)), Max: maxSize}
	}
	return nil
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		lines = append(lines, is.String())
	}
	if len(lines) == 1 {
		return e.Filename + ": " + lines[0]
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.Filename, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Paths returns the path of every issue that has one.
func (e *ValidationError) Paths() []string {
	var out []string
	for _, is := range e.Issues {
		if is.Path != "" {
			out = append(out, is.Path)
		}
	}
	return out
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Error implements the error interface for FileSizeError.
func (e *FileSizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.Filename, e.Size, e.Max)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileSizeError) Unwrap() error { return ErrFileTooLarge }

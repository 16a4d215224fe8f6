// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const testSchema = `
#Module: {
	path:  string & !=""
	name?: string
	conventions?: [...string]
}
#Settings: {
	root_name: string
	modules?: [...#Module]
	log_level?: "debug" | "info" | "warn" | "error"
}
`

type testModule struct {
	Path        string   `json:"path"`
	Name        string   `json:"name,omitempty"`
	Conventions []string `json:"conventions,omitempty"`
}

type testSettings struct {
	RootName string       `json:"root_name"`
	Modules  []testModule `json:"modules,omitempty"`
	LogLevel string       `json:"log_level,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid document decodes", func(t *testing.T) {
		t.Parallel()
		data := []byte(`
root_name: "truth-extensions"
modules: [
	{path: "bom"},
	{path: "currency", conventions: ["te.base-conventions"]},
]
`)
		res, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings")
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if res.Value.RootName != "truth-extensions" || len(res.Value.Modules) != 2 {
			t.Errorf("unexpected value: %+v", res.Value)
		}
		if !slices.Equal(res.Value.Modules[1].Conventions, []string{"te.base-conventions"}) {
			t.Errorf("conventions = %v", res.Value.Modules[1].Conventions)
		}
	})

	t.Run("wrong type reports the field path", func(t *testing.T) {
		t.Parallel()
		data := []byte(`
root_name: "r"
modules: [{path: "ok"}, {path: 42}]
`)
		_, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings", WithFilename("settings.cue"))

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if verr.Filename != "settings.cue" {
			t.Errorf("Filename = %q", verr.Filename)
		}
		if !slices.ContainsFunc(verr.Paths(), func(p string) bool { return strings.HasPrefix(p, "modules[1].path") }) {
			t.Errorf("expected an issue at modules[1].path, got %v", verr.Paths())
		}
		if !errors.Is(err, ErrValidation) {
			t.Error("error does not wrap ErrValidation")
		}
	})

	t.Run("disallowed enum value", func(t *testing.T) {
		t.Parallel()
		data := []byte(`root_name: "r", log_level: "loud"`)
		if _, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings"); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()
		data := []byte(`modules: []`)
		if _, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings"); err == nil {
			t.Fatal("expected error for missing root_name")
		}
	})

	t.Run("closed definition rejects unknown fields", func(t *testing.T) {
		t.Parallel()
		data := []byte(`root_name: "r", rootName: "typo"`)
		if _, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings"); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		data := []byte(`root_name: "r`)
		_, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings", WithFilename("broken.cue"))
		if err == nil || !strings.Contains(err.Error(), "broken.cue") {
			t.Fatalf("expected error naming broken.cue, got %v", err)
		}
	})

	t.Run("non-concrete document with WithConcrete(false)", func(t *testing.T) {
		t.Parallel()
		schema := `#Config: { level?: string, verbose?: bool }`
		res, err := ParseAndDecode[struct {
			Level string `json:"level,omitempty"`
		}]([]byte(schema), []byte(`{}`), "#Config", WithConcrete(false))
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if res.Value.Level != "" {
			t.Errorf("Level = %q", res.Value.Level)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()
		data := []byte(`root_name: "truth-extensions"`)
		_, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings", WithMaxFileSize(4))
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("missing definition is an internal error", func(t *testing.T) {
		t.Parallel()
		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`root_name: "r"`), "#Nope")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}

func TestParseFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.cue")
	if err := os.WriteFile(path, []byte(`root_name: "r"`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ParseFile[testSettings]([]byte(testSchema), path, "#Settings")
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if res.Value.RootName != "r" {
		t.Errorf("RootName = %q", res.Value.RootName)
	}

	if _, err := ParseFile[testSettings]([]byte(testSchema), path, "#Settings", WithMaxFileSize(2)); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := ParseFile[testSettings]([]byte(testSchema), filepath.Join(dir, "missing.cue"), "#Settings"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"root_name"}, "root_name"},
		{[]string{"project", "scm", "host"}, "project.scm.host"},
		{[]string{"modules", "0", "path"}, "modules[0].path"},
		{[]string{"conventions", "1", "actions", "12", "kind"}, "conventions[1].actions[12].kind"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatError_PlainError(t *testing.T) {
	t.Parallel()
	if FormatError(nil, "x.cue") != nil {
		t.Error("nil error should stay nil")
	}

	err := FormatError(errors.New("boom"), "x.cue")
	if err.Error() != "x.cue: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()
	if err := CheckFileSize(make([]byte, 100), 100, "a.cue"); err != nil {
		t.Errorf("exact limit rejected: %v", err)
	}
	err := CheckFileSize(make([]byte, 101), 100, "a.cue")
	var sizeErr *FileSizeError
	if !errors.As(err, &sizeErr) || sizeErr.Size != 101 || sizeErr.Max != 100 {
		t.Errorf("expected FileSizeError 101/100, got %v", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package signing decides whether published artifacts are signed.
//
// Credentials are plain values handed in by the caller. Only LoadFromEnv
// touches the environment, and it accepts an explicit variable map so tests
// never need to modify the process environment.
package signing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	// KeyVar is the environment variable holding the armored signing key.
	KeyVar = "SIGNING_KEY"
	// PasswordVar is the environment variable holding the key password.
	PasswordVar = "SIGNING_PASSWORD"

	// KeySourceInMemory names the in-memory PGP key mode.
	KeySourceInMemory = "in-memory"
)

// ErrPartialCredential is the sentinel error wrapped by PartialCredentialError.
var ErrPartialCredential = errors.New("partial signing credentials")

type (
	// Credentials is a signing key with its password.
	Credentials struct {
		Key      string `env:"SIGNING_KEY"`
		Password string `env:"SIGNING_PASSWORD"`
	}

	// Decision is the outcome of Resolve.
	Decision struct {
		Enabled   bool
		KeySource string
		// KeyBytes is the size of the provided key, for display.
		KeyBytes int
	}

	// PartialCredentialError is returned when exactly one of the two
	// credential values is provided.
	PartialCredentialError struct {
		Present string
		Missing string
	}
)

// LoadFromEnv reads credentials from environ. A nil map reads the process
// environment.
func LoadFromEnv(environ map[string]string) (Credentials, error) {
	var c Credentials
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Credentials{}, fmt.Errorf("parse signing environment: %w", err)
	}
	return c, nil
}

// Resolve decides whether signing is enabled. Both values present enables
// in-memory key signing, both absent disables signing, anything else is a
// *PartialCredentialError. Whitespace-only values count as absent.
func Resolve(c Credentials) (Decision, error) {
	hasKey := strings.TrimSpace(c.Key) != ""
	hasPassword := strings.TrimSpace(c.Password) != ""

	switch {
	case hasKey && hasPassword:
		return Decision{Enabled: true, KeySource: KeySourceInMemory, KeyBytes: len(c.Key)}, nil
	case hasKey:
		return Decision{}, &PartialCredentialError{Present: KeyVar, Missing: PasswordVar}
	case hasPassword:
		return Decision{}, &PartialCredentialError{Present: PasswordVar, Missing: KeyVar}
	default:
		return Decision{}, nil
	}
}

// String redacts the credential values.
func (c Credentials) String() string {
	return fmt.Sprintf("signing.Credentials{Key: %s, Password: %s}", redact(c.Key), redact(c.Password))
}

// GoString redacts the credential values for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

func redact(v string) string {
	if v == "" {
		return "<unset>"
	}
	return "<redacted>"
}

// Error implements the error interface for PartialCredentialError.
func (e *PartialCredentialError) Error() string {
	return fmt.Sprintf("%s is set but %s is not; set both to enable signing or neither to disable it", e.Present, e.Missing)
}

// Unwrap returns ErrPartialCredential for errors.Is() compatibility.
func (e *PartialCredentialError) Unwrap() error { return ErrPartialCredential }

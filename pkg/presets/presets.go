// SPDX-License-Identifier: MPL-2.0

// Package presets provides the built-in convention bundles.
package presets

import (
	_ "embed"
	"fmt"

	"github.com/mardroemmar/buildlogic/pkg/buildfile"
	"github.com/mardroemmar/buildlogic/pkg/convention"
)

// Source is recorded as the definition site of every preset bundle.
const Source = "<preset>"

// Names of the built-in bundles.
const (
	Publishing      = "te.publishing"
	BaseConventions = "te.base-conventions"
	Sonatype        = "te.sonatype"
)

//go:embed presets.cue
var presetsCUE []byte

// Bundles returns fresh copies of the built-in bundles in definition order.
func Bundles() ([]convention.Bundle, error) {
	bundles, err := buildfile.ParseConventions(presetsCUE, Source)
	if err != nil {
		return nil, fmt.Errorf("internal error: built-in conventions: %w", err)
	}
	return bundles, nil
}

// Register adds every built-in bundle to reg.
func Register(reg *convention.Registry) error {
	bundles, err := Bundles()
	if err != nil {
		return err
	}
	for _, b := range bundles {
		if err := reg.Register(b); err != nil {
			return err
		}
	}
	return nil
}

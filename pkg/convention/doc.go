// SPDX-License-Identifier: MPL-2.0

// Package convention implements named convention bundles: reusable sets of
// build configuration actions that modules opt into by name.
//
// A Registry is built once per configuration pass and passed explicitly to
// everything that applies bundles. Bundles declare prerequisites by name; the
// registry orders a bundle's prerequisite graph topologically and applies each
// bundle at most once per module, so shared prerequisites never run twice.
// Unknown and cyclic prerequisites are reported before any action runs.
package convention

// SPDX-License-Identifier: MPL-2.0

// Package project registers the modules that take part in a build.
//
// A Registrar is created once per configuration pass with the root project's
// name. Each declared module path is normalized, given an external name
// (derived from the root name and the path, or taken from an explicit
// override) and checked for collisions against every path and name already
// registered, including the root project itself. Closing the registrar marks
// the end of registration; conventions are applied only afterwards, so they
// can rely on the external names being final.
package project

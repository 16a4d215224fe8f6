// SPDX-License-Identifier: MPL-2.0

// Package issue turns configuration failures into user-facing messages.
//
// ActionableError carries the failed operation, the file, module or bundle
// involved, and remediation hints. The catalog maps each failure class to a
// Markdown explanation rendered with glamour.
package issue

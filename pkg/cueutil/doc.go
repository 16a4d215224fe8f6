// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against embedded schemas.
//
// Every build description file and the tool configuration follow the same
// three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user document and unify it with the definition
//  3. Validate and decode into a Go struct
//
// Failures are returned as *ValidationError values carrying one Issue per
// offending CUE path, formatted as JSON-path notation (e.g. "modules[1].path").
//
//	//go:embed settings_schema.cue
//	var settingsSchema []byte
//
//	settings, err := cueutil.ParseAndDecode[Settings](settingsSchema, data, "#Settings",
//	    cueutil.WithFilename("settings.cue"))
package cueutil

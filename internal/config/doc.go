// SPDX-License-Identifier: MPL-2.0

// Package config loads the buildlogic tool configuration using Viper with CUE
// as the file format.
//
// The file lives at $XDG_CONFIG_HOME/buildlogic/config.cue (or the platform
// equivalent) and is validated against an embedded #Config schema. Every key
// can be overridden from the environment with the BUILDLOGIC_ prefix, for
// example BUILDLOGIC_LOG_LEVEL=debug.
package config

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeDark  ColorScheme = "dark"
	ColorSchemeLight ColorScheme = "light"

	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatTOML OutputFormat = "toml"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	logLevels     = []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	colorSchemes  = []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight}
	outputFormats = []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatTOML}
)

type (
	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// ColorScheme selects the terminal palette.
	ColorScheme string

	// OutputFormat selects how plans are printed.
	OutputFormat string

	// Config is the tool configuration.
	Config struct {
		Log    LogConfig    `json:"log" yaml:"log" toml:"log" mapstructure:"log"`
		UI     UIConfig     `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
		Build  BuildConfig  `json:"build" yaml:"build" toml:"build" mapstructure:"build"`
		Output OutputConfig `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" yaml:"level" toml:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
	}

	// BuildConfig configures how build descriptions are loaded.
	BuildConfig struct {
		// SettingsFile is the settings file name relative to the project root.
		SettingsFile string `json:"settings_file" yaml:"settings_file" toml:"settings_file" mapstructure:"settings_file"`
		// Presets registers the built-in conventions.
		Presets bool `json:"presets" yaml:"presets" toml:"presets" mapstructure:"presets"`
	}

	// OutputConfig configures plan output.
	OutputConfig struct {
		Format OutputFormat `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	}

	// InvalidConfigError reports every invalid field.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: LogLevelWarn},
		UI:     UIConfig{ColorScheme: ColorSchemeAuto},
		Build:  BuildConfig{SettingsFile: "settings.cue", Presets: true},
		Output: OutputConfig{Format: FormatText},
	}
}

// Validate checks values the schema would reject, for configurations
// assembled from environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q: must be one of %v", c.Log.Level, logLevels))
	}
	if !slices.Contains(colorSchemes, c.UI.ColorScheme) {
		errs = append(errs, fmt.Errorf("ui.color_scheme %q: must be one of %v", c.UI.ColorScheme, colorSchemes))
	}
	if !c.Output.Format.IsValid() {
		errs = append(errs, fmt.Errorf("output.format %q: must be one of %v", c.Output.Format, outputFormats))
	}
	if c.Build.SettingsFile == "" {
		errs = append(errs, errors.New("build.settings_file: must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(outputFormats, f)
}

// OutputFormats returns every supported output format.
func OutputFormats() []OutputFormat {
	return slices.Clone(outputFormats)
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

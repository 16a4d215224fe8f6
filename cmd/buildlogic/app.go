// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/configure"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

type (
	// App wires CLI services and shared state. Every command handler
	// receives the App and reads configuration and writers from it.
	App struct {
		Config  config.Provider
		Environ func() map[string]string

		stdout io.Writer
		stderr io.Writer
		flags  globalFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies are the injection points of NewApp. Nil fields fall back
	// to production defaults.
	Dependencies struct {
		Config config.Provider
		// Environ supplies signing variables. Nil reads the process
		// environment.
		Environ func() map[string]string
		Stdout  io.Writer
		Stderr  io.Writer
	}

	globalFlags struct {
		verbose    bool
		configPath string
		logLevel   string
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:  deps.Config,
		Environ: deps.Environ,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		cfg:     config.DefaultConfig(),
		logger:  log.New(io.Discard),
	}, nil
}

// configureOptions builds the pass options for dir from configuration and
// the environment.
func (a *App) configureOptions(dir string, noPresets bool) (configure.Options, error) {
	var environ map[string]string
	if a.Environ != nil {
		environ = a.Environ()
	}
	creds, err := signing.LoadFromEnv(environ)
	if err != nil {
		return configure.Options{}, err
	}
	return configure.Options{
		Dir:          dir,
		SettingsFile: a.cfg.Build.SettingsFile,
		Presets:      a.cfg.Build.Presets && !noPresets,
		Credentials:  creds,
		Logger:       a.logger,
	}, nil
}

func (a *App) prepare(ctx context.Context, dir string, noPresets bool) (*configure.Session, error) {
	opts, err := a.configureOptions(dir, noPresets)
	if err != nil {
		return nil, err
	}
	s, err := configure.Prepare(ctx, opts)
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: err}
	}
	return s, nil
}

// outputFormat returns the --format value when set, else the configured
// default.
func (a *App) outputFormat(flag string) (config.OutputFormat, error) {
	if flag == "" {
		return a.cfg.Output.Format, nil
	}
	f := config.OutputFormat(flag)
	if !f.IsValid() {
		return "", usageErrorf("invalid --format %q: must be one of %v", flag, config.OutputFormats())
	}
	return f, nil
}

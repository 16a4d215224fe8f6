// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/configure"
	"github.com/mardroemmar/buildlogic/internal/render"
	"github.com/mardroemmar/buildlogic/internal/watch"
	"github.com/mardroemmar/buildlogic/pkg/buildfile"
)

type configureFlags struct {
	dir       string
	format    string
	watch     bool
	noPresets bool
}

func newConfigureCommand(app *App) *cobra.Command {
	var flags configureFlags
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Run the configuration pass and print the plan",
		Long: `Run the configuration pass and print the plan.

The pass registers every module declared in settings.cue, applies the
requested conventions with their prerequisites and prints the resulting
build configuration of each module.

Signing is enabled when both SIGNING_KEY and SIGNING_PASSWORD are set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigure(cmd.Context(), app, flags)
		},
	}
	cmd.Flags().StringVar(&flags.dir, "dir", ".", "project root directory")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, yaml or toml")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-run whenever a build file changes")
	cmd.Flags().BoolVar(&flags.noPresets, "no-presets", false, "do not register the built-in conventions")
	return cmd
}

func runConfigure(ctx context.Context, app *App, flags configureFlags) error {
	format, err := app.outputFormat(flags.format)
	if err != nil {
		return err
	}
	opts, err := app.configureOptions(flags.dir, flags.noPresets)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if !flags.watch {
		plan, err := configure.Run(ctx, opts)
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}
		return render.Plan(app.stdout, plan, format)
	}
	return watchConfigure(ctx, app, opts, format)
}

// watchConfigure prints a plan now and after every change until ctx is
// canceled. Failed passes are reported and watching continues.
func watchConfigure(ctx context.Context, app *App, opts configure.Options, format config.OutputFormat) error {
	once := func(ctx context.Context) {
		plan, err := configure.Run(ctx, opts)
		if err != nil {
			app.reportError(app.stderr, err)
			return
		}
		if err := render.Plan(app.stdout, plan, format); err != nil {
			app.reportError(app.stderr, err)
		}
	}
	once(ctx)

	settingsFile := opts.SettingsFile
	if settingsFile == "" {
		settingsFile = buildfile.SettingsFileName
	}
	buildLogic := buildfile.DefaultBuildLogicDir
	if s, err := buildfile.ParseSettingsFile(filepath.Join(opts.Dir, settingsFile)); err == nil {
		buildLogic = s.BuildLogicDir()
	}

	w, err := watch.New(watch.Config{
		Dir:      opts.Dir,
		Patterns: watch.ProjectPatterns(settingsFile, buildLogic),
		Logger:   app.logger,
		OnChange: func(ctx context.Context, _ []string) error {
			fmt.Fprintln(app.stdout)
			once(ctx)
			return nil
		},
	})
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	app.logger.Info("watching for changes", "dir", w.Dir())
	return w.Run(ctx)
}

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for buildlogic.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mardroemmar/buildlogic/internal/config"
	"github.com/mardroemmar/buildlogic/internal/issue"
	"github.com/mardroemmar/buildlogic/internal/render"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// skipConfigAnnotation marks commands that must run even when the tool
// configuration is broken, so it can be inspected and repaired.
const skipConfigAnnotation = "buildlogic/skip-config"

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "buildlogic",
		Short: "Convention bundles and module registration for multi-module builds",
		Long: render.TitleStyle.Render("buildlogic") + render.SubtitleStyle.Render(" - convention bundles for multi-module builds") + `

buildlogic reads a declarative build description (settings.cue plus the
convention files under build-logic/), registers every module under a unique
external name and applies convention bundles with their prerequisites.

` + render.SubtitleStyle.Render("Examples:") + `
  buildlogic init truth-extensions    Create a starter settings.cue
  buildlogic configure                Print the resolved plan
  buildlogic configure --watch        Re-run on every build file edit
  buildlogic conventions te.sonatype  Show a convention's application order`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd)
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	root.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/buildlogic/config.cue)")
	root.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newConfigureCommand(app),
		newModulesCommand(app),
		newConventionsCommand(app),
		newValidateCommand(app),
		newInitCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	os.Exit(execute(context.Background(), Dependencies{}, os.Args[1:]))
}

func execute(ctx context.Context, deps Dependencies, args []string) int {
	app, err := NewApp(deps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
	root := NewRootCommand(app)
	root.SetArgs(args)

	err = fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.reportError(w, err)
		}),
	)
	return exitCode(err)
}

// initialize loads the tool configuration and builds the logger.
func (a *App) initialize(cmd *cobra.Command) error {
	loaded, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.flags.configPath})
	switch {
	case err == nil:
		a.cfg = loaded.Config
	case cmd.Annotations[skipConfigAnnotation] == "true":
		fmt.Fprintln(a.stderr, render.WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
	default:
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if !a.flags.verbose {
		a.flags.verbose = a.cfg.UI.Verbose
	}

	levelName := string(a.cfg.Log.Level)
	if a.flags.logLevel != "" {
		levelName = a.flags.logLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return usageErrorf("invalid --log-level %q", levelName)
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: "buildlogic",
		Level:  level,
	})
	return nil
}

// reportError prints err with its suggestions and, for catalogued failures,
// the rendered issue text.
func (a *App) reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintln(w, render.ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, a.flags.verbose))

	id := issue.Classify(err)
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		id = ae.IssueID()
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	md, renderErr := entry.Render(glamourStyle(a.cfg.UI.ColorScheme))
	if renderErr != nil {
		a.logger.Debug("render issue", "id", id, "error", renderErr)
		return
	}
	fmt.Fprint(w, "\n"+strings.TrimLeft(md, "\n"))
}

// formatErrorForDisplay formats an error for user display. Verbose mode
// includes the full error chain for actionable errors.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

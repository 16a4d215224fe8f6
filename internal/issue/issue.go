// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"

	"github.com/mardroemmar/buildlogic/internal/dag"
	"github.com/mardroemmar/buildlogic/pkg/buildfile"
	"github.com/mardroemmar/buildlogic/pkg/convention"
	"github.com/mardroemmar/buildlogic/pkg/cueutil"
	"github.com/mardroemmar/buildlogic/pkg/metadata"
	"github.com/mardroemmar/buildlogic/pkg/project"
	"github.com/mardroemmar/buildlogic/pkg/signing"
)

// Id identifies a catalog entry.
type Id int

const (
	SettingsNotFoundId Id = iota + 1
	BuildFileInvalidId
	DuplicateConventionId
	UnknownConventionId
	ConventionCycleId
	ConventionActionFailedId
	InvalidModulePathId
	InvalidModuleNameId
	ModuleNameCollisionId
	PartialSigningCredentialsId
	InvalidMetadataId
	ConfigLoadFailedId
)

type (
	// MarkdownMsg is catalog text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the entry's identifier.
func (i *Issue) Id() Id { return i.id }

// Title returns the one-line heading of the entry.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the unrendered text.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Markdown returns the full entry including its heading and links.
func (i *Issue) Markdown() string {
	md := "# " + i.title + "\n" + string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return md
}

// Render renders the entry for a terminal with the given glamour style
// ("dark", "light", "notty", "auto" or a JSON style path).
func (i *Issue) Render(style string) (string, error) {
	return render(i.Markdown(), style)
}

var (
	render = glamour.Render

	catalog = map[Id]*Issue{
		SettingsNotFoundId: {
			id:    SettingsNotFoundId,
			title: "No settings file found",
			mdMsg: `
Every build needs a ` + "`settings.cue`" + ` at the project root naming the root
project and its modules.

## Things you can try
~~~
$ buildlogic init my-project
~~~
- Run from the project root, or pass ` + "`--dir <root>`" + `.
- Set ` + "`build.settings_file`" + ` in the tool configuration if the file has another name.`,
		},
		BuildFileInvalidId: {
			id:    BuildFileInvalidId,
			title: "Build description is invalid",
			mdMsg: `
A build file does not match its schema. The message above names the file and
the field path, for example ` + "`modules[1].path`" + `.

## Things you can try
- Check the field type and spelling. Unknown fields are rejected.
- Action ` + "`kind`" + ` must be one of the supported kinds listed by ` + "`buildlogic conventions --kinds`" + `.
- Run ` + "`buildlogic validate`" + ` after each edit.`,
		},
		DuplicateConventionId: {
			id:    DuplicateConventionId,
			title: "Convention defined twice",
			mdMsg: `
Convention names are global to a build. The same name was declared in two
places, possibly a build-logic file reusing a built-in name.

## Things you can try
- Rename one of the conventions.
- Pass ` + "`--no-presets`" + ` to replace a built-in convention with your own.`,
		},
		UnknownConventionId: {
			id:    UnknownConventionId,
			title: "Convention not defined",
			mdMsg: `
A module or another convention requested a convention that no build-logic file
defines. Nothing was applied.

## Things you can try
- List the available conventions with ` + "`buildlogic conventions`" + `.
- Add the missing convention to a file under ` + "`build-logic/`" + `.`,
		},
		ConventionCycleId: {
			id:    ConventionCycleId,
			title: "Convention prerequisites form a cycle",
			mdMsg: `
Conventions can require other conventions, but the requirements must not loop
back. The message above shows the loop. Nothing was applied.

## Things you can try
- Remove one of the ` + "`requires`" + ` entries in the loop.
- Move the shared actions into a new convention both can require.`,
		},
		ConventionActionFailedId: {
			id:    ConventionActionFailedId,
			title: "Convention action failed",
			mdMsg: `
An action of a convention could not be applied to a module.

## Things you can try
- Check the action's fields in the convention file named above.`,
		},
		InvalidModulePathId: {
			id:    InvalidModulePathId,
			title: "Invalid module path",
			mdMsg: `
Module paths are directories relative to the project root, written with
forward slashes, such as ` + "`currency`" + ` or ` + "`extras/time`" + `.
Empty paths, absolute paths, ` + "`.`" + ` and paths leaving the root are rejected.`,
		},
		InvalidModuleNameId: {
			id:    InvalidModuleNameId,
			title: "Invalid module name",
			mdMsg: `
External names start with a letter or digit and contain only letters, digits,
` + "`.`" + `, ` + "`_`" + ` or ` + "`-`" + `.`,
		},
		ModuleNameCollisionId: {
			id:    ModuleNameCollisionId,
			title: "Module registered twice",
			mdMsg: `
Every module needs a unique path and a unique external name. Derived names join
the root name and the path with dashes, so ` + "`a/b`" + ` and an explicit name
` + "`<root>-a-b`" + ` collide.

## Things you can try
- Remove the duplicate module entry.
- Give one of the modules an explicit ` + "`name`" + `.`,
		},
		PartialSigningCredentialsId: {
			id:    PartialSigningCredentialsId,
			title: "Signing credentials are incomplete",
			mdMsg: `
Signing is enabled only when both ` + "`SIGNING_KEY`" + ` and ` + "`SIGNING_PASSWORD`" + ` are set.
Exactly one of them is set, which usually means a CI secret is missing.

## Things you can try
- Set both variables to sign artifacts.
- Unset both to build without signing.`,
		},
		InvalidMetadataId: {
			id:    InvalidMetadataId,
			title: "Invalid project metadata",
			mdMsg: `
The ` + "`project`" + ` block of ` + "`settings.cue`" + ` holds published metadata.
Versions follow semantic versioning (` + "`1.2.3`" + `), groups are dotted
identifiers and developer timezones are IANA names like ` + "`Europe/Stockholm`" + `.`,
			docLinks: []HttpLink{"https://semver.org/"},
		},
		ConfigLoadFailedId: {
			id:    ConfigLoadFailedId,
			title: "Tool configuration could not be loaded",
			mdMsg: `
The buildlogic configuration file is invalid.

## Things you can try
~~~
$ buildlogic config path
$ buildlogic config show
~~~
- Recreate a default file with ` + "`buildlogic config init --force`" + `.`,
		},
	}
)

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return catalog[id]
}

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(catalog))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog[id])
	}
	return out
}

// Classify maps an error to the catalog entry describing it, or 0.
func Classify(err error) Id {
	var cycle *dag.CycleError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, buildfile.ErrSettingsNotFound):
		return SettingsNotFoundId
	case errors.Is(err, convention.ErrDuplicateDefinition):
		return DuplicateConventionId
	case errors.Is(err, convention.ErrUnknownBundle):
		return UnknownConventionId
	case errors.Is(err, convention.ErrCyclicDependency), errors.As(err, &cycle):
		return ConventionCycleId
	case errors.Is(err, project.ErrInvalidPath):
		return InvalidModulePathId
	case errors.Is(err, project.ErrInvalidExternalName):
		return InvalidModuleNameId
	case errors.Is(err, project.ErrNameCollision):
		return ModuleNameCollisionId
	case errors.Is(err, signing.ErrPartialCredential):
		return PartialSigningCredentialsId
	case errors.Is(err, metadata.ErrInvalidMetadata):
		return InvalidMetadataId
	case errors.Is(err, cueutil.ErrValidation), errors.Is(err, cueutil.ErrFileTooLarge),
		errors.Is(err, convention.ErrUnknownActionKind), errors.Is(err, convention.ErrInvalidBundle):
		return BuildFileInvalidId
	}

	var (
		decodeErr *convention.ActionDecodeError
		actionErr *convention.ActionError
	)
	switch {
	case errors.As(err, &decodeErr):
		return BuildFileInvalidId
	case errors.As(err, &actionErr):
		return ConventionActionFailedId
	}
	return 0
}

// SPDX-License-Identifier: MPL-2.0

// Package buildconfig holds the build configuration of a single module: the
// state that convention actions mutate during a configuration pass.
//
// Every mutator is idempotent and reports whether it changed anything, so
// applying the same setting twice never duplicates an entry.
package buildconfig

import (
	"slices"

	"github.com/mardroemmar/buildlogic/pkg/project"
)

type (
	// Config is the build configuration of one module.
	Config struct {
		Module       ModuleRef    `json:"module" yaml:"module" toml:"module"`
		Plugins      []string     `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
		Repositories []string     `json:"repositories,omitempty" yaml:"repositories,omitempty" toml:"repositories,omitempty"`
		Dependencies []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
		Exclusions   []Exclusion  `json:"exclusions,omitempty" yaml:"exclusions,omitempty" toml:"exclusions,omitempty"`
		CompilerArgs []string     `json:"compiler_args,omitempty" yaml:"compiler_args,omitempty" toml:"compiler_args,omitempty"`
		Tasks        []Task       `json:"tasks,omitempty" yaml:"tasks,omitempty" toml:"tasks,omitempty"`
		Javadoc      Javadoc      `json:"javadoc" yaml:"javadoc" toml:"javadoc"`
		JavaTarget   int          `json:"java_target,omitempty" yaml:"java_target,omitempty" toml:"java_target,omitempty"`
		TestLogger   string       `json:"test_logger_theme,omitempty" yaml:"test_logger_theme,omitempty" toml:"test_logger_theme,omitempty"`
		Publication  *Publication `json:"publication,omitempty" yaml:"publication,omitempty" toml:"publication,omitempty"`
		Signing      Signing      `json:"signing" yaml:"signing" toml:"signing"`
	}

	// ModuleRef is the identity of the configured module.
	ModuleRef struct {
		Path string `json:"path" yaml:"path" toml:"path"`
		Name string `json:"name" yaml:"name" toml:"name"`
	}

	// Dependency is a coordinate added to a named configuration such as "api"
	// or "testImplementation".
	Dependency struct {
		Configuration string `json:"configuration" yaml:"configuration" toml:"configuration"`
		Coordinate    string `json:"coordinate" yaml:"coordinate" toml:"coordinate"`
	}

	// Exclusion removes a dependency group from a named configuration.
	Exclusion struct {
		Configuration string `json:"configuration" yaml:"configuration" toml:"configuration"`
		Group         string `json:"group" yaml:"group" toml:"group"`
	}

	// Task is a registered build task.
	Task struct {
		Name        string `json:"name" yaml:"name" toml:"name"`
		Type        string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
		Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	}

	// Option is a single key/value documentation tool option.
	Option struct {
		Key   string `json:"key" yaml:"key" toml:"key"`
		Value string `json:"value" yaml:"value" toml:"value"`
	}

	// Javadoc collects documentation generation settings.
	Javadoc struct {
		Options  []Option `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
		Encoding string   `json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty"`
		Charset  string   `json:"charset,omitempty" yaml:"charset,omitempty" toml:"charset,omitempty"`
		Links    []string `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	}

	// Publication is the metadata embedded in published artifacts.
	Publication struct {
		GroupID     string      `json:"group_id" yaml:"group_id" toml:"group_id"`
		ArtifactID  string      `json:"artifact_id" yaml:"artifact_id" toml:"artifact_id"`
		Version     string      `json:"version" yaml:"version" toml:"version"`
		Description string      `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
		License     string      `json:"license,omitempty" yaml:"license,omitempty" toml:"license,omitempty"`
		SCM         *SCM        `json:"scm,omitempty" yaml:"scm,omitempty" toml:"scm,omitempty"`
		Developers  []Developer `json:"developers,omitempty" yaml:"developers,omitempty" toml:"developers,omitempty"`
	}

	// SCM holds source control coordinates.
	SCM struct {
		URL        string `json:"url" yaml:"url" toml:"url"`
		Connection string `json:"connection" yaml:"connection" toml:"connection"`
		Issues     string `json:"issues,omitempty" yaml:"issues,omitempty" toml:"issues,omitempty"`
		CI         string `json:"ci,omitempty" yaml:"ci,omitempty" toml:"ci,omitempty"`
	}

	// Developer is one developer record of a publication.
	Developer struct {
		ID       string `json:"id" yaml:"id" toml:"id"`
		Name     string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
		Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty" toml:"timezone,omitempty"`
	}

	// Signing records whether artifacts are signed. Key material is never
	// stored here.
	Signing struct {
		Enabled   bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
		KeySource string `json:"key_source,omitempty" yaml:"key_source,omitempty" toml:"key_source,omitempty"`
	}
)

// New returns an empty configuration for the given module.
func New(module project.Descriptor) *Config {
	return &Config{
		Module: ModuleRef{Path: module.Path.String(), Name: module.Name.String()},
	}
}

// ApplyPlugin records a plugin id.
func (c *Config) ApplyPlugin(id string) bool {
	return addUnique(&c.Plugins, id)
}

// AddRepository records a repository name or URL.
func (c *Config) AddRepository(repo string) bool {
	return addUnique(&c.Repositories, repo)
}

// AddCompilerArg records a compiler argument.
func (c *Config) AddCompilerArg(arg string) bool {
	return addUnique(&c.CompilerArgs, arg)
}

// AddDependency records a dependency on a configuration.
func (c *Config) AddDependency(d Dependency) bool {
	return addUnique(&c.Dependencies, d)
}

// Exclude records a group exclusion on a configuration.
func (c *Config) Exclude(e Exclusion) bool {
	return addUnique(&c.Exclusions, e)
}

// RegisterTask records a task. A task name is registered once; a second
// registration under the same name is ignored.
func (c *Config) RegisterTask(t Task) bool {
	if slices.ContainsFunc(c.Tasks, func(existing Task) bool { return existing.Name == t.Name }) {
		return false
	}
	c.Tasks = append(c.Tasks, t)
	return true
}

// HasTask reports whether a task with the given name is registered.
func (c *Config) HasTask(name string) bool {
	return slices.ContainsFunc(c.Tasks, func(t Task) bool { return t.Name == name })
}

// SetJavadocOption sets a documentation option, replacing an earlier value
// for the same key in place.
func (c *Config) SetJavadocOption(key, value string) bool {
	for i, opt := range c.Javadoc.Options {
		if opt.Key == key {
			if opt.Value == value {
				return false
			}
			c.Javadoc.Options[i].Value = value
			return true
		}
	}
	c.Javadoc.Options = append(c.Javadoc.Options, Option{Key: key, Value: value})
	return true
}

// SetJavadocEncoding sets the source encoding and output charset.
func (c *Config) SetJavadocEncoding(encoding, charset string) bool {
	changed := c.Javadoc.Encoding != encoding || c.Javadoc.Charset != charset
	c.Javadoc.Encoding = encoding
	c.Javadoc.Charset = charset
	return changed
}

// AddJavadocLink records an external documentation link.
func (c *Config) AddJavadocLink(link string) bool {
	return addUnique(&c.Javadoc.Links, link)
}

// SetJavaTarget sets the target Java release.
func (c *Config) SetJavaTarget(release int) bool {
	changed := c.JavaTarget != release
	c.JavaTarget = release
	return changed
}

// SetTestLoggerTheme sets the test output theme.
func (c *Config) SetTestLoggerTheme(theme string) bool {
	changed := c.TestLogger != theme
	c.TestLogger = theme
	return changed
}

// SetPublication replaces the publication metadata.
func (c *Config) SetPublication(p Publication) bool {
	if c.Publication != nil && publicationEqual(*c.Publication, p) {
		return false
	}
	c.Publication = &p
	return true
}

// EnableSigning turns on artifact signing with the given key source.
func (c *Config) EnableSigning(keySource string) bool {
	changed := !c.Signing.Enabled || c.Signing.KeySource != keySource
	c.Signing = Signing{Enabled: true, KeySource: keySource}
	return changed
}

func addUnique[T comparable](list *[]T, v T) bool {
	if slices.Contains(*list, v) {
		return false
	}
	*list = append(*list, v)
	return true
}

func publicationEqual(a, b Publication) bool {
	if a.GroupID != b.GroupID || a.ArtifactID != b.ArtifactID || a.Version != b.Version ||
		a.Description != b.Description || a.License != b.License {
		return false
	}
	if (a.SCM == nil) != (b.SCM == nil) || (a.SCM != nil && *a.SCM != *b.SCM) {
		return false
	}
	return slices.Equal(a.Developers, b.Developers)
}

// SPDX-License-Identifier: MPL-2.0

package convention

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mardroemmar/buildlogic/internal/dag"
	"github.com/mardroemmar/buildlogic/pkg/project"
)

var (
	// ErrDuplicateDefinition is the sentinel error wrapped by DuplicateDefinitionError.
	ErrDuplicateDefinition = errors.New("duplicate convention definition")
	// ErrUnknownBundle is the sentinel error wrapped by UnknownBundleError.
	ErrUnknownBundle = errors.New("unknown convention")
	// ErrCyclicDependency is the sentinel error wrapped by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic convention prerequisites")
	// ErrInvalidBundle is returned when a bundle definition is malformed.
	ErrInvalidBundle = errors.New("invalid convention definition")
)

type (
	// Bundle is a named set of configuration actions with prerequisites.
	Bundle struct {
		Name     string
		Requires []string
		Actions  []Action
		// Source names where the bundle was defined, for diagnostics.
		Source string
	}

	// Registry holds convention bundles and tracks which bundles have been
	// applied to which module. Create one per configuration pass with
	// NewRegistry; it is not safe for concurrent use.
	Registry struct {
		bundles map[string]Bundle
		order   []string
		applied map[project.Path]*moduleState
	}

	moduleState struct {
		done  map[string]bool
		order []string
	}

	// DuplicateDefinitionError is returned when a bundle name is registered twice.
	DuplicateDefinitionError struct {
		Name           string
		Source         string
		ExistingSource string
	}

	// UnknownBundleError is returned when a requested bundle or one of its
	// prerequisites is not registered. RequiredBy is empty for the requested
	// bundle itself.
	UnknownBundleError struct {
		Name       string
		RequiredBy string
	}

	// CyclicDependencyError is returned when bundle prerequisites form a loop.
	CyclicDependencyError struct {
		Cycle []string
		cause *dag.CycleError
	}

	// ActionError is returned when a configuration action fails.
	ActionError struct {
		Bundle string
		Kind   string
		Module project.Path
		Err    error
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		bundles: make(map[string]Bundle),
		applied: make(map[project.Path]*moduleState),
	}
}

// Register adds a bundle. Prerequisites do not need to be registered yet;
// they are resolved at application time. The registry keeps its own copy of
// the bundle's slices.
func (r *Registry) Register(b Bundle) error {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return fmt.Errorf("%w: bundle name is empty (source %s)", ErrInvalidBundle, b.Source)
	}
	if existing, ok := r.bundles[name]; ok {
		return &DuplicateDefinitionError{Name: name, Source: b.Source, ExistingSource: existing.Source}
	}
	for i, req := range b.Requires {
		if strings.TrimSpace(req) == "" {
			return fmt.Errorf("%w: %s: requires[%d] is empty", ErrInvalidBundle, name, i)
		}
	}
	for i, a := range b.Actions {
		if a == nil {
			return fmt.Errorf("%w: %s: actions[%d] is nil", ErrInvalidBundle, name, i)
		}
	}

	r.bundles[name] = Bundle{
		Name:     name,
		Requires: slices.Clone(b.Requires),
		Actions:  slices.Clone(b.Actions),
		Source:   b.Source,
	}
	r.order = append(r.order, name)
	return nil
}

// Lookup returns a copy of the named bundle.
func (r *Registry) Lookup(name string) (Bundle, bool) {
	b, ok := r.bundles[name]
	if !ok {
		return Bundle{}, false
	}
	b.Requires = slices.Clone(b.Requires)
	b.Actions = slices.Clone(b.Actions)
	return b, true
}

// Names returns registered bundle names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of registered bundles.
func (r *Registry) Len() int {
	return len(r.order)
}

// Resolve returns the application order for name: every transitive
// prerequisite ahead of the bundles that require it, ending with name.
func (r *Registry) Resolve(name string) ([]string, error) {
	return r.ResolveAll(name)
}

// ResolveAll returns one application order covering every named bundle and
// their prerequisites. Unknown names and cycles are reported before anything
// is returned.
func (r *Registry) ResolveAll(names ...string) ([]string, error) {
	var reachable []string
	visited := make(map[string]bool)

	var visit func(name, requiredBy string) error
	visit = func(name, requiredBy string) error {
		if visited[name] {
			return nil
		}
		b, ok := r.bundles[name]
		if !ok {
			return &UnknownBundleError{Name: name, RequiredBy: requiredBy}
		}
		visited[name] = true
		for _, req := range b.Requires {
			if err := visit(req, name); err != nil {
				return err
			}
		}
		reachable = append(reachable, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}

	g := dag.New()
	for _, name := range reachable {
		g.AddNode(name)
	}
	for _, name := range reachable {
		for _, req := range r.bundles[name].Requires {
			g.AddEdge(req, name)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &CyclicDependencyError{Cycle: slices.Clone(cycleErr.Cycle), cause: cycleErr}
		}
		return nil, err
	}
	return order, nil
}

// Apply applies name and its prerequisites to target. Bundles already applied
// to target's module are skipped, so applying a bundle twice is a no-op and
// shared prerequisites run once. The full order is resolved before any action
// runs. Apply returns the bundles that were newly applied.
func (r *Registry) Apply(ctx context.Context, target *Target, name string) ([]string, error) {
	if target == nil || target.Config == nil {
		return nil, fmt.Errorf("apply %q: target has no build configuration", name)
	}

	order, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	state := r.stateFor(target.Module.Path)
	var newlyApplied []string
	for _, bundleName := range order {
		if state.done[bundleName] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return newlyApplied, err
		}

		b := r.bundles[bundleName]
		for _, action := range b.Actions {
			if err := action.Apply(target); err != nil {
				return newlyApplied, &ActionError{Bundle: bundleName, Kind: action.Kind(), Module: target.Module.Path, Err: err}
			}
		}
		state.done[bundleName] = true
		state.order = append(state.order, bundleName)
		newlyApplied = append(newlyApplied, bundleName)
	}
	return newlyApplied, nil
}

// IsApplied reports whether name has been applied to the module at p.
func (r *Registry) IsApplied(p project.Path, name string) bool {
	state, ok := r.applied[p]
	return ok && state.done[name]
}

// Applied returns the bundles applied to the module at p, in application order.
func (r *Registry) Applied(p project.Path) []string {
	state, ok := r.applied[p]
	if !ok {
		return nil
	}
	return slices.Clone(state.order)
}

func (r *Registry) stateFor(p project.Path) *moduleState {
	state, ok := r.applied[p]
	if !ok {
		state = &moduleState{done: make(map[string]bool)}
		r.applied[p] = state
	}
	return state
}

// Error implements the error interface for DuplicateDefinitionError.
func (e *DuplicateDefinitionError) Error() string {
	msg := fmt.Sprintf("convention %q is already defined", e.Name)
	if e.ExistingSource != "" {
		msg += " in " + e.ExistingSource
	}
	if e.Source != "" {
		msg += "; redefined in " + e.Source
	}
	return msg
}

// Unwrap returns ErrDuplicateDefinition for errors.Is() compatibility.
func (e *DuplicateDefinitionError) Unwrap() error { return ErrDuplicateDefinition }

// Error implements the error interface for UnknownBundleError.
func (e *UnknownBundleError) Error() string {
	if e.RequiredBy == "" {
		return fmt.Sprintf("convention %q is not defined", e.Name)
	}
	return fmt.Sprintf("convention %q (required by %q) is not defined", e.Name, e.RequiredBy)
}

// Unwrap returns ErrUnknownBundle for errors.Is() compatibility.
func (e *UnknownBundleError) Unwrap() error { return ErrUnknownBundle }

// Error implements the error interface for CyclicDependencyError.
func (e *CyclicDependencyError) Error() string {
	return "convention prerequisites form a cycle: " + strings.Join(e.Cycle, " -> ")
}

// Unwrap returns both ErrCyclicDependency and the underlying *dag.CycleError.
func (e *CyclicDependencyError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrCyclicDependency}
	}
	return []error{ErrCyclicDependency, e.cause}
}

// Error implements the error interface for ActionError.
func (e *ActionError) Error() string {
	return fmt.Sprintf("convention %q: %s action on module %q: %v", e.Bundle, e.Kind, e.Module, e.Err)
}

// Unwrap returns the action's error.
func (e *ActionError) Unwrap() error { return e.Err }

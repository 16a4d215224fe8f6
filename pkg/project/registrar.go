// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNameCollision is the sentinel error wrapped by NameCollisionError.
	ErrNameCollision = errors.New("module name collision")
	// ErrRegistrationClosed is returned by Register after Close.
	ErrRegistrationClosed = errors.New("module registration is closed")
)

type (
	// Descriptor identifies one module of the build.
	Descriptor struct {
		// Path is the normalized module directory.
		Path Path
		// Name is the external name.
		Name ExternalName
		// Explicit is true when Name came from an override instead of DeriveName.
		Explicit bool
	}

	// NameCollisionError is returned when a module path or external name is
	// already taken. Field is "path" or "name".
	NameCollisionError struct {
		Field    string
		Value    string
		Existing Descriptor
	}

	// Registrar records the modules of one build in declaration order.
	// It is not safe for concurrent use; a configuration pass is single-threaded.
	Registrar struct {
		rootName ExternalName
		modules  []Descriptor
		byPath   map[Path]int
		byName   map[ExternalName]int
		closed   bool
	}
)

// rootIndex marks the root project in the lookup maps.
const rootIndex = -1

// NewRegistrar creates a Registrar for a root project. The root name is
// itself reserved: no module can take it.
func NewRegistrar(rootName string) (*Registrar, error) {
	name := ExternalName(strings.TrimSpace(rootName))
	if err := name.Validate(); err != nil {
		return nil, fmt.Errorf("root project name: %w", err)
	}
	return &Registrar{
		rootName: name,
		byPath:   map[Path]int{RootPath: rootIndex},
		byName:   map[ExternalName]int{name: rootIndex},
	}, nil
}

// RootName returns the root project's external name.
func (r *Registrar) RootName() ExternalName {
	return r.rootName
}

// Root returns the descriptor of the root project.
func (r *Registrar) Root() Descriptor {
	return Descriptor{Path: RootPath, Name: r.rootName, Explicit: true}
}

// Register includes the module at rawPath. When explicitName is empty the
// external name is derived from the root name and the path. Both the path and
// the resulting name must be unused.
func (r *Registrar) Register(rawPath, explicitName string) (Descriptor, error) {
	if r.closed {
		return Descriptor{}, fmt.Errorf("register %q: %w", rawPath, ErrRegistrationClosed)
	}

	p, err := NormalizePath(rawPath)
	if err != nil {
		return Descriptor{}, err
	}

	desc := Descriptor{Path: p}
	if explicitName != "" {
		desc.Name = ExternalName(explicitName)
		desc.Explicit = true
	} else {
		desc.Name = DeriveName(r.rootName, p)
	}
	if err := desc.Name.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("module %q: %w", p, err)
	}

	if idx, taken := r.byPath[p]; taken {
		return Descriptor{}, &NameCollisionError{Field: "path", Value: string(p), Existing: r.at(idx)}
	}
	if idx, taken := r.byName[desc.Name]; taken {
		return Descriptor{}, &NameCollisionError{Field: "name", Value: string(desc.Name), Existing: r.at(idx)}
	}

	r.byPath[p] = len(r.modules)
	r.byName[desc.Name] = len(r.modules)
	r.modules = append(r.modules, desc)
	return desc, nil
}

// Close ends registration. Later calls to Register fail with
// ErrRegistrationClosed.
func (r *Registrar) Close() {
	r.closed = true
}

// Closed reports whether Close has been called.
func (r *Registrar) Closed() bool {
	return r.closed
}

// Modules returns the registered modules in declaration order.
func (r *Registrar) Modules() []Descriptor {
	out := make([]Descriptor, len(r.modules))
	copy(out, r.modules)
	return out
}

// Lookup returns the module registered at rawPath.
func (r *Registrar) Lookup(rawPath string) (Descriptor, bool) {
	if strings.TrimSpace(rawPath) == string(RootPath) {
		return r.Root(), true
	}
	p, err := NormalizePath(rawPath)
	if err != nil {
		return Descriptor{}, false
	}
	idx, ok := r.byPath[p]
	if !ok {
		return Descriptor{}, false
	}
	return r.at(idx), true
}

// ByName returns the module with the given external name.
func (r *Registrar) ByName(name ExternalName) (Descriptor, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.at(idx), true
}

func (r *Registrar) at(idx int) Descriptor {
	if idx == rootIndex {
		return r.Root()
	}
	return r.modules[idx]
}

// Error implements the error interface for NameCollisionError.
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("module %s %q is already registered by %q", e.Field, e.Value, e.Existing.Path)
}

// Unwrap returns ErrNameCollision for errors.Is() compatibility.
func (e *NameCollisionError) Unwrap() error { return ErrNameCollision }

// Package registry tracks the names used inside one naming scope of a
// container, such as the data arrays of a block or the properties of a section.
package registry

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
)

// Registry records names in insertion order and rejects duplicates.
type Registry struct {
	scope string
	names []string
	seen  map[string]struct{}
}

// New creates an empty Registry. The scope is used in error messages only.
func New(scope string) *Registry {
	return &Registry{
		scope: scope,
		seen:  make(map[string]struct{}),
	}
}

// Track registers name.
//
// Returns:
//   - error: ErrInvalidName for an empty name, ErrDuplicateName if name was already tracked
func (r *Registry) Track(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", errs.ErrInvalidName, r.scope)
	}

	if _, ok := r.seen[name]; ok {
		return fmt.Errorf("%w: %s %q", errs.ErrDuplicateName, r.scope, name)
	}

	r.seen[name] = struct{}{}
	r.names = append(r.names, name)

	return nil
}

// Contains reports whether name was tracked.
func (r *Registry) Contains(name string) bool {
	_, ok := r.seen[name]
	return ok
}

// Names returns the tracked names in insertion order.
func (r *Registry) Names() []string {
	return r.names
}

// Count returns the number of tracked names.
func (r *Registry) Count() int {
	return len(r.names)
}

// Reset clears the registry while keeping allocated memory.
func (r *Registry) Reset() {
	clear(r.seen)
	r.names = r.names[:0]
}

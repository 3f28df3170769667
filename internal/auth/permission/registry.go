// Package permission provides the process-wide registry of declared capabilities.
//
// Every guarded operation declares a Descriptor during router construction, before
// the server accepts traffic. The registry is additive-only: descriptors are never
// removed or mutated at runtime, so reads after startup are contention-free.
package permission

import (
	"sort"
	"sync"
)

// Descriptor identifies one capability a guarded operation requires.
// Two descriptors are the same capability when Module and Name match;
// Info is display-only and does not participate in identity.
type Descriptor struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Info   string `json:"info"`
}

// key is the identity of a descriptor for set membership.
type key struct {
	module string
	name   string
}

// Registry is an injectable, append-only set of declared descriptors.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]Descriptor
}

// NewRegistry creates an empty permission registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[key]Descriptor),
	}
}

// Declare registers a descriptor and returns it for use by a guard closure.
// Declaring the same (module, name) twice collapses to a single entry; the
// first Info wins so repeated declarations cannot rewrite descriptions.
func (r *Registry) Declare(module, name, info string) Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{module: module, name: name}
	if existing, ok := r.entries[k]; ok {
		return existing
	}

	d := Descriptor{Module: module, Name: name, Info: info}
	r.entries[k] = d
	return d
}

// List returns every declared descriptor, sorted by module then name.
// The listing is independent of which identities currently hold which
// capabilities; it exists for the administrative permission UI.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Name < out[j].Name
	})

	return out
}

// Len returns the number of declared descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

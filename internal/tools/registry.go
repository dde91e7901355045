package tools

import (
	"fmt"
	"sort"
)

// Registry is the immutable set of tools the server exposes.
type Registry struct {
	byName map[string]Descriptor
	order  []string
}

// NewRegistry builds a registry from descriptor tables. Duplicate or empty
// names and descriptors without a request builder are rejected.
func NewRegistry(tables ...[]Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Descriptor)}

	for _, table := range tables {
		for _, d := range table {
			name := d.Name()
			switch {
			case name == "":
				return nil, fmt.Errorf("tool descriptor without a name")
			case d.Build == nil:
				return nil, fmt.Errorf("tool %q has no request builder", name)
			}
			if _, dup := r.byName[name]; dup {
				return nil, fmt.Errorf("duplicate tool name %q", name)
			}
			r.byName[name] = d
			r.order = append(r.order, name)
		}
	}

	return r, nil
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return d, nil
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

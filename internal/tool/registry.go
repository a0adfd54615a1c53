package tool

import "fmt"

// Registry holds descriptors in registration order. That order is also the
// merge order for results, so it is fixed at construction.
type Registry struct {
	ordered []Descriptor
	byID    map[string]Descriptor
}

// NewRegistry validates descriptors and preserves their order. Duplicate
// ids and nil capabilities are construction errors.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	reg := &Registry{byID: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("tool descriptor missing id")
		}
		if _, exists := reg.byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate tool id: %s", d.ID)
		}
		if d.Tool == nil {
			return nil, fmt.Errorf("tool %s has no capability", d.ID)
		}
		if d.Timeout <= 0 {
			d.Timeout = DefaultTimeout
		}
		reg.ordered = append(reg.ordered, d)
		reg.byID[d.ID] = d
	}
	return reg, nil
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get returns the descriptor for an id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Eligible filters to tools that are enabled and allowed by the policy's
// tool set, preserving registration order.
func (r *Registry) Eligible(allows func(id string) bool) []Descriptor {
	var out []Descriptor
	for _, d := range r.ordered {
		if d.Enabled && allows(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

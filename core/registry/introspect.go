package registry

import "github.com/pokkur/layr/core/component"

// Introspection is the wire description of a registry: its name and the
// introspection of every component with an exposed surface.
type Introspection struct {
	Name       string                   `json:"name,omitempty"`
	Components []ComponentIntrospection `json:"components"`
}

// ComponentIntrospection tags a component's introspection with its base
// type for the wire.
type ComponentIntrospection struct {
	component.Introspection
	Type string `json:"type"`
}

// Introspect describes the registry's exposed components. Components
// with nothing exposed at either level are skipped entirely.
func (r *Registry) Introspect() Introspection {
	out := Introspection{Name: r.name, Components: []ComponentIntrospection{}}
	for _, name := range r.ComponentNames() {
		c := r.find(name)
		if c == nil {
			continue
		}
		in := c.Introspect()
		if in == nil {
			continue
		}
		out.Components = append(out.Components, ComponentIntrospection{Introspection: *in, Type: "Component"})
	}
	return out
}

// Package registry manages named collections of component classes. A
// registry registers each component at most once, resolves lookups
// through its fork chain, and forks copy-on-write: components reached
// through a child registry are forked and bound to the child lazily, so
// untouched components remain shared with the parent.
//
// Registries do no internal locking. Operations run synchronously and
// callers sharing one registry across goroutines synchronize around it;
// the remote service layer does exactly that.
package registry

import (
	"strings"

	"github.com/pokkur/layr/core/component"
)

// reservedNames are registry-level property names component names must
// not collide with.
var reservedNames = map[string]bool{
	"name":       true,
	"parent":     true,
	"components": true,
	"ghost":      true,
}

// Registry implements the lookup surface components keep on their
// owning registry.
var _ component.Registry = (*Registry)(nil)

// Registry is a named collection of component classes.
type Registry struct {
	name   string
	parent *Registry

	// components registered or lazily forked into this registry
	components map[string]*component.Component

	// registration order
	order []string

	// cached self-fork used as the default isolated workspace
	ghost *Registry
}

// New creates a registry, optionally named, holding an initial set of
// component classes.
func New(name string, components ...*component.Component) (*Registry, error) {
	if name != "" {
		if err := component.ValidateName(name); err != nil {
			return nil, err
		}
	}
	r := &Registry{name: name}
	for _, c := range components {
		if err := r.RegisterComponent(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the registry's name, or "" when unnamed.
func (r *Registry) Name() string {
	return r.name
}

// Parent returns the registry this one was forked from, or nil.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// ParentName returns the parent registry's name, or "".
func (r *Registry) ParentName() string {
	if r.parent == nil {
		return ""
	}
	return r.parent.name
}

// RegisterComponent registers a component class under its name and
// records this registry as its owner. Registration fails for instances,
// for components already owned by a registry, for names already
// registered here or in an ancestor, and for names colliding with
// registry-level properties.
func (r *Registry) RegisterComponent(c *component.Component) error {
	if c == nil {
		return &component.DuplicateRegistrationError{Registry: r.name, Reason: "component is nil"}
	}
	name := c.Name()
	if c.Kind() != component.Class {
		return &component.DuplicateRegistrationError{Component: name, Registry: r.name, Reason: "only classes can be registered"}
	}
	if c.Registry() != nil {
		return &component.DuplicateRegistrationError{Component: name, Registry: r.name, Reason: "component already belongs to a registry"}
	}
	if reservedNames[name] {
		return &component.DuplicateRegistrationError{Component: name, Registry: r.name, Reason: "name collides with a registry property"}
	}
	if r.find(name) != nil {
		return &component.DuplicateRegistrationError{Component: name, Registry: r.name, Reason: "name already registered"}
	}
	c.BindRegistry(r)
	r.store(name, c)
	return nil
}

// GetComponentOptions configure component lookup.
type GetComponentOptions struct {
	// AllowMissing returns nil instead of failing on a lookup miss.
	AllowMissing bool

	// IncludePrototypes additionally resolves instance names, written
	// lower camel case, to their class.
	IncludePrototypes bool
}

// GetComponent resolves a component class by name. A component found in
// an ancestor registry is forked and bound to this registry before
// being returned, so mutation through a child never reaches the parent.
func (r *Registry) GetComponent(name string, opts GetComponentOptions) (*component.Component, error) {
	lookup := name
	if opts.IncludePrototypes && isInstanceName(name) {
		lookup = upperFirst(name)
	}
	if c, ok := r.components[lookup]; ok {
		return c, nil
	}
	if inherited := r.findInParents(lookup); inherited != nil {
		fork := inherited.Fork()
		fork.BindRegistry(r)
		r.store(lookup, fork)
		return fork, nil
	}
	if opts.AllowMissing {
		return nil, nil
	}
	return nil, &component.UnknownComponentError{Registry: r.name, Component: name}
}

// Lookup resolves a class or instance name, returning nil on a miss. It
// implements the lookup surface components hold on their registry.
func (r *Registry) Lookup(name string) *component.Component {
	c, _ := r.GetComponent(name, GetComponentOptions{AllowMissing: true, IncludePrototypes: true})
	return c
}

// ComponentNames returns the registered component names in registration
// order, ancestor registrations first.
func (r *Registry) ComponentNames() []string {
	var orders [][]string
	for reg := r; reg != nil; reg = reg.parent {
		orders = append(orders, reg.order)
	}
	seen := make(map[string]bool)
	var names []string
	for i := len(orders) - 1; i >= 0; i-- {
		for _, name := range orders[i] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Fork returns a child registry delegating to this one. Components are
// fetched and forked on first access through the child, never eagerly.
func (r *Registry) Fork() *Registry {
	return &Registry{name: r.name, parent: r}
}

// GetGhost lazily creates and caches a single self-fork used as the
// registry's default isolated workspace.
func (r *Registry) GetGhost() *Registry {
	if r.ghost == nil {
		r.ghost = r.Fork()
	}
	return r.ghost
}

// find resolves a name through the fork chain without forking.
func (r *Registry) find(name string) *component.Component {
	for reg := r; reg != nil; reg = reg.parent {
		if c, ok := reg.components[name]; ok {
			return c
		}
	}
	return nil
}

// findInParents resolves a name strictly above this registry.
func (r *Registry) findInParents(name string) *component.Component {
	if r.parent == nil {
		return nil
	}
	return r.parent.find(name)
}

func (r *Registry) store(name string, c *component.Component) {
	if r.components == nil {
		r.components = make(map[string]*component.Component)
	}
	if _, ok := r.components[name]; !ok {
		r.order = append(r.order, name)
	}
	r.components[name] = c
}

// isInstanceName reports whether a name is written as an instance name,
// with a lower-case first letter.
func isInstanceName(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

func upperFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

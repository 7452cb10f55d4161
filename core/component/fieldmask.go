package component

import "github.com/pokkur/layr/core/mask"

// CreateFieldMaskOptions configure field mask construction.
type CreateFieldMaskOptions struct {
	// Filter limits the mask to fields passing the predicate.
	Filter func(*Property) bool

	// IncludeReferencedEntities expands component-typed fields into the
	// referenced class's declared fields. When false such fields are
	// omitted from the mask.
	IncludeReferencedEntities bool
}

// CreateFieldMask normalizes a selector into a canonical mask over the
// component's declared fields. Expansion of component-typed fields is
// cycle-safe: a type already being expanded higher in the same call
// selects nothing, so self-referential and mutually-referential type
// graphs terminate.
func (c *Component) CreateFieldMask(selector any, opts CreateFieldMaskOptions) (*mask.Mask, error) {
	sel, err := mask.Normalize(selector)
	if err != nil {
		return nil, err
	}
	return c.buildFieldMask(sel, opts, make(map[string]bool))
}

// CreateFieldMaskForExposedFields computes the wire-safe mask used when
// serializing toward an untrusted recipient: only fields whose exposure
// grants read access are selected.
func (c *Component) CreateFieldMaskForExposedFields(selector any) (*mask.Mask, error) {
	return c.CreateFieldMask(selector, CreateFieldMaskOptions{
		Filter:                    func(p *Property) bool { return p.Exposure().Get },
		IncludeReferencedEntities: true,
	})
}

// buildFieldMask expands a normalized selector over declared fields.
// expanding is the call-scoped set of type tags currently being
// expanded; it is never shared between calls, keeping construction
// reentrant.
func (c *Component) buildFieldMask(sel *mask.Mask, opts CreateFieldMaskOptions, expanding map[string]bool) (*mask.Mask, error) {
	out := mask.None()
	for _, name := range c.fieldNames() {
		p := c.resolve(name, instanceLevel)
		if opts.Filter != nil && !opts.Filter(p) {
			continue
		}
		nested := sel.Get(name)
		if nested == nil {
			continue
		}
		ft := p.FieldType()
		if !ft.IsComponent() {
			out.Set(name, mask.All())
			continue
		}
		if !opts.IncludeReferencedEntities {
			continue
		}
		if expanding[ft.Name] {
			continue
		}
		class := c.referencedClass(ft.Name)
		if class == nil {
			continue
		}
		expanding[ft.Name] = true
		sub, err := class.buildFieldMask(nested, opts, expanding)
		delete(expanding, ft.Name)
		if err != nil {
			return nil, err
		}
		out.Set(name, sub)
	}
	return out, nil
}

// referencedClass resolves a component type tag through the owning
// registry. Unowned components cannot resolve references.
func (c *Component) referencedClass(name string) *Component {
	r := c.Registry()
	if r == nil {
		return nil
	}
	return r.Lookup(name)
}

package component

import (
	"fmt"

	"github.com/pokkur/layr/core/mask"
)

// Identity keys merged into every serialized component.
const (
	componentKey = "__component"
	idKey        = "__id"
	newKey       = "__new"
)

// SerializeOptions configure serialization.
type SerializeOptions struct {
	// Target names the registry the payload is destined for. A target
	// matching neither the component's registry nor that registry's
	// parent is untrusted and only receives exposed fields.
	Target string

	// Fields selects the fields to serialize. Nil selects every field.
	Fields any
}

// DeserializeOptions configure deserialization.
type DeserializeOptions struct {
	// Source names the registry the payload came from. It is propagated
	// to nested deserialization.
	Source string

	// Fields selects the fields to hydrate. Nil selects every field.
	Fields any
}

// Serialize returns the wire form of the component: its identity keys
// merged with every active field selected by the mask. Fields whose
// serialized value is absent are omitted entirely.
func (c *Component) Serialize(opts SerializeOptions) (map[string]any, error) {
	m, err := c.rootMask(opts.Target, opts.Fields)
	if err != nil {
		return nil, err
	}
	out := c.identity()
	if c.kind != Instance {
		return out, nil
	}
	for _, name := range c.fieldNames() {
		nested := m.Get(name)
		if nested == nil {
			continue
		}
		v, active := c.FieldValue(name)
		if !active {
			continue
		}
		sv, ok, err := serializeValue(v, nested, opts.Target)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[name] = sv
	}
	return out, nil
}

// Deserialize hydrates the instance from its wire form: the identity
// keys are merged first, then every declared field selected by the mask
// is filled from the payload, or from its default when the instance is
// new. It returns the tree of selected fields the payload did not
// carry, shaped like a field mask.
func (c *Component) Deserialize(object map[string]any, opts DeserializeOptions) (*mask.Mask, error) {
	if c.kind != Instance {
		return nil, fmt.Errorf("component %q: only instances deserialize", c.Name())
	}
	c.mergeIdentity(object)
	fields := opts.Fields
	if fields == nil {
		fields = true
	}
	m, err := c.CreateFieldMask(fields, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		return nil, err
	}
	missing := mask.None()
	for _, name := range c.fieldNames() {
		nested := m.Get(name)
		if nested == nil {
			continue
		}
		raw, ok := object[name]
		if ok {
			v, subMissing, err := c.deserializeValue(raw, nested, opts.Source)
			if err != nil {
				return nil, err
			}
			c.setFieldValue(name, v)
			if !subMissing.IsEmpty() {
				missing.Set(name, subMissing)
			}
			continue
		}
		if c.isNew {
			p := c.resolve(name, instanceLevel)
			d, _ := p.DefaultValue()
			c.setFieldValue(name, d)
			continue
		}
		missing.Set(name, mask.All())
	}
	return missing, nil
}

// rootMask picks the serialization mask: the exposed-fields mask for
// untrusted targets, the full requested mask otherwise.
func (c *Component) rootMask(target string, fields any) (*mask.Mask, error) {
	if fields == nil {
		fields = true
	}
	if target != "" && !c.trusts(target) {
		return c.CreateFieldMaskForExposedFields(fields)
	}
	return c.CreateFieldMask(fields, CreateFieldMaskOptions{IncludeReferencedEntities: true})
}

// trusts reports whether a target names the component's own registry or
// that registry's parent.
func (c *Component) trusts(target string) bool {
	r := c.Registry()
	if r == nil {
		return false
	}
	if name := r.Name(); name != "" && name == target {
		return true
	}
	if parent := r.ParentName(); parent != "" && parent == target {
		return true
	}
	return false
}

// identity returns the base identity keys: the component tag, and for
// instances the assigned id and the new flag.
func (c *Component) identity() map[string]any {
	out := make(map[string]any)
	if c.kind != Instance {
		out[componentKey] = c.Name()
		return out
	}
	out[componentKey] = c.Name()
	if c.id != "" {
		out[idKey] = c.id
	}
	if c.isNew {
		out[newKey] = true
	}
	return out
}

// mergeIdentity adopts identity keys from a payload.
func (c *Component) mergeIdentity(object map[string]any) {
	if id, ok := object[idKey].(string); ok {
		c.id = id
	}
	if isNew, ok := object[newKey].(bool); ok {
		c.isNew = isNew
	}
}

// serializeValue serializes one field value with its nested mask. The
// second result is false when the value is absent and its key must be
// omitted from the output.
func serializeValue(v any, m *mask.Mask, target string) (any, bool, error) {
	switch val := v.(type) {
	case *Component:
		if val == nil {
			return nil, false, nil
		}
		out, err := val.Serialize(SerializeOptions{Target: target, Fields: m})
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case []any:
		items := make([]any, 0, len(val))
		for _, item := range val {
			sv, ok, err := serializeValue(item, m, target)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			items = append(items, sv)
		}
		return items, true, nil
	default:
		return v, true, nil
	}
}

// deserializeValue rebuilds one field value from its wire form. Objects
// tagged with a component key hydrate a fresh non-hydrating instance of
// the referenced class; other values pass through.
func (c *Component) deserializeValue(raw any, m *mask.Mask, source string) (any, *mask.Mask, error) {
	switch val := raw.(type) {
	case map[string]any:
		name, ok := val[componentKey].(string)
		if !ok {
			return raw, mask.None(), nil
		}
		class, err := c.resolveClass(name)
		if err != nil {
			return nil, nil, err
		}
		inst := class.Instantiate()
		subMissing, err := inst.Deserialize(val, DeserializeOptions{Source: source, Fields: m})
		if err != nil {
			return nil, nil, err
		}
		return inst, subMissing, nil
	case []any:
		items := make([]any, 0, len(val))
		merged := mask.None()
		for _, item := range val {
			v, subMissing, err := c.deserializeValue(item, m, source)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, v)
			merged.Merge(subMissing)
		}
		return items, merged, nil
	default:
		return raw, mask.None(), nil
	}
}

// resolveClass resolves a component name through the owning registry.
func (c *Component) resolveClass(name string) (*Component, error) {
	r := c.Registry()
	if r != nil {
		if class := r.Lookup(name); class != nil {
			return class, nil
		}
	}
	registryName := ""
	if r != nil {
		registryName = r.Name()
	}
	return nil, &UnknownComponentError{Registry: registryName, Component: name}
}

package component

import "encoding/json"

// Introspection is the wire description of a component class: its name
// and the properties exposed at the class and instance levels.
type Introspection struct {
	Name       string                  `json:"name"`
	Properties []PropertyIntrospection `json:"properties,omitempty"`
	Prototype  *PrototypeIntrospection `json:"prototype,omitempty"`
}

// PrototypeIntrospection lists the exposed instance-level properties.
type PrototypeIntrospection struct {
	Properties []PropertyIntrospection `json:"properties,omitempty"`
}

// PropertyIntrospection describes one exposed property. Class-level
// attributes carry a live value snapshot; instance-level attributes
// carry the evaluated default, since concrete values are per-instance.
type PropertyIntrospection struct {
	Name       string
	Kind       PropertyKind
	Value      any
	HasValue   bool
	Default    any
	HasDefault bool
	Exposure   Exposure
}

// MarshalJSON emits the wire shape of a property entry, with the value
// and default keys present only when set.
func (p PropertyIntrospection) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name":     p.Name,
		"type":     string(p.Kind),
		"exposure": p.Exposure,
	}
	if p.HasValue {
		out["value"] = p.Value
	}
	if p.HasDefault {
		out["default"] = p.Default
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a property entry, distinguishing absent value
// and default keys from explicit nulls.
func (p *PropertyIntrospection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string          `json:"name"`
		Type     PropertyKind    `json:"type"`
		Value    json.RawMessage `json:"value"`
		Default  json.RawMessage `json:"default"`
		Exposure Exposure        `json:"exposure"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.Kind = raw.Type
	p.Exposure = raw.Exposure
	if raw.Value != nil {
		p.HasValue = true
		if err := json.Unmarshal(raw.Value, &p.Value); err != nil {
			return err
		}
	}
	if raw.Default != nil {
		p.HasDefault = true
		if err := json.Unmarshal(raw.Default, &p.Default); err != nil {
			return err
		}
	}
	return nil
}

// Introspect describes the exposed surface of a component class. It
// returns nil when no property at either level is exposed, and always
// nil for instances.
func (c *Component) Introspect() *Introspection {
	if c.kind != Class {
		return nil
	}
	props := c.introspectLevel(classLevel)
	protoProps := c.introspectLevel(instanceLevel)
	if len(props) == 0 && len(protoProps) == 0 {
		return nil
	}
	in := &Introspection{Name: c.Name(), Properties: props}
	if len(protoProps) > 0 {
		in.Prototype = &PrototypeIntrospection{Properties: protoProps}
	}
	return in
}

func (c *Component) introspectLevel(lv level) []PropertyIntrospection {
	var out []PropertyIntrospection
	for _, name := range c.declaredNames(lv) {
		p := c.resolve(name, lv)
		if p == nil || !p.IsExposed() {
			continue
		}
		entry := PropertyIntrospection{Name: name, Kind: p.Kind(), Exposure: p.Exposure()}
		if p.Kind() == Attribute {
			if lv == classLevel {
				if v, ok := p.Value(); ok {
					entry.Value = v
					entry.HasValue = true
				}
			} else {
				if d, ok := p.DefaultValue(); ok {
					entry.Default = d
					entry.HasDefault = true
				}
			}
		}
		out = append(out, entry)
	}
	return out
}

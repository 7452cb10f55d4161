package remote

import (
	"fmt"

	"github.com/pokkur/layr/core/component"
	"github.com/pokkur/layr/core/registry"
)

// BuildRegistry reconstructs a local registry from a server's
// introspection. The rebuilt classes carry the exposed surface only:
// class attributes keep the reported value, prototype attributes keep
// the reported default, and methods are declared without handlers, so
// calling one locally fails until a handler is attached.
func BuildRegistry(in registry.Introspection) (*registry.Registry, error) {
	classes := make([]*component.Component, 0, len(in.Components))
	for _, ci := range in.Components {
		class, err := buildClass(ci.Introspection)
		if err != nil {
			return nil, fmt.Errorf("build component %q: %w", ci.Name, err)
		}
		classes = append(classes, class)
	}
	return registry.New(in.Name, classes...)
}

func buildClass(in component.Introspection) (*component.Component, error) {
	class, err := component.New(in.Name)
	if err != nil {
		return nil, err
	}
	for _, p := range in.Properties {
		if err := applyProperty(class, p, false); err != nil {
			return nil, err
		}
	}
	if in.Prototype != nil {
		for _, p := range in.Prototype.Properties {
			if err := applyProperty(class, p, true); err != nil {
				return nil, err
			}
		}
	}
	return class, nil
}

func applyProperty(class *component.Component, p component.PropertyIntrospection, prototype bool) error {
	exposure := p.Exposure

	switch p.Kind {
	case component.Method:
		opts := component.MethodOptions{Exposure: &exposure}
		if prototype {
			_, err := class.SetInstanceMethod(p.Name, opts)
			return err
		}
		_, err := class.SetMethod(p.Name, opts)
		return err

	case component.Attribute:
		if prototype {
			opts := component.AttributeOptions{Exposure: &exposure}
			if p.HasDefault {
				opts.Default = component.Constant(p.Default)
			}
			_, err := class.SetInstanceAttribute(p.Name, opts)
			return err
		}
		prop, err := class.SetAttribute(p.Name, component.AttributeOptions{Exposure: &exposure})
		if err != nil {
			return err
		}
		// Set directly so explicit null values survive the trip.
		if p.HasValue {
			prop.SetValue(p.Value)
		}
		return nil

	default:
		return fmt.Errorf("property %q has unknown kind %q", p.Name, p.Kind)
	}
}

package definition

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pokkur/layr/core/component"
	"github.com/pokkur/layr/core/registry"
	"github.com/pokkur/layr/core/validation"
)

// Build constructs the declared component classes through the core API
// and registers them in a fresh registry. Documents merge: the registry
// takes the first declared name, and component references may cross
// document boundaries. Within each component, declarations are applied
// in sorted name order so builds are deterministic.
func Build(defs ...Definition) (*registry.Registry, error) {
	name := ""
	for _, def := range defs {
		if def.Registry == "" {
			continue
		}
		if name != "" && def.Registry != name {
			return nil, fmt.Errorf("definitions name different registries %q and %q", name, def.Registry)
		}
		name = def.Registry
	}

	declared := make(map[string]bool)
	for _, def := range defs {
		for _, comp := range def.Components {
			declared[comp.Name] = true
		}
	}

	var classes []*component.Component
	for _, def := range defs {
		for _, comp := range def.Components {
			class, err := buildComponent(comp, declared)
			if err != nil {
				return nil, err
			}
			classes = append(classes, class)
		}
	}

	return registry.New(name, classes...)
}

// buildComponent builds one class from its declaration.
func buildComponent(def Component, declared map[string]bool) (*component.Component, error) {
	class, err := component.New(def.Name)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedNames(def.Attributes) {
		attr := def.Attributes[name]
		opts := component.AttributeOptions{Value: attr.Value, Exposure: attr.Expose}
		if attr.Default != nil {
			opts.Default = component.Constant(attr.Default)
		}
		if _, err := class.SetAttribute(name, opts); err != nil {
			return nil, fmt.Errorf("component %q: %w", def.Name, err)
		}
	}

	for _, name := range sortedNames(def.Fields) {
		field := def.Fields[name]
		ft := component.ParseFieldType(field.Type)
		if ft.IsComponent() && !declared[ft.Name] {
			return nil, fmt.Errorf("field %q of component %q references undeclared component %q", name, def.Name, ft.Name)
		}
		opts := component.FieldOptions{Type: ft, Exposure: field.Expose}
		if field.Default != nil {
			opts.Default = component.Constant(field.Default)
		}
		validators, err := buildValidators(field.Validators)
		if err != nil {
			return nil, fmt.Errorf("field %q of component %q: %w", name, def.Name, err)
		}
		opts.Validators = validators
		if _, err := class.SetField(name, opts); err != nil {
			return nil, fmt.Errorf("component %q: %w", def.Name, err)
		}
	}

	for _, name := range sortedNames(def.Methods) {
		m := def.Methods[name]
		opts := component.MethodOptions{Exposure: m.Expose}
		if m.Static {
			_, err = class.SetMethod(name, opts)
		} else {
			_, err = class.SetInstanceMethod(name, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", def.Name, err)
		}
	}

	return class, nil
}

// buildValidators maps validator declarations to their constructors.
func buildValidators(defs []Validator) ([]validation.Validator, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make([]validation.Validator, 0, len(defs))
	for _, def := range defs {
		v, err := buildValidator(def)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func buildValidator(def Validator) (validation.Validator, error) {
	switch def.Type {
	case ValidatorNotEmpty:
		return validation.NotEmpty(), nil
	case ValidatorMinLength:
		n, err := toInt(def.Value)
		if err != nil {
			return validation.Validator{}, fmt.Errorf("min_length requires an integer value")
		}
		return validation.MinLength(n), nil
	case ValidatorMaxLength:
		n, err := toInt(def.Value)
		if err != nil {
			return validation.Validator{}, fmt.Errorf("max_length requires an integer value")
		}
		return validation.MaxLength(n), nil
	case ValidatorMin:
		n, err := toFloat64(def.Value)
		if err != nil {
			return validation.Validator{}, fmt.Errorf("min requires a numeric value")
		}
		return validation.Min(n), nil
	case ValidatorMax:
		n, err := toFloat64(def.Value)
		if err != nil {
			return validation.Validator{}, fmt.Errorf("max requires a numeric value")
		}
		return validation.Max(n), nil
	case ValidatorPattern:
		expr, ok := def.Value.(string)
		if !ok {
			return validation.Validator{}, fmt.Errorf("pattern requires a string value")
		}
		if _, err := regexp.Compile(expr); err != nil {
			return validation.Validator{}, fmt.Errorf("invalid pattern: %v", err)
		}
		return validation.Pattern(expr), nil
	case ValidatorOneOf:
		vals := oneOfValues(def.Value)
		if len(vals) == 0 {
			return validation.Validator{}, fmt.Errorf("one_of requires a value list")
		}
		return validation.OneOf(vals...), nil
	default:
		return validation.Validator{}, fmt.Errorf("unknown validator type %q", def.Type)
	}
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

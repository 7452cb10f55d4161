package component

import (
	"github.com/pokkur/layr/core/mask"
	"github.com/pokkur/layr/core/validation"
)

// FailedValidators runs every validator of every active field selected
// by the mask and returns the failed validator names keyed by field
// path. Nested component values contribute under dotted paths.
func (c *Component) FailedValidators(fields any) (map[string][]string, error) {
	if fields == nil {
		fields = true
	}
	m, err := c.CreateFieldMask(fields, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		return nil, err
	}
	failures := make(map[string][]string)
	c.collectFailures(m, "", failures)
	return failures, nil
}

// Validate fails with the aggregated failure map when any validator of
// any active field selected by the mask rejects its value.
func (c *Component) Validate(fields any) error {
	failures, err := c.FailedValidators(fields)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}

// IsValid is the boolean form of Validate.
func (c *Component) IsValid(fields any) bool {
	return c.Validate(fields) == nil
}

func (c *Component) collectFailures(m *mask.Mask, prefix string, failures map[string][]string) {
	if c.kind != Instance {
		return
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
		p := c.resolve(name, instanceLevel)
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		for _, validator := range p.Validators() {
			if !runValidator(validator, v, p.FieldType().IsArray) {
				failures[path] = append(failures[path], validator.Name)
			}
		}
		switch val := v.(type) {
		case *Component:
			if val != nil {
				val.collectFailures(nested, path, failures)
			}
		case []any:
			for _, item := range val {
				if inst, ok := item.(*Component); ok && inst != nil {
					inst.collectFailures(nested, path, failures)
				}
			}
		}
	}
}

// runValidator applies a validator to a field value, element-wise for
// array fields.
func runValidator(v validation.Validator, value any, isArray bool) bool {
	if isArray {
		items, ok := value.([]any)
		if !ok {
			return v.Func(value)
		}
		for _, item := range items {
			if !v.Func(item) {
				return false
			}
		}
		return true
	}
	return v.Func(value)
}

package component

import "github.com/pokkur/layr/core/validation"

// PropertyKind discriminates attributes from methods. Fields are
// attributes carrying a declared type.
type PropertyKind string

const (
	Attribute PropertyKind = "attribute"
	Method    PropertyKind = "method"
)

// MethodFunc implements a component method. The receiver is the
// component the method was invoked on.
type MethodFunc func(receiver *Component, args ...any) (any, error)

// Property is a named attribute or method descriptor owned by one
// component. A property obtained through a fork delegates every unset
// slot to the property it was forked from, so reads fall through to the
// origin until the owner writes a local override.
type Property struct {
	name   string
	kind   PropertyKind
	owner  *Component
	parent *Property

	exposure    Exposure
	hasExposure bool

	value    any
	hasValue bool

	defaultFn  func() any
	hasDefault bool

	handler    MethodFunc
	hasHandler bool

	fieldType    FieldType
	hasFieldType bool

	validators    []validation.Validator
	hasValidators bool
}

// Name returns the property's name.
func (p *Property) Name() string {
	return p.name
}

// Kind returns whether the property is an attribute or a method.
func (p *Property) Kind() PropertyKind {
	return p.kind
}

// Owner returns the component the property is bound to.
func (p *Property) Owner() *Component {
	return p.owner
}

// Exposure returns the effective exposure, falling through the
// delegation chain.
func (p *Property) Exposure() Exposure {
	for q := p; q != nil; q = q.parent {
		if q.hasExposure {
			return q.exposure
		}
	}
	return Exposure{}
}

// IsExposed reports whether the property grants any remote access.
func (p *Property) IsExposed() bool {
	return !p.Exposure().IsEmpty()
}

// SetExposure replaces the exposure descriptor wholesale.
func (p *Property) SetExposure(e Exposure) {
	p.exposure = e
	p.hasExposure = true
}

// ClearExposure resets the property to fully private, overriding any
// exposure inherited through the delegation chain.
func (p *Property) ClearExposure() {
	p.SetExposure(Exposure{})
}

// Value returns the attribute's current value, falling back to the
// evaluated default when no value was set anywhere in the chain. The
// second result reports whether a value or default exists at all.
func (p *Property) Value() (any, bool) {
	for q := p; q != nil; q = q.parent {
		if q.hasValue {
			return q.value, true
		}
	}
	return p.DefaultValue()
}

// SetValue sets the attribute's value on the owning component only;
// components the property was forked from are never affected.
func (p *Property) SetValue(v any) {
	p.value = v
	p.hasValue = true
}

// DefaultValue evaluates the attribute's default generator. It reports
// false when no generator is declared in the chain.
func (p *Property) DefaultValue() (any, bool) {
	for q := p; q != nil; q = q.parent {
		if q.hasDefault {
			return q.defaultFn(), true
		}
	}
	return nil, false
}

// IsField reports whether the attribute carries a declared field type.
func (p *Property) IsField() bool {
	for q := p; q != nil; q = q.parent {
		if q.hasFieldType {
			return true
		}
	}
	return false
}

// FieldType returns the field's declared type, or the zero type for
// plain attributes and methods.
func (p *Property) FieldType() FieldType {
	for q := p; q != nil; q = q.parent {
		if q.hasFieldType {
			return q.fieldType
		}
	}
	return FieldType{}
}

// Validators returns the field's validators.
func (p *Property) Validators() []validation.Validator {
	for q := p; q != nil; q = q.parent {
		if q.hasValidators {
			return q.validators
		}
	}
	return nil
}

// resolveHandler returns the most-derived method handler in the chain.
func (p *Property) resolveHandler() MethodFunc {
	for q := p; q != nil; q = q.parent {
		if q.hasHandler {
			return q.handler
		}
	}
	return nil
}

// parentHandler returns the handler shadowed by the most-derived one.
func (p *Property) parentHandler() MethodFunc {
	q := p
	for q != nil && !q.hasHandler {
		q = q.parent
	}
	if q == nil {
		return nil
	}
	for q = q.parent; q != nil; q = q.parent {
		if q.hasHandler {
			return q.handler
		}
	}
	return nil
}

// hasInstanceValue reports whether a value was set on an instance-owned
// property in the chain. Class-level declarations hold defaults, never
// per-instance values, so the walk stops at the first class owner.
func (p *Property) hasInstanceValue() (any, bool) {
	for q := p; q != nil; q = q.parent {
		if q.owner != nil && q.owner.kind != Instance {
			break
		}
		if q.hasValue {
			return q.value, true
		}
	}
	return nil, false
}

// Package mask implements recursive field selectors.
//
// A Mask describes which fields of a component participate in an
// operation such as serialization or validation. A mask either selects
// every field, selects nothing, or maps field names to nested masks for
// the corresponding field values.
package mask

import "sort"

// Mask is a recursive field selector. The zero value selects nothing.
type Mask struct {
	all   bool
	items map[string]*Mask
}

// All returns a mask selecting every field.
func All() *Mask {
	return &Mask{all: true}
}

// None returns a mask selecting no fields.
func None() *Mask {
	return &Mask{}
}

// Normalize converts a selector into a canonical mask. Accepted inputs
// are booleans, name-to-selector mappings, and existing masks. A nil
// selector selects nothing.
func Normalize(selector any) (*Mask, error) {
	switch s := selector.(type) {
	case nil:
		return None(), nil
	case bool:
		if s {
			return All(), nil
		}
		return None(), nil
	case *Mask:
		if s == nil {
			return None(), nil
		}
		return s, nil
	case map[string]any:
		m := None()
		for name, sub := range s {
			nested, err := Normalize(sub)
			if err != nil {
				return nil, err
			}
			if nested.IsEmpty() {
				continue
			}
			m.Set(name, nested)
		}
		return m, nil
	default:
		return nil, &InvalidSelectorError{Selector: selector}
	}
}

// IsAll reports whether the mask selects every field.
func (m *Mask) IsAll() bool {
	return m != nil && m.all
}

// IsEmpty reports whether the mask selects no fields.
func (m *Mask) IsEmpty() bool {
	return m == nil || (!m.all && len(m.items) == 0)
}

// Get returns the nested mask for a field name, or nil when the field
// is not selected. On a select-all mask every name resolves to a
// select-all mask.
func (m *Mask) Get(name string) *Mask {
	if m == nil {
		return nil
	}
	if m.all {
		return All()
	}
	return m.items[name]
}

// Set records a nested mask under a field name, converting the mask
// into an explicit mapping if needed. Empty nested masks are dropped.
func (m *Mask) Set(name string, nested *Mask) {
	if nested.IsEmpty() {
		return
	}
	if m.items == nil {
		m.items = make(map[string]*Mask)
	}
	m.all = false
	m.items[name] = nested
}

// Merge unions another mask's selections into the mask. Deserialization
// uses it to aggregate the missing trees reported for each element of
// an array field.
func (m *Mask) Merge(other *Mask) {
	if other.IsEmpty() || m.IsAll() {
		return
	}
	if other.all {
		m.all = true
		m.items = nil
		return
	}
	for name, nested := range other.items {
		existing := m.items[name]
		if existing == nil {
			m.Set(name, nested)
			continue
		}
		existing.Merge(nested)
	}
}

// Names returns the selected field names of an explicit mask in sorted
// order. A select-all mask has no enumerable names.
func (m *Mask) Names() []string {
	if m == nil || m.all || len(m.items) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.items))
	for name := range m.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize returns the plain recursive form of the mask: true for
// select-all, false for select-none, or a name-to-selector mapping.
func (m *Mask) Serialize() any {
	if m.IsEmpty() {
		return false
	}
	if m.all {
		return true
	}
	out := make(map[string]any, len(m.items))
	for name, nested := range m.items {
		out[name] = nested.Serialize()
	}
	return out
}

// Equal reports whether two masks select the same fields.
func (m *Mask) Equal(other *Mask) bool {
	if m.IsEmpty() || other.IsEmpty() {
		return m.IsEmpty() && other.IsEmpty()
	}
	if m.all || other.all {
		return m.all && other.all
	}
	if len(m.items) != len(other.items) {
		return false
	}
	for name, nested := range m.items {
		if !nested.Equal(other.items[name]) {
			return false
		}
	}
	return true
}

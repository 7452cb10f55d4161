// Package component implements the component model engine: class and
// instance entities whose property tables fork copy-on-write through
// delegation, a field and validation layer over typed value slots, and
// the field mask machinery driving serialization, deserialization, and
// validation.
package component

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates component classes from instances.
type Kind string

const (
	Class    Kind = "class"
	Instance Kind = "instance"
)

// ReservedName is the base type name components cannot take.
const ReservedName = "Component"

// Registry is the owning-registry surface components use for lookups.
// The back-reference is lookup-only; ownership stays with the registry.
// The canonical implementation lives in core/registry.
type Registry interface {
	// Name returns the registry's name, or "" when unnamed.
	Name() string

	// ParentName returns the name of the registry this one was forked
	// from, or "".
	ParentName() string

	// Lookup resolves a component class by class name or instance name,
	// returning nil on a miss.
	Lookup(name string) *Component
}

// Component is a class or instance entity with a forkable property
// table. Reads of state never set on a fork fall through to the fork's
// origin; writes always land on the most-derived entity, so forking
// never mutates the source.
type Component struct {
	kind Kind

	name    string
	hasName bool

	// parent is the fork origin; unset state falls through to it.
	parent *Component

	// class is the class an instance was instantiated from.
	class *Component

	// classTable holds class-level attributes and methods.
	classTable table
	// protoTable holds instance-level declarations: fields, plain
	// instance attributes, and instance methods.
	protoTable table
	// instTable holds an instance's copy-on-write property bindings.
	instTable table

	id    string
	isNew bool

	registry Registry
}

// New creates a component class.
func New(name string) (*Component, error) {
	c := &Component{kind: Class}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns whether the component is a class or an instance.
func (c *Component) Kind() Kind {
	return c.kind
}

// Name returns the component's name. Forks inherit the origin's name
// until renamed; instances derive a lower-camel form of their class
// name.
func (c *Component) Name() string {
	if c.kind == Instance {
		if c.class != nil {
			return lowerFirst(c.class.Name())
		}
		return ""
	}
	for e := c; e != nil; e = e.parent {
		if e.hasName {
			return e.name
		}
	}
	return ""
}

// SetName renames a component class. Names must be non-empty,
// identifier-formatted, and distinct from the reserved base type name;
// a registered component's name is immutable.
func (c *Component) SetName(name string) error {
	if c.kind == Instance {
		return fmt.Errorf("component instances derive their name from their class")
	}
	if c.registry != nil {
		return fmt.Errorf("component %q: name is immutable after registration", c.Name())
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	c.name = name
	c.hasName = true
	return nil
}

// Class returns the class an instance was instantiated from, or nil for
// classes.
func (c *Component) Class() *Component {
	return c.class
}

// Parent returns the component this one was forked from, or nil.
func (c *Component) Parent() *Component {
	return c.parent
}

// Registry returns the owning registry for classes and the class's
// registry for instances. It is nil for unowned components; forks do
// not inherit the origin's registry.
func (c *Component) Registry() Registry {
	if c.kind == Instance {
		if c.class != nil {
			return c.class.Registry()
		}
		return nil
	}
	return c.registry
}

// BindRegistry records the owning registry. The registry calls this
// during registration and when lazily forking components into a child
// registry.
func (c *Component) BindRegistry(r Registry) {
	c.registry = r
}

// IsNew reports whether the instance is freshly constructed rather than
// hydrated from persisted state.
func (c *Component) IsNew() bool {
	return c.isNew
}

// MarkAsNew flags the instance as freshly constructed.
func (c *Component) MarkAsNew() {
	c.isNew = true
}

// MarkAsNotNew flags the instance as hydrated.
func (c *Component) MarkAsNotNew() {
	c.isNew = false
}

// ID returns the instance's identity, or "" when none was assigned.
func (c *Component) ID() string {
	return c.id
}

// SetID assigns the instance's identity.
func (c *Component) SetID(id string) {
	c.id = id
}

// Fork returns a copy-on-write derivative of the component. The fork
// shares all unmodified state with its origin: property reads fall
// through until the fork declares or writes a local override.
func (c *Component) Fork() *Component {
	return &Component{
		kind:   c.kind,
		parent: c,
		class:  c.class,
		id:     c.id,
		isNew:  c.isNew,
	}
}

// Instantiate returns a fresh instance of the class with zero active
// fields. Hydration paths use it to build instances without running
// default filling.
func (c *Component) Instantiate() *Component {
	class := c
	if c.kind == Instance {
		class = c.class
	}
	return &Component{kind: Instance, class: class}
}

// Create returns a new instance with every declared field activated:
// fields named in values take the supplied value, the rest take their
// computed default. The instance is marked new and assigned a fresh
// identity.
func (c *Component) Create(values map[string]any) *Component {
	inst := c.Instantiate()
	inst.isNew = true
	inst.id = uuid.NewString()
	for _, name := range inst.fieldNames() {
		if v, ok := values[name]; ok {
			inst.setFieldValue(name, v)
			continue
		}
		p := inst.resolve(name, instanceLevel)
		d, _ := p.DefaultValue()
		inst.setFieldValue(name, d)
	}
	return inst
}

// Assign copies field values from a source. A same-class instance
// contributes every active field; a plain mapping contributes each key
// matching a declared field. Any other source fails with a type
// mismatch.
func (c *Component) Assign(source any) error {
	if c.kind != Instance {
		return fmt.Errorf("component %q: Assign targets instances", c.Name())
	}
	switch s := source.(type) {
	case *Component:
		if s == nil {
			return &TypeMismatchError{Expected: "component instance or mapping", Got: source}
		}
		if s.kind != Instance || s.Name() != c.Name() {
			return &TypeMismatchError{Expected: fmt.Sprintf("instance of %q", c.Name()), Got: source}
		}
		for _, name := range s.ActiveFieldNames() {
			if p := c.resolve(name, instanceLevel); p == nil || !p.IsField() {
				continue
			}
			v, _ := s.FieldValue(name)
			c.setFieldValue(name, v)
		}
		return nil
	case map[string]any:
		for _, name := range c.fieldNames() {
			if v, ok := s[name]; ok {
				c.setFieldValue(name, v)
			}
		}
		return nil
	default:
		return &TypeMismatchError{Expected: "component instance or mapping", Got: source}
	}
}

// GetProperty resolves a property by name. A property owned by an
// ancestor is forked and bound to this component before being returned,
// so later mutation stays isolated here.
func (c *Component) GetProperty(name string) (*Property, error) {
	p := c.getOrBind(name, c.defaultLevel())
	if p == nil {
		return nil, &UnknownPropertyError{Component: c.Name(), Property: name}
	}
	return p, nil
}

// LookupProperty is GetProperty reporting false instead of failing on a
// miss.
func (c *Component) LookupProperty(name string) (*Property, bool) {
	p := c.getOrBind(name, c.defaultLevel())
	return p, p != nil
}

// GetAttribute resolves an attribute by name, failing with a kind
// mismatch when the property is a method.
func (c *Component) GetAttribute(name string) (*Property, error) {
	p, err := c.GetProperty(name)
	if err != nil {
		return nil, err
	}
	if p.Kind() != Attribute {
		return nil, &KindMismatchError{Property: name, Want: Attribute, Got: p.Kind()}
	}
	return p, nil
}

// GetMethod resolves a method by name, failing with a kind mismatch
// when the property is an attribute.
func (c *Component) GetMethod(name string) (*Property, error) {
	p, err := c.GetProperty(name)
	if err != nil {
		return nil, err
	}
	if p.Kind() != Method {
		return nil, &KindMismatchError{Property: name, Want: Method, Got: p.Kind()}
	}
	return p, nil
}

// GetInstanceAttribute resolves an instance-level attribute by name. On
// classes it reads the instance-level declarations.
func (c *Component) GetInstanceAttribute(name string) (*Property, error) {
	p := c.getOrBind(name, instanceLevel)
	if p == nil {
		return nil, &UnknownPropertyError{Component: c.Name(), Property: name}
	}
	if p.Kind() != Attribute {
		return nil, &KindMismatchError{Property: name, Want: Attribute, Got: p.Kind()}
	}
	return p, nil
}

// GetField resolves a field by name. On classes it reads the
// instance-level declarations.
func (c *Component) GetField(name string) (*Property, error) {
	p := c.getOrBind(name, instanceLevel)
	if p == nil {
		return nil, &UnknownPropertyError{Component: c.Name(), Property: name}
	}
	if p.Kind() != Attribute {
		return nil, &KindMismatchError{Property: name, Want: Attribute, Got: p.Kind()}
	}
	if !p.IsField() {
		return nil, fmt.Errorf("property %q of component %q is not a field", name, c.Name())
	}
	return p, nil
}

// SetAttribute declares or updates a class-level attribute.
func (c *Component) SetAttribute(name string, opts AttributeOptions) (*Property, error) {
	return c.declare(name, Attribute, classLevel, func(p *Property) error {
		if opts.Value != nil {
			p.SetValue(opts.Value)
		}
		if opts.Default != nil {
			p.defaultFn = opts.Default
			p.hasDefault = true
		}
		if opts.Exposure != nil {
			p.SetExposure(*opts.Exposure)
		}
		return nil
	})
}

// SetInstanceAttribute declares or updates an instance-level attribute.
// Value is stored as a constant default: concrete values belong to
// instances.
func (c *Component) SetInstanceAttribute(name string, opts AttributeOptions) (*Property, error) {
	return c.declare(name, Attribute, instanceLevel, func(p *Property) error {
		if opts.Value != nil {
			p.defaultFn = Constant(opts.Value)
			p.hasDefault = true
		}
		if opts.Default != nil {
			p.defaultFn = opts.Default
			p.hasDefault = true
		}
		if opts.Exposure != nil {
			p.SetExposure(*opts.Exposure)
		}
		return nil
	})
}

// SetField declares or updates an instance-level field. The declared
// type is fixed the first time the field is declared.
func (c *Component) SetField(name string, opts FieldOptions) (*Property, error) {
	return c.declare(name, Attribute, instanceLevel, func(p *Property) error {
		declared := p.FieldType()
		switch {
		case opts.Type.Name == "" && declared.Name == "":
			return fmt.Errorf("field %q of component %q requires a declared type", name, c.Name())
		case opts.Type.Name != "" && declared.Name != "" && opts.Type != declared:
			return &TypeRedeclarationError{Field: name, Declared: declared.String(), Requested: opts.Type.String()}
		case opts.Type.Name != "" && declared.Name == "":
			p.fieldType = opts.Type
			p.hasFieldType = true
		}
		if opts.Default != nil {
			p.defaultFn = opts.Default
			p.hasDefault = true
		}
		if opts.Validators != nil {
			p.validators = opts.Validators
			p.hasValidators = true
		}
		if opts.Exposure != nil {
			p.SetExposure(*opts.Exposure)
		}
		return nil
	})
}

// SetMethod declares or updates a class-level method.
func (c *Component) SetMethod(name string, opts MethodOptions) (*Property, error) {
	return c.declare(name, Method, classLevel, func(p *Property) error {
		if opts.Handler != nil {
			p.handler = opts.Handler
			p.hasHandler = true
		}
		if opts.Exposure != nil {
			p.SetExposure(*opts.Exposure)
		}
		return nil
	})
}

// SetInstanceMethod declares or updates an instance-level method.
func (c *Component) SetInstanceMethod(name string, opts MethodOptions) (*Property, error) {
	return c.declare(name, Method, instanceLevel, func(p *Property) error {
		if opts.Handler != nil {
			p.handler = opts.Handler
			p.hasHandler = true
		}
		if opts.Exposure != nil {
			p.SetExposure(*opts.Exposure)
		}
		return nil
	})
}

// CallMethod invokes a method bound to this component. Classes resolve
// class-level methods, instances resolve instance-level ones.
func (c *Component) CallMethod(name string, args ...any) (any, error) {
	p, h, err := c.methodHandler(name)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("method %q of component %q has no handler", p.Name(), c.Name())
	}
	return h(c, args...)
}

// CallParentMethod invokes the implementation shadowed by the
// most-derived one, bound to this component. It fails when no ancestor
// declares a handler for the method.
func (c *Component) CallParentMethod(name string, args ...any) (any, error) {
	p, _, err := c.methodHandler(name)
	if err != nil {
		return nil, err
	}
	h := p.parentHandler()
	if h == nil {
		return nil, fmt.Errorf("method %q of component %q has no parent implementation", name, c.Name())
	}
	return h(c, args...)
}

func (c *Component) methodHandler(name string) (*Property, MethodFunc, error) {
	p := c.resolve(name, c.defaultLevel())
	if p == nil {
		return nil, nil, &UnknownPropertyError{Component: c.Name(), Property: name}
	}
	if p.Kind() != Method {
		return nil, nil, &KindMismatchError{Property: name, Want: Method, Got: p.Kind()}
	}
	return p, p.resolveHandler(), nil
}

// FieldValue returns the value of an active field. Fields carrying only
// a class-level default are inactive and report false.
func (c *Component) FieldValue(name string) (any, bool) {
	p := c.resolve(name, instanceLevel)
	if p == nil {
		return nil, false
	}
	return p.hasInstanceValue()
}

// HasFieldValue reports whether the field is active on this instance.
func (c *Component) HasFieldValue(name string) bool {
	_, ok := c.FieldValue(name)
	return ok
}

// SetFieldValue activates a declared field with a value.
func (c *Component) SetFieldValue(name string, v any) error {
	if c.kind != Instance {
		return fmt.Errorf("component %q: field values belong to instances", c.Name())
	}
	p := c.resolve(name, instanceLevel)
	if p == nil || !p.IsField() {
		return &UnknownPropertyError{Component: c.Name(), Property: name}
	}
	c.setFieldValue(name, v)
	return nil
}

// setFieldValue binds the field to this instance and writes the value.
func (c *Component) setFieldValue(name string, v any) {
	c.getOrBind(name, instanceLevel).SetValue(v)
}

// ActiveFieldNames returns the names of active fields in declaration
// order.
func (c *Component) ActiveFieldNames() []string {
	var names []string
	for _, name := range c.fieldNames() {
		if c.HasFieldValue(name) {
			names = append(names, name)
		}
	}
	return names
}

// fieldNames returns the declared field names in declaration order,
// ancestor declarations first.
func (c *Component) fieldNames() []string {
	var names []string
	for _, name := range c.declaredNames(instanceLevel) {
		if p := c.resolve(name, instanceLevel); p != nil && p.IsField() {
			names = append(names, name)
		}
	}
	return names
}

// level selects which property table an operation addresses.
type level int

const (
	classLevel level = iota
	instanceLevel
)

func (c *Component) defaultLevel() level {
	if c.kind == Instance {
		return instanceLevel
	}
	return classLevel
}

// table is an ordered name-to-property map.
type table struct {
	props map[string]*Property
	order []string
}

func (t *table) get(name string) *Property {
	if t.props == nil {
		return nil
	}
	return t.props[name]
}

func (t *table) add(p *Property) {
	if t.props == nil {
		t.props = make(map[string]*Property)
	}
	if _, ok := t.props[p.name]; !ok {
		t.order = append(t.order, p.name)
	}
	t.props[p.name] = p
}

// ownTable returns the table local declarations land in.
func (c *Component) ownTable(lv level) *table {
	if c.kind == Instance {
		return &c.instTable
	}
	if lv == classLevel {
		return &c.classTable
	}
	return &c.protoTable
}

// resolve finds the nearest declaration of name, walking the fork chain
// and, for instances, continuing into the class chain.
func (c *Component) resolve(name string, lv level) *Property {
	if c.kind == Instance {
		for e := c; e != nil; e = e.parent {
			if p := e.instTable.get(name); p != nil {
				return p
			}
		}
		if c.class != nil {
			return c.class.resolve(name, instanceLevel)
		}
		return nil
	}
	for e := c; e != nil; e = e.parent {
		t := &e.classTable
		if lv == instanceLevel {
			t = &e.protoTable
		}
		if p := t.get(name); p != nil {
			return p
		}
	}
	return nil
}

// getOrBind resolves a property and, when it is owned by an ancestor,
// stores a fork bound to this component.
func (c *Component) getOrBind(name string, lv level) *Property {
	p := c.resolve(name, lv)
	if p == nil {
		return nil
	}
	if p.owner == c {
		return p
	}
	q := &Property{name: p.name, kind: p.kind, owner: c, parent: p}
	c.ownTable(lv).add(q)
	return q
}

// declare creates or rebinds a property at the given level and applies
// the declaration options to the local entry.
func (c *Component) declare(name string, kind PropertyKind, lv level, apply func(*Property) error) (*Property, error) {
	if c.kind != Class {
		return nil, fmt.Errorf("component %q: properties are declared on classes", c.Name())
	}
	if err := validatePropertyName(name); err != nil {
		return nil, err
	}
	if existing := c.resolve(name, lv); existing != nil && existing.Kind() != kind {
		return nil, &KindMismatchError{Property: name, Want: kind, Got: existing.Kind()}
	}
	p := c.getOrBind(name, lv)
	if p == nil {
		p = &Property{name: name, kind: kind, owner: c}
		c.ownTable(lv).add(p)
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

// declaredNames returns property names at a level in declaration order,
// ancestor declarations first.
func (c *Component) declaredNames(lv level) []string {
	var tables []*table
	if c.kind == Instance {
		if c.class != nil {
			tables = c.class.levelTables(instanceLevel)
		}
		tables = append(tables, c.levelTables(lv)...)
	} else {
		tables = c.levelTables(lv)
	}
	seen := make(map[string]bool)
	var names []string
	for _, t := range tables {
		for _, name := range t.order {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// levelTables returns the fork chain's tables at a level, origin first.
func (c *Component) levelTables(lv level) []*table {
	var chain []*Component
	for e := c; e != nil; e = e.parent {
		chain = append(chain, e)
	}
	tables := make([]*table, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		e := chain[i]
		switch {
		case e.kind == Instance:
			tables = append(tables, &e.instTable)
		case lv == classLevel:
			tables = append(tables, &e.classTable)
		default:
			tables = append(tables, &e.protoTable)
		}
	}
	return tables
}

/// ValidateName checks a component or registry name: it must be
// non-empty, identifier-formatted, and distinct from the reserved base
// type name.
func ValidateName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	}
	if name == ReservedName {
		return &InvalidNameError{Name: name, Reason: "the base type name is reserved"}
	}
	if !isValidIdentifier(name) {
		return &InvalidNameError{Name: name, Reason: "must start with a letter or underscore and contain only letters, digits, and underscores"}
	}
	return nil
}

// validatePropertyName checks a property name. The "__" prefix is
// reserved for identity keys on the wire.
func validatePropertyName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	}
	if strings.HasPrefix(name, "__") {
		return &InvalidNameError{Name: name, Reason: `the "__" prefix is reserved`}
	}
	if !isValidIdentifier(name) {
		return &InvalidNameError{Name: name, Reason: "must start with a letter or underscore and contain only letters, digits, and underscores"}
	}
	return nil
}

// isValidIdentifier checks identifier format: must start with a letter
// or underscore, and contain only letters, digits, and underscores.
func isValidIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}
	return len(s) > 0
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

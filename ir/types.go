// Package ir defines the program representation the type-tightening pass
// operates over: classes, interfaces, the null type, variable slots,
// expressions, and methods. The pass consumes this model; it does not
// construct programs from source — callers build a *Program directly (or via
// Factory) from an already-linked, already-type-checked whole program.
package ir

// Type is the union of every type a slot or expression may carry: a
// primitive type, or a ReferenceType (class, interface, or the null type).
// Only ReferenceType values are ever narrowed by the pass.
type Type interface {
	isType()
}

// Primitive is a non-reference type (int, bool, and so on). The pass never
// tightens a primitive-typed slot; primitives exist in the model only so
// that "is T a reference type?" is a real question the Tightener answers
// rather than an assumption it makes.
type Primitive struct {
	Name string
}

func (*Primitive) isType() {}

// Bool is the type of instance-of tests and boolean literals.
var Bool = &Primitive{Name: "bool"}

// ReferenceType is the union of ClassType, InterfaceType, and the
// distinguished NullType. It is the lattice the pass narrows slots within:
// NullType is bottom, every class/interface is a supertype of NullType, and
// a class's supertype chain plus implemented interfaces give the rest of
// the partial order.
type ReferenceType interface {
	Type
	referenceType()
	// TypeName returns a display name, used only for logging.
	TypeName() string
}

// ClassType is a (possibly abstract) class in a single-inheritance
// hierarchy. Abstract classes carry no allocation sites of their own;
// Instantiated records whether some reachable `new C()` targets exactly this
// class (not a subclass) — the Type Oracle derives isInstantiated(T) for
// abstract T from the Instantiated flags of T's subclasses.
type ClassType struct {
	Name         string
	Abstract     bool
	Instantiated bool
	Super        *ClassType
	Interfaces   []*InterfaceType
}

func (*ClassType) isType()        {}
func (*ClassType) referenceType() {}

// TypeName returns the class's display name.
func (c *ClassType) TypeName() string { return c.Name }

// InterfaceType is an interface, possibly extending other interfaces.
type InterfaceType struct {
	Name    string
	Extends []*InterfaceType
}

func (*InterfaceType) isType()        {}
func (*InterfaceType) referenceType() {}

// TypeName returns the interface's display name.
func (i *InterfaceType) TypeName() string { return i.Name }

// nullType is the bottom element of the reference-type lattice: a subtype of
// every reference type, and the identity element of generalizeTypes.
type nullType struct{}

func (*nullType) isType()          {}
func (*nullType) referenceType()   {}
func (*nullType) TypeName() string { return "<null>" }

// Null is the single, shared instance of the null type. The pass and the
// Type Oracle compare reference types for nullness with direct equality
// against Null, never by dynamic type assertion.
var Null ReferenceType = &nullType{}

// IsNull reports whether t is the null type.
func IsNull(t Type) bool {
	return t == Null
}

// IsReferenceType reports whether t is a ReferenceType (as opposed to a
// Primitive). Slot and cast/instanceof handling both gate on this first.
func IsReferenceType(t Type) bool {
	_, ok := t.(ReferenceType)
	return ok
}

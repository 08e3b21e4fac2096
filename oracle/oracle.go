// Package oracle implements the Type Oracle collaborator the Tightener and
// Recorder consult for hierarchy and instantiation facts (program queries
// this package is required to expose, but whose construction is entirely
// this package's concern, not the pass's).
package oracle

import "github.com/irforge/typetighten/ir"

// Oracle answers pure, referentially-transparent queries about a fixed
// program's class/interface hierarchy and instantiation facts. A fixed
// Oracle value never changes its answers for the lifetime of a pass run —
// it must be query-stable while the Tightener and Fixer run.
type Oracle interface {
	// IsInstantiated reports whether some reachable allocation targets t
	// directly, or — for an abstract class or an interface — targets some
	// instantiated subtype of t.
	IsInstantiated(t ir.ReferenceType) bool

	// CanTriviallyCast reports whether every instance of f is statically
	// assignable to t — a cast from f to t never needs a runtime check.
	CanTriviallyCast(f, t ir.ReferenceType) bool

	// CanTheoreticallyCast reports whether f and t's hierarchies intersect:
	// some common instantiable subtype of both might exist.
	CanTheoreticallyCast(f, t ir.ReferenceType) bool

	// AllOverrides returns every method m directly or transitively
	// overrides, walking up the hierarchy.
	AllOverrides(m *ir.Method) []*ir.Method

	// GeneralizeTypes returns the least upper bound (most specific common
	// supertype) of the given types. The null type is the identity element:
	// generalizing null with anything yields that other type.
	GeneralizeTypes(types []ir.ReferenceType) ir.ReferenceType

	// StrongerType returns the strict subtype of a and b if one dominates
	// the other, else a.
	StrongerType(a, b ir.ReferenceType) ir.ReferenceType
}

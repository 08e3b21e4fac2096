package ir

// Expression is the union of every expression variant the pass visits.
// Each variant's Type method returns its *current* derived type, computed
// live from whatever it depends on (a slot, a cast target, and so on) —
// nothing caches a stale type across a tightening round.
type Expression interface {
	expression()
	// Type returns this expression's derived type.
	Type() Type
}

// VarRef is a reference to a local or parameter.
type VarRef struct {
	Target Variable
}

func (*VarRef) expression() {}
func (v *VarRef) Type() Type { return v.Target.DeclaredType() }

// FieldRef is a (possibly qualified) reference to a field. Instance is nil
// for a reference to a static field.
type FieldRef struct {
	Instance Expression
	Field    *Field
}

func (*FieldRef) expression() {}
func (f *FieldRef) Type() Type { return f.Field.DeclaredType() }

// HasSideEffects reports whether evaluating this field reference's qualifier
// could itself do something observable. FieldRef and MethodCall qualifiers
// are conservatively treated as side-effecting unless they are a bare
// variable reference or null literal — matching the original pass's
// `hasSideEffects()` check before dropping a qualifier (spec.md §4.3).
func HasSideEffects(e Expression) bool {
	switch e.(type) {
	case nil, *VarRef, *NullLiteral:
		return false
	default:
		return true
	}
}

// MethodCall is a (possibly qualified) call to a method. Instance is nil for
// a call to a static method. Polymorphic marks a call whose runtime dispatch
// depends on Instance's dynamic type; the Tightener clears it once dispatch
// is provably monomorphic (spec.md §4.2).
type MethodCall struct {
	Instance    Expression
	Method      *Method
	Args        []Expression
	Polymorphic bool
}

func (*MethodCall) expression() {}
func (m *MethodCall) Type() Type {
	if m.Method.Return == nil {
		return nil
	}
	return m.Method.Return.DeclaredType()
}

// Cast is `(Target) Inner`. A cast to ir.Null is how the pass represents a
// provably-always-fails cast after rewriting (spec.md §4.2, "trivially
// false").
type Cast struct {
	Target ReferenceType
	Inner  Expression
}

func (*Cast) expression() {}
func (c *Cast) Type() Type { return c.Target }

// InstanceOf is `Inner instanceof Target`. Its derived type is always bool.
type InstanceOf struct {
	Target ReferenceType
	Inner  Expression
}

func (*InstanceOf) expression() {}
func (*InstanceOf) Type() Type { return Bool }

// NullLiteral is the null literal; its type is always the null type.
type NullLiteral struct{}

func (*NullLiteral) expression() {}
func (*NullLiteral) Type() Type { return Null }

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	Value bool
}

func (*BoolLiteral) expression() {}
func (*BoolLiteral) Type() Type { return Bool }

// BinOp names a binary operator. OpAssign is the only one the Recorder
// treats specially (spec.md §4.1); the others exist so BinaryOp can appear
// in bodies without the pass needing to special-case every expression kind
// it merely walks through.
type BinOp int

const (
	OpAssign BinOp = iota
	OpEq
	OpNe
	OpAnd
	OpOr
)

// BinaryOp is a binary operation, including assignment (Op == OpAssign).
// For an assignment, Left must be a *VarRef.
type BinaryOp struct {
	Op          BinOp
	Left, Right Expression
}

func (*BinaryOp) expression() {}
func (b *BinaryOp) Type() Type {
	switch b.Op {
	case OpAssign:
		return b.Left.Type()
	default:
		return Bool
	}
}

// IsAssignment reports whether e is an assignment to a reference-typed
// variable — the construct the Recorder's "Assignment expression" rule
// (spec.md §4.1) contributes to the assignments relation.
func IsAssignment(e Expression) (lhs Variable, rhs Expression, ok bool) {
	b, isBin := e.(*BinaryOp)
	if !isBin || b.Op != OpAssign {
		return nil, nil, false
	}
	ref, isVarRef := b.Left.(*VarRef)
	if !isVarRef {
		return nil, nil, false
	}
	if !IsReferenceType(b.Type()) {
		return nil, nil, false
	}
	return ref.Target, b.Right, true
}

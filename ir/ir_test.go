package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsNull(t *testing.T) {
	require.True(t, IsNull(Null))
	require.False(t, IsNull(&ClassType{Name: "C"}))
	require.False(t, IsNull(Bool))
}

func TestIsReferenceType(t *testing.T) {
	require.True(t, IsReferenceType(&ClassType{Name: "C"}))
	require.True(t, IsReferenceType(&InterfaceType{Name: "I"}))
	require.True(t, IsReferenceType(Null))
	require.False(t, IsReferenceType(Bool))
	require.False(t, IsReferenceType(nil))
}

func TestIsAssignmentRecognizesReferenceTypedAssign(t *testing.T) {
	c := &ClassType{Name: "C"}
	local := &Local{Name: "x", Type_: c}
	rhs := &NullLiteral{}
	assign := &BinaryOp{Op: OpAssign, Left: &VarRef{Target: local}, Right: rhs}

	lhs, got, ok := IsAssignment(assign)
	require.True(t, ok)
	require.Same(t, local, lhs)
	require.Same(t, rhs, got)
}

func TestIsAssignmentRejectsNonAssignOp(t *testing.T) {
	local := &Local{Name: "x", Type_: &ClassType{Name: "C"}}
	eq := &BinaryOp{Op: OpEq, Left: &VarRef{Target: local}, Right: &NullLiteral{}}

	_, _, ok := IsAssignment(eq)
	require.False(t, ok)
}

func TestIsAssignmentRejectsNonVarRefLHS(t *testing.T) {
	field := &Field{Name: "f", Type_: &ClassType{Name: "C"}}
	assign := &BinaryOp{Op: OpAssign, Left: &FieldRef{Field: field}, Right: &NullLiteral{}}

	_, _, ok := IsAssignment(assign)
	require.False(t, ok)
}

func TestIsAssignmentRejectsPrimitiveTarget(t *testing.T) {
	local := &Local{Name: "flag", Type_: Bool}
	assign := &BinaryOp{Op: OpAssign, Left: &VarRef{Target: local}, Right: &BoolLiteral{Value: true}}

	_, _, ok := IsAssignment(assign)
	require.False(t, ok)
}

func TestHasSideEffects(t *testing.T) {
	local := &Local{Name: "x", Type_: &ClassType{Name: "C"}}
	require.False(t, HasSideEffects(nil))
	require.False(t, HasSideEffects(&VarRef{Target: local}))
	require.False(t, HasSideEffects(&NullLiteral{}))
	require.True(t, HasSideEffects(&MethodCall{Method: &Method{Name: "m", Return: &ReturnSlot{}}}))
}

func TestFactoryNotEqualNull(t *testing.T) {
	f := NewFactory()
	local := &Local{Name: "x", Type_: &ClassType{Name: "C"}}
	expr := f.NotEqualNull(&VarRef{Target: local})

	bin, ok := expr.(*BinaryOp)
	require.True(t, ok)
	require.Equal(t, OpNe, bin.Op)
	_, isNullLit := bin.Right.(*NullLiteral)
	require.True(t, isNullLit)
}

func TestSlotDeclaredTypeRoundTrip(t *testing.T) {
	c := &ClassType{Name: "C"}
	d := &ClassType{Name: "D"}

	var slots []Slot = []Slot{
		&Field{Name: "f", Type_: c},
		&Local{Name: "l", Type_: c},
		&Parameter{Name: "p", Type_: c},
		&ReturnSlot{Type_: c},
	}
	for _, s := range slots {
		require.Same(t, c, s.DeclaredType())
		s.SetDeclaredType(d)
		require.Same(t, d, s.DeclaredType())
	}
}

func TestProgramAllFieldsDeduplicatesAndDiscoversViaBody(t *testing.T) {
	class := &ClassType{Name: "C"}
	instanceField := &Field{Name: "inst", Type_: class, Enclosing: class}
	staticOnly := &Field{Name: "onlyStatic", Type_: class}

	program := NewProgram()
	program.Classes = []*ClassType{class}
	program.StaticFields = []*Field{staticOnly}
	program.Methods = []*Method{
		{
			Name:      "touch",
			Enclosing: class,
			Body: []Statement{
				&ExprStmt{Expr: &FieldRef{Field: instanceField}},
				&ExprStmt{Expr: &FieldRef{Field: instanceField}}, // referenced twice
			},
		},
	}

	fields := program.AllFields()
	require.Len(t, fields, 2)
	require.Contains(t, fields, instanceField)
	require.Contains(t, fields, staticOnly)
}

func TestIsStaticForwarder(t *testing.T) {
	class := &ClassType{Name: "C"}
	this := &Parameter{Name: "this", Type_: class, IsThis: true}
	forwarder := &Method{Name: "m", Static: true, Params: []*Parameter{this}}
	require.True(t, forwarder.IsStaticForwarder())

	notThis := &Method{Name: "m", Static: true, Params: []*Parameter{{Name: "x", Type_: class}}}
	require.False(t, notThis.IsStaticForwarder())

	notStatic := &Method{Name: "m", Params: []*Parameter{this}}
	require.False(t, notStatic.IsStaticForwarder())
}

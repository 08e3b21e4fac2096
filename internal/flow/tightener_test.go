package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irforge/typetighten/internal/pin"
	"github.com/irforge/typetighten/ir"
)

func TestTightenFieldToNullWhenNeverInstantiated(t *testing.T) {
	class := &ir.ClassType{Name: "C"} // never instantiated
	field := &ir.Field{Name: "f", Type_: class, Enclosing: class}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.StaticFields = []*ir.Field{field}

	o := newTestOracle(t, program)
	tightener := NewTightener(program, o, NewRelations(), pin.NewRegistry(), nil, nil)

	changed := tightener.Tighten()
	require.True(t, changed)
	require.True(t, ir.IsNull(field.DeclaredType()))
}

func TestTightenSkipsVolatileField(t *testing.T) {
	class := &ir.ClassType{Name: "C"} // never instantiated
	field := &ir.Field{Name: "f", Type_: class, Enclosing: class, Volatile: true}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.StaticFields = []*ir.Field{field}

	o := newTestOracle(t, program)
	tightener := NewTightener(program, o, NewRelations(), pin.NewRegistry(), nil, nil)

	changed := tightener.Tighten()
	require.False(t, changed)
	require.Same(t, class, field.DeclaredType())
}

func TestTightenSkipsExcludedClass(t *testing.T) {
	class := &ir.ClassType{Name: "C"} // never instantiated
	field := &ir.Field{Name: "f", Type_: class, Enclosing: class}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.StaticFields = []*ir.Field{field}

	o := newTestOracle(t, program)
	excluded := map[*ir.ClassType]bool{class: true}
	tightener := NewTightener(program, o, NewRelations(), pin.NewRegistry(), excluded, nil)

	changed := tightener.Tighten()
	require.False(t, changed)
	require.Same(t, class, field.DeclaredType())
}

func TestTightenSingleConcreteDominator(t *testing.T) {
	shape := &ir.ClassType{Name: "Shape", Abstract: true}
	circle := &ir.ClassType{Name: "Circle", Super: shape, Instantiated: true}
	local := &ir.Local{Name: "s", Type_: shape}

	m := &ir.Method{
		Name:      "make",
		Enclosing: shape,
		Body:      []ir.Statement{&ir.DeclStmt{Var: local}},
	}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{shape, circle}
	program.Methods = []*ir.Method{m}

	o := newTestOracle(t, program)
	rel := NewRelations()
	rel.AddImplementor(shape, circle)

	tightener := NewTightener(program, o, rel, pin.NewRegistry(), nil, nil)
	changed := tightener.Tighten()

	require.True(t, changed)
	require.Same(t, circle, local.DeclaredType())
}

func TestTightenLeavesPinnedSlotAlone(t *testing.T) {
	class := &ir.ClassType{Name: "C"} // never instantiated: would otherwise tighten to null
	local := &ir.Local{Name: "x", Type_: class}
	m := &ir.Method{Name: "run", Enclosing: class, Body: []ir.Statement{&ir.DeclStmt{Var: local}}}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.Methods = []*ir.Method{m}

	o := newTestOracle(t, program)
	pins := pin.NewRegistry()
	pins.Pin(local, pin.ForeignWrite)

	tightener := NewTightener(program, o, NewRelations(), pins, nil, nil)
	changed := tightener.Tighten()

	require.False(t, changed)
	require.Same(t, class, local.DeclaredType())
}

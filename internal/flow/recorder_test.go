package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irforge/typetighten/internal/pin"
	"github.com/irforge/typetighten/ir"
	"github.com/irforge/typetighten/oracle"
)

func newTestOracle(t *testing.T, program *ir.Program) oracle.Oracle {
	t.Helper()
	h, err := oracle.NewHierarchy(program, oracle.Options{})
	require.NoError(t, err)
	return h
}

func TestRecordDeclStmtAssignment(t *testing.T) {
	class := &ir.ClassType{Name: "C", Instantiated: true}
	local := &ir.Local{Name: "x", Type_: class}
	lit := &ir.NullLiteral{}

	m := &ir.Method{
		Name:      "make",
		Enclosing: class,
		Body:      []ir.Statement{&ir.DeclStmt{Var: local, Init: lit}},
	}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.Methods = []*ir.Method{m}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	require.ElementsMatch(t, []ir.Expression{lit}, rel.Assignments(local))
}

func TestRecordStaticFieldInitializer(t *testing.T) {
	class := &ir.ClassType{Name: "C", Instantiated: true}
	lit := &ir.NullLiteral{}
	field := &ir.Field{Name: "instance", Type_: class, Static: true, Init: lit}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.StaticFields = []*ir.Field{field}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	require.ElementsMatch(t, []ir.Expression{lit}, rel.Assignments(field))
}

func TestRecordForeignWritePins(t *testing.T) {
	class := &ir.ClassType{Name: "C", Instantiated: true}
	local := &ir.Local{Name: "x", Type_: class}
	m := &ir.Method{
		Name:      "native",
		Enclosing: class,
		Native:    true,
		Body:      []ir.Statement{&ir.ForeignWrite{Target: local}},
	}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.Methods = []*ir.Method{m}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	reason, pinned := pins.IsPinned(local)
	require.True(t, pinned)
	require.Equal(t, pin.ForeignWrite, reason)
}

func TestRecordCatchParamPinned(t *testing.T) {
	class := &ir.ClassType{Name: "C", Instantiated: true}
	caught := &ir.Local{Name: "err", Type_: class}
	m := &ir.Method{
		Name:      "run",
		Enclosing: class,
		Body: []ir.Statement{
			&ir.TryStmt{CatchParam: caught},
		},
	}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.Methods = []*ir.Method{m}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	reason, pinned := pins.IsPinned(caught)
	require.True(t, pinned)
	require.Equal(t, pin.CaughtException, reason)
}

func TestRecordStaticForwarderSelfUpRefAndPin(t *testing.T) {
	class := &ir.ClassType{Name: "C", Instantiated: true}
	this := &ir.Parameter{Name: "this", Type_: class, IsThis: true}
	instanceMethod := &ir.Method{Name: "m", Enclosing: class, Params: nil}
	forwarder := &ir.Method{
		Name:      "m",
		Enclosing: class,
		Static:    true,
		Params:    []*ir.Parameter{this},
		Forwards:  instanceMethod,
	}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{class}
	program.Methods = []*ir.Method{instanceMethod, forwarder}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	require.True(t, rel.HasSelfUpRef(this))
	_, pinned := pins.IsPinned(this)
	require.True(t, pinned)
}

func TestRecordClassEntryOnlyForInstantiatedClasses(t *testing.T) {
	shape := &ir.ClassType{Name: "Shape", Abstract: true}
	circle := &ir.ClassType{Name: "Circle", Super: shape, Instantiated: true}
	square := &ir.ClassType{Name: "Square", Super: shape}

	program := ir.NewProgram()
	program.Classes = []*ir.ClassType{shape, circle, square}

	rel := NewRelations()
	pins := pin.NewRegistry()
	NewRecorder(program, newTestOracle(t, program), rel, pins, nil).Record()

	got, ok := rel.SingleConcreteImplementor(shape)
	require.True(t, ok)
	require.Same(t, circle, got)
}

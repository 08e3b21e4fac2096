package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irforge/typetighten/ir"
)

func TestAssignmentsDeduplicates(t *testing.T) {
	rel := NewRelations()
	local := &ir.Local{Name: "x"}
	lit := &ir.NullLiteral{}

	rel.AddAssignment(local, lit)
	rel.AddAssignment(local, lit)

	require.ElementsMatch(t, []ir.Expression{lit}, rel.Assignments(local))
}

func TestReturnsPerMethod(t *testing.T) {
	rel := NewRelations()
	m := &ir.Method{Name: "m"}
	a := &ir.NullLiteral{}
	b := &ir.BoolLiteral{Value: true}

	rel.AddReturn(m, a)
	rel.AddReturn(m, b)

	require.ElementsMatch(t, []ir.Expression{a, b}, rel.Returns(m))
}

func TestSingleConcreteImplementorRequiresExactlyOne(t *testing.T) {
	rel := NewRelations()
	iface := &ir.InterfaceType{Name: "I"}
	c := &ir.ClassType{Name: "C"}

	_, ok := rel.SingleConcreteImplementor(iface)
	require.False(t, ok, "no implementors yet")

	rel.AddImplementor(iface, c)
	got, ok := rel.SingleConcreteImplementor(iface)
	require.True(t, ok)
	require.Same(t, c, got)

	d := &ir.ClassType{Name: "D"}
	rel.AddImplementor(iface, d)
	_, ok = rel.SingleConcreteImplementor(iface)
	require.False(t, ok, "two implementors means no single dominator")
}

func TestParamUpRefsAndSelfUpRef(t *testing.T) {
	rel := NewRelations()
	this := &ir.Parameter{Name: "this"}
	base := &ir.Parameter{Name: "base"}

	require.False(t, rel.HasSelfUpRef(this))

	rel.AddParamUpRef(this, this)
	rel.AddParamUpRef(this, base)

	require.True(t, rel.HasSelfUpRef(this))
	require.ElementsMatch(t, []*ir.Parameter{this, base}, rel.ParamUpRefs(this))
}

func TestOverriders(t *testing.T) {
	rel := NewRelations()
	base := &ir.Method{Name: "m"}
	override := &ir.Method{Name: "m"}

	require.Empty(t, rel.Overriders(base))

	rel.AddOverrider(base, override)
	require.ElementsMatch(t, []*ir.Method{override}, rel.Overriders(base))
}

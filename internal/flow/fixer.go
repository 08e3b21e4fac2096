package flow

import (
	"github.com/irforge/typetighten/internal/traverse"
	"github.com/irforge/typetighten/ir"
)

// Fixer is the Dangling-Ref Fixer (spec.md §4.3): a modifying traversal run
// after each Tightener round that repairs field/method references whose
// instance qualifier has become the null type, and strips side-effect-free
// qualifiers from references to static members.
type Fixer struct {
	program *ir.Program
	factory *ir.Factory
}

// NewFixer returns a Fixer for program.
func NewFixer(program *ir.Program) *Fixer {
	return &Fixer{program: program, factory: ir.NewFactory()}
}

// Fix walks every non-native, non-abstract method body once.
func (f *Fixer) Fix() {
	for _, m := range f.program.Methods {
		if m.Native || m.Abstract {
			continue
		}
		traverse.WalkBody(m.Body, f.visitExpr, nil)
	}
}

func (f *Fixer) visitExpr(e ir.Expression, set traverse.Setter) {
	switch n := e.(type) {
	case *ir.FieldRef:
		f.fixFieldRef(n, set)
	case *ir.MethodCall:
		f.fixMethodCall(n, set)
	}
}

func (f *Fixer) fixFieldRef(n *ir.FieldRef, set traverse.Setter) {
	if n.Field.Static {
		f.dropDeadQualifier(&n.Instance)
		return
	}
	if n.Instance == nil || !ir.IsNull(n.Instance.Type()) {
		return
	}
	set(f.factory.FieldRef(f.qualifierOrNullLiteral(n.Instance), f.program.NullField))
}

func (f *Fixer) fixMethodCall(n *ir.MethodCall, set traverse.Setter) {
	if n.Method != nil && n.Method.IsStaticForwarder() &&
		len(n.Args) > 0 && n.Args[0] != nil && ir.IsNull(n.Args[0].Type()) {
		set(f.factory.MethodCall(n.Instance, f.program.NullMethod, n.Args))
		return
	}
	if n.Method != nil && n.Method.Static {
		f.dropDeadQualifier(&n.Instance)
		return
	}
	if n.Instance == nil || !ir.IsNull(n.Instance.Type()) {
		return
	}
	set(f.factory.MethodCall(f.qualifierOrNullLiteral(n.Instance), f.program.NullMethod, n.Args))
}

// dropDeadQualifier clears *instance if it's non-nil and evaluating it can't
// have any observable effect — a reference to a static member never needs
// its qualifier once it's known to be static.
func (f *Fixer) dropDeadQualifier(instance *ir.Expression) {
	if *instance != nil && !ir.HasSideEffects(*instance) {
		*instance = nil
	}
}

// qualifierOrNullLiteral keeps a side-effecting qualifier so it's still
// evaluated (the fault it may raise, or the effect it may have, must not be
// dropped just because the reference itself is being retargeted), and
// otherwise simplifies it to a null literal.
func (f *Fixer) qualifierOrNullLiteral(qualifier ir.Expression) ir.Expression {
	if ir.HasSideEffects(qualifier) {
		return qualifier
	}
	return f.factory.NullLiteral()
}

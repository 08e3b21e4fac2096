package ir

// Factory constructs replacement IR nodes. It is the collaborator surface
// named in spec.md §6b: the Tightener and Fixer never build nodes with bare
// struct literals when rewriting an expression, so that every construction
// site is easy to find and swap if the node shapes ever change.
type Factory struct{}

// NewFactory returns a Factory. It carries no state; it exists so call
// sites read as "ask the factory" rather than "build this struct by hand",
// matching the collaborator named in spec.md §6.
func NewFactory() *Factory { return &Factory{} }

func (*Factory) NullLiteral() *NullLiteral { return &NullLiteral{} }

func (*Factory) BoolLiteral(v bool) *BoolLiteral { return &BoolLiteral{Value: v} }

func (*Factory) BinaryOp(op BinOp, left, right Expression) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func (*Factory) Cast(target ReferenceType, inner Expression) *Cast {
	return &Cast{Target: target, Inner: inner}
}

func (*Factory) InstanceOf(target ReferenceType, inner Expression) *InstanceOf {
	return &InstanceOf{Target: target, Inner: inner}
}

func (*Factory) FieldRef(instance Expression, field *Field) *FieldRef {
	return &FieldRef{Instance: instance, Field: field}
}

func (*Factory) MethodCall(instance Expression, method *Method, args []Expression) *MethodCall {
	return &MethodCall{Instance: instance, Method: method, Args: args}
}

// NotEqualNull returns `e != null`, the replacement spec.md §4.2 prescribes
// for a trivially-true instanceof test.
func (f *Factory) NotEqualNull(e Expression) Expression {
	return f.BinaryOp(OpNe, e, f.NullLiteral())
}

package ir

// Method is a method declaration: its parameter list (with a leading "this"
// parameter for static forwarders, marked via Parameter.IsThis), its return
// slot, its enclosing type, and its body.
type Method struct {
	Name      string
	Enclosing ReferenceType
	Params    []*Parameter
	Return    *ReturnSlot
	Body      []Statement

	Abstract bool
	Native   bool
	Static   bool

	// Overrides lists the methods this method directly overrides (up the
	// hierarchy, nearest first). The Type Oracle's allOverrides expands
	// this transitively.
	Overrides []*Method

	// Forwards is non-nil when this method is a static forwarder
	// synthesized as the implementation of an instance method: it points at
	// that instance method ("I" in spec.md §4.1's static-forwarder rule).
	// Params[0] is the forwarder's "this" parameter in that case.
	Forwards *Method
}

// IsStaticForwarder reports whether m is a static forwarder: a static
// method whose first parameter is explicitly marked as the receiver.
func (m *Method) IsStaticForwarder() bool {
	return m.Static && len(m.Params) > 0 && m.Params[0].IsThis
}

// Program is the whole linked program the pass runs over.
type Program struct {
	Classes    []*ClassType
	Interfaces []*InterfaceType
	Methods    []*Method

	// StaticFields lists fields not referenced from any method body (e.g. a
	// static field with only a literal initializer and no referencing
	// method) so the Recorder's "static field with a literal initializer"
	// rule (spec.md §4.1) can still find it. Every other field is
	// discovered through the FieldRef expressions in Methods' bodies.
	StaticFields []*Field

	// NullField and NullMethod are the program-wide sentinels the
	// Dangling-Ref Fixer retargets null-qualified references to
	// (spec.md §4.3). They are created once, at program-construction time.
	NullField  *Field
	NullMethod *Method
}

// NewProgram builds an empty program, pre-creating the null-field and
// null-method sentinels the Fixer needs.
func NewProgram() *Program {
	nullMethod := &Method{
		Name: "<null-method>",
		Return: &ReturnSlot{
			Type_: Null,
		},
	}
	nullMethod.Return.Method = nullMethod
	return &Program{
		NullField: &Field{
			Name:  "<null-field>",
			Type_: Null,
		},
		NullMethod: nullMethod,
	}
}

// AllFields returns every field in the program: Program.StaticFields plus
// the target of every FieldRef in a method body, each once. Classes don't
// carry their own field list in this model — fields are owned by whatever
// constructs the program and discovered for traversal purposes only here.
func (p *Program) AllFields() []*Field {
	seen := make(map[*Field]bool)
	var out []*Field
	add := func(f *Field) {
		if f == nil || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}
	for _, f := range p.StaticFields {
		add(f)
	}
	for _, m := range p.Methods {
		for _, ref := range fieldRefsIn(m) {
			add(ref.Field)
		}
	}
	return out
}

func fieldRefsIn(m *Method) []*FieldRef {
	var out []*FieldRef
	var walkExpr func(Expression)
	walkExpr = func(e Expression) {
		switch n := e.(type) {
		case nil:
		case *FieldRef:
			out = append(out, n)
			walkExpr(n.Instance)
		case *MethodCall:
			walkExpr(n.Instance)
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *Cast:
			walkExpr(n.Inner)
		case *InstanceOf:
			walkExpr(n.Inner)
		case *BinaryOp:
			walkExpr(n.Left)
			walkExpr(n.Right)
		}
	}
	var walkStmt func(Statement)
	walkStmt = func(s Statement) {
		switch n := s.(type) {
		case nil:
		case *DeclStmt:
			walkExpr(n.Init)
		case *ExprStmt:
			walkExpr(n.Expr)
		case *ReturnStmt:
			walkExpr(n.Value)
		case *TryStmt:
			for _, s := range n.Body {
				walkStmt(s)
			}
			for _, s := range n.CatchBody {
				walkStmt(s)
			}
		}
	}
	for _, s := range m.Body {
		walkStmt(s)
	}
	return out
}

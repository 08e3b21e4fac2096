package ir

// Statement is the union of statement variants that can appear in a
// method's body.
type Statement interface {
	statement()
}

// DeclStmt declares a local, optionally with an initializer. A reference-
// typed local with an initializer contributes that initializer to the
// Recorder's assignments relation (spec.md §4.1).
type DeclStmt struct {
	Var  *Local
	Init Expression // nil if the local has no initializer
}

func (*DeclStmt) statement() {}

// ExprStmt is a statement consisting of a single expression evaluated for
// its side effects — typically an assignment or a method call.
type ExprStmt struct {
	Expr Expression
}

func (*ExprStmt) statement() {}

// ReturnStmt returns Value (nil for a void return) from the enclosing
// method.
type ReturnStmt struct {
	Value Expression
}

func (*ReturnStmt) statement() {}

// TryStmt models a try/catch block. CatchParam, if non-nil, is pinned by
// the Recorder: a thrown value escapes local control flow entirely, so its
// declared type can never be narrowed (spec.md §4.1, "Catch-clause
// parameter").
type TryStmt struct {
	Body       []Statement
	CatchParam *Local
	CatchBody  []Statement
}

func (*TryStmt) statement() {}

// ForeignWrite models a write to Target performed from within a foreign
// (native) code boundary, which the Recorder can't see the value of. It
// pins Target to its declared type at the time the write is recorded
// (spec.md §4.1, "Foreign/native field write").
type ForeignWrite struct {
	Target Variable
}

func (*ForeignWrite) statement() {}

// ForeignMethodRef models a reference to Method taken from within a
// foreign boundary (e.g. registering a callback). It pins every parameter
// of Method (spec.md §4.1, "Foreign/native method reference").
type ForeignMethodRef struct {
	Method *Method
}

func (*ForeignMethodRef) statement() {}

// Package traverse provides the generic post-order traversal combinator
// used by every modifying pass over the IR (spec.md §9: "a traversal
// combinator that (i) recurses children post-order and (ii) exposes a
// replace_current(node) contract"). It has no notion of what a visitor does
// with a node — it only guarantees children are visited, and possibly
// rewritten, before their parent sees them.
package traverse

import "github.com/irforge/typetighten/ir"

// Setter writes a (possibly rewritten) expression back into whatever field
// or slice slot held the original — the "replaceMe" half of the contract.
type Setter func(ir.Expression)

// ExprVisitor is invoked once per expression node, post-order: every
// descendant of e has already been visited (and possibly replaced in e)
// by the time ExprVisitor runs. set replaces e itself in its parent; a
// visitor that doesn't want to replace e simply never calls set.
type ExprVisitor func(e ir.Expression, set Setter)

// WalkExpr recurses into e's children post-order, then invokes visit on e.
// set is how the caller (or an ancestor frame of this same walk) would
// replace e; WalkExpr passes it through unchanged to visit.
func WalkExpr(e ir.Expression, set Setter, visit ExprVisitor) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ir.FieldRef:
		if n.Instance != nil {
			WalkExpr(n.Instance, func(r ir.Expression) { n.Instance = r }, visit)
		}
	case *ir.MethodCall:
		if n.Instance != nil {
			WalkExpr(n.Instance, func(r ir.Expression) { n.Instance = r }, visit)
		}
		for i := range n.Args {
			idx := i
			WalkExpr(n.Args[idx], func(r ir.Expression) { n.Args[idx] = r }, visit)
		}
	case *ir.Cast:
		WalkExpr(n.Inner, func(r ir.Expression) { n.Inner = r }, visit)
	case *ir.InstanceOf:
		WalkExpr(n.Inner, func(r ir.Expression) { n.Inner = r }, visit)
	case *ir.BinaryOp:
		WalkExpr(n.Left, func(r ir.Expression) { n.Left = r }, visit)
		WalkExpr(n.Right, func(r ir.Expression) { n.Right = r }, visit)
	case *ir.VarRef, *ir.NullLiteral, *ir.BoolLiteral:
		// leaves: nothing to recurse into
	}
	visit(e, set)
}

// StmtVisitor is invoked once per statement, after every expression and
// nested statement it contains has been visited.
type StmtVisitor func(s ir.Statement)

// WalkBody walks every statement in body post-order, calling exprVisit on
// every expression it contains and stmtVisit on every statement (including
// nested ones inside a TryStmt).
func WalkBody(body []ir.Statement, exprVisit ExprVisitor, stmtVisit StmtVisitor) {
	for _, s := range body {
		WalkStmt(s, exprVisit, stmtVisit)
	}
}

// WalkStmt walks a single statement the same way WalkBody walks a body.
func WalkStmt(s ir.Statement, exprVisit ExprVisitor, stmtVisit StmtVisitor) {
	switch n := s.(type) {
	case nil:
		return
	case *ir.DeclStmt:
		if n.Init != nil {
			WalkExpr(n.Init, func(r ir.Expression) { n.Init = r }, exprVisit)
		}
	case *ir.ExprStmt:
		if n.Expr != nil {
			WalkExpr(n.Expr, func(r ir.Expression) { n.Expr = r }, exprVisit)
		}
	case *ir.ReturnStmt:
		if n.Value != nil {
			WalkExpr(n.Value, func(r ir.Expression) { n.Value = r }, exprVisit)
		}
	case *ir.TryStmt:
		WalkBody(n.Body, exprVisit, stmtVisit)
		WalkBody(n.CatchBody, exprVisit, stmtVisit)
	case *ir.ForeignWrite, *ir.ForeignMethodRef:
		// leaves: no expression children to recurse into
	}
	if stmtVisit != nil {
		stmtVisit(s)
	}
}

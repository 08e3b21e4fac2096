package flow

import (
	"log/slog"

	"github.com/irforge/typetighten/internal/label"
	"github.com/irforge/typetighten/internal/pin"
	"github.com/irforge/typetighten/ir"
	"github.com/irforge/typetighten/oracle"
)

// Recorder is the Type-Flow Recorder (spec.md §4.1): a single read-only
// traversal that populates Relations and pins slots the Tightener must
// never narrow. It visits every node of the program exactly once.
type Recorder struct {
	program *ir.Program
	oracle  oracle.Oracle
	rel     *Relations
	pins    *pin.Registry
	log     *slog.Logger
	labels  *label.Cache
}

// NewRecorder returns a Recorder that will populate rel and pins from
// program, consulting o for instantiation and override facts.
func NewRecorder(program *ir.Program, o oracle.Oracle, rel *Relations, pins *pin.Registry, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{program: program, oracle: o, rel: rel, pins: pins, log: logger, labels: label.NewCache()}
}

// Record runs the single traversal described in spec.md §4.1.
func (r *Recorder) Record() {
	for _, c := range r.program.Classes {
		r.recordClassEntry(c)
	}
	for _, f := range r.program.AllFields() {
		if f.Static && f.Init != nil && ir.IsReferenceType(f.DeclaredType()) {
			r.rel.AddAssignment(f, f.Init)
		}
	}
	for _, m := range r.program.Methods {
		r.recordMethodEntry(m)
		r.recordBody(m)
		r.recordMethodExit(m)
	}
}

// recordClassEntry walks c's superclass chain and implemented-interface
// closure, recording c as an implementor of each, but only when c itself is
// directly instantiated — an abstract ancestor with an instantiated
// subclass is discovered when that subclass is visited, not here.
func (r *Recorder) recordClassEntry(c *ir.ClassType) {
	if c == nil || !c.Instantiated {
		return
	}
	for cur := c; cur != nil; cur = cur.Super {
		r.rel.AddImplementor(cur, c)
		for _, iface := range cur.Interfaces {
			r.addInterfaceImplementor(iface, c)
		}
	}
}

func (r *Recorder) addInterfaceImplementor(iface *ir.InterfaceType, c *ir.ClassType) {
	if iface == nil {
		return
	}
	r.rel.AddImplementor(iface, c)
	for _, parent := range iface.Extends {
		r.addInterfaceImplementor(parent, c)
	}
}

// recordMethodEntry contributes the parameter up-ref relation, per
// spec.md §4.1's "Method entry" rules.
func (r *Recorder) recordMethodEntry(m *ir.Method) {
	if m == nil {
		return
	}
	if m.IsStaticForwarder() {
		r.recordStaticForwarderEntry(m)
		return
	}
	if m.Static {
		return
	}
	for _, base := range r.oracle.AllOverrides(m) {
		for i, p := range m.Params {
			if i >= len(base.Params) {
				// Invariant breach: mismatched parameter counts between a
				// method and its override base. Graceful local abort for
				// this pairing (spec.md §7).
				r.log.Debug("skipping up-ref: param count mismatch", "method", r.labels.Method(m), "base", r.labels.Method(base))
				break
			}
			r.rel.AddParamUpRef(p, base.Params[i])
		}
	}
}

func (r *Recorder) recordStaticForwarderEntry(s *ir.Method) {
	this := s.Params[0]
	if !this.IsThis {
		// Invariant breach: missing "this" marker (spec.md §7) — abort.
		r.log.Debug("skipping static forwarder up-refs: first param not marked this", "method", r.labels.Method(s))
		return
	}
	// Self-cycle pinning the receiver's declared type (spec.md §3 invariant).
	r.rel.AddParamUpRef(this, this)
	r.pins.Pin(this, pin.StaticForwarderThis)

	instance := s.Forwards
	if instance == nil {
		// Static forwarder's instance counterpart has been pruned: skip the
		// up-ref installation for this method (spec.md §7).
		return
	}
	for j := 1; j < len(s.Params); j++ {
		if j-1 >= len(instance.Params) {
			r.log.Debug("skipping forwarder up-ref: instance method has fewer params", "method", r.labels.Method(s))
			break
		}
		r.rel.AddParamUpRef(s.Params[j], instance.Params[j-1])
	}
}

func (r *Recorder) recordMethodExit(m *ir.Method) {
	if m == nil || m.Static || m.Enclosing == nil {
		return
	}
	class, ok := m.Enclosing.(*ir.ClassType)
	if !ok || !r.oracle.IsInstantiated(class) {
		return
	}
	for _, base := range r.oracle.AllOverrides(m) {
		r.rel.AddOverrider(base, m)
	}
}

func (r *Recorder) recordBody(m *ir.Method) {
	for _, s := range m.Body {
		r.recordStmt(m, s)
	}
}

func (r *Recorder) recordStmt(m *ir.Method, s ir.Statement) {
	switch n := s.(type) {
	case nil:
	case *ir.DeclStmt:
		r.recordExpr(n.Init)
		if n.Init != nil && ir.IsReferenceType(n.Var.DeclaredType()) {
			r.rel.AddAssignment(n.Var, n.Init)
		}
	case *ir.ExprStmt:
		r.recordExpr(n.Expr)
	case *ir.ReturnStmt:
		r.recordExpr(n.Value)
		if n.Value != nil && ir.IsReferenceType(m.Return.DeclaredType()) {
			r.rel.AddReturn(m, n.Value)
		}
	case *ir.TryStmt:
		for _, s := range n.Body {
			r.recordStmt(m, s)
		}
		if n.CatchParam != nil {
			// Thrown values escape local control flow (spec.md §4.1).
			r.pins.Pin(n.CatchParam, pin.CaughtException)
		}
		for _, s := range n.CatchBody {
			r.recordStmt(m, s)
		}
	case *ir.ForeignWrite:
		r.pins.Pin(n.Target, pin.ForeignWrite)
	case *ir.ForeignMethodRef:
		for _, p := range n.Method.Params {
			r.pins.Pin(p, pin.ForeignParam)
		}
	}
}

// recordExpr records every assignment and call-argument flow reachable
// anywhere inside e, however deeply nested — an assignment need not sit
// at statement level (foo(x = y), return (x = y)).
func (r *Recorder) recordExpr(e ir.Expression) {
	switch n := e.(type) {
	case nil:
	case *ir.FieldRef:
		r.recordExpr(n.Instance)
	case *ir.MethodCall:
		r.recordExpr(n.Instance)
		r.recordCallArgs(n)
		for _, a := range n.Args {
			r.recordExpr(a)
		}
	case *ir.Cast:
		r.recordExpr(n.Inner)
	case *ir.InstanceOf:
		r.recordExpr(n.Inner)
	case *ir.BinaryOp:
		if lhs, rhs, ok := ir.IsAssignment(n); ok {
			r.rel.AddAssignment(lhs, rhs)
		}
		r.recordExpr(n.Left)
		r.recordExpr(n.Right)
	}
}

func (r *Recorder) recordCallArgs(call *ir.MethodCall) {
	if call.Method == nil {
		return
	}
	for i, p := range call.Method.Params {
		if i >= len(call.Args) {
			break
		}
		if !ir.IsReferenceType(p.DeclaredType()) {
			continue
		}
		r.rel.AddAssignment(p, call.Args[i])
	}
}

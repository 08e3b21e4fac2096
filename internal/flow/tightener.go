package flow

import (
	"log/slog"

	"github.com/irforge/typetighten/internal/label"
	"github.com/irforge/typetighten/internal/pin"
	"github.com/irforge/typetighten/internal/traverse"
	"github.com/irforge/typetighten/ir"
	"github.com/irforge/typetighten/oracle"
)

// Tightener is the modifying traversal described in spec.md §4.2: it
// narrows slot declared types and rewrites casts, instance-of tests, and
// method calls using Relations plus the Type Oracle. Tighten reports
// whether its round made a change.
type Tightener struct {
	program  *ir.Program
	oracle   oracle.Oracle
	rel      *Relations
	pins     *pin.Registry
	factory  *ir.Factory
	log      *slog.Logger
	labels   *label.Cache
	excluded map[*ir.ClassType]bool

	changed bool

	// Counters feeding typetighten.Stats; purely observational, never read
	// by the algorithm itself.
	slotsTightened       int
	castsRemoved         int
	instanceofNormalized int
	callsDevirtualized   int
}

// Counts returns how many slots/casts/instance-of tests/calls this round
// changed, in that order. calls counts each retarget and each cleared
// polymorphic flag separately, so one call can be counted twice.
func (t *Tightener) Counts() (slots, casts, instanceofs, calls int) {
	return t.slotsTightened, t.castsRemoved, t.instanceofNormalized, t.callsDevirtualized
}

// NewTightener returns a Tightener. excluded, if non-nil, names
// code-generation classes the host has enumerated as off-limits for
// tightening (spec.md §4.2); pass nil when there are none.
func NewTightener(program *ir.Program, o oracle.Oracle, rel *Relations, pins *pin.Registry, excluded map[*ir.ClassType]bool, logger *slog.Logger) *Tightener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tightener{
		program:  program,
		oracle:   o,
		rel:      rel,
		pins:     pins,
		factory:  ir.NewFactory(),
		excluded: excluded,
		log:      logger,
		labels:   label.NewCache(),
	}
}

// Tighten runs one round over the whole program and reports whether it
// changed anything.
func (t *Tightener) Tighten() bool {
	t.changed = false

	for _, f := range t.program.AllFields() {
		if f.Volatile || t.classExcluded(f.Enclosing) {
			continue
		}
		if t.tightenSlotWithExtra(f, nil) {
			t.changed = true
		}
	}

	for _, m := range t.program.Methods {
		if t.classExcluded(classOf(m.Enclosing)) {
			continue
		}
		for _, p := range m.Params {
			if t.tightenSlotWithExtra(p, t.paramExtra(p)) {
				t.changed = true
			}
		}
		if m.Return != nil && t.tightenReturnSlot(m) {
			t.changed = true
		}
		if m.Native || m.Abstract {
			// No body to walk: no locals to tighten, no casts/instanceof/
			// calls to rewrite (spec.md §4.2).
			continue
		}
		for _, s := range m.Body {
			t.tightenStmtLocals(s)
		}
		traverse.WalkBody(m.Body, t.visitExpr, nil)
	}
	return t.changed
}

func classOf(t ir.ReferenceType) *ir.ClassType {
	c, _ := t.(*ir.ClassType)
	return c
}

func (t *Tightener) classExcluded(c *ir.ClassType) bool {
	return c != nil && t.excluded[c]
}

func isAbstractRef(t ir.ReferenceType) bool {
	switch v := t.(type) {
	case *ir.ClassType:
		return v.Abstract
	case *ir.InterfaceType:
		return true
	default:
		return false
	}
}

// tightenBasic applies steps 1 (non-instantiability) and 2 (single concrete
// dominator) to slot, which apply identically regardless of slot kind. done
// reports whether tightening is finished after these steps (either because
// one of them fired, or because slot wasn't eligible at all).
func (t *Tightener) tightenBasic(slot ir.Slot) (refT ir.ReferenceType, done bool, changed bool) {
	declared := slot.DeclaredType()
	if !ir.IsReferenceType(declared) {
		return nil, true, false
	}
	rt := declared.(ir.ReferenceType)
	if ir.IsNull(rt) {
		return rt, true, false
	}
	if _, pinned := t.pins.IsPinned(slot); pinned {
		return rt, true, false
	}
	if !t.oracle.IsInstantiated(rt) {
		slot.SetDeclaredType(ir.Null)
		t.slotsTightened++
		t.log.Debug("slot tightened: never instantiated", "slot", t.labels.Slot(slot), "to", "null")
		return rt, true, true
	}
	if isAbstractRef(rt) {
		if c, ok := t.rel.SingleConcreteImplementor(rt); ok {
			slot.SetDeclaredType(c)
			t.slotsTightened++
			t.log.Debug("slot tightened: sole concrete implementor", "slot", t.labels.Slot(slot), "to", c.TypeName())
			return rt, true, true
		}
	}
	return rt, false, false
}

// tightenStepsOnly applies only steps 1 and 2 — used for a native method's
// return slot, where there is no body to derive flow candidates from
// (spec.md §4.2, "For native methods, only steps 1 and 2 apply").
func (t *Tightener) tightenStepsOnly(slot ir.Slot) bool {
	_, _, changed := t.tightenBasic(slot)
	return changed
}

// tightenSlotWithExtra runs the full six-step procedure. extra supplies
// additional flow candidates beyond assignments(slot): a parameter's
// up-refs, or a return slot's returned-expression types plus its
// overriders' return types.
func (t *Tightener) tightenSlotWithExtra(slot ir.Slot, extra []ir.ReferenceType) bool {
	refT, done, changed := t.tightenBasic(slot)
	if done {
		return changed
	}

	_, isParam := slot.(*ir.Parameter)
	var candidates []ir.ReferenceType
	if !isParam {
		candidates = append(candidates, ir.Null)
	}
	for _, e := range t.rel.Assignments(slot) {
		et := e.Type()
		if !ir.IsReferenceType(et) {
			// Invariant breach: non-reference type in a reference slot's
			// candidate set. Graceful local abort (spec.md §7).
			return false
		}
		candidates = append(candidates, et.(ir.ReferenceType))
	}
	candidates = append(candidates, extra...)
	if len(candidates) == 0 {
		return false
	}

	g := t.oracle.GeneralizeTypes(candidates)
	r := t.oracle.StrongerType(refT, g)
	if r != refT {
		slot.SetDeclaredType(r)
		t.slotsTightened++
		t.log.Debug("slot tightened: flow-narrowed", "slot", t.labels.Slot(slot), "to", r.TypeName())
		return true
	}
	return false
}

func (t *Tightener) paramExtra(p *ir.Parameter) []ir.ReferenceType {
	var out []ir.ReferenceType
	for _, up := range t.rel.ParamUpRefs(p) {
		dt := up.DeclaredType()
		if ir.IsReferenceType(dt) {
			out = append(out, dt.(ir.ReferenceType))
		}
	}
	return out
}

func (t *Tightener) returnExtra(m *ir.Method) []ir.ReferenceType {
	var out []ir.ReferenceType
	for _, base := range t.rel.Overriders(m) {
		if base.Return == nil {
			continue
		}
		dt := base.Return.DeclaredType()
		if ir.IsReferenceType(dt) {
			out = append(out, dt.(ir.ReferenceType))
		}
	}
	return out
}

func (t *Tightener) tightenReturnSlot(m *ir.Method) bool {
	if m.Native {
		return t.tightenStepsOnly(m.Return)
	}
	extra := t.returnExtra(m)
	for _, e := range t.rel.Returns(m) {
		et, ok := e.Type().(ir.ReferenceType)
		if !ok {
			// Invariant breach: non-reference returned value. Graceful local
			// abort of the flow step (spec.md §7).
			return t.tightenStepsOnly(m.Return)
		}
		extra = append(extra, et)
	}
	return t.tightenSlotWithExtra(m.Return, extra)
}

func (t *Tightener) tightenStmtLocals(s ir.Statement) {
	switch n := s.(type) {
	case *ir.DeclStmt:
		if t.tightenSlotWithExtra(n.Var, nil) {
			t.changed = true
		}
	case *ir.TryStmt:
		for _, s := range n.Body {
			t.tightenStmtLocals(s)
		}
		for _, s := range n.CatchBody {
			t.tightenStmtLocals(s)
		}
	}
}

func (t *Tightener) visitExpr(e ir.Expression, set traverse.Setter) {
	switch n := e.(type) {
	case *ir.Cast:
		t.rewriteCast(n, set)
	case *ir.InstanceOf:
		t.rewriteInstanceOf(n, set)
	case *ir.MethodCall:
		t.rewriteMethodCall(n)
	}
}

// rewriteCast classifies and rewrites (T)e, in the order spec.md §4.2
// requires: trivially-true, then trivially-false, then narrowing.
func (t *Tightener) rewriteCast(c *ir.Cast, set traverse.Setter) {
	f, ok := c.Inner.Type().(ir.ReferenceType)
	if !ok {
		return
	}
	target := c.Target

	if t.oracle.CanTriviallyCast(f, target) {
		set(c.Inner)
		t.changed = true
		t.castsRemoved++
		return
	}
	if !t.oracle.IsInstantiated(target) || !t.oracle.CanTheoreticallyCast(f, target) {
		c.Target = ir.Null
		t.changed = true
		return
	}
	if isAbstractRef(target) {
		if dom, ok := t.rel.SingleConcreteImplementor(target); ok {
			c.Target = dom
			t.changed = true
		}
	}
}

// rewriteInstanceOf classifies and rewrites `e instanceof T`, per spec.md
// §4.2's four cases, in order.
func (t *Tightener) rewriteInstanceOf(n *ir.InstanceOf, set traverse.Setter) {
	f := n.Inner.Type()
	if ir.IsNull(f) {
		set(t.factory.BoolLiteral(false))
		t.changed = true
		t.instanceofNormalized++
		return
	}
	fRef, ok := f.(ir.ReferenceType)
	if !ok {
		return
	}
	target := n.Target

	if t.oracle.CanTriviallyCast(fRef, target) {
		set(t.factory.NotEqualNull(n.Inner))
		t.changed = true
		t.instanceofNormalized++
		return
	}
	if !t.oracle.IsInstantiated(target) || !t.oracle.CanTheoreticallyCast(fRef, target) {
		set(t.factory.BoolLiteral(false))
		t.changed = true
		t.instanceofNormalized++
		return
	}
	if isAbstractRef(target) {
		if dom, ok := t.rel.SingleConcreteImplementor(target); ok {
			n.Target = dom
			t.changed = true
			t.instanceofNormalized++
		}
	}
}

// rewriteMethodCall devirtualizes q.m(args) by dominator, then strips the
// polymorphic flag once dispatch is provably monomorphic.
func (t *Tightener) rewriteMethodCall(call *ir.MethodCall) {
	if call.Method == nil {
		return
	}
	if enclosing, ok := call.Method.Enclosing.(ir.ReferenceType); ok {
		if _, ok := t.rel.SingleConcreteImplementor(enclosing); ok {
			var concrete []*ir.Method
			for _, o := range t.rel.Overriders(call.Method) {
				if !o.Abstract {
					concrete = append(concrete, o)
				}
			}
			if len(concrete) == 1 {
				call.Method = concrete[0]
				t.changed = true
				t.callsDevirtualized++
			}
		}
	}

	if !call.Polymorphic {
		return
	}
	qualStatic, ok := expressionRefType(call.Instance)
	if !ok {
		return
	}
	stillPoly := false
	for _, o := range t.rel.Overriders(call.Method) {
		oc, ok := o.Enclosing.(ir.ReferenceType)
		if !ok {
			continue
		}
		if t.oracle.CanTheoreticallyCast(qualStatic, oc) {
			stillPoly = true
			break
		}
	}
	if !stillPoly {
		call.Polymorphic = false
		t.changed = true
		t.callsDevirtualized++
	}
}

func expressionRefType(e ir.Expression) (ir.ReferenceType, bool) {
	if e == nil {
		return nil, false
	}
	rt, ok := e.Type().(ir.ReferenceType)
	return rt, ok
}

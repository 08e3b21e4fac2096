// Package flow implements the Type-Flow Recorder, Tightener, and
// Dangling-Ref Fixer: the three traversals that do the actual work of
// narrowing declared types and rewriting casts, instance-of tests, and
// method calls. It is unexported — callers only ever see the driver in
// package typetighten.
package flow

import "github.com/irforge/typetighten/ir"

// Relations holds the four (plus one) global maps the Recorder builds in a
// single read-only pass and the Tightener/Fixer only ever read afterward.
// Every map is keyed by Go pointer identity, never by structural equality —
// two syntactically identical expressions are distinct flow values, and two
// distinct slots with the same name and type are unrelated.
type Relations struct {
	assignments  map[ir.Slot]map[ir.Expression]struct{}
	returns      map[*ir.Method]map[ir.Expression]struct{}
	overriders   map[*ir.Method]map[*ir.Method]struct{}
	implementors map[ir.ReferenceType]map[*ir.ClassType]struct{}
	paramUpRefs  map[*ir.Parameter]map[*ir.Parameter]struct{}
}

// NewRelations returns an empty Relations.
func NewRelations() *Relations {
	return &Relations{
		assignments:  make(map[ir.Slot]map[ir.Expression]struct{}),
		returns:      make(map[*ir.Method]map[ir.Expression]struct{}),
		overriders:   make(map[*ir.Method]map[*ir.Method]struct{}),
		implementors: make(map[ir.ReferenceType]map[*ir.ClassType]struct{}),
		paramUpRefs:  make(map[*ir.Parameter]map[*ir.Parameter]struct{}),
	}
}

// AddAssignment records that e flows into slot (assignments(slot) += e).
func (r *Relations) AddAssignment(slot ir.Slot, e ir.Expression) {
	if slot == nil || e == nil {
		return
	}
	set, ok := r.assignments[slot]
	if !ok {
		set = make(map[ir.Expression]struct{})
		r.assignments[slot] = set
	}
	set[e] = struct{}{}
}

// Assignments returns every expression ever recorded as flowing into slot.
func (r *Relations) Assignments(slot ir.Slot) []ir.Expression {
	set := r.assignments[slot]
	if len(set) == 0 {
		return nil
	}
	out := make([]ir.Expression, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// AddReturn records that e is returned from m.
func (r *Relations) AddReturn(m *ir.Method, e ir.Expression) {
	if m == nil || e == nil {
		return
	}
	set, ok := r.returns[m]
	if !ok {
		set = make(map[ir.Expression]struct{})
		r.returns[m] = set
	}
	set[e] = struct{}{}
}

// Returns returns every expression ever returned from m.
func (r *Relations) Returns(m *ir.Method) []ir.Expression {
	set := r.returns[m]
	if len(set) == 0 {
		return nil
	}
	out := make([]ir.Expression, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// AddOverrider records that overrider is a transitively-overriding method of
// base, declared in an instantiated enclosing type.
func (r *Relations) AddOverrider(base, overrider *ir.Method) {
	if base == nil || overrider == nil {
		return
	}
	set, ok := r.overriders[base]
	if !ok {
		set = make(map[*ir.Method]struct{})
		r.overriders[base] = set
	}
	set[overrider] = struct{}{}
}

// Overriders returns every recorded overrider of base.
func (r *Relations) Overriders(base *ir.Method) []*ir.Method {
	set := r.overriders[base]
	if len(set) == 0 {
		return nil
	}
	out := make([]*ir.Method, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out
}

// AddImplementor records that class is an instantiated concrete class
// assignable to t.
func (r *Relations) AddImplementor(t ir.ReferenceType, class *ir.ClassType) {
	if t == nil || class == nil {
		return
	}
	set, ok := r.implementors[t]
	if !ok {
		set = make(map[*ir.ClassType]struct{})
		r.implementors[t] = set
	}
	set[class] = struct{}{}
}

// Implementors returns every instantiated concrete class recorded as
// assignable to t.
func (r *Relations) Implementors(t ir.ReferenceType) []*ir.ClassType {
	set := r.implementors[t]
	if len(set) == 0 {
		return nil
	}
	out := make([]*ir.ClassType, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// SingleConcreteImplementor returns the unique concrete class assignable to
// t, if t has exactly one.
func (r *Relations) SingleConcreteImplementor(t ir.ReferenceType) (*ir.ClassType, bool) {
	set := r.implementors[t]
	if len(set) != 1 {
		return nil, false
	}
	for c := range set {
		return c, true
	}
	return nil, false
}

// AddParamUpRef records that up is the corresponding positional parameter of
// a method p's method overrides (or p's static-forwarder instance
// counterpart).
func (r *Relations) AddParamUpRef(p, up *ir.Parameter) {
	if p == nil || up == nil {
		return
	}
	set, ok := r.paramUpRefs[p]
	if !ok {
		set = make(map[*ir.Parameter]struct{})
		r.paramUpRefs[p] = set
	}
	set[up] = struct{}{}
}

// ParamUpRefs returns every parameter recorded as an up-ref of p.
func (r *Relations) ParamUpRefs(p *ir.Parameter) []*ir.Parameter {
	set := r.paramUpRefs[p]
	if len(set) == 0 {
		return nil
	}
	out := make([]*ir.Parameter, 0, len(set))
	for up := range set {
		out = append(out, up)
	}
	return out
}

// HasSelfUpRef reports whether p appears in its own up-ref set — the
// self-cycle spec.md §4.1 assigns to a static forwarder's "this" parameter.
func (r *Relations) HasSelfUpRef(p *ir.Parameter) bool {
	_, ok := r.paramUpRefs[p][p]
	return ok
}

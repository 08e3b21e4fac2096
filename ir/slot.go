package ir

// Slot is any location that carries a declared type and anchors type-flow
// reasoning: a field, a local, a parameter, or a method's return slot
// (spec.md §3, "Variable slot"). Relations in internal/flow key on Slot by
// Go pointer identity — two distinct slots are never equal even if they
// happen to share a declared type and name.
type Slot interface {
	// DeclaredType returns the slot's current declared type.
	DeclaredType() Type
	// SetDeclaredType narrows (or, at construction time, sets) the slot's
	// declared type. Only the Tightener calls this after construction.
	SetDeclaredType(Type)
	// SlotName returns a display name, used only for logging.
	SlotName() string
}

// Field is an instance or static field. Init, when non-nil, is a static
// field's literal initializer — the only case the Recorder treats a field
// as contributing to its own assignments relation (spec.md §4.1) without
// walking a method body.
type Field struct {
	Name      string
	Type_     Type
	Static    bool
	Volatile  bool // volatile fields are never tightened (spec.md §4.2)
	Enclosing *ClassType
	Init      Expression
}

func (f *Field) DeclaredType() Type         { return f.Type_ }
func (f *Field) SetDeclaredType(t Type)     { f.Type_ = t }
func (f *Field) SlotName() string           { return f.Name }

// Local is a local variable.
type Local struct {
	Name  string
	Type_ Type
}

func (l *Local) DeclaredType() Type     { return l.Type_ }
func (l *Local) SetDeclaredType(t Type) { l.Type_ = t }
func (l *Local) SlotName() string       { return l.Name }

// Parameter is a method parameter. IsThis marks the synthetic receiver
// parameter of a static forwarder (spec.md §3, §4.1).
type Parameter struct {
	Name   string
	Type_  Type
	IsThis bool
}

func (p *Parameter) DeclaredType() Type     { return p.Type_ }
func (p *Parameter) SetDeclaredType(t Type) { p.Type_ = t }
func (p *Parameter) SlotName() string       { return p.Name }

// ReturnSlot is a method's return-type way-point.
type ReturnSlot struct {
	Type_  Type
	Method *Method
}

func (r *ReturnSlot) DeclaredType() Type     { return r.Type_ }
func (r *ReturnSlot) SetDeclaredType(t Type) { r.Type_ = t }
func (r *ReturnSlot) SlotName() string {
	if r.Method != nil {
		return r.Method.Name + "()"
	}
	return "<return>"
}

// Variable is the subset of Slot a VarRef may target: a Local or a
// Parameter (fields are reached through FieldRef, return slots only
// through ReturnStmt).
type Variable interface {
	Slot
	variable()
}

func (*Local) variable()     {}
func (*Parameter) variable() {}

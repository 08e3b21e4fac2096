// Package label produces stable, readable debug names for IR nodes. Nothing
// in this package affects pass semantics — it exists so slog lines name a
// slot or method by something a human can read instead of a pointer value.
package label

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/irforge/typetighten/ir"
)

// Cache memoizes slot and method display names keyed by pointer identity, so
// a hot fixed-point loop doesn't repeatedly rebuild the same string.
type Cache struct {
	slots   *xsync.Map[ir.Slot, string]
	methods *xsync.Map[*ir.Method, string]
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		slots:   xsync.NewMap[ir.Slot, string](),
		methods: xsync.NewMap[*ir.Method, string](),
	}
}

// Slot returns a display name for s, of the form "kind(name)".
func (c *Cache) Slot(s ir.Slot) string {
	if s == nil {
		return "<nil-slot>"
	}
	if name, ok := c.slots.Load(s); ok {
		return name
	}
	name := fmt.Sprintf("%s(%s)", slotKind(s), s.SlotName())
	c.slots.Store(s, name)
	return name
}

// Method returns a display name for m, of the form "Enclosing.Name".
func (c *Cache) Method(m *ir.Method) string {
	if m == nil {
		return "<nil-method>"
	}
	if name, ok := c.methods.Load(m); ok {
		return name
	}
	enclosing := "<unbound>"
	if m.Enclosing != nil {
		enclosing = m.Enclosing.TypeName()
	}
	name := fmt.Sprintf("%s.%s", enclosing, m.Name)
	c.methods.Store(m, name)
	return name
}

func slotKind(s ir.Slot) string {
	switch s.(type) {
	case *ir.Field:
		return "field"
	case *ir.Local:
		return "local"
	case *ir.Parameter:
		return "param"
	case *ir.ReturnSlot:
		return "return"
	default:
		return "slot"
	}
}

// Package pin tracks slots the Tightener must never narrow: the source
// pass's "untightenable slot" concept, kept here as a separate set rather
// than the self-assignment trick the original pass used (the alternative
// the source's own design notes call out as cleaner).
package pin

import "github.com/irforge/typetighten/ir"

// Reason names why a slot was pinned, for logging only.
type Reason string

const (
	// ForeignWrite marks a slot written through an opaque foreign/native
	// boundary: the value stored there is invisible to the Recorder.
	ForeignWrite Reason = "foreign-write"
	// ForeignParam marks a parameter of a method referenced from a foreign
	// boundary (e.g. registered as a callback).
	ForeignParam Reason = "foreign-param-ref"
	// CaughtException marks a catch-clause parameter: a thrown value
	// escapes local control flow entirely.
	CaughtException Reason = "caught-exception"
	// StaticForwarderThis marks the synthetic receiver parameter of a
	// static forwarder, which must track its instance counterpart's type.
	StaticForwarderThis Reason = "static-forwarder-this"
)

// Registry is the set of pinned slots, each with the reason it was pinned.
type Registry struct {
	reasons map[ir.Slot]Reason
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reasons: make(map[ir.Slot]Reason)}
}

// Pin marks s as untightenable. Pinning the same slot twice keeps the first
// reason recorded.
func (r *Registry) Pin(s ir.Slot, reason Reason) {
	if s == nil {
		return
	}
	if _, already := r.reasons[s]; already {
		return
	}
	r.reasons[s] = reason
}

// IsPinned reports whether s has been pinned, and why.
func (r *Registry) IsPinned(s ir.Slot) (Reason, bool) {
	reason, ok := r.reasons[s]
	return reason, ok
}

// Len returns the number of pinned slots, for summary logging.
func (r *Registry) Len() int { return len(r.reasons) }

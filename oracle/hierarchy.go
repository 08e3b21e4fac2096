package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/irforge/typetighten/ir"
)

// Options configures Hierarchy construction. It carries only a logger, for
// observability; the pass's own options live in typetighten.Options.
type Options struct {
	// Logger receives one summary line after construction. Defaults to
	// slog.Default() if nil.
	Logger *slog.Logger
}

type typeInfo struct {
	ancestors map[ir.ReferenceType]struct{} // self + every supertype, transitively
	ownBit    uint64
}

// Hierarchy is the concrete, from-the-linked-program Oracle implementation.
// It precomputes, once, every ancestor closure and its inverse (descendant
// sets) so that every query the pass makes afterward is a map lookup plus,
// at worst, one fingerprint-gated set walk.
type Hierarchy struct {
	info map[ir.ReferenceType]*typeInfo

	// descendants(t) is every class whose ancestor closure contains t —
	// i.e. every class assignable to t. descendantFprint is the OR of
	// those classes' own identity bits, for fast pairwise-disjoint checks.
	descendants      map[ir.ReferenceType][]*ir.ClassType
	descendantFprint map[ir.ReferenceType]uint64

	overridesCache map[*ir.Method][]*ir.Method
}

// NewHierarchy builds a Hierarchy from program. Class and interface ancestor
// closures are independent, read-only computations, so they're fanned out
// across goroutines with errgroup — each goroutine owns a disjoint output
// slot, so no locking is needed; only the serial inversion step that follows
// mutates shared maps.
func NewHierarchy(program *ir.Program, opts Options) (*Hierarchy, error) {
	if program == nil {
		return nil, fmt.Errorf("oracle: nil program")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	classResults := make([]*typeInfo, len(program.Classes))
	ifaceResults := make([]*typeInfo, len(program.Interfaces))

	g, _ := errgroup.WithContext(context.Background())
	for i, c := range program.Classes {
		i, c := i, c
		g.Go(func() error {
			if c == nil {
				return fmt.Errorf("oracle: nil class at index %d", i)
			}
			classResults[i] = classAncestorInfo(c)
			return nil
		})
	}
	for i, iface := range program.Interfaces {
		i, iface := i, iface
		g.Go(func() error {
			if iface == nil {
				return fmt.Errorf("oracle: nil interface at index %d", i)
			}
			ifaceResults[i] = interfaceAncestorInfo(iface)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &Hierarchy{
		info:             make(map[ir.ReferenceType]*typeInfo, len(program.Classes)+len(program.Interfaces)),
		descendants:      make(map[ir.ReferenceType][]*ir.ClassType),
		descendantFprint: make(map[ir.ReferenceType]uint64),
		overridesCache:   make(map[*ir.Method][]*ir.Method),
	}
	for i, c := range program.Classes {
		h.info[c] = classResults[i]
	}
	for i, iface := range program.Interfaces {
		h.info[iface] = ifaceResults[i]
	}

	for _, c := range program.Classes {
		info := h.info[c]
		for ancestor := range info.ancestors {
			h.descendants[ancestor] = append(h.descendants[ancestor], c)
		}
	}
	for ancestor, classes := range h.descendants {
		set := make(map[ir.ReferenceType]struct{}, len(classes))
		for _, c := range classes {
			set[c] = struct{}{}
		}
		h.descendantFprint[ancestor] = fingerprint(set)
	}

	logger.Debug("oracle hierarchy built",
		"classes", len(program.Classes),
		"interfaces", len(program.Interfaces))
	return h, nil
}

func classAncestorInfo(c *ir.ClassType) *typeInfo {
	ancestors := make(map[ir.ReferenceType]struct{})
	for cur := c; cur != nil; cur = cur.Super {
		ancestors[cur] = struct{}{}
		for _, iface := range cur.Interfaces {
			addInterfaceClosure(ancestors, iface)
		}
	}
	return &typeInfo{ancestors: ancestors, ownBit: identityBit(c)}
}

func interfaceAncestorInfo(i *ir.InterfaceType) *typeInfo {
	ancestors := make(map[ir.ReferenceType]struct{})
	addInterfaceClosure(ancestors, i)
	return &typeInfo{ancestors: ancestors, ownBit: identityBit(i)}
}

func addInterfaceClosure(set map[ir.ReferenceType]struct{}, i *ir.InterfaceType) {
	if i == nil {
		return
	}
	if _, seen := set[i]; seen {
		return
	}
	set[i] = struct{}{}
	for _, parent := range i.Extends {
		addInterfaceClosure(set, parent)
	}
}

// ancestorsOf returns t's own ancestor closure (including itself), or nil
// for the null type, which has none of its own — it is handled specially by
// every query below.
func (h *Hierarchy) ancestorsOf(t ir.ReferenceType) map[ir.ReferenceType]struct{} {
	info, ok := h.info[t]
	if !ok {
		return nil
	}
	return info.ancestors
}

// isAncestorOrSelf reports whether every instance of b is statically an a —
// i.e. a is in b's ancestor closure (a dominates b, or a == b).
func (h *Hierarchy) isAncestorOrSelf(a, b ir.ReferenceType) bool {
	if ir.IsNull(b) {
		return true // the null type is a subtype of every reference type
	}
	if ir.IsNull(a) {
		return false
	}
	if a == b {
		return true
	}
	_, ok := h.ancestorsOf(b)[a]
	return ok
}

func (h *Hierarchy) IsInstantiated(t ir.ReferenceType) bool {
	if ir.IsNull(t) {
		return false
	}
	if class, ok := t.(*ir.ClassType); ok && class.Instantiated {
		return true
	}
	for _, c := range h.descendants[t] {
		if c.Instantiated {
			return true
		}
	}
	return false
}

func (h *Hierarchy) CanTriviallyCast(f, t ir.ReferenceType) bool {
	if ir.IsNull(f) {
		return true // null is assignable to every reference type
	}
	return h.isAncestorOrSelf(t, f)
}

func (h *Hierarchy) CanTheoreticallyCast(f, t ir.ReferenceType) bool {
	if ir.IsNull(f) || ir.IsNull(t) {
		return true // null can always theoretically flow into any slot
	}
	if h.isAncestorOrSelf(f, t) || h.isAncestorOrSelf(t, f) {
		return true
	}
	fMask, tMask := h.descendantFprint[f], h.descendantFprint[t]
	if !maybeIntersects(fMask, tMask) {
		return false
	}
	fDesc, tDesc := h.descendants[f], h.descendants[t]
	tSet := make(map[*ir.ClassType]struct{}, len(tDesc))
	for _, c := range tDesc {
		tSet[c] = struct{}{}
	}
	for _, c := range fDesc {
		if _, ok := tSet[c]; ok {
			return true
		}
	}
	return false
}

func (h *Hierarchy) AllOverrides(m *ir.Method) []*ir.Method {
	if m == nil {
		return nil
	}
	if cached, ok := h.overridesCache[m]; ok {
		return cached
	}
	seen := make(map[*ir.Method]struct{})
	var out []*ir.Method
	var visit func(*ir.Method)
	visit = func(cur *ir.Method) {
		for _, base := range cur.Overrides {
			if base == nil {
				continue
			}
			if _, ok := seen[base]; ok {
				continue
			}
			seen[base] = struct{}{}
			out = append(out, base)
			visit(base)
		}
	}
	visit(m)
	h.overridesCache[m] = out
	return out
}

func (h *Hierarchy) GeneralizeTypes(types []ir.ReferenceType) ir.ReferenceType {
	var result ir.ReferenceType = ir.Null
	for _, t := range types {
		result = h.lub(result, t)
	}
	return result
}

func (h *Hierarchy) lub(a, b ir.ReferenceType) ir.ReferenceType {
	if ir.IsNull(a) {
		return b
	}
	if ir.IsNull(b) {
		return a
	}
	if a == b {
		return a
	}
	if h.isAncestorOrSelf(a, b) {
		return a
	}
	if h.isAncestorOrSelf(b, a) {
		return b
	}
	aAncestors, bAncestors := h.ancestorsOf(a), h.ancestorsOf(b)
	var common []ir.ReferenceType
	for t := range aAncestors {
		if _, ok := bAncestors[t]; ok {
			common = append(common, t)
		}
	}
	if len(common) == 0 {
		// Disjoint hierarchies with no modeled common root: fall back to a
		// (spec.md doesn't define this case; a is an arbitrary but
		// deterministic choice consistent with strongerType's own
		// "ties favor a" rule).
		return a
	}
	// Most specific common supertype(s): elements of common that are not a
	// strict ancestor of any other element of common.
	var minimal []ir.ReferenceType
	for _, candidate := range common {
		dominated := false
		for _, other := range common {
			if other != candidate && h.isAncestorOrSelf(candidate, other) {
				dominated = true
				break
			}
		}
		if !dominated {
			minimal = append(minimal, candidate)
		}
	}
	if len(minimal) == 1 {
		return minimal[0]
	}
	// Diamond: more than one incomparable minimal common supertype. Prefer
	// a class over an interface, then the lexicographically smallest name,
	// for a deterministic (if arbitrary) choice.
	sort.Slice(minimal, func(i, j int) bool {
		_, iClass := minimal[i].(*ir.ClassType)
		_, jClass := minimal[j].(*ir.ClassType)
		if iClass != jClass {
			return iClass
		}
		return minimal[i].TypeName() < minimal[j].TypeName()
	})
	return minimal[0]
}

func (h *Hierarchy) StrongerType(a, b ir.ReferenceType) ir.ReferenceType {
	if a == b {
		return a
	}
	if h.isAncestorOrSelf(b, a) {
		// a is a subtype-or-self of b: a is the stronger (more specific) type.
		return a
	}
	if h.isAncestorOrSelf(a, b) {
		return b
	}
	return a
}

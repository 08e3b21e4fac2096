package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/irforge/typetighten/ir"
	"github.com/irforge/typetighten/oracle"
	"github.com/irforge/typetighten/typetighten"
)

// Fixture wraps a hand-built *ir.Program together with a name→slot registry,
// so a scenario test can label the slots it cares about once, at
// construction time, and refer to them by name afterward instead of holding
// onto every intermediate variable.
type Fixture struct {
	Program *ir.Program
	slots   map[string]ir.Slot
}

// NewFixture returns an empty Fixture wrapping program.
func NewFixture(program *ir.Program) *Fixture {
	return &Fixture{Program: program, slots: make(map[string]ir.Slot)}
}

// Label records s under name and returns s unchanged, so construction reads
// as `f.Label("s", &ir.Local{...})`.
func (f *Fixture) Label(name string, s ir.Slot) ir.Slot {
	f.slots[name] = s
	return s
}

// LoadExpected reads an ExpectedOutcome from a YAML file under testdata.
func LoadExpected(t *testing.T, path string) *ExpectedOutcome {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", path))
	require.NoError(t, err)
	var out ExpectedOutcome
	require.NoError(t, yaml.Unmarshal(data, &out))
	return &out
}

// Run executes typetighten.Run over f.Program and asserts the result
// against expected: the changed flag, every labeled slot's declared type,
// and any stats counters expected pins down.
func (f *Fixture) Run(t *testing.T, o oracle.Oracle, expected *ExpectedOutcome) {
	t.Helper()
	changed, stats := typetighten.Run(f.Program, o, typetighten.Options{})
	require.Equal(t, expected.Changed, changed, "changed flag")

	for name, wantType := range expected.Slots {
		slot, ok := f.slots[name]
		require.True(t, ok, "fixture has no slot labeled %q", name)
		require.Equal(t, wantType, typeName(slot.DeclaredType()), "slot %q declared type", name)
	}

	if expected.Stats.SlotsTightened != nil {
		require.Equal(t, *expected.Stats.SlotsTightened, stats.SlotsTightened, "slots_tightened")
	}
	if expected.Stats.CastsRemoved != nil {
		require.Equal(t, *expected.Stats.CastsRemoved, stats.CastsRemoved, "casts_removed")
	}
	if expected.Stats.InstanceofNormalized != nil {
		require.Equal(t, *expected.Stats.InstanceofNormalized, stats.InstanceofNormalized, "instanceof_normalized")
	}
	if expected.Stats.CallsDevirtualized != nil {
		require.Equal(t, *expected.Stats.CallsDevirtualized, stats.CallsDevirtualized, "calls_devirtualized")
	}
}

func typeName(t ir.Type) string {
	if t == nil {
		return "<nil>"
	}
	if ir.IsNull(t) {
		return "null"
	}
	if rt, ok := t.(ir.ReferenceType); ok {
		return rt.TypeName()
	}
	if p, ok := t.(*ir.Primitive); ok {
		return p.Name
	}
	return "<unknown>"
}

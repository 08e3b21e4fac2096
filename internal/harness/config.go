// Package harness provides the YAML-fixture scenario harness used to
// validate the type-tightening pass end to end: a Go test builds a small
// *ir.Program fixture, runs typetighten.Run over it, and checks the result
// against an expected-outcome file describing what should have changed.
package harness

// ExpectedOutcome is the YAML shape of a scenario's expected-outcome file:
// spec.md §8's scenario table and boundary properties, one file per case.
type ExpectedOutcome struct {
	// Changed is what typetighten.Run's bool return value should be.
	Changed bool `yaml:"changed"`

	// Slots maps a fixture-assigned label (see Fixture.Label) to the
	// expected declared type name after the pass runs. "null" means the
	// slot should have tightened to the null type.
	Slots map[string]string `yaml:"slots"`

	// Stats optionally pins exact counts from typetighten.Stats. Any zero
	// field is left unchecked, not asserted to be zero — use Changed:false
	// scenarios to assert "nothing happened".
	Stats StatsExpectation `yaml:"stats,omitempty"`
}

// StatsExpectation mirrors typetighten.Stats with every field optional.
type StatsExpectation struct {
	SlotsTightened       *int `yaml:"slots_tightened,omitempty"`
	CastsRemoved         *int `yaml:"casts_removed,omitempty"`
	InstanceofNormalized *int `yaml:"instanceof_normalized,omitempty"`
	CallsDevirtualized   *int `yaml:"calls_devirtualized,omitempty"`
}

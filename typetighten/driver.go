// Package typetighten is the public entry point for the type-tightening
// pass: given a fully-linked program IR and a Type Oracle, it narrows
// declared types and simplifies casts, instance-of tests, and method calls
// to a fixed point.
package typetighten

import (
	"log/slog"

	"github.com/irforge/typetighten/internal/flow"
	"github.com/irforge/typetighten/internal/pin"
	"github.com/irforge/typetighten/ir"
	"github.com/irforge/typetighten/oracle"
)

// Stats summarizes what a Run call changed. It is an observability
// supplement, not part of the pass's correctness contract (spec.md §6's
// entry point returns only bool) — a whole-program optimizer's caller
// always wants to know what a pass actually did, for reporting or
// bisection, the same way the surrounding analyzer reports a usage count.
type Stats struct {
	Rounds               int
	SlotsTightened       int
	CastsRemoved         int
	InstanceofNormalized int
	CallsDevirtualized   int
}

// Options configures a Run. The zero value is a valid, silent configuration.
type Options struct {
	// Logger receives one line per fixed-point round. Defaults to
	// slog.Default() if nil.
	Logger *slog.Logger
	// ExcludedClasses are code-generation types the host has enumerated as
	// off-limits for tightening (spec.md §4.2).
	ExcludedClasses map[*ir.ClassType]bool
}

// Run executes the pass against program, consulting o for hierarchy and
// instantiation facts. It returns whether the IR was modified, plus Stats
// describing what changed. program is mutated in place; its declared types
// may narrow and its cast/instance-of/call expressions may be rewritten.
func Run(program *ir.Program, o oracle.Oracle, opts Options) (bool, Stats) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rel := flow.NewRelations()
	pins := pin.NewRegistry()

	flow.NewRecorder(program, o, rel, pins, logger).Record()
	logger.Debug("type-flow recorded", "pinned_slots", pins.Len())

	var stats Stats
	changedOverall := false
	for {
		tightener := flow.NewTightener(program, o, rel, pins, opts.ExcludedClasses, logger)
		roundChanged := tightener.Tighten()
		slots, casts, instanceofs, calls := tightener.Counts()
		stats.Rounds++
		stats.SlotsTightened += slots
		stats.CastsRemoved += casts
		stats.InstanceofNormalized += instanceofs
		stats.CallsDevirtualized += calls

		logger.Debug("tightener round complete", "round", stats.Rounds, "changed", roundChanged)
		if !roundChanged {
			break
		}
		changedOverall = true
		flow.NewFixer(program).Fix()
	}

	logger.Info("type tightening complete",
		"rounds", stats.Rounds,
		"slots_tightened", stats.SlotsTightened,
		"casts_removed", stats.CastsRemoved,
		"instanceof_normalized", stats.InstanceofNormalized,
		"calls_devirtualized", stats.CallsDevirtualized)
	return changedOverall, stats
}

// Package stats holds the small instrumentation primitives
// population.Population embeds directly as struct fields: Cycles,
// Forked, Died, and Culled are Counters; SizeAvg is a MovingAvg over
// the population's size after each RunCycle. Nothing here knows about
// organisms or cycles specifically — the population package is the
// only caller that gives these numbers meaning.
package stats

import "sync/atomic"

// CumulativeInt64 is anything that accumulates a running integer
// series and can report its current total. Counter is the only
// implementation; the interface exists so a caller that only needs to
// read a total (the CLI's periodic report line, say) doesn't have to
// name the concrete type.
type CumulativeInt64 interface {
	Add(v int64)
	Value() int64
	Valid() bool
}

// Counter is a monotonic running total: Population.Cycles counts
// RunCycle invocations, Forked/Died/Culled count how many organisms
// were forked, removed as suicides, or randomly culled across the
// population's lifetime. Safe for concurrent use through its methods,
// even though the single-threaded population driver never needs that
// safety itself.
type Counter struct {
	V int64
}

// Add adds v to the running total.
func (c *Counter) Add(v int64) { atomic.AddInt64(&c.V, v) }

// Value returns the current total.
func (c *Counter) Value() int64 { return atomic.LoadInt64(&c.V) }

// Valid is always true: a Counter has a meaningful value (zero) from
// construction, unlike MovingAvg, which is only meaningful once it
// holds at least one unpruned sample.
func (c *Counter) Valid() bool { return true }

// Rate expresses the counter's running total as occurrences per cycle,
// given how many cycles have elapsed so far (Population.Cycles.Value()
// at the time of the call). Population's per-cycle log line and
// cmd/alifectl's periodic report use this to turn the Forked total
// into a figure comparable across runs that have executed different
// numbers of cycles; with
// cycles <= 0 there's no rate to report yet, so it returns 0.
func (c *Counter) Rate(cycles int64) float64 {
	if cycles <= 0 {
		return 0
	}
	return float64(c.Value()) / float64(cycles)
}

// Package population implements the organism container: stable-ID
// lookup, the per-cycle scheduling driver, population-cap culling, and
// exact-state deduplication.
//
// The package is single-threaded and cooperative by design: a cycle
// touches the grid and every live organism serially, there is no
// goroutine spawned per organism and no lock anywhere in this package.
// "Cycle" here is a logical event driven by whatever external loop
// paces the simulation, not an OS-level scheduling quantum.
package population

import "github.com/corvid-labs/alifevm/vm"

// OrganismContext wraps one OrganismState with the scheduling
// metadata the population driver needs: a stable ID, a delay counter,
// and two optional potentials that bound forking and lifetime. A nil
// potential means unlimited.
type OrganismContext struct {
	ID             uint64
	DelayCycles    byte
	ChildPotential *byte
	LifePotential  *byte
	State          *vm.OrganismState
}

func copyBytePtr(v *byte) *byte {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

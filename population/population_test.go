package population

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/alifevm/grid"
	"github.com/corvid-labs/alifevm/vm"
)

func newTestGrid(t *testing.T, w, h int, fill byte) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h, fill, 0, rand.NewSource(1))
	require.NoError(t, err)
	return g
}

func bytePtr(v byte) *byte { return &v }
func intPtr(v int) *int    { return &v }

func writeProgram(g *grid.Grid, origin grid.Point, ops ...vm.Opcode) {
	for i, op := range ops {
		g.RawSet(grid.Point{origin.X + i, origin.Y}, byte(op))
	}
}

func TestExplicitHaltRemovesOrganism(t *testing.T) {
	// Scenario 2: IncA IncA Halt over Nops, 4 cycles -> empty population
	// by the third cycle, grid unchanged.
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpIncA, vm.OpIncA, vm.OpHalt)
	before := g.ViewAll()

	p := New(1)
	id := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	for i := 0; i < 4; i++ {
		p.RunCycle(g)
	}

	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Alive(id))
	assert.Equal(t, before, g.ViewAll())
}

func TestFlagForkCapScenario(t *testing.T) {
	// Scenario 3: max_children=1, FlagFork at (0,0), run 2 cycles ->
	// exactly 2 organisms, parent's child_potential exhausted, child's
	// flag=true, parent's flag=false.
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(1)
	p.MaxChildren = bytePtr(1)
	mo := 10
	p.MaxOrganisms = &mo

	parentID := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	p.RunCycle(g)
	require.Equal(t, 2, p.Len())

	parent, ok := p.Get(parentID)
	require.True(t, ok)
	assert.Equal(t, byte(0), *parent.ChildPotential)
	assert.False(t, parent.State.Flag)

	var childID uint64
	for _, ctx := range p.Iter() {
		if ctx.ID != parentID {
			childID = ctx.ID
		}
	}
	child, ok := p.Get(childID)
	require.True(t, ok)
	assert.True(t, child.State.Flag)

	p.RunCycle(g)
	assert.Equal(t, 2, p.Len(), "both organisms run Nop at (1,0) on the second cycle, so no further fork happens")
}

func TestExhaustedChildPotentialDiscardsFork(t *testing.T) {
	// Isolates the "if it was zero, discard the child" branch of the
	// fork-response rule directly, without depending on an organism
	// happening to revisit FlagFork on a particular later cycle.
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(1)
	id := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))
	ctx, _ := p.Get(id)
	ctx.ChildPotential = bytePtr(0)

	p.RunCycle(g)

	assert.Equal(t, 1, p.Len(), "a fork attempted with child_potential already zero must be discarded")
	assert.Equal(t, byte(0), *ctx.ChildPotential)
}

func TestPopulationCapCulling(t *testing.T) {
	// Scenario 4: max_organisms=3, five organisms all forking at (0,0),
	// run one cycle -> exactly 3 survive.
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(1)
	mo := 3
	p.MaxOrganisms = &mo

	for i := 0; i < 5; i++ {
		p.Insert(vm.NewOrganismState(grid.Point{0, 0}))
	}

	p.RunCycle(g)
	assert.Equal(t, 3, p.Len(), "deaths_required (7) exceeds the live count (5): all 5 parents get culled and only 3 of the 5 buffered children fit")
}

func TestPopulationCapNeverExceededAcrossManyCycles(t *testing.T) {
	const w, h = 20, 20
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(2)
	mo := 5
	p.MaxOrganisms = &mo
	p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	for i := 0; i < 20; i++ {
		p.RunCycle(g)
		assert.LessOrEqual(t, p.Len(), 5)
	}
}

func TestDedupCollapsesIdenticalStates(t *testing.T) {
	// Scenario 6: two organisms with identical state and identical
	// delay_cycles dedup down to one.
	p := New(1)

	p.Insert(vm.NewOrganismState(grid.Point{3, 3}))
	p.Insert(vm.NewOrganismState(grid.Point{3, 3}))
	require.Equal(t, 2, p.Len())

	p.Dedup()
	assert.Equal(t, 1, p.Len())
}

func TestDedupIsIdempotent(t *testing.T) {
	p := New(1)
	p.Insert(vm.NewOrganismState(grid.Point{1, 1}))
	p.Insert(vm.NewOrganismState(grid.Point{1, 1}))
	p.Insert(vm.NewOrganismState(grid.Point{2, 2}))

	p.Dedup()
	after1 := p.Len()
	p.Dedup()
	assert.Equal(t, after1, p.Len())
}

func TestDedupIgnoresIDAndPotentials(t *testing.T) {
	p := New(1)
	p.MaxChildren = bytePtr(5)
	p.Lifetime = bytePtr(9)

	p.Insert(vm.NewOrganismState(grid.Point{4, 4}))
	id2 := p.Insert(vm.NewOrganismState(grid.Point{4, 4}))
	ctx2, _ := p.Get(id2)
	ctx2.ChildPotential = bytePtr(1)
	ctx2.LifePotential = nil

	p.Dedup()
	assert.Equal(t, 1, p.Len(), "dedup must ignore id/child_potential/life_potential differences")
}

func TestIDsAreUniqueAndNeverReused(t *testing.T) {
	p := New(1)
	seen := make(map[uint64]bool)

	id1 := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))
	seen[id1] = true
	p.Remove(id1)

	id2 := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))
	assert.False(t, seen[id2], "a removed id must never be reassigned")
}

func TestDelayCyclesSkipsExecutionForExactlyNCycles(t *testing.T) {
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpHalt)

	p := New(1)
	id := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))
	ctx, _ := p.Get(id)
	ctx.DelayCycles = 3

	for i := 0; i < 3; i++ {
		p.RunCycle(g)
		assert.True(t, p.Alive(id), "organism must not execute while delay_cycles > 0")
	}

	p.RunCycle(g) // delay now 0: executes Halt and dies
	assert.False(t, p.Alive(id))
}

func TestLifetimeExpiryKillsOrganism(t *testing.T) {
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))

	p := New(1)
	p.Lifetime = bytePtr(2)
	id := p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	p.RunCycle(g)
	require.True(t, p.Alive(id))
	p.RunCycle(g)
	require.True(t, p.Alive(id))
	p.RunCycle(g)
	assert.False(t, p.Alive(id), "life_potential reaching zero must suicide the organism")
}

func TestUnlimitedChildPotentialNeverBlocksFork(t *testing.T) {
	// A width-2 wraparound loop brings every organism back onto
	// FlagFork every other cycle; with no MaxChildren set, nothing
	// should cap the resulting growth.
	const w, h = 2, 1
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(1)
	p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	p.RunCycle(g)
	afterOne := p.Len()
	require.Equal(t, 2, afterOne)

	p.RunCycle(g)
	p.RunCycle(g)
	assert.Greater(t, p.Len(), afterOne, "unlimited child_potential must allow repeated forking")
}

func TestRemoveUnknownIDPanics(t *testing.T) {
	p := New(1)
	assert.Panics(t, func() { p.Remove(999) })
}

func TestChildrenDoNotExecuteTheCycleTheyAreBornIn(t *testing.T) {
	// A newborn child should appear in the population immediately after
	// the cycle that forks it, but it must not have executed anything
	// itself yet — that's covered by RunCycle only ever ranging over
	// the pre-cycle snapshot. Both organisms end the cycle at (1,0): the
	// parent advanced once after forking, the child was advanced once on
	// birth, and a child that also ran the Nop there would be at (2,0).
	const w, h = 10, 10
	g := newTestGrid(t, w, h, byte(vm.OpNop))
	writeProgram(g, grid.Point{0, 0}, vm.OpFlagFork)

	p := New(1)
	p.Insert(vm.NewOrganismState(grid.Point{0, 0}))

	p.RunCycle(g)
	require.Equal(t, 2, p.Len())
	for _, ctx := range p.Iter() {
		assert.Equal(t, grid.Point{1, 0}, ctx.State.IP)
	}
}

package population

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/corvid-labs/alifevm/grid"
	"github.com/corvid-labs/alifevm/log"
	"github.com/corvid-labs/alifevm/stats"
	"github.com/corvid-labs/alifevm/vm"
)

// Population holds every live organism, keyed by a stable ID that is
// never reused, and drives one scheduling cycle at a time.
//
// Lookup is O(1) via an id -> slot index map; iteration walks the
// backing slot slice directly. Two config defaults (MaxChildren,
// Lifetime) are copied onto each newly-inserted context; MaxOrganisms
// bounds the population after every cycle via random culling, driven
// by a cull RNG kept deliberately separate from any grid's own stream
// so that cull outcomes don't perturb write-fault reproducibility.
type Population struct {
	nextID uint64
	slots  []*OrganismContext
	index  map[uint64]int

	cullRand *rand.Rand

	MaxChildren  *byte
	Lifetime     *byte
	MaxOrganisms *int

	Log log.Logger

	Cycles  stats.Counter
	Forked  stats.Counter
	Died    stats.Counter
	Culled  stats.Counter
	SizeAvg stats.MovingAvg
}

// New returns an empty population whose cull RNG is seeded
// independently from cullSeed. Pass a seed derived from the same
// master seed as the grid's, via a distinct expansion step, to keep
// the two streams decorrelated yet reproducible.
func New(cullSeed int64) *Population {
	return &Population{
		index:   make(map[uint64]int),
		cullRand: rand.New(rand.NewSource(cullSeed)),
		Log:     log.Null(),
		SizeAvg: stats.MovingAvg{Duration: time.Minute},
	}
}

func (p *Population) Len() int { return len(p.slots) }

// Alive reports whether id currently names a live organism.
func (p *Population) Alive(id uint64) bool {
	_, ok := p.index[id]
	return ok
}

// Get returns the context for id. There is no separate get_mut: the
// returned pointer is already the live context, so mutating through it
// is how callers apply changes — Go has no borrow checker forcing a
// read/write split here.
func (p *Population) Get(id uint64) (*OrganismContext, bool) {
	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.slots[idx], true
}

// Iter returns the current slot order. Callers must not mutate the
// population while ranging over the result; it aliases the live slice.
func (p *Population) Iter() []*OrganismContext { return p.slots }

// Insert assigns state a fresh, never-before-used ID and adds it to
// the population with fresh potentials copied from MaxChildren and
// Lifetime. Returns the new ID.
func (p *Population) Insert(state *vm.OrganismState) uint64 {
	id := p.nextID
	p.nextID++

	ctx := &OrganismContext{
		ID:             id,
		State:          state,
		ChildPotential: copyBytePtr(p.MaxChildren),
		LifePotential:  copyBytePtr(p.Lifetime),
	}
	p.index[id] = len(p.slots)
	p.slots = append(p.slots, ctx)
	return id
}

// Remove deletes the organism named by id via swap-with-last. Removing
// an ID that isn't currently live is a programming error, not a
// runtime condition a caller can recover from, so it panics.
func (p *Population) Remove(id uint64) {
	idx, ok := p.index[id]
	if !ok {
		panic(fmt.Sprintf("population: remove of unknown id %d", id))
	}
	last := len(p.slots) - 1
	p.slots[idx] = p.slots[last]
	p.index[p.slots[idx].ID] = idx
	p.slots = p.slots[:last]
	delete(p.index, id)
}

// RunCycle performs one scheduling pass over every organism alive at
// the start of the call, in this order: delay decrement, lifetime
// decrement and expiry, instruction dispatch and response handling,
// suicide removal, population-cap culling, and finally insertion of
// any buffered children. Children spawned this cycle never execute
// during it and are never candidates for this cycle's cull. If the
// buffered children still outnumber the room culling freed up (the
// live population has fewer organisms than the culls required), the
// surplus children are discarded rather than inserted, so Len() never
// exceeds MaxOrganisms once RunCycle returns.
func (p *Population) RunCycle(g *grid.Grid) {
	p.Cycles.Add(1)

	active := make([]*OrganismContext, len(p.slots))
	copy(active, p.slots)

	var suicides []uint64
	var children []*vm.OrganismState

	for _, ctx := range active {
		if ctx.DelayCycles > 0 {
			ctx.DelayCycles--
			continue
		}

		if ctx.LifePotential != nil {
			if *ctx.LifePotential == 0 {
				suicides = append(suicides, ctx.ID)
				continue
			}
			*ctx.LifePotential--
		}

		op := vm.Decode(g.Get(ctx.State.IP))
		resp := ctx.State.Run(g, op)

		switch resp.Kind {
		case vm.RespDelay:
			ctx.DelayCycles = resp.DelayN
			ctx.State.IP = ctx.State.IP.MoveIn(ctx.State.Dir, g.Width(), g.Height())

		case vm.RespFork:
			ctx.State.IP = ctx.State.IP.MoveIn(ctx.State.Dir, g.Width(), g.Height())
			if ctx.ChildPotential == nil {
				children = append(children, advance(resp.Child, g))
				p.Forked.Add(1)
			} else if *ctx.ChildPotential > 0 {
				*ctx.ChildPotential--
				children = append(children, advance(resp.Child, g))
				p.Forked.Add(1)
			}

		case vm.RespDie:
			suicides = append(suicides, ctx.ID)
		}
	}

	p.Died.Add(int64(len(suicides)))
	for _, id := range suicides {
		p.Remove(id)
	}

	if p.MaxOrganisms != nil {
		deathsRequired := len(p.slots) + len(children) - *p.MaxOrganisms
		if deathsRequired > 0 {
			p.cullRandomly(deathsRequired)
		}
		// cullRandomly can only remove organisms that are actually
		// alive; when buffered children outnumber the room culling
		// freed up (deathsRequired exceeded the live count), insert
		// only as many as still fit and drop the rest, so the cap
		// holds even in that case instead of being exceeded.
		room := *p.MaxOrganisms - len(p.slots)
		if room < 0 {
			room = 0
		}
		if room < len(children) {
			children = children[:room]
		}
	}

	for _, child := range children {
		p.Insert(child)
	}

	p.SizeAvg.Add(float64(len(p.slots)))
	p.Log.Printf("cycle %d: %d alive (avg %.1f over %d samples), %d forked (%.3f/cycle), %d died, %d culled",
		p.Cycles.Value(), len(p.slots), p.SizeAvg.Value(), p.SizeAvg.Samples(),
		p.Forked.Value(), p.Forked.Rate(p.Cycles.Value()), p.Died.Value(), p.Culled.Value())
}

func advance(child *vm.OrganismState, g *grid.Grid) *vm.OrganismState {
	child.IP = child.IP.MoveIn(child.Dir, g.Width(), g.Height())
	return child
}

// cullRandomly removes n organisms chosen uniformly at random, using
// the population's own cull stream rather than the grid's, so the
// number and identity of culls never perturbs write-fault
// reproducibility.
func (p *Population) cullRandomly(n int) {
	for i := 0; i < n && len(p.slots) > 0; i++ {
		victim := p.slots[p.cullRand.Intn(len(p.slots))]
		p.Culled.Add(1)
		p.Remove(victim.ID)
	}
}

package grid

import (
	"errors"
	"math/rand"
)

// ErrBadWidth is returned by New when width is not positive.
var ErrBadWidth = errors.New("grid: width must be positive")

// ErrBadHeight is returned by New when height is not positive.
var ErrBadHeight = errors.New("grid: height must be positive")

// Grid is a toroidal byte array. Every coordinate passed to its methods
// is wrapped modulo Width/Height, so callers never need to reason about
// edges. Grid owns a single *rand.Rand used for both write-fault
// injection and wall-piercing; callers needing a second independent
// stream (e.g. for population culling) should keep their own.
//
// Grid is not safe for concurrent use. The VM and population packages
// that drive it run single-threaded by design; see the population
// package's doc comment for why.
type Grid struct {
	width, height int
	data          []byte

	rng *rand.Rand

	// WriteErrorChance is a rate, not a probability: 0 disables write
	// faults entirely; any n > 0 gives each Set call a 1/n chance of
	// storing a random byte instead of the one requested. A random byte
	// is always drawn from rng on every Set call regardless of whether
	// the fault fires, so every Set draws exactly one replacement byte
	// whether or not WriteErrorChance is zero; a nonzero rate adds one
	// more draw per Set to decide whether the fault fires.
	WriteErrorChance int

	// WallPierceChance is a rate: 0 means walls are impenetrable; any
	// n > 0 gives each PierceWall call a 1/n chance of succeeding.
	WallPierceChance int
}

// New allocates a width x height grid, each cell initialized to fill
// except that if writeErrorChance > 0, each cell independently has a
// 1/writeErrorChance chance of being set to a uniformly-random byte
// instead. Unlike Set, init draws a replacement byte only when the
// fault actually fires (and draws nothing at all when writeErrorChance
// is 0): there's no already-running organism whose rng-consumption
// needs to stay stable across a mid-run toggle of the rate, so init
// has no reason to pay for an unconditional draw. src is retained, not
// copied; pass a fresh rand.NewSource(seed) per Grid for reproducible
// runs.
func New(width, height int, fill byte, writeErrorChance int, src rand.Source) (*Grid, error) {
	if width <= 0 {
		return nil, ErrBadWidth
	}
	if height <= 0 {
		return nil, ErrBadHeight
	}
	g := &Grid{
		width:            width,
		height:           height,
		data:             make([]byte, width*height),
		rng:              rand.New(src),
		WriteErrorChance: writeErrorChance,
	}
	for i := range g.data {
		v := fill
		if writeErrorChance > 0 && g.rng.Intn(writeErrorChance) == 0 {
			v = byte(g.rng.Intn(256))
		}
		g.data[i] = v
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(p Point) int {
	x := mod(p.X, g.width)
	y := mod(p.Y, g.height)
	return y*g.width + x
}

// Get returns the byte at p, wrapping p onto the torus.
func (g *Grid) Get(p Point) byte {
	return g.data[g.index(p)]
}

// Set writes v at p, wrapping p onto the torus. A random replacement
// byte is always drawn from the grid's rng stream; WriteErrorChance
// controls only whether that draw is used in place of v. Returns the
// byte actually written.
func (g *Grid) Set(p Point, v byte) byte {
	wrong := byte(g.rng.Intn(256))
	if g.WriteErrorChance > 0 && g.rng.Intn(g.WriteErrorChance) == 0 {
		v = wrong
	}
	g.data[g.index(p)] = v
	return v
}

// RawSet writes v at p unconditionally, bypassing write-fault
// injection and without consuming rng. New does not use it (it fills
// the backing array directly), and every write the VM performs goes
// through Set instead.
func (g *Grid) RawSet(p Point, v byte) {
	g.data[g.index(p)] = v
}

// PierceWall reports whether a write through a Wall cell should
// succeed this time, consuming one rng draw. It does not itself
// inspect the grid or write anything, and has no notion of which byte
// value means "wall" — that's a VM-level concept; callers check the
// cell's value against their own wall sentinel first and then consult
// PierceWall to decide whether to proceed.
func (g *Grid) PierceWall() bool {
	if g.WallPierceChance <= 0 {
		return false
	}
	return g.rng.Intn(g.WallPierceChance) == 0
}

// View returns the w x h rectangle of bytes with its low corner at p,
// row-major, wrapping each cell independently onto the torus.
func (g *Grid) View(p Point, w, h int) []byte {
	out := make([]byte, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			q := Point{mod(p.X+dx, g.width), mod(p.Y+dy, g.height)}
			out[dy*w+dx] = g.Get(q)
		}
	}
	return out
}

// ViewAll returns a copy of the entire backing array, row-major.
func (g *Grid) ViewAll() []byte {
	out := make([]byte, len(g.data))
	copy(out, g.data)
	return out
}

// Rand exposes the grid's rng stream. The vm and population packages
// never draw from it directly; only Set, PierceWall and New do.
func (g *Grid) Rand() *rand.Rand { return g.rng }

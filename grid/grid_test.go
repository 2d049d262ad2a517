package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0, 10, 0, 0, rand.NewSource(1))
	assert.ErrorIs(t, err, ErrBadWidth)

	_, err = New(10, 0, 0, 0, rand.NewSource(1))
	assert.ErrorIs(t, err, ErrBadHeight)
}

func TestGetSetRoundTrip(t *testing.T) {
	g, err := New(4, 4, 'N', 0, rand.NewSource(1))
	require.NoError(t, err)

	p := Point{2, 3}
	g.Set(p, 'X')
	assert.Equal(t, byte('X'), g.Get(p))
}

func TestSetWrapsModularCoordinates(t *testing.T) {
	g, err := New(4, 4, 0, 0, rand.NewSource(1))
	require.NoError(t, err)

	g.Set(Point{-1, -1}, 'Z')
	assert.Equal(t, byte('Z'), g.Get(Point{3, 3}))
}

func TestWriteErrorChanceZeroIsExact(t *testing.T) {
	g, err := New(3, 3, 0, 0, rand.NewSource(42))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		p := Point{i % 3, (i / 3) % 3}
		g.Set(p, 'A')
		assert.Equal(t, byte('A'), g.Get(p))
	}
}

// TestRNGStreamInvariance checks that toggling write_error_chance
// between 0 and a nonzero rate does not change how many replacement
// bytes a Set call draws: both paths draw "wrong" unconditionally, and
// only a nonzero rate adds one fault-check draw. Each grid's stream is
// replayed on a reference rng with exactly those draws.
func TestRNGStreamInvariance(t *testing.T) {
	seed := int64(7)

	g1, err := New(2, 2, 0, 0, rand.NewSource(seed))
	require.NoError(t, err)
	ref1 := rand.New(rand.NewSource(seed))
	for i := 0; i < 10; i++ {
		g1.Set(Point{0, 0}, byte(i))
		ref1.Intn(256)
	}
	after1 := g1.Rand().Int63()
	assert.Equal(t, ref1.Int63(), after1, "with write_error_chance 0 each Set draws exactly one replacement byte")

	g2, err := New(2, 2, 0, 3, rand.NewSource(seed))
	require.NoError(t, err)
	ref2 := rand.New(rand.NewSource(seed))
	for c := 0; c < 4; c++ {
		// New's per-cell fault check, plus a byte only when it fires.
		if ref2.Intn(3) == 0 {
			ref2.Intn(256)
		}
	}
	for i := 0; i < 10; i++ {
		g2.Set(Point{0, 0}, byte(i))
		ref2.Intn(256)
		ref2.Intn(3)
	}
	after2 := g2.Rand().Int63()
	assert.Equal(t, ref2.Int63(), after2, "with a nonzero rate each Set draws the same replacement byte plus one fault check")
}

func TestViewWrapsAcrossEdges(t *testing.T) {
	g, err := New(3, 3, 0, 0, rand.NewSource(1))
	require.NoError(t, err)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.RawSet(Point{x, y}, byte(y*3+x))
		}
	}

	view := g.View(Point{2, 2}, 2, 2)
	assert.Equal(t, []byte{
		g.Get(Point{2, 2}), g.Get(Point{0, 2}),
		g.Get(Point{2, 0}), g.Get(Point{0, 0}),
	}, view)
}

func TestPierceWallZeroRateNeverSucceeds(t *testing.T) {
	g, err := New(1, 1, 0, 0, rand.NewSource(9))
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		assert.False(t, g.PierceWall())
	}
}

func TestDirMoveInWrapsAndInverts(t *testing.T) {
	const w, h = 5, 5
	p := Point{0, 0}

	left := p.MoveIn(Left, w, h)
	assert.Equal(t, Point{4, 0}, left)
	assert.Equal(t, p, left.MoveIn(Right, w, h))

	up := p.MoveIn(Up, w, h)
	assert.Equal(t, Point{0, 4}, up)
	assert.Equal(t, p, up.MoveIn(Down, w, h))
}

func TestSubIsModularComponentwise(t *testing.T) {
	const w, h = 10, 10
	a := Point{2, 3}
	b := Point{5, 8}
	got := a.Sub(b, w, h)
	assert.Equal(t, Point{mod(2-5, w), mod(3-8, h)}, got)
}

func TestDistIsChebyshevAndSymmetric(t *testing.T) {
	const w, h = 10, 10
	a := Point{1, 1}
	b := Point{8, 2}
	d1 := a.Dist(b, w, h)
	d2 := b.Dist(a, w, h)
	assert.Equal(t, 3, d1, "max(3, 1), not the Manhattan 3+1")
	assert.Equal(t, d1, d2)

	bound := w / 2
	if h/2 > bound {
		bound = h / 2
	}
	assert.LessOrEqual(t, d1, bound)
}

func TestReflectionOperatorsAreInvolutions(t *testing.T) {
	for _, d := range []Dir{Left, Right, Up, Down} {
		assert.Equal(t, d, d.Reverse().Reverse())
		assert.Equal(t, d, d.ReflectX().ReflectX())
		assert.Equal(t, d, d.ReflectY().ReflectY())
		assert.Equal(t, d, d.ReflectFwd().ReflectFwd())
		assert.Equal(t, d, d.ReflectBwd().ReflectBwd())
	}
}

func TestDirSymbolRoundTrip(t *testing.T) {
	for _, d := range []Dir{Left, Right, Up, Down} {
		got, ok := DirFromSymbol(d.Symbol())
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := DirFromSymbol('?')
	assert.False(t, ok)
}

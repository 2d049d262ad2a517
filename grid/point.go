package grid

// Point is a coordinate on a toroidal grid. Every method that accepts
// width/height wraps the result modularly; a Point by itself carries
// no notion of which grid it belongs to.
type Point struct {
	X, Y int
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// At builds a Point, wrapping x and y modulo width and height.
func At(x, y, width, height int) Point {
	return Point{mod(x, width), mod(y, height)}
}

// Dir is one of the four cardinal directions an organism's instruction
// pointer (or cursor) can move in.
type Dir int

const (
	Left Dir = iota
	Right
	Up
	Down
)

// Symbol returns the direction's one-character textual form, as consumed by
// file-based initialization and command input.
func (d Dir) Symbol() byte {
	switch d {
	case Left:
		return '<'
	case Right:
		return '>'
	case Up:
		return '^'
	case Down:
		return 'v'
	default:
		return '?'
	}
}

// DirFromSymbol looks up the Dir for one of the four textual symbols.
// ok is false if b isn't a recognized symbol.
func DirFromSymbol(b byte) (d Dir, ok bool) {
	switch b {
	case '<':
		return Left, true
	case '>':
		return Right, true
	case '^':
		return Up, true
	case 'v':
		return Down, true
	default:
		return 0, false
	}
}

func (p Point) Left(width int) Point  { return Point{mod(p.X-1, width), p.Y} }
func (p Point) Right(width int) Point { return Point{mod(p.X+1, width), p.Y} }
func (p Point) Up(height int) Point   { return Point{p.X, mod(p.Y-1, height)} }
func (p Point) Down(height int) Point { return Point{p.X, mod(p.Y+1, height)} }

// LeftN, RightN, UpN, DownN move p by n cells, wrapping with n mod dim.
func (p Point) LeftN(n, width int) Point  { return Point{mod(p.X-n, width), p.Y} }
func (p Point) RightN(n, width int) Point { return Point{mod(p.X+n, width), p.Y} }
func (p Point) UpN(n, height int) Point   { return Point{p.X, mod(p.Y-n, height)} }
func (p Point) DownN(n, height int) Point { return Point{p.X, mod(p.Y+n, height)} }

// MoveIn moves p by one cell in direction d.
func (p Point) MoveIn(d Dir, width, height int) Point {
	switch d {
	case Left:
		return p.Left(width)
	case Right:
		return p.Right(width)
	case Up:
		return p.Up(height)
	case Down:
		return p.Down(height)
	default:
		return p
	}
}

// Sub returns the modular componentwise difference p - q.
func (p Point) Sub(q Point, width, height int) Point {
	return Point{mod(p.X-q.X, width), mod(p.Y-q.Y, height)}
}

func absMin(a, m int) int {
	if a < 0 {
		a = -a
	}
	if m-a < a {
		return m - a
	}
	return a
}

// Dist returns the modular Chebyshev distance between p and q: the
// selection geometry used throughout the VM is a square, not a
// diamond, so this is max(dx, dy), not dx+dy.
func (p Point) Dist(q Point, width, height int) int {
	dx := absMin(p.X-q.X, width)
	dy := absMin(p.Y-q.Y, height)
	if dx > dy {
		return dx
	}
	return dy
}

// Reverse implements the '#' reflection: flip both axes.
func (d Dir) Reverse() Dir {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

// ReflectX implements the '|' reflection: flip left/right, leave up/down alone.
func (d Dir) ReflectX() Dir {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// ReflectY implements the '-' reflection: flip up/down, leave left/right alone.
func (d Dir) ReflectY() Dir {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

// ReflectFwd implements the '/' diagonal reflection.
func (d Dir) ReflectFwd() Dir {
	switch d {
	case Left:
		return Down
	case Right:
		return Up
	case Up:
		return Right
	case Down:
		return Left
	default:
		return d
	}
}

// ReflectBwd implements the '\' diagonal reflection.
func (d Dir) ReflectBwd() Dir {
	switch d {
	case Left:
		return Up
	case Right:
		return Down
	case Up:
		return Left
	case Down:
		return Right
	default:
		return d
	}
}

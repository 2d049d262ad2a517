package vm

import (
	"math"

	"github.com/corvid-labs/alifevm/grid"
)

// wallByte is the grid byte value that cursor movement and paste treat
// as impassable: the numeric encoding of OpWall itself, since the grid
// an organism runs on is addressed in the same byte space as its own
// instructions.
const wallByte = byte(OpWall)

// MaxRadius is the largest selection radius an organism may hold;
// RadiusA/RadiusB/IncRadius silently ignore any assignment that would
// exceed it.
const MaxRadius = 10

// OrganismState is the complete execution state of one organism: its
// instruction pointer and facing, a second cursor used by the
// cursor/selection instructions, its two general-purpose registers,
// its control flag, its selection radius and clipboard, and its
// growable tape memory.
type OrganismState struct {
	IP     grid.Point
	Dir    grid.Dir
	Cursor grid.Point
	AX, BX byte
	Flag   bool
	R      byte

	Clipboard []byte
	Storage   []byte
	MP        int
}

// NewOrganismState returns a freshly-spawned state at ip, facing
// Right, with a single-byte zeroed clipboard and empty tape.
func NewOrganismState(ip grid.Point) *OrganismState {
	return &OrganismState{
		IP:        ip,
		Dir:       grid.Right,
		Clipboard: []byte{0},
	}
}

// Clone returns a deep copy: the clipboard and storage slices are
// duplicated, never shared between parent and child.
func (s *OrganismState) Clone() *OrganismState {
	c := *s
	c.Clipboard = append([]byte(nil), s.Clipboard...)
	c.Storage = append([]byte(nil), s.Storage...)
	return &c
}

// Equal reports whether s and o have identical state, field for
// field, including clipboard and storage contents. The population's
// dedup pass does not call it: it compares these same fields, plus
// delay_cycles, through its own map key (id and potentials are not
// part of OrganismState and are compared by neither).
func (s *OrganismState) Equal(o *OrganismState) bool {
	if s.IP != o.IP || s.Dir != o.Dir || s.Cursor != o.Cursor {
		return false
	}
	if s.AX != o.AX || s.BX != o.BX || s.Flag != o.Flag || s.R != o.R {
		return false
	}
	if s.MP != o.MP {
		return false
	}
	if len(s.Clipboard) != len(o.Clipboard) || len(s.Storage) != len(o.Storage) {
		return false
	}
	for i := range s.Clipboard {
		if s.Clipboard[i] != o.Clipboard[i] {
			return false
		}
	}
	for i := range s.Storage {
		if s.Storage[i] != o.Storage[i] {
			return false
		}
	}
	return true
}

// ResponseKind distinguishes the three ways an instruction can ask the
// driver to reschedule its organism.
type ResponseKind int

const (
	RespDelay ResponseKind = iota
	RespFork
	RespDie
)

// Response is the outcome of executing a single instruction. Only the
// field relevant to Kind is meaningful: DelayN for RespDelay, Child for
// RespFork.
type Response struct {
	Kind   ResponseKind
	DelayN byte
	Child  *OrganismState
}

func delay(n byte) Response { return Response{Kind: RespDelay, DelayN: n} }

var dieResponse = Response{Kind: RespDie}

// Run executes op, which the caller has already decoded from the byte
// in g at s.IP, mutating s and possibly g, and returns the scheduling
// response. Run never fails: unknown opcodes cannot occur (Decode
// already maps them to Nop) and every opcode defined here always
// produces exactly one of Delay/Fork/Die.
func (s *OrganismState) Run(g *grid.Grid, op Opcode) Response {
	switch op {

	// Special
	case OpHalt:
		return dieResponse
	case OpNop:
		return delay(0)
	case OpFlagFork:
		child := s.Clone()
		child.Flag = true
		s.Flag = false
		return Response{Kind: RespFork, Child: child}
	case OpCursorFork:
		child := s.Clone()
		child.IP = s.Cursor
		return Response{Kind: RespFork, Child: child}

	// Wall
	case OpWall:
		return dieResponse

	// Calculation
	case OpZeroA:
		s.AX = 0
	case OpZeroB:
		s.BX = 0
	case OpCopyAtoB:
		s.BX = s.AX
	case OpCopyBtoA:
		s.AX = s.BX
	case OpSwapAB:
		s.AX, s.BX = s.BX, s.AX
	case OpSumA:
		s.AX = s.AX + s.BX
	case OpSumB:
		s.BX = s.AX + s.BX
	case OpNegateA:
		s.AX = -s.AX
	case OpNegateB:
		s.BX = -s.BX
	case OpIncA:
		s.AX++
	case OpIncB:
		s.BX++
	case OpDecA:
		s.AX--
	case OpDecB:
		s.BX--
	case OpMulA:
		s.AX = s.AX * s.BX
	case OpMulB:
		s.BX = s.AX * s.BX
	case OpDoubleA:
		s.AX = s.AX * 2
	case OpDoubleB:
		s.BX = s.BX * 2
	case OpHalveA:
		s.AX = s.AX / 2
	case OpHalveB:
		s.BX = s.BX / 2
	case OpMod2A:
		s.AX = s.AX % 2
	case OpMod2B:
		s.BX = s.BX % 2
	case OpBitAndA:
		s.AX = s.AX & s.BX
	case OpBitAndB:
		s.BX = s.AX & s.BX
	case OpBitOrA:
		s.AX = s.AX | s.BX
	case OpBitOrB:
		s.BX = s.AX | s.BX
	case OpBitXorA:
		s.AX = s.AX ^ s.BX
	case OpBitXorB:
		s.BX = s.AX ^ s.BX
	case OpEqA:
		s.AX = boolByte(s.AX == s.BX)
	case OpEqB:
		s.BX = boolByte(s.AX == s.BX)
	case OpNeqA:
		s.AX = boolByte(s.AX != s.BX)
	case OpNeqB:
		s.BX = boolByte(s.AX != s.BX)
	case OpNonzeroA:
		s.AX = boolByte(s.AX != 0)
	case OpNonzeroB:
		s.BX = boolByte(s.BX != 0)
	case OpIsZeroA:
		s.AX = boolByte(s.AX == 0)
	case OpIsZeroB:
		s.BX = boolByte(s.BX == 0)

	// Control
	case OpWaitA:
		return delay(s.AX)
	case OpWaitB:
		return delay(s.BX)
	case OpMoveL:
		s.Dir = grid.Left
	case OpMoveR:
		s.Dir = grid.Right
	case OpMoveU:
		s.Dir = grid.Up
	case OpMoveD:
		s.Dir = grid.Down
	case OpCondMoveL:
		if s.Flag {
			s.Dir = grid.Left
		}
	case OpCondMoveR:
		if s.Flag {
			s.Dir = grid.Right
		}
	case OpCondMoveU:
		if s.Flag {
			s.Dir = grid.Up
		}
	case OpCondMoveD:
		if s.Flag {
			s.Dir = grid.Down
		}
	case OpCondHalt:
		if s.Flag {
			return dieResponse
		}
	case OpReflectReverse:
		s.Dir = s.Dir.Reverse()
	case OpReflectX:
		s.Dir = s.Dir.ReflectX()
	case OpReflectY:
		s.Dir = s.Dir.ReflectY()
	case OpReflectFwd:
		s.Dir = s.Dir.ReflectFwd()
	case OpReflectBwd:
		s.Dir = s.Dir.ReflectBwd()
	case OpSetFlag:
		s.Flag = true
	case OpClearFlag:
		s.Flag = false
	case OpFlagNot:
		s.Flag = !s.Flag
	case OpFlagZeroA:
		s.Flag = s.AX == 0
	case OpFlagNonzeroA:
		s.Flag = s.AX != 0
	case OpFlagZeroB:
		s.Flag = s.BX == 0
	case OpFlagNonzeroB:
		s.Flag = s.BX != 0
	case OpFlagEq:
		s.Flag = s.AX == s.BX
	case OpFlagNeq:
		s.Flag = s.AX != s.BX
	case OpFlagToA:
		s.AX = boolByte(s.Flag)
	case OpFlagToB:
		s.BX = boolByte(s.Flag)

	// Cursor
	case OpCursorL:
		s.tryMoveCursor(g, grid.Left)
	case OpCursorR:
		s.tryMoveCursor(g, grid.Right)
	case OpCursorU:
		s.tryMoveCursor(g, grid.Up)
	case OpCursorD:
		s.tryMoveCursor(g, grid.Down)
	case OpCursorXTimesA:
		return delay(s.cursorXTimes(g, s.AX))
	case OpCursorXTimesB:
		return delay(s.cursorXTimes(g, s.BX))
	case OpCursorHome:
		if g.Get(s.IP) != wallByte {
			s.Cursor = s.IP
		}

	// Selection
	case OpRadiusA:
		s.trySetRadius(s.AX)
	case OpRadiusB:
		s.trySetRadius(s.BX)
	case OpRadiusReset:
		s.R = 0
	case OpRadiusToA:
		s.AX = s.R
	case OpRadiusToB:
		s.BX = s.R
	case OpIncRadius:
		if s.R < MaxRadius {
			s.R++
		}
	case OpDecRadius:
		if s.R > 0 {
			s.R--
		}
	case OpSelWriteA:
		g.Set(s.Cursor, s.AX)
	case OpSelWriteB:
		g.Set(s.Cursor, s.BX)
	case OpSelReadA:
		s.AX = g.Get(s.Cursor)
	case OpSelReadB:
		s.BX = g.Get(s.Cursor)
	case OpCopy:
		s.copySelection(g)
	case OpPaste:
		return delay(s.paste(g))

	// Memory
	case OpPointer0:
		s.MP = 0
	case OpPointerA:
		s.MP = int(s.AX)
	case OpPointerB:
		s.MP = int(s.BX)
	case OpPointerToA:
		s.AX = mpAsByte(s.MP)
	case OpPointerToB:
		s.BX = mpAsByte(s.MP)
	case OpPointerL:
		if s.MP > 0 {
			s.MP--
		}
	case OpPointerR:
		s.MP++
	case OpPointerLTimesA:
		s.MP = satSub(s.MP, int(s.AX))
	case OpPointerLTimesB:
		s.MP = satSub(s.MP, int(s.BX))
	case OpPointerRTimesA:
		s.MP += int(s.AX)
	case OpPointerRTimesB:
		s.MP += int(s.BX)
	case OpPointee0:
		s.setPointee(0)
	case OpPointeeA:
		s.setPointee(s.AX)
	case OpPointeeB:
		s.setPointee(s.BX)
	case OpPointeeToA:
		s.AX = s.getPointee()
	case OpPointeeToB:
		s.BX = s.getPointee()
	case OpIncPointee:
		s.setPointee(s.getPointee() + 1)
	case OpDecPointee:
		s.setPointee(s.getPointee() - 1)
	case OpIncPointeeA:
		s.setPointee(s.getPointee() + s.AX)
	case OpIncPointeeB:
		s.setPointee(s.getPointee() + s.BX)
	case OpDecPointeeA:
		s.setPointee(s.getPointee() - s.AX)
	case OpDecPointeeB:
		s.setPointee(s.getPointee() - s.BX)

	default:
		// Unreachable: Decode never produces a byte outside opTable.
	}
	return delay(0)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func mpAsByte(mp int) byte {
	if mp > 255 {
		return 255
	}
	return byte(mp)
}

func satSub(a, b int) int {
	if a-b < 0 {
		return 0
	}
	return a - b
}

func (s *OrganismState) trySetRadius(v byte) {
	if v <= MaxRadius {
		s.R = v
	}
}

func (s *OrganismState) tryMoveCursor(g *grid.Grid, d grid.Dir) bool {
	dest := s.Cursor.MoveIn(d, g.Width(), g.Height())
	if g.Get(dest) == wallByte {
		return false
	}
	s.Cursor = dest
	return true
}

// cursorXTimes repeatedly moves the cursor one step in s.Dir, up to n
// times, stopping early the first time a move is blocked by a wall.
// It returns the number of steps actually attempted, counting the
// blocked attempt that stopped the loop: a wall three cells out with
// n=10 reports 3, not 2, matching the Rust original's
// return_repeat_move! macro, which increments its counter before each
// attempt and returns it on the same attempt that breaks.
func (s *OrganismState) cursorXTimes(g *grid.Grid, n byte) byte {
	var taken byte
	for i := byte(0); i < n; i++ {
		taken++
		if !s.tryMoveCursor(g, s.Dir) {
			break
		}
	}
	return taken
}

func (s *OrganismState) ensureStorage(n int) {
	if n < len(s.Storage) {
		return
	}
	grown := make([]byte, n+1)
	copy(grown, s.Storage)
	s.Storage = grown
}

func (s *OrganismState) setPointee(v byte) {
	s.ensureStorage(s.MP)
	s.Storage[s.MP] = v
}

func (s *OrganismState) getPointee() byte {
	if s.MP >= len(s.Storage) {
		return 0
	}
	return s.Storage[s.MP]
}

// isqrt returns the integer square root of n, which the caller
// guarantees is a perfect square (clipboard lengths are always
// (2r+1)^2 for r in 0..MaxRadius).
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// selectionWidth recovers 2r+1 from the clipboard's current length.
func (s *OrganismState) selectionWidth() int {
	return isqrt(len(s.Clipboard))
}

// lowCorner returns the modular top-left corner of the (2r+1)x(2r+1)
// square centered on the cursor, for a selection of the given width.
func (s *OrganismState) lowCorner(g *grid.Grid, width int) grid.Point {
	r := (width - 1) / 2
	return grid.At(s.Cursor.X-r, s.Cursor.Y-r, g.Width(), g.Height())
}

// copySelection fills the clipboard from the (2r+1)^2 square centered
// on the cursor, in the same x*width+y enumeration Paste reads back.
func (s *OrganismState) copySelection(g *grid.Grid) {
	width := 2*int(s.R) + 1
	low := s.lowCorner(g, width)
	buf := make([]byte, width*width)
	for dx := 0; dx < width; dx++ {
		for dy := 0; dy < width; dy++ {
			p := grid.At(low.X+dx, low.Y+dy, g.Width(), g.Height())
			buf[dx*width+dy] = g.Get(p)
		}
	}
	s.Clipboard = buf
}

// paste flood-fills the clipboard onto the grid centered on the
// cursor, skipping cells already touched this paste and respecting
// wall impassability unless a pierce check succeeds. Returns the
// number of steps the instruction should delay for: 2r+1.
func (s *OrganismState) paste(g *grid.Grid) byte {
	width := s.selectionWidth()
	r := (width - 1) / 2
	low := s.lowCorner(g, width)

	visited := make(map[grid.Point]bool)
	stack := []grid.Point{s.Cursor}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[p] {
			continue
		}
		if s.Cursor.Dist(p, g.Width(), g.Height()) > r {
			continue
		}
		visited[p] = true

		if g.Get(p) == wallByte && !g.PierceWall() {
			continue
		}

		off := p.Sub(low, g.Width(), g.Height())
		idx := off.X*width + off.Y
		g.Set(p, s.Clipboard[idx])

		stack = append(stack,
			p.MoveIn(grid.Left, g.Width(), g.Height()),
			p.MoveIn(grid.Right, g.Width(), g.Height()),
			p.MoveIn(grid.Up, g.Width(), g.Height()),
			p.MoveIn(grid.Down, g.Width(), g.Height()),
		)
	}

	return byte(width)
}

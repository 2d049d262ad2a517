// Package vm implements the organism virtual machine: per-organism
// execution state and the opcode dispatcher that reads one instruction
// byte from a grid and turns it into register/grid mutations or a
// scheduling response.
package vm

// Opcode is a byte decoded from the grid. The numeric value of an
// Opcode constant *is* its wire encoding; the declaration order below
// must not be reordered once dumps exist that depend on it.
type Opcode byte

const (
	OpHalt Opcode = iota
	OpNop
	OpFlagFork
	OpCursorFork

	OpWall

	OpZeroA
	OpZeroB
	OpCopyAtoB
	OpCopyBtoA
	OpSwapAB
	OpSumA
	OpSumB
	OpNegateA
	OpNegateB
	OpIncA
	OpIncB
	OpDecA
	OpDecB
	OpMulA
	OpMulB
	OpDoubleA
	OpDoubleB
	OpHalveA
	OpHalveB
	OpMod2A
	OpMod2B
	OpBitAndA
	OpBitAndB
	OpBitOrA
	OpBitOrB
	OpBitXorA
	OpBitXorB
	OpEqA
	OpEqB
	OpNeqA
	OpNeqB
	OpNonzeroA
	OpNonzeroB
	OpIsZeroA
	OpIsZeroB

	OpWaitA
	OpWaitB
	OpMoveL
	OpMoveR
	OpMoveU
	OpMoveD
	OpCondMoveL
	OpCondMoveR
	OpCondMoveU
	OpCondMoveD
	OpCondHalt
	OpReflectReverse
	OpReflectX
	OpReflectY
	OpReflectFwd
	OpReflectBwd
	OpSetFlag
	OpClearFlag
	OpFlagNot
	OpFlagZeroA
	OpFlagNonzeroA
	OpFlagZeroB
	OpFlagNonzeroB
	OpFlagEq
	OpFlagNeq
	OpFlagToA
	OpFlagToB

	OpCursorL
	OpCursorR
	OpCursorU
	OpCursorD
	OpCursorXTimesA
	OpCursorXTimesB
	OpCursorHome

	OpRadiusA
	OpRadiusB
	OpRadiusReset
	OpRadiusToA
	OpRadiusToB
	OpIncRadius
	OpDecRadius
	OpSelWriteA
	OpSelWriteB
	OpSelReadA
	OpSelReadB
	OpCopy
	OpPaste

	OpPointer0
	OpPointerA
	OpPointerB
	OpPointerToA
	OpPointerToB
	OpPointerL
	OpPointerR
	OpPointerLTimesA
	OpPointerLTimesB
	OpPointerRTimesA
	OpPointerRTimesB
	OpPointee0
	OpPointeeA
	OpPointeeB
	OpPointeeToA
	OpPointeeToB
	OpIncPointee
	OpDecPointee
	OpIncPointeeA
	OpIncPointeeB
	OpDecPointeeA
	OpDecPointeeB

	numOpcodes
)

// Category groups opcodes for documentation and for the export
// color table in §6; it is never used as a dispatch axis (dispatch is
// a single switch in Run).
type Category int

const (
	CatSpecial Category = iota
	CatWall
	CatCalculation
	CatControl
	CatCursor
	CatSelection
	CatMemory
)

// Color returns the category's hex RGB color for grid visualization.
func (c Category) Color() string {
	switch c {
	case CatSpecial:
		return "#303030"
	case CatWall:
		return "#8a8a8a"
	case CatCalculation:
		return "#8ecd00"
	case CatControl:
		return "#c46ae1"
	case CatCursor:
		return "#00d4d9"
	case CatSelection:
		return "#e10003"
	case CatMemory:
		return "#74a4dc"
	default:
		return "#000000"
	}
}

func (c Category) String() string {
	switch c {
	case CatSpecial:
		return "Special"
	case CatWall:
		return "Wall"
	case CatCalculation:
		return "Calculation"
	case CatControl:
		return "Control"
	case CatCursor:
		return "Cursor"
	case CatSelection:
		return "Selection"
	case CatMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

type opInfo struct {
	name string
	cat  Category
}

// opTable is the dense name/category metadata, in the same order as
// the Opcode constants; its index IS the wire byte.
var opTable = [numOpcodes]opInfo{
	OpHalt:       {"Halt", CatSpecial},
	OpNop:        {"Nop", CatSpecial},
	OpFlagFork:   {"FlagFork", CatSpecial},
	OpCursorFork: {"CursorFork", CatSpecial},

	OpWall: {"Wall", CatWall},

	OpZeroA:    {"ZeroA", CatCalculation},
	OpZeroB:    {"ZeroB", CatCalculation},
	OpCopyAtoB: {"CopyAtoB", CatCalculation},
	OpCopyBtoA: {"CopyBtoA", CatCalculation},
	OpSwapAB:   {"SwapAB", CatCalculation},
	OpSumA:     {"SumA", CatCalculation},
	OpSumB:     {"SumB", CatCalculation},
	OpNegateA:  {"NegateA", CatCalculation},
	OpNegateB:  {"NegateB", CatCalculation},
	OpIncA:     {"IncA", CatCalculation},
	OpIncB:     {"IncB", CatCalculation},
	OpDecA:     {"DecA", CatCalculation},
	OpDecB:     {"DecB", CatCalculation},
	OpMulA:     {"MulA", CatCalculation},
	OpMulB:     {"MulB", CatCalculation},
	OpDoubleA:  {"DoubleA", CatCalculation},
	OpDoubleB:  {"DoubleB", CatCalculation},
	OpHalveA:   {"HalveA", CatCalculation},
	OpHalveB:   {"HalveB", CatCalculation},
	OpMod2A:    {"Mod2A", CatCalculation},
	OpMod2B:    {"Mod2B", CatCalculation},
	OpBitAndA:  {"BitAndA", CatCalculation},
	OpBitAndB:  {"BitAndB", CatCalculation},
	OpBitOrA:   {"BitOrA", CatCalculation},
	OpBitOrB:   {"BitOrB", CatCalculation},
	OpBitXorA:  {"BitXorA", CatCalculation},
	OpBitXorB:  {"BitXorB", CatCalculation},
	OpEqA:      {"EqA", CatCalculation},
	OpEqB:      {"EqB", CatCalculation},
	OpNeqA:     {"NeqA", CatCalculation},
	OpNeqB:     {"NeqB", CatCalculation},
	OpNonzeroA: {"NonzeroA", CatCalculation},
	OpNonzeroB: {"NonzeroB", CatCalculation},
	OpIsZeroA:  {"IsZeroA", CatCalculation},
	OpIsZeroB:  {"IsZeroB", CatCalculation},

	OpWaitA:          {"WaitA", CatControl},
	OpWaitB:          {"WaitB", CatControl},
	OpMoveL:          {"MoveL", CatControl},
	OpMoveR:          {"MoveR", CatControl},
	OpMoveU:          {"MoveU", CatControl},
	OpMoveD:          {"MoveD", CatControl},
	OpCondMoveL:      {"CondMoveL", CatControl},
	OpCondMoveR:      {"CondMoveR", CatControl},
	OpCondMoveU:      {"CondMoveU", CatControl},
	OpCondMoveD:      {"CondMoveD", CatControl},
	OpCondHalt:       {"CondHalt", CatControl},
	OpReflectReverse: {"ReflectReverse", CatControl},
	OpReflectX:       {"ReflectX", CatControl},
	OpReflectY:       {"ReflectY", CatControl},
	OpReflectFwd:     {"ReflectFwd", CatControl},
	OpReflectBwd:     {"ReflectBwd", CatControl},
	OpSetFlag:        {"SetFlag", CatControl},
	OpClearFlag:      {"ClearFlag", CatControl},
	OpFlagNot:        {"FlagNot", CatControl},
	OpFlagZeroA:      {"FlagZeroA", CatControl},
	OpFlagNonzeroA:   {"FlagNonzeroA", CatControl},
	OpFlagZeroB:      {"FlagZeroB", CatControl},
	OpFlagNonzeroB:   {"FlagNonzeroB", CatControl},
	OpFlagEq:         {"FlagEq", CatControl},
	OpFlagNeq:        {"FlagNeq", CatControl},
	OpFlagToA:        {"FlagToA", CatControl},
	OpFlagToB:        {"FlagToB", CatControl},

	OpCursorL:       {"CursorL", CatCursor},
	OpCursorR:       {"CursorR", CatCursor},
	OpCursorU:       {"CursorU", CatCursor},
	OpCursorD:       {"CursorD", CatCursor},
	OpCursorXTimesA: {"CursorXTimesA", CatCursor},
	OpCursorXTimesB: {"CursorXTimesB", CatCursor},
	OpCursorHome:    {"CursorHome", CatCursor},

	OpRadiusA:     {"RadiusA", CatSelection},
	OpRadiusB:     {"RadiusB", CatSelection},
	OpRadiusReset: {"RadiusReset", CatSelection},
	OpRadiusToA:   {"RadiusToA", CatSelection},
	OpRadiusToB:   {"RadiusToB", CatSelection},
	OpIncRadius:   {"IncRadius", CatSelection},
	OpDecRadius:   {"DecRadius", CatSelection},
	OpSelWriteA:   {"CursorA", CatSelection},
	OpSelWriteB:   {"CursorB", CatSelection},
	OpSelReadA:    {"CursorToA", CatSelection},
	OpSelReadB:    {"CursorToB", CatSelection},
	OpCopy:        {"Copy", CatSelection},
	OpPaste:       {"Paste", CatSelection},

	OpPointer0:       {"Pointer0", CatMemory},
	OpPointerA:       {"PointerA", CatMemory},
	OpPointerB:       {"PointerB", CatMemory},
	OpPointerToA:     {"PointerToA", CatMemory},
	OpPointerToB:     {"PointerToB", CatMemory},
	OpPointerL:       {"PointerL", CatMemory},
	OpPointerR:       {"PointerR", CatMemory},
	OpPointerLTimesA: {"PointerLTimesA", CatMemory},
	OpPointerLTimesB: {"PointerLTimesB", CatMemory},
	OpPointerRTimesA: {"PointerRTimesA", CatMemory},
	OpPointerRTimesB: {"PointerRTimesB", CatMemory},
	OpPointee0:       {"Pointee0", CatMemory},
	OpPointeeA:       {"PointeeA", CatMemory},
	OpPointeeB:       {"PointeeB", CatMemory},
	OpPointeeToA:     {"PointeeToA", CatMemory},
	OpPointeeToB:     {"PointeeToB", CatMemory},
	OpIncPointee:     {"IncPointee", CatMemory},
	OpDecPointee:     {"DecPointee", CatMemory},
	OpIncPointeeA:    {"IncPointeeA", CatMemory},
	OpIncPointeeB:    {"IncPointeeB", CatMemory},
	OpDecPointeeA:    {"DecPointeeA", CatMemory},
	OpDecPointeeB:    {"DecPointeeB", CatMemory},
}

// opSymbol is the dense table of each opcode's canonical two-character
// wire symbol, indexed the same way as opTable. Nearly all of these
// are carried forward verbatim from original_source/src/app/
// instruction.rs's INSTRUCTION_SYMBOLS table, the authentic,
// already-portable two-character encoding §6 describes as stable and
// asks implementations to reuse for file-based initialization and
// command input.
//
// Four opcodes have no entry to copy there and get a symbol
// synthesized for this table instead, noted at each entry: Wall and
// CondHalt don't exist as instruction.rs variants at all (state.rs's
// dispatcher adds both on top of the enum instruction.rs declares),
// and CursorXTimesA/CursorXTimesB each collapse four of
// instruction.rs's direction-specific variants (CursorLTimesA/
// CursorRTimesA/CursorUTimesA/CursorDTimesA, and the B equivalents)
// into one opcode that repeats in the organism's current Dir, per
// this repository's opcode list — no single authentic symbol covers
// that collapsed semantics.
var opSymbol = [numOpcodes]string{
	OpHalt:       "@@",
	OpNop:        "..",
	OpFlagFork:   "-=",
	OpCursorFork: "m=",

	OpWall: "w#", // synthesized: Wall has no instruction.rs counterpart

	OpZeroA:    "0a",
	OpZeroB:    "0b",
	OpCopyAtoB: "ba",
	OpCopyBtoA: "ab",
	OpSwapAB:   "::",
	OpSumA:     "a+",
	OpSumB:     "b+",
	OpNegateA:  "a-",
	OpNegateB:  "b-",
	OpIncA:     "+a",
	OpIncB:     "+b",
	OpDecA:     "-a",
	OpDecB:     "-b",
	OpMulA:     "a*",
	OpMulB:     "b*",
	OpDoubleA:  "aa",
	OpDoubleB:  "bb",
	OpHalveA:   "a/",
	OpHalveB:   "b/",
	OpMod2A:    "a%",
	OpMod2B:    "b%",
	OpBitAndA:  "a&",
	OpBitAndB:  "b&",
	OpBitOrA:   "a|",
	OpBitOrB:   "b|",
	OpBitXorA:  "a#",
	OpBitXorB:  "b#",
	OpEqA:      "a=",
	OpEqB:      "b=",
	OpNeqA:     "a!",
	OpNeqB:     "b!",
	OpNonzeroA: "a1",
	OpNonzeroB: "b1",
	OpIsZeroA:  "a0",
	OpIsZeroB:  "b0",

	OpWaitA:          ".a",
	OpWaitB:          ".b",
	OpMoveL:          "!<",
	OpMoveR:          "!>",
	OpMoveU:          "!^",
	OpMoveD:          "!v",
	OpCondMoveL:      "?<",
	OpCondMoveR:      "?>",
	OpCondMoveU:      "?^",
	OpCondMoveD:      "?v",
	OpCondHalt:       "?!", // synthesized: CondHalt has no instruction.rs counterpart
	OpReflectReverse: "!#",
	OpReflectX:       "!|",
	OpReflectY:       "!-",
	OpReflectFwd:     "!/",
	OpReflectBwd:     "!\\",
	OpSetFlag:        "((",
	OpClearFlag:      "))",
	OpFlagNot:        ")(",
	OpFlagZeroA:      "(a",
	OpFlagNonzeroA:   ")a",
	OpFlagZeroB:      "(b",
	OpFlagNonzeroB:   ")b",
	OpFlagEq:         "(=",
	OpFlagNeq:        "(!",
	OpFlagToA:        "a(",
	OpFlagToB:        "b(",

	OpCursorL:       "#<",
	OpCursorR:       "#>",
	OpCursorU:       "#^",
	OpCursorD:       "#v",
	OpCursorXTimesA: "a?", // synthesized: collapses CursorLTimesA/RTimesA/UTimesA/DTimesA
	OpCursorXTimesB: "b?", // synthesized: collapses CursorLTimesB/RTimesB/UTimesB/DTimesB
	OpCursorHome:    "#0",

	OpRadiusA:     "ra",
	OpRadiusB:     "rb",
	OpRadiusReset: "r1",
	OpRadiusToA:   "ar",
	OpRadiusToB:   "br",
	OpIncRadius:   "r+",
	OpDecRadius:   "r-",
	OpSelWriteA:   "ma",
	OpSelWriteB:   "mb",
	OpSelReadA:    "am",
	OpSelReadB:    "bm",
	OpCopy:        "cm",
	OpPaste:       "mc",

	OpPointer0:       "]0",
	OpPointerA:       "]a",
	OpPointerB:       "]b",
	OpPointerToA:     "a]",
	OpPointerToB:     "b]",
	OpPointerL:       "]<",
	OpPointerR:       "]>",
	OpPointerLTimesA: "}A",
	OpPointerLTimesB: "}B",
	OpPointerRTimesA: "}a",
	OpPointerRTimesB: "}b",
	OpPointee0:       "[0",
	OpPointeeA:       "[a",
	OpPointeeB:       "[b",
	OpPointeeToA:     "a[",
	OpPointeeToB:     "b[",
	OpIncPointee:     "[+",
	OpDecPointee:     "[-",
	OpIncPointeeA:    "{a",
	OpIncPointeeB:    "{b",
	OpDecPointeeA:    "{A",
	OpDecPointeeB:    "{B",
}

var symbolToOp map[string]Opcode

func init() {
	symbolToOp = make(map[string]Opcode, numOpcodes)
	for op, sym := range opSymbol {
		symbolToOp[sym] = Opcode(op)
	}
}

// Name returns the opcode's human-readable name.
func (op Opcode) Name() string {
	if int(op) < len(opTable) {
		return opTable[op].name
	}
	return opTable[OpNop].name
}

// Category returns the opcode's documentation category.
func (op Opcode) Category() Category {
	if int(op) < len(opTable) {
		return opTable[op].cat
	}
	return CatSpecial
}

// Symbol returns the opcode's canonical two-character textual form,
// as used by file-based initialization and the command language.
func (op Opcode) Symbol() string {
	if int(op) < len(opSymbol) {
		return opSymbol[op]
	}
	return opSymbol[OpNop]
}

// Decode maps a raw grid byte to its opcode. Any byte whose numeric
// value is outside the table decodes to Nop, per the dense byte table
// contract: unknown bytes are never a decoding error.
func Decode(b byte) Opcode {
	if int(b) < len(opTable) {
		return Opcode(b)
	}
	return OpNop
}

// Compile looks up the opcode for a canonical two-character symbol, as
// used when parsing textual initialization files or typed commands.
func Compile(symbol string) (Opcode, bool) {
	op, ok := symbolToOp[symbol]
	return op, ok
}

// Decompile is the inverse of Compile.
func Decompile(op Opcode) string {
	return op.Symbol()
}

package cpu

// opTable and modeTable classify every one of the 256 possible opcode bytes
// into a documented 6502 instruction, or OpInv/ModeInvalid for the
// undocumented ones this emulator does not support. The layout matches the
// canonical matrix at masswerk.at/6502/6502_instruction_set.html, 8 opcodes
// per row to keep the hex row boundary visible.
var opTable = [256]Operation{
	OpBrk, OpOra, OpInv, OpInv, OpInv, OpOra, OpAsl, OpInv, // 0x00
	OpPhp, OpOra, OpAsl, OpInv, OpInv, OpOra, OpAsl, OpInv, // 0x08
	OpBpl, OpOra, OpInv, OpInv, OpInv, OpOra, OpAsl, OpInv, // 0x10
	OpClc, OpOra, OpInv, OpInv, OpInv, OpOra, OpAsl, OpInv, // 0x18
	OpJsr, OpAnd, OpInv, OpInv, OpBit, OpAnd, OpRol, OpInv, // 0x20
	OpPlp, OpAnd, OpRol, OpInv, OpBit, OpAnd, OpRol, OpInv, // 0x28
	OpBmi, OpAnd, OpInv, OpInv, OpInv, OpAnd, OpRol, OpInv, // 0x30
	OpSec, OpAnd, OpInv, OpInv, OpInv, OpAnd, OpRol, OpInv, // 0x38
	OpRti, OpEor, OpInv, OpInv, OpInv, OpEor, OpLsr, OpInv, // 0x40
	OpPha, OpEor, OpLsr, OpInv, OpJmp, OpEor, OpLsr, OpInv, // 0x48
	OpBvc, OpEor, OpInv, OpInv, OpInv, OpEor, OpLsr, OpInv, // 0x50
	OpCli, OpEor, OpInv, OpInv, OpInv, OpEor, OpLsr, OpInv, // 0x58
	OpRts, OpAdc, OpInv, OpInv, OpInv, OpAdc, OpRor, OpInv, // 0x60
	OpPla, OpAdc, OpRor, OpInv, OpJmp, OpAdc, OpRor, OpInv, // 0x68
	OpBvs, OpAdc, OpInv, OpInv, OpInv, OpAdc, OpRor, OpInv, // 0x70
	OpSei, OpAdc, OpInv, OpInv, OpInv, OpAdc, OpRor, OpInv, // 0x78
	OpInv, OpSta, OpInv, OpInv, OpSty, OpSta, OpStx, OpInv, // 0x80
	OpDey, OpInv, OpTxa, OpInv, OpSty, OpSta, OpStx, OpInv, // 0x88
	OpBcc, OpSta, OpInv, OpInv, OpSty, OpSta, OpStx, OpInv, // 0x90
	OpTya, OpSta, OpTxs, OpInv, OpInv, OpSta, OpInv, OpInv, // 0x98
	OpLdy, OpLda, OpLdx, OpInv, OpLdy, OpLda, OpLdx, OpInv, // 0xA0
	OpTay, OpLda, OpTax, OpInv, OpLdy, OpLda, OpLdx, OpInv, // 0xA8
	OpBcs, OpLda, OpInv, OpInv, OpLdy, OpLda, OpLdx, OpInv, // 0xB0
	OpClv, OpLda, OpTsx, OpInv, OpLdy, OpLda, OpLdx, OpInv, // 0xB8
	OpCpy, OpCmp, OpInv, OpInv, OpCpy, OpCmp, OpDec, OpInv, // 0xC0
	OpIny, OpCmp, OpDex, OpInv, OpCpy, OpCmp, OpDec, OpInv, // 0xC8
	OpBne, OpCmp, OpInv, OpInv, OpInv, OpCmp, OpDec, OpInv, // 0xD0
	OpCld, OpCmp, OpInv, OpInv, OpInv, OpCmp, OpDec, OpInv, // 0xD8
	OpCpx, OpSbc, OpInv, OpInv, OpCpx, OpSbc, OpInc, OpInv, // 0xE0
	OpInx, OpSbc, OpNop, OpInv, OpCpx, OpSbc, OpInc, OpInv, // 0xE8
	OpBeq, OpSbc, OpInv, OpInv, OpInv, OpSbc, OpInc, OpInv, // 0xF0
	OpSed, OpSbc, OpInv, OpInv, OpInv, OpSbc, OpInc, OpInv, // 0xF8
}

var modeTable = [256]AddressMode{
	ModeImp, ModeInx, ModeInvalid, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0x00
	ModeImp, ModeImm, ModeAcc, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0x08
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0x10
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0x18
	ModeAbs, ModeInx, ModeInvalid, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0x20
	ModeImp, ModeImm, ModeAcc, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0x28
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0x30
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0x38
	ModeImp, ModeInx, ModeInvalid, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0x40
	ModeImp, ModeImm, ModeAcc, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0x48
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0x50
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0x58
	ModeImp, ModeInx, ModeInvalid, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0x60
	ModeImp, ModeImm, ModeAcc, ModeImm, ModeInd, ModeAbs, ModeAbs, ModeAbs, // 0x68
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0x70
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0x78
	ModeImm, ModeInx, ModeImm, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0x80
	ModeImp, ModeImm, ModeImp, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0x88
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpy, ModeZpy, // 0x90
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAby, ModeAby, // 0x98
	ModeImm, ModeInx, ModeImm, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0xA0
	ModeImp, ModeImm, ModeImp, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0xA8
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpy, ModeZpy, // 0xB0
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAby, ModeAby, // 0xB8
	ModeImm, ModeInx, ModeImm, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0xC0
	ModeImp, ModeImm, ModeImp, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0xC8
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0xD0
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0xD8
	ModeImm, ModeInx, ModeImm, ModeInx, ModeZpg, ModeZpg, ModeZpg, ModeZpg, // 0xE0
	ModeImp, ModeImm, ModeImp, ModeImm, ModeAbs, ModeAbs, ModeAbs, ModeAbs, // 0xE8
	ModeRel, ModeIny, ModeInvalid, ModeIny, ModeZpx, ModeZpx, ModeZpx, ModeZpx, // 0xF0
	ModeImp, ModeAby, ModeImp, ModeAby, ModeAbx, ModeAbx, ModeAbx, ModeAbx, // 0xF8
}

// The literal modeTable above carries an addressing mode for undocumented
// opcodes too; reset those entries to ModeInvalid so that OpInv and
// ModeInvalid always coincide.
func init() {
	for b := range opTable {
		if opTable[b] == OpInv {
			modeTable[b] = ModeInvalid
		}
	}
}

// cycleClass groups opcodes that share a cycle-cost shape, following the
// CycleType split in the reference cycle model this table is ported from.
type cycleClass uint8

const (
	classReadOperand cycleClass = iota
	classReadModifyWrite
	classBranch
	classBase
	classJump
	classJumpSubroutine
	classBreak
	classPushStack
	classPullStack
	classReturn
	classStoreAccumulator
	classNone // operations with a fixed cost independent of mode (e.g. transfers)
)

// opClass assigns each Operation its cycle class for cyclesFor. Base-cost
// implied instructions (CLC, TAX, INX, ...) are not listed: their handlers
// and previewCycles charge 2 cycles directly.
var opClass = map[Operation]cycleClass{
	OpAdc: classReadOperand,
	OpAnd: classReadOperand,
	OpCmp: classReadOperand,
	OpCpx: classReadOperand,
	OpCpy: classReadOperand,
	OpEor: classReadOperand,
	OpLda: classReadOperand,
	OpLdx: classReadOperand,
	OpLdy: classReadOperand,
	OpOra: classReadOperand,
	OpSbc: classReadOperand,
	OpBit: classReadOperand,
	OpStx: classReadOperand,
	OpSty: classReadOperand,

	OpAsl: classReadModifyWrite,
	OpLsr: classReadModifyWrite,
	OpRol: classReadModifyWrite,
	OpRor: classReadModifyWrite,
	OpInc: classReadModifyWrite,
	OpDec: classReadModifyWrite,

	OpSta: classStoreAccumulator,

	OpBcc: classBranch,
	OpBcs: classBranch,
	OpBeq: classBranch,
	OpBmi: classBranch,
	OpBne: classBranch,
	OpBpl: classBranch,
	OpBvc: classBranch,
	OpBvs: classBranch,

	OpJmp: classJump,
	OpJsr: classJumpSubroutine,
	OpBrk: classBreak,
	OpPha: classPushStack,
	OpPhp: classPushStack,
	OpPla: classPullStack,
	OpPlp: classPullStack,
	OpRts: classReturn,
	OpRti: classReturn,
}

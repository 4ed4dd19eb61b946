// Package cpu implements the decode/execute core of a MOS 6502: registers,
// flags, the 256-entry opcode table, addressing-mode evaluation and the
// instruction handlers themselves.
package cpu

import "sixtwo/mem"

// Status flag bit masks, in SR: NV-BDIZC.
const (
	FlagCarry     uint8 = 0b0000_0001
	FlagZero      uint8 = 0b0000_0010
	FlagInterrupt uint8 = 0b0000_0100
	FlagDecimal   uint8 = 0b0000_1000
	FlagBreak     uint8 = 0b0001_0000
	FlagUnused    uint8 = 0b0010_0000
	FlagOverflow  uint8 = 0b0100_0000
	FlagNegative  uint8 = 0b1000_0000
)

const (
	irqVector uint16 = 0xFFFE
	nmiVector uint16 = 0xFFFA
	rstVector uint16 = 0xFFFC
	stackBase uint16 = 0x0100
)

// Chip is a single MOS 6502 core: registers, status flags and the 64 KiB
// address space it executes against. A Chip owns its Bus by value; nothing
// else is expected to hold a reference into the middle of a running chip.
type Chip struct {
	mem.Bus

	A, X, Y uint8
	PC      uint16
	SP      uint8
	SR      uint8

	cycles uint64
}

// NewChip returns a Chip with SP set to the top of the stack page and SR set
// to Unused|Interrupt, matching power-on defaults on real hardware closely
// enough for this emulator's purposes.
func NewChip() *Chip {
	return &Chip{
		SP: 0xFF,
		SR: FlagUnused | FlagInterrupt,
	}
}

// ReadU8 reads one byte. Addresses wrap implicitly at 16 bits, since addr is
// already a uint16.
func (c *Chip) ReadU8(addr uint16) byte {
	return c.Bus.Read(addr)
}

// WriteU8 writes one byte.
func (c *Chip) WriteU8(addr uint16, val byte) {
	c.Bus.Write(addr, val)
}

// ReadU16 performs a standard (non-quirked) little-endian load of the two
// bytes at addr and addr+1.
func (c *Chip) ReadU16(addr uint16) uint16 {
	lo := c.ReadU8(addr)
	hi := c.ReadU8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteU16 performs a clean little-endian store to addr and addr+1.
func (c *Chip) WriteU16(addr uint16, val uint16) {
	c.WriteU8(addr, byte(val&0xFF))
	c.WriteU8(addr+1, byte(val>>8))
}

// Flag reports whether every bit in mask is set in SR.
func (c *Chip) Flag(mask uint8) bool {
	return c.SR&mask == mask
}

// SetFlag sets or clears every bit named by mask together.
func (c *Chip) SetFlag(mask uint8, on bool) {
	if on {
		c.SR |= mask
	} else {
		c.SR &^= mask
	}
}

// setZN sets Zero and Negative from result, the shared rule after any
// instruction that writes A, X or Y.
func (c *Chip) setZN(result uint8) {
	c.SetFlag(FlagZero, result == 0)
	c.SetFlag(FlagNegative, result&0x80 != 0)
}

// push writes val to the stack page and decrements SP, wrapping silently.
func (c *Chip) push(val byte) {
	c.WriteU8(stackBase+uint16(c.SP), val)
	c.SP--
}

// pull increments SP and reads the stack page, wrapping silently.
func (c *Chip) pull() byte {
	c.SP++
	return c.ReadU8(stackBase + uint16(c.SP))
}

func (c *Chip) pushU16(val uint16) {
	c.push(byte(val >> 8))
	c.push(byte(val & 0xFF))
}

func (c *Chip) pullU16() uint16 {
	lo := c.pull()
	hi := c.pull()
	return uint16(hi)<<8 | uint16(lo)
}

// Snapshot copies the currently visible register state.
func (c *Chip) Snapshot() State {
	return State{
		A: c.A, X: c.X, Y: c.Y,
		PC: c.PC, SP: c.SP, SR: c.SR,
		Cycles: c.cycles,
	}
}

// Cycles returns the running total of cycles consumed by Step calls so far.
func (c *Chip) Cycles() uint64 {
	return c.cycles
}

// LoadBytes copies data into memory starting at addr, wrapping at 0xFFFF.
func (c *Chip) LoadBytes(addr uint16, data []byte) {
	c.Bus.Load(addr, data)
}

// Reset vectors PC through the reset vector at 0xFFFC, sets SP to 0xFF and
// sets the Interrupt-disable flag. A, X, Y and the other status flags are
// left unchanged. Nothing in this package calls Reset
// automatically; it exists as a hook for a future system emulator that
// drives it from an external reset line.
func (c *Chip) Reset() {
	c.SP = 0xFF
	c.SetFlag(FlagInterrupt, true)
	c.PC = c.ReadU16(rstVector)
}

// NMI performs a non-maskable interrupt: push PC and SR, then vector through
// 0xFFFA. Like Reset, nothing in this package invokes NMI on its own.
func (c *Chip) NMI() {
	c.pushU16(c.PC)
	c.push(c.SR | FlagUnused)
	c.SetFlag(FlagInterrupt, true)
	c.PC = c.ReadU16(nmiVector)
}

// IRQ performs a maskable interrupt identical to NMI but through the IRQ
// vector, and is a no-op if the Interrupt-disable flag is set. It is
// scaffolding for a future system emulator, covered by cpu_test.go but not
// called by anything in this package; BRK (the software interrupt) does not
// call it either.
func (c *Chip) IRQ() {
	if c.Flag(FlagInterrupt) {
		return
	}
	c.pushU16(c.PC)
	c.push(c.SR | FlagUnused)
	c.SetFlag(FlagInterrupt, true)
	c.PC = c.ReadU16(irqVector)
}

// PeekInstructionAt non-destructively decodes the instruction at addr: it
// reads the opcode and any operand bytes but does not advance PC or mutate
// any register.
func (c *Chip) PeekInstructionAt(addr uint16) Instruction {
	opcode := c.ReadU8(addr)
	op := opTable[opcode]
	mode := modeTable[opcode]

	var operand uint16
	switch mode.Bytes() {
	case 1:
		operand = uint16(c.ReadU8(addr + 1))
	case 2:
		operand = c.ReadU16(addr + 1)
	}

	cycles := c.previewCycles(op, mode, addr, operand)

	return Instruction{Operation: op, Mode: mode, Operand: operand, Cycles: cycles}
}

// previewCycles estimates the cycle cost of an instruction without
// executing it, for display purposes (the runner's "op" command). Branch
// cost assumes not-taken, since whether it's taken is a runtime fact Step
// alone can determine.
func (c *Chip) previewCycles(op Operation, mode AddressMode, pc, operand uint16) uint8 {
	if op == OpInv {
		return 0
	}
	switch op {
	case OpClc, OpCld, OpCli, OpClv, OpSec, OpSed, OpSei, OpNop,
		OpTax, OpTay, OpTsx, OpTxa, OpTxs, OpTya,
		OpInx, OpIny, OpDex, OpDey:
		return 2
	case OpBcc, OpBcs, OpBeq, OpBmi, OpBne, OpBpl, OpBvc, OpBvs:
		return branchNotTakenCycles
	}
	class, ok := opClass[op]
	if !ok {
		return 2
	}
	base, eff := c.previewOperandAddrs(mode, pc, operand)
	return cyclesFor(class, mode, base, eff)
}

// previewOperandAddrs reconstructs the base/effective address pair cyclesFor
// needs for page-cross detection, from an already-decoded operand.
func (c *Chip) previewOperandAddrs(mode AddressMode, pc, operand uint16) (base, eff uint16) {
	switch mode {
	case ModeAbx:
		return operand, operand + uint16(c.X)
	case ModeAby:
		return operand, operand + uint16(c.Y)
	case ModeIny:
		ptr := c.ReadU16(uint16(operand & 0xFF))
		return ptr, ptr + uint16(c.Y)
	default:
		return operand, operand
	}
}

// Step fetches the opcode at PC, advances PC by one, dispatches to the
// handler for (Operation, AddressMode), accumulates the consumed cycles and
// returns them.
func (c *Chip) Step() (uint8, error) {
	opcode := c.ReadU8(c.PC)
	pc := c.PC
	c.PC++

	op := opTable[opcode]
	mode := modeTable[opcode]

	if op == OpInv || mode == ModeInvalid {
		return 0, InvalidOpcodeError{Opcode: opcode, PC: pc}
	}

	handler, ok := handlers[op]
	if !ok {
		return 0, InvalidOpcodeError{Opcode: opcode, PC: pc}
	}

	cycles := handler(c, mode)
	c.cycles += uint64(cycles)
	return cycles, nil
}

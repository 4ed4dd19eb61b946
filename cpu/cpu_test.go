package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestChip() *Chip {
	c := NewChip()
	c.SR = 0
	return c
}

func TestLdaImmediateSetsFlags(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x400, []byte{0xA9, 0x00})
	c.PC = 0x400

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.Flag(FlagZero))
	assert.False(t, c.Flag(FlagNegative))
	assert.Equal(t, uint8(2), cycles)
	assert.Equal(t, uint16(0x402), c.PC)
}

func TestBinaryAdcOverflow(t *testing.T) {
	c := newTestChip()
	c.A = 0x50
	c.LoadBytes(0x600, []byte{0x69, 0x50})
	c.PC = 0x600

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xA0), c.A)
	assert.True(t, c.Flag(FlagNegative))
	assert.True(t, c.Flag(FlagOverflow))
	assert.False(t, c.Flag(FlagCarry))
	assert.False(t, c.Flag(FlagZero))
	assert.Equal(t, uint64(2), c.Cycles())
}

func TestDecimalAdc(t *testing.T) {
	c := newTestChip()
	c.A = 0x25
	c.SR = FlagDecimal
	c.LoadBytes(0x800, []byte{0x69, 0x48})
	c.PC = 0x800

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x73), c.A)
	assert.False(t, c.Flag(FlagCarry))
}

func TestJsrRtsRoundTrip(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x1000, []byte{0x20, 0x00, 0x20})
	c.LoadBytes(0x2000, []byte{0x60})
	c.PC = 0x1000
	c.SP = 0xFF

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x2000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.Equal(t, byte(0x02), c.ReadU8(0x01FE))
	assert.Equal(t, byte(0x10), c.ReadU8(0x01FF))
	assert.Equal(t, uint8(6), cycles)

	_, err = c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1003), c.PC)
	assert.Equal(t, uint8(0xFF), c.SP)
}

func TestBranchPageCrossing(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x10FD, []byte{0xD0, 0x05})
	c.PC = 0x10FD
	c.SetFlag(FlagZero, false)

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1104), c.PC)
	assert.Equal(t, uint8(4), cycles)
}

func TestBranchNotTaken(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x10FD, []byte{0xD0, 0x05})
	c.PC = 0x10FD
	c.SetFlag(FlagZero, true)

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x10FF), c.PC)
	assert.Equal(t, uint8(2), cycles)
}

func TestBrkVectoring(t *testing.T) {
	c := newTestChip()
	c.WriteU16(0xFFFE, 0x1234)
	c.LoadBytes(0x500, []byte{0x00})
	c.PC = 0x500
	c.SP = 0xFF

	_, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.PC)
	assert.True(t, c.Flag(FlagInterrupt))
	assert.Equal(t, uint8(0xFC), c.SP)

	pushed := c.ReadU8(0x01FD)
	assert.True(t, pushed&FlagBreak != 0)
	assert.True(t, pushed&FlagUnused != 0)
}

func TestInvalidOpcode(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x4000, []byte{0x02}) // undocumented
	c.PC = 0x4000

	_, err := c.Step()
	assert.Error(t, err)
	var invErr InvalidOpcodeError
	assert.ErrorAs(t, err, &invErr)
	assert.Equal(t, uint8(0x02), invErr.Opcode)
	assert.Equal(t, uint16(0x4000), invErr.PC)
}

func TestDecoderCoverage(t *testing.T) {
	for b := 0; b < 256; b++ {
		isInv := opTable[b] == OpInv
		modeInv := modeTable[b] == ModeInvalid
		assert.Equal(t, isInv, modeInv, "opcode 0x%02X: Inv/Invalid mismatch", b)
	}
}

func TestOperandLengthMatchesBytes(t *testing.T) {
	cases := map[AddressMode]int{
		ModeAcc: 0, ModeImp: 0, ModeInvalid: 0,
		ModeImm: 1, ModeZpg: 1, ModeZpx: 1, ModeZpy: 1,
		ModeInx: 1, ModeIny: 1, ModeRel: 1,
		ModeAbs: 2, ModeAbx: 2, ModeAby: 2, ModeInd: 2,
	}
	for mode, want := range cases {
		assert.Equal(t, want, mode.Bytes())
	}
}

func TestCmpCarryRule(t *testing.T) {
	c := newTestChip()
	c.A = 0x10
	c.LoadBytes(0x2000, []byte{0xC9, 0x10}) // CMP #$10
	c.PC = 0x2000
	_, err := c.Step()
	assert.NoError(t, err)
	assert.True(t, c.Flag(FlagCarry))
	assert.True(t, c.Flag(FlagZero))

	c2 := newTestChip()
	c2.A = 0x05
	c2.LoadBytes(0x2000, []byte{0xC9, 0x10})
	c2.PC = 0x2000
	_, err = c2.Step()
	assert.NoError(t, err)
	assert.False(t, c2.Flag(FlagCarry))
	assert.False(t, c2.Flag(FlagZero))
}

func TestJmpIndirectPageWrapQuirk(t *testing.T) {
	c := newTestChip()
	c.WriteU8(0x12FF, 0x34)
	c.WriteU8(0x1200, 0x12) // quirk: high byte read from 0x1200, not 0x1300
	c.WriteU8(0x1300, 0xFF)

	c.LoadBytes(0x3000, []byte{0x6C, 0xFF, 0x12}) // JMP ($12FF)
	c.PC = 0x3000

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.PC)
	assert.Equal(t, uint8(5), cycles)
}

func TestPhpSetsUnusedBit(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x4000, []byte{0x08}) // PHP
	c.PC = 0x4000
	_, err := c.Step()
	assert.NoError(t, err)
	pushed := c.ReadU8(uint16(0x0100) + uint16(c.SP) + 1)
	assert.True(t, pushed&FlagUnused != 0)
}

func TestPlpForcesUnusedBit(t *testing.T) {
	c := newTestChip()
	c.push(0xFF &^ (FlagUnused | FlagBreak)) // everything set except Unused and Break
	c.LoadBytes(0x4000, []byte{0x28})        // PLP
	c.PC = 0x4000

	_, err := c.Step()
	assert.NoError(t, err)
	assert.True(t, c.SR&FlagUnused != 0)
	assert.True(t, c.SR&FlagCarry != 0)
	assert.False(t, c.SR&FlagBreak != 0) // Break is always forced clear on pull
}

func TestRtiRestoresSrAndPc(t *testing.T) {
	c := newTestChip()
	c.pushU16(0x1234)
	c.push(FlagCarry | FlagBreak) // Break must be cleared, Unused forced on
	c.LoadBytes(0x4000, []byte{0x40}) // RTI
	c.PC = 0x4000

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.PC)
	assert.True(t, c.SR&FlagCarry != 0)
	assert.False(t, c.SR&FlagBreak != 0)
	assert.True(t, c.SR&FlagUnused != 0)
	assert.Equal(t, uint8(6), cycles)
}

func TestSpRemainsInStackPage(t *testing.T) {
	c := newTestChip()
	c.SP = 0x00
	c.push(0x42) // underflow-wraps to 0xFF
	assert.Equal(t, uint8(0xFF), c.SP)
}

func TestCyclesMonotonic(t *testing.T) {
	c := newTestChip()
	c.LoadBytes(0x8000, []byte{0xEA, 0xEA, 0xEA}) // NOP x3
	c.PC = 0x8000

	var total uint64
	for i := 0; i < 3; i++ {
		cycles, err := c.Step()
		assert.NoError(t, err)
		total += uint64(cycles)
		assert.Equal(t, total, c.Cycles())
	}
}

func TestResetVectorsPcAndRestoresDefaults(t *testing.T) {
	c := newTestChip()
	c.WriteU16(0xFFFC, 0x8042)
	c.SP = 0x12
	c.SetFlag(FlagInterrupt, false)

	c.Reset()

	assert.Equal(t, uint16(0x8042), c.PC)
	assert.Equal(t, uint8(0xFF), c.SP)
	assert.True(t, c.Flag(FlagInterrupt))
}

func TestNmiPushesPcAndSrThenVectors(t *testing.T) {
	c := newTestChip()
	c.WriteU16(0xFFFA, 0x9000)
	c.PC = 0x4000
	c.SR = FlagCarry
	c.SP = 0xFF

	c.NMI()

	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.Flag(FlagInterrupt))
	assert.Equal(t, uint8(0xFC), c.SP)
	assert.Equal(t, byte(0x00), c.ReadU8(0x01FE))
	assert.Equal(t, byte(0x40), c.ReadU8(0x01FF))
	pushedSR := c.ReadU8(0x01FD)
	assert.True(t, pushedSR&FlagUnused != 0)
	assert.True(t, pushedSR&FlagCarry != 0)
}

func TestIrqRespectsInterruptDisable(t *testing.T) {
	c := newTestChip()
	c.WriteU16(0xFFFE, 0xA000)
	c.PC = 0x4000
	c.SP = 0xFF
	c.SetFlag(FlagInterrupt, true)

	c.IRQ() // masked, must be a no-op

	assert.Equal(t, uint16(0x4000), c.PC)
	assert.Equal(t, uint8(0xFF), c.SP)

	c.SetFlag(FlagInterrupt, false)
	c.IRQ()

	assert.Equal(t, uint16(0xA000), c.PC)
	assert.Equal(t, uint8(0xFC), c.SP)
	assert.True(t, c.Flag(FlagInterrupt))
}

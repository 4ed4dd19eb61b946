package cpu

import "sixtwo/bcd"

// handlerFunc executes one decoded instruction body, evaluating its operand
// itself via evalOperand, and returns the number of cycles it consumed. By
// the time a handlerFunc runs, Step has already fetched the opcode byte and
// advanced PC past it.
type handlerFunc func(c *Chip, mode AddressMode) uint8

var handlers map[Operation]handlerFunc

func init() {
	handlers = map[Operation]handlerFunc{
		OpAdc: execAdc,
		OpSbc: execSbc,
		OpAnd: execAnd,
		OpOra: execOra,
		OpEor: execEor,
		OpCmp: execCompare(func(c *Chip) uint8 { return c.A }),
		OpCpx: execCompare(func(c *Chip) uint8 { return c.X }),
		OpCpy: execCompare(func(c *Chip) uint8 { return c.Y }),
		OpBit: execBit,
		OpLda: execLoad(func(c *Chip, v uint8) { c.A = v }),
		OpLdx: execLoad(func(c *Chip, v uint8) { c.X = v }),
		OpLdy: execLoad(func(c *Chip, v uint8) { c.Y = v }),
		OpSta: execStore(func(c *Chip) uint8 { return c.A }),
		OpStx: execStoreReadClass(func(c *Chip) uint8 { return c.X }),
		OpSty: execStoreReadClass(func(c *Chip) uint8 { return c.Y }),
		OpAsl: execShift(shiftAsl),
		OpLsr: execShift(shiftLsr),
		OpRol: execShift(shiftRol),
		OpRor: execShift(shiftRor),
		OpInc: execIncDec(1),
		OpDec: execIncDec(0xFF),
		OpInx: execRegIncDec(func(c *Chip) *uint8 { return &c.X }, 1),
		OpIny: execRegIncDec(func(c *Chip) *uint8 { return &c.Y }, 1),
		OpDex: execRegIncDec(func(c *Chip) *uint8 { return &c.X }, 0xFF),
		OpDey: execRegIncDec(func(c *Chip) *uint8 { return &c.Y }, 0xFF),
		OpTax: execTransfer(func(c *Chip) uint8 { return c.A }, func(c *Chip, v uint8) { c.X = v }, true),
		OpTay: execTransfer(func(c *Chip) uint8 { return c.A }, func(c *Chip, v uint8) { c.Y = v }, true),
		OpTsx: execTransfer(func(c *Chip) uint8 { return c.SP }, func(c *Chip, v uint8) { c.X = v }, true),
		OpTxa: execTransfer(func(c *Chip) uint8 { return c.X }, func(c *Chip, v uint8) { c.A = v }, true),
		OpTxs: execTransfer(func(c *Chip) uint8 { return c.X }, func(c *Chip, v uint8) { c.SP = v }, false),
		OpTya: execTransfer(func(c *Chip) uint8 { return c.Y }, func(c *Chip, v uint8) { c.A = v }, true),
		OpClc: execSetFlag(FlagCarry, false),
		OpSec: execSetFlag(FlagCarry, true),
		OpCld: execSetFlag(FlagDecimal, false),
		OpSed: execSetFlag(FlagDecimal, true),
		OpCli: execSetFlag(FlagInterrupt, false),
		OpSei: execSetFlag(FlagInterrupt, true),
		OpClv: execSetFlag(FlagOverflow, false),
		OpNop: func(c *Chip, mode AddressMode) uint8 { return 2 },
		OpPha: func(c *Chip, mode AddressMode) uint8 { c.push(c.A); return 3 },
		OpPhp: func(c *Chip, mode AddressMode) uint8 { c.push(c.SR | FlagBreak | FlagUnused); return 3 },
		OpPla: func(c *Chip, mode AddressMode) uint8 { c.A = c.pull(); c.setZN(c.A); return 4 },
		OpPlp: func(c *Chip, mode AddressMode) uint8 {
			sr := c.pull()
			c.SR = (sr &^ FlagBreak) | FlagUnused
			return 4
		},
		OpJmp: execJmp,
		OpJsr: execJsr,
		OpRts: execRts,
		OpBrk: execBrk,
		OpRti: execRti,
		OpBcc: execBranch(func(c *Chip) bool { return !c.Flag(FlagCarry) }),
		OpBcs: execBranch(func(c *Chip) bool { return c.Flag(FlagCarry) }),
		OpBeq: execBranch(func(c *Chip) bool { return c.Flag(FlagZero) }),
		OpBne: execBranch(func(c *Chip) bool { return !c.Flag(FlagZero) }),
		OpBmi: execBranch(func(c *Chip) bool { return c.Flag(FlagNegative) }),
		OpBpl: execBranch(func(c *Chip) bool { return !c.Flag(FlagNegative) }),
		OpBvs: execBranch(func(c *Chip) bool { return c.Flag(FlagOverflow) }),
		OpBvc: execBranch(func(c *Chip) bool { return !c.Flag(FlagOverflow) }),
	}
}

func execAdc(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	value := byte(operand.Value)
	a := c.A

	var result byte
	var carry bool
	if c.Flag(FlagDecimal) {
		result, carry = bcd.AddWithCarry(a, value, c.Flag(FlagCarry))
	} else {
		sum := uint16(a) + uint16(value)
		if c.Flag(FlagCarry) {
			sum++
		}
		carry = sum > 0xFF
		result = byte(sum)
	}

	overflow := (^(a ^ value) & (a ^ result) & 0x80) != 0
	c.SetFlag(FlagOverflow, overflow)
	c.SetFlag(FlagCarry, carry)
	c.setZN(result)
	c.A = result

	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execSbc(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	value := byte(operand.Value)
	a := c.A

	var result byte
	var borrow bool
	if c.Flag(FlagDecimal) {
		result, borrow = bcd.SubWithCarry(a, value, c.Flag(FlagCarry))
	} else {
		diff := int32(a) - int32(value)
		if !c.Flag(FlagCarry) {
			diff--
		}
		borrow = diff < 0
		result = byte(diff)
	}

	overflow := ((a ^ value) & (a ^ result) & 0x80) != 0
	c.SetFlag(FlagOverflow, overflow)
	c.SetFlag(FlagCarry, !borrow)
	c.setZN(result)
	c.A = result

	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execAnd(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	c.A &= byte(operand.Value)
	c.setZN(c.A)
	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execOra(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	c.A |= byte(operand.Value)
	c.setZN(c.A)
	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execEor(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	c.A ^= byte(operand.Value)
	c.setZN(c.A)
	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execCompare(reg func(c *Chip) uint8) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		r := reg(c)
		value := byte(operand.Value)
		result := r - value
		c.SetFlag(FlagNegative, result&0x80 != 0)
		c.SetFlag(FlagZero, r == value)
		c.SetFlag(FlagCarry, r >= value)
		return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
	}
}

func execBit(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	value := byte(operand.Value)
	c.SetFlag(FlagZero, c.A&value == 0)
	c.SetFlag(FlagNegative, value&0x80 != 0)
	c.SetFlag(FlagOverflow, value&0x40 != 0)
	return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
}

func execLoad(set func(c *Chip, v uint8)) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		v := byte(operand.Value)
		set(c, v)
		c.setZN(v)
		return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
	}
}

func execStore(get func(c *Chip) uint8) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		c.WriteU8(operand.Address, get(c))
		return cyclesFor(classStoreAccumulator, mode, operand.Base, operand.Address)
	}
}

func execStoreReadClass(get func(c *Chip) uint8) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		c.WriteU8(operand.Address, get(c))
		return cyclesFor(classReadOperand, mode, operand.Base, operand.Address)
	}
}

type shiftOp func(c *Chip, value byte) byte

func shiftAsl(c *Chip, value byte) byte {
	c.SetFlag(FlagCarry, value&0x80 != 0)
	return value << 1
}

func shiftLsr(c *Chip, value byte) byte {
	c.SetFlag(FlagCarry, value&0x01 != 0)
	return value >> 1
}

func shiftRol(c *Chip, value byte) byte {
	carryIn := c.Flag(FlagCarry)
	c.SetFlag(FlagCarry, value&0x80 != 0)
	result := value << 1
	if carryIn {
		result |= 0x01
	}
	return result
}

func shiftRor(c *Chip, value byte) byte {
	carryIn := c.Flag(FlagCarry)
	c.SetFlag(FlagCarry, value&0x01 != 0)
	result := value >> 1
	if carryIn {
		result |= 0x80
	}
	return result
}

func execShift(op shiftOp) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		result := op(c, byte(operand.Value))
		c.setZN(result)
		if mode == ModeAcc {
			c.A = result
		} else {
			c.WriteU8(operand.Address, result)
		}
		return cyclesFor(classReadModifyWrite, mode, operand.Base, operand.Address)
	}
}

func execIncDec(delta byte) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		result := byte(operand.Value) + delta
		c.WriteU8(operand.Address, result)
		c.setZN(result)
		return cyclesFor(classReadModifyWrite, mode, operand.Base, operand.Address)
	}
}

func execRegIncDec(reg func(c *Chip) *uint8, delta byte) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		p := reg(c)
		*p += delta
		c.setZN(*p)
		return 2
	}
}

func execTransfer(get func(c *Chip) uint8, set func(c *Chip, v uint8), affectsFlags bool) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		v := get(c)
		set(c, v)
		if affectsFlags {
			c.setZN(v)
		}
		return 2
	}
}

func execSetFlag(mask uint8, on bool) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		c.SetFlag(mask, on)
		return 2
	}
}

func execJmp(c *Chip, mode AddressMode) uint8 {
	operand := c.evalOperand(mode)
	c.PC = operand.Address
	return cyclesFor(classJump, mode, 0, 0)
}

func execJsr(c *Chip, mode AddressMode) uint8 {
	target := c.ReadU16(c.PC)
	returnAddr := c.PC + 1
	c.pushU16(returnAddr)
	c.PC = target
	return 6
}

func execRts(c *Chip, mode AddressMode) uint8 {
	addr := c.pullU16()
	c.PC = addr + 1
	return 6
}

func execBrk(c *Chip, mode AddressMode) uint8 {
	c.pushU16(c.PC + 1)
	c.push(c.SR | FlagBreak | FlagUnused)
	c.SetFlag(FlagInterrupt, true)
	c.PC = c.ReadU16(irqVector)
	return 7
}

func execRti(c *Chip, mode AddressMode) uint8 {
	sr := c.pull()
	c.SR = (sr &^ FlagBreak) | FlagUnused
	c.PC = c.pullU16()
	return 6
}

func execBranch(condition func(c *Chip) bool) handlerFunc {
	return func(c *Chip, mode AddressMode) uint8 {
		operand := c.evalOperand(mode)
		pcAfterOperand := c.PC
		if condition(c) {
			c.PC = operand.Address
			return branchCycles(pcAfterOperand, operand.Address)
		}
		return branchNotTakenCycles
	}
}

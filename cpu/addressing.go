package cpu

// evalOperand evaluates the addressing mode at the current PC, advancing PC
// past any operand bytes, and returns the value read (if any) together with
// the effective address it came from. Handlers that need to write back
// (INC, ASL, ...) use Operand.Address; handlers that only read (LDA, ADC,
// ...) use Operand.Value.
func (c *Chip) evalOperand(mode AddressMode) Operand {
	switch mode {
	case ModeAcc:
		return Operand{Value: uint16(c.A)}

	case ModeImp:
		return Operand{}

	case ModeImm:
		addr := c.PC
		c.PC++
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeZpg:
		addr := uint16(c.ReadU8(c.PC))
		c.PC++
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeZpx:
		addr := uint16(byte(c.ReadU8(c.PC) + c.X))
		c.PC++
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeZpy:
		addr := uint16(byte(c.ReadU8(c.PC) + c.Y))
		c.PC++
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeAbs:
		addr := c.ReadU16(c.PC)
		c.PC += 2
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeAbx:
		base := c.ReadU16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: base}

	case ModeAby:
		base := c.ReadU16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: base}

	case ModeInd:
		pointer := c.ReadU16(c.PC)
		c.PC += 2
		addr := c.readIndirectQuirked(pointer)
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeInx:
		ptr := byte(c.ReadU8(c.PC) + c.X)
		c.PC++
		addr := c.readZeroPageU16(ptr)
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: addr}

	case ModeIny:
		ptr := c.ReadU8(c.PC)
		c.PC++
		base := c.readZeroPageU16(ptr)
		addr := base + uint16(c.Y)
		return Operand{Value: uint16(c.ReadU8(addr)), Address: addr, Base: base}

	case ModeRel:
		offset := int8(c.ReadU8(c.PC))
		c.PC++
		addr := uint16(int32(c.PC) + int32(offset))
		return Operand{Address: addr, Base: addr}

	default: // ModeInvalid
		return Operand{}
	}
}

// readZeroPageU16 reads a little-endian word from the zero page starting at
// ptr, wrapping the high-byte fetch within page zero (ptr=0xFF reads its
// high byte from 0x00, not 0x100). This is standard 6502 behaviour for the
// (zp,X) and (zp),Y addressing modes.
func (c *Chip) readZeroPageU16(ptr byte) uint16 {
	lo := c.ReadU8(uint16(ptr))
	hi := c.ReadU8(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// readIndirectQuirked implements the JMP (indirect) hardware bug: if the
// low byte of pointer is 0xFF, the high byte of the target is fetched from
// the start of the same page instead of the start of the next page.
func (c *Chip) readIndirectQuirked(pointer uint16) uint16 {
	lo := c.ReadU8(pointer)
	hiAddr := (pointer & 0xFF00) | uint16(byte(pointer)+1)
	hi := c.ReadU8(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// Package mem provides the flat 64 KiB address space that backs a single
// 6502 core.
package mem

// Bus is the MOS 6502's address space: 64 KiB of linear memory, zeroed on
// construction. A Bus is meant to be embedded by value inside the CPU that
// owns it, not shared by pointer across components; a future system
// emulator that needs to mux RAM, ROM banks and memory-mapped peripherals
// onto this space would replace Bus with a layered implementation behind
// the same Read/Write contract.
type Bus struct {
	RAM [0x10000]byte
}

// Read returns the byte at addr.
func (b *Bus) Read(addr uint16) byte {
	return b.RAM[addr]
}

// Write stores val at addr.
func (b *Bus) Write(addr uint16, val byte) {
	b.RAM[addr] = val
}

// Load copies data into the bus starting at addr, wrapping at 0xFFFF.
func (b *Bus) Load(addr uint16, data []byte) {
	for i, v := range data {
		b.RAM[(int(addr)+i)&0xFFFF] = v
	}
}

// Dump returns a copy of the full 64 KiB image.
func (b *Bus) Dump() []byte {
	out := make([]byte, len(b.RAM))
	copy(out, b.RAM[:])
	return out
}

// Package bcd implements packed binary-coded decimal arithmetic on a single
// byte: two decimal digits, high digit in bits 7-4, low digit in bits 3-0.
package bcd

import (
	"fmt"

	"sixtwo/mask"
)

// RangeError reports a value that cannot be packed into two BCD digits.
type RangeError struct {
	N uint16
}

func (e RangeError) Error() string {
	return fmt.Sprintf("bcd: %d is out of range [0,99]", e.N)
}

// FromDecimal packs n (0..99) into a BCD byte: (n/10)<<4 | (n%10).
func FromDecimal(n uint16) (byte, error) {
	if n > 99 {
		return 0, RangeError{N: n}
	}
	hi := byte(n / 10)
	lo := byte(n % 10)
	return hi<<4 | lo, nil
}

// ToDecimal unpacks a BCD byte into its decimal value (0..99). Inputs whose
// nibbles exceed 9 are not valid BCD; ToDecimal does not reject them, it
// just produces a deterministic (if meaningless) result.
func ToDecimal(b byte) uint8 {
	hi := mask.First(b, mask.I4)
	lo := mask.Last(b, mask.I4)
	return hi*10 + lo
}

// AddWithCarry adds a and b as packed BCD digits, nibble by nibble, with an
// incoming carry. It returns the packed sum and the outgoing carry.
func AddWithCarry(a, b byte, carryIn bool) (result byte, carryOut bool) {
	lo := mask.Last(a, mask.I4) + mask.Last(b, mask.I4)
	if carryIn {
		lo++
	}

	hi := mask.First(a, mask.I4) + mask.First(b, mask.I4)

	if lo > 9 {
		lo -= 10
		hi++
	}

	if hi > 9 {
		hi -= 10
		carryOut = true
	}

	return hi<<4 | lo, carryOut
}

// SubWithCarry subtracts b from a as packed BCD digits, nibble by nibble.
// carryIn == true means "no borrow"; carryOut == true means a borrow
// occurred. Callers mapping this onto the 6502's Carry flag (set == no
// borrow) must complement carryOut themselves.
func SubWithCarry(a, b byte, carryIn bool) (result byte, carryOut bool) {
	loA := int8(mask.Last(a, mask.I4))
	loB := int8(mask.Last(b, mask.I4))
	hiA := int8(mask.First(a, mask.I4))
	hiB := int8(mask.First(b, mask.I4))

	borrow := int8(0)
	if !carryIn {
		borrow = 1
	}

	lo := loA - loB - borrow
	hiBorrow := int8(0)
	if lo < 0 {
		lo += 10
		hiBorrow = 1
	}

	hi := hiA - hiB - hiBorrow
	if hi < 0 {
		hi += 10
		carryOut = true
	}

	return byte(hi)<<4 | byte(lo), carryOut
}

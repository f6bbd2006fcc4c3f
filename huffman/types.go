// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package huffman implements a two-pass Huffman coder for line-oriented UTF-8 text.

A FrequencyTable is counted from a text stream, BuildTree merges the two lightest subtrees until a single root
remains, AssignCodes derives a prefix-free CodeTable from the tree, Encode re-reads the text emitting packed
bits, and Decode walks the same tree to reconstruct the symbols.  The end of every input line is represented by
the explicit Terminator symbol.  No tree serialization is defined; a tree must be kept in memory alongside the
bits it encoded.
*/
package huffman

import (
	"fmt"
	"strconv"
)

// Symbol is one unit of the input alphabet: a rune of text, or Terminator.
type Symbol rune

// Terminator is the symbol emitted once at the end of every input line.
const Terminator Symbol = '\n'

func (sym Symbol) String() string {
	if sym == Terminator {
		return `\n`
	}
	return strconv.QuoteRune(rune(sym))
}

// BitString represents a packed bit string.  Within each octet, bits are addressed most significant first.
//
// Invariants:
//   - 0 <= BitLength <= len(Packed)*8
//   - if BitLength%8 != 0, the low (8 - BitLength%8) bits of Packed[BitLength/8] are zero
type BitString struct {
	Packed    []uint8
	BitLength int
}

// Len returns the number of bits in bs.
func (bs BitString) Len() int {
	return bs.BitLength
}

// Bit returns bit i of bs, where 0 <= i < bs.BitLength.
func (bs BitString) Bit(i int) bool {
	if !(0 <= i && i < bs.BitLength) {
		panic("huffman: bit index out of range")
	}

	// Conversion safety: 0 <= i%8 <= 7.
	return (bs.Packed[i/8]>>uint(7-i%8))&1 == 1
}

// Append returns bs with one more bit at the end.  The packed storage of bs may be shared with the result.
func (bs BitString) Append(bit bool) BitString {
	if bs.BitLength == len(bs.Packed)*8 {
		bs.Packed = append(bs.Packed, 0)
	}
	if bit {
		bs.Packed[bs.BitLength/8] |= 1 << uint(7-bs.BitLength%8)
	}
	bs.BitLength++
	return bs
}

// Clone returns a copy of bs that shares no storage with it.
func (bs BitString) Clone() BitString {
	packed := make([]uint8, (bs.BitLength+7)/8)
	copy(packed, bs.Packed)
	return BitString{packed, bs.BitLength}
}

// HasPrefix returns true iff the first prefix.BitLength bits of bs equal prefix.
func (bs BitString) HasPrefix(prefix BitString) bool {
	if prefix.BitLength > bs.BitLength {
		return false
	}
	for i := 0; i < prefix.BitLength; i++ {
		if bs.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// Equal returns true iff bs and other hold the same bits.
func (bs BitString) Equal(other BitString) bool {
	return bs.BitLength == other.BitLength && bs.HasPrefix(other)
}

// Validate returns a *MalformedBitsError if BitLength is negative or needs more octets than Packed holds.
func (bs BitString) Validate() error {
	if !(0 <= bs.BitLength && bs.BitLength <= len(bs.Packed)*8) {
		return &MalformedBitsError{0, fmt.Sprintf("length %d exceeds %d octets", bs.BitLength, len(bs.Packed))}
	}
	return nil
}

// check panics if any of the invariants are invalid for bs.
func (bs BitString) check() {
	switch {
	case !(0 <= bs.BitLength):
		panic("huffman: bit string with negative length")
	case !(bs.BitLength <= len(bs.Packed)*8):
		panic("huffman: bit string with insufficient octets to represent it")
	}

	if bs.BitLength%8 != 0 {
		// Conversion safety: 0 < bs.BitLength%8 <= 7.
		shift := uint(8 - bs.BitLength%8)
		lowBits := bs.Packed[bs.BitLength/8] & (uint8(1)<<shift - 1)
		if lowBits != 0 {
			panic("huffman: bit string with extraneous nonzero bits in representation")
		}
	}
}

func (bs BitString) String() string {
	prefix := []rune{'#', '*'}
	allRunes := make([]rune, len(prefix)+bs.BitLength)
	copy(allRunes, prefix)

	bitRunes := allRunes[len(prefix):]
	for i := range bitRunes {
		if bs.Bit(i) {
			bitRunes[i] = '1'
		} else {
			bitRunes[i] = '0'
		}
	}

	return string(allRunes)
}

// ParseBitString parses a string of '0' and '1' characters, optionally prefixed by "#*" as produced by
// BitString.String.
func ParseBitString(str string) (BitString, error) {
	if len(str) >= 2 && str[:2] == "#*" {
		str = str[2:]
	}

	var bs BitString
	for i, c := range str {
		switch c {
		case '0':
			bs = bs.Append(false)
		case '1':
			bs = bs.Append(true)
		default:
			return BitString{}, &MalformedBitsError{Offset: i, Reason: "character " + strconv.QuoteRune(c)}
		}
	}
	return bs, nil
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// TrailingPolicy says what Decode does with bits left over after the last complete symbol.
type TrailingPolicy int

const (
	// TrailingError fails decoding with a *MalformedBitsError.
	TrailingError TrailingPolicy = iota
	// TrailingDrop discards the partial symbol.
	TrailingDrop
)

func (policy TrailingPolicy) String() string {
	switch policy {
	case TrailingError:
		return "error"
	case TrailingDrop:
		return "drop"
	default:
		return fmt.Sprintf("TrailingPolicy(%d)", int(policy))
	}
}

// ParseTrailingPolicy is the inverse of TrailingPolicy.String.
func ParseTrailingPolicy(str string) (TrailingPolicy, bool) {
	switch str {
	case "error":
		return TrailingError, true
	case "drop":
		return TrailingDrop, true
	default:
		return TrailingError, false
	}
}

// Decode walks root from the top for every symbol of bits, descending left on 0 and right on 1, and emits a
// symbol on reaching a leaf.  Decoding runs until bits are exhausted.  When root is a lone leaf, each 0 bit
// stands for its symbol and a 1 bit is malformed.
func Decode(root *Node, bits BitString, policy TrailingPolicy) ([]Symbol, error) {
	syms, _, err := DecodeN(root, bits, -1, policy)
	return syms, err
}

// DecodeN is like Decode, but stops after n symbols if n >= 0.  It also returns the number of bits consumed,
// which is less than bits.BitLength if decoding stopped early or dropped a partial symbol.
func DecodeN(root *Node, bits BitString, n int, policy TrailingPolicy) (syms []Symbol, consumed int, err error) {
	if root == nil {
		return nil, 0, ErrNilTree
	}
	if err = bits.Validate(); err != nil {
		return nil, 0, err
	}

	br := bitio.NewReader(bytes.NewReader(bits.Packed))
	node, start := root, 0
	for pos := 0; pos < bits.BitLength && (n < 0 || len(syms) < n); pos++ {
		bit, rerr := br.ReadBool()
		if rerr != nil {
			return nil, 0, fmt.Errorf("huffman: reading bit %d: %w", pos, rerr)
		}

		switch {
		case root.Leaf() && bit:
			return nil, 0, &MalformedBitsError{pos, "1 bit under a single-symbol tree"}
		case root.Leaf():
			// node stays at root.
		case bit:
			node = node.Right
		default:
			node = node.Left
		}

		if node.Leaf() {
			syms = append(syms, node.Symbol)
			node, start = root, pos+1
		}
	}

	if start < bits.BitLength && (n < 0 || len(syms) < n) {
		if policy != TrailingDrop {
			return nil, 0, &MalformedBitsError{start, fmt.Sprintf("%d trailing bits end inside a codeword", bits.BitLength-start)}
		}
	}
	return syms, start, nil
}

// DecodeString is Decode with the symbols joined into text.  Terminators appear as "\n".
func DecodeString(root *Node, bits BitString, policy TrailingPolicy) (string, error) {
	syms, err := Decode(root, bits, policy)
	if err != nil {
		return "", err
	}
	return JoinSymbols(syms), nil
}

// JoinSymbols concatenates syms into text.
func JoinSymbols(syms []Symbol) string {
	runes := make([]rune, len(syms))
	for i, sym := range syms {
		runes[i] = rune(sym)
	}
	return string(runes)
}

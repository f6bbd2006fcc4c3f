// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAlphabet  = errors.New("huffman: empty alphabet")
	ErrSymbolNotFound = errors.New("huffman: symbol not found in code table")
	ErrMalformedBits  = errors.New("huffman: malformed bit sequence")
	ErrInvalidText    = errors.New("huffman: input is not valid UTF-8")
	ErrNilTree        = errors.New("huffman: nil tree")
)

// SymbolNotFoundError reports a symbol encountered during bit emission that has no code.  It usually means
// the two passes over the input did not see the same text.
type SymbolNotFoundError struct {
	Symbol Symbol
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("huffman: symbol %v not found in code table", e.Symbol)
}

func (e *SymbolNotFoundError) Is(target error) bool {
	return target == ErrSymbolNotFound
}

// MalformedBitsError reports a bit sequence that cannot be decoded against a tree.  Offset is the index of the
// bit at which the problem was detected.
type MalformedBitsError struct {
	Offset int
	Reason string
}

func (e *MalformedBitsError) Error() string {
	return fmt.Sprintf("huffman: malformed bit sequence at bit %d: %s", e.Offset, e.Reason)
}

func (e *MalformedBitsError) Is(target error) bool {
	return target == ErrMalformedBits
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// bitSink accumulates codewords into a packed, most-significant-first BitString.
type bitSink struct {
	buf   bytes.Buffer
	w     *bitio.Writer
	nbits int
}

func newBitSink() *bitSink {
	sink := &bitSink{}
	sink.w = bitio.NewWriter(&sink.buf)
	return sink
}

func (sink *bitSink) writeCode(code BitString) error {
	whole, tail := code.BitLength/8, code.BitLength%8
	for i := 0; i < whole; i++ {
		if err := sink.w.WriteBits(uint64(code.Packed[i]), 8); err != nil {
			return err
		}
	}
	if tail > 0 {
		// Conversion safety: 0 < tail <= 7.
		if err := sink.w.WriteBits(uint64(code.Packed[whole]>>uint(8-tail)), uint8(tail)); err != nil {
			return err
		}
	}
	sink.nbits += code.BitLength
	return nil
}

// finish pads the final octet with zero bits and returns the result.
func (sink *bitSink) finish() (BitString, error) {
	if err := sink.w.Close(); err != nil {
		return BitString{}, err
	}
	bs := BitString{sink.buf.Bytes(), sink.nbits}
	bs.check()
	return bs, nil
}

// Encode re-reads the text in r and emits the code of every symbol, in order, as one bit sequence.  Every
// symbol of r must have a code; otherwise a *SymbolNotFoundError is returned and no bits are.
func Encode(r io.Reader, codes CodeTable) (BitString, error) {
	sink := newBitSink()
	_, err := EachSymbol(r, func(sym Symbol) error {
		code, err := codes.Lookup(sym)
		if err != nil {
			return err
		}
		return sink.writeCode(code)
	})
	if err != nil {
		return BitString{}, err
	}
	return sink.finish()
}

// EncodeSymbols is Encode over an already tokenized symbol sequence.
func EncodeSymbols(syms []Symbol, codes CodeTable) (BitString, error) {
	sink := newBitSink()
	for _, sym := range syms {
		code, err := codes.Lookup(sym)
		if err != nil {
			return BitString{}, err
		}
		if err = sink.writeCode(code); err != nil {
			return BitString{}, err
		}
	}
	return sink.finish()
}

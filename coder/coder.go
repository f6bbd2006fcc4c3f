// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package coder binds the huffman codec to a rewindable text source.

Use Open to attach a Coder to a file, or New for any io.ReadSeeker.  Encode reads the source twice, once to
count symbols and once to emit bits, and keeps the resulting tree so that Decode can reverse the bits it
produced.  A Coder is not safe for concurrent use; separate Coders share nothing and may run in parallel.
*/
package coder

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dchest/skein"
	"github.com/op/go-logging"

	"github.com/blanu/piedpiper/huffman"
)

var log = logging.MustGetLogger("piedpiper/coder")

// Stats summarizes the most recent successful encoding of a Coder.
type Stats struct {
	Lines    int
	Symbols  uint64
	Distinct int
	Bits     int
	MaxDepth int
}

// Bytes returns the number of whole octets the encoded bits occupy.
func (st Stats) Bytes() int {
	return st.Bits / 8
}

// Coder holds a text source and the tree and code table of its last encoding.
type Coder struct {
	name   string
	src    io.ReadSeeker
	closed bool
	params Params

	freqs huffman.FrequencyTable
	root  *huffman.Node
	codes huffman.CodeTable
	stats Stats
}

// Open opens the file at path for reading.  It does not read any content yet.  params may be nil to use
// DefParams.
func Open(path string, params *Params) (*Coder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return New(path, f, params), nil
}

// New constructs a Coder over src.  If src is also an io.Closer, Close closes it.  name is used only in log
// messages.
func New(name string, src io.ReadSeeker, params *Params) *Coder {
	if params == nil {
		def := DefParams()
		params = &def
	}
	return &Coder{
		name:   name,
		src:    src,
		params: *params,
	}
}

// Close releases the source.  Close is idempotent.
func (c *Coder) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Coder) rewind() error {
	if _, err := c.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("coder: rewinding %s: %w", c.name, err)
	}
	return nil
}

// Encode counts the symbols of the source, builds a tree and code table from the counts, rewinds the source
// and emits the code of every symbol.  On success the tree replaces any tree from an earlier Encode; on error
// the Coder is left as it was and no bits are returned.
func (c *Coder) Encode(ctx context.Context) (huffman.BitString, error) {
	if c.closed {
		return huffman.BitString{}, ErrClosed
	}
	if err := c.rewind(); err != nil {
		return huffman.BitString{}, err
	}

	freqs, err := huffman.CountSymbols(c.src)
	if err != nil {
		log.Errorf("%s: counting symbols: %v", c.name, err)
		return huffman.BitString{}, err
	}

	root, err := huffman.BuildTree(freqs)
	if err != nil {
		return huffman.BitString{}, fmt.Errorf("coder: %s: %w", c.name, err)
	}

	codes, err := huffman.AssignCodes(root)
	if err != nil {
		return huffman.BitString{}, err
	}
	if c.params.VerifyPrefix {
		if err = codes.PrefixFree(); err != nil {
			return huffman.BitString{}, err
		}
	}
	log.Debugf("%s: %d distinct symbols, tree depth %d", c.name, len(freqs), root.Depth())
	log.Debugf("%s: %v", c.name, codes)

	if err = ctx.Err(); err != nil {
		return huffman.BitString{}, err
	}
	if err = c.rewind(); err != nil {
		return huffman.BitString{}, err
	}

	bits, err := huffman.Encode(c.src, codes)
	if err != nil {
		log.Errorf("%s: emitting bits: %v", c.name, err)
		return huffman.BitString{}, err
	}

	c.freqs, c.root, c.codes = freqs, root, codes
	c.stats = Stats{
		Lines:    int(freqs[huffman.Terminator]),
		Symbols:  freqs.Total(),
		Distinct: len(freqs),
		Bits:     bits.Len(),
		MaxDepth: root.Depth(),
	}
	log.Infof("%s: encoded %d symbols into %d bits", c.name, c.stats.Symbols, c.stats.Bits)
	return bits, nil
}

// Decode reverses bits with the tree of the last successful Encode.  Line terminators come back as "\n".
func (c *Coder) Decode(bits huffman.BitString) (string, error) {
	if c.root == nil {
		return "", ErrNoTree
	}

	text, err := huffman.DecodeString(c.root, bits, c.params.Trailing)
	if err != nil {
		log.Errorf("%s: decoding: %v", c.name, err)
		return "", err
	}
	log.Debugf("%s: decoded %d bits into %d bytes", c.name, bits.Len(), len(text))
	return text, nil
}

// Tree returns the tree of the last successful Encode, or nil.
func (c *Coder) Tree() *huffman.Node {
	return c.root
}

// Codes returns the code table of the last successful Encode, or nil.
func (c *Coder) Codes() huffman.CodeTable {
	return c.codes
}

// Frequencies returns the symbol counts of the last successful Encode, or nil.
func (c *Coder) Frequencies() huffman.FrequencyTable {
	return c.freqs
}

// Stats returns the statistics of the last successful Encode.
func (c *Coder) Stats() Stats {
	return c.stats
}

// Fingerprint returns a Skein-256 digest of the length and packed content of bits.  Equal bit sequences have
// equal fingerprints regardless of padding storage beyond the last octet.
func Fingerprint(bits huffman.BitString) (sum [32]byte, err error) {
	if err = bits.Validate(); err != nil {
		return sum, err
	}
	h := skein.New(32, nil)

	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(bits.BitLength))
	h.Write(length[:])
	h.Write(bits.Packed[:(bits.BitLength+7)/8])

	copy(sum[:], h.Sum(nil))
	return sum, nil
}

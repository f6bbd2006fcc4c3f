// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package coder_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blanu/piedpiper/coder"
	"github.com/blanu/piedpiper/huffman"
)

const sonnet = `Shall I compare thee to a summer's day?
Thou art more lovely and more temperate:
Rough winds do shake the darling buds of May,
And summer's lease hath all too short a date;
`

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func openFile(t *testing.T, content string, params *coder.Params) *coder.Coder {
	c, err := coder.Open(writeFile(t, content), params)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// shiftingSource serves a different text after every rewind.
type shiftingSource struct {
	texts []string
	seeks int
	cur   *strings.Reader
}

func (s *shiftingSource) Read(p []byte) (int, error) {
	if s.cur == nil {
		return 0, io.EOF
	}
	return s.cur.Read(p)
}

func (s *shiftingSource) Seek(offset int64, whence int) (int64, error) {
	i := s.seeks
	if i >= len(s.texts) {
		i = len(s.texts) - 1
	}
	s.seeks++
	s.cur = strings.NewReader(s.texts[i])
	return s.cur.Seek(offset, whence)
}

// failingSource fails every Seek after the first seekOK and every Read after the first readOK.
type failingSource struct {
	io.ReadSeeker
	err            error
	seekOK, readOK int
}

func (s *failingSource) Seek(offset int64, whence int) (int64, error) {
	if s.seekOK <= 0 {
		return 0, s.err
	}
	s.seekOK--
	return s.ReadSeeker.Seek(offset, whence)
}

func (s *failingSource) Read(p []byte) (int, error) {
	if s.readOK <= 0 {
		return 0, s.err
	}
	s.readOK--
	return s.ReadSeeker.Read(p)
}

func mustFingerprint(t *testing.T, bits huffman.BitString) [32]byte {
	sum, err := coder.Fingerprint(bits)
	require.NoError(t, err)
	return sum
}

func TestRoundTrip(t *testing.T) {
	c := openFile(t, sonnet, nil)

	bits, err := c.Encode(context.Background())
	require.NoError(t, err)

	text, err := c.Decode(bits)
	require.NoError(t, err)
	require.Equal(t, sonnet, text)

	st := c.Stats()
	require.Equal(t, 4, st.Lines)
	require.Equal(t, uint64(len(sonnet)), st.Symbols)
	require.Equal(t, len(c.Frequencies()), st.Distinct)
	require.Equal(t, bits.Len(), st.Bits)
	require.Less(t, st.Bytes(), len(sonnet))
	require.NoError(t, c.Codes().PrefixFree())
}

func TestMissingFinalNewline(t *testing.T) {
	c := openFile(t, "aaab", nil)

	bits, err := c.Encode(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, bits.Len())

	text, err := c.Decode(bits)
	require.NoError(t, err)
	require.Equal(t, "aaab\n", text)
}

func TestOpenMissing(t *testing.T) {
	_, err := coder.Open(filepath.Join(t.TempDir(), "absent.txt"), nil)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDecodeBeforeEncode(t *testing.T) {
	c := openFile(t, sonnet, nil)

	_, err := c.Decode(huffman.BitString{})
	require.ErrorIs(t, err, coder.ErrNoTree)
}

func TestEmptyFile(t *testing.T) {
	c := openFile(t, "", nil)

	_, err := c.Encode(context.Background())
	require.ErrorIs(t, err, huffman.ErrEmptyAlphabet)
	require.Nil(t, c.Tree())

	_, err = c.Decode(huffman.BitString{})
	require.ErrorIs(t, err, coder.ErrNoTree)
}

func TestEncodeIsRepeatable(t *testing.T) {
	c := openFile(t, sonnet, nil)

	first, err := c.Encode(context.Background())
	require.NoError(t, err)
	second, err := c.Encode(context.Background())
	require.NoError(t, err)

	require.True(t, first.Equal(second))
	require.Equal(t, mustFingerprint(t, first), mustFingerprint(t, second))

	other := openFile(t, sonnet+"x\n", nil)
	third, err := other.Encode(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, mustFingerprint(t, first), mustFingerprint(t, third))
}

func TestPassMismatch(t *testing.T) {
	src := &shiftingSource{texts: []string{"abab\n", "abc\n"}}
	c := coder.New("shifting", src, nil)

	_, err := c.Encode(context.Background())
	require.ErrorIs(t, err, huffman.ErrSymbolNotFound)
	require.Nil(t, c.Tree())
}

func TestFailedEncodeKeepsTree(t *testing.T) {
	src := &shiftingSource{texts: []string{"abab\n", "abab\n", "", ""}}
	c := coder.New("shifting", src, nil)

	bits, err := c.Encode(context.Background())
	require.NoError(t, err)
	tree := c.Tree()

	_, err = c.Encode(context.Background())
	require.ErrorIs(t, err, huffman.ErrEmptyAlphabet)
	require.Same(t, tree, c.Tree())

	text, err := c.Decode(bits)
	require.NoError(t, err)
	require.Equal(t, "abab\n", text)
}

func TestSeekError(t *testing.T) {
	boom := errors.New("tape jammed")

	for _, tt := range []struct {
		name   string
		seekOK int
	}{
		{"first pass", 0},
		{"second pass", 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			src := &failingSource{ReadSeeker: strings.NewReader(sonnet), err: boom, seekOK: tt.seekOK, readOK: 100}
			c := coder.New("jammed", src, nil)

			bits, err := c.Encode(context.Background())
			require.ErrorIs(t, err, boom)
			require.Contains(t, err.Error(), "rewinding jammed")
			require.Zero(t, bits.Len())
			require.Nil(t, c.Tree())
			require.Nil(t, c.Codes())
		})
	}
}

func TestReadError(t *testing.T) {
	boom := errors.New("bad sector")
	src := &failingSource{ReadSeeker: strings.NewReader(sonnet), err: boom, seekOK: 2, readOK: 0}
	c := coder.New("bad", src, nil)

	_, err := c.Encode(context.Background())
	require.ErrorIs(t, err, boom)
	require.Nil(t, c.Tree())
	require.Nil(t, c.Frequencies())
	require.Zero(t, c.Stats())
}

func TestCanceled(t *testing.T) {
	c := openFile(t, sonnet, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Encode(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, c.Tree())
}

func TestClosed(t *testing.T) {
	c := openFile(t, sonnet, nil)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Encode(context.Background())
	require.ErrorIs(t, err, coder.ErrClosed)
}

func TestTrailingPolicy(t *testing.T) {
	for _, tt := range []struct {
		trailing string
		wantErr  error
	}{
		{"error", huffman.ErrMalformedBits},
		{"drop", nil},
	} {
		t.Run(tt.trailing, func(t *testing.T) {
			params, err := coder.ParseParams(map[string]string{"trailing": tt.trailing})
			require.NoError(t, err)

			c := openFile(t, "aaab\n", params)
			bits, err := c.Encode(context.Background())
			require.NoError(t, err)

			text, err := c.Decode(bits.Clone().Append(false))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "aaab\n", text)
		})
	}
}

func TestParseParams(t *testing.T) {
	params, err := coder.ParseParams(nil)
	require.NoError(t, err)
	require.Equal(t, coder.DefParams(), *params)

	params, err = coder.ParseParams(map[string]string{"trailing": "drop", "verify": "true"})
	require.NoError(t, err)
	require.Equal(t, huffman.TrailingDrop, params.Trailing)
	require.True(t, params.VerifyPrefix)
	require.Equal(t, map[string]string{"trailing": "drop", "verify": "true"}, params.Unparse())

	var pe *coder.ParameterError

	_, err = coder.ParseParams(map[string]string{"bogus": "1"})
	require.True(t, errors.As(err, &pe))
	require.Equal(t, coder.ParameterUnexpected, pe.How)
	require.Equal(t, "bogus", pe.Specific)

	_, err = coder.ParseParams(map[string]string{"trailing": "maybe"})
	require.True(t, errors.As(err, &pe))
	require.Equal(t, coder.ParameterInvalid, pe.How)
	require.Equal(t, "coder: invalid trailing policy 'maybe'", err.Error())
}

func TestVerifyPrefix(t *testing.T) {
	c := openFile(t, sonnet, &coder.Params{VerifyPrefix: true})

	bits, err := c.Encode(context.Background())
	require.NoError(t, err)
	require.NotZero(t, bits.Len())
}

func TestFingerprintIgnoresSpareStorage(t *testing.T) {
	bits, err := huffman.ParseBitString("1011")
	require.NoError(t, err)

	spare := huffman.BitString{Packed: append(bits.Clone().Packed, 0xff, 0xff), BitLength: bits.BitLength}
	require.Equal(t, mustFingerprint(t, bits), mustFingerprint(t, spare))
}

func TestFingerprintMalformed(t *testing.T) {
	for _, bits := range []huffman.BitString{
		{Packed: []uint8{0xf0}, BitLength: 12},
		{Packed: nil, BitLength: 1},
		{Packed: []uint8{0xf0}, BitLength: -3},
	} {
		_, err := coder.Fingerprint(bits)
		require.ErrorIs(t, err, huffman.ErrMalformedBits, "length %d", bits.BitLength)
	}
}

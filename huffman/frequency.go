// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// EachSymbol reads r line by line and calls fn for every rune of every line, followed by Terminator once per
// line.  A trailing "\r\n" or "\n" ends a line and is not itself passed to fn; a final line without a newline
// still ends with Terminator.  EachSymbol stops at the first error from r or fn.  It returns the number of
// lines read.
func EachSymbol(r io.Reader, fn func(Symbol) error) (lines int, err error) {
	br := bufio.NewReader(r)

	for {
		line, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return lines, fmt.Errorf("huffman: reading line %d: %w", lines+1, rerr)
		}
		if line == "" && rerr == io.EOF {
			return lines, nil
		}

		line = trimNewline(line)
		if !utf8.ValidString(line) {
			return lines, fmt.Errorf("huffman: reading line %d: %w", lines+1, ErrInvalidText)
		}

		for _, c := range line {
			if err = fn(Symbol(c)); err != nil {
				return lines, err
			}
		}
		if err = fn(Terminator); err != nil {
			return lines, err
		}
		lines++

		if rerr == io.EOF {
			return lines, nil
		}
	}
}

// trimNewline removes a final "\n" and a "\r" just before it.  A lone final "\r" is part of the line.
func trimNewline(line string) string {
	if !strings.HasSuffix(line, "\n") {
		return line
	}
	return strings.TrimSuffix(line[:len(line)-1], "\r")
}

// FrequencyTable maps each symbol to the number of times it occurs.
type FrequencyTable map[Symbol]uint64

// CountSymbols builds a FrequencyTable from a single full pass over r.  On error no table is returned.
func CountSymbols(r io.Reader) (FrequencyTable, error) {
	freqs := make(FrequencyTable)
	_, err := EachSymbol(r, func(sym Symbol) error {
		freqs[sym]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freqs, nil
}

// CountString counts the symbols SplitSymbols yields for text.
func CountString(text string) FrequencyTable {
	freqs := make(FrequencyTable)
	for _, sym := range SplitSymbols(text) {
		freqs[sym]++
	}
	return freqs
}

// SplitSymbols returns the symbol sequence EachSymbol would produce for text.  Invalid UTF-8 sequences become
// utf8.RuneError symbols.
func SplitSymbols(text string) []Symbol {
	var syms []Symbol
	if text == "" {
		return syms
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		line = trimNewline(line)
		for _, c := range line {
			syms = append(syms, Symbol(c))
		}
		syms = append(syms, Terminator)
	}
	return syms
}

// Total returns the number of symbol occurrences counted in freqs.
func (freqs FrequencyTable) Total() (total uint64) {
	for _, count := range freqs {
		total += count
	}
	return
}

// Symbols returns the symbols of freqs in ascending order.
func (freqs FrequencyTable) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(freqs))
	for sym := range freqs {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"fmt"
	"sort"
	"strings"
)

// CodeTable maps each leaf symbol of a tree to its codeword.
type CodeTable map[Symbol]BitString

// AssignCodes walks the tree rooted at root and records the path to every leaf, 0 for a left branch and 1 for
// a right branch.  A lone leaf root is given the one-bit code 0, which Decode understands.
func AssignCodes(root *Node) (CodeTable, error) {
	if root == nil {
		return nil, ErrNilTree
	}

	codes := make(CodeTable)
	if root.Leaf() {
		codes[root.Symbol] = BitString{}.Append(false)
		return codes, nil
	}

	assignCodes(codes, root, BitString{})
	return codes, nil
}

func assignCodes(codes CodeTable, node *Node, prefix BitString) {
	if node.Leaf() {
		codes[node.Symbol] = prefix
		return
	}

	// Clone before each append so siblings never share a partially filled octet.
	assignCodes(codes, node.Left, prefix.Clone().Append(false))
	assignCodes(codes, node.Right, prefix.Clone().Append(true))
}

// Lookup returns the code for sym, or a *SymbolNotFoundError.
func (codes CodeTable) Lookup(sym Symbol) (BitString, error) {
	code, ok := codes[sym]
	if !ok {
		return BitString{}, &SymbolNotFoundError{sym}
	}
	return code, nil
}

// Symbols returns the symbols of codes in ascending order.
func (codes CodeTable) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(codes))
	for sym := range codes {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// EncodedLength returns the number of bits needed to encode every symbol occurrence in freqs.  Symbols of
// freqs missing from codes yield a *SymbolNotFoundError.
func (codes CodeTable) EncodedLength(freqs FrequencyTable) (bits uint64, err error) {
	for sym, count := range freqs {
		code, err := codes.Lookup(sym)
		if err != nil {
			return 0, err
		}
		bits += count * uint64(code.BitLength)
	}
	return bits, nil
}

// PrefixFree returns nil iff no code in codes is a prefix of another and no code is empty.
func (codes CodeTable) PrefixFree() error {
	ordered := codes.Symbols()

	for i, a := range ordered {
		if codes[a].BitLength == 0 {
			return fmt.Errorf("huffman: empty code for symbol %v", a)
		}
		for _, b := range ordered[i+1:] {
			if codes[a].HasPrefix(codes[b]) || codes[b].HasPrefix(codes[a]) {
				return fmt.Errorf("huffman: codes for %v and %v are not prefix-free", a, b)
			}
		}
	}
	return nil
}

func (codes CodeTable) String() string {
	var parts []string
	for _, sym := range codes.Symbols() {
		parts = append(parts, fmt.Sprintf("\t%v => %v\n", sym, codes[sym]))
	}
	return "CODES{\n" + strings.Join(parts, "") + "}"
}

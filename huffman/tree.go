// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"container/heap"
	"fmt"
	"strings"
)

// Node is a node of a Huffman tree.  A leaf carries a symbol and has no children; an internal node has
// exactly two children and no symbol.  Weight is the total count of all symbols beneath the node.  Nodes are
// not modified after BuildTree returns them.
type Node struct {
	Symbol      Symbol
	Weight      uint64
	Left, Right *Node

	// seq orders nodes of equal weight: leaves in ascending symbol order, then merged nodes in order of
	// creation.
	seq int
}

// Leaf returns true iff node carries a symbol.
func (node *Node) Leaf() bool {
	return node.Left == nil && node.Right == nil
}

// Depth returns the length of the longest root-to-leaf path beneath node.
func (node *Node) Depth() int {
	if node.Leaf() {
		return 0
	}
	left, right := node.Left.Depth(), node.Right.Depth()
	if left < right {
		left = right
	}
	return left + 1
}

// Leaves returns the number of leaves beneath node.
func (node *Node) Leaves() int {
	if node.Leaf() {
		return 1
	}
	return node.Left.Leaves() + node.Right.Leaves()
}

func (node *Node) writeTo(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	if node.Leaf() {
		fmt.Fprintf(sb, "%v:%d\n", node.Symbol, node.Weight)
		return
	}
	fmt.Fprintf(sb, "*:%d\n", node.Weight)
	node.Left.writeTo(sb, indent+1)
	node.Right.writeTo(sb, indent+1)
}

func (node *Node) String() string {
	var sb strings.Builder
	node.writeTo(&sb, 0)
	return "TREE{\n" + sb.String() + "}"
}

type nodeQueue []*Node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].Weight != q[j].Weight {
		return q[i].Weight < q[j].Weight
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(*Node)) }

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// BuildTree assembles a Huffman tree from freqs by repeatedly merging the two lightest nodes.  Among nodes of
// equal weight the one created first is taken first, with leaves created in ascending symbol order; the first
// node taken becomes the left child.  This makes the tree a pure function of freqs.  A table with one symbol
// yields a lone leaf.  An empty table yields ErrEmptyAlphabet.
func BuildTree(freqs FrequencyTable) (*Node, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyAlphabet
	}

	syms := freqs.Symbols()
	q := make(nodeQueue, 0, len(syms))
	for i, sym := range syms {
		q = append(q, &Node{Symbol: sym, Weight: freqs[sym], seq: i})
	}
	heap.Init(&q)

	seq := len(syms)
	for q.Len() > 1 {
		left := heap.Pop(&q).(*Node)
		right := heap.Pop(&q).(*Node)

		heap.Push(&q, &Node{
			Weight: left.Weight + right.Weight,
			Left:   left,
			Right:  right,
			seq:    seq,
		})
		seq++
	}

	return heap.Pop(&q).(*Node), nil
}

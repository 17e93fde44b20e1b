package lattice

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Graph is the conversion lattice: for each end position (1..N+1) the nodes
// whose span ends there. Position 0 holds the single BOS sentinel and
// position N+1 the single EOS sentinel. A Graph is built for one conversion
// and discarded with it.
type Graph struct {
	size int
	d    map[int][]*Node
}

// NewGraph returns a lattice for a reading of size code points, populated
// with its BOS and EOS sentinels.
func NewGraph(size int) *Graph {
	return &Graph{
		size: size,
		d: map[int][]*Node{
			0:        {NewBOS()},
			size + 1: {NewEOS(size)},
		},
	}
}

// Size returns the code-point length of the reading the graph covers.
func (g *Graph) Size() int { return g.size }

// Append adds node to the bucket of nodes ending at index.
func (g *Graph) Append(index int, node *Node) {
	g.d[index] = append(g.d[index], node)
}

// NodesEndingAt returns the nodes whose span ends at index, nil when the
// bucket is empty.
func (g *Graph) NodesEndingAt(index int) []*Node {
	return g.d[index]
}

// HasNodesEndingAt reports whether any node ends at index.
func (g *Graph) HasNodesEndingAt(index int) bool {
	return len(g.d[index]) > 0
}

// BOS returns the begin-of-sentence sentinel.
func (g *Graph) BOS() *Node { return g.d[0][0] }

// EOS returns the end-of-sentence sentinel.
func (g *Graph) EOS() *Node { return g.d[g.size+1][0] }

// EndPositions returns the populated end positions after BOS, in increasing
// order. This is the iteration order of the Viterbi forward pass.
func (g *Graph) EndPositions() []int {
	positions := make([]int, 0, len(g.d))
	for i := range g.d {
		if i == 0 {
			continue
		}
		positions = append(positions, i)
	}
	sort.Ints(positions)
	return positions
}

// Dump writes the lattice as a Graphviz digraph for diagnosis.
func (g *Graph) Dump(w io.Writer) {
	fmt.Fprintln(w, "digraph lattice {")
	fmt.Fprintln(w, "  graph [")
	fmt.Fprintln(w, "    charset=\"utf-8\"")
	fmt.Fprintln(w, "  ]")
	for _, i := range g.EndPositions() {
		for _, node := range g.d[i] {
			prev := "-"
			if node.Prev != nil {
				prev = node.Prev.Word
			}
			fmt.Fprintf(w, "  %d -> %d [label=\"%s: %f: %s\"]\n", node.StartPos, i, node.Word, node.Cost, prev)
		}
	}
	fmt.Fprintln(w, "}")
}

// DumpString returns the Dump output as a string, for logging.
func (g *Graph) DumpString() string {
	var sb strings.Builder
	g.Dump(&sb)
	return sb.String()
}

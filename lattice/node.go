// Package lattice builds the conversion lattice for a reading, scores it
// with the language models, and extracts the best clause sequence plus
// per-clause alternatives.
package lattice

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza/lm"
	"github.com/akaza-im/akaza/tinylisp"
)

// NodeKind distinguishes the two sentinel nodes from ordinary word nodes.
type NodeKind int

const (
	// KindWord is an ordinary candidate covering a span of the reading.
	KindWord NodeKind = iota
	// KindBOS is the begin-of-sentence sentinel at position 0.
	KindBOS
	// KindEOS is the end-of-sentence sentinel past the last position.
	KindEOS
)

// Keys of the sentinel nodes. The EOS key deliberately has no second field:
// bigrams against EOS are never consulted, and keeping the key distinct from
// every "word/yomi" form makes that visible in dumps.
const (
	bosKey = "__BOS__/__BOS__"
	eosKey = "__EOS__"

	sentinelWord = "__BOS__"
)

// Node is one lattice vertex: a candidate surface form covering a span of
// the reading. Cost and Prev are filled by the Viterbi pass and are
// meaningless before it.
type Node struct {
	// StartPos is the code-point index in the full reading where this
	// node's span begins.
	StartPos int
	// Yomi is the reading span the node covers.
	Yomi string
	// Word is the surface form; it may equal Yomi.
	Word string
	// Kind tags the sentinels.
	Kind NodeKind
	// ID is the system unigram word id, or lm.UnknownWordID before lookup
	// and for words the system model does not know.
	ID int32
	// Cost is the best accumulated score from BOS to this node.
	Cost float64
	// Prev is the best predecessor on the maximum-score path.
	Prev *Node

	yomiLen     int
	key         string
	bigramCache map[string]float64
}

// NewNode returns a word node covering yomi at startPos with the given
// surface form. The surface must be non-empty.
func NewNode(startPos int, word, yomi string) *Node {
	if word == "" {
		panic(fmt.Sprintf("lattice: empty surface form for yomi %q at %d", yomi, startPos))
	}
	return &Node{
		StartPos: startPos,
		Word:     word,
		Yomi:     yomi,
		Kind:     KindWord,
		ID:       lm.UnknownWordID,
		yomiLen:  len([]rune(yomi)),
		key:      word + "/" + yomi,
	}
}

// NewBOS returns the begin-of-sentence sentinel.
func NewBOS() *Node {
	return &Node{
		StartPos: -1,
		Word:     sentinelWord,
		Yomi:     sentinelWord,
		Kind:     KindBOS,
		ID:       lm.UnknownWordID,
		key:      bosKey,
	}
}

// NewEOS returns the end-of-sentence sentinel starting at startPos (the
// length of the reading).
func NewEOS(startPos int) *Node {
	return &Node{
		StartPos: startPos,
		Word:     "__EOS__",
		Yomi:     "__EOS__",
		Kind:     KindEOS,
		ID:       lm.UnknownWordID,
		key:      eosKey,
	}
}

// IsBOS reports whether the node is the begin-of-sentence sentinel.
func (n *Node) IsBOS() bool { return n.Kind == KindBOS }

// IsEOS reports whether the node is the end-of-sentence sentinel.
func (n *Node) IsEOS() bool { return n.Kind == KindEOS }

// Key returns the language-model key of the node: "word/yomi" for words,
// the special sentinel keys for BOS and EOS.
func (n *Node) Key() string { return n.key }

// YomiLen returns the length of the covered reading in code points.
func (n *Node) YomiLen() int { return n.yomiLen }

// EndPos returns the graph end-position index of the node.
func (n *Node) EndPos() int { return n.StartPos + n.yomiLen }

// Surface returns the display form of the node. Words that carry a lisp
// expression (leading parenthesis) are evaluated; evaluation failures fall
// back to the raw word.
func (n *Node) Surface(ev *tinylisp.Evaluator) string {
	if !strings.HasPrefix(n.Word, "(") {
		return n.Word
	}
	out, err := ev.Run(n.Word)
	if err != nil {
		log.Warn().Err(err).Str("word", n.Word).Msg("surface expression evaluation failed")
		return n.Word
	}
	return out
}

// Entry converts the node into the user language model's committed form.
func (n *Node) Entry() lm.WordYomi {
	return lm.WordYomi{Word: n.Word, Yomi: n.Yomi}
}

// bigramCost returns the memoised bigram score of next following n,
// computing it with calc on the first use. The cache lives and dies with
// the graph.
func (n *Node) bigramCost(next *Node, calc func(prev, next *Node) float64) float64 {
	if c, ok := n.bigramCache[next.key]; ok {
		return c
	}
	c := calc(n, next)
	if n.bigramCache == nil {
		n.bigramCache = map[string]float64{}
	}
	n.bigramCache[next.key] = c
	return c
}

func (n *Node) String() string {
	prev := "-"
	if n.Prev != nil {
		prev = n.Prev.Word
	}
	return fmt.Sprintf("<Node start=%d word=%q yomi=%q cost=%f prev=%q>", n.StartPos, n.Word, n.Yomi, n.Cost, prev)
}

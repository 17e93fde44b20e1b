package lattice

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/akaza-im/akaza/dict"
	"github.com/akaza-im/akaza/internal/kana"
	"github.com/akaza-im/akaza/lm"
)

var (
	// ErrLatticeBroken is the error returned when the best-path backtrack
	// cannot reach BOS, or a node points at itself. Either means the
	// lattice is corrupt and the conversion must be aborted.
	ErrLatticeBroken = errors.New("lattice is broken")

	// ErrBadClauseConstraint is the error returned when a forced clause
	// list is not a contiguous, non-empty, in-order partition of a prefix
	// of the reading.
	ErrBadClauseConstraint = errors.New("invalid forced clause constraint")
)

// Span is a forced clause: a half-open code-point range [Start, Stop) of
// the reading.
type Span struct {
	Start int
	Stop  int
}

// Resolver builds lattices from readings and runs the Viterbi search over
// them. It is immutable after construction except through the user language
// model, which locks internally; one Resolver serves all conversions.
type Resolver struct {
	languageModel   *LanguageModel
	user            *lm.UserLanguageModel
	normalDicts     []*dict.BinaryDict
	singleTermDicts []*dict.BinaryDict
}

// NewResolver builds a Resolver over the given models and dictionaries.
// normalDicts feed ordinary candidates; singleTermDicts (emoji, symbols,
// zip codes) only contribute when a reading is matched in full.
func NewResolver(
	user *lm.UserLanguageModel,
	unigram *lm.SystemUnigramLM,
	bigram *lm.SystemBigramLM,
	normalDicts []*dict.BinaryDict,
	singleTermDicts []*dict.BinaryDict,
) *Resolver {
	return &Resolver{
		languageModel:   NewLanguageModel(user, unigram, bigram),
		user:            user,
		normalDicts:     normalDicts,
		singleTermDicts: singleTermDicts,
	}
}

// LanguageModel returns the scoring facade the resolver fills costs with.
func (r *Resolver) LanguageModel() *LanguageModel {
	return r.languageModel
}

// appendUnique appends items to list, skipping anything already present.
func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		seen := false
		for _, e := range list {
			if e == it {
				seen = true
				break
			}
		}
		if !seen {
			list = append(list, it)
		}
	}
	return list
}

// singleTermHits collects the single-term dictionary surfaces for yomi.
func (r *Resolver) singleTermHits(yomi string) []string {
	var hits []string
	for _, d := range r.singleTermDicts {
		hits = append(hits, d.FindWords(yomi)...)
	}
	return hits
}

// Lookup builds the candidate table for a reading: for every start
// position, each dictionary key covering it and the surface forms to offer
// for it. Readings with no dictionary coverage at all contribute their
// first character, so graph construction always finds a node at every
// position.
func (r *Resolver) Lookup(yomi string) map[string][]string {
	runes := []rune(yomi)
	ht := make(map[string][]string)

	for i := 0; i < len(runes); i++ {
		rest := string(runes[i:])

		var prefixes []string
		for _, d := range r.normalDicts {
			prefixes = appendUnique(prefixes, d.Prefixes(rest)...)
		}

		if len(prefixes) == 0 {
			head := string(runes[i])
			surfaces := appendUnique([]string{head}, kana.HiraToKata(head))
			surfaces = appendUnique(surfaces, r.singleTermHits(head)...)
			ht[head] = surfaces
			continue
		}

		restMatched := false
		for _, w := range prefixes {
			if w == rest {
				restMatched = true
			}
			var surfaces []string
			for _, d := range r.normalDicts {
				surfaces = appendUnique(surfaces, d.FindWords(w)...)
			}
			surfaces = appendUnique(surfaces, w, kana.HiraToKata(w))
			if w == rest {
				surfaces = appendUnique(surfaces, r.singleTermHits(w)...)
			}
			ht[w] = surfaces
		}

		if !restMatched && r.user.HasUnigramCostByYomi(rest) {
			surfaces := appendUnique([]string{rest}, kana.HiraToKata(rest))
			surfaces = appendUnique(surfaces, r.singleTermHits(rest)...)
			ht[rest] = surfaces
		}
	}
	return ht
}

// fallbackSurfaces are the four candidates offered for a reading no
// dictionary knows: the reading itself, its katakana, its romaji, and the
// fullwidth romaji.
func fallbackSurfaces(yomi string) []string {
	latin := kana.ToRomaji(yomi)
	return appendUnique([]string{yomi}, kana.HiraToKata(yomi), latin, kana.ToFullwidth(latin))
}

// GraphConstruct builds the lattice for yomi from the candidate table ht.
// When forced is non-empty it must partition a prefix of yomi into
// contiguous, non-empty clauses in increasing order; nodes are then created
// only for those spans.
func (r *Resolver) GraphConstruct(yomi string, ht map[string][]string, forced []Span) (*Graph, error) {
	runes := []rune(yomi)
	n := len(runes)
	g := NewGraph(n)

	if len(forced) > 0 {
		pos := 0
		for _, span := range forced {
			if span.Start != pos || span.Stop <= span.Start || span.Stop > n {
				return nil, fmt.Errorf("%w: span (%d,%d) of %q", ErrBadClauseConstraint, span.Start, span.Stop, yomi)
			}
			pos = span.Stop

			sub := string(runes[span.Start:span.Stop])
			if surfaces, ok := ht[sub]; ok {
				for _, s := range surfaces {
					g.Append(span.Stop, NewNode(span.Start, s, sub))
				}
			} else {
				for _, s := range fallbackSurfaces(sub) {
					g.Append(span.Stop, NewNode(span.Start, s, sub))
				}
			}
		}
		return g, nil
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j <= n; j++ {
			sub := string(runes[i:j])
			if surfaces, ok := ht[sub]; ok {
				for _, s := range surfaces {
					g.Append(j, NewNode(i, s, sub))
				}
			} else if r.user.HasUnigramCostByYomi(sub) {
				for _, s := range fallbackSurfaces(sub) {
					g.Append(j, NewNode(i, s, sub))
				}
			}
		}
	}
	return g, nil
}

// FillCost runs the forward Viterbi pass: for every node, the best
// predecessor and the accumulated score of the best path from BOS.
// Ties keep the first-seen predecessor.
func (r *Resolver) FillCost(g *Graph) {
	g.BOS().Cost = 0

	for _, pos := range g.EndPositions() {
		for _, node := range g.NodesEndingAt(pos) {
			nodeCost := r.languageModel.CalcNodeCost(node)

			prevs := g.NodesEndingAt(node.StartPos)
			if len(prevs) == 0 {
				// Unreachable under a partial forced partition; the
				// backtrack will report the broken lattice.
				node.Cost = math.Inf(-1)
				continue
			}
			if prevs[0].IsBOS() {
				node.Prev = prevs[0]
				node.Cost = nodeCost
				continue
			}

			best := math.Inf(-1)
			var bestPrev *Node
			for _, prev := range prevs {
				if prev.Prev == nil && !prev.IsBOS() {
					continue
				}
				t := prev.Cost + r.languageModel.CalcBigramCost(prev, node) + nodeCost
				if t > best {
					best = t
					bestPrev = prev
				}
			}
			node.Prev = bestPrev
			node.Cost = best
		}
	}
}

// FindNBest walks the best path backwards from EOS and, for every clause on
// it, collects the alternative surface forms covering the same reading
// span, ordered best-first against the following clause.
func (r *Resolver) FindNBest(g *Graph) ([][]*Node, error) {
	node := g.EOS()

	var result [][]*Node
	var lastNode *Node
	for !node.IsBOS() {
		if node == node.Prev {
			return nil, fmt.Errorf("%w: node is its own predecessor: %s", ErrLatticeBroken, node)
		}
		if node.Prev == nil {
			return nil, fmt.Errorf("%w: no path from %s back to BOS", ErrLatticeBroken, node)
		}

		if !node.IsEOS() {
			var alternatives []*Node
			for _, cand := range g.NodesEndingAt(node.EndPos()) {
				if cand.Yomi == node.Yomi {
					alternatives = append(alternatives, cand)
				}
			}
			last := lastNode
			sort.SliceStable(alternatives, func(i, j int) bool {
				return r.rankScore(alternatives[i], last) > r.rankScore(alternatives[j], last)
			})
			result = append(result, alternatives)
		}

		lastNode = node
		node = node.Prev
	}

	// The walk collected clauses back to front.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// rankScore orders clause alternatives: the node's path score plus its
// bigram fit with the clause that follows it on the chosen path.
func (r *Resolver) rankScore(node, next *Node) float64 {
	if next == nil {
		return node.Cost
	}
	return node.Cost + r.languageModel.CalcBigramCost(node, next)
}

// Viterbi fills costs and extracts the N-best clause list in one call.
func (r *Resolver) Viterbi(g *Graph) ([][]*Node, error) {
	r.FillCost(g)
	return r.FindNBest(g)
}

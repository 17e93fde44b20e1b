package lattice

import (
	"github.com/akaza-im/akaza/lm"
)

// LanguageModel scores lattice nodes by combining the user model with the
// system models: user scores win, system scores are the fallback, and
// anything unknown to both gets the default cost.
type LanguageModel struct {
	user    *lm.UserLanguageModel
	unigram *lm.SystemUnigramLM
	bigram  *lm.SystemBigramLM
}

// NewLanguageModel wraps the given models into a scoring facade.
func NewLanguageModel(user *lm.UserLanguageModel, unigram *lm.SystemUnigramLM, bigram *lm.SystemBigramLM) *LanguageModel {
	return &LanguageModel{user: user, unigram: unigram, bigram: bigram}
}

// CalcNodeCost returns the unigram score of node. Sentinels are free. The
// system lookup caches the word id on the node for later bigram lookups.
func (l *LanguageModel) CalcNodeCost(node *Node) float64 {
	if node.IsBOS() || node.IsEOS() {
		return 0
	}
	key := node.Key()
	if cost, ok := l.user.GetUnigramCost(key); ok {
		return cost
	}
	id, score := l.unigram.FindUnigram(key)
	node.ID = id
	if id < 0 {
		return lm.UnigramDefaultCost
	}
	return score
}

// CalcBigramCost returns the score of next following prev, memoised on
// prev's per-graph cache.
func (l *LanguageModel) CalcBigramCost(prev, next *Node) float64 {
	return prev.bigramCost(next, l.calcBigramCost)
}

func (l *LanguageModel) calcBigramCost(prev, next *Node) float64 {
	if cost, ok := l.user.GetBigramCost(prev.Key(), next.Key()); ok {
		return cost
	}
	if prev.ID < 0 || next.ID < 0 {
		return lm.BigramDefaultCost
	}
	score := l.bigram.FindBigram(prev.ID, next.ID)
	if score == 0.0 {
		// The bigram file never stores a real 0.0; it means "no entry".
		return lm.BigramDefaultCost
	}
	return score
}

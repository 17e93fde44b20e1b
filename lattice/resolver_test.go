package lattice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akaza-im/akaza/dict"
	"github.com/akaza-im/akaza/lm"
)

// newTestResolver builds a resolver over a small purpose-built dictionary
// and language model, enough to convert the classic test phrases.
func newTestResolver(t *testing.T) *Resolver {
	t.Helper()

	db := dict.NewBuilder()
	db.Add("わたし", []string{"私"})
	db.Add("の", []string{"の"})
	db.Add("なまえ", []string{"名前"})
	db.Add("は", []string{"は"})
	db.Add("なかの", []string{"中野"})
	db.Add("です", []string{"です"})
	db.Add("わーど", []string{"ワード"})
	db.Add("にほん", []string{"日本"})
	db.Add("しいん", []string{"子音", "試飲"})
	db.Add("すし", []string{"寿司"})
	// Single-kana coverage, as a real system dictionary has.
	db.Add("わ", []string{"輪"})
	db.Add("た", []string{"田"})
	db.Add("し", []string{"市"})
	db.Add("な", []string{"名"})
	db.Add("ま", []string{"間"})
	db.Add("え", []string{"絵"})
	db.Add("か", []string{"蚊"})
	db.Add("で", []string{"で"})
	db.Add("す", []string{"巣"})
	systemDict, err := db.Build()
	require.NoError(t, err)

	sb := dict.NewBuilder()
	sb.Add("すし", []string{"🍣"})
	singleTerm, err := sb.Build()
	require.NoError(t, err)

	ub := lm.NewUnigramBuilder()
	ub.Add("私/わたし", -1.0)
	ub.Add("の/の", -1.0)
	ub.Add("名前/なまえ", -1.0)
	ub.Add("は/は", -1.0)
	ub.Add("中野/なかの", -1.0)
	ub.Add("です/です", -1.0)
	ub.Add("ワード/わーど", -1.0)
	ub.Add("日本/にほん", -1.0)
	ub.Add("子音/しいん", -1.5)
	ub.Add("試飲/しいん", -3.0)
	ub.Add("寿司/すし", -1.0)
	ub.Add("な/な", -2.0)
	unigram, err := ub.Build()
	require.NoError(t, err)

	ids := ub.WordIDs()
	bb := lm.NewBigramBuilder()
	bb.Add(ids["私/わたし"], ids["の/の"], -0.5)
	bb.Add(ids["の/の"], ids["名前/なまえ"], -0.5)
	bigram, err := bb.Build()
	require.NoError(t, err)

	user, err := lm.NewUserLanguageModel(t.TempDir())
	require.NoError(t, err)

	return NewResolver(user, unigram, bigram, []*dict.BinaryDict{systemDict}, []*dict.BinaryDict{singleTerm})
}

func topJoin(clauses [][]*Node) string {
	var sb strings.Builder
	for _, clause := range clauses {
		sb.WriteString(clause[0].Word)
	}
	return sb.String()
}

func Test_Resolver_Lookup(t *testing.T) {
	r := newTestResolver(t)

	t.Run("dictionary word with identity and katakana appended", func(t *testing.T) {
		ht := r.Lookup("わたし")
		assert.Equal(t, []string{"私", "わたし", "ワタシ"}, ht["わたし"])
	})

	t.Run("uncovered position falls back to one character", func(t *testing.T) {
		ht := r.Lookup("ぴぴ")
		assert.Equal(t, []string{"ぴ", "ピ"}, ht["ぴ"])
	})

	t.Run("single-term dictionary only joins on full match", func(t *testing.T) {
		ht := r.Lookup("すし")
		assert.Contains(t, ht["すし"], "🍣")

		ht = r.Lookup("すしや")
		assert.NotContains(t, ht["すし"], "🍣")
	})

	t.Run("user-known reading becomes a candidate", func(t *testing.T) {
		r := newTestResolver(t)

		// はなび is not in the dictionary, so the remainder is not offered.
		ht := r.Lookup("はなび")
		assert.NotContains(t, ht, "はなび")

		// Once the user has committed it, the full remainder joins the
		// candidates for positions the dictionary does cover.
		r.user.AddEntry([]lm.WordYomi{{Word: "花火", Yomi: "はなび"}})
		ht = r.Lookup("はなび")
		assert.Equal(t, []string{"はなび", "ハナビ"}, ht["はなび"])
	})
}

func Test_Resolver_GraphConstruct_Invariants(t *testing.T) {
	r := newTestResolver(t)

	for _, yomi := range []string{"わたしのなまえはなかのです", "ぴ", "それな", "すし"} {
		t.Run(yomi, func(t *testing.T) {
			assert := assert.New(t)

			ht := r.Lookup(yomi)
			g, err := r.GraphConstruct(yomi, ht, nil)
			require.NoError(t, err)

			n := len([]rune(yomi))
			assert.Equal(n, g.Size())

			// Exactly one BOS at 0 and one EOS at n+1.
			require.Len(t, g.NodesEndingAt(0), 1)
			assert.True(g.NodesEndingAt(0)[0].IsBOS())
			require.Len(t, g.NodesEndingAt(n+1), 1)
			assert.True(g.NodesEndingAt(n+1)[0].IsEOS())

			// Every interior end position is populated.
			for i := 1; i <= n; i++ {
				assert.True(g.HasNodesEndingAt(i), "no node ends at %d", i)
			}
		})
	}
}

func Test_Resolver_GraphConstruct_ForcedClauses(t *testing.T) {
	r := newTestResolver(t)

	t.Run("partition is honoured exactly", func(t *testing.T) {
		assert := assert.New(t)

		yomi := "はなか"
		ht := r.Lookup(yomi)
		g, err := r.GraphConstruct(yomi, ht, []Span{{0, 2}, {2, 3}})
		require.NoError(t, err)

		assert.False(g.HasNodesEndingAt(1))
		assert.True(g.HasNodesEndingAt(2))
		assert.True(g.HasNodesEndingAt(3))
	})

	t.Run("unregistered span gets the four fallback forms", func(t *testing.T) {
		yomi := "ひょいー"
		ht := r.Lookup(yomi)
		g, err := r.GraphConstruct(yomi, ht, []Span{{0, 4}})
		require.NoError(t, err)

		var words []string
		for _, n := range g.NodesEndingAt(4) {
			words = append(words, n.Word)
		}
		assert.Equal(t, []string{"ひょいー", "ヒョイー", "hyoiー", "ｈｙｏｉー"}, words)
	})

	t.Run("bad partitions are rejected", func(t *testing.T) {
		yomi := "はなか"
		ht := r.Lookup(yomi)

		badCases := []struct {
			name  string
			spans []Span
		}{
			{name: "zero length span", spans: []Span{{0, 0}}},
			{name: "gap", spans: []Span{{0, 1}, {2, 3}}},
			{name: "not starting at zero", spans: []Span{{1, 3}}},
			{name: "past the end", spans: []Span{{0, 4}}},
			{name: "overlap", spans: []Span{{0, 2}, {1, 3}}},
		}
		for _, tc := range badCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := r.GraphConstruct(yomi, ht, tc.spans)
				assert.ErrorIs(t, err, ErrBadClauseConstraint)
			})
		}
	})
}

func Test_Resolver_FillCost(t *testing.T) {
	r := newTestResolver(t)

	yomi := "わたしの"
	ht := r.Lookup(yomi)
	g, err := r.GraphConstruct(yomi, ht, nil)
	require.NoError(t, err)
	r.FillCost(g)

	t.Run("first clause node costs its unigram score", func(t *testing.T) {
		assert := assert.New(t)
		watashi := findNode(t, g, 3, "私")
		assert.True(watashi.Prev.IsBOS())
		assert.InDelta(-1.0, watashi.Cost, 0.001)
	})

	t.Run("chained cost is prev plus bigram plus node", func(t *testing.T) {
		assert := assert.New(t)
		no := findNode(t, g, 4, "の")
		require.NotNil(t, no.Prev)
		assert.Equal("私", no.Prev.Word)
		// -1.0 (私) + -0.5 (bigram) + -1.0 (の)
		assert.InDelta(-2.5, no.Cost, 0.001)
	})

	t.Run("back pointers are acyclic and reach BOS", func(t *testing.T) {
		for _, pos := range g.EndPositions() {
			for _, n := range g.NodesEndingAt(pos) {
				steps := 0
				cur := n
				for !cur.IsBOS() {
					require.NotNil(t, cur.Prev, "node %s has no path to BOS", cur)
					require.Greater(t, cur.StartPos, cur.Prev.StartPos)
					cur = cur.Prev
					steps++
					require.Less(t, steps, 100)
				}
			}
		}
	})
}

func Test_Resolver_Viterbi_Scenarios(t *testing.T) {
	testCases := []struct {
		name   string
		yomi   string
		expect string
	}{
		{name: "wnn phrase", yomi: "わたしのなまえはなかのです", expect: "私の名前は中野です"},
		{name: "katakana word", yomi: "わーど", expect: "ワード"},
		{name: "plain word", yomi: "にほん", expect: "日本"},
		{name: "colloquial stays hiragana", yomi: "それな", expect: "それな"},
		{name: "homophone ranking", yomi: "しいん", expect: "子音"},
	}

	r := newTestResolver(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ht := r.Lookup(tc.yomi)
			g, err := r.GraphConstruct(tc.yomi, ht, nil)
			require.NoError(t, err)
			clauses, err := r.Viterbi(g)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, topJoin(clauses))
		})
	}
}

func Test_Resolver_Viterbi_AlternativesShareYomi(t *testing.T) {
	assert := assert.New(t)
	r := newTestResolver(t)

	yomi := "しいん"
	ht := r.Lookup(yomi)
	g, err := r.GraphConstruct(yomi, ht, nil)
	require.NoError(t, err)
	clauses, err := r.Viterbi(g)
	require.NoError(t, err)

	require.Len(t, clauses, 1)
	var words []string
	for _, n := range clauses[0] {
		assert.Equal(yomi, n.Yomi)
		words = append(words, n.Word)
	}
	// Candidates best first: system scores rank 子音 over 試飲 over the
	// unscored kana forms.
	assert.Equal("子音", words[0])
	assert.Equal("試飲", words[1])
	assert.Contains(words, "しいん")
	assert.Contains(words, "シイン")
}

func Test_Resolver_Viterbi_EmojiCandidates(t *testing.T) {
	r := newTestResolver(t)

	ht := r.Lookup("すし")
	g, err := r.GraphConstruct("すし", ht, nil)
	require.NoError(t, err)
	clauses, err := r.Viterbi(g)
	require.NoError(t, err)

	require.Len(t, clauses, 1)
	var words []string
	for _, n := range clauses[0] {
		words = append(words, n.Word)
	}
	assert.Contains(t, words, "🍣")
}

func Test_Resolver_Viterbi_LearnsUserWord(t *testing.T) {
	assert := assert.New(t)
	r := newTestResolver(t)

	for i := 0; i < 4; i++ {
		r.user.AddEntry([]lm.WordYomi{{Word: "ヒョイー", Yomi: "ひょいー"}})
	}

	yomi := "ひょいー"
	ht := r.Lookup(yomi)
	g, err := r.GraphConstruct(yomi, ht, nil)
	require.NoError(t, err)
	clauses, err := r.Viterbi(g)
	require.NoError(t, err)

	require.Len(t, clauses, 1)
	assert.Equal("ヒョイー", clauses[0][0].Word)
	var words []string
	for _, n := range clauses[0] {
		words = append(words, n.Word)
	}
	assert.Contains(words, "ひょいー")
}

func Test_Resolver_Viterbi_BrokenLattice(t *testing.T) {
	r := newTestResolver(t)

	// A partition of a strict prefix leaves a gap before EOS; the backtrack
	// must report the broken lattice instead of walking off it.
	yomi := "はなか"
	ht := r.Lookup(yomi)
	g, err := r.GraphConstruct(yomi, ht, []Span{{0, 2}})
	require.NoError(t, err)

	_, err = r.Viterbi(g)
	assert.ErrorIs(t, err, ErrLatticeBroken)
}

func findNode(t *testing.T, g *Graph, endPos int, word string) *Node {
	t.Helper()
	for _, n := range g.NodesEndingAt(endPos) {
		if n.Word == word {
			return n
		}
	}
	t.Fatalf("no node %q ending at %d", word, endPos)
	return nil
}

// Package lm holds the language models the conversion engine scores with:
// the read-only system unigram/bigram models compiled from a corpus, and the
// mutable per-user model learned from confirmed conversions.
package lm

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza/internal/trie"
)

var (
	// UnigramDefaultCost is the score of a word unknown to every model.
	UnigramDefaultCost = math.Log10(1e-20)

	// BigramDefaultCost is the score of a word pair unknown to every model.
	BigramDefaultCost = math.Log10(1e-20)
)

// UnknownWordID marks a key the system unigram model does not know.
const UnknownWordID = -1

const unigramValueSize = 8

// SystemUnigramLM maps "word/yomi" keys to a dense word id and a log10
// probability. It is immutable and safe for concurrent use.
type SystemUnigramLM struct {
	t *trie.Trie
}

// LoadSystemUnigramLM opens the unigram model image at path.
func LoadSystemUnigramLM(path string) (*SystemUnigramLM, error) {
	t, err := trie.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load system unigram lm: %w", err)
	}
	log.Info().Str("path", path).Int("entries", t.Len()).Msg("loaded system unigram lm")
	return &SystemUnigramLM{t: t}, nil
}

// FindUnigram looks up key. On a hit the id is >= 0 and stable for the
// lifetime of the file; on a miss the id is UnknownWordID and the score must
// be ignored.
func (u *SystemUnigramLM) FindUnigram(key string) (id int32, score float64) {
	raw, ok := u.t.Get(key)
	if !ok || len(raw) != unigramValueSize {
		return UnknownWordID, 0
	}
	id = int32(binary.LittleEndian.Uint32(raw[0:4]))
	score = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4:8])))
	return id, score
}

// SystemBigramLM maps pairs of unigram word ids to a log10 probability.
// It is immutable and safe for concurrent use.
type SystemBigramLM struct {
	t *trie.Trie
}

// LoadSystemBigramLM opens the bigram model image at path.
func LoadSystemBigramLM(path string) (*SystemBigramLM, error) {
	t, err := trie.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load system bigram lm: %w", err)
	}
	log.Info().Str("path", path).Int("entries", t.Len()).Msg("loaded system bigram lm")
	return &SystemBigramLM{t: t}, nil
}

// FindBigram returns the score for the pair (id1, id2), or 0.0 when there is
// no entry. The build pipeline never emits a true score of 0.0, so callers
// treat it as a miss sentinel.
func (b *SystemBigramLM) FindBigram(id1, id2 int32) float64 {
	raw, ok := b.t.Get(bigramKey(id1, id2))
	if !ok || len(raw) != 4 {
		return 0.0
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
}

func bigramKey(id1, id2 int32) string {
	var k [8]byte
	binary.LittleEndian.PutUint32(k[0:4], uint32(id1))
	binary.LittleEndian.PutUint32(k[4:8], uint32(id2))
	return string(k[:])
}

// UnigramBuilder compiles a unigram model image. Word ids are assigned
// densely in lexicographic key order, so a key's id is reproducible from the
// key set alone; the bigram compiler relies on that.
type UnigramBuilder struct {
	scores map[string]float64
}

// NewUnigramBuilder returns an empty UnigramBuilder.
func NewUnigramBuilder() *UnigramBuilder {
	return &UnigramBuilder{scores: map[string]float64{}}
}

// Add registers the log10 probability for key ("word/yomi").
func (b *UnigramBuilder) Add(key string, score float64) {
	b.scores[key] = score
}

// WordIDs returns the id assignment for the current key set.
func (b *UnigramBuilder) WordIDs() map[string]int32 {
	keys := make([]string, 0, len(b.scores))
	for k := range b.scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ids := make(map[string]int32, len(keys))
	for i, k := range keys {
		ids[k] = int32(i)
	}
	return ids
}

func (b *UnigramBuilder) trieBuilder() *trie.Builder {
	ids := b.WordIDs()
	tb := trie.NewBuilder()
	for key, score := range b.scores {
		v := make([]byte, unigramValueSize)
		binary.LittleEndian.PutUint32(v[0:4], uint32(ids[key]))
		binary.LittleEndian.PutUint32(v[4:8], math.Float32bits(float32(score)))
		tb.Put(key, v)
	}
	return tb
}

// Build serializes and reopens the model.
func (b *UnigramBuilder) Build() (*SystemUnigramLM, error) {
	t, err := b.trieBuilder().Build()
	if err != nil {
		return nil, fmt.Errorf("build system unigram lm: %w", err)
	}
	return &SystemUnigramLM{t: t}, nil
}

// Save writes the model image to path atomically.
func (b *UnigramBuilder) Save(path string) error {
	if err := b.trieBuilder().Save(path); err != nil {
		return fmt.Errorf("save system unigram lm: %w", err)
	}
	return nil
}

// BigramBuilder compiles a bigram model image keyed by unigram word ids.
type BigramBuilder struct {
	tb *trie.Builder
}

// NewBigramBuilder returns an empty BigramBuilder.
func NewBigramBuilder() *BigramBuilder {
	return &BigramBuilder{tb: trie.NewBuilder()}
}

// Add registers the log10 probability for the pair (id1, id2).
func (b *BigramBuilder) Add(id1, id2 int32, score float64) {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, math.Float32bits(float32(score)))
	b.tb.Put(bigramKey(id1, id2), v)
}

// Build serializes and reopens the model.
func (b *BigramBuilder) Build() (*SystemBigramLM, error) {
	t, err := b.tb.Build()
	if err != nil {
		return nil, fmt.Errorf("build system bigram lm: %w", err)
	}
	return &SystemBigramLM{t: t}, nil
}

// Save writes the model image to path atomically.
func (b *BigramBuilder) Save(path string) error {
	if err := b.tb.Save(path); err != nil {
		return fmt.Errorf("save system bigram lm: %w", err)
	}
	return nil
}

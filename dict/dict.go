// Package dict serves yomi → surface-form lookups from immutable binary
// dictionary images. A dictionary maps a hiragana reading to the list of
// surface forms (kanji, kana, symbols, emoji) it may be written as.
package dict

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/simplelru"
	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza/internal/trie"
)

// surfaceSep joins the surface forms inside a stored value. It never occurs
// inside a surface form itself; SKK inherited the same restriction.
const surfaceSep = "/"

// findCacheSize bounds the per-dictionary cache of decoded surface lists.
// Conversion hits the same short readings for nearly every keystroke, so
// even a small cache absorbs most of the decode work.
const findCacheSize = 512

// BinaryDict is a read-only dictionary over a trie image. It is safe for
// concurrent use.
type BinaryDict struct {
	t *trie.Trie

	mu    sync.Mutex
	cache *lru.LRU
}

// Load opens the dictionary image at path.
func Load(path string) (*BinaryDict, error) {
	t, err := trie.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	log.Info().Str("path", path).Int("keys", t.Len()).Msg("loaded binary dictionary")
	return newBinaryDict(t), nil
}

func newBinaryDict(t *trie.Trie) *BinaryDict {
	cache, err := lru.NewLRU(findCacheSize, nil)
	if err != nil {
		// NewLRU only fails on a non-positive size.
		panic(err)
	}
	return &BinaryDict{t: t, cache: cache}
}

// Prefixes returns every registered reading that is a prefix of yomi,
// shortest first, including yomi itself when registered.
func (d *BinaryDict) Prefixes(yomi string) []string {
	return d.t.CommonPrefixes(yomi)
}

// Has returns whether the exact reading yomi is registered.
func (d *BinaryDict) Has(yomi string) bool {
	return d.t.Has(yomi)
}

// FindWords returns the surface forms registered for the exact reading yomi,
// in registration order, or nil when the reading is unknown. The returned
// slice is shared; callers must not modify it.
func (d *BinaryDict) FindWords(yomi string) []string {
	d.mu.Lock()
	if v, ok := d.cache.Get(yomi); ok {
		d.mu.Unlock()
		return v.([]string)
	}
	d.mu.Unlock()

	raw, ok := d.t.Get(yomi)
	if !ok {
		return nil
	}
	words := strings.Split(string(raw), surfaceSep)

	d.mu.Lock()
	d.cache.Add(yomi, words)
	d.mu.Unlock()
	return words
}

// Builder accumulates yomi → surfaces entries and produces a dictionary
// image. Surface order is preserved; duplicates within one reading are
// dropped.
type Builder struct {
	entries map[string][]string
	order   []string
}

// NewBuilder returns an empty dictionary Builder.
func NewBuilder() *Builder {
	return &Builder{entries: map[string][]string{}}
}

// Add registers the surface forms under yomi, appending to any surfaces
// already registered for that reading and skipping exact duplicates.
func (b *Builder) Add(yomi string, surfaces []string) {
	existing, known := b.entries[yomi]
	if !known {
		b.order = append(b.order, yomi)
	}
	for _, s := range surfaces {
		if s == "" || strings.Contains(s, surfaceSep) {
			log.Warn().Str("yomi", yomi).Str("surface", s).Msg("skipping unstorable surface form")
			continue
		}
		dup := false
		for _, e := range existing {
			if e == s {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, s)
		}
	}
	b.entries[yomi] = existing
}

func (b *Builder) trieBuilder() *trie.Builder {
	tb := trie.NewBuilder()
	for _, yomi := range b.order {
		surfaces := b.entries[yomi]
		if len(surfaces) == 0 {
			continue
		}
		tb.Put(yomi, []byte(strings.Join(surfaces, surfaceSep)))
	}
	return tb
}

// Build serializes the entries and opens the result as a BinaryDict.
func (b *Builder) Build() (*BinaryDict, error) {
	t, err := b.trieBuilder().Build()
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	return newBinaryDict(t), nil
}

// Save writes the dictionary image to path atomically.
func (b *Builder) Save(path string) error {
	if err := b.trieBuilder().Save(path); err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	return nil
}

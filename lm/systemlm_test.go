package lm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SystemUnigramLM_FindUnigram(t *testing.T) {
	b := NewUnigramBuilder()
	b.Add("愛/あい", -2.5)
	b.Add("安威/あい", -5.25)
	b.Add("私/わたし", -1.5)

	ulm, err := b.Build()
	require.NoError(t, err)

	t.Run("hit returns id and score", func(t *testing.T) {
		assert := assert.New(t)
		id, score := ulm.FindUnigram("私/わたし")
		assert.GreaterOrEqual(id, int32(0))
		assert.InDelta(-1.5, score, 0.0001)
	})

	t.Run("different words differ", func(t *testing.T) {
		assert := assert.New(t)
		_, s1 := ulm.FindUnigram("愛/あい")
		_, s2 := ulm.FindUnigram("安威/あい")
		assert.NotEqual(s1, s2)
	})

	t.Run("miss returns unknown id", func(t *testing.T) {
		id, _ := ulm.FindUnigram("猫/ねこ")
		assert.Equal(t, int32(UnknownWordID), id)
	})

	t.Run("ids are dense in sorted key order", func(t *testing.T) {
		assert := assert.New(t)
		ids := b.WordIDs()
		assert.Len(ids, 3)
		seen := map[int32]bool{}
		for _, id := range ids {
			seen[id] = true
		}
		for i := int32(0); i < 3; i++ {
			assert.True(seen[i], "id %d assigned", i)
		}
		// Byte order of the keys: 安 (E5..) < 愛 (E6..) < 私 (E7..).
		assert.Equal(map[string]int32{"安威/あい": 0, "愛/あい": 1, "私/わたし": 2}, ids)
	})
}

func Test_SystemBigramLM_FindBigram(t *testing.T) {
	assert := assert.New(t)

	ub := NewUnigramBuilder()
	ub.Add("私/わたし", -1.5)
	ub.Add("は/は", -1.0)
	ids := ub.WordIDs()

	bb := NewBigramBuilder()
	bb.Add(ids["私/わたし"], ids["は/は"], -0.75)

	blm, err := bb.Build()
	require.NoError(t, err)

	assert.InDelta(-0.75, blm.FindBigram(ids["私/わたし"], ids["は/は"]), 0.0001)
	// Reversed pair is not registered: 0.0 means no entry.
	assert.Equal(0.0, blm.FindBigram(ids["は/は"], ids["私/わたし"]))
}

func Test_SystemLM_SaveLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ub := NewUnigramBuilder()
	ub.Add("日本/にほん", -1.25)
	uniPath := filepath.Join(dir, "unigram.trie")
	require.NoError(t, ub.Save(uniPath))

	ulm, err := LoadSystemUnigramLM(uniPath)
	require.NoError(t, err)
	id, score := ulm.FindUnigram("日本/にほん")
	assert.Equal(int32(0), id)
	assert.InDelta(-1.25, score, 0.0001)

	bb := NewBigramBuilder()
	bb.Add(0, 0, -3.5)
	biPath := filepath.Join(dir, "bigram.trie")
	require.NoError(t, bb.Save(biPath))

	blm, err := LoadSystemBigramLM(biPath)
	require.NoError(t, err)
	assert.InDelta(-3.5, blm.FindBigram(0, 0), 0.0001)
}

func Test_SystemLM_LoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSystemUnigramLM(filepath.Join(dir, "nope.trie"))
	assert.Error(t, err)
	_, err = LoadSystemBigramLM(filepath.Join(dir, "nope.trie"))
	assert.Error(t, err)
}

package trie

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Trie_GetAndHas(t *testing.T) {
	b := NewBuilder()
	b.Put("あい", []byte("愛/哀"))
	b.Put("あいさつ", []byte("挨拶"))
	b.Put("か", []byte("蚊"))

	tr, err := b.Build()
	require.NoError(t, err)

	testCases := []struct {
		name      string
		key       string
		expect    string
		expectHit bool
	}{
		{name: "short key", key: "あい", expect: "愛/哀", expectHit: true},
		{name: "longer key sharing prefix", key: "あいさつ", expect: "挨拶", expectHit: true},
		{name: "single kana key", key: "か", expect: "蚊", expectHit: true},
		{name: "interior node is not a key", key: "あ", expectHit: false},
		{name: "absent key", key: "さかな", expectHit: false},
		{name: "empty key", key: "", expectHit: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, ok := tr.Get(tc.key)
			assert.Equal(tc.expectHit, ok)
			if tc.expectHit {
				assert.Equal(tc.expect, string(v))
			}
			assert.Equal(tc.expectHit, tr.Has(tc.key))
		})
	}
}

func Test_Trie_PutReplacesValue(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.Put("き", []byte("木"))
	b.Put("き", []byte("気"))

	tr, err := b.Build()
	require.NoError(t, err)

	v, ok := tr.Get("き")
	assert.True(ok)
	assert.Equal("気", string(v))
	assert.Equal(1, tr.Len())
}

func Test_Trie_CommonPrefixes(t *testing.T) {
	b := NewBuilder()
	b.Put("わ", []byte("輪"))
	b.Put("わたし", []byte("私"))
	b.Put("わた", []byte("綿"))
	b.Put("わたしたち", []byte("私達"))

	tr, err := b.Build()
	require.NoError(t, err)

	testCases := []struct {
		name   string
		key    string
		expect []string
	}{
		{name: "all prefixes, shortest first", key: "わたしの", expect: []string{"わ", "わた", "わたし"}},
		{name: "key itself included", key: "わたしたち", expect: []string{"わ", "わた", "わたし", "わたしたち"}},
		{name: "single char", key: "わ", expect: []string{"わ"}},
		{name: "no hit", key: "ねこ", expect: nil},
		{name: "empty key", key: "", expect: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tr.CommonPrefixes(tc.key))
		})
	}
}

func Test_Trie_Walk(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.Put("b", []byte("2"))
	b.Put("a", []byte("1"))
	b.Put("ab", []byte("3"))

	tr, err := b.Build()
	require.NoError(t, err)

	var keys []string
	err = tr.Walk(func(key string, value []byte) error {
		keys = append(keys, key+"="+string(value))
		return nil
	})
	assert.NoError(err)
	assert.Equal([]string{"a=1", "ab=3", "b=2"}, keys)
}

func Test_Trie_SaveLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.trie")

	b := NewBuilder()
	b.Put("にほん", []byte("日本/二本"))
	b.Put("に", []byte("二"))
	require.NoError(t, b.Save(path))

	tr, err := Load(path)
	require.NoError(t, err)

	v, ok := tr.Get("にほん")
	assert.True(ok)
	assert.Equal("日本/二本", string(v))
	assert.Equal([]string{"に", "にほん"}, tr.CommonPrefixes("にほんご"))
}

func Test_Trie_BadImages(t *testing.T) {
	testCases := []struct {
		name      string
		data      []byte
		expectErr error
	}{
		{name: "too short", data: []byte("AK"), expectErr: ErrTruncated},
		{name: "wrong magic", data: append([]byte("NOPE"), make([]byte, 12)...), expectErr: ErrBadMagic},
		{
			name:      "bad version",
			data:      append([]byte("AKTR"), []byte{9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}...),
			expectErr: ErrBadVersion,
		},
		{
			name:      "claims more nodes than present",
			data:      append([]byte("AKTR"), []byte{1, 0, 0, 0, 255, 0, 0, 0, 0, 0, 0, 0}...),
			expectErr: ErrTruncated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.data)
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}
}

func Test_Trie_EmptyBuilder(t *testing.T) {
	assert := assert.New(t)

	tr, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(0, tr.Len())
	assert.False(tr.Has(""))
	assert.Nil(tr.CommonPrefixes("anything"))
}

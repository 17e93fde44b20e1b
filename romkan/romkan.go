// Package romkan transliterates romaji keystroke sequences into hiragana
// using greedy longest-match replacement over a fixed table. The table can be
// extended (or overridden) per user at construction time.
package romkan

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// doubleNPattern drops the apostrophe marker before anything that cannot be
// the second half of an n-digraph. The lookahead is why this package sits on
// regexp2 rather than the stdlib RE2 engine.
var doubleNPattern = regexp2.MustCompile(`n'(?=[^aiueoyn]|$)`, regexp2.None)

// lastUnitPattern matches the final romaji unit of a partially typed string:
// a z-prefixed symbol, a run of n, an optional consonant plus vowel, or
// failing all that a single character.
var lastUnitPattern = regexp2.MustCompile(`(?:z[hjkl.,/\[\]-]|n+|[bcdfghjklmnpqrstvwxyz]?[aiueo]|.)$`, regexp2.None)

// Converter holds a compiled transliteration table. It is immutable after
// construction and safe for concurrent use.
type Converter struct {
	table   map[string]string
	pattern *regexp2.Regexp
}

// NewConverter builds a Converter from the built-in table plus the given
// additions. Additions win over built-in entries with the same key.
func NewConverter(additions map[string]string) *Converter {
	table := make(map[string]string, len(defaultTable)+len(additions))
	for k, v := range defaultTable {
		table[k] = v
	}
	for k, v := range additions {
		table[k] = v
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, regexp2.Escape(k))
	}
	// Longer sequences first so the alternation is longest-match.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Converter{
		table:   table,
		pattern: regexp2.MustCompile("(?:"+strings.Join(keys, "|")+")", regexp2.None),
	}
}

// Default returns a Converter over the built-in table only.
func Default() *Converter {
	return NewConverter(nil)
}

// normalizeDoubleN rewrites nn to ん-marker form and strips the marker where
// a bare n should stay a consonant.
func normalizeDoubleN(s string) string {
	s = strings.ReplaceAll(s, "nn", "n'")
	out, err := doubleNPattern.Replace(s, "n", -1, -1)
	if err != nil {
		// The pattern has no backtracking pathology; Replace only errors on
		// a timeout, which is not configured.
		return s
	}
	return out
}

// ToHiragana converts romaji runs in s to hiragana. Characters that match no
// table entry pass through unchanged. Input is case-folded first, so the
// conversion is case-insensitive.
func (c *Converter) ToHiragana(s string) string {
	s = strings.ToLower(s)
	s = normalizeDoubleN(s)
	out, err := c.pattern.ReplaceFunc(s, func(m regexp2.Match) string {
		return c.table[m.String()]
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// RemoveLastChar trims the trailing romaji unit from s: the right thing to
// delete when the user backspaces over a partially typed syllable. An empty
// string stays empty.
func RemoveLastChar(s string) string {
	out, err := lastUnitPattern.Replace(s, "", -1, -1)
	if err != nil {
		return s
	}
	return out
}

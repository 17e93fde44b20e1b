package dict

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza/romkan"
)

// SKK text dictionaries come in two sections. Section headers are exact
// comment lines, so the parser switches targets when it sees them.
const (
	skkAriHeader  = ";; okuri-ari entries."
	skkNasiHeader = ";; okuri-nasi entries."
)

var skkVowels = []string{"a", "i", "u", "e", "o"}

// SKKDict holds the parsed contents of one SKK-format dictionary file:
// okuri-ari entries (readings ending in a romaji okurigana marker) and
// okuri-nasi entries.
type SKKDict struct {
	Ari  map[string][]string
	Nasi map[string][]string
}

// ParseSKKDict reads the SKK-format dictionary at path. The file must be
// UTF-8; convert EUC-JP dictionaries before pointing the engine at them.
// Candidate annotations (everything after ';' inside a candidate) are
// stripped. Malformed lines are skipped.
func ParseSKKDict(path string) (*SKKDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skk dictionary: %w", err)
	}
	defer f.Close()

	d := &SKKDict{
		Ari:  map[string][]string{},
		Nasi: map[string][]string{},
	}
	target := d.Ari

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch line {
		case skkAriHeader:
			target = d.Ari
			continue
		case skkNasiHeader:
			target = d.Nasi
			continue
		}
		if strings.HasPrefix(line, ";;") {
			continue
		}

		yomi, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}
		rest = strings.Trim(rest, "/")
		if rest == "" {
			continue
		}
		var words []string
		for _, w := range strings.Split(rest, "/") {
			if i := strings.IndexByte(w, ';'); i >= 0 {
				w = w[:i]
			}
			if w != "" {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			target[yomi] = words
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read skk dictionary: %w", err)
	}
	return d, nil
}

// ExpandOkuri rewrites one okuri-ari entry into plain entries by expanding
// the trailing romaji marker into its possible okurigana. A trailing vowel
// expands to exactly one form; a trailing consonant is tried with every
// vowel, dropping combinations that do not transliterate.
func ExpandOkuri(rk *romkan.Converter, yomi string, words []string) map[string][]string {
	out := map[string][]string{}
	last := yomi[len(yomi)-1]
	if last < 'a' || last > 'z' {
		out[yomi] = words
		return out
	}

	isVowel := strings.ContainsAny(string(last), "aiueo")
	if isVowel {
		okuri := rk.ToHiragana(string(last))
		withOkuri := make([]string, len(words))
		for i, w := range words {
			withOkuri[i] = w + okuri
		}
		out[yomi[:len(yomi)-1]+okuri] = withOkuri
		return out
	}

	for _, v := range skkVowels {
		okuri := rk.ToHiragana(string(last) + v)
		if okuri != "" && okuri[0] >= 'a' && okuri[0] <= 'z' {
			// wu and friends do not transliterate; skip them.
			continue
		}
		withOkuri := make([]string, len(words))
		for i, w := range words {
			withOkuri[i] = w + okuri
		}
		out[yomi[:len(yomi)-1]+okuri] = withOkuri
	}
	return out
}

// LoadSKK parses the SKK dictionaries at paths, expands okuri-ari entries,
// merges everything in path order, and returns the result as a BinaryDict.
// A missing or unreadable file fails the whole load; the engine cannot run
// on a partial configuration.
func LoadSKK(rk *romkan.Converter, paths ...string) (*BinaryDict, error) {
	b := NewBuilder()
	for _, path := range paths {
		d, err := ParseSKKDict(path)
		if err != nil {
			return nil, err
		}
		for _, yomi := range sortedKeys(d.Nasi) {
			b.Add(yomi, d.Nasi[yomi])
		}
		for _, yomi := range sortedKeys(d.Ari) {
			expanded := ExpandOkuri(rk, yomi, d.Ari[yomi])
			for _, k := range sortedKeys(expanded) {
				b.Add(k, expanded[k])
			}
		}
		log.Info().Str("path", path).Int("ari", len(d.Ari)).Int("nasi", len(d.Nasi)).Msg("loaded skk dictionary")
	}
	return b.Build()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package kana converts between the Japanese scripts the conversion engine
// juggles when it manufactures fallback candidates: hiragana to katakana,
// kana back to romaji, and halfwidth latin to fullwidth latin.
package kana

import (
	"strings"

	"golang.org/x/text/width"
)

// HiraToKata converts every hiragana code point in s to its katakana
// counterpart. Other characters, including the long vowel mark ー, pass
// through unchanged.
func HiraToKata(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= 'ぁ' && r <= 'ゖ' {
			r += 'ァ' - 'ぁ'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// KataToHira converts every katakana code point in s to its hiragana
// counterpart. Other characters pass through unchanged.
func KataToHira(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 'ァ' - 'ぁ'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToFullwidth converts ASCII in s to the fullwidth forms (a→ａ). Characters
// that are already fullwidth are untouched.
func ToFullwidth(s string) string {
	return width.Widen.String(s)
}

// hiraToRomaji maps kana units back to romaji for the latin fallback
// candidate. Digraphs must come before their leading kana during matching,
// which ToRomaji handles by trying two runes first.
var hiraToRomaji = map[string]string{
	"あ": "a", "い": "i", "う": "u", "え": "e", "お": "o",
	"か": "ka", "き": "ki", "く": "ku", "け": "ke", "こ": "ko",
	"が": "ga", "ぎ": "gi", "ぐ": "gu", "げ": "ge", "ご": "go",
	"さ": "sa", "し": "si", "す": "su", "せ": "se", "そ": "so",
	"ざ": "za", "じ": "zi", "ず": "zu", "ぜ": "ze", "ぞ": "zo",
	"た": "ta", "ち": "ti", "つ": "tu", "て": "te", "と": "to",
	"だ": "da", "ぢ": "di", "づ": "du", "で": "de", "ど": "do",
	"な": "na", "に": "ni", "ぬ": "nu", "ね": "ne", "の": "no",
	"は": "ha", "ひ": "hi", "ふ": "hu", "へ": "he", "ほ": "ho",
	"ば": "ba", "び": "bi", "ぶ": "bu", "べ": "be", "ぼ": "bo",
	"ぱ": "pa", "ぴ": "pi", "ぷ": "pu", "ぺ": "pe", "ぽ": "po",
	"ま": "ma", "み": "mi", "む": "mu", "め": "me", "も": "mo",
	"や": "ya", "ゆ": "yu", "よ": "yo",
	"ら": "ra", "り": "ri", "る": "ru", "れ": "re", "ろ": "ro",
	"わ": "wa", "を": "wo", "ん": "n",
	"ぁ": "xa", "ぃ": "xi", "ぅ": "xu", "ぇ": "xe", "ぉ": "xo",
	"ゃ": "xya", "ゅ": "xyu", "ょ": "xyo", "ゎ": "xwa",

	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"しゃ": "sya", "しゅ": "syu", "しょ": "syo",
	"じゃ": "zya", "じゅ": "zyu", "じょ": "zyo",
	"ちゃ": "tya", "ちゅ": "tyu", "ちょ": "tyo",
	"ぢゃ": "dya", "ぢゅ": "dyu", "ぢょ": "dyo",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
	"うぃ": "wi", "うぇ": "we",
}

// ToRomaji transliterates hiragana in s back to romaji, longest unit first.
// っ doubles the following consonant. Characters with no mapping, such as
// the long vowel mark, pass through unchanged.
func ToRomaji(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sokuon := false
	for i := 0; i < len(runes); {
		if runes[i] == 'っ' {
			sokuon = true
			i++
			continue
		}
		unit := ""
		if i+1 < len(runes) {
			unit = hiraToRomaji[string(runes[i:i+2])]
			if unit != "" {
				i += 2
			}
		}
		if unit == "" {
			unit = hiraToRomaji[string(runes[i])]
			if unit == "" {
				unit = string(runes[i])
			}
			i++
		}
		if sokuon {
			sokuon = false
			if len(unit) > 0 && unit[0] >= 'a' && unit[0] <= 'z' {
				unit = unit[:1] + unit
			}
		}
		sb.WriteString(unit)
	}
	if sokuon {
		sb.WriteString("xtu")
	}
	return sb.String()
}

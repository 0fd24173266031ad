// Package kana validates phonetic-reading candidates. The LLM is asked for
// a pure kana reading but sometimes answers with kanji, romaji or an
// explanation; those responses are rejected and the reading is omitted.
package kana

import "unicode"

// punctuation allowed inside a reading, beyond kana and whitespace.
var allowedPunct = map[rune]bool{
	'、': true, '。': true, '！': true, '？': true,
	'・': true, '「': true, '」': true, '〜': true, '～': true, '…': true,
	',': true, '.': true, '!': true, '?': true,
}

// IsReading reports whether s is a usable phonetic reading: only hiragana,
// katakana, the prolonged sound mark, whitespace and a fixed punctuation
// set. An empty or all-whitespace string is not a reading.
func IsReading(s string) bool {
	hasKana := false
	for _, r := range s {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana):
			hasKana = true
		case r == 'ー' || r == '゛' || r == '゜':
			// sound marks
		case unicode.IsSpace(r):
		case allowedPunct[r]:
		default:
			return false
		}
	}
	return hasKana
}

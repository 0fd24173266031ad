package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReading(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"hiragana only", "おはようございます", true},
		{"katakana only", "コーヒー", true},
		{"kana with punctuation", "おはよう、せんせい。", true},
		{"kana with spaces", "きょう は いい てんき", true},
		{"prolonged sound mark", "らーめん", true},
		{"wave dash", "そうですね〜", true},
		{"fullwidth tilde", "そうですね～", true},
		{"contains kanji", "今日はいい天気", false},
		{"contains romaji", "ohayou おはよう", false},
		{"explanatory answer", "読み方は「おはよう」です (this means good morning)", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"punctuation only", "、。", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReading(tt.input))
		})
	}
}

// Package ai talks to the generative text service. Backends are swappable
// implementations of a single chat-completion call, selected once at
// startup; ordinary upstream failures degrade to empty results so the
// engine can fall back to stored items.
package ai

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// GeneratedItem is one candidate practice pair from the LLM.
type GeneratedItem struct {
	JP string `json:"jp"`
	KR string `json:"kr"`
}

// Provider is the capability surface the engine consumes.
type Provider interface {
	// GenerateItems returns up to count candidate items for (level, topic).
	// Empty on any ordinary upstream failure.
	GenerateItems(level models.Level, topic string, count int) []GeneratedItem
	// EvaluateTranslation grades an attempted translation and returns
	// feedback text carrying an extractable star count.
	EvaluateTranslation(sourceText, attempt, reference, langLabel string) (string, error)
	// GenerateReading returns a phonetic (kana) reading for sourceText,
	// or "" to signal the reading should be omitted.
	GenerateReading(sourceText string) string
}

// completer is one chat-completion round trip against a concrete backend.
type completer interface {
	complete(system, user string, maxTokens int, temperature float64) (string, error)
}

// New selects a backend once from the configured provider name.
// An empty name yields (nil, nil): realtime generation stays disabled.
func New(provider, apiKey string) (Provider, error) {
	switch provider {
	case "":
		return nil, nil
	case "openai":
		return &chatProvider{c: newOpenAIClient(apiKey)}, nil
	case "claude":
		return &chatProvider{c: newClaudeClient(apiKey)}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// chatProvider implements Provider on top of any completer.
type chatProvider struct {
	c completer
}

const generateSystem = "당신은 일본어 학습 문장을 만드는 선생님입니다. 요청된 JSON 형식으로만 답변하세요."

func (p *chatProvider) GenerateItems(level models.Level, topic string, count int) []GeneratedItem {
	prompt := fmt.Sprintf(
		"JLPT %s 수준의 일본어 학습 문장을 %d개 만들어주세요. 주제: %s.\n"+
			"각 문장은 일본어 원문과 한국어 번역으로 구성됩니다.\n"+
			"다음 JSON 배열 형식으로만 답변하세요:\n"+
			`[{"jp": "일본어 문장", "kr": "한국어 번역"}]`,
		level, count, topic,
	)

	content, err := p.c.complete(generateSystem, prompt, 250*count, 0.8)
	if err != nil {
		log.Printf("ai: item generation failed: %v", err)
		return nil
	}

	items := parseGeneratedItems(content)
	if len(items) == 0 {
		log.Printf("ai: item generation returned no parseable items")
	}
	return items
}

const evaluateSystem = "당신은 일본어 번역을 평가하는 선생님입니다."

func (p *chatProvider) EvaluateTranslation(sourceText, attempt, reference, langLabel string) (string, error) {
	prompt := fmt.Sprintf(
		"다음 %s 번역을 평가해주세요:\n"+
			"%s: %s\n"+
			"사용자 번역: %s\n"+
			"정답 번역: %s\n\n"+
			"0에서 5개의 별로 점수를 매기고, 한국어로 짧은 피드백을 제공해주세요.\n"+
			"형식: 점수: X/5\n"+
			"피드백: (피드백 내용)",
		langLabel, langLabel, sourceText, attempt, reference,
	)

	content, err := p.c.complete(evaluateSystem, prompt, 300, 0.3)
	if err != nil {
		return "", fmt.Errorf("failed to evaluate translation: %v", err)
	}
	return strings.TrimSpace(content), nil
}

const readingSystem = "당신은 일본어 발음 표기를 돕는 도우미입니다."

func (p *chatProvider) GenerateReading(sourceText string) string {
	prompt := fmt.Sprintf(
		"다음 일본어 문장의 읽는 법을 히라가나로만 적어주세요. 설명 없이 히라가나만 답변하세요:\n\n%s",
		sourceText,
	)

	content, err := p.c.complete(readingSystem, prompt, 150, 0.2)
	if err != nil {
		log.Printf("ai: reading generation failed: %v", err)
		return ""
	}
	return strings.TrimSpace(content)
}

// parseGeneratedItems extracts a JSON array from content, tolerating code
// fences and surrounding prose. Malformed content yields nil.
func parseGeneratedItems(content string) []GeneratedItem {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var items []GeneratedItem
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil
	}

	// Drop half-empty pairs the model sometimes emits.
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.JP) != "" && strings.TrimSpace(it.KR) != "" {
			out = append(out, it)
		}
	}
	return out
}

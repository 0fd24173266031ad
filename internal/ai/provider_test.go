package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedItems(t *testing.T) {
	content := `[{"jp": "水をください", "kr": "물 주세요"}, {"jp": "駅はどこですか", "kr": "역은 어디예요"}]`

	items := parseGeneratedItems(content)
	require.Len(t, items, 2)
	assert.Equal(t, "水をください", items[0].JP)
	assert.Equal(t, "물 주세요", items[0].KR)
}

func TestParseGeneratedItemsWithFencesAndProse(t *testing.T) {
	content := "물론입니다! 요청하신 문장입니다:\n```json\n" +
		`[{"jp": "いただきます", "kr": "잘 먹겠습니다"}]` +
		"\n```\n도움이 되었기를 바랍니다."

	items := parseGeneratedItems(content)
	require.Len(t, items, 1)
	assert.Equal(t, "いただきます", items[0].JP)
}

func TestParseGeneratedItemsMalformed(t *testing.T) {
	assert.Nil(t, parseGeneratedItems("죄송합니다, 문장을 만들 수 없습니다."))
	assert.Nil(t, parseGeneratedItems(`[{"jp": "broken"`))
}

func TestParseGeneratedItemsDropsEmptyPairs(t *testing.T) {
	content := `[{"jp": "こんにちは", "kr": "안녕하세요"}, {"jp": "", "kr": "빈 문장"}]`

	items := parseGeneratedItems(content)
	require.Len(t, items, 1)
	assert.Equal(t, "こんにちは", items[0].JP)
}

func TestNewSelectsBackendOnce(t *testing.T) {
	p, err := New("", "")
	require.NoError(t, err)
	assert.Nil(t, p, "empty provider name disables realtime generation")

	p, err = New("openai", "key")
	require.NoError(t, err)
	assert.NotNil(t, p)

	p, err = New("claude", "key")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = New("gemini", "key")
	assert.Error(t, err)
}

package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestSendBeforeConnectDropsMessage(t *testing.T) {
	b := &Bot{}

	// A broadcast firing before the Telegram session exists must not panic.
	assert.NotPanics(t, func() {
		b.send(tgbotapi.NewMessage(1, "안녕하세요"))
	})
}

func TestHelpTextListsAllCommands(t *testing.T) {
	help := helpText()

	for _, cmd := range []string{"/start", "/push", "/level", "/wordbook", "/realtime", "/reload", "/help"} {
		assert.Contains(t, help, cmd)
	}
	for _, admin := range []string{"/push", "/realtime", "/reload"} {
		idx := strings.Index(help, admin)
		require.GreaterOrEqual(t, idx, 0)
		line := help[idx:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		assert.Contains(t, line, "관리자", "%s is admin gated", admin)
	}
}

func TestCreateKeyboard(t *testing.T) {
	kb := createKeyboard([][]MenuButton{
		{{Text: "a", CallbackData: "cb_a"}, {Text: "b", CallbackData: "cb_b"}},
		{{Text: "c", CallbackData: "cb_c"}},
	})

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	require.NotNil(t, kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "cb_c", *kb.InlineKeyboard[1][0].CallbackData)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, "09:00", cfg.DailyTime)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Equal(t, 0.8, cfg.RealtimeProbability)
	assert.Equal(t, 10, cfg.WindowSize)
	assert.Equal(t, 5, cfg.WindowMinEntries)
	assert.Equal(t, 4.5, cfg.PromoteMean)
	assert.Equal(t, 2.0, cfg.DemoteMean)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("ADMIN_IDS", "12, 34,not-a-number,56")
	t.Setenv("WINDOW_SIZE", "20")
	t.Setenv("PROMOTE_MEAN", "4.0")

	cfg := Load()

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, []int64{12, 34, 56}, cfg.AdminIDs, "unparseable IDs are skipped")
	assert.Equal(t, 20, cfg.WindowSize)
	assert.Equal(t, 4.0, cfg.PromoteMean)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{BotToken: "token", DatabaseDriver: "sqlite3"}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.BotToken = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.LLMProvider = "gemini"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.LLMProvider = "openai"
	assert.Error(t, cfg.Validate(), "provider without key is rejected")

	cfg.LLMAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.DatabaseDriver = "mysql"
	assert.Error(t, cfg.Validate())
}

func TestIsAdmin(t *testing.T) {
	open := &Config{}
	assert.True(t, open.IsAdmin(999), "no configured admins means everyone")

	gated := &Config{AdminIDs: []int64{12, 34}}
	assert.True(t, gated.IsAdmin(34))
	assert.False(t, gated.IsAdmin(999))
}

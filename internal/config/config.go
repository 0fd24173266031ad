package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	BotToken    string
	LLMProvider string // "openai" or "claude"; empty disables realtime generation
	LLMAPIKey   string
	AdminIDs    []int64

	Timezone  string // IANA name, e.g. Asia/Seoul
	DailyTime string // HH:MM, local to Timezone

	DatabaseDriver string // "sqlite3" (default) or "postgres"
	DatabaseURL    string
	ItemsFile      string
	AudioDir       string

	// Tuning knobs for the delivery engine. The defaults are product
	// constants carried over as-is; see the selector and difficulty docs.
	LowStockThreshold   int
	RealtimeProbability float64
	WindowSize          int
	WindowMinEntries    int
	PromoteMean         float64
	DemoteMean          float64
}

// Load reads configuration from .env (if present) and the environment.
func Load() *Config {
	// Missing .env is fine, env vars may be set by the host.
	_ = godotenv.Load()

	c := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		LLMProvider: getEnv("LLM_PROVIDER", ""),
		LLMAPIKey:   os.Getenv("LLM_API_KEY"),

		Timezone:  getEnv("TIMEZONE", "Asia/Seoul"),
		DailyTime: getEnv("DAILY_TIME", "09:00"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "data/nihongobot.db"),
		ItemsFile:      getEnv("ITEMS_FILE", "data/items.json"),
		AudioDir:       getEnv("AUDIO_DIR", "audio_cache"),

		LowStockThreshold:   getEnvInt("LOW_STOCK_THRESHOLD", 10),
		RealtimeProbability: getEnvFloat("REALTIME_PROBABILITY", 0.8),
		WindowSize:          getEnvInt("WINDOW_SIZE", 10),
		WindowMinEntries:    getEnvInt("WINDOW_MIN_ENTRIES", 5),
		PromoteMean:         getEnvFloat("PROMOTE_MEAN", 4.5),
		DemoteMean:          getEnvFloat("DEMOTE_MEAN", 2.0),
	}

	if ids := os.Getenv("ADMIN_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			c.AdminIDs = append(c.AdminIDs, id)
		}
	}

	return c
}

// Validate checks required fields. The LLM key is only required when a
// provider is configured: the bot still works serving stored items.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.LLMProvider != "" {
		if c.LLMProvider != "openai" && c.LLMProvider != "claude" {
			return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
		}
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required when LLM_PROVIDER is set")
		}
	}
	if c.DatabaseDriver != "sqlite3" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("unsupported DATABASE_DRIVER: %s", c.DatabaseDriver)
	}
	return nil
}

// IsAdmin reports whether userID may run admin commands. With no admins
// configured everyone is allowed.
func (c *Config) IsAdmin(userID int64) bool {
	if len(c.AdminIDs) == 0 {
		return true
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// MemoDBPath is the embedded SQLite file. Ignored when DatabaseURI is set.
	MemoDBPath    string
	DatabaseURI   string
	TelegramToken string
	// AllowedUserID limits the bot to one Telegram user when non-zero.
	AllowedUserID int64
	AIAPIKey      string
	AIBaseURL     string
	AIModel       string
	Debug         bool
}

func Load() (*Config, error) {
	// .env file is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		MemoDBPath:    getEnvOrDefault("MEMO_DB_PATH", "memo.db"),
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIBaseURL:     getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:       getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		Debug:         os.Getenv("DEBUG") == "true",
	}

	if v := os.Getenv("ALLOWED_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOWED_USER_ID %q: %w", v, err)
		}
		cfg.AllowedUserID = id
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

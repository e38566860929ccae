package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MEMO_DB_PATH", "DATABASE_URI", "TELEGRAM_TOKEN", "ALLOWED_USER_ID",
		"AI_API_KEY", "AI_BASE_URL", "AI_MODEL", "DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memo.db", cfg.MemoDBPath)
	assert.Empty(t, cfg.DatabaseURI)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AIBaseURL)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.AIModel)
	assert.Zero(t, cfg.AllowedUserID)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("MEMO_DB_PATH", "/var/lib/memo/memo.db")
	t.Setenv("ALLOWED_USER_ID", "123456")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/memo/memo.db", cfg.MemoDBPath)
	assert.Equal(t, int64(123456), cfg.AllowedUserID)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidAllowedUser(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("ALLOWED_USER_ID", "me")

	_, err := Load()
	assert.ErrorContains(t, err, "ALLOWED_USER_ID")
}

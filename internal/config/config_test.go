package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ALLOWED_ORIGINS", "CHAT_REPLY_DELAY_MS", "REPLY_CATALOG_FILE", "PROFILE_DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 800*time.Millisecond, cfg.Chat.ReplyDelay)
	assert.Empty(t, cfg.Chat.CatalogFile)
	assert.Empty(t, cfg.Profile.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("CHAT_REPLY_DELAY_MS", "0")
	t.Setenv("REPLY_CATALOG_FILE", "catalog.yaml")
	t.Setenv("PROFILE_DB_PATH", "profile.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Zero(t, cfg.Chat.ReplyDelay)
	assert.Equal(t, "catalog.yaml", cfg.Chat.CatalogFile)
	assert.Equal(t, "profile.db", cfg.Profile.DBPath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "80 80")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PORT", "")
	t.Setenv("CHAT_REPLY_DELAY_MS", "soon")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("CHAT_REPLY_DELAY_MS", "-5")
	_, err = Load()
	require.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, "ponto.db", cfg.DatabaseURL)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 10*time.Minute, cfg.LivePanelDuration)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, int64(0), cfg.BaseAdminChatID)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("BASE_ADMIN_CHAT_ID", "-100123")
	t.Setenv("DATABASE_URL", "/tmp/x.db")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TICK_INTERVAL", "5s")
	t.Setenv("TELEGRAM_DEBUG", "true")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(-100123), cfg.BaseAdminChatID)
	assert.Equal(t, "/tmp/x.db", cfg.DatabaseURL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.True(t, cfg.TelegramDebug)
}

func TestFromEnv_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := fromEnv()
	assert.ErrorIs(t, err, ErrMissingToken)
	require.NotNil(t, cfg)
	assert.Equal(t, "ponto.db", cfg.DatabaseURL)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := fromEnv()
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = fromEnv()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("TICK_INTERVAL", "-1s")
	_, err = fromEnv()
	assert.Error(t, err)
}

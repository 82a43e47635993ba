package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config неизменяемая конфигурация процесса. Собирается один раз в main и
// передается в конструкторы явно.
type Config struct {
	TelegramToken   string
	TelegramDebug   bool
	BaseAdminChatID int64
	DatabaseURL     string

	Location *time.Location
	LogLevel logrus.Level

	MetricsAddr       string
	TickInterval      time.Duration
	LivePanelDuration time.Duration
}

var ErrMissingToken = errors.New("could not get bot token")

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading env variables: %w", err)
	}
	return fromEnv()
}

// LoadStore конфигурация для утилит, которым нужна только база (без токена бота)
func LoadStore() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrMissingToken) {
		return cfg, nil
	}
	return cfg, err
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:     getEnvAsBool("TELEGRAM_DEBUG", false),
		BaseAdminChatID:   getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),
		DatabaseURL:       getEnv("DATABASE_URL", "ponto.db"),
		MetricsAddr:       getEnv("METRICS_ADDR", ":9090"),
		TickInterval:      getEnvAsDuration("TICK_INTERVAL", time.Second),
		LivePanelDuration: getEnvAsDuration("LIVE_PANEL_DURATION", 10*time.Minute),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}

	if cfg.TelegramToken == "" {
		return cfg, ErrMissingToken
	}

	return cfg, nil
}

// NewLogger логгер компонента в общем формате
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if c != nil {
		logger.SetLevel(c.LogLevel)
	}
	return logger
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}

	return defaultVal
}

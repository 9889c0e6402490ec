// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/liquipedia-results/internal/notifier"
	"github.com/pfrederiksen/liquipedia-results/internal/provider"
)

const (
	defaultDataDir  = "~/.liquipedia-results"
	defaultHTTPAddr = ":8080"
	defaultLogLevel = "INFO"
)

// Config holds every setting the commands read from the environment
type Config struct {
	BaseURL   string        // LIQUIPEDIA_BASE_URL
	UserAgent string        // LIQUIPEDIA_USER_AGENT
	Throttle  time.Duration // LIQUIPEDIA_THROTTLE, e.g. "2s"

	DataDir     string // DATA_DIR
	DatabaseURL string // DATABASE_URL, optional
	HTTPAddr    string // HTTP_ADDR
	LogLevel    string // LOG_LEVEL

	Twitter notifier.TwitterCredentials // TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET

	DiscordToken     string // DISCORD_BOT_TOKEN
	DiscordChannelID string // DISCORD_CHANNEL_ID

	TelegramToken  string // TELEGRAM_BOT_TOKEN
	TelegramChatID string // TELEGRAM_CHAT_ID
}

// Load reads the given .env files (default ".env") into the environment and
// builds a Config. Missing .env files are ignored; variables already set in
// the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		BaseURL:     get("LIQUIPEDIA_BASE_URL", provider.DefaultBaseURL),
		UserAgent:   get("LIQUIPEDIA_USER_AGENT", provider.UserAgent),
		Throttle:    provider.DefaultThrottle,
		DataDir:     get("DATA_DIR", defaultDataDir),
		DatabaseURL: get("DATABASE_URL", ""),
		HTTPAddr:    get("HTTP_ADDR", defaultHTTPAddr),
		LogLevel:    get("LOG_LEVEL", defaultLogLevel),
		Twitter: notifier.TwitterCredentials{
			APIKey:       get("TWITTER_API_KEY", ""),
			APISecret:    get("TWITTER_API_SECRET", ""),
			AccessToken:  get("TWITTER_ACCESS_TOKEN", ""),
			AccessSecret: get("TWITTER_ACCESS_SECRET", ""),
		},
		DiscordToken:     get("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID: get("DISCORD_CHANNEL_ID", ""),
		TelegramToken:    get("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   get("TELEGRAM_CHAT_ID", ""),
	}

	if v := os.Getenv("LIQUIPEDIA_THROTTLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing LIQUIPEDIA_THROTTLE: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("LIQUIPEDIA_THROTTLE must not be negative: %s", v)
		}
		cfg.Throttle = d
	}

	return cfg, nil
}

// ProviderOptions returns the HTTP provider settings of the config
func (c *Config) ProviderOptions() []provider.Option {
	return []provider.Option{
		provider.WithBaseURL(c.BaseURL),
		provider.WithUserAgent(c.UserAgent),
		provider.WithThrottle(c.Throttle),
	}
}

func get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTurnstileVerifyURL is Cloudflare's siteverify endpoint.
const DefaultTurnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	NATSSubject        string
	TurnstileSecretKey string
	TurnstileVerifyURL string
	TurnstileTimeout   time.Duration
	DiscordWebhookURL  string
	NotifyTimeout      time.Duration
	ContactRateLimit   int
	ContactRateWindow  time.Duration
	ContactReplayTTL   time.Duration
	CORSAllowOrigins   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Portfolio API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.url", "file:portfolio.db?_foreign_keys=on")
	v.SetDefault("nats.subject", "portfolio.contact.submitted")
	v.SetDefault("turnstile.verify_url", DefaultTurnstileVerifyURL)
	v.SetDefault("turnstile.timeout", "5s")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("contact.rate_limit", 5)
	v.SetDefault("contact.rate_window", "1m")
	v.SetDefault("contact.replay_ttl", "5m")
	v.SetDefault("cors.allow_origins", "*")

	turnstileTimeout, err := parseDuration(v, "turnstile.timeout", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	notifyTimeout, err := parseDuration(v, "notify.timeout", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v, "contact.rate_window", time.Minute)
	if err != nil {
		return Config{}, err
	}
	replayTTL, err := parseDuration(v, "contact.replay_ttl", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		NATSSubject:        v.GetString("nats.subject"),
		TurnstileSecretKey: v.GetString("turnstile.secret_key"),
		TurnstileVerifyURL: v.GetString("turnstile.verify_url"),
		TurnstileTimeout:   turnstileTimeout,
		DiscordWebhookURL:  v.GetString("discord.webhook_url"),
		NotifyTimeout:      notifyTimeout,
		ContactRateLimit:   v.GetInt("contact.rate_limit"),
		ContactRateWindow:  rateWindow,
		ContactReplayTTL:   replayTTL,
		CORSAllowOrigins:   v.GetString("cors.allow_origins"),
	}

	if strings.TrimSpace(cfg.TurnstileSecretKey) == "" {
		return Config{}, fmt.Errorf("turnstile secret key must be provided")
	}

	if cfg.ContactRateLimit <= 0 {
		cfg.ContactRateLimit = 5
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return fallback, nil
	}

	return value, nil
}

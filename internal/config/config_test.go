package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresTurnstileSecret(t *testing.T) {
	t.Setenv("PORTFOLIO_TURNSTILE_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTFOLIO_TURNSTILE_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.TurnstileSecretKey)
	require.Equal(t, DefaultTurnstileVerifyURL, cfg.TurnstileVerifyURL)
	require.Equal(t, 5*time.Second, cfg.TurnstileTimeout)
	require.Equal(t, 5*time.Minute, cfg.ContactReplayTTL)
	require.Equal(t, 5, cfg.ContactRateLimit)
	require.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_TURNSTILE_SECRET_KEY", "secret")
	t.Setenv("PORTFOLIO_DISCORD_WEBHOOK_URL", "https://discord.example/hook")
	t.Setenv("PORTFOLIO_NOTIFY_TIMEOUT", "3s")
	t.Setenv("PORTFOLIO_APP_PORT", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://discord.example/hook", cfg.DiscordWebhookURL)
	require.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	require.Equal(t, ":9000", cfg.HTTPAddress())
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("PORTFOLIO_TURNSTILE_SECRET_KEY", "secret")
	t.Setenv("PORTFOLIO_TURNSTILE_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

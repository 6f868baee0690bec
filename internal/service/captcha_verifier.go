package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/observability"
)

const captchaResponseLimit = 64 << 10

// CaptchaVerifier checks a client-supplied human verification token.
// A false result with a nil error means the upstream rejected the token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// TurnstileConfig configures the Cloudflare Turnstile verifier.
type TurnstileConfig struct {
	SecretKey string
	VerifyURL string
}

// TurnstileVerifier verifies tokens against the Turnstile siteverify API.
type TurnstileVerifier struct {
	client    *http.Client
	secretKey string
	verifyURL string
	logger    zerolog.Logger
}

type turnstileResponse struct {
	Success    *bool    `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
}

// NewTurnstileVerifier constructs a verifier. The client should carry a bounded timeout.
func NewTurnstileVerifier(cfg TurnstileConfig, client *http.Client, logger zerolog.Logger) *TurnstileVerifier {
	if client == nil {
		client = observability.NewHTTPClient(5 * time.Second)
	}
	return &TurnstileVerifier{
		client:    client,
		secretKey: cfg.SecretKey,
		verifyURL: cfg.VerifyURL,
		logger:    logger.With().Str("component", "turnstile_verifier").Logger(),
	}
}

// Verify makes exactly one siteverify call. Any failure to obtain an explicit
// success=true from upstream yields false.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, ErrCaptchaMissing
	}

	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := v.client.Do(req)
	observability.CaptchaVerifyLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, captchaResponseLimit))
		return false, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var payload turnstileResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, captchaResponseLimit)).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}

	if payload.Success == nil {
		return false, fmt.Errorf("siteverify response missing success field")
	}

	if !*payload.Success {
		v.logger.Debug().Strs("error_codes", payload.ErrorCodes).Msg("captcha token rejected upstream")
		return false, nil
	}

	return true, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/observability"
)

// ContactDelivery defines a transport to deliver contact notifications.
type ContactDelivery interface {
	Name() string
	Deliver(ctx context.Context, submission models.ContactSubmission) error
}

// LogContactDelivery is a basic provider that logs submissions.
type LogContactDelivery struct {
	logger zerolog.Logger
}

// NewLogContactDelivery constructs a logging provider.
func NewLogContactDelivery(logger zerolog.Logger) *LogContactDelivery {
	return &LogContactDelivery{logger: logger.With().Str("component", "contact_delivery").Logger()}
}

func (l *LogContactDelivery) Name() string { return "log" }

// Deliver logs the submission and returns nil to indicate success.
func (l *LogContactDelivery) Deliver(_ context.Context, submission models.ContactSubmission) error {
	l.logger.Info().
		Uint("form_id", submission.ID).
		Str("email", maskEmailAddress(submission.Email)).
		Msg("contact submission recorded")
	return nil
}

type discordWebhookPayload struct {
	Content         string                 `json:"content"`
	AllowedMentions discordAllowedMentions `json:"allowed_mentions"`
}

type discordAllowedMentions struct {
	Parse []string `json:"parse"`
}

// DiscordWebhookDelivery posts a plain-text summary to a Discord channel webhook.
type DiscordWebhookDelivery struct {
	client     *http.Client
	webhookURL string
	policy     *bluemonday.Policy
}

// NewDiscordWebhookDelivery constructs a Discord provider.
func NewDiscordWebhookDelivery(webhookURL string, client *http.Client) *DiscordWebhookDelivery {
	if client == nil {
		client = observability.NewHTTPClient(10 * time.Second)
	}
	return &DiscordWebhookDelivery{
		client:     client,
		webhookURL: webhookURL,
		policy:     bluemonday.StrictPolicy(),
	}
}

func (d *DiscordWebhookDelivery) Name() string { return "discord" }

// Deliver posts the summary. Mentions are disabled so submitted text cannot ping the channel.
func (d *DiscordWebhookDelivery) Deliver(ctx context.Context, submission models.ContactSubmission) error {
	body, err := json.Marshal(discordWebhookPayload{
		Content:         formatContactMessage(d.policy, submission),
		AllowedMentions: discordAllowedMentions{Parse: []string{}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 16<<10))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NATSContactDelivery publishes a contact event for downstream consumers.
type NATSContactDelivery struct {
	conn    *nats.Conn
	subject string
}

// NewNATSContactDelivery constructs a NATS provider.
func NewNATSContactDelivery(conn *nats.Conn, subject string) *NATSContactDelivery {
	return &NATSContactDelivery{conn: conn, subject: subject}
}

func (n *NATSContactDelivery) Name() string { return "nats" }

func (n *NATSContactDelivery) Deliver(_ context.Context, submission models.ContactSubmission) error {
	event := dto.ContactNotificationEvent{
		FormID:      submission.ID,
		Name:        submission.Name,
		Email:       submission.Email,
		Phone:       submission.Phone,
		Description: submission.Description,
		SubmittedAt: submission.CreatedAt.UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publish contact event: %w", err)
	}
	return nil
}

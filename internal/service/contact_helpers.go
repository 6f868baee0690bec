package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/portfolio-api/internal/models"
)

const discordContentLimit = 2000

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := parts[0]
	domain := parts[1]
	if len(local) <= 2 {
		local = local[:1] + "***"
	} else {
		local = local[:1] + "***" + local[len(local)-1:]
	}
	return local + "@" + domain
}

// formatContactMessage renders the chat summary for a submission with markup stripped.
func formatContactMessage(policy *bluemonday.Policy, submission models.ContactSubmission) string {
	clean := func(value string) string {
		return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
	}

	content := fmt.Sprintf(
		"New contact form submission:\nName: %s\nEmail: %s\nPhone: %s\nDescription: %s",
		clean(submission.Name),
		clean(submission.Email),
		clean(submission.Phone),
		clean(submission.Description),
	)
	return truncateRunes(content, discordContentLimit)
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

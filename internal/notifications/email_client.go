package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/config"
)

// ErrNotConfigured is returned when the client has no API key or sender.
var ErrNotConfigured = errors.New("email client is not configured")

// EmailClient sends transactional email through a Brevo-compatible HTTP API.
type EmailClient struct {
	apiKey        string
	senderEmail   string
	senderName    string
	businessEmail string
	sandbox       bool
	endpoint      string
	httpClient    *http.Client
}

// NewEmailClient creates an EmailClient from config. It returns nil when the
// API key or sender is missing; a nil client reports ErrNotConfigured.
func NewEmailClient(cfg config.EmailConfig) *EmailClient {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.SenderEmail) == "" {
		return nil
	}
	senderName := cfg.SenderName
	if strings.TrimSpace(senderName) == "" {
		senderName = cfg.SenderEmail
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailClient{
		apiKey:        cfg.APIKey,
		senderEmail:   cfg.SenderEmail,
		senderName:    senderName,
		businessEmail: cfg.BusinessEmail,
		sandbox:       cfg.Sandbox,
		endpoint:      cfg.APIURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

func (c *EmailClient) sendHTML(ctx context.Context, toEmail, toName, subject, htmlBody, replyTo string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(toEmail) == "" {
		return "", errors.New("missing recipient email")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("missing subject")
	}
	if strings.TrimSpace(htmlBody) == "" {
		return "", errors.New("missing html body")
	}

	payload := sendRequest{
		Sender:      sender{Name: c.senderName, Email: c.senderEmail},
		To:          []recipient{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: htmlBody,
	}
	if replyTo != "" {
		payload.ReplyTo = &recipient{Email: replyTo}
	}
	if c.sandbox {
		payload.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("email marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("email create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("email send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("email decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("email response missing messageId")
	}
	return out.MessageID, nil
}

type sendRequest struct {
	Sender      sender            `json:"sender"`
	To          []recipient       `json:"to"`
	ReplyTo     *recipient        `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

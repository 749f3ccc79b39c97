package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/config"
)

// ErrRejected is returned when the provider does not accept the token.
var ErrRejected = errors.New("anti-automation check failed")

// Verifier checks anti-automation tokens issued to the browser.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// NewVerifier returns a reCAPTCHA verifier, or a verifier that accepts any
// non-empty token when no secret is configured.
func NewVerifier(cfg config.CaptchaConfig) Verifier {
	if strings.TrimSpace(cfg.Secret) == "" {
		return PresenceVerifier{}
	}
	return &RecaptchaVerifier{
		secret:     cfg.Secret,
		verifyURL:  cfg.VerifyURL,
		minScore:   cfg.MinScore,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// PresenceVerifier only requires the token to be present.
type PresenceVerifier struct{}

// Verify implements Verifier.
func (PresenceVerifier) Verify(_ context.Context, token, _ string) error {
	if strings.TrimSpace(token) == "" {
		return ErrRejected
	}
	return nil
}

// RecaptchaVerifier verifies tokens against a siteverify endpoint.
type RecaptchaVerifier struct {
	secret     string
	verifyURL  string
	minScore   float64
	httpClient *http.Client
}

type siteVerifyResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verify implements Verifier. Transport failures are returned as-is so the
// caller can tell them apart from ErrRejected.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return ErrRejected
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("captcha request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha verify returned status %d", resp.StatusCode)
	}

	var out siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("captcha decode response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(out.ErrorCodes, ","))
	}
	if out.Score != nil && *out.Score < v.minScore {
		return fmt.Errorf("%w: score %.2f below %.2f", ErrRejected, *out.Score, v.minScore)
	}
	return nil
}

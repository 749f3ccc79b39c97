package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

const draftKeyPrefix = "quote:draft:"

// RedisDraftStore keeps in-progress drafts in Redis with a TTL.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisDraftStore creates a RedisDraftStore. A non-positive ttl falls back to 24h.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = session.DefaultMaxDraftAge
	}
	return &RedisDraftStore{client: client, ttl: ttl, now: time.Now}
}

// Save stores the draft. The anti-automation token is always stripped.
func (s *RedisDraftStore) Save(ctx context.Context, key string, saved session.SavedDraft) error {
	saved.Draft = saved.Draft.Clone()
	saved.Draft.AntiAutomationToken = ""
	if saved.SavedAt.IsZero() {
		saved.SavedAt = s.now().UTC()
	}

	payload, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Load returns the stored draft, or nil when there is none or it has expired.
func (s *RedisDraftStore) Load(ctx context.Context, key string) (*session.SavedDraft, error) {
	payload, err := s.client.Get(ctx, draftKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var saved session.SavedDraft
	if err := json.Unmarshal(payload, &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if s.now().Sub(saved.SavedAt) > s.ttl {
		return nil, nil
	}
	saved.Draft.AntiAutomationToken = ""
	return &saved, nil
}

// Clear removes the stored draft.
func (s *RedisDraftStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// DraftService keeps in-progress drafts server-side, keyed by session key.
type DraftService struct {
	store  session.DraftStore
	logger *zap.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(store session.DraftStore, logger *zap.Logger) *DraftService {
	return &DraftService{store: store, logger: logger}
}

// SaveDraft stores a draft under key.
func (s *DraftService) SaveDraft(ctx context.Context, key string, saved session.SavedDraft) error {
	if err := checkSessionKey(key); err != nil {
		return err
	}
	if saved.Draft.Submission.IsSubmitted {
		return domain.NewValidationError("submitted drafts are not stored")
	}
	if err := s.store.Save(ctx, key, saved); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the draft stored under key.
func (s *DraftService) LoadDraft(ctx context.Context, key string) (*session.SavedDraft, error) {
	if err := checkSessionKey(key); err != nil {
		return nil, err
	}
	saved, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if saved == nil {
		return nil, domain.NewNotFoundError("draft", key)
	}
	return saved, nil
}

// ClearDraft deletes the draft stored under key.
func (s *DraftService) ClearDraft(ctx context.Context, key string) error {
	if err := checkSessionKey(key); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func checkSessionKey(key string) error {
	if _, err := uuid.Parse(key); err != nil {
		return domain.NewValidationError("session key must be a UUID")
	}
	return nil
}

package service

import (
	"context"
	"strings"
	"time"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/drafts"
	"bedtime-server/internal/story"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftService keeps recently generated, unsaved stories for a user.
type DraftService interface {
	SaveDraft(ctx context.Context, userID string, generated *domain.GeneratedStory) (*domain.Draft, error)
	ListDrafts(ctx context.Context, userID string) ([]domain.Draft, error)
	GetDraft(ctx context.Context, userID, draftID string) (*domain.Draft, error)
}

type draftServiceImpl struct {
	store  drafts.Store
	logger *zap.Logger
}

// NewDraftService creates a DraftService.
func NewDraftService(store drafts.Store, logger *zap.Logger) DraftService {
	return &draftServiceImpl{store: store, logger: logger.Named("DraftService")}
}

var nowUTC = func() time.Time { return time.Now().UTC() }

func (s *draftServiceImpl) SaveDraft(ctx context.Context, userID string, generated *domain.GeneratedStory) (*domain.Draft, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if generated == nil || strings.TrimSpace(generated.Title) == "" {
		return nil, domain.NewValidationError(story.MsgTitleRequired)
	}
	if strings.TrimSpace(generated.Content) == "" {
		return nil, domain.NewValidationError(story.MsgContentRequired)
	}
	if generated.ID == uuid.Nil {
		generated.ID = uuid.New()
	}
	if generated.Images == nil {
		generated.Images = []string{}
	}

	d := domain.DraftFromGenerated(generated, nowUTC())
	if err := s.store.Put(ctx, userID, d); err != nil {
		s.logger.Error("Failed to keep draft", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (s *draftServiceImpl) ListDrafts(ctx context.Context, userID string) ([]domain.Draft, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.store.List(ctx, userID)
}

func (s *draftServiceImpl) GetDraft(ctx context.Context, userID, draftID string) (*domain.Draft, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(draftID)
	if err != nil {
		return nil, domain.ErrDraftNotFound
	}
	return s.store.Get(ctx, userID, id)
}

// Package service holds the use cases behind the HTTP API.
package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/events"
	"bedtime-server/internal/render"
	"bedtime-server/internal/repository"
	"bedtime-server/internal/story"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Document is the composed reading view of a stored story.
type Document struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Blocks        []story.Block `json:"blocks"`
	DroppedImages int           `json:"droppedImages"`
}

// PDFExport is a rendered story ready to be sent as an attachment.
type PDFExport struct {
	Filename string
	ETag     string
	Data     []byte
}

// StoryService manages saved stories of the signed-in user.
type StoryService interface {
	Create(ctx context.Context, userID string, input map[string]any) (*domain.Story, error)
	List(ctx context.Context, userID string) ([]*domain.Story, error)
	Get(ctx context.Context, userID, storyID string) (*domain.Story, error)
	Document(ctx context.Context, userID, storyID string) (*Document, error)
	ExportPDF(ctx context.Context, userID, storyID string) (*PDFExport, error)
}

type storyServiceImpl struct {
	repo      repository.StoryRepository
	publisher events.Publisher
	renderer  render.Renderer
	logger    *zap.Logger
}

// NewStoryService creates a StoryService.
func NewStoryService(repo repository.StoryRepository, publisher events.Publisher, renderer render.Renderer, logger *zap.Logger) StoryService {
	return &storyServiceImpl{
		repo:      repo,
		publisher: publisher,
		renderer:  renderer,
		logger:    logger.Named("StoryService"),
	}
}

// publishTimeout bounds the event publish that follows a save.
const publishTimeout = 5 * time.Second

func (s *storyServiceImpl) Create(ctx context.Context, userID string, input map[string]any) (*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	fields, err := story.Normalize(input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, userID, fields)
	storiesSavedTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		s.logger.Error("Failed to save story", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	s.logger.Info("Story saved", zap.String("userID", userID), zap.Stringer("storyID", created.ID))

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	event := domain.StoryCreatedEvent{
		StoryID:    created.ID,
		UserID:     created.UserID,
		Title:      created.Title,
		ImageCount: len(created.Images),
		CreatedAt:  created.CreatedAt,
	}
	if err := s.publisher.PublishStoryCreated(pubCtx, event); err != nil {
		s.logger.Warn("Story saved but event was not published", zap.Stringer("storyID", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *storyServiceImpl) List(ctx context.Context, userID string) ([]*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	stories, err := s.repo.FindManyByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Get treats a malformed id like a missing story.
func (s *storyServiceImpl) Get(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(storyID)
	if err != nil {
		return nil, domain.ErrStoryNotFound
	}
	return s.repo.FindByIDForUser(ctx, id, userID)
}

func (s *storyServiceImpl) Document(ctx context.Context, userID, storyID string) (*Document, error) {
	st, err := s.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	paragraphs := story.SplitParagraphs(st.Content)
	return &Document{
		ID:            st.ID,
		Title:         st.Title,
		Blocks:        story.Compose(paragraphs, st.Images),
		DroppedImages: story.DroppedImages(len(paragraphs), len(st.Images)),
	}, nil
}

func (s *storyServiceImpl) ExportPDF(ctx context.Context, userID, storyID string) (*PDFExport, error) {
	st, err := s.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = s.renderer.Render(ctx, st.Title, story.ComposeStory(st), &buf)
	pdfExportsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		s.logger.Error("Failed to render PDF", zap.Stringer("storyID", st.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	sum := blake2b.Sum256(buf.Bytes())
	return &PDFExport{
		Filename: Filename(st.Title) + ".pdf",
		ETag:     `"` + hex.EncodeToString(sum[:16]) + `"`,
		Data:     buf.Bytes(),
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename turns a title into a safe attachment name.
func Filename(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "story"
	}
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}

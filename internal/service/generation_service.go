package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bedtime-server/internal/ai"
	"bedtime-server/internal/domain"
	"bedtime-server/internal/drafts"
	"bedtime-server/internal/imagegen"
	"bedtime-server/internal/imagestore"
	"bedtime-server/internal/prompts"
	"bedtime-server/internal/story"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MsgPromptRequired is returned when an image prompt is empty.
const MsgPromptRequired = "Prompt is required"

// GenerationConfig tunes the calls made for one story.
type GenerationConfig struct {
	Temperature      float64
	MaxTokens        int
	TitleMaxTokens   int
	GenerateImages   bool
	ImageConcurrency int
	PlaceholderImage string
}

// GenerationService writes and illustrates new stories.
type GenerationService interface {
	GenerateStory(ctx context.Context, userID string, req domain.StoryRequest) (*domain.GeneratedStory, error)
	ContinueStory(ctx context.Context, userID, storyID string, overrides prompts.ContinuationOverrides) (*domain.GeneratedStory, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type generationServiceImpl struct {
	text    ai.TextGenerator
	images  imagegen.Generator
	store   imagestore.Store
	catalog *prompts.Catalog
	stories StoryService
	drafts  drafts.Store
	cfg     GenerationConfig
	logger  *zap.Logger
}

// NewGenerationService creates a GenerationService. draftStore may be nil.
func NewGenerationService(
	text ai.TextGenerator,
	images imagegen.Generator,
	store imagestore.Store,
	catalog *prompts.Catalog,
	stories StoryService,
	draftStore drafts.Store,
	cfg GenerationConfig,
	logger *zap.Logger,
) GenerationService {
	if cfg.ImageConcurrency <= 0 {
		cfg.ImageConcurrency = 1
	}
	return &generationServiceImpl{
		text:    text,
		images:  images,
		store:   store,
		catalog: catalog,
		stories: stories,
		drafts:  draftStore,
		cfg:     cfg,
		logger:  logger.Named("GenerationService"),
	}
}

func (s *generationServiceImpl) GenerateStory(ctx context.Context, userID string, req domain.StoryRequest) (*domain.GeneratedStory, error) {
	titleFn, kind := plainTitle, "new"
	if req.Continuation {
		// Продолжение: модель часто отдаёт список вариантов
		titleFn, kind = story.SanitizeTitle, "continuation"
	}
	result, err := s.generate(ctx, userID, req, titleFn)
	storiesGeneratedTotal.WithLabelValues(kind, statusLabel(err)).Inc()
	return result, err
}

func (s *generationServiceImpl) ContinueStory(ctx context.Context, userID, storyID string, overrides prompts.ContinuationOverrides) (*domain.GeneratedStory, error) {
	prev, err := s.stories.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	req := s.catalog.ContinuationRequest(prev, overrides)
	result, err := s.generate(ctx, userID, req, story.SanitizeTitle)
	storiesGeneratedTotal.WithLabelValues("continuation", statusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	if s.drafts != nil {
		if err := s.drafts.Put(ctx, userID, domain.DraftFromGenerated(result, nowUTC())); err != nil {
			s.logger.Warn("Continuation generated but draft was not kept", zap.String("userID", userID), zap.Error(err))
		}
	}
	return result, nil
}

func plainTitle(raw string) string {
	if t := strings.TrimSpace(raw); t != "" {
		return t
	}
	return story.DefaultTitle
}

// generate runs the body and title completions concurrently; either failing
// fails the request. Illustrations never do.
func (s *generationServiceImpl) generate(ctx context.Context, userID string, req domain.StoryRequest, titleFn func(string) string) (*domain.GeneratedStory, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("length", string(req.Length)), zap.Bool("continuation", req.Continuation))
	log.Info("Generating story")

	bodyParams := ai.GenerationParams{Temperature: &s.cfg.Temperature, MaxTokens: &s.cfg.MaxTokens}
	titleParams := ai.GenerationParams{Temperature: &s.cfg.Temperature, MaxTokens: &s.cfg.TitleMaxTokens}

	var content, rawTitle string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, _, err := s.text.GenerateText(gctx, userID, s.catalog.StorySystem, s.catalog.StoryPrompt(req), bodyParams)
		if err != nil {
			return fmt.Errorf("story body: %w", err)
		}
		content = text
		return nil
	})
	g.Go(func() error {
		text, _, err := s.text.GenerateText(gctx, userID, s.catalog.TitleSystem, s.catalog.TitlePrompt(req), titleParams)
		if err != nil {
			return fmt.Errorf("story title: %w", err)
		}
		rawTitle = text
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("Story generation failed", zap.Error(err))
		if !errors.Is(err, domain.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}
		return nil, err
	}

	content = strings.TrimSpace(content)
	metadata := req.Metadata()
	images := s.illustrate(ctx, content, metadata, s.catalog.ImageCount(req.Length))

	result := &domain.GeneratedStory{
		ID:       uuid.New(),
		Title:    titleFn(rawTitle),
		Content:  content,
		Images:   images,
		Metadata: metadata,
	}
	log.Info("Story generated", zap.Stringer("id", result.ID), zap.Int("images", len(images)))
	return result, nil
}

// illustrate returns exactly count references. Slots whose generation fails,
// or all of them when generation is off, hold the placeholder.
func (s *generationServiceImpl) illustrate(ctx context.Context, content string, metadata map[string]string, count int) []string {
	images := make([]string, count)
	for i := range images {
		images[i] = s.cfg.PlaceholderImage
	}
	if !s.cfg.GenerateImages || count == 0 {
		return images
	}

	paragraphs := story.SplitParagraphs(content)
	var g errgroup.Group
	g.SetLimit(s.cfg.ImageConcurrency)
	for k := 0; k < count; k++ {
		g.Go(func() error {
			scene := ""
			if len(paragraphs) > 0 {
				scene = paragraphs[story.ImageParagraphIndex(k, count, len(paragraphs))]
			}
			ref, err := s.GenerateImage(ctx, s.catalog.ImagePrompt(metadata, scene))
			if err != nil {
				imageFailuresTotal.Inc()
				s.logger.Warn("Illustration replaced by placeholder", zap.Int("slot", k), zap.Error(err))
				return nil
			}
			images[k] = ref
			return nil
		})
	}
	_ = g.Wait()
	return images
}

func (s *generationServiceImpl) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.NewValidationError(MsgPromptRequired)
	}
	img, err := s.images.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	ref, err := s.store.Save(ctx, img)
	if err != nil {
		return "", fmt.Errorf("%w: store image: %v", domain.ErrImageGenerationFailed, err)
	}
	return ref, nil
}

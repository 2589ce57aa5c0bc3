package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"bedtime-server/internal/ai"
	"bedtime-server/internal/domain"
	"bedtime-server/internal/drafts"
	"bedtime-server/internal/imagegen"
	"bedtime-server/internal/imagestore"
	"bedtime-server/internal/mocks"
	"bedtime-server/internal/prompts"
	"bedtime-server/internal/service"
	"bedtime-server/internal/story"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const placeholder = "/placeholder.svg"

type GenerationServiceSuite struct {
	suite.Suite
	ctx     context.Context
	catalog *prompts.Catalog
	text    *mocks.MockTextGenerator
	images  *mocks.MockImageGenerator
	stories *mocks.MockStoryService
	drafts  *drafts.MemoryStore
	cfg     service.GenerationConfig
}

func TestGenerationServiceSuite(t *testing.T) {
	suite.Run(t, new(GenerationServiceSuite))
}

func (s *GenerationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = prompts.Default()
	s.text = &mocks.MockTextGenerator{}
	s.images = &mocks.MockImageGenerator{}
	s.stories = &mocks.MockStoryService{}
	s.drafts = drafts.NewMemoryStore(10, time.Hour)
	s.cfg = service.GenerationConfig{
		Temperature:      0.7,
		MaxTokens:        1000,
		TitleMaxTokens:   50,
		ImageConcurrency: 2,
		PlaceholderImage: placeholder,
	}
}

func (s *GenerationServiceSuite) TearDownTest() {
	s.text.AssertExpectations(s.T())
	s.images.AssertExpectations(s.T())
	s.stories.AssertExpectations(s.T())
}

func (s *GenerationServiceSuite) svc() service.GenerationService {
	return service.NewGenerationService(s.text, s.images, imagestore.Inline{}, s.catalog, s.stories, s.drafts, s.cfg, zap.NewNop())
}

func maxTokens(n int) any {
	return mock.MatchedBy(func(p ai.GenerationParams) bool {
		return p.MaxTokens != nil && *p.MaxTokens == n && p.Temperature != nil && *p.Temperature == 0.7
	})
}

func (s *GenerationServiceSuite) expectBody(body string) {
	s.text.On("GenerateText", mock.Anything, mock.Anything, s.catalog.StorySystem, mock.Anything, maxTokens(1000)).
		Return(body, ai.UsageInfo{}, nil).Once()
}

func (s *GenerationServiceSuite) expectTitle(title string) {
	s.text.On("GenerateText", mock.Anything, mock.Anything, s.catalog.TitleSystem, mock.Anything, maxTokens(50)).
		Return(title, ai.UsageInfo{}, nil).Once()
}

func (s *GenerationServiceSuite) TestGenerateStory_PlaceholdersByLength() {
	s.expectBody("  Once upon a time.\n\nThe end.  ")
	s.expectTitle("  The Sleepy Fox \n")

	req := domain.StoryRequest{Age: "5", Characters: "a fox", Setting: "forest", Moral: "kindness", Length: domain.LengthMedium}
	got, err := s.svc().GenerateStory(s.ctx, "", req)
	s.Require().NoError(err)

	s.NotEqual(uuid.Nil, got.ID)
	s.Equal("The Sleepy Fox", got.Title)
	s.Equal("Once upon a time.\n\nThe end.", got.Content)
	s.Equal([]string{placeholder, placeholder, placeholder}, got.Images)
	s.Equal("a fox", got.Metadata[domain.MetaCharacters])
}

func (s *GenerationServiceSuite) TestGenerateStory_ImageCounts() {
	for length, want := range map[domain.StoryLength]int{
		domain.LengthShort: 2, domain.LengthMedium: 3, domain.LengthLong: 5, "epic": 5,
	} {
		s.expectBody("body")
		s.expectTitle("title")
		got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Length: length})
		s.Require().NoError(err)
		s.Len(got.Images, want, string(length))
	}
}

func (s *GenerationServiceSuite) TestGenerateStory_EmptyTitleFallsBack() {
	s.expectBody("body")
	s.expectTitle("   ")

	got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Length: domain.LengthShort})
	s.Require().NoError(err)
	s.Equal(story.DefaultTitle, got.Title)
}

func (s *GenerationServiceSuite) TestGenerateStory_KeepsTitleAsGiven() {
	s.expectBody("body")
	s.expectTitle("1. The Fox - a tale")

	got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Length: domain.LengthShort})
	s.Require().NoError(err)
	s.Equal("1. The Fox - a tale", got.Title)
}

func (s *GenerationServiceSuite) TestGenerateStory_ContinuationSanitizesTitle() {
	s.expectBody("The fox woke up.")
	s.expectTitle("1. The Brave Fox\nAlternative: The Sly Fox")

	got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{
		Length:        domain.LengthShort,
		Continuation:  true,
		PreviousStory: "The fox fell asleep.",
		Prompt:        "what happens next",
	})
	s.Require().NoError(err)
	s.Equal("The Brave Fox", got.Title)
}

func (s *GenerationServiceSuite) TestGenerateStory_ContinuationTitleFallsBack() {
	s.expectBody("body")
	s.expectTitle("A")

	got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Length: domain.LengthShort, Continuation: true})
	s.Require().NoError(err)
	s.Equal("The Adventure Begins", got.Title)
}

func (s *GenerationServiceSuite) TestGenerateStory_BodyFailureIsFatal() {
	s.text.On("GenerateText", mock.Anything, mock.Anything, s.catalog.StorySystem, mock.Anything, mock.Anything).
		Return("", ai.UsageInfo{}, domain.ErrGenerationFailed).Once()
	s.text.On("GenerateText", mock.Anything, mock.Anything, s.catalog.TitleSystem, mock.Anything, mock.Anything).
		Return("title", ai.UsageInfo{}, nil).Maybe()

	_, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Length: domain.LengthShort})
	s.ErrorIs(err, domain.ErrGenerationFailed)
}

func (s *GenerationServiceSuite) TestGenerateStory_ImageFailureUsesPlaceholder() {
	s.cfg.GenerateImages = true
	s.expectBody("p0\n\np1\n\np2\n\np3")
	s.expectTitle("Owls")

	s.images.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "p0")
	})).Return(nil, domain.ErrImageGenerationFailed).Once()
	s.images.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "p2")
	})).Return(&imagegen.Image{Data: []byte("jpeg"), ContentType: "image/jpeg"}, nil).Once()

	got, err := s.svc().GenerateStory(s.ctx, "", domain.StoryRequest{Characters: "owls", Length: domain.LengthShort})
	s.Require().NoError(err)
	s.Require().Len(got.Images, 2)
	s.Equal(placeholder, got.Images[0])
	s.Equal(imagestore.DataURL("image/jpeg", []byte("jpeg")), got.Images[1])
}

func (s *GenerationServiceSuite) TestContinueStory() {
	prev := &domain.Story{
		ID:       uuid.New(),
		Title:    "The Fox",
		Content:  strings.Repeat("z", 250),
		Metadata: map[string]string{domain.MetaCharacters: "a fox", domain.MetaSetting: "forest"},
	}
	s.stories.On("Get", mock.Anything, "u1", prev.ID.String()).Return(prev, nil).Once()
	s.text.On("GenerateText", mock.Anything, "u1", s.catalog.StorySystem, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Main characters: a fox") &&
			strings.Contains(p, "Setting: the moon") &&
			strings.Contains(p, "Moral lesson: "+s.catalog.FallbackMoral) &&
			strings.Contains(p, "Age range: 5-10") &&
			strings.Contains(p, strings.Repeat("z", 200)+"...")
	}), maxTokens(1000)).Return("Next part.", ai.UsageInfo{}, nil).Once()
	s.expectTitle("1. The Return - of the fox\nor else")

	got, err := s.svc().ContinueStory(s.ctx, "u1", prev.ID.String(), prompts.ContinuationOverrides{Setting: "the moon"})
	s.Require().NoError(err)
	s.Equal("The Return", got.Title)
	s.Equal("Next part.", got.Content)
	s.Len(got.Images, 3)

	kept, err := s.drafts.List(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(kept, 1)
	s.Equal(got.ID, kept[0].ID)
}

func (s *GenerationServiceSuite) TestContinueStory_NotFound() {
	s.stories.On("Get", mock.Anything, "u1", "nope").Return(nil, domain.ErrStoryNotFound).Once()

	_, err := s.svc().ContinueStory(s.ctx, "u1", "nope", prompts.ContinuationOverrides{})
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *GenerationServiceSuite) TestGenerateImage() {
	s.images.On("Generate", mock.Anything, "a moon").
		Return(&imagegen.Image{Data: []byte{1, 2}, ContentType: "image/jpeg"}, nil).Once()

	ref, err := s.svc().GenerateImage(s.ctx, "a moon")
	s.Require().NoError(err)
	s.Equal("data:image/jpeg;base64,AQI=", ref)
}

func (s *GenerationServiceSuite) TestGenerateImage_EmptyPrompt() {
	_, err := s.svc().GenerateImage(s.ctx, "  ")
	s.ErrorIs(err, domain.ErrInvalidInput)
	s.Equal(service.MsgPromptRequired, err.Error())
}

func TestGenerateImage_Disabled(t *testing.T) {
	svc := service.NewGenerationService(nil, imagegen.Disabled{}, imagestore.Inline{}, prompts.Default(), nil, nil, service.GenerationConfig{}, zap.NewNop())
	_, err := svc.GenerateImage(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrImagesDisabled)
}

package mocks

import (
	"context"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/prompts"
	"bedtime-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockStoryService is a mock type for the service.StoryService type
type MockStoryService struct {
	mock.Mock
}

func (_m *MockStoryService) Create(ctx context.Context, userID string, input map[string]any) (*domain.Story, error) {
	ret := _m.Called(ctx, userID, input)
	var r0 *domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryService) List(ctx context.Context, userID string) ([]*domain.Story, error) {
	ret := _m.Called(ctx, userID)
	var r0 []*domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*domain.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryService) Get(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	ret := _m.Called(ctx, userID, storyID)
	var r0 *domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryService) Document(ctx context.Context, userID, storyID string) (*service.Document, error) {
	ret := _m.Called(ctx, userID, storyID)
	var r0 *service.Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.Document)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryService) ExportPDF(ctx context.Context, userID, storyID string) (*service.PDFExport, error) {
	ret := _m.Called(ctx, userID, storyID)
	var r0 *service.PDFExport
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.PDFExport)
	}
	return r0, ret.Error(1)
}

// MockGenerationService is a mock type for the service.GenerationService type
type MockGenerationService struct {
	mock.Mock
}

func (_m *MockGenerationService) GenerateStory(ctx context.Context, userID string, req domain.StoryRequest) (*domain.GeneratedStory, error) {
	ret := _m.Called(ctx, userID, req)
	var r0 *domain.GeneratedStory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.GeneratedStory)
	}
	return r0, ret.Error(1)
}

func (_m *MockGenerationService) ContinueStory(ctx context.Context, userID, storyID string, overrides prompts.ContinuationOverrides) (*domain.GeneratedStory, error) {
	ret := _m.Called(ctx, userID, storyID, overrides)
	var r0 *domain.GeneratedStory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.GeneratedStory)
	}
	return r0, ret.Error(1)
}

func (_m *MockGenerationService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)
	return ret.String(0), ret.Error(1)
}

// MockDraftService is a mock type for the service.DraftService type
type MockDraftService struct {
	mock.Mock
}

func (_m *MockDraftService) SaveDraft(ctx context.Context, userID string, generated *domain.GeneratedStory) (*domain.Draft, error) {
	ret := _m.Called(ctx, userID, generated)
	var r0 *domain.Draft
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Draft)
	}
	return r0, ret.Error(1)
}

func (_m *MockDraftService) ListDrafts(ctx context.Context, userID string) ([]domain.Draft, error) {
	ret := _m.Called(ctx, userID)
	var r0 []domain.Draft
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Draft)
	}
	return r0, ret.Error(1)
}

func (_m *MockDraftService) GetDraft(ctx context.Context, userID, draftID string) (*domain.Draft, error) {
	ret := _m.Called(ctx, userID, draftID)
	var r0 *domain.Draft
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Draft)
	}
	return r0, ret.Error(1)
}

// MockImageProxy is a mock type for the service.ImageProxy type
type MockImageProxy struct {
	mock.Mock
}

func (_m *MockImageProxy) Fetch(ctx context.Context, rawURL string) (*service.ProxiedImage, error) {
	ret := _m.Called(ctx, rawURL)
	var r0 *service.ProxiedImage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.ProxiedImage)
	}
	return r0, ret.Error(1)
}

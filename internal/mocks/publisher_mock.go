package mocks

import (
	"context"

	"bedtime-server/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock type for the events.Publisher type
type MockEventPublisher struct {
	mock.Mock
}

func (_m *MockEventPublisher) PublishStoryCreated(ctx context.Context, event domain.StoryCreatedEvent) error {
	return _m.Called(ctx, event).Error(0)
}

func (_m *MockEventPublisher) Close() error {
	return _m.Called().Error(0)
}

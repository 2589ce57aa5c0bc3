package mocks

import (
	"context"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

func (_m *MockStoryRepository) Create(ctx context.Context, userID string, fields domain.StoryFields) (*domain.Story, error) {
	ret := _m.Called(ctx, userID, fields)
	var r0 *domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) FindManyByUser(ctx context.Context, userID string) ([]*domain.Story, error) {
	ret := _m.Called(ctx, userID)
	var r0 []*domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*domain.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) FindByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*domain.Story, error) {
	ret := _m.Called(ctx, id, userID)
	var r0 *domain.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Story)
	}
	return r0, ret.Error(1)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository and
// asserts its expectations on cleanup.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

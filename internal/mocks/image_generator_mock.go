package mocks

import (
	"context"

	"bedtime-server/internal/imagegen"

	"github.com/stretchr/testify/mock"
)

// MockImageGenerator is a mock type for the imagegen.Generator type
type MockImageGenerator struct {
	mock.Mock
}

func (_m *MockImageGenerator) Generate(ctx context.Context, prompt string) (*imagegen.Image, error) {
	ret := _m.Called(ctx, prompt)
	var r0 *imagegen.Image
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*imagegen.Image)
	}
	return r0, ret.Error(1)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/drafts"
	"bedtime-server/internal/service"
	"bedtime-server/internal/story"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDraftService(t *testing.T) {
	ctx := context.Background()
	svc := service.NewDraftService(drafts.NewMemoryStore(2, time.Hour), zap.NewNop())

	saved, err := svc.SaveDraft(ctx, "u1", &domain.GeneratedStory{Title: "One", Content: "c"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.NotNil(t, saved.Images)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = svc.SaveDraft(ctx, "u1", &domain.GeneratedStory{ID: uuid.New(), Title: "Two", Content: "c"})
	require.NoError(t, err)

	list, err := svc.ListDrafts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Two", list[0].Title)

	got, err := svc.GetDraft(ctx, "u1", saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "One", got.Title)

	_, err = svc.GetDraft(ctx, "u1", "garbage")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = svc.GetDraft(ctx, "u2", saved.ID.String())
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := service.NewDraftService(drafts.NewMemoryStore(2, 0), zap.NewNop())

	_, err := svc.SaveDraft(ctx, "u1", &domain.GeneratedStory{Content: "c"})
	assert.EqualError(t, err, story.MsgTitleRequired)

	_, err = svc.SaveDraft(ctx, "u1", &domain.GeneratedStory{Title: "t", Content: " "})
	assert.EqualError(t, err, story.MsgContentRequired)

	_, err = svc.SaveDraft(ctx, "", &domain.GeneratedStory{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

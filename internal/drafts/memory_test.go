package drafts

import (
	"context"
	"testing"
	"time"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(title string, at time.Time) domain.Draft {
	return domain.Draft{ID: uuid.New(), Title: title, Content: "once", Images: []string{}, CreatedAt: at}
}

func TestMemoryStore_KeepsNewestWithinLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, 0)
	now := time.Now()

	a, b, c := newDraft("a", now), newDraft("b", now), newDraft("c", now)
	require.NoError(t, s.Put(ctx, "u1", a))
	require.NoError(t, s.Put(ctx, "u1", b))
	require.NoError(t, s.Put(ctx, "u1", c))

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "b", list[1].Title)

	_, err = s.Get(ctx, "u1", a.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestMemoryStore_PutSameIDMovesToFront(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(5, 0)
	now := time.Now()

	a, b := newDraft("a", now), newDraft("b", now)
	require.NoError(t, s.Put(ctx, "u1", a))
	require.NoError(t, s.Put(ctx, "u1", b))
	a.Title = "a2"
	require.NoError(t, s.Put(ctx, "u1", a))

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].Title)
	assert.Equal(t, "b", list[1].Title)
}

func TestMemoryStore_IsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(5, 0)
	d := newDraft("mine", time.Now())
	require.NoError(t, s.Put(ctx, "u1", d))

	_, err := s.Get(ctx, "u2", d.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	list, err := s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(5, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := newDraft("old", now.Add(-2*time.Hour))
	fresh := newDraft("fresh", now.Add(-time.Minute))
	require.NoError(t, s.Put(ctx, "u1", old))
	require.NoError(t, s.Put(ctx, "u1", fresh))

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Title)

	got, err := s.Get(ctx, "u1", fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
}

func TestMemoryStore_RejectsNilID(t *testing.T) {
	err := NewMemoryStore(1, 0).Put(context.Background(), "u1", domain.Draft{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

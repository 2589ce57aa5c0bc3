// Package drafts keeps each user's most recent unsaved generations.
package drafts

import (
	"context"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
)

// Store keeps at most a fixed number of drafts per user, newest first.
// Putting a draft with an existing id moves it to the front.
type Store interface {
	Put(ctx context.Context, userID string, draft domain.Draft) error
	List(ctx context.Context, userID string) ([]domain.Draft, error)
	Get(ctx context.Context, userID string, draftID uuid.UUID) (*domain.Draft, error)
}

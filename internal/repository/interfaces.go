package repository

import (
	"context"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoryRepository persists stories. Every read is scoped to the owner.
type StoryRepository interface {
	// Create stores fields for userID and returns the stored row.
	Create(ctx context.Context, userID string, fields domain.StoryFields) (*domain.Story, error)
	// FindManyByUser returns the user's stories, newest first.
	FindManyByUser(ctx context.Context, userID string) ([]*domain.Story, error)
	// FindByIDForUser returns domain.ErrStoryNotFound when the story does not
	// exist or belongs to someone else.
	FindByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*domain.Story, error)
}

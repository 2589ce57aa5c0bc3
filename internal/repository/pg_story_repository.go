package repository

import (
	"context"
	"errors"
	"fmt"

	"bedtime-server/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ StoryRepository = (*pgStoryRepository)(nil)

const (
	storyColumns = `id, title, content, images, metadata, user_id, created_at, updated_at`

	insertStoryQuery = `
INSERT INTO stories (id, title, content, images, metadata, user_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + storyColumns

	listStoriesByUserQuery = `SELECT ` + storyColumns + `
FROM stories
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

	getStoryForUserQuery = `SELECT ` + storyColumns + `
FROM stories
WHERE id = $1 AND user_id = $2`
)

type pgStoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db DBTX, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

func (r *pgStoryRepository) Create(ctx context.Context, userID string, fields domain.StoryFields) (*domain.Story, error) {
	images := fields.Images
	if images == nil {
		images = []string{}
	}
	metadata := fields.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	id := uuid.New()
	log := r.logger.With(zap.String("storyID", id.String()), zap.String("userID", userID))
	log.Debug("Executing query", zap.String("query", insertStoryQuery), zap.Int("images", len(images)))

	var stored domain.Story
	if err := pgxscan.Get(ctx, r.db, &stored, insertStoryQuery, id, fields.Title, fields.Content, images, metadata, userID); err != nil {
		log.Error("Failed to create story in postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to create story in postgres: %w", err)
	}

	log.Info("Story created")
	return &stored, nil
}

func (r *pgStoryRepository) FindManyByUser(ctx context.Context, userID string) ([]*domain.Story, error) {
	log := r.logger.With(zap.String("userID", userID))
	log.Debug("Executing query", zap.String("query", listStoriesByUserQuery))

	stories := make([]*domain.Story, 0)
	if err := pgxscan.Select(ctx, r.db, &stories, listStoriesByUserQuery, userID); err != nil {
		log.Error("Failed to list stories from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to list stories from postgres: %w", err)
	}
	return stories, nil
}

func (r *pgStoryRepository) FindByIDForUser(ctx context.Context, id uuid.UUID, userID string) (*domain.Story, error) {
	log := r.logger.With(zap.String("storyID", id.String()), zap.String("userID", userID))
	log.Debug("Executing query", zap.String("query", getStoryForUserQuery))

	var s domain.Story
	if err := pgxscan.Get(ctx, r.db, &s, getStoryForUserQuery, id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Story not found for user")
			return nil, domain.ErrStoryNotFound
		}
		log.Error("Failed to get story from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to get story from postgres: %w", err)
	}
	return &s, nil
}

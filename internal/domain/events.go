package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoryCreatedEvent is published after a story has been persisted.
type StoryCreatedEvent struct {
	StoryID    uuid.UUID `json:"story_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	ImageCount int       `json:"image_count"`
	CreatedAt  time.Time `json:"created_at"`
}

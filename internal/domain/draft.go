package domain

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a generated story the user has not saved yet.
// Only the most recent drafts per user are kept.
type Draft struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Images    []string          `json:"images"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// DraftFromGenerated copies a generation result into a draft.
func DraftFromGenerated(g *GeneratedStory, now time.Time) Draft {
	return Draft{
		ID:        g.ID,
		Title:     g.Title,
		Content:   g.Content,
		Images:    g.Images,
		Metadata:  g.Metadata,
		CreatedAt: now,
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Story is a persisted bedtime story owned by exactly one user.
type Story struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	Title     string            `json:"title" db:"title"`
	Content   string            `json:"content" db:"content"`
	Images    []string          `json:"images" db:"images"`
	Metadata  map[string]string `json:"metadata" db:"metadata"`
	UserID    string            `json:"userId" db:"user_id"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// StoryFields is the normalised payload of a create request.
// The owner is never part of it and always comes from the session.
type StoryFields struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Images   []string          `json:"images"`
	Metadata map[string]string `json:"metadata"`
}

// Metadata keys written by the generator and read back for continuations.
const (
	MetaAge        = "age"
	MetaCharacters = "characters"
	MetaSetting    = "setting"
	MetaMoral      = "moral"
	MetaLength     = "length"
	MetaTone       = "tone"
)

// StoryLength is the requested length bucket of a generated story.
type StoryLength string

const (
	LengthShort  StoryLength = "short"
	LengthMedium StoryLength = "medium"
	LengthLong   StoryLength = "long"
)

// StoryRequest describes a story to generate.
type StoryRequest struct {
	Age        string      `json:"age"`
	Characters string      `json:"characters"`
	Setting    string      `json:"setting"`
	Moral      string      `json:"moral"`
	Length     StoryLength `json:"length"`
	Tone       string      `json:"tone,omitempty"`

	// Continuation fields.
	Continuation  bool   `json:"continuation,omitempty"`
	PreviousStory string `json:"previousStory,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
}

// Metadata renders the request as story metadata for later continuations.
func (r StoryRequest) Metadata() map[string]string {
	m := map[string]string{}
	for k, v := range map[string]string{
		MetaAge:        r.Age,
		MetaCharacters: r.Characters,
		MetaSetting:    r.Setting,
		MetaMoral:      r.Moral,
		MetaLength:     string(r.Length),
		MetaTone:       r.Tone,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// GeneratedStory is the result of a generation request. It is not persisted
// until the client saves it.
type GeneratedStory struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Images   []string          `json:"images"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

package drafts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore is the single-process Store used when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	limit  int
	ttl    time.Duration
	now    func() time.Time
	byUser map[string][]domain.Draft
}

// NewMemoryStore keeps up to limit drafts per user for ttl (0 = forever).
func NewMemoryStore(limit int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		limit:  limit,
		ttl:    ttl,
		now:    time.Now,
		byUser: make(map[string][]domain.Draft),
	}
}

func (s *MemoryStore) Put(_ context.Context, userID string, draft domain.Draft) error {
	if draft.ID == uuid.Nil {
		return fmt.Errorf("%w: draft id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.live(userID)
	kept := make([]domain.Draft, 0, len(list)+1)
	kept = append(kept, draft)
	for _, d := range list {
		if d.ID != draft.ID {
			kept = append(kept, d)
		}
	}
	if len(kept) > s.limit {
		kept = kept[:s.limit]
	}
	s.byUser[userID] = kept
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.live(userID)
	out := make([]domain.Draft, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID string, draftID uuid.UUID) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.live(userID) {
		if d.ID == draftID {
			found := d
			return &found, nil
		}
	}
	return nil, domain.ErrDraftNotFound
}

// live drops expired drafts. Caller holds mu.
func (s *MemoryStore) live(userID string) []domain.Draft {
	list := s.byUser[userID]
	if s.ttl <= 0 {
		return list
	}
	cutoff := s.now().Add(-s.ttl)
	kept := list[:0]
	for _, d := range list {
		if d.CreatedAt.After(cutoff) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		delete(s.byUser, userID)
		return nil
	}
	s.byUser[userID] = kept
	return kept
}

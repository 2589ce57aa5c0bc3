package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bedtime-server/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the draft ids in a per-user list and every draft body
// under its own key, both expiring after the configured TTL.
//
//	drafts:{user}       -> [id, id, ...] newest first
//	draft:{user}:{id}   -> JSON body
type RedisStore struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
	logger *zap.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed Store.
func NewRedisStore(client *redis.Client, limit int, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		limit:  limit,
		ttl:    ttl,
		logger: logger.Named("RedisDraftStore"),
	}
}

func listKey(userID string) string { return fmt.Sprintf("drafts:%s", userID) }

func draftKey(userID string, id uuid.UUID) string {
	return fmt.Sprintf("draft:%s:%s", userID, id)
}

func (s *RedisStore) Put(ctx context.Context, userID string, draft domain.Draft) error {
	if draft.ID == uuid.Nil {
		return fmt.Errorf("%w: draft id is required", domain.ErrInvalidInput)
	}
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	lk := listKey(userID)
	id := draft.ID.String()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, draftKey(userID, draft.ID), body, s.ttl)
	pipe.LRem(ctx, lk, 0, id)
	pipe.LPush(ctx, lk, id)
	if s.ttl > 0 {
		pipe.Expire(ctx, lk, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to store draft", zap.String("userID", userID), zap.Error(err))
		return fmt.Errorf("failed to store draft in redis: %w", err)
	}

	// Вытесняем всё, что не влезло в лимит
	evicted, err := s.client.LRange(ctx, lk, int64(s.limit), -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read draft list: %w", err)
	}
	if len(evicted) == 0 {
		return nil
	}
	keys := make([]string, 0, len(evicted))
	for _, e := range evicted {
		keys = append(keys, fmt.Sprintf("draft:%s:%s", userID, e))
	}
	pipe = s.client.TxPipeline()
	pipe.LTrim(ctx, lk, 0, int64(s.limit-1))
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("Failed to evict old drafts", zap.String("userID", userID), zap.Error(err))
		return fmt.Errorf("failed to evict drafts: %w", err)
	}
	s.logger.Debug("Evicted old drafts", zap.String("userID", userID), zap.Int("count", len(keys)))
	return nil
}

func (s *RedisStore) List(ctx context.Context, userID string) ([]domain.Draft, error) {
	ids, err := s.client.LRange(ctx, listKey(userID), 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Draft{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf("draft:%s:%s", userID, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load drafts: %w", err)
	}

	out := make([]domain.Draft, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Тело истекло раньше списка
			continue
		}
		var d domain.Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			s.logger.Warn("Skipping corrupt draft", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string, draftID uuid.UUID) (*domain.Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(userID, draftID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	var d domain.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

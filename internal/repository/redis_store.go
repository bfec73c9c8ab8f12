package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// RedisStore persists each seance state as a single JSON value under
// "boxoffice:seance:<id>".  No TTL is set: seat state must survive until
// the seance is archived, not expire behind the cashier's back.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected client.  The caller owns the
// client lifecycle.
func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func redisKey(seanceID string) string { return "boxoffice:seance:" + seanceID }

// Load fetches and decodes the seance document.  redis.Nil maps to
// ErrSeanceStateNotFound.
func (s *RedisStore) Load(ctx context.Context, seanceID string) (*SeanceState, error) {
	raw, err := s.rdb.Get(ctx, redisKey(seanceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSeanceStateNotFound
		}
		return nil, fmt.Errorf("redis get seance state: %w", err)
	}
	st := NewSeanceState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("decode seance state %s: %w", seanceID, err)
	}
	if st.SeatStatuses == nil {
		st.SeatStatuses = make(map[string]model.Place)
	}
	return st, nil
}

// Save encodes and overwrites the seance document.
func (s *RedisStore) Save(ctx context.Context, seanceID string, state *SeanceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode seance state: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(seanceID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set seance state: %w", err)
	}
	return nil
}

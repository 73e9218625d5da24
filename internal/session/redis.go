package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"crimetracker/internal/model"
)

const redisKeyPrefix = "session:"

// redisStore keeps sessions in Redis with per-key TTL, sharing state across
// processes.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(addr, password string, db int) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

type redisSession struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *redisStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	now := time.Now()
	sess := model.Session{
		Token:     newToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	payload, err := json.Marshal(redisSession{
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.Token, payload, ttl).Err(); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored redisSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &model.Session{
		Token:     token,
		UserID:    stored.UserID,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (s *redisStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(redisSession{
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+token, payload, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

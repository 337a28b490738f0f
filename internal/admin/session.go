package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession means the presented token is unknown or expired.
var ErrNoSession = errors.New("no such session")

// SessionStore keeps signed-in admin sessions in Redis. Mutations receive
// the resolved actor explicitly instead of reading ambient global state.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(redisAddr string, ttl time.Duration) (*SessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &SessionStore{rdb: rdb, ttl: ttl}, nil
}

func (s *SessionStore) Close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
}

func sessionKey(token string) string { return "session:" + token }

// Create opens a session for the named admin and returns its token.
func (s *SessionStore) Create(ctx context.Context, actor string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), actor, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Lookup resolves a token to the signed-in admin and refreshes the TTL.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	actor, err := s.rdb.GetEx(ctx, sessionKey(token), s.ttl).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	} else if err != nil {
		return "", err
	}
	return actor, nil
}

// Destroy signs the admin out. Destroying an absent token is not an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

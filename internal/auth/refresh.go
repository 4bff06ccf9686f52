package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrUnknownRefreshToken = errors.New("unknown or expired refresh token")

// RefreshStore keeps opaque refresh tokens mapped to the user they were issued to.
type RefreshStore interface {
	Save(ctx context.Context, token string, userID int, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (int, error)
	Revoke(ctx context.Context, token string) error
	// Purge drops expired tokens and reports how many were removed.
	Purge(ctx context.Context) (int, error)
}

func NewRefreshToken() string {
	return uuid.NewString()
}

type refreshEntry struct {
	userID    int
	expiresAt time.Time
}

type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: map[string]refreshEntry{}, now: time.Now}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token string, userID int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Lookup(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok || !s.now().Before(e.expiresAt) {
		return 0, ErrUnknownRefreshToken
	}
	return e.userID, nil
}

func (s *MemoryRefreshStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *MemoryRefreshStore) Purge(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, e := range s.tokens {
		if !now.Before(e.expiresAt) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed, nil
}

const refreshKeyPrefix = "auth:refresh:"

// RedisRefreshStore relies on key expiry, so Purge has nothing to do.
type RedisRefreshStore struct {
	rdb *redis.Client
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb}
}

func (s *RedisRefreshStore) Save(ctx context.Context, token string, userID int, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err()
}

func (s *RedisRefreshStore) Lookup(ctx context.Context, token string) (int, error) {
	val, err := s.rdb.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrUnknownRefreshToken
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return id, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
}

func (s *RedisRefreshStore) Purge(context.Context) (int, error) {
	return 0, nil
}

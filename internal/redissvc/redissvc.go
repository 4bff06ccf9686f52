package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Connect dials addr and pings it. An empty addr means Redis is not used and returns (nil, nil).
func Connect(ctx context.Context, addr, password string, db int) (*RedisService, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return NewRedisService(rdb), nil
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Close() error {
	return s.rdb.Close()
}

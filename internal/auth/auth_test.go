package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Configure("test-secret", time.Minute)

	token, err := GenerateToken(models.User{ID: 7, Username: "ana", Role: models.RoleManager})
	require.NoError(t, err)

	claims, err := TokenClaims("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestTokenClaimsRejects(t *testing.T) {
	Configure("test-secret", time.Minute)
	token, err := GenerateToken(models.User{ID: 1})
	require.NoError(t, err)

	_, err = TokenClaims(token)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenClaims("Bearer " + token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	Configure("another-secret", time.Minute)
	_, err = TokenClaims("Bearer " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRefreshStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRefreshStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	live, stale := NewRefreshToken(), NewRefreshToken()
	assert.NotEqual(t, live, stale)
	require.NoError(t, s.Save(ctx, live, 3, time.Hour))
	require.NoError(t, s.Save(ctx, stale, 4, time.Minute))

	clock = clock.Add(2 * time.Minute)

	id, err := s.Lookup(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = s.Lookup(ctx, stale)
	assert.ErrorIs(t, err, ErrUnknownRefreshToken)

	removed, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	require.NoError(t, s.Revoke(ctx, live))
	_, err = s.Lookup(ctx, live)
	assert.ErrorIs(t, err, ErrUnknownRefreshToken)
}

func TestRedisRefreshStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	s := NewRedisRefreshStore(rdb)

	token := NewRefreshToken()
	require.NoError(t, s.Save(ctx, token, 12, time.Hour))

	id, err := s.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	mr.FastForward(2 * time.Hour)
	_, err = s.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownRefreshToken)

	other := NewRefreshToken()
	require.NoError(t, s.Save(ctx, other, 5, time.Hour))
	require.NoError(t, s.Revoke(ctx, other))
	_, err = s.Lookup(ctx, other)
	assert.ErrorIs(t, err, ErrUnknownRefreshToken)
}

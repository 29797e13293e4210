package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/presence-audit/internal/entity"
)

type stubRedis struct {
	values map[string]string
	ttl    map[string]time.Duration
	getErr error
}

func newStubRedis() *stubRedis {
	return &stubRedis{values: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		s.values[key] = string(v)
	case string:
		s.values[key] = v
	}
	s.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newStubRedis()
	store := NewRedisStore(client, nil)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "1.2.3.4", entity.QuotaState{Day: "2025-03-15", Count: 2}))
	assert.Equal(t, redisStateTTL, client.ttl[redisKeyPrefix+"1.2.3.4"])

	state, ok, err := store.Get(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entity.QuotaState{Day: "2025-03-15", Count: 2}, state)
}

func TestRedisStoreCorruptValueIsIgnored(t *testing.T) {
	client := newStubRedis()
	client.values[redisKeyPrefix+"caller"] = "{not json"

	_, ok, err := NewRedisStore(client, nil).Get(context.Background(), "caller")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreGetError(t *testing.T) {
	client := newStubRedis()
	client.getErr = errors.New("connection refused")

	_, _, err := NewRedisStore(client, nil).Get(context.Background(), "caller")

	assert.ErrorContains(t, err, "connection refused")
}

package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/entity"
)

const (
	redisKeyPrefix = "presence:quota:"
	redisStateTTL  = 48 * time.Hour
)

// RedisClient is the subset of the go-redis client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps counters in Redis as JSON with a TTL, so stale days expire
// on their own.
type RedisStore struct {
	client RedisClient
	logger *zap.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client RedisClient, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

// DialRedis connects and pings before returning.
func DialRedis(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	if logger != nil {
		logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return client, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, caller string) (entity.QuotaState, bool, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+caller).Result()
	if errors.Is(err, redis.Nil) {
		return entity.QuotaState{}, false, nil
	}
	if err != nil {
		return entity.QuotaState{}, false, fmt.Errorf("redis get: %w", err)
	}

	var state entity.QuotaState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		s.logger.Warn("Discarding unreadable quota state", zap.String("caller", caller), zap.Error(err))
		return entity.QuotaState{}, false, nil
	}
	return state, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, caller string, state entity.QuotaState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode quota state: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+caller, payload, redisStateTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

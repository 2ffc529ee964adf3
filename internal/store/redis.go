package store

import (
	"context"
	"encoding/json"
	"fmt"

	"museovini/internal/config"
	"museovini/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCredentialStore keeps credentials in Redis, for installations where
// several front-desk terminals share one signed-in account.
type RedisCredentialStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client, prefix: "museovini:"}
}

func (s *RedisCredentialStore) get(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return val, nil
}

func (s *RedisCredentialStore) set(ctx context.Context, key, value string) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (s *RedisCredentialStore) del(ctx context.Context, keys ...string) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys from redis: %w", err)
	}
	return nil
}

func (s *RedisCredentialStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *RedisCredentialStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *RedisCredentialStore) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.set(ctx, keyAccessToken, access); err != nil {
		return err
	}
	return s.set(ctx, keyRefreshToken, refresh)
}

func (s *RedisCredentialStore) ClearTokens(ctx context.Context) error {
	return s.del(ctx, keyAccessToken, keyRefreshToken)
}

func (s *RedisCredentialStore) User(ctx context.Context) (*models.User, error) {
	raw, err := s.get(ctx, keyUserSnapshot)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (s *RedisCredentialStore) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.ClearUser(ctx)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}
	return s.set(ctx, keyUserSnapshot, string(data))
}

func (s *RedisCredentialStore) ClearUser(ctx context.Context) error {
	return s.del(ctx, keyUserSnapshot)
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KSelection is the redis key holding the current selection snapshot.
const KSelection string = "selection"

type redisSelectionStore struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisSelectionStore provides a redis-based selection store.
func NewRedisSelectionStore(logger *zap.Logger, client *redis.Client) SelectionStore {
	return &redisSelectionStore{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Save stores the ordered selection snapshot as a single json value, so the
// insertion order survives a restart.
func (rs *redisSelectionStore) Save(ctx context.Context, books []Book) error {
	snapshot, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, KSelection, snapshot, 0).Err()
}

// Load retrieves the persisted selection snapshot. A missing key yields an
// empty selection, not an error.
func (rs *redisSelectionStore) Load(ctx context.Context) ([]Book, error) {
	raw, err := rs.client.Get(ctx, KSelection).Result()
	if err == redis.Nil {
		return []Book{}, nil
	}
	if err != nil {
		return nil, err
	}
	var books []Book
	err = json.Unmarshal([]byte(raw), &books)
	return books, err
}

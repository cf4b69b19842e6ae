package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/mamadbah2/vinstock/internal/repository"
)

// Config holds the connection settings for the Redis slot store.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Store keeps every slot under a plain Redis string key.
type Store struct {
	client *goredis.Client
}

// NewStore connects to Redis and checks the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

// Get reads the blob stored under slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	payload, err := s.client.Get(ctx, slot).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", slot, err)
	}
	return payload, nil
}

// Put replaces the blob stored under slot, without expiry.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	if err := s.client.Set(ctx, slot, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

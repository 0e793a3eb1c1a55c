// Package redis persists display settings in Redis behind a circuit breaker.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/resilience"
	pkgerrors "thoughtgraph/pkg/errors"
)

// SettingsStore stores the settings blob under prefix+key
type SettingsStore struct {
	client  *goredis.Client
	key     string
	cfg     config.Redis
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// NewSettingsStore connects to Redis. The connection is checked with a ping.
func NewSettingsStore(ctx context.Context, cfg config.Redis, key string, breaker config.CircuitBreaker, logger *zap.Logger) (*SettingsStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, pkgerrors.NewExternalError("redis", fmt.Errorf("connect to %s: %w", cfg.Addr, err))
	}

	return NewSettingsStoreWithClient(client, cfg, key, breaker, logger), nil
}

// NewSettingsStoreWithClient creates a store from an existing client
func NewSettingsStoreWithClient(client *goredis.Client, cfg config.Redis, key string, breaker config.CircuitBreaker, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{
		client:  client,
		key:     cfg.Prefix + key,
		cfg:     cfg,
		breaker: resilience.NewBreaker("redis-settings", breaker, logger),
		logger:  logger,
	}
}

// Get reads the stored settings
func (s *SettingsStore) Get(ctx context.Context) ([]byte, error) {
	return s.breaker.Do(func() ([]byte, error) {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		data, err := s.client.Get(ctx, s.key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("settings key %q", s.key))
		}
		if err != nil {
			return nil, pkgerrors.NewExternalError("redis", err)
		}
		return data, nil
	})
}

// Put writes the settings without expiry
func (s *SettingsStore) Put(ctx context.Context, data []byte) error {
	_, err := s.breaker.Do(func() ([]byte, error) {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
			return nil, pkgerrors.NewExternalError("redis", err)
		}
		return nil, nil
	})
	return err
}

// Close closes the client
func (s *SettingsStore) Close() error {
	return s.client.Close()
}

func (s *SettingsStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

const (
	usersKey  = "reading-tracker:users"
	configKey = "reading-tracker:config"

	redisDialTimeout = 5 * time.Second
)

// RedisBackend is the low-latency primary store. The connection is attempted
// once at construction; a failure is recorded as "unavailable" rather than
// raised, so callers can probe availability cheaply before use.
type RedisBackend struct {
	client    *redis.Client
	connected bool
	log       zerolog.Logger
}

// NewRedis connects to the primary store. An empty URL or a failed ping
// yields an unavailable backend, never an error.
func NewRedis(url string, log zerolog.Logger) *RedisBackend {
	b := &RedisBackend{log: log.With().Str("backend", "redis").Logger()}
	if url == "" {
		b.log.Info().Msg("REDIS_URL not set, primary store disabled")
		return b
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		b.log.Error().Err(err).Msg("invalid redis url")
		return b
	}
	b.client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := b.client.Ping(ctx).Err(); err != nil {
		b.log.Error().Err(err).Msg("redis ping failed, primary store unavailable")
		return b
	}

	b.connected = true
	b.log.Info().Msg("redis connected")
	return b
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Available reports whether the initial connection succeeded.
func (b *RedisBackend) Available(_ context.Context) bool {
	return b != nil && b.connected
}

// Read loads the snapshot from the two Redis keys. Missing keys read as the
// empty sentinel.
func (b *RedisBackend) Read(ctx context.Context) (*model.Snapshot, error) {
	if !b.Available(ctx) {
		return model.EmptySnapshot(), nil
	}

	snap := model.EmptySnapshot()

	usersStr, err := b.client.Get(ctx, usersKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("get %s: %w", usersKey, err))
	}
	if err == nil {
		if uerr := json.Unmarshal([]byte(usersStr), &snap.Users); uerr != nil {
			return nil, errs.NewBackendError(b.Name(), fmt.Errorf("decode users: %w", uerr))
		}
	}

	configStr, err := b.client.Get(ctx, configKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("get %s: %w", configKey, err))
	}
	if err == nil {
		if cerr := json.Unmarshal([]byte(configStr), &snap.Config); cerr != nil {
			return nil, errs.NewBackendError(b.Name(), fmt.Errorf("decode config: %w", cerr))
		}
	}

	return snap, nil
}

// Write replaces both keys with the snapshot content.
func (b *RedisBackend) Write(ctx context.Context, snap *model.Snapshot) error {
	if !b.Available(ctx) {
		return errs.NewBackendError(b.Name(), fmt.Errorf("not connected"))
	}

	users, err := json.Marshal(snap.Users)
	if err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("encode users: %w", err))
	}
	cfg, err := json.Marshal(snap.Config)
	if err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("encode config: %w", err))
	}

	if err := b.client.Set(ctx, usersKey, users, 0).Err(); err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("set %s: %w", usersKey, err))
	}
	if err := b.client.Set(ctx, configKey, cfg, 0).Err(); err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("set %s: %w", configKey, err))
	}
	return nil
}

// Close releases the underlying client.
func (b *RedisBackend) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}

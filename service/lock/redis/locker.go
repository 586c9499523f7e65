// Package redis implements lock.Locker on Redis so that request execution is
// serialised across service instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/service/lock"
)

const (
	DefaultPrefix       = "sanction:lock:"
	DefaultTTL          = 30 * time.Second
	DefaultPollInterval = 25 * time.Millisecond
)

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker holds locks as Redis keys set with NX and a TTL. Only the holder's
// token can release a key; an expired holder loses the lock.
type Locker struct {
	client       goredis.UniversalClient
	prefix       string
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

var _ lock.Locker = (*Locker)(nil)

// Option customises a Locker.
type Option func(*Locker)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(l *Locker) { l.prefix = prefix }
}

// WithTTL sets how long a lock survives a holder that never releases it.
func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithPollInterval sets how often a waiting caller re-checks the key.
func WithPollInterval(interval time.Duration) Option {
	return func(l *Locker) {
		if interval > 0 {
			l.pollInterval = interval
		}
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := idgen.New()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if acquired {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
	return func() {
		released, err := releaseScript.Run(context.Background(), l.client, []string{redisKey}, token).Int()
		if err != nil {
			l.logger.Warn("lock release failed", "operation", "unlock", "outcome", "failure", "key", key, "error", err)
			return
		}
		if released == 0 {
			l.logger.Warn("lock expired before release", "operation", "unlock", "outcome", "expired", "key", key)
		}
	}, nil
}

// Connect initializes a Redis client from URL or host:port input.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	var client *goredis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// New creates a Redis-backed locker.
func New(client goredis.UniversalClient, options ...Option) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ret := &Locker{
		client:       client,
		prefix:       DefaultPrefix,
		ttl:          DefaultTTL,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default().With("module", "redis_lock"),
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds the caller's token,
// so a holder whose lease expired cannot free a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClient is the subset of go-redis the lock uses.
type RedisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisLock is a Locker shared by every service instance pointing at the
// same Redis.
type RedisLock struct {
	client RedisClient
	prefix string
}

func NewRedis(client RedisClient, prefix string) *RedisLock {
	return &RedisLock{client: client, prefix: prefix}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := newToken()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: acquire %s: %v", ErrUnavailable, key, err)
	}
	if !ok {
		return "", ErrHeld
	}
	return token, nil
}

func (l *RedisLock) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("%w: release %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

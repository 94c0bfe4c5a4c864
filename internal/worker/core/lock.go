package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a Redis lease that at most one worker holds at a time.
type Lock struct {
	client rueidis.Client
	key    string
	ttl    time.Duration
}

// NewLock creates a lock stored under key. A holder that stops releasing it loses the
// lease after ttl.
func NewLock(client rueidis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire tries to take the lock. It returns the holder token and whether the lock
// was taken.
func (l *Lock) Acquire(ctx context.Context) (string, bool, error) {
	token := uuid.New().String()

	err := l.client.Do(ctx, l.client.B().Set().Key(l.key).Value(token).Nx().Px(l.ttl).Build()).Error()
	if rueidis.IsRedisNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}

	return token, true, nil
}

// Release gives the lock up if token still holds it.
func (l *Lock) Release(ctx context.Context, token string) error {
	err := releaseScript.Exec(ctx, l.client, []string{l.key}, []string{token}).Error()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}

	return nil
}

// Package lock provides a Redis-backed exclusive lock used to serialize
// attachment writes across service replicas.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	initialBackoff = 50 * time.Millisecond
	maxBackoff     = 500 * time.Millisecond
)

// releaseLua deletes the key only while it still holds the caller's token,
// so a holder whose lock expired and was reacquired cannot release the new
// owner's lock.
var releaseLua = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// DistributedLock funnels writers through a single Redis key. The TTL
// bounds how long a crashed holder can block everyone else.
type DistributedLock struct {
	rdb            *redis.Client
	key            string
	ttl            time.Duration
	acquireTimeout time.Duration
}

// New builds a lock on the given key,
// e.g. "qualityhub:attachments:write_lock".
func New(rdb *redis.Client, key string, ttl, acquireTimeout time.Duration) *DistributedLock {
	return &DistributedLock{
		rdb:            rdb,
		key:            key,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
	}
}

// Acquire blocks until the lock is held or acquireTimeout passes, backing
// off exponentially between attempts. The returned token must be handed to
// Release.
func (l *DistributedLock) Acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.acquireTimeout)
	backoff := initialBackoff

	for {
		ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("timeout acquiring write lock after %s", l.acquireTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// Release drops the lock if token still owns it. Releasing a lock that
// already expired is not an error.
func (l *DistributedLock) Release(ctx context.Context, token string) error {
	if _, err := releaseLua.Run(ctx, l.rdb, []string{l.key}, token).Result(); err != nil && err != redis.Nil {
		return fmt.Errorf("release write lock: %w", err)
	}
	return nil
}

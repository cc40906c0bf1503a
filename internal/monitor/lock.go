package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	CycleLockKey        = "sitepulse:cycle-lock"
	DefaultCycleLockTTL = 2 * time.Minute
)

// CycleLock guarantees at most one check cycle runs at a time. ok is false
// when another holder owns the lock.
type CycleLock interface {
	TryAcquire(ctx context.Context) (release func(), ok bool, err error)
}

// LocalLock serialises cycles inside a single process.
type LocalLock struct {
	mu sync.Mutex
}

func NewLocalLock() *LocalLock { return &LocalLock{} }

func (l *LocalLock) TryAcquire(ctx context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, true, nil
}

var renewCycleLockScript = goredis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
  return redis.call('pexpire', KEYS[1], ARGV[2])
else
  return 0
end
`)

var releaseCycleLockScript = goredis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
  return redis.call('del', KEYS[1])
else
  return 0
end
`)

// RedisLock serialises cycles across processes sharing one Redis. The lease
// is renewed every ttl/3 while held, so the TTL only bounds how long a
// crashed holder blocks others.
type RedisLock struct {
	client goredis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedisLock(client goredis.UniversalClient, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultCycleLockTTL
	}
	return &RedisLock{client: client, key: CycleLockKey, ttl: ttl}
}

func (l *RedisLock) TryAcquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire cycle lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	renewed := make(chan struct{})
	go l.renew(token, stop, renewed)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-renewed
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			releaseCycleLockScript.Run(releaseCtx, l.client, []string{l.key}, token) //nolint:errcheck
		})
	}
	return release, true, nil
}

// renew extends the lease until stop closes or the lease is lost.
func (l *RedisLock) renew(token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ttlMs := max(l.ttl.Milliseconds(), 1)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			held, err := renewCycleLockScript.Run(ctx, l.client, []string{l.key}, token, ttlMs).Int64()
			cancel()
			if err == nil && held == 0 {
				return
			}
		}
	}
}

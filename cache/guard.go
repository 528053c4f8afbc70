package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrProbeInFlight = errors.New("probe already in flight")

// ProbeGuard allows one in-flight probe per key fingerprint.
type ProbeGuard interface {
	// Acquire returns ErrProbeInFlight when the fingerprint is held.
	// release must be called once the probe is done.
	Acquire(ctx context.Context, fingerprint string) (release func(), err error)
}

// LocalGuard guards probes within this process.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: map[string]struct{}{}}
}

func (g *LocalGuard) Acquire(_ context.Context, fingerprint string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[fingerprint]; ok {
		return nil, ErrProbeInFlight
	}
	g.held[fingerprint] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, fingerprint)
			g.mu.Unlock()
		})
	}, nil
}

// RedisGuard guards probes across replicas sharing one redis. The TTL
// bounds how long a crashed holder can block the key.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, prefix: "keydoctor:probe:"}
}

func (g *RedisGuard) Acquire(ctx context.Context, fingerprint string) (func(), error) {
	key := g.prefix + fingerprint
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, ErrProbeInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The probe's context may already be done; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err()
		})
	}, nil
}

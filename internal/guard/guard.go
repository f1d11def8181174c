// Package guard keeps a submission from being sent twice while the first
// attempt is still in flight.
package guard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iereview/landinPage/pkg/logging"
)

// ErrInFlight is returned when another submission for the same key has not
// finished yet.
var ErrInFlight = errors.New("guard: submission already in flight")

// Guard hands out short leases keyed by submission identity.
type Guard interface {
	// Acquire takes the lease for key. The returned release func is safe
	// to call more than once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key derives a stable lease key from the parts identifying a submission.
// Parts are normalised so casing and whitespace do not split leases.
func Key(scope string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		h.Write([]byte{0})
	}
	return scope + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

// RedisGuard stores leases in Redis with SET NX PX so several site
// replicas share one view of what is in flight.
type RedisGuard struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *logging.Logger
}

// NewRedisGuard creates a guard whose leases expire after ttl even if the
// holder never releases them.
func NewRedisGuard(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisGuard {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{redis: client, ttl: ttl, prefix: "inflight:", logger: logger}
}

// releaseScript deletes the lease only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire implements Guard.
func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := g.prefix + key
	token := uuid.NewString()
	ok, err := g.redis.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("guard: acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrInFlight
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// Release must outlive a cancelled request context.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, g.redis, []string{redisKey}, token).Err(); err != nil {
				g.logger.Warn("guard: release failed", "key", key, "error", err)
			}
		})
	}, nil
}

// MemoryGuard is the single-process Guard used when Redis is not configured.
type MemoryGuard struct {
	mu     sync.Mutex
	leases map[string]lease
	ttl    time.Duration
	now    func() time.Time
	tokens atomic.Uint64
}

type lease struct {
	token   uint64
	expires time.Time
}

// NewMemoryGuard creates an in-process guard.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &MemoryGuard{leases: make(map[string]lease), ttl: ttl, now: time.Now}
}

// Acquire implements Guard.
func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if held, ok := g.leases[key]; ok && now.Before(held.expires) {
		return nil, ErrInFlight
	}
	token := g.tokens.Add(1)
	g.leases[key] = lease{token: token, expires: now.Add(g.ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if held, ok := g.leases[key]; ok && held.token == token {
				delete(g.leases, key)
			}
		})
	}, nil
}

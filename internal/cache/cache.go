package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/yatube/yatube/internal/config"
)

// PrefixedCache wraps a cache.Cache, adds a prefix to all keys and
// stores values JSON encoded.
type PrefixedCache[T any] struct {
	cache  *cache.Cache[string]
	prefix string
}

// NewPrefixedCache creates a new prefixed cache wrapper.
func NewPrefixedCache[T any](cache *cache.Cache[string], prefix string) *PrefixedCache[T] {
	return &PrefixedCache[T]{
		cache:  cache,
		prefix: prefix,
	}
}

func (p *PrefixedCache[T]) key(key any) string {
	return p.prefix + fmt.Sprintf("%v", key)
}

// Get retrieves a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Get(ctx context.Context, key any) (T, error) {
	data, err := p.cache.Get(ctx, p.key(key))
	if err != nil {
		return *new(T), err
	}
	var result T
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return *new(T), err
	}
	return result, nil
}

// Set stores a value in the cache with the prefixed key.
func (p *PrefixedCache[T]) Set(ctx context.Context, key any, object T, options ...store.Option) error {
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, p.key(key), string(data), options...)
}

// Delete removes a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Delete(ctx context.Context, key any) error {
	return p.cache.Delete(ctx, p.key(key))
}

// Store is the configured cache backend together with an atomic counter
// kept on the same backend.
type Store struct {
	*cache.Cache[string]
	counter counter
}

type counter interface {
	incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Incr adds one to the integer stored under key and resets its expiration.
// Missing keys count from zero.
func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return s.counter.incr(ctx, key, ttl)
}

// Backend returns the type of the store behind the cache.
func (s *Store) Backend() string {
	return s.GetCodec().GetStore().GetType()
}

// NewStore returns the cache backend selected by cfg.
func NewStore(cfg *config.CacheConfig) *Store {
	var s *Store
	if cfg != nil && cfg.Type == config.CacheTypeRedis {
		s = newRedisStore(cfg)
	} else {
		s = newMemoryStore()
	}
	log.Debug("Using cache backend", "type", s.Backend())
	return s
}

func newMemoryStore() *Store {
	gocacheClient := gocache.New(gocache.NoExpiration, 10*time.Minute)
	gocacheStore := go_store.NewGoCache(gocacheClient)
	return &Store{
		Cache:   cache.New[string](gocacheStore),
		counter: &memoryCounter{client: gocacheClient},
	}
}

func newRedisStore(cfg *config.CacheConfig) *Store {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	redisStore := redis_store.NewRedis(redisClient)
	return &Store{
		Cache:   cache.New[string](redisStore),
		counter: redisCounter{client: redisClient},
	}
}

// memoryCounter increments values of the go-cache client behind the store.
// Values are kept as decimal strings, like every other cached value.
type memoryCounter struct {
	mu     sync.Mutex
	client *gocache.Cache
}

func (m *memoryCounter) incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	if v, found := m.client.Get(key); found {
		if str, ok := v.(string); ok {
			n, _ = strconv.ParseInt(str, 10, 64)
		}
	}
	n++
	m.client.Set(key, strconv.FormatInt(n, 10), ttl)
	return n, nil
}

type redisCounter struct {
	client *redis.Client
}

func (r redisCounter) incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var cmd *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		cmd = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cmd.Val(), nil
}

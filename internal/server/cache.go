package server

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// Cache stores serialized responses by request key. Get reports a plain miss
// as ("", false, nil); an error means the cache itself failed.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
}

// CacheKey derives the cache key for a request from its URI and body
func CacheKey(uri, body []byte) string {
	h := xxhash.New()
	_, _ = h.Write(uri)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(body)
	return "gbrtax:" + strconv.FormatUint(h.Sum64(), 16)
}

// RedisCache keeps responses in redis with a fixed expiry
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisCache connects to redis at addr. A ttl of zero keeps entries forever.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithOptions(&redis.Options{Addr: addr}, ttl)
}

// NewRedisCacheWithOptions creates a cache from full client options
func NewRedisCacheWithOptions(opts *redis.Options, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(key string) (string, bool, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(key string, value string) error {
	return r.client.Set(r.ctx, key, value, r.ttl).Err()
}

// Close releases the client connections
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// MemoryCache is an in-process cache for single instances and tests
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (m *MemoryCache) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *MemoryCache) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Len returns the number of cached entries
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segurnet/claims-relay/storage"
)

/* Redis caching decorator over a storage.Signer
 *
 * Permanent-link fetches from the CRM tend to arrive in bursts for the
 * same document. A signed URL stays valid for its whole TTL, so reusing
 * one issued URL for a fraction of that window saves round trips to the
 * signing API without ever handing out an expired link.
 */

const keyPrefix = "signedurl"

// cacheFraction of the signed URL's TTL during which it is reused
const cacheFraction = 4

type Cache struct {
	next   storage.Signer
	client *redis.Client
}

// New creates a caching signer backed by Redis
func New(next storage.Signer, addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Cache{next: next, client: client}, nil
}

// NewWithClient wraps an existing Redis client (used in tests)
func NewWithClient(next storage.Signer, client *redis.Client) *Cache {
	return &Cache{next: next, client: client}
}

// SignedURL returns a cached URL when one is still fresh, otherwise
// issues a new one and caches it for a fraction of its TTL
func (c *Cache) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	key := fmt.Sprintf("%s:%d:%s", keyPrefix, int(ttl.Seconds()), path)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil && cached != "" {
		return cached, nil
	}
	// Cache misses and Redis errors both fall through to the issuer;
	// the cache must never make signing fail

	signed, err := c.next.SignedURL(ctx, path, ttl)
	if err != nil {
		return "", err
	}

	c.client.Set(ctx, key, signed, ttl/cacheFraction)
	return signed, nil
}

// Close closes the Redis connection
func (c *Cache) Close(ctx context.Context) error {
	return c.client.Close()
}

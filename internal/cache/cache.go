package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// ClientSource yields the current client; redisholder.Holder implements it.
type ClientSource interface {
	Get() redis.UniversalClient
}

type Cache struct {
	Clients   ClientSource
	Namespace string
}

// Key derives the cache key of a converted output. Conversion is
// deterministic in (source, format, effective quality).
func Key(source []byte, format string, quality int) string {
	sum := sha256.Sum256(source)
	return format + ":" + strconv.Itoa(quality) + ":" + hex.EncodeToString(sum[:])
}

// Get value from Redis
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.Clients.Get().Get(ctx, c.Namespace+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Store data to Redis, ttl in seconds
func (c *Cache) Store(ctx context.Context, key string, ttl int, value []byte) error {
	cmd := c.Clients.Get().Set(ctx, c.Namespace+":"+key, value, time.Duration(ttl)*time.Second)
	return cmd.Err()
}

// Flush deletes every key under the namespace.
func (c *Cache) Flush(ctx context.Context) error {
	rc := c.Clients.Get()
	iter := rc.Scan(ctx, 0, c.Namespace+":*", 100).Iterator()
	//using pipeline to delete keys efficiently
	pl := rc.Pipeline()

	for iter.Next(ctx) {
		pl.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	_, err := pl.Exec(ctx)
	return err
}

func NewCache(namespace string, clients ClientSource) *Cache {
	return &Cache{
		Namespace: namespace,
		Clients:   clients,
	}
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed CacheStorage.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key. Default: "mathquiz".
	Prefix string
}

// Redis is a CacheStorage backed by Redis so several proxies can share one
// cache. Store names live in a sorted set scored by creation time; each
// store is a hash of key to JSON-encoded CachedResponse.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

var _ CacheStorage = (*Redis)(nil)

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "mathquiz"
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) storesKey() string {
	return r.prefix + ":stores"
}

func (r *Redis) storeKey(name string) string {
	return fmt.Sprintf("%s:store:%s", r.prefix, name)
}

func (r *Redis) Open(ctx context.Context, name string) (Cache, error) {
	err := r.rdb.ZAddNX(ctx, r.storesKey(), redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: name,
	}).Err()
	if err != nil {
		return nil, fmt.Errorf("open cache store %q: %w", name, err)
	}
	return &redisCache{parent: r, name: name}, nil
}

func (r *Redis) Has(ctx context.Context, name string) (bool, error) {
	err := r.rdb.ZScore(ctx, r.storesKey(), name).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query cache store %q: %w", name, err)
	}
	return true, nil
}

func (r *Redis) Names(ctx context.Context) ([]string, error) {
	names, err := r.rdb.ZRange(ctx, r.storesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list cache stores: %w", err)
	}
	return names, nil
}

func (r *Redis) Delete(ctx context.Context, name string) (bool, error) {
	var removed *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.storeKey(name))
		removed = pipe.ZRem(ctx, r.storesKey(), name)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete cache store %q: %w", name, err)
	}
	return removed.Val() > 0, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

type redisCache struct {
	parent *Redis
	name   string
}

func (c *redisCache) Name() string {
	return c.name
}

func (c *redisCache) Match(ctx context.Context, key string) (*CachedResponse, error) {
	raw, err := c.parent.rdb.HGet(ctx, c.parent.storeKey(c.name), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match %q in %q: %w", key, c.name, err)
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return &resp, nil
}

func (c *redisCache) Put(ctx context.Context, key string, resp *CachedResponse) error {
	return c.PutAll(ctx, map[string]*CachedResponse{key: resp})
}

func (c *redisCache) PutAll(ctx context.Context, entries map[string]*CachedResponse) error {
	values := make(map[string]any, len(entries))
	for key, resp := range entries {
		if resp.StoredAt.IsZero() {
			stamped := *resp
			stamped.StoredAt = time.Now().UTC()
			resp = &stamped
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		values[key] = raw
	}

	_, err := c.parent.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, c.parent.storesKey(), redis.Z{
			Score:  float64(time.Now().UnixNano()),
			Member: c.name,
		})
		pipe.HSet(ctx, c.parent.storeKey(c.name), values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put into %q: %w", c.name, err)
	}
	return nil
}

func (c *redisCache) Keys(ctx context.Context) ([]string, error) {
	keys, err := c.parent.rdb.HKeys(ctx, c.parent.storeKey(c.name)).Result()
	if err != nil {
		return nil, fmt.Errorf("list keys of %q: %w", c.name, err)
	}
	slices.Sort(keys)
	return keys, nil
}

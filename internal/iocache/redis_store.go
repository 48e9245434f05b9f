package iocache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces every key written by the Redis store.
const redisKeyPrefix = "destiny:"

// redisTimeout bounds each round trip to the server.
const redisTimeout = 5 * time.Second

// RedisStore keeps versioned entries as Redis hashes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ contract.CacheStore = &RedisStore{} // Compile-time check

// NewRedisStore connects to Redis and verifies the connection.
// connStr is a redis:// URL, a host:port pair, or empty for localhost:6379.
func NewRedisStore(namespace, connStr string) (*RedisStore, error) {
	opts, err := redisOptions(connStr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, prefix: redisKeyPrefix + namespace + ":"}, nil
}

// redisOptions builds client options from a connection string.
func redisOptions(connStr string) (*redis.Options, error) {
	connStr = strings.TrimSpace(connStr)
	if strings.HasPrefix(connStr, "redis://") || strings.HasPrefix(connStr, "rediss://") {
		opts, err := redis.ParseURL(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		return opts, nil
	}
	if connStr == "" {
		connStr = "localhost:6379"
	}
	return &redis.Options{
		Addr:         connStr,
		DialTimeout:  redisTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

// Get retrieves a value by key. A missing key returns redis.Nil.
func (rs *RedisStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	fields, err := rs.client.HGetAll(ctx, rs.prefix+key).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, 0, redis.Nil
	}

	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid timestamp for %s: %w", key, err)
	}
	return []byte(fields["value"]), version, ts, nil
}

// Set stores a key/value pair, replacing any previous entry.
func (rs *RedisStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return rs.client.HSet(ctx, rs.prefix+key,
		"value", value,
		"version", version,
		"timestamp", timestamp,
	).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (rs *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return rs.client.Del(ctx, rs.prefix+key).Err()
}

// Close closes the Redis client.
func (rs *RedisStore) Close() error {
	if rs.client != nil {
		return rs.client.Close()
	}
	return nil
}

// GetStatus scans the namespace and reports entry counts and times.
func (rs *RedisStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.RedisBackend), Connected: true}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := rs.keys(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to scan keys: %w", err)
	}
	status.TotalEntries = len(keys)

	var lastTs, oldestTs int64
	for _, k := range keys {
		raw, err := rs.client.HGet(ctx, k, "timestamp").Result()
		if err != nil {
			continue
		}
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if ts > lastTs {
			lastTs = ts
		}
		if oldestTs == 0 || ts < oldestTs {
			oldestTs = ts
		}
		if n, err := rs.client.MemoryUsage(ctx, k).Result(); err == nil {
			status.TableSizeBytes += n
		}
	}
	if lastTs > 0 {
		status.LastEntryTime = time.Unix(lastTs, 0)
		status.OldestEntryTime = time.Unix(oldestTs, 0)
	}
	return status, nil
}

// Clear deletes every key in the namespace.
func (rs *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := rs.keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rs.client.Del(ctx, keys...).Err()
}

// keys lists every key in the namespace using SCAN.
func (rs *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

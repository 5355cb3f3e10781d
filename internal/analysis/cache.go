package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/library"
)

// Cache stores completed results keyed by document digest and language.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, result Result, ttl time.Duration) error
}

// CacheKey identifies a request by its content, not its file name.
func CacheKey(req Request) string {
	sum := sha256.Sum256(req.Data)
	return fmt.Sprintf("scholarlens:analysis:%s:%s", req.Language, hex.EncodeToString(sum[:]))
}

type cachedAnalyzer struct {
	next   Analyzer
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// Cached wraps next so repeated uploads of the same PDF skip the provider.
// Cache failures are logged and never fail the analysis.
func Cached(next Analyzer, cache Cache, ttl time.Duration, logger *zap.Logger) Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedAnalyzer{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *cachedAnalyzer) Name() string { return c.next.Name() + " +cache" }

func (c *cachedAnalyzer) Analyze(ctx context.Context, req Request) (Result, error) {
	if err := checkPDF(req.MimeType); err != nil {
		return Result{}, err
	}
	key := CacheKey(req)
	if result, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("analysis cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		c.logger.Debug("analysis cache hit", zap.String("key", key))
		return result, nil
	}
	result, err := c.next.Analyze(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		c.logger.Warn("analysis cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

// RedisCache keeps results as JSON strings in Redis.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCache{rdb: rdb}, nil
}

type cachedResult struct {
	Report          string           `json:"report"`
	Metadata        library.Metadata `json:"metadata"`
	SuggestedFolder string           `json:"suggestedFolder"`
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	result, err := decodeCachedResult(data)
	if err != nil {
		return Result{}, false, err
	}
	return result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result Result, ttl time.Duration) error {
	data, err := encodeCachedResult(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

func encodeCachedResult(result Result) ([]byte, error) {
	return json.Marshal(cachedResult{
		Report:          result.Report,
		Metadata:        result.Metadata,
		SuggestedFolder: result.SuggestedFolder,
	})
}

func decodeCachedResult(data []byte) (Result, error) {
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return Result{}, fmt.Errorf("decoding cached analysis: %w", err)
	}
	cached.Metadata.Folder = ""
	return Result{
		Report:          cached.Report,
		Metadata:        cached.Metadata,
		SuggestedFolder: cached.SuggestedFolder,
	}, nil
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// DefaultTTL bounds how stale a cached report may be.
const DefaultTTL = 5 * time.Minute

// ReportCache stores serialized report results in Redis. A nil client
// disables caching and every lookup is a miss.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache. client may be nil.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Key derives a cache key from the report name and its query parameters.
func Key(report string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(report))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return "report:" + report + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Get loads a cached result into dst. Returns false on miss or any Redis
// failure so callers always fall through to the source.
func (c *ReportCache) Get(ctx context.Context, key string, dst interface{}) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Report cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Report cache entry corrupt")
		return false
	}
	return true
}

// Set stores a result. Failures are logged and ignored.
func (c *ReportCache) Set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Report cache write failed")
	}
}

// internal/embedding/store.go
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/metrics"
)

const defaultCacheSize = 4096

// StoreOptions configures a Store.
type StoreOptions struct {
	// CacheSize bounds the in-process LRU in entries.
	CacheSize int

	// Redis enables a shared second cache tier. Optional; the store works
	// fully in-process without it.
	Redis *redis.Client

	// RedisTTL expires shared entries. Zero means no expiry.
	RedisTTL time.Duration
}

// Store is the process-wide embedding cache. Construct one per process and
// pass it by reference to every scoring call; it is safe for concurrent use.
//
// Cache keys are content-addressed over (model version, normalized text), so
// a cache hit is by construction the same vector a recomputation would give.
// Two goroutines racing on the same missing key may both compute; the second
// write wins and both results are identical, so no compute-once guard is
// needed.
type Store struct {
	encoder Encoder
	cache   *lru.Cache[string, Vector]
	redis   *redis.Client
	ttl     time.Duration
	logger  logger.Logger
}

func NewStore(encoder Encoder, opts StoreOptions, log logger.Logger) (*Store, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, Vector](size)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid embedding cache size: " + err.Error())
	}

	return &Store{
		encoder: encoder,
		cache:   cache,
		redis:   opts.Redis,
		ttl:     opts.RedisTTL,
		logger:  log.WithFields(map[string]interface{}{"component": "embedding-store"}),
	}, nil
}

// ModelVersion exposes the underlying encoder's model identity.
func (s *Store) ModelVersion() string { return s.encoder.ModelVersion() }

// Dimension exposes the vector width.
func (s *Store) Dimension() int { return s.encoder.Dimension() }

// ZeroVector returns a fresh all-zero vector of the store's dimension.
func (s *Store) ZeroVector() Vector { return make(Vector, s.encoder.Dimension()) }

// CacheKey is a stable hash of (model version, normalized text).
func (s *Store) CacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(s.encoder.ModelVersion()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Encode returns the embedding for text, computing it at most when neither
// cache tier has it. Empty text yields a zero vector and never reaches the
// encoder. Encoder failures surface as ENCODING_FAILED; callers treat that
// as "no semantic signal" for the affected category.
func (s *Store) Encode(ctx context.Context, text string) (Vector, error) {
	if text == "" {
		return s.ZeroVector(), nil
	}

	key := s.CacheKey(text)

	if v, ok := s.cache.Get(key); ok {
		metrics.EmbeddingCacheHits.WithLabelValues("lru").Inc()
		return v, nil
	}

	if v, ok := s.redisGet(ctx, key); ok {
		metrics.EmbeddingCacheHits.WithLabelValues("redis").Inc()
		s.cache.Add(key, v)
		return v, nil
	}

	metrics.EmbeddingCacheMisses.Inc()

	v, err := s.encoder.Encode(ctx, text)
	if err != nil {
		metrics.EncodingFailures.Inc()
		return nil, errors.NewEncodingError("", err)
	}

	s.cache.Add(key, v)
	s.redisSet(ctx, key, v)
	return v, nil
}

// EncodeBatch encodes each text independently. Results are exactly what
// sequential Encode calls would return, in input order.
func (s *Store) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, text := range texts {
		v, err := s.Encode(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Len reports the number of entries in the in-process tier.
func (s *Store) Len() int { return s.cache.Len() }

// Purge drops the in-process tier. Mostly for tests.
func (s *Store) Purge() { s.cache.Purge() }

func (s *Store) redisGet(ctx context.Context, key string) (Vector, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, "embedding:"+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis cache read failed", map[string]interface{}{"error": err})
		}
		return nil, false
	}
	var v Vector
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt redis cache entry dropped", map[string]interface{}{"key": key})
		_ = s.redis.Del(ctx, "embedding:"+key).Err()
		return nil, false
	}
	return v, true
}

func (s *Store) redisSet(ctx context.Context, key string, v Vector) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, "embedding:"+key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis cache write failed", map[string]interface{}{"error": err})
	}
}

package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/spacesedan/commentlens/internal/models"
)

const (
	DefaultCacheCapacity = 1000
	sharedKeyPrefix      = "commentlens:analysis:"
)

// SharedStore is an optional second cache tier shared between processes.
type SharedStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type CacheConfig struct {
	Capacity int
	// DedupeInFlight collapses concurrent misses for the same key into one
	// analysis. Off by default.
	DedupeInFlight bool
	Shared         SharedStore
	SharedTTL      time.Duration
}

type CacheStats struct {
	Hits       uint64
	SharedHits uint64
	Misses     uint64
}

// ResultCache memoizes Analyzer results by the exact ordered comment sequence
// and evicts the least recently used entry past Capacity. Without
// DedupeInFlight, two simultaneous first requests for one key both run
// the analysis.
type ResultCache struct {
	analyzer *Analyzer
	entries  *lru.Cache[string, models.AnalysisResult]
	shared   SharedStore
	ttl      time.Duration
	dedupe   bool
	group    singleflight.Group

	hits       atomic.Uint64
	sharedHits atomic.Uint64
	misses     atomic.Uint64
}

func NewResultCache(analyzer *Analyzer, cfg CacheConfig) (*ResultCache, error) {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCacheCapacity
	}
	if cfg.SharedTTL <= 0 {
		cfg.SharedTTL = 24 * time.Hour
	}
	entries, err := lru.New[string, models.AnalysisResult](cfg.Capacity)
	if err != nil {
		return nil, err
	}
	return &ResultCache{
		analyzer: analyzer,
		entries:  entries,
		shared:   cfg.Shared,
		ttl:      cfg.SharedTTL,
		dedupe:   cfg.DedupeInFlight,
	}, nil
}

// Analyze returns the cached result for comments, computing it on a miss.
// Failed analyses are not cached. If ctx ends first Analyze returns ctx.Err()
// and the in-flight adapter calls are left to finish.
func (c *ResultCache) Analyze(ctx context.Context, comments []string) (models.AnalysisResult, error) {
	key := CacheKey(comments)
	if result, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return result.Clone(), nil
	}

	if result, ok := c.loadShared(ctx, key); ok {
		c.sharedHits.Add(1)
		c.entries.Add(key, result)
		return result.Clone(), nil
	}

	c.misses.Add(1)
	select {
	case res := <-c.start(ctx, key, comments):
		if res.Err != nil {
			return models.AnalysisResult{}, res.Err
		}
		return res.Val.(models.AnalysisResult).Clone(), nil
	case <-ctx.Done():
		// the analysis keeps running and still fills the cache
		return models.AnalysisResult{}, ctx.Err()
	}
}

// start runs the analysis detached from the caller's cancellation. With
// DedupeInFlight, concurrent callers for one key share a single run.
func (c *ResultCache) start(ctx context.Context, key string, comments []string) <-chan singleflight.Result {
	detached := context.WithoutCancel(ctx)
	if c.dedupe {
		return c.group.DoChan(key, func() (interface{}, error) {
			return c.compute(detached, key, comments)
		})
	}

	out := make(chan singleflight.Result, 1)
	go func() {
		result, err := c.compute(detached, key, comments)
		out <- singleflight.Result{Val: result, Err: err}
	}()
	return out
}

func (c *ResultCache) compute(ctx context.Context, key string, comments []string) (models.AnalysisResult, error) {
	result, err := c.analyzer.Analyze(ctx, comments)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	c.entries.Add(key, result)
	c.storeShared(ctx, key, result)
	return result, nil
}

func (c *ResultCache) loadShared(ctx context.Context, key string) (models.AnalysisResult, bool) {
	if c.shared == nil {
		return models.AnalysisResult{}, false
	}
	data, ok, err := c.shared.Load(ctx, sharedKey(key))
	if err != nil {
		slog.Warn("[ResultCache] Shared cache lookup failed",
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, false
	}
	if !ok {
		return models.AnalysisResult{}, false
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("[ResultCache] Discarding undecodable shared entry",
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, false
	}
	return result, true
}

func (c *ResultCache) storeShared(ctx context.Context, key string, result models.AnalysisResult) {
	if c.shared == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		slog.Warn("[ResultCache] Failed to encode result for shared cache",
			slog.String("error", err.Error()))
		return
	}
	if err := c.shared.Store(ctx, sharedKey(key), data, c.ttl); err != nil {
		slog.Warn("[ResultCache] Shared cache store failed",
			slog.String("error", err.Error()))
	}
}

func (c *ResultCache) Len() int {
	return c.entries.Len()
}

func (c *ResultCache) Purge() {
	c.entries.Purge()
}

func (c *ResultCache) Stats() CacheStats {
	return CacheStats{
		Hits:       c.hits.Load(),
		SharedHits: c.sharedHits.Load(),
		Misses:     c.misses.Load(),
	}
}

// CacheKey encodes the ordered comments without ambiguity: each comment is
// length-prefixed, so no two distinct sequences share a key.
func CacheKey(comments []string) string {
	var b strings.Builder
	for _, comment := range comments {
		b.WriteString(strconv.Itoa(len(comment)))
		b.WriteByte(':')
		b.WriteString(comment)
	}
	return b.String()
}

func sharedKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return sharedKeyPrefix + hex.EncodeToString(sum[:])
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/ulancrm/internal/cache"
	"github.com/ppiankov/ulancrm/internal/metric"
	"github.com/ppiankov/ulancrm/internal/model"
	"github.com/ppiankov/ulancrm/internal/vocab"
)

// DocumentSuffix is appended to resolved IRIs to request the Turtle document
const DocumentSuffix = ".ttl"

// GraphCache fetches vocabulary records through two cache tiers: raw
// document text keyed by IRI, and normalized records keyed by IRI and
// framing mode. Concurrent misses on one key share a single population.
type GraphCache struct {
	resolver   *vocab.Resolver
	source     Source
	normalizer *Normalizer

	raw     cache.Store
	records *cache.LRU[model.Record]
	flight  singleflight.Group

	timeout     time.Duration
	warnRecords int
	warned      atomic.Bool

	metrics *metric.Metrics
	logger  *slog.Logger
}

// GraphCacheOption configures a GraphCache
type GraphCacheOption func(*GraphCache)

// WithRawStore sets the raw-text tier (default: in-memory, 1000 documents)
func WithRawStore(s cache.Store) GraphCacheOption {
	return func(c *GraphCache) { c.raw = s }
}

// WithMaxRecords bounds the record tier; zero disables it
func WithMaxRecords(n int) GraphCacheOption {
	return func(c *GraphCache) { c.records = cache.NewLRU[model.Record](n) }
}

// WithWarnRecords sets the record count that triggers a size warning
func WithWarnRecords(n int) GraphCacheOption {
	return func(c *GraphCache) { c.warnRecords = n }
}

// WithFetchTimeout bounds each upstream fetch
func WithFetchTimeout(d time.Duration) GraphCacheOption {
	return func(c *GraphCache) { c.timeout = d }
}

// WithCacheMetrics records tier hits and upstream fetches
func WithCacheMetrics(m *metric.Metrics) GraphCacheOption {
	return func(c *GraphCache) { c.metrics = m }
}

// WithCacheLogger sets the logger
func WithCacheLogger(l *slog.Logger) GraphCacheOption {
	return func(c *GraphCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGraphCache creates a cache resolving identifiers with resolver and
// loading documents from source.
func NewGraphCache(resolver *vocab.Resolver, source Source, normalizer *Normalizer, opts ...GraphCacheOption) *GraphCache {
	c := &GraphCache{
		resolver:    resolver,
		source:      source,
		normalizer:  normalizer,
		raw:         cache.NewMemoryCache(0, 1000),
		records:     cache.NewLRU[model.Record](500),
		timeout:     20 * time.Second,
		warnRecords: 200,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.records.OnEvict(func(key string, _ model.Record) {
		c.logger.Debug("evicted record", "key", key)
	})
	return c
}

// Fetch returns the normalized record for an identifier. The returned record
// is shared with other callers and must not be modified.
func (c *GraphCache) Fetch(ctx context.Context, id string, frame bool) (model.Record, error) {
	iri, err := c.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(iri, DocumentSuffix) {
		iri += DocumentSuffix
	}

	key := recordKey(iri, frame)
	if rec, ok := c.records.Get(key); ok {
		c.metrics.CacheHit(metric.TierRecord)
		return rec, nil
	}
	c.metrics.CacheMiss(metric.TierRecord)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if rec, ok := c.records.Get(key); ok {
			return rec, nil
		}

		raw, err := c.rawText(ctx, iri)
		if err != nil {
			return nil, err
		}

		rec, err := c.normalizer.Normalize(raw, frame)
		if err != nil {
			// Malformed upstream data is reported like missing data
			return nil, fmt.Errorf("%w: %s: %w", model.ErrNotFound, iri, err)
		}

		c.store(key, rec)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Record), nil
}

// rawText returns the document text from the raw tier or upstream
func (c *GraphCache) rawText(ctx context.Context, iri string) (string, error) {
	if data, ok := c.raw.Get(iri); ok {
		c.metrics.CacheHit(metric.TierRaw)
		return string(data), nil
	}
	c.metrics.CacheMiss(metric.TierRaw)

	v, err, _ := c.flight.Do("raw:"+iri, func() (any, error) {
		// The shared fetch outlives any single caller's cancellation
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		c.logger.Info("fetching", "url", iri)
		text, err := c.source.Fetch(fetchCtx, iri)
		if err != nil {
			c.metrics.UpstreamFetch("error")
			return nil, fmt.Errorf("%w: %s: %w", model.ErrNotFound, iri, err)
		}
		c.metrics.UpstreamFetch("ok")

		if err := c.raw.Set(iri, []byte(text)); err != nil {
			c.logger.Warn("failed to cache document", "url", iri, "error", err)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *GraphCache) store(key string, rec model.Record) {
	c.records.Add(key, rec)

	n := c.records.Len()
	if c.warnRecords > 0 && n > c.warnRecords {
		if c.warned.CompareAndSwap(false, true) {
			c.logger.Warn("record cache is large", "records", n, "threshold", c.warnRecords)
		}
	} else {
		c.warned.Store(false)
	}
}

// Len returns the number of cached records
func (c *GraphCache) Len() int {
	return c.records.Len()
}

func recordKey(iri string, frame bool) string {
	if frame {
		return iri + "#framed"
	}
	return iri + "#compact"
}

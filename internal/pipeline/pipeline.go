package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ppiankov/ulancrm/internal/cache"
	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/mapping"
	"github.com/ppiankov/ulancrm/internal/metric"
	"github.com/ppiankov/ulancrm/internal/model"
	"github.com/ppiankov/ulancrm/internal/vocab"
	"github.com/ppiankov/ulancrm/internal/worker"
)

// Pipeline turns ULAN identifiers into entity graphs
type Pipeline struct {
	graphs  *GraphCache
	memory  *cache.MemoryCache
	engine  *mapping.Engine
	baseURL string
	metrics *metric.Metrics
	logger  *slog.Logger
}

// Option overrides a collaborator of the pipeline
type Option func(*options)

type options struct {
	source  Source
	decoder GraphDecoder
	shaper  Shaper
	metrics *metric.Metrics
	logger  *slog.Logger
}

// WithSource replaces the HTTP fetcher
func WithSource(s Source) Option {
	return func(o *options) { o.source = s }
}

// WithDecoder replaces the Turtle decoder
func WithDecoder(d GraphDecoder) Option {
	return func(o *options) { o.decoder = d }
}

// WithShaper replaces the JSON-LD shaper
func WithShaper(s Shaper) Option {
	return func(o *options) { o.shaper = s }
}

// WithMetrics records pipeline counters
func WithMetrics(m *metric.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger handed to every component
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewPipeline wires the fetcher, caches and mapping engine from cfg
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ldCtx, err := vocab.LoadContext(cfg.Vocab.ContextFile)
	if err != nil {
		return nil, err
	}
	resolver, err := ldCtx.Resolver(cfg.Vocab.Prefixes)
	if err != nil {
		return nil, err
	}

	if o.source == nil {
		o.source = NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.RespectRobots, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, "").
			WithMaxAttempts(cfg.HTTP.MaxAttempts).
			WithLimiter(worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)).
			WithLogger(o.logger)
	}
	if o.decoder == nil {
		o.decoder = TurtleDecoder{}
	}
	if o.shaper == nil {
		o.shaper = NewLDShaper(ldCtx)
	}

	raw, memory := rawStore(cfg.Cache)
	graphs := NewGraphCache(resolver, o.source, NewNormalizer(o.decoder, o.shaper),
		WithRawStore(raw),
		WithMaxRecords(recordCapacity(cfg.Cache)),
		WithWarnRecords(cfg.Cache.WarnRecords),
		WithFetchTimeout(cfg.HTTP.Timeout),
		WithCacheMetrics(o.metrics),
		WithCacheLogger(o.logger),
	)

	engine := mapping.NewEngine(graphs, resolver,
		mapping.WithSources(cfg.Mapping.Sources),
		mapping.WithMetrics(o.metrics),
		mapping.WithLogger(o.logger),
	)

	return &Pipeline{
		graphs:  graphs,
		memory:  memory,
		engine:  engine,
		baseURL: cfg.Vocab.BaseURL,
		metrics: o.metrics,
		logger:  o.logger,
	}, nil
}

// rawStore picks the raw-text tier: memory, memory over disk, or none.
// The memory tier is returned separately so its size can be reported.
func rawStore(cfg model.CacheConfig) (cache.Store, *cache.MemoryCache) {
	if !cfg.Enabled {
		return cache.Nop{}, nil
	}
	mem := cache.NewMemoryCache(cfg.MemoryTTL, cfg.MaxRaw)
	if cfg.Dir == "" {
		return mem, mem
	}
	return cache.NewLayeredCache(mem, cache.NewDiskCache(filepath.Join(cfg.Dir, "raw"), cfg.DiskTTL)), mem
}

func recordCapacity(cfg model.CacheConfig) int {
	if !cfg.Enabled {
		return 0
	}
	return cfg.MaxRecords
}

// Describe fetches the record for a numeric ULAN identifier and maps it.
// Non-numeric identifiers fail with ErrInvalidIdentifier before any I/O.
func (p *Pipeline) Describe(ctx context.Context, id string) (*crm.Entity, error) {
	entity, err := p.describe(ctx, id)
	switch {
	case err == nil:
		p.metrics.Request("ok")
	case model.IsNotFound(err):
		p.metrics.Request("not_found")
	default:
		p.metrics.Request("error")
	}
	return entity, err
}

func (p *Pipeline) describe(ctx context.Context, id string) (*crm.Entity, error) {
	if !isDigits(id) {
		return nil, fmt.Errorf("%w: %q is not a numeric identifier", model.ErrInvalidIdentifier, id)
	}

	rec, err := p.graphs.Fetch(ctx, p.baseURL+id, true)
	if err != nil {
		return nil, err
	}

	entity, err := p.engine.Process(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", id, err)
	}

	p.logger.Debug("described", "id", id, "type", entity.Type)
	return entity, nil
}

// Records returns the number of normalized records currently cached
func (p *Pipeline) Records() int {
	return p.graphs.Len()
}

// Documents returns the number of raw documents held in memory
func (p *Pipeline) Documents() int {
	if p.memory == nil {
		return 0
	}
	return p.memory.Len()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

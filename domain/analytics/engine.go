package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pyama86/breachtracker/domain/entity"
)

// Engine runs queries through an optional evaluator and falls back to the
// built-in aggregations when it is absent or fails.
type Engine struct {
	evaluator Evaluator
	cache     *ttlcache.Cache[string, *Table]
}

type EngineOption func(*Engine)

// WithCacheTTL caches evaluator answers per query and dataset. Zero disables
// the cache.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl <= 0 {
			e.cache = nil
			return
		}
		e.cache = ttlcache.New(ttlcache.WithTTL[string, *Table](ttl))
	}
}

// NewEngine accepts a nil evaluator; every query is then answered by the
// fallback without an error.
func NewEngine(evaluator Evaluator, opts ...EngineOption) *Engine {
	e := &Engine{evaluator: evaluator}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) HasEvaluator() bool {
	return e.evaluator != nil
}

func (e *Engine) Run(ctx context.Context, query string, rows []Row, sampleID string) *Result {
	if e.evaluator == nil {
		return &Result{Table: Fallback(sampleID, rows), UsedFallback: true}
	}

	key := query + "\x00" + fingerprint(rows)
	if e.cache != nil {
		if item := e.cache.Get(key); item != nil {
			return &Result{Table: item.Value().Clone()}
		}
	}

	t, err := e.evaluator.Evaluate(ctx, query, rows)
	if err != nil {
		slog.Warn("query failed, using fallback", slog.String("sample", sampleID), slog.Any("error", err))
		return &Result{Table: Fallback(sampleID, rows), UsedFallback: true, Error: err.Error()}
	}
	if e.cache != nil {
		e.cache.Set(key, t.Clone(), ttlcache.DefaultTTL)
	}
	return &Result{Table: t}
}

// RunSample runs a named sample. It returns nil for an unknown id.
func (e *Engine) RunSample(ctx context.Context, sampleID string, rows []Row) *Result {
	q, ok := Sample(sampleID)
	if !ok {
		return nil
	}
	return e.Run(ctx, q.SQL, rows, sampleID)
}

type Snapshot struct {
	Coverage   *Table
	Throughput *Table
	AuditTrail *Table
}

// Snapshot runs the three samples over incidents.
func (e *Engine) Snapshot(ctx context.Context, incidents []entity.Incident) Snapshot {
	rows := BuildDataset(incidents)
	return Snapshot{
		Coverage:   e.RunSample(ctx, SampleCoverage, rows).Table,
		Throughput: e.RunSample(ctx, SampleThroughput, rows).Table,
		AuditTrail: e.RunSample(ctx, SampleAuditTrail, rows).Table,
	}
}

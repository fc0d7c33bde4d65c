package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/entity"
)

type countingEvaluator struct {
	calls int
	err   error
	table *analytics.Table
}

func (c *countingEvaluator) Evaluate(_ context.Context, _ string, _ []analytics.Row) (*analytics.Table, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.table.Clone(), nil
}

func TestEngineWithoutEvaluator(t *testing.T) {
	e := analytics.NewEngine(nil)
	assert.False(t, e.HasEvaluator())

	got := e.Run(context.Background(), "SELECT * FROM ?", sampleRows(), analytics.SampleCoverage)
	assert.True(t, got.UsedFallback)
	assert.Empty(t, got.Error)
	assert.Equal(t, analytics.Fallback(analytics.SampleCoverage, sampleRows()), got.Table)
}

func TestEngineFallsBackOnError(t *testing.T) {
	ev := &countingEvaluator{err: errors.New("no such table")}
	e := analytics.NewEngine(ev, analytics.WithCacheTTL(time.Minute))

	for n := 0; n < 2; n++ {
		got := e.Run(context.Background(), "SELECT 1", sampleRows(), analytics.SampleThroughput)
		assert.True(t, got.UsedFallback)
		assert.Equal(t, "no such table", got.Error)
		assert.Equal(t, analytics.Fallback(analytics.SampleThroughput, sampleRows()), got.Table)
	}
	assert.Equal(t, 2, ev.calls, "failures are not cached")
}

func TestEngineCachesResults(t *testing.T) {
	ctx := context.Background()
	ev := &countingEvaluator{table: &analytics.Table{Columns: []string{"n"}, Rows: [][]any{{int64(1)}}}}
	e := analytics.NewEngine(ev, analytics.WithCacheTTL(time.Minute))
	rows := sampleRows()

	first := e.Run(ctx, "SELECT COUNT(*) AS n FROM ?", rows, "")
	require.False(t, first.UsedFallback)
	first.Rows[0][0] = int64(99)

	second := e.Run(ctx, "SELECT COUNT(*) AS n FROM ?", rows, "")
	assert.Equal(t, int64(1), second.Rows[0][0])
	assert.Equal(t, 1, ev.calls)

	rows[0].Status = "RESOLVED"
	e.Run(ctx, "SELECT COUNT(*) AS n FROM ?", rows, "")
	assert.Equal(t, 2, ev.calls)

	e.Run(ctx, "SELECT 2 AS n FROM ?", rows, "")
	assert.Equal(t, 3, ev.calls)
}

func TestEngineWithoutCache(t *testing.T) {
	ev := &countingEvaluator{table: &analytics.Table{}}
	e := analytics.NewEngine(ev, analytics.WithCacheTTL(0))
	e.Run(context.Background(), "q", nil, "")
	e.Run(context.Background(), "q", nil, "")
	assert.Equal(t, 2, ev.calls)
}

func TestEngineRunSample(t *testing.T) {
	e := analytics.NewEngine(analytics.NewSQLiteEvaluator())
	assert.Nil(t, e.RunSample(context.Background(), "missing", sampleRows()))

	got := e.RunSample(context.Background(), analytics.SampleCoverage, sampleRows())
	require.NotNil(t, got)
	assert.False(t, got.UsedFallback)
	assert.Equal(t, 2, got.Len())
}

func TestEngineSnapshot(t *testing.T) {
	h := 4
	incidents := []entity.Incident{
		{IncidentID: "INC-2025-001", BusinessUnit: "Finance", Severity: entity.SeverityHigh, Status: entity.StatusInvestigating, DiscoveredDate: "2025-12-01", ResponseTimeHours: &h},
		{IncidentID: "INC-2025-002", BusinessUnit: "IT Services", Severity: entity.SeverityLow, Status: entity.StatusResolved, DiscoveredDate: "2025-12-02", ResolvedDate: "2025-12-02"},
	}
	for _, ev := range []analytics.Evaluator{nil, analytics.NewSQLiteEvaluator()} {
		s := analytics.NewEngine(ev).Snapshot(context.Background(), incidents)
		assert.Equal(t, 2, s.Coverage.Len())
		assert.Equal(t, 2, s.Throughput.Len())
		require.Equal(t, 2, s.AuditTrail.Len())
		assert.Equal(t, "INC-2025-002", s.AuditTrail.Rows[0][0])
	}
}

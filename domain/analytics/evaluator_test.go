package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/analytics"
)

func TestSQLiteEvaluatorMatchesFallback(t *testing.T) {
	ctx := context.Background()
	e := analytics.NewSQLiteEvaluator()
	rows := sampleRows()

	for _, q := range analytics.SampleQueries {
		t.Run(q.ID, func(t *testing.T) {
			got, err := e.Evaluate(ctx, q.SQL, rows)
			require.NoError(t, err)
			want := analytics.Fallback(q.ID, rows)

			assert.Equal(t, want.Columns, got.Columns)
			assert.Equal(t, want.Rows, got.Rows)
		})
	}
}

func TestSQLiteEvaluatorTieOrderMatchesFallback(t *testing.T) {
	rows := []analytics.Row{
		{IncidentID: "T3", BusinessUnit: "Zeta", Severity: "LOW", DiscoveredDate: "2025-12-01"},
		{IncidentID: "T1", BusinessUnit: "Alpha", Severity: "HIGH", DiscoveredDate: "2025-12-01"},
		{IncidentID: "T2", BusinessUnit: "Mid", Severity: "MEDIUM", DiscoveredDate: "2025-12-01"},
	}
	e := analytics.NewSQLiteEvaluator()
	for _, q := range analytics.SampleQueries {
		t.Run(q.ID, func(t *testing.T) {
			got, err := e.Evaluate(context.Background(), q.SQL, rows)
			require.NoError(t, err)
			assert.Equal(t, analytics.Fallback(q.ID, rows).Rows, got.Rows)
		})
	}
}

func TestSQLiteEvaluatorAdHocQuery(t *testing.T) {
	got, err := analytics.NewSQLiteEvaluator().Evaluate(context.Background(),
		"select incident_id, affected_records, pdpc_required from ? where status = 'CONTAINED'", sampleRows())
	require.NoError(t, err)

	assert.Equal(t, []string{"incident_id", "affected_records", "pdpc_required"}, got.Columns)
	assert.Equal(t, [][]any{{"D", int64(3), false}}, got.Rows)
}

func TestSQLiteEvaluatorEmptyDataset(t *testing.T) {
	q, _ := analytics.Sample(analytics.SampleCoverage)
	got, err := analytics.NewSQLiteEvaluator().Evaluate(context.Background(), q.SQL, nil)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestSQLiteEvaluatorErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "syntax", query: "SELEC * FROM ?"},
		{name: "unknown column", query: "SELECT nope FROM ?"},
		{name: "write", query: "DELETE FROM dataset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analytics.NewSQLiteEvaluator().Evaluate(context.Background(), tt.query, sampleRows())
			assert.Error(t, err)
		})
	}
}

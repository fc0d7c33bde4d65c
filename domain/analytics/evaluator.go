package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// Evaluator runs a query over a dataset. Queries address the dataset as `?`.
type Evaluator interface {
	Evaluate(ctx context.Context, query string, rows []Row) (*Table, error)
}

var datasetPlaceholder = regexp.MustCompile(`(?i)\bFROM\s+\?`)

const datasetTable = "dataset"

var createDataset = `CREATE TABLE dataset (
	response_time_hours REAL,
	incident_id TEXT,
	business_unit TEXT,
	breach_type TEXT,
	root_cause TEXT,
	severity TEXT,
	status TEXT,
	pdpc_required BOOLEAN,
	pdpc_notified BOOLEAN,
	dpo_guidance BOOLEAN,
	discovered_date TEXT,
	resolved_date TEXT,
	affected_records INTEGER
)`

// SQLiteEvaluator loads the dataset into a private in-memory SQLite database
// per call and runs the query read-only.
type SQLiteEvaluator struct{}

func NewSQLiteEvaluator() *SQLiteEvaluator {
	return &SQLiteEvaluator{}
}

func (e *SQLiteEvaluator) Evaluate(ctx context.Context, query string, rows []Row) (*Table, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := load(ctx, db, rows); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = 1"); err != nil {
		return nil, fmt.Errorf("set query_only: %w", err)
	}

	rs, err := db.QueryContext(ctx, datasetPlaceholder.ReplaceAllString(query, "FROM "+datasetTable))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rs.Close()
	return scan(rs)
}

func load(ctx context.Context, db *sql.DB, rows []Row) error {
	if _, err := db.ExecContext(ctx, createDataset); err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		datasetTable, strings.Join(Columns, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return fmt.Errorf("insert %s: %w", r.IncidentID, err)
		}
	}
	return tx.Commit()
}

func scan(rs *sql.Rows) (*Table, error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rs.ColumnTypes()
	if err != nil {
		return nil, err
	}
	t := &Table{Columns: cols}
	for rs.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for n := range values {
			dest[n] = &values[n]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for n, v := range values {
			values[n] = normalize(v, types[n].DatabaseTypeName())
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return t, nil
}

// normalize maps SQLite storage values back onto the dataset's Go types.
func normalize(v any, declared string) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int64:
		if strings.EqualFold(declared, "BOOLEAN") {
			return x != 0
		}
	}
	return v
}

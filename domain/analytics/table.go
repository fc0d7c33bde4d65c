package analytics

import "slices"

// Table is a query answer: column names and positional row values.
// Counts are int64, averages float64, flags bool and a missing date nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Records returns the rows keyed by column name.
func (t *Table) Records() []map[string]any {
	if t == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for n, col := range t.Columns {
			if n < len(row) {
				rec[col] = row[n]
			}
		}
		out = append(out, rec)
	}
	return out
}

func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{Columns: slices.Clone(t.Columns), Rows: make([][]any, 0, len(t.Rows))}
	for _, row := range t.Rows {
		c.Rows = append(c.Rows, slices.Clone(row))
	}
	return c
}

// Result is the outcome of Engine.Run. UsedFallback is set when the answer
// came from the built-in aggregation; Error carries the evaluator failure, if
// that was the reason.
type Result struct {
	*Table
	UsedFallback bool
	Error        string
}

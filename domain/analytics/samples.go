package analytics

import (
	"cmp"
	"math"
	"slices"
)

const (
	SampleCoverage   = "coverage"
	SampleThroughput = "throughput"
	SampleAuditTrail = "auditTrail"

	auditTrailLimit = 50
	genericLimit    = 25
)

type SampleQuery struct {
	ID    string
	Title string
	Label string
	SQL   string
}

// SampleQueries are the named audit questions. Each has a built-in fallback
// with the same columns and grouping. `?` stands for the dataset.
var SampleQueries = []SampleQuery{
	{
		ID:    SampleCoverage,
		Title: "PDPC coverage by business unit",
		Label: "Coverage",
		SQL: `SELECT business_unit AS unit,
       COUNT(*) AS incidents,
       SUM(CASE WHEN pdpc_required THEN 1 ELSE 0 END) AS pdpc_required,
       SUM(CASE WHEN pdpc_notified THEN 1 ELSE 0 END) AS pdpc_notified,
       ROUND(AVG(response_time_hours), 2) AS avg_response_hours
FROM ?
GROUP BY business_unit
ORDER BY incidents DESC, unit;`,
	},
	{
		ID:    SampleThroughput,
		Title: "Response throughput by severity",
		Label: "Throughput",
		SQL: `SELECT severity,
       COUNT(*) AS incidents,
       SUM(CASE WHEN status <> 'RESOLVED' THEN 1 ELSE 0 END) AS open_cases,
       ROUND(AVG(response_time_hours), 2) AS avg_response_hours
FROM ?
GROUP BY severity
ORDER BY incidents DESC, severity;`,
	},
	{
		ID:    SampleAuditTrail,
		Title: "Audit trail snapshot",
		Label: "Audit Trail",
		SQL: `SELECT incident_id,
       breach_type,
       root_cause,
       status,
       pdpc_required,
       pdpc_notified,
       dpo_guidance,
       response_time_hours,
       discovered_date,
       resolved_date
FROM ?
ORDER BY discovered_date DESC, incident_id
LIMIT 50;`,
	},
}

func Sample(id string) (SampleQuery, bool) {
	n := slices.IndexFunc(SampleQueries, func(q SampleQuery) bool { return q.ID == id })
	if n < 0 {
		return SampleQuery{}, false
	}
	return SampleQueries[n], true
}

// Fallback answers a sample question without an evaluator. Unknown ids
// yield the first 25 rows unchanged.
func Fallback(sampleID string, rows []Row) *Table {
	switch sampleID {
	case SampleCoverage:
		return coverage(rows)
	case SampleThroughput:
		return throughput(rows)
	case SampleAuditTrail:
		return auditTrail(rows)
	}
	t := &Table{Columns: slices.Clone(Columns)}
	for _, r := range rows[:min(len(rows), genericLimit)] {
		t.Rows = append(t.Rows, r.Values())
	}
	return t
}

type group struct {
	key  string
	rows []Row
}

// groupBy orders groups by size, largest first, then by key.
func groupBy(rows []Row, key func(Row) string) []group {
	var groups []group
	index := map[string]int{}
	for _, r := range rows {
		k := key(r)
		n, ok := index[k]
		if !ok {
			n = len(groups)
			index[k] = n
			groups = append(groups, group{key: k})
		}
		groups[n].rows = append(groups[n].rows, r)
	}
	slices.SortFunc(groups, func(a, b group) int {
		return cmp.Or(cmp.Compare(len(b.rows), len(a.rows)), cmp.Compare(a.key, b.key))
	})
	return groups
}

func countIf(rows []Row, pred func(Row) bool) int64 {
	var n int64
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

func avgResponse(rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += r.ResponseTimeHours
	}
	return math.Round(sum/float64(len(rows))*100) / 100
}

func coverage(rows []Row) *Table {
	t := &Table{Columns: []string{"unit", "incidents", "pdpc_required", "pdpc_notified", "avg_response_hours"}}
	for _, g := range groupBy(rows, func(r Row) string { return r.BusinessUnit }) {
		t.Rows = append(t.Rows, []any{
			g.key,
			int64(len(g.rows)),
			countIf(g.rows, func(r Row) bool { return r.PDPCRequired }),
			countIf(g.rows, func(r Row) bool { return r.PDPCNotified }),
			avgResponse(g.rows),
		})
	}
	return t
}

func throughput(rows []Row) *Table {
	t := &Table{Columns: []string{"severity", "incidents", "open_cases", "avg_response_hours"}}
	for _, g := range groupBy(rows, func(r Row) string { return r.Severity }) {
		t.Rows = append(t.Rows, []any{
			g.key,
			int64(len(g.rows)),
			countIf(g.rows, func(r Row) bool { return r.Status != "RESOLVED" }),
			avgResponse(g.rows),
		})
	}
	return t
}

func auditTrail(rows []Row) *Table {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return cmp.Or(cmp.Compare(b.DiscoveredDate, a.DiscoveredDate), cmp.Compare(a.IncidentID, b.IncidentID))
	})
	t := &Table{Columns: []string{
		"incident_id", "breach_type", "root_cause", "status",
		"pdpc_required", "pdpc_notified", "dpo_guidance",
		"response_time_hours", "discovered_date", "resolved_date",
	}}
	for _, r := range sorted[:min(len(sorted), auditTrailLimit)] {
		t.Rows = append(t.Rows, []any{
			r.IncidentID, r.BreachType, r.RootCause, r.Status,
			r.PDPCRequired, r.PDPCNotified, r.DPOGuidance,
			r.ResponseTimeHours, r.DiscoveredDate, r.resolved(),
		})
	}
	return t
}

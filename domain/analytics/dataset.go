// Package analytics flattens incidents into a tabular dataset and answers
// audit questions over it, either through a query evaluator or through
// deterministic built-in aggregations.
package analytics

import (
	"fmt"
	"hash/fnv"

	"github.com/pyama86/breachtracker/domain/entity"
)

// Columns is the dataset schema, in row order.
var Columns = []string{
	"response_time_hours",
	"incident_id",
	"business_unit",
	"breach_type",
	"root_cause",
	"severity",
	"status",
	"pdpc_required",
	"pdpc_notified",
	"dpo_guidance",
	"discovered_date",
	"resolved_date",
	"affected_records",
}

// Row is one incident reduced to primitive values.
type Row struct {
	ResponseTimeHours float64
	IncidentID        string
	BusinessUnit      string
	BreachType        string
	RootCause         string
	Severity          string
	Status            string
	PDPCRequired      bool
	PDPCNotified      bool
	DPOGuidance       bool
	DiscoveredDate    string
	ResolvedDate      *string
	AffectedRecords   int64
}

func BuildDataset(incidents []entity.Incident) []Row {
	rows := make([]Row, 0, len(incidents))
	for _, i := range incidents {
		row := Row{
			IncidentID:      i.IncidentID,
			BusinessUnit:    i.BusinessUnit,
			BreachType:      i.BreachType,
			RootCause:       i.RootCause,
			Severity:        string(i.Severity),
			Status:          string(i.Status),
			PDPCRequired:    i.PDPCNotificationRequired,
			PDPCNotified:    i.PDPCNotified,
			DPOGuidance:     i.DPOGuidanceIssued,
			DiscoveredDate:  string(i.DiscoveredDate),
			AffectedRecords: int64(i.AffectedRecords),
		}
		if i.ResponseTimeHours != nil {
			row.ResponseTimeHours = float64(*i.ResponseTimeHours)
		}
		if !i.ResolvedDate.IsZero() {
			d := string(i.ResolvedDate)
			row.ResolvedDate = &d
		}
		rows = append(rows, row)
	}
	return rows
}

func (r Row) resolved() any {
	if r.ResolvedDate == nil {
		return nil
	}
	return *r.ResolvedDate
}

// Values returns the row in Columns order. A missing resolved date is nil.
func (r Row) Values() []any {
	return []any{
		r.ResponseTimeHours,
		r.IncidentID,
		r.BusinessUnit,
		r.BreachType,
		r.RootCause,
		r.Severity,
		r.Status,
		r.PDPCRequired,
		r.PDPCNotified,
		r.DPOGuidance,
		r.DiscoveredDate,
		r.resolved(),
		r.AffectedRecords,
	}
}

// fingerprint identifies a dataset for caching.
func fingerprint(rows []Row) string {
	h := fnv.New64a()
	for _, r := range rows {
		fmt.Fprintf(h, "%v\x1f", r.Values())
	}
	return fmt.Sprintf("%d:%x", len(rows), h.Sum64())
}

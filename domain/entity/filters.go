package entity

import "strings"

// FilterAll disables a filter dimension.
const FilterAll = "ALL"

type Filters struct {
	Severity string `json:"severity"`
	Unit     string `json:"unit"`
	Status   string `json:"status"`
	Search   string `json:"search"`
}

func DefaultFilters() Filters {
	return Filters{Severity: FilterAll, Unit: FilterAll, Status: FilterAll}
}

// Normalize turns blank dimensions into ALL.
func (f Filters) Normalize() Filters {
	if strings.TrimSpace(f.Severity) == "" {
		f.Severity = FilterAll
	}
	if strings.TrimSpace(f.Unit) == "" {
		f.Unit = FilterAll
	}
	if strings.TrimSpace(f.Status) == "" {
		f.Status = FilterAll
	}
	return f
}

func (f Filters) Match(i *Incident) bool {
	if f.Severity != FilterAll && string(i.Severity) != f.Severity {
		return false
	}
	if f.Unit != FilterAll && i.BusinessUnit != f.Unit {
		return false
	}
	if f.Status != FilterAll && string(i.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(i.IncidentID), q) ||
		strings.Contains(strings.ToLower(i.Description), q)
}

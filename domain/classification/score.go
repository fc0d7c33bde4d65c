package classification

import (
	"slices"
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
)

// SeverityFromInputs infers a severity. Thresholds are checked in order and
// the first hit wins.
func SeverityFromInputs(records int, dataTypes []string) entity.Severity {
	sensitive := slices.ContainsFunc(dataTypes, func(d string) bool {
		return strings.Contains(d, "Financial") || strings.Contains(d, "Health")
	})
	switch {
	case records >= 1000 || sensitive:
		return entity.SeverityCritical
	case records >= 100 || slices.Contains(dataTypes, "Authentication Credentials"):
		return entity.SeverityHigh
	case records >= 10:
		return entity.SeverityMedium
	}
	return entity.SeverityLow
}

var severityPenalty = map[entity.Severity]int{
	entity.SeverityCritical: 18,
	entity.SeverityHigh:      12,
	entity.SeverityMedium:    7,
}

const defaultPenalty = 4

// ComplianceScore is a 0-100 health heuristic. The total is clamped once,
// after every incident has been counted.
func ComplianceScore(incidents []entity.Incident) int {
	if len(incidents) == 0 {
		return 100
	}
	score := 100
	for n := range incidents {
		i := &incidents[n]
		if p, ok := severityPenalty[i.Severity]; ok {
			score -= p
		} else {
			score -= defaultPenalty
		}
		if rt := i.ResponseTimeHours; rt != nil && *rt > 0 && *rt <= 24 {
			score += 3
		}
		if i.Status == entity.StatusResolved {
			score += 2
		}
		if i.PDPCNotificationRequired && !i.PDPCNotified {
			score -= 4
		}
	}
	return min(100, max(0, score))
}

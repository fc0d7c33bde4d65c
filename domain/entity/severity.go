package entity

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank orders severities CRITICAL(4) > HIGH(3) > MEDIUM(2) > LOW(1); anything
// else ranks 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusDetected      Status = "DETECTED"
	StatusInvestigating Status = "INVESTIGATING"
	StatusContained     Status = "CONTAINED"
	StatusResolved      Status = "RESOLVED"
)

var Statuses = []Status{StatusDraft, StatusDetected, StatusInvestigating, StatusContained, StatusResolved}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusDetected, StatusInvestigating, StatusContained, StatusResolved:
		return true
	}
	return false
}

// NotificationStatus is the PDPC notification decision for an incident.
type NotificationStatus string

const (
	NotificationYes         NotificationStatus = "YES"
	NotificationNo          NotificationStatus = "NO"
	NotificationUnderReview NotificationStatus = "UNDER_REVIEW"
)

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationYes, NotificationNo, NotificationUnderReview:
		return true
	}
	return false
}

package report

import (
	"fmt"
	"strings"

	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
)

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	var b strings.Builder
	for n, item := range items {
		if n > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s", item)
	}
	return b.String()
}

func entries(list []entity.Entry) string {
	items := make([]string, 0, len(list))
	for _, e := range list {
		line := fmt.Sprintf("%s: %s", e.Date, e.Text)
		if e.Person != "" {
			line += fmt.Sprintf(" (%s)", e.Person)
		}
		items = append(items, line)
	}
	return bullets(items)
}

func attachments(list []entity.Attachment) string {
	items := make([]string, 0, len(list))
	for _, a := range list {
		if a.URL != "" && a.URL != a.Name {
			items = append(items, fmt.Sprintf("[%s](%s)", a.Name, a.URL))
			continue
		}
		items = append(items, a.Name)
	}
	return bullets(items)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func responseTime(h *int) string {
	if h == nil {
		return "-"
	}
	return fmt.Sprintf("%dh", *h)
}

func withPerson(flag bool, person string, date entity.Date) string {
	s := yesNo(flag)
	if person != "" {
		s += fmt.Sprintf(" by %s", person)
	}
	if !date.IsZero() {
		s += fmt.Sprintf(" on %s", date)
	}
	return s
}

// Incident renders one incident as a markdown report.
func Incident(i *entity.Incident, tags classification.Tags, class classification.Rule) string {
	risk := ""
	if i.PDPCRisk() {
		risk = "\n> **PDPC notification outstanding**\n"
	}
	return fmt.Sprintf(`# %s: %s
%s
| | |
|---|---|
| Status | %s |
| Severity | %s |
| Business unit | %s |
| Breach type | %s |
| Vulnerability class | %s |
| Discovered | %s |
| Resolved | %s |
| Response time | %s |
| Affected records | %d |
| Reported by | %s |

## Description

%s

## Impact

%s

## Root cause

%s

## Triggers

%s

## Remediation

%s

## Follow-up actions

%s

## Lessons learned

%s

### Preventive measures

%s

### Improvements

%s

## Compliance

- PDPC notification required: %s (%s)
- PDPC notified: %s
- DPO guidance issued: %s

%s

## Timeline

%s

## Notes

%s

## Attachments

%s

## History

%s
`,
		i.IncidentID, orDash(i.BreachType),
		risk,
		i.Status,
		i.Severity,
		orDash(i.BusinessUnit),
		orDash(i.BreachType),
		class.Label,
		orDash(string(i.DiscoveredDate)),
		orDash(string(i.ResolvedDate)),
		responseTime(i.ResponseTimeHours),
		i.AffectedRecords,
		orDash(i.CreatedBy),
		orDash(i.Description),
		bullets(i.DataTypes),
		orDash(i.RootCause),
		bullets(tags.Triggers),
		bullets(i.RemediationActionsList),
		bullets(i.FollowUpActions),
		orDash(i.LessonsLearned),
		orDash(i.PreventiveMeasures),
		orDash(i.Improvements),
		yesNo(i.PDPCNotificationRequired), orDash(string(i.PDPCStatus)),
		withPerson(i.PDPCNotified, i.PDPCNotifiedPerson, i.PDPCNotifiedDate),
		withPerson(i.DPOGuidanceIssued, i.DPONotifiedPerson, i.DPONotifiedDate),
		entries(i.ComplianceHistory),
		entries(i.Timeline),
		entries(i.Notes),
		attachments(i.Attachments),
		entries(i.History),
	)
}

package repository

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
)

// IncidentUpdate carries the fields to change. A nil field is left alone.
// History and timestamps are not part of the update; the repository owns
// them.
type IncidentUpdate struct {
	IncidentDate   *entity.Date
	DiscoveredDate *entity.Date
	ReportedDate   *entity.Date
	ResolvedDate   *entity.Date

	BreachType      *string
	RootCause       *string
	Severity        *entity.Severity
	AffectedRecords *int
	DataTypes       *[]string
	BusinessUnit    *string

	Description            *string
	RemediationActions     *string
	RemediationActionsList *[]string
	LessonsLearned         *string
	PreventiveMeasures     *string
	Improvements           *string
	FollowUpActions        *[]string
	DetectionMethod        *string
	ImmediateActions       *string

	PDPCNotificationRequired *bool
	PDPCStatus               *entity.NotificationStatus
	PDPCReviewPerson         *string
	PDPCNotified             *bool
	PDPCNotifiedDate         *entity.Date
	PDPCNotifiedPerson       *string
	DPOGuidanceIssued        *bool
	DPONotifiedDate          *entity.Date
	DPONotifiedPerson        *string

	Status    *entity.Status
	CreatedBy *string

	Attachments       *[]entity.Attachment
	Timeline          *[]entity.Entry
	Activities        *[]entity.Entry
	Notes             *[]entity.Entry
	ComplianceHistory *[]entity.Entry
}

func (u *IncidentUpdate) touchesCompliance() bool {
	return u.PDPCNotificationRequired != nil || u.PDPCStatus != nil || u.PDPCReviewPerson != nil ||
		u.PDPCNotified != nil || u.PDPCNotifiedDate != nil || u.PDPCNotifiedPerson != nil ||
		u.DPOGuidanceIssued != nil || u.DPONotifiedDate != nil || u.DPONotifiedPerson != nil
}

// changeSet collects "field: old -> new" lines while an update is applied.
type changeSet struct {
	lines []string
}

func (c *changeSet) add(field, oldValue, newValue string) {
	c.lines = append(c.lines, fmt.Sprintf("%s: %s -> %s", field, oldValue, newValue))
}

func (c *changeSet) empty() bool {
	return len(c.lines) == 0
}

func (c *changeSet) String() string {
	return strings.Join(c.lines, " | ")
}

func showString[T ~string](v T) string { return string(v) }
func showDate(v entity.Date) string    { return v.String() }
func showBool(v bool) string           { return strconv.FormatBool(v) }
func showInt(v int) string             { return strconv.Itoa(v) }

func showItems[T any](v []T) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("[%d items]", len(v))
}

// setScalar compares by value.
func setScalar[T comparable](c *changeSet, field string, dst *T, upd *T, show func(T) string) {
	if upd == nil {
		return
	}
	if *dst != *upd {
		c.add(field, show(*dst), show(*upd))
	}
	*dst = *upd
}

// setList compares element by element; nil and empty lists are equal.
func setList[T comparable](c *changeSet, field string, dst *[]T, upd *[]T) {
	if upd == nil {
		return
	}
	if !slices.Equal(*dst, *upd) {
		c.add(field, showItems(*dst), showItems(*upd))
	}
	*dst = slices.Clone(*upd)
}

func (u *IncidentUpdate) apply(i *entity.Incident) *changeSet {
	c := &changeSet{}
	setScalar(c, "incident_date", &i.IncidentDate, u.IncidentDate, showDate)
	setScalar(c, "discovered_date", &i.DiscoveredDate, u.DiscoveredDate, showDate)
	setScalar(c, "reported_date", &i.ReportedDate, u.ReportedDate, showDate)
	setScalar(c, "resolved_date", &i.ResolvedDate, u.ResolvedDate, showDate)

	setScalar(c, "breach_type", &i.BreachType, u.BreachType, showString[string])
	setScalar(c, "root_cause", &i.RootCause, u.RootCause, showString[string])
	setScalar(c, "severity", &i.Severity, u.Severity, showString[entity.Severity])
	setScalar(c, "affected_records", &i.AffectedRecords, u.AffectedRecords, showInt)
	setList(c, "data_types", &i.DataTypes, u.DataTypes)
	setScalar(c, "business_unit", &i.BusinessUnit, u.BusinessUnit, showString[string])

	setScalar(c, "description", &i.Description, u.Description, showString[string])
	setScalar(c, "remediation_actions", &i.RemediationActions, u.RemediationActions, showString[string])
	setList(c, "remediation_actions_list", &i.RemediationActionsList, u.RemediationActionsList)
	setScalar(c, "lessons_learned", &i.LessonsLearned, u.LessonsLearned, showString[string])
	setScalar(c, "preventive_measures", &i.PreventiveMeasures, u.PreventiveMeasures, showString[string])
	setScalar(c, "improvements", &i.Improvements, u.Improvements, showString[string])
	setList(c, "follow_up_actions", &i.FollowUpActions, u.FollowUpActions)
	setScalar(c, "detection_method", &i.DetectionMethod, u.DetectionMethod, showString[string])
	setScalar(c, "immediate_actions", &i.ImmediateActions, u.ImmediateActions, showString[string])

	setScalar(c, "pdpc_notification_required", &i.PDPCNotificationRequired, u.PDPCNotificationRequired, showBool)
	setScalar(c, "pdpc_status", &i.PDPCStatus, u.PDPCStatus, showString[entity.NotificationStatus])
	setScalar(c, "pdpc_review_person", &i.PDPCReviewPerson, u.PDPCReviewPerson, showString[string])
	setScalar(c, "pdpc_notified", &i.PDPCNotified, u.PDPCNotified, showBool)
	setScalar(c, "pdpc_notified_date", &i.PDPCNotifiedDate, u.PDPCNotifiedDate, showDate)
	setScalar(c, "pdpc_notified_person", &i.PDPCNotifiedPerson, u.PDPCNotifiedPerson, showString[string])
	setScalar(c, "dpo_guidance_issued", &i.DPOGuidanceIssued, u.DPOGuidanceIssued, showBool)
	setScalar(c, "dpo_notified_date", &i.DPONotifiedDate, u.DPONotifiedDate, showDate)
	setScalar(c, "dpo_notified_person", &i.DPONotifiedPerson, u.DPONotifiedPerson, showString[string])

	setScalar(c, "status", &i.Status, u.Status, showString[entity.Status])
	setScalar(c, "created_by", &i.CreatedBy, u.CreatedBy, showString[string])

	setList(c, "attachments", &i.Attachments, u.Attachments)
	setList(c, "timeline", &i.Timeline, u.Timeline)
	setList(c, "activities", &i.Activities, u.Activities)
	setList(c, "notes", &i.Notes, u.Notes)
	setList(c, "compliance_history", &i.ComplianceHistory, u.ComplianceHistory)
	return c
}

// ComplianceUpdate is the compliance panel edit: notification decision and
// who was told.
type ComplianceUpdate struct {
	Status           entity.NotificationStatus
	ReviewPerson     string
	PDPCNotified     bool
	PDPCNotifiedDate entity.Date
	PDPCPerson       string
	DPONotified      bool
	DPONotifiedDate  entity.Date
	DPOPerson        string
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func withPerson(person string) string {
	if person == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", person)
}

// summary is the compliance_history line for this change.
func (u ComplianceUpdate) summary() string {
	return fmt.Sprintf("%s | PDPC Notified: %s%s | DPO Notified: %s%s",
		u.Status, yesNo(u.PDPCNotified), withPerson(u.PDPCPerson),
		yesNo(u.DPONotified), withPerson(u.DPOPerson))
}

// Resolution closes an incident. All three texts are required.
type Resolution struct {
	LessonsLearned     string `validate:"required"`
	PreventiveMeasures string `validate:"required"`
	Improvements       string `validate:"required"`
}

func ptr[T any](v T) *T {
	return &v
}

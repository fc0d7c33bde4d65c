package entity

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

type Incident struct {
	ID         string `json:"id" validate:"required"`
	IncidentID string `json:"incident_id" validate:"required"`

	IncidentDate   Date `json:"incident_date" validate:"calendar_date"`
	DiscoveredDate Date `json:"discovered_date" validate:"calendar_date"`
	ReportedDate   Date `json:"reported_date" validate:"calendar_date"`
	ResolvedDate   Date `json:"resolved_date" validate:"calendar_date"`

	BreachType      string   `json:"breach_type"`
	RootCause       string   `json:"root_cause"`
	Severity        Severity `json:"severity" validate:"required,oneof=CRITICAL HIGH MEDIUM LOW"`
	AffectedRecords int      `json:"affected_records" validate:"gte=0"`
	DataTypes       []string `json:"data_types"`
	BusinessUnit    string   `json:"business_unit"`

	Description            string   `json:"description"`
	RemediationActions     string   `json:"remediation_actions"`
	RemediationActionsList []string `json:"remediation_actions_list"`
	LessonsLearned         string   `json:"lessons_learned"`
	PreventiveMeasures     string   `json:"preventive_measures"`
	Improvements           string   `json:"improvements"`
	FollowUpActions        []string `json:"follow_up_actions"`
	DetectionMethod        string   `json:"detection_method"`
	ImmediateActions       string   `json:"immediate_actions"`

	// Compliance rules are only enforced when compliance fields are edited,
	// so legacy records without contacts stay editable.
	Compliance `validate:"-"`

	Status            Status `json:"status" validate:"required,oneof=DRAFT DETECTED INVESTIGATING CONTAINED RESOLVED"`
	ResponseTimeHours *int   `json:"response_time_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`

	Attachments       []Attachment `json:"attachments"`
	Timeline          []Entry      `json:"timeline"`
	Activities        []Entry      `json:"activities"`
	Notes             []Entry      `json:"notes"`
	History           []Entry      `json:"history"`
	ComplianceHistory []Entry      `json:"compliance_history"`
}

type Compliance struct {
	PDPCNotificationRequired bool               `json:"pdpc_notification_required"`
	PDPCStatus               NotificationStatus `json:"pdpc_status" validate:"omitempty,oneof=YES NO UNDER_REVIEW"`
	PDPCReviewPerson         string             `json:"pdpc_review_person" validate:"required_if=PDPCStatus UNDER_REVIEW"`
	PDPCNotified             bool               `json:"pdpc_notified"`
	PDPCNotifiedDate         Date               `json:"pdpc_notified_date" validate:"calendar_date"`
	PDPCNotifiedPerson       string             `json:"pdpc_notified_person" validate:"required_if=PDPCNotified true"`
	DPOGuidanceIssued        bool               `json:"dpo_guidance_issued"`
	DPONotifiedDate          Date               `json:"dpo_notified_date" validate:"calendar_date"`
	DPONotifiedPerson        string             `json:"dpo_notified_person" validate:"required_if=DPOGuidanceIssued true"`
}

// Entry is a dated line in one of the audit collections.
type Entry struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Person string `json:"person,omitempty"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// UnmarshalJSON also accepts a bare string, which older snapshots use for
// attachments: the string becomes the name, and the URL when it is a link.
func (a *Attachment) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		a.Name = s
		a.URL = ""
		if strings.HasPrefix(s, "http") {
			a.URL = s
		}
		return nil
	}
	type plain Attachment
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = "Attachment"
	}
	*a = Attachment(p)
	return nil
}

// PDPCRisk reports whether a regulatory notification is still outstanding.
func (i *Incident) PDPCRisk() bool {
	needs := i.PDPCNotificationRequired || i.PDPCStatus == NotificationUnderReview
	return needs && (!i.PDPCNotified || !i.DPOGuidanceIssued)
}

func (i *Incident) IsOpen() bool {
	return i.Status != StatusResolved
}

// TextBlob joins the narrative fields into one lowercase string for keyword
// matching.
func (i *Incident) TextBlob() string {
	return strings.ToLower(strings.Join([]string{
		i.Description,
		i.RemediationActions,
		i.ImmediateActions,
		i.LessonsLearned,
		i.PreventiveMeasures,
		i.Improvements,
		strings.Join(i.FollowUpActions, " "),
	}, " "))
}

func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	c := *i
	c.DataTypes = slices.Clone(i.DataTypes)
	c.RemediationActionsList = slices.Clone(i.RemediationActionsList)
	c.FollowUpActions = slices.Clone(i.FollowUpActions)
	c.Attachments = slices.Clone(i.Attachments)
	c.Timeline = slices.Clone(i.Timeline)
	c.Activities = slices.Clone(i.Activities)
	c.Notes = slices.Clone(i.Notes)
	c.History = slices.Clone(i.History)
	c.ComplianceHistory = slices.Clone(i.ComplianceHistory)
	if i.ResponseTimeHours != nil {
		h := *i.ResponseTimeHours
		c.ResponseTimeHours = &h
	}
	return &c
}

// IncidentInput is the caller-supplied payload for a new incident or draft.
// Identity, timestamps and response time are always assigned by the
// repository.
type IncidentInput struct {
	IncidentDate   Date
	DiscoveredDate Date
	ReportedDate   Date
	ResolvedDate   Date

	BreachType      string
	RootCause       string
	Severity        Severity
	AffectedRecords int
	DataTypes       []string
	BusinessUnit    string

	Description            string
	RemediationActions     string
	RemediationActionsList []string
	LessonsLearned         string
	PreventiveMeasures     string
	Improvements           string
	FollowUpActions        []string
	DetectionMethod        string
	ImmediateActions       string

	Compliance

	Status    Status
	CreatedBy string

	Attachments       []Attachment
	Timeline          []Entry
	Activities        []Entry
	Notes             []Entry
	History           []Entry
	ComplianceHistory []Entry
}

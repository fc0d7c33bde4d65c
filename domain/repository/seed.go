package repository

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pyama86/breachtracker/domain/entity"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedEntry struct {
	Date string `yaml:"date"`
	Text string `yaml:"text"`
}

type seedIncident struct {
	IncidentID               string      `yaml:"incident_id"`
	IncidentDate             string      `yaml:"incident_date"`
	DiscoveredDate           string      `yaml:"discovered_date"`
	ReportedDate             string      `yaml:"reported_date"`
	ResolvedDate             string      `yaml:"resolved_date"`
	BreachType               string      `yaml:"breach_type"`
	Severity                 string      `yaml:"severity"`
	RootCause                string      `yaml:"root_cause"`
	AffectedRecords          int         `yaml:"affected_records"`
	DataTypes                []string    `yaml:"data_types"`
	BusinessUnit             string      `yaml:"business_unit"`
	Status                   string      `yaml:"status"`
	Description              string      `yaml:"description"`
	RemediationActions       string      `yaml:"remediation_actions"`
	LessonsLearned           string      `yaml:"lessons_learned"`
	PDPCNotificationRequired bool        `yaml:"pdpc_notification_required"`
	PDPCNotified             bool        `yaml:"pdpc_notified"`
	PDPCNotifiedDate         string      `yaml:"pdpc_notified_date"`
	PDPCNotifiedPerson       string      `yaml:"pdpc_notified_person"`
	DPOGuidanceIssued        bool        `yaml:"dpo_guidance_issued"`
	DPONotifiedPerson        string      `yaml:"dpo_notified_person"`
	CreatedBy                string      `yaml:"created_by"`
	Attachments              []string    `yaml:"attachments"`
	Timeline                 []seedEntry `yaml:"timeline"`
	Activities               []seedEntry `yaml:"activities"`
	Notes                    []seedEntry `yaml:"notes"`
}

func entries(src []seedEntry) []entity.Entry {
	out := make([]entity.Entry, 0, len(src))
	for _, e := range src {
		out = append(out, entity.Entry{Date: e.Date, Text: e.Text})
	}
	return out
}

func (s seedIncident) toIncident(now time.Time) entity.Incident {
	status := entity.NotificationNo
	if s.PDPCNotificationRequired {
		status = entity.NotificationYes
	}
	attachments := make([]entity.Attachment, 0, len(s.Attachments))
	for _, a := range s.Attachments {
		attachments = append(attachments, entity.Attachment{Name: a})
	}
	var remediation []string
	if s.RemediationActions != "" {
		remediation = []string{s.RemediationActions}
	}
	return entity.Incident{
		ID:                     uuid.NewString(),
		IncidentID:             s.IncidentID,
		IncidentDate:           entity.Date(s.IncidentDate),
		DiscoveredDate:         entity.Date(s.DiscoveredDate),
		ReportedDate:           entity.Date(s.ReportedDate),
		ResolvedDate:           entity.Date(s.ResolvedDate),
		BreachType:             s.BreachType,
		RootCause:              s.RootCause,
		Severity:               entity.Severity(s.Severity),
		AffectedRecords:        s.AffectedRecords,
		DataTypes:              s.DataTypes,
		BusinessUnit:           s.BusinessUnit,
		Description:            s.Description,
		RemediationActions:     s.RemediationActions,
		RemediationActionsList: remediation,
		LessonsLearned:         s.LessonsLearned,
		FollowUpActions:        []string{},
		Compliance: entity.Compliance{
			PDPCNotificationRequired: s.PDPCNotificationRequired,
			PDPCStatus:               status,
			PDPCNotified:             s.PDPCNotified,
			PDPCNotifiedDate:         entity.Date(s.PDPCNotifiedDate),
			PDPCNotifiedPerson:       s.PDPCNotifiedPerson,
			DPOGuidanceIssued:        s.DPOGuidanceIssued,
			DPONotifiedPerson:        s.DPONotifiedPerson,
		},
		Status:            entity.Status(s.Status),
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         s.CreatedBy,
		Attachments:       attachments,
		Timeline:          entries(s.Timeline),
		Activities:        entries(s.Activities),
		Notes:             entries(s.Notes),
		History:           []entity.Entry{},
		ComplianceHistory: []entity.Entry{},
	}
}

// SeedIncidents decodes the embedded demonstration dataset. Each call mints
// fresh internal ids.
func SeedIncidents(now time.Time) ([]entity.Incident, error) {
	var seeds []seedIncident
	if err := yaml.Unmarshal(seedYAML, &seeds); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	incidents := make([]entity.Incident, 0, len(seeds))
	for _, s := range seeds {
		incidents = append(incidents, s.toIncident(now))
	}
	return incidents, nil
}

package repository

import (
	"context"

	"github.com/pyama86/breachtracker/domain/entity"
)

// SnapshotRepository persists the full state as one unit.
type SnapshotRepository interface {
	Load(context.Context) (*entity.Snapshot, error)
	Save(context.Context, *entity.Snapshot) error
	Clear(context.Context) error
}

// IncidentReader is the read side handed to rendering collaborators. Every
// method returns copies.
type IncidentReader interface {
	ListIncidents() []entity.Incident
	FilterIncidents() []entity.Incident
	ListDrafts() []entity.Incident
	ListUnits() []string
	GetIncident(id string) *entity.Incident
	GetDraft(id string) *entity.Incident
	FindByCode(code string) *entity.Incident
	FindDraftByCode(code string) *entity.Incident
	Filters() entity.Filters
	NextIncidentID() string
}

type IncidentWriter interface {
	AddIncident(ctx context.Context, input entity.IncidentInput, isDraft bool) (*entity.Incident, error)
	PromoteDraft(ctx context.Context, id string) (*entity.Incident, error)
	DiscardDraft(ctx context.Context, id string) error
	UpdateIncident(ctx context.Context, id string, update IncidentUpdate) error
	AddNote(ctx context.Context, id, text string) error
	AddActivity(ctx context.Context, id, text string) error
	AddTimelineEntry(ctx context.Context, id string, entry entity.Entry) error
	AddRemediationAction(ctx context.Context, id, text string) error
	AddFollowUpAction(ctx context.Context, id, text string) error
	AddAttachment(ctx context.Context, id string, attachment entity.Attachment) error
	UpdateCompliance(ctx context.Context, id string, update ComplianceUpdate) error
	ResolveIncident(ctx context.Context, id string, resolution Resolution) error
	SetFilters(ctx context.Context, filters entity.Filters) error
	AddBusinessUnit(ctx context.Context, name string) error
	RenameBusinessUnit(ctx context.Context, oldName, newName string) error
	RemoveBusinessUnit(ctx context.Context, name string) error
	Reset(ctx context.Context) error
}

type Repository interface {
	IncidentReader
	IncidentWriter
}

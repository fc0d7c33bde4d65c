package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
)

const (
	DefaultCodePrefix = "INC-2025"
	DefaultAuthor     = "DPO Desk"
)

// errUnchanged aborts a mutation without persisting it.
var errUnchanged = errors.New("unchanged")

// IncidentRepository owns the incident state. All mutations are serialized,
// applied to a copy of the state and swapped in only after the snapshot has
// been saved.
type IncidentRepository struct {
	mu       sync.RWMutex
	store    SnapshotRepository
	state    *entity.Snapshot
	validate *validator.Validate

	now            func() time.Time
	codePrefix     string
	canonicalUnits []string
	defaultAuthor  string
}

type Option func(*IncidentRepository)

func WithClock(now func() time.Time) Option {
	return func(r *IncidentRepository) { r.now = now }
}

func WithCodePrefix(prefix string) Option {
	return func(r *IncidentRepository) { r.codePrefix = prefix }
}

func WithCanonicalUnits(units []string) Option {
	return func(r *IncidentRepository) { r.canonicalUnits = slices.Clone(units) }
}

func WithDefaultAuthor(author string) Option {
	return func(r *IncidentRepository) { r.defaultAuthor = author }
}

// NewIncidentRepository loads the persisted snapshot. A missing or corrupt
// snapshot is replaced by the seed dataset; corruption is logged, never
// returned.
func NewIncidentRepository(ctx context.Context, store SnapshotRepository, opts ...Option) (*IncidentRepository, error) {
	r := &IncidentRepository{
		store:          store,
		validate:       newValidator(),
		now:            time.Now,
		codePrefix:     DefaultCodePrefix,
		canonicalUnits: slices.Clone(entity.CanonicalBusinessUnits),
		defaultAuthor:  DefaultAuthor,
	}
	for _, opt := range opts {
		opt(r)
	}

	snapshot, err := store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSnapshotNotFound):
		slog.Info("no saved state, using seed data")
	case errors.Is(err, ErrSnapshotCorrupt):
		slog.Warn("corrupt saved state, resetting", slog.Any("error", err))
		if err := store.Clear(ctx); err != nil {
			slog.Warn("failed to clear corrupt state", slog.Any("error", err))
		}
		snapshot = nil
	default:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if snapshot != nil {
		snapshot = r.ensureShape(snapshot)
	}
	if snapshot == nil || len(snapshot.Incidents) == 0 {
		if snapshot, err = r.defaultState(); err != nil {
			return nil, err
		}
	}
	today := r.today()
	for n := range snapshot.Incidents {
		withResponseTime(&snapshot.Incidents[n], today)
	}
	if err := store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	r.state = snapshot
	return r, nil
}

func (r *IncidentRepository) ensureShape(s *entity.Snapshot) *entity.Snapshot {
	if s.Incidents == nil {
		s.Incidents = []entity.Incident{}
	}
	if s.Drafts == nil {
		s.Drafts = []entity.Incident{}
	}
	if len(s.BusinessUnits) == 0 {
		s.BusinessUnits = slices.Clone(r.canonicalUnits)
	}
	if s.Filters == nil {
		f := entity.DefaultFilters()
		s.Filters = &f
	} else {
		f := s.Filters.Normalize()
		s.Filters = &f
	}
	return s
}

func (r *IncidentRepository) defaultState() (*entity.Snapshot, error) {
	now := r.now()
	seed, err := SeedIncidents(now)
	if err != nil {
		return nil, err
	}
	f := entity.DefaultFilters()
	return &entity.Snapshot{
		Incidents:     seed,
		Drafts:        []entity.Incident{},
		BusinessUnits: slices.Clone(r.canonicalUnits),
		Filters:       &f,
		UpdatedAt:     now,
	}, nil
}

func (r *IncidentRepository) today() entity.Date {
	return entity.Today(r.now())
}

// withResponseTime derives response time from discovery to resolution. An
// open incident is measured up to today, so it is never null while the
// discovered date is known.
func withResponseTime(i *entity.Incident, today entity.Date) {
	end := i.ResolvedDate
	if end.IsZero() {
		end = today
	}
	if h, ok := entity.HoursBetween(i.DiscoveredDate, end); ok {
		i.ResponseTimeHours = &h
		return
	}
	i.ResponseTimeHours = nil
}

// mutate runs fn against a copy of the state and commits it once saved.
func (r *IncidentRepository) mutate(ctx context.Context, fn func(s *entity.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.state.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	next.UpdatedAt = r.now()
	if err := r.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	r.state = next
	return nil
}

func (r *IncidentRepository) LastModified() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.UpdatedAt
}

// nextCode numbers incidents by the current incident+draft count. A discard
// followed by an add can therefore reuse a code.
func (r *IncidentRepository) nextCode(s *entity.Snapshot) string {
	return fmt.Sprintf("%s-%03d", r.codePrefix, len(s.Incidents)+len(s.Drafts)+1)
}

func (r *IncidentRepository) NextIncidentID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextCode(r.state)
}

func (r *IncidentRepository) checkIncident(i *entity.Incident, compliance bool) error {
	if err := r.validate.Struct(i); err != nil {
		return toValidationError(err)
	}
	if compliance {
		if err := r.validate.Struct(i.Compliance); err != nil {
			return toValidationError(err)
		}
	}
	return nil
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return slices.Clone(v)
}

func (r *IncidentRepository) AddIncident(ctx context.Context, in entity.IncidentInput, isDraft bool) (*entity.Incident, error) {
	var created *entity.Incident
	err := r.mutate(ctx, func(s *entity.Snapshot) error {
		now := r.now()
		inc := entity.Incident{
			ID:                     uuid.NewString(),
			IncidentID:             r.nextCode(s),
			IncidentDate:           in.IncidentDate,
			DiscoveredDate:         in.DiscoveredDate,
			ReportedDate:           in.ReportedDate,
			ResolvedDate:           in.ResolvedDate,
			BreachType:             in.BreachType,
			RootCause:              in.RootCause,
			Severity:               in.Severity,
			AffectedRecords:        in.AffectedRecords,
			DataTypes:              orEmpty(in.DataTypes),
			BusinessUnit:           in.BusinessUnit,
			Description:            in.Description,
			RemediationActions:     in.RemediationActions,
			RemediationActionsList: orEmpty(in.RemediationActionsList),
			LessonsLearned:         in.LessonsLearned,
			PreventiveMeasures:     in.PreventiveMeasures,
			Improvements:           in.Improvements,
			FollowUpActions:        orEmpty(in.FollowUpActions),
			DetectionMethod:        in.DetectionMethod,
			ImmediateActions:       in.ImmediateActions,
			Compliance:             in.Compliance,
			Status:                 in.Status,
			CreatedAt:              now,
			UpdatedAt:              now,
			CreatedBy:              in.CreatedBy,
			Attachments:            orEmpty(in.Attachments),
			Timeline:               orEmpty(in.Timeline),
			Activities:             orEmpty(in.Activities),
			Notes:                  orEmpty(in.Notes),
			History:                orEmpty(in.History),
			ComplianceHistory:      orEmpty(in.ComplianceHistory),
		}
		if inc.Severity == "" {
			inc.Severity = classification.SeverityFromInputs(inc.AffectedRecords, inc.DataTypes)
		}
		switch {
		case isDraft:
			inc.Status = entity.StatusDraft
		case inc.Status == "":
			inc.Status = entity.StatusInvestigating
		}
		if in.RemediationActionsList == nil && in.RemediationActions != "" {
			inc.RemediationActionsList = []string{in.RemediationActions}
		}
		if inc.PDPCStatus == "" {
			inc.PDPCStatus = entity.NotificationNo
			if inc.PDPCNotificationRequired {
				inc.PDPCStatus = entity.NotificationYes
			}
		}
		if inc.CreatedBy == "" {
			inc.CreatedBy = r.defaultAuthor
		}
		if err := r.checkIncident(&inc, true); err != nil {
			return err
		}
		withResponseTime(&inc, entity.Today(now))

		if isDraft {
			s.Drafts = append(s.Drafts, inc)
		} else {
			s.Incidents = append([]entity.Incident{inc}, s.Incidents...)
		}
		created = inc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func indexOf(list []entity.Incident, id string) int {
	return slices.IndexFunc(list, func(i entity.Incident) bool { return i.ID == id })
}

// PromoteDraft submits a draft as an investigating incident, keeping its
// identity. It returns nil when no such draft exists.
func (r *IncidentRepository) PromoteDraft(ctx context.Context, id string) (*entity.Incident, error) {
	var promoted *entity.Incident
	err := r.mutate(ctx, func(s *entity.Snapshot) error {
		n := indexOf(s.Drafts, id)
		if n < 0 {
			return errUnchanged
		}
		inc := s.Drafts[n]
		inc.Status = entity.StatusInvestigating
		inc.UpdatedAt = r.now()
		withResponseTime(&inc, r.today())
		s.Drafts = slices.Delete(s.Drafts, n, n+1)
		s.Incidents = append([]entity.Incident{inc}, s.Incidents...)
		promoted = inc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

func (r *IncidentRepository) DiscardDraft(ctx context.Context, id string) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		n := indexOf(s.Drafts, id)
		if n < 0 {
			return errUnchanged
		}
		s.Drafts = slices.Delete(s.Drafts, n, n+1)
		return nil
	})
}

// UpdateIncident applies update and records one history entry listing every
// field whose value changed. Response time and updated_at are refreshed even
// when nothing changed. An unknown id is a no-op.
func (r *IncidentRepository) UpdateIncident(ctx context.Context, id string, update IncidentUpdate) error {
	return r.updateWith(ctx, id, func(*entity.Incident) (IncidentUpdate, error) {
		return update, nil
	})
}

// updateWith builds the update from the current incident inside the write
// lock, so appends never race with another writer.
func (r *IncidentRepository) updateWith(ctx context.Context, id string, build func(cur *entity.Incident) (IncidentUpdate, error)) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		n := indexOf(s.Incidents, id)
		if n < 0 {
			return errUnchanged
		}
		inc := &s.Incidents[n]
		update, err := build(inc)
		if err != nil {
			return err
		}
		if update.Status != nil && *update.Status == entity.StatusDraft {
			return &ValidationError{Fields: []string{"Status (not a draft)"}}
		}
		changes := update.apply(inc)
		if err := r.checkIncident(inc, update.touchesCompliance()); err != nil {
			return err
		}
		now := r.now()
		if !changes.empty() {
			inc.History = append(inc.History, entity.Entry{
				Date: now.UTC().Format(time.RFC3339),
				Text: changes.String(),
			})
		}
		withResponseTime(inc, entity.Today(now))
		inc.UpdatedAt = now
		return nil
	})
}

func (r *IncidentRepository) appendEntry(ctx context.Context, id string, pick func(*entity.Incident) *[]entity.Entry, text string) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		n := indexOf(s.Incidents, id)
		if n < 0 {
			return errUnchanged
		}
		inc := &s.Incidents[n]
		list := pick(inc)
		*list = append(*list, entity.Entry{Date: string(r.today()), Text: text})
		inc.UpdatedAt = r.now()
		return nil
	})
}

func (r *IncidentRepository) AddNote(ctx context.Context, id, text string) error {
	return r.appendEntry(ctx, id, func(i *entity.Incident) *[]entity.Entry { return &i.Notes }, text)
}

func (r *IncidentRepository) AddActivity(ctx context.Context, id, text string) error {
	return r.appendEntry(ctx, id, func(i *entity.Incident) *[]entity.Entry { return &i.Activities }, text)
}

func (r *IncidentRepository) AddTimelineEntry(ctx context.Context, id string, entry entity.Entry) error {
	return r.updateWith(ctx, id, func(cur *entity.Incident) (IncidentUpdate, error) {
		if entry.Date == "" {
			entry.Date = string(r.today())
		}
		return IncidentUpdate{Timeline: ptr(append(slices.Clone(cur.Timeline), entry))}, nil
	})
}

func (r *IncidentRepository) AddRemediationAction(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return r.updateWith(ctx, id, func(cur *entity.Incident) (IncidentUpdate, error) {
		return IncidentUpdate{RemediationActionsList: ptr(append(slices.Clone(cur.RemediationActionsList), text))}, nil
	})
}

func (r *IncidentRepository) AddFollowUpAction(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return r.updateWith(ctx, id, func(cur *entity.Incident) (IncidentUpdate, error) {
		return IncidentUpdate{FollowUpActions: ptr(append(slices.Clone(cur.FollowUpActions), text))}, nil
	})
}

func (r *IncidentRepository) AddAttachment(ctx context.Context, id string, a entity.Attachment) error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Fields: []string{"Name (required)"}}
	}
	return r.updateWith(ctx, id, func(cur *entity.Incident) (IncidentUpdate, error) {
		return IncidentUpdate{Attachments: ptr(append(slices.Clone(cur.Attachments), a))}, nil
	})
}

// UpdateCompliance records a notification decision and appends a line to
// the compliance history.
func (r *IncidentRepository) UpdateCompliance(ctx context.Context, id string, u ComplianceUpdate) error {
	return r.updateWith(ctx, id, func(cur *entity.Incident) (IncidentUpdate, error) {
		u := u
		u.ReviewPerson = strings.TrimSpace(u.ReviewPerson)
		// A blank decision keeps the stored one, and its reviewer.
		if u.Status == "" {
			u.Status = cur.PDPCStatus
			if u.ReviewPerson == "" {
				u.ReviewPerson = cur.PDPCReviewPerson
			}
		}
		update := IncidentUpdate{
			PDPCStatus:         ptr(u.Status),
			PDPCReviewPerson:   ptr(u.ReviewPerson),
			PDPCNotified:       ptr(u.PDPCNotified),
			PDPCNotifiedPerson: ptr(strings.TrimSpace(u.PDPCPerson)),
			DPOGuidanceIssued:  ptr(u.DPONotified),
			DPONotifiedPerson:  ptr(strings.TrimSpace(u.DPOPerson)),
			ComplianceHistory: ptr(append(slices.Clone(cur.ComplianceHistory), entity.Entry{
				Date: string(r.today()),
				Text: u.summary(),
			})),
		}
		if !u.PDPCNotifiedDate.IsZero() {
			update.PDPCNotifiedDate = ptr(u.PDPCNotifiedDate)
		}
		if !u.DPONotifiedDate.IsZero() {
			update.DPONotifiedDate = ptr(u.DPONotifiedDate)
		}
		return update, nil
	})
}

// ResolveIncident closes an incident as of today. The incident stays
// editable afterwards.
func (r *IncidentRepository) ResolveIncident(ctx context.Context, id string, res Resolution) error {
	res.LessonsLearned = strings.TrimSpace(res.LessonsLearned)
	res.PreventiveMeasures = strings.TrimSpace(res.PreventiveMeasures)
	res.Improvements = strings.TrimSpace(res.Improvements)
	if err := r.validate.Struct(res); err != nil {
		return toValidationError(err)
	}
	return r.updateWith(ctx, id, func(*entity.Incident) (IncidentUpdate, error) {
		return IncidentUpdate{
			Status:             ptr(entity.StatusResolved),
			ResolvedDate:       ptr(r.today()),
			LessonsLearned:     ptr(res.LessonsLearned),
			PreventiveMeasures: ptr(res.PreventiveMeasures),
			Improvements:       ptr(res.Improvements),
		}, nil
	})
}

func (r *IncidentRepository) SetFilters(ctx context.Context, f entity.Filters) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		f = f.Normalize()
		s.Filters = &f
		return nil
	})
}

func (r *IncidentRepository) Filters() entity.Filters {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *r.state.Filters
}

func (r *IncidentRepository) Reset(ctx context.Context) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		d, err := r.defaultState()
		if err != nil {
			return err
		}
		today := r.today()
		for n := range d.Incidents {
			withResponseTime(&d.Incidents[n], today)
		}
		*s = *d
		return nil
	})
}

func cloneAll(list []entity.Incident) []entity.Incident {
	out := make([]entity.Incident, 0, len(list))
	for n := range list {
		out = append(out, *list[n].Clone())
	}
	return out
}

func byDiscoveredDesc(a, b entity.Incident) int {
	return cmp.Compare(b.DiscoveredDate, a.DiscoveredDate)
}

// ListIncidents orders incidents with an outstanding PDPC notification
// first, newest discovery first within each group.
func (r *IncidentRepository) ListIncidents() []entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listIncidents()
}

func (r *IncidentRepository) listIncidents() []entity.Incident {
	list := cloneAll(r.state.Incidents)
	slices.SortStableFunc(list, func(a, b entity.Incident) int {
		ra, rb := a.PDPCRisk(), b.PDPCRisk()
		if ra != rb {
			if ra {
				return -1
			}
			return 1
		}
		return byDiscoveredDesc(a, b)
	})
	return list
}

func (r *IncidentRepository) FilterIncidents() []entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f := *r.state.Filters
	var out []entity.Incident
	for _, inc := range r.listIncidents() {
		if f.Match(&inc) {
			out = append(out, inc)
		}
	}
	return out
}

func (r *IncidentRepository) ListDrafts() []entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := cloneAll(r.state.Drafts)
	slices.SortStableFunc(list, byDiscoveredDesc)
	return list
}

func (r *IncidentRepository) GetIncident(id string) *entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n := indexOf(r.state.Incidents, id); n >= 0 {
		return r.state.Incidents[n].Clone()
	}
	return nil
}

func (r *IncidentRepository) GetDraft(id string) *entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n := indexOf(r.state.Drafts, id); n >= 0 {
		return r.state.Drafts[n].Clone()
	}
	return nil
}

// FindDraftByCode looks up drafts only.
func (r *IncidentRepository) FindDraftByCode(code string) *entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	match := func(i entity.Incident) bool { return strings.EqualFold(i.IncidentID, code) }
	if n := slices.IndexFunc(r.state.Drafts, match); n >= 0 {
		return r.state.Drafts[n].Clone()
	}
	return nil
}

// FindByCode looks up incidents first, then drafts.
func (r *IncidentRepository) FindByCode(code string) *entity.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	match := func(i entity.Incident) bool { return strings.EqualFold(i.IncidentID, code) }
	if n := slices.IndexFunc(r.state.Incidents, match); n >= 0 {
		return r.state.Incidents[n].Clone()
	}
	if n := slices.IndexFunc(r.state.Drafts, match); n >= 0 {
		return r.state.Drafts[n].Clone()
	}
	return nil
}

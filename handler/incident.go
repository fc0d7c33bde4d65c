package handler

import (
	"fmt"

	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/domain/repository"
	"github.com/pyama86/breachtracker/presentation/report"
)

// List prints incidents, filtered by the stored filters when filtered is
// set.
func (h *Handler) List(filtered bool) error {
	if filtered {
		f := h.repository.Filters()
		h.printf("Filters: severity=%s unit=%s status=%s search=%q\n", f.Severity, f.Unit, f.Status, f.Search)
		return report.Incidents(h.out, h.repository.FilterIncidents())
	}
	return report.Incidents(h.out, h.repository.ListIncidents())
}

func (h *Handler) Drafts() error {
	return report.Incidents(h.out, h.repository.ListDrafts())
}

func (h *Handler) Show(ref string) error {
	i, err := h.lookup(ref)
	if err != nil {
		return err
	}
	h.printf("%s", report.Incident(i, h.classifier.DeriveTags(i), h.classifier.Classify(i)))
	return nil
}

func (h *Handler) NextID() error {
	h.printf("%s\n", h.repository.NextIncidentID())
	return nil
}

func (h *Handler) Add(input entity.IncidentInput, draft bool) error {
	i, err := h.repository.AddIncident(h.ctx, input, draft)
	if err != nil {
		return fmt.Errorf("add incident: %w", err)
	}
	kind := "incident"
	if draft {
		kind = "draft"
	}
	h.printf("Created %s %s (%s, %s)\n", kind, i.IncidentID, i.Severity, i.Status)
	return nil
}

func (h *Handler) Promote(ref string) error {
	d, err := h.lookupDraft(ref)
	if err != nil {
		return err
	}
	i, err := h.repository.PromoteDraft(h.ctx, d.ID)
	if err != nil {
		return fmt.Errorf("promote draft: %w", err)
	}
	if i == nil {
		return fmt.Errorf("%w: %s is not a draft", ErrIncidentNotFound, d.IncidentID)
	}
	h.printf("Submitted %s\n", i.IncidentID)
	return nil
}

func (h *Handler) Discard(ref string) error {
	d, err := h.lookupDraft(ref)
	if err != nil {
		return err
	}
	if d.Status != entity.StatusDraft {
		return fmt.Errorf("%w: %s is not a draft", ErrIncidentNotFound, d.IncidentID)
	}
	if err := h.repository.DiscardDraft(h.ctx, d.ID); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	h.printf("Discarded %s\n", d.IncidentID)
	return nil
}

func (h *Handler) Update(ref string, update repository.IncidentUpdate) error {
	i, err := h.lookupIncident(ref)
	if err != nil {
		return err
	}
	if err := h.repository.UpdateIncident(h.ctx, i.ID, update); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	h.printf("Updated %s\n", i.IncidentID)
	return nil
}

func (h *Handler) Resolve(ref string, res repository.Resolution) error {
	i, err := h.lookupIncident(ref)
	if err != nil {
		return err
	}
	if err := h.repository.ResolveIncident(h.ctx, i.ID, res); err != nil {
		return fmt.Errorf("resolve incident: %w", err)
	}
	h.printf("Resolved %s\n", i.IncidentID)
	return nil
}

type EntryKind string

const (
	EntryNote        EntryKind = "note"
	EntryActivity    EntryKind = "activity"
	EntryTimeline    EntryKind = "timeline"
	EntryRemediation EntryKind = "remediation"
	EntryFollowUp    EntryKind = "follow-up"
)

// Append adds a dated line of the given kind to an incident.
func (h *Handler) Append(ref string, kind EntryKind, text string) error {
	i, err := h.lookupIncident(ref)
	if err != nil {
		return err
	}
	switch kind {
	case EntryNote:
		err = h.repository.AddNote(h.ctx, i.ID, text)
	case EntryActivity:
		err = h.repository.AddActivity(h.ctx, i.ID, text)
	case EntryTimeline:
		err = h.repository.AddTimelineEntry(h.ctx, i.ID, entity.Entry{Text: text})
	case EntryRemediation:
		err = h.repository.AddRemediationAction(h.ctx, i.ID, text)
	case EntryFollowUp:
		err = h.repository.AddFollowUpAction(h.ctx, i.ID, text)
	default:
		return fmt.Errorf("unknown entry kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("add %s: %w", kind, err)
	}
	h.printf("Added %s to %s\n", kind, i.IncidentID)
	return nil
}

func (h *Handler) Attach(ref string, a entity.Attachment) error {
	i, err := h.lookupIncident(ref)
	if err != nil {
		return err
	}
	if err := h.repository.AddAttachment(h.ctx, i.ID, a); err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	h.printf("Attached %s to %s\n", a.Name, i.IncidentID)
	return nil
}

func (h *Handler) Compliance(ref string, u repository.ComplianceUpdate) error {
	i, err := h.lookupIncident(ref)
	if err != nil {
		return err
	}
	if err := h.repository.UpdateCompliance(h.ctx, i.ID, u); err != nil {
		return fmt.Errorf("update compliance: %w", err)
	}
	h.printf("Updated compliance for %s\n", i.IncidentID)
	return nil
}

func (h *Handler) SetFilters(f entity.Filters) error {
	if err := h.repository.SetFilters(h.ctx, f); err != nil {
		return fmt.Errorf("set filters: %w", err)
	}
	return h.List(true)
}

func (h *Handler) Units() error {
	for _, u := range h.repository.ListUnits() {
		h.printf("%s\n", u)
	}
	return nil
}

func (h *Handler) AddUnit(name string) error {
	if err := h.repository.AddBusinessUnit(h.ctx, name); err != nil {
		return fmt.Errorf("add unit: %w", err)
	}
	return h.Units()
}

func (h *Handler) RenameUnit(oldName, newName string) error {
	if err := h.repository.RenameBusinessUnit(h.ctx, oldName, newName); err != nil {
		return fmt.Errorf("rename unit: %w", err)
	}
	return h.Units()
}

func (h *Handler) RemoveUnit(name string) error {
	if err := h.repository.RemoveBusinessUnit(h.ctx, name); err != nil {
		return fmt.Errorf("remove unit: %w", err)
	}
	return h.Units()
}

func (h *Handler) Reset() error {
	if err := h.repository.Reset(h.ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	h.printf("Restored the demonstration dataset\n")
	return nil
}

package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
)

// ListUnits returns the registry merged with every unit referenced by an
// incident or draft.
func (r *IncidentRepository) ListUnits() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return listUnits(r.state)
}

func listUnits(s *entity.Snapshot) []string {
	used := make([]string, 0, len(s.Incidents)+len(s.Drafts))
	for _, i := range s.Incidents {
		used = append(used, i.BusinessUnit)
	}
	for _, d := range s.Drafts {
		used = append(used, d.BusinessUnit)
	}
	return entity.MergeUnits(s.BusinessUnits, used)
}

// AddBusinessUnit registers a unit. Blank and duplicate names are ignored.
func (r *IncidentRepository) AddBusinessUnit(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		if name == "" || slices.Contains(s.BusinessUnits, name) {
			return errUnchanged
		}
		s.BusinessUnits = append(s.BusinessUnits, name)
		return nil
	})
}

// RenameBusinessUnit renames a unit everywhere it is referenced.
func (r *IncidentRepository) RenameBusinessUnit(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		if newName == "" || oldName == newName || !slices.Contains(listUnits(s), oldName) {
			return errUnchanged
		}
		if n := slices.Index(s.BusinessUnits, oldName); n >= 0 {
			s.BusinessUnits[n] = newName
		} else {
			s.BusinessUnits = append(s.BusinessUnits, newName)
		}
		s.BusinessUnits = entity.MergeUnits(s.BusinessUnits)

		now := r.now()
		for _, list := range [][]entity.Incident{s.Incidents, s.Drafts} {
			for n := range list {
				if list[n].BusinessUnit == oldName {
					list[n].BusinessUnit = newName
					list[n].UpdatedAt = now
				}
			}
		}
		if s.Filters.Unit == oldName {
			s.Filters.Unit = newName
		}
		return nil
	})
}

// RemoveBusinessUnit drops a unit from the registry. Incidents keep their
// unit label.
func (r *IncidentRepository) RemoveBusinessUnit(ctx context.Context, name string) error {
	return r.mutate(ctx, func(s *entity.Snapshot) error {
		changed := false
		if s.Filters.Unit == name {
			s.Filters.Unit = entity.FilterAll
			changed = true
		}
		if n := slices.Index(s.BusinessUnits, name); n >= 0 {
			s.BusinessUnits = slices.Delete(s.BusinessUnits, n, n+1)
			changed = true
		}
		if !changed {
			return errUnchanged
		}
		return nil
	})
}

package entity

import (
	"slices"
	"time"
)

// Snapshot is the full persisted state.
type Snapshot struct {
	Incidents     []Incident `json:"incidents"`
	Drafts        []Incident `json:"drafts"`
	BusinessUnits []string   `json:"business_units"`
	Filters       *Filters   `json:"filters"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Incidents:     make([]Incident, 0, len(s.Incidents)),
		Drafts:        make([]Incident, 0, len(s.Drafts)),
		BusinessUnits: slices.Clone(s.BusinessUnits),
		UpdatedAt:     s.UpdatedAt,
	}
	for i := range s.Incidents {
		c.Incidents = append(c.Incidents, *s.Incidents[i].Clone())
	}
	for i := range s.Drafts {
		c.Drafts = append(c.Drafts, *s.Drafts[i].Clone())
	}
	if s.Filters != nil {
		f := *s.Filters
		c.Filters = &f
	}
	return c
}

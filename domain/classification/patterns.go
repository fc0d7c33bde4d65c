package classification

import (
	"slices"

	"github.com/pyama86/breachtracker/domain/entity"
)

const topPatterns = 5

type PatternStat struct {
	Name  string
	Count int
	// AvgResponseHours is nil when no tagged incident has a positive
	// response time.
	AvgResponseHours *float64
}

type Patterns struct {
	Triggers []PatternStat
	Actions  []PatternStat
	MaxValue int
}

type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(name string) {
	if t.counts == nil {
		t.counts = map[string]int{}
	}
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name]++
}

func (e *Engine) AggregatePatterns(incidents []entity.Incident) Patterns {
	var triggers, actions tally
	speed := map[string][]int{}
	for n := range incidents {
		inc := &incidents[n]
		tags := e.DeriveTags(inc)
		rt := inc.ResponseTimeHours
		for _, t := range tags.Triggers {
			triggers.add(t)
			if rt != nil && *rt > 0 {
				speed[t] = append(speed[t], *rt)
			}
		}
		for _, a := range tags.Actions {
			actions.add(a)
			if rt != nil && *rt > 0 {
				speed[a] = append(speed[a], *rt)
			}
		}
	}
	p := Patterns{
		Triggers: top(triggers, speed),
		Actions:  top(actions, speed),
		MaxValue: 1,
	}
	for _, s := range append(slices.Clone(p.Triggers), p.Actions...) {
		p.MaxValue = max(p.MaxValue, s.Count)
	}
	return p
}

func top(t tally, speed map[string][]int) []PatternStat {
	stats := make([]PatternStat, 0, len(t.order))
	for _, name := range t.order {
		st := PatternStat{Name: name, Count: t.counts[name]}
		if hours := speed[name]; len(hours) > 0 {
			sum := 0
			for _, h := range hours {
				sum += h
			}
			avg := float64(sum) / float64(len(hours))
			st.AvgResponseHours = &avg
		}
		stats = append(stats, st)
	}
	slices.SortStableFunc(stats, func(a, b PatternStat) int { return b.Count - a.Count })
	if len(stats) > topPatterns {
		stats = stats[:topPatterns]
	}
	return stats
}

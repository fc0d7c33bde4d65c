package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
)

const (
	highRiskThreshold = 70
	recentWindowDays  = 30
	pieSlices         = 5
)

var heatWeights = map[entity.Severity]int{
	entity.SeverityCritical: 5,
	entity.SeverityHigh:     3,
	entity.SeverityMedium:   2,
	entity.SeverityLow:      1,
}

func byUnit(incidents []entity.Incident, unit string) []entity.Incident {
	var out []entity.Incident
	for _, i := range incidents {
		if i.BusinessUnit == unit {
			out = append(out, i)
		}
	}
	return out
}

func mostRecent(incidents []entity.Incident) string {
	if len(incidents) == 0 {
		return ""
	}
	return incidents[0].IncidentID
}

type UnitHeat struct {
	Unit        string
	Count       int
	Open        int
	Score       int
	TopSeverity entity.Severity
	MostRecent  string
	// Fill is the score as a percentage of the hottest unit, at least 8.
	Fill int
}

// UnitHeatmap weighs each unit's incidents by severity plus one per open
// case. Units without incidents are left out. incidents are expected in
// list order, so MostRecent is the first one per unit.
func UnitHeatmap(incidents []entity.Incident, units []string) []UnitHeat {
	var heat []UnitHeat
	maxScore := 1
	for _, unit := range units {
		list := byUnit(incidents, unit)
		if len(list) == 0 {
			continue
		}
		h := UnitHeat{Unit: unit, Count: len(list), TopSeverity: entity.SeverityLow, MostRecent: mostRecent(list)}
		for _, i := range list {
			w, ok := heatWeights[i.Severity]
			if !ok {
				w = 1
			}
			h.Score += w
			if i.IsOpen() {
				h.Score++
				h.Open++
			}
			if i.Severity.Rank() > h.TopSeverity.Rank() {
				h.TopSeverity = i.Severity
			}
		}
		maxScore = max(maxScore, h.Score)
		heat = append(heat, h)
	}
	for n := range heat {
		heat[n].Fill = max(8, int(math.Round(float64(heat[n].Score)/float64(maxScore)*100)))
	}
	return heat
}

type UnitRisk struct {
	Unit       string
	Score      int
	Incidents  int
	MostRecent string
}

// HighRiskUnits lists units scoring below 70, worst first.
func HighRiskUnits(incidents []entity.Incident, units []string) []UnitRisk {
	var out []UnitRisk
	for _, unit := range units {
		list := byUnit(incidents, unit)
		score := classification.ComplianceScore(list)
		if score >= highRiskThreshold {
			continue
		}
		out = append(out, UnitRisk{Unit: unit, Score: score, Incidents: len(list), MostRecent: mostRecent(list)})
	}
	slices.SortStableFunc(out, func(a, b UnitRisk) int { return cmp.Compare(a.Score, b.Score) })
	return out
}

type UnitScore struct {
	Unit             string
	Score            int
	Incidents        int
	AvgResponseHours *float64
	// Trend is incidents discovered in the last 30 days minus those in the
	// 30 days before.
	Trend    int
	Critical int
}

// AverageResponse averages the positive response times, nil when there are
// none.
func AverageResponse(incidents []entity.Incident) *float64 {
	var sum, n int
	for _, i := range incidents {
		if i.ResponseTimeHours != nil && *i.ResponseTimeHours > 0 {
			sum += *i.ResponseTimeHours
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func trend(incidents []entity.Incident, today entity.Date) int {
	var recent, previous int
	for _, i := range incidents {
		days, ok := entity.DaysBetween(i.DiscoveredDate, today)
		switch {
		case !ok:
		case days <= recentWindowDays:
			recent++
		case days <= 2*recentWindowDays:
			previous++
		}
	}
	return recent - previous
}

// UnitCompliance scores every unit, best first.
func UnitCompliance(incidents []entity.Incident, units []string, now time.Time) []UnitScore {
	today := entity.Today(now)
	out := make([]UnitScore, 0, len(units))
	for _, unit := range units {
		list := byUnit(incidents, unit)
		s := UnitScore{
			Unit:             unit,
			Score:            classification.ComplianceScore(list),
			Incidents:        len(list),
			AvgResponseHours: AverageResponse(list),
			Trend:            trend(list, today),
		}
		for _, i := range list {
			if i.Severity == entity.SeverityCritical {
				s.Critical++
			}
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b UnitScore) int { return cmp.Compare(b.Score, a.Score) })
	return out
}

type Month struct {
	Key   string
	Label string
}

// RecentMonths returns count months ending with the month of now, oldest
// first.
func RecentMonths(now time.Time, count int) []Month {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]Month, 0, count)
	for n := count - 1; n >= 0; n-- {
		d := first.AddDate(0, -n, 0)
		months = append(months, Month{Key: d.Format("2006-01"), Label: d.Format("Jan")})
	}
	return months
}

type Slice struct {
	Label   string
	Value   int
	Percent int
}

type Pie struct {
	Total  int
	Slices []Slice
}

// RootCauseBreakdown counts root causes of incidents discovered within
// months, or of all incidents when none are. The top five get a slice each
// and the remainder is grouped as Other.
func RootCauseBreakdown(incidents []entity.Incident, months []Month) Pie {
	keys := map[string]bool{}
	for _, m := range months {
		keys[m.Key] = true
	}
	var pool []entity.Incident
	for _, i := range incidents {
		if keys[i.DiscoveredDate.Month()] {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		pool = incidents
	}

	var slicesOut []Slice
	index := map[string]int{}
	for _, i := range pool {
		n, ok := index[i.RootCause]
		if !ok {
			n = len(slicesOut)
			index[i.RootCause] = n
			slicesOut = append(slicesOut, Slice{Label: i.RootCause})
		}
		slicesOut[n].Value++
	}
	slices.SortStableFunc(slicesOut, func(a, b Slice) int { return cmp.Compare(b.Value, a.Value) })
	slicesOut = slicesOut[:min(len(slicesOut), pieSlices)]

	total := len(pool)
	percent := func(v int) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(v) / float64(total) * 100))
	}
	covered := 0
	for n := range slicesOut {
		slicesOut[n].Percent = percent(slicesOut[n].Value)
		covered += slicesOut[n].Value
	}
	if rest := total - covered; rest > 0 {
		slicesOut = append(slicesOut, Slice{Label: "Other", Value: rest, Percent: percent(rest)})
	}
	return Pie{Total: total, Slices: slicesOut}
}

type TrendPoint struct {
	Month    Month
	Total    int
	Critical int
	High     int
	Medium   int
	Low      int
}

func MonthlyTrend(incidents []entity.Incident, months []Month) []TrendPoint {
	points := make([]TrendPoint, len(months))
	index := make(map[string]int, len(months))
	for n, m := range months {
		points[n].Month = m
		index[m.Key] = n
	}
	for _, i := range incidents {
		n, ok := index[i.DiscoveredDate.Month()]
		if !ok {
			continue
		}
		p := &points[n]
		p.Total++
		switch i.Severity {
		case entity.SeverityCritical:
			p.Critical++
		case entity.SeverityHigh:
			p.High++
		case entity.SeverityMedium:
			p.Medium++
		case entity.SeverityLow:
			p.Low++
		}
	}
	return points
}

type Dashboard struct {
	Last30Days       int
	Critical30Days   int
	AvgResponseHours *float64
	ResolvedPercent  int
	// Alerts counts open CRITICAL and HIGH incidents.
	Alerts int
}

func BuildDashboard(incidents []entity.Incident, now time.Time) Dashboard {
	today := entity.Today(now)
	var d Dashboard
	var recent []entity.Incident
	resolved := 0
	for _, i := range incidents {
		if days, ok := entity.DaysBetween(i.DiscoveredDate, today); ok && days <= recentWindowDays {
			recent = append(recent, i)
			if i.Severity == entity.SeverityCritical {
				d.Critical30Days++
			}
		}
		if !i.IsOpen() {
			resolved++
		}
		if i.IsOpen() && (i.Severity == entity.SeverityCritical || i.Severity == entity.SeverityHigh) {
			d.Alerts++
		}
	}
	d.Last30Days = len(recent)
	d.AvgResponseHours = AverageResponse(recent)
	if len(incidents) > 0 {
		d.ResolvedPercent = int(math.Round(float64(resolved) / float64(len(incidents)) * 100))
	}
	return d
}

package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/entity"
)

var insightNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func hoursPtr(h int) *int { return &h }

func insightIncidents() []entity.Incident {
	return []entity.Incident{
		{
			IncidentID: "I1", BusinessUnit: "Finance", Severity: entity.SeverityCritical, Status: entity.StatusInvestigating,
			DiscoveredDate: "2026-01-10", ResponseTimeHours: hoursPtr(120), RootCause: "Vendor",
			Compliance: entity.Compliance{PDPCNotificationRequired: true},
		},
		{
			IncidentID: "I2", BusinessUnit: "Finance", Severity: entity.SeverityHigh, Status: entity.StatusResolved,
			DiscoveredDate: "2025-12-01", ResolvedDate: "2025-12-02", ResponseTimeHours: hoursPtr(24), RootCause: "Phishing",
		},
		{
			IncidentID: "I3", BusinessUnit: "IT", Severity: entity.SeverityLow, Status: entity.StatusContained,
			DiscoveredDate: "2025-11-20", RootCause: "Human Error",
		},
		{
			IncidentID: "I4", BusinessUnit: "Finance", Severity: entity.SeverityCritical, Status: entity.StatusDetected,
			DiscoveredDate: "2025-12-20", ResponseTimeHours: hoursPtr(600), RootCause: "Vendor",
		},
	}
}

var insightUnits = []string{"Finance", "IT", "HR"}

func TestUnitHeatmap(t *testing.T) {
	got := analytics.UnitHeatmap(insightIncidents(), insightUnits)

	assert.Equal(t, []analytics.UnitHeat{
		{Unit: "Finance", Count: 3, Open: 2, Score: 15, TopSeverity: entity.SeverityCritical, MostRecent: "I1", Fill: 100},
		{Unit: "IT", Count: 1, Open: 1, Score: 2, TopSeverity: entity.SeverityLow, MostRecent: "I3", Fill: 13},
	}, got)
	assert.Empty(t, analytics.UnitHeatmap(nil, insightUnits))
}

func TestHighRiskUnits(t *testing.T) {
	got := analytics.HighRiskUnits(insightIncidents(), insightUnits)
	assert.Equal(t, []analytics.UnitRisk{{Unit: "Finance", Score: 53, Incidents: 3, MostRecent: "I1"}}, got)
}

func TestUnitCompliance(t *testing.T) {
	got := analytics.UnitCompliance(insightIncidents(), insightUnits, insightNow)
	require.Len(t, got, 3)

	assert.Equal(t, "HR", got[0].Unit)
	assert.Equal(t, 100, got[0].Score)
	assert.Nil(t, got[0].AvgResponseHours)
	assert.Zero(t, got[0].Trend)

	assert.Equal(t, "IT", got[1].Unit)
	assert.Equal(t, 96, got[1].Score)
	assert.Equal(t, -1, got[1].Trend)

	finance := got[2]
	assert.Equal(t, "Finance", finance.Unit)
	assert.Equal(t, 53, finance.Score)
	assert.Equal(t, 2, finance.Critical)
	assert.Equal(t, 1, finance.Trend)
	require.NotNil(t, finance.AvgResponseHours)
	assert.InDelta(t, 248.0, *finance.AvgResponseHours, 0.001)
}

func TestRecentMonths(t *testing.T) {
	assert.Equal(t, []analytics.Month{
		{Key: "2025-11", Label: "Nov"},
		{Key: "2025-12", Label: "Dec"},
		{Key: "2026-01", Label: "Jan"},
	}, analytics.RecentMonths(insightNow, 3))
}

func TestRootCauseBreakdown(t *testing.T) {
	got := analytics.RootCauseBreakdown(insightIncidents(), analytics.RecentMonths(insightNow, 6))
	assert.Equal(t, analytics.Pie{Total: 4, Slices: []analytics.Slice{
		{Label: "Vendor", Value: 2, Percent: 50},
		{Label: "Phishing", Value: 1, Percent: 25},
		{Label: "Human Error", Value: 1, Percent: 25},
	}}, got)

	var many []entity.Incident
	for n := 0; n < 7; n++ {
		many = append(many, entity.Incident{RootCause: fmt.Sprintf("cause-%d", n), DiscoveredDate: "2020-01-01"})
	}
	pie := analytics.RootCauseBreakdown(many, analytics.RecentMonths(insightNow, 6))
	assert.Equal(t, 7, pie.Total)
	require.Len(t, pie.Slices, 6)
	assert.Equal(t, analytics.Slice{Label: "Other", Value: 2, Percent: 29}, pie.Slices[5])

	assert.Equal(t, analytics.Pie{}, analytics.RootCauseBreakdown(nil, nil))
}

func TestMonthlyTrend(t *testing.T) {
	got := analytics.MonthlyTrend(insightIncidents(), analytics.RecentMonths(insightNow, 3))
	require.Len(t, got, 3)
	assert.Equal(t, analytics.TrendPoint{Month: analytics.Month{Key: "2025-11", Label: "Nov"}, Total: 1, Low: 1}, got[0])
	assert.Equal(t, analytics.TrendPoint{Month: analytics.Month{Key: "2025-12", Label: "Dec"}, Total: 2, Critical: 1, High: 1}, got[1])
	assert.Equal(t, analytics.TrendPoint{Month: analytics.Month{Key: "2026-01", Label: "Jan"}, Total: 1, Critical: 1}, got[2])
}

func TestBuildDashboard(t *testing.T) {
	got := analytics.BuildDashboard(insightIncidents(), insightNow)

	assert.Equal(t, 2, got.Last30Days)
	assert.Equal(t, 2, got.Critical30Days)
	require.NotNil(t, got.AvgResponseHours)
	assert.InDelta(t, 360.0, *got.AvgResponseHours, 0.001)
	assert.Equal(t, 25, got.ResolvedPercent)
	assert.Equal(t, 2, got.Alerts)

	assert.Equal(t, analytics.Dashboard{}, analytics.BuildDashboard(nil, insightNow))
}

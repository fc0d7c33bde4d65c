package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A entity.Date `json:"a"`
		B entity.Date `json:"b"`
	}{A: "2025-03-04"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2025-03-04","b":null}`, string(b))

	var got struct {
		A entity.Date `json:"a"`
		B entity.Date `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2025-03-04T10:00:00Z","b":null}`), &got))
	assert.Equal(t, entity.Date("2025-03-04"), got.A)
	assert.True(t, got.B.IsZero())
}

func TestHoursBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end entity.Date
		want       int
		ok         bool
	}{
		{"same day", "2025-01-01", "2025-01-01", 0, true},
		{"two days", "2025-01-01", "2025-01-03", 48, true},
		{"end before start clamps", "2025-01-03", "2025-01-01", 0, true},
		{"unset end", "2025-01-01", "", 0, false},
		{"malformed start", "2025-13-01", "2025-01-01", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := entity.HoursBetween(tt.start, tt.end)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateValidAndMonth(t *testing.T) {
	assert.True(t, entity.Date("").Valid())
	assert.True(t, entity.Date("2024-02-29").Valid())
	assert.False(t, entity.Date("2023-02-29").Valid())
	assert.Equal(t, "2024-02", entity.Date("2024-02-29").Month())
	assert.Equal(t, "", entity.Date("").Month())
	assert.Equal(t, "null", entity.Date("").String())
}

func TestFiltersMatch(t *testing.T) {
	inc := &entity.Incident{
		IncidentID:   "INC-2025-007",
		Description:  "Laptop stolen from car",
		Severity:     entity.SeverityHigh,
		BusinessUnit: "Finance",
		Status:       entity.StatusContained,
	}
	tests := []struct {
		name   string
		filter entity.Filters
		want   bool
	}{
		{"defaults", entity.DefaultFilters(), true},
		{"blank normalizes to all", entity.Filters{}.Normalize(), true},
		{"severity", entity.Filters{Severity: "HIGH", Unit: entity.FilterAll, Status: entity.FilterAll}, true},
		{"other severity", entity.Filters{Severity: "LOW", Unit: entity.FilterAll, Status: entity.FilterAll}, false},
		{"unit", entity.Filters{Severity: entity.FilterAll, Unit: "IT", Status: entity.FilterAll}, false},
		{"status", entity.Filters{Severity: entity.FilterAll, Unit: entity.FilterAll, Status: "CONTAINED"}, true},
		{"search code", entity.Filters{Severity: entity.FilterAll, Unit: entity.FilterAll, Status: entity.FilterAll, Search: "inc-2025-007"}, true},
		{"search description", entity.Filters{Severity: entity.FilterAll, Unit: entity.FilterAll, Status: entity.FilterAll, Search: "STOLEN"}, true},
		{"search miss", entity.Filters{Severity: entity.FilterAll, Unit: entity.FilterAll, Status: entity.FilterAll, Search: "phishing"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(inc))
		})
	}
}

func TestAttachmentUnmarshal(t *testing.T) {
	var got []entity.Attachment
	require.NoError(t, json.Unmarshal([]byte(`["report.pdf","https://example.com/x",{"url":"https://example.com/y"}]`), &got))
	assert.Equal(t, []entity.Attachment{
		{Name: "report.pdf"},
		{Name: "https://example.com/x", URL: "https://example.com/x"},
		{Name: "Attachment", URL: "https://example.com/y"},
	}, got)
}

func TestPDPCRisk(t *testing.T) {
	tests := []struct {
		name string
		c    entity.Compliance
		want bool
	}{
		{"not required", entity.Compliance{}, false},
		{"required and nothing done", entity.Compliance{PDPCNotificationRequired: true}, true},
		{"under review", entity.Compliance{PDPCStatus: entity.NotificationUnderReview}, true},
		{"notified but no dpo guidance", entity.Compliance{PDPCNotificationRequired: true, PDPCNotified: true}, true},
		{"fully handled", entity.Compliance{PDPCNotificationRequired: true, PDPCNotified: true, DPOGuidanceIssued: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := &entity.Incident{Compliance: tt.c}
			assert.Equal(t, tt.want, i.PDPCRisk())
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := 5
	i := &entity.Incident{DataTypes: []string{"Email"}, ResponseTimeHours: &h}
	c := i.Clone()
	c.DataTypes[0] = "NRIC"
	*c.ResponseTimeHours = 9
	assert.Equal(t, "Email", i.DataTypes[0])
	assert.Equal(t, 5, *i.ResponseTimeHours)
}

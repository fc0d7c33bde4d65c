package classification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
)

func TestClassify(t *testing.T) {
	engine := classification.New(classification.DefaultConfig())

	tests := []struct {
		name     string
		incident entity.Incident
		want     string
	}{
		{
			name:     "earlier rule wins",
			incident: entity.Incident{BreachType: "Phishing Attack", RootCause: "Unpatched Software"},
			want:     "PHISHING",
		},
		{
			name:     "root cause substring",
			incident: entity.Incident{RootCause: "Misconfigured Systems"},
			want:     "MISCONFIG",
		},
		{
			name:     "weak passwords are access control",
			incident: entity.Incident{RootCause: "Weak Passwords/Authentication"},
			want:     "ACCESS",
		},
		{
			name:     "ransomware is patch management",
			incident: entity.Incident{BreachType: "Ransomware/Malware"},
			want:     "PATCH",
		},
		{
			name:     "text fallback",
			incident: entity.Incident{Description: "Report was SENT TO WRONG department"},
			want:     "HUMAN",
		},
		{
			name:     "follow-up actions are part of the blob",
			incident: entity.Incident{FollowUpActions: []string{"chase the vendor"}},
			want:     "VENDOR",
		},
		{
			name:     "nothing matches",
			incident: entity.Incident{BreachType: "Physical Theft/Loss", Description: "Laptop stolen from car"},
			want:     "OTHER",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Classify(&tt.incident).Key)
		})
	}
}

func TestDefaultRulesOrder(t *testing.T) {
	var keys []string
	for _, r := range classification.DefaultRules() {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"PHISHING", "MISCONFIG", "ACCESS", "PATCH", "HUMAN", "VENDOR", "OTHER"}, keys)
}

func TestClassifyWithoutCatchAll(t *testing.T) {
	engine := classification.New(classification.Config{
		Rules: []classification.Rule{
			{Key: "A", TextContains: []string{"alpha"}},
			{Key: "B", TextContains: []string{"beta"}},
		},
	})
	assert.Equal(t, "B", engine.Classify(&entity.Incident{Description: "gamma"}).Key)
}

func TestSummarizeVulnerabilities(t *testing.T) {
	engine := classification.New(classification.DefaultConfig())
	incidents := []entity.Incident{
		{IncidentID: "INC-1", BreachType: "Phishing Attack", Severity: entity.SeverityMedium, Status: entity.StatusResolved},
		{IncidentID: "INC-2", BreachType: "Phishing Attack", Severity: entity.SeverityHigh, Status: entity.StatusInvestigating},
		{IncidentID: "INC-3", BreachType: "Phishing Attack", Severity: entity.SeverityLow, Status: entity.StatusDetected},
		{IncidentID: "INC-4", BreachType: "Misconfiguration", Severity: entity.SeverityCritical, Status: entity.StatusContained},
	}

	summary := engine.SummarizeVulnerabilities(incidents)
	assert.Equal(t, 4, summary.Total)
	require.Len(t, summary.Items, 7)

	first := summary.Items[0]
	assert.Equal(t, "PHISHING", first.Key)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, 2, first.Open)
	assert.Equal(t, 75.0, first.Frequency)
	assert.Equal(t, entity.SeverityHigh, first.TopSeverity)
	assert.Equal(t, "INC-1 (Phishing Attack)", first.Sample)

	second := summary.Items[1]
	assert.Equal(t, "MISCONFIG", second.Key)
	assert.Equal(t, 25.0, second.Frequency)
	assert.Equal(t, entity.SeverityCritical, second.TopSeverity)

	for _, item := range summary.Items[2:] {
		assert.Zero(t, item.Count)
		assert.Equal(t, entity.SeverityLow, item.TopSeverity)
	}
}

func TestSummarizeVulnerabilitiesEmpty(t *testing.T) {
	summary := classification.New(classification.DefaultConfig()).SummarizeVulnerabilities(nil)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, "PHISHING", summary.Items[0].Key)
}

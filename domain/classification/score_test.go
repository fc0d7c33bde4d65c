package classification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
)

func hours(h int) *int { return &h }

func TestSeverityFromInputs(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		dataTypes []string
		want      entity.Severity
	}{
		{"large volume", 1500, nil, entity.SeverityCritical},
		{"exactly 1000", 1000, nil, entity.SeverityCritical},
		{"financial data", 1, []string{"Financial Data"}, entity.SeverityCritical},
		{"health data", 0, []string{"Health/Medical Records"}, entity.SeverityCritical},
		{"credentials", 50, []string{"Authentication Credentials"}, entity.SeverityHigh},
		{"exactly 100", 100, nil, entity.SeverityHigh},
		{"medium volume", 15, nil, entity.SeverityMedium},
		{"exactly 10", 10, []string{"Contact Information"}, entity.SeverityMedium},
		{"small volume", 5, nil, entity.SeverityLow},
		{"no records", 0, []string{}, entity.SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classification.SeverityFromInputs(tt.records, tt.dataTypes))
		})
	}
}

func TestComplianceScore(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Equal(t, 100, classification.ComplianceScore(nil))
	})

	t.Run("critical unresolved and not notified", func(t *testing.T) {
		inc := entity.Incident{
			Severity:          entity.SeverityCritical,
			Status:            entity.StatusInvestigating,
			ResponseTimeHours: hours(48),
			Compliance:        entity.Compliance{PDPCNotificationRequired: true},
		}
		assert.Equal(t, 78, classification.ComplianceScore([]entity.Incident{inc}))
	})

	t.Run("fast resolution bonuses", func(t *testing.T) {
		inc := entity.Incident{
			Severity:          entity.SeverityLow,
			Status:            entity.StatusResolved,
			ResponseTimeHours: hours(24),
		}
		assert.Equal(t, 100, classification.ComplianceScore([]entity.Incident{inc}))
	})

	t.Run("zero response time earns no bonus", func(t *testing.T) {
		inc := entity.Incident{Severity: entity.SeverityMedium, ResponseTimeHours: hours(0)}
		assert.Equal(t, 93, classification.ComplianceScore([]entity.Incident{inc}))
	})

	t.Run("clamped only at the end", func(t *testing.T) {
		var incidents []entity.Incident
		for range 6 {
			incidents = append(incidents, entity.Incident{Severity: entity.SeverityCritical})
		}
		assert.Equal(t, 0, classification.ComplianceScore(incidents))

		// Six criticals drive the running total to -8; ten fast resolved
		// lows add one point each. Clamping per incident would give 10.
		for range 10 {
			incidents = append(incidents, entity.Incident{
				Severity:          entity.SeverityLow,
				Status:            entity.StatusResolved,
				ResponseTimeHours: hours(1),
			})
		}
		assert.Equal(t, 2, classification.ComplianceScore(incidents))
	})
}

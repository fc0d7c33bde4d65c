package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/domain/repository"
)

func TestFileSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := repository.NewFileSnapshotRepository(path)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	hours := 12
	want := &entity.Snapshot{
		Incidents: []entity.Incident{{
			ID:                "a",
			IncidentID:        "INC-2025-001",
			DiscoveredDate:    "2025-12-01",
			Severity:          entity.SeverityHigh,
			Status:            entity.StatusContained,
			ResponseTimeHours: &hours,
			Attachments:       []entity.Attachment{{Name: "log.txt"}},
		}},
		Drafts:        []entity.Incident{},
		BusinessUnits: []string{"Finance"},
		Filters:       &entity.Filters{Severity: "HIGH", Unit: "ALL", Status: "ALL"},
		UpdatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Clear(ctx))
}

func TestFileSnapshotRepositoryCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"incidents": 3}`), 0o600))

	_, err := repository.NewFileSnapshotRepository(path).Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrSnapshotCorrupt)
}

func TestFileSnapshotRepositoryLegacyAttachments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	body := `{"incidents":[{"id":"a","incident_id":"INC-2025-001","attachments":["scan.png","https://example.com/r.pdf",{"url":"https://example.com/x"}],"resolved_date":"2025-12-02T10:00:00Z"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s, err := repository.NewFileSnapshotRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Incidents, 1)
	assert.Equal(t, []entity.Attachment{
		{Name: "scan.png"},
		{Name: "https://example.com/r.pdf", URL: "https://example.com/r.pdf"},
		{Name: "Attachment", URL: "https://example.com/x"},
	}, s.Incidents[0].Attachments)
	assert.Equal(t, entity.Date("2025-12-02"), s.Incidents[0].ResolvedDate)
	assert.Nil(t, s.Drafts)
}

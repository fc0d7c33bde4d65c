package repository_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/domain/repository"
)

func TestNewConfigRepositoryDefaults(t *testing.T) {
	c, err := repository.NewConfigRepository(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, repository.DefaultCodePrefix, c.Incident.CodePrefix)
	assert.Equal(t, repository.DefaultAuthor, c.Incident.DefaultAuthor)
	assert.Equal(t, entity.CanonicalBusinessUnits, c.BusinessUnits)
	assert.True(t, c.Query.Enabled)
	assert.Equal(t, 5*time.Minute, c.Query.CacheTTL)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, classification.DefaultTriggerGroups(), c.Classification.TriggerKeywords)
	assert.NotEmpty(t, c.Storage.Path)
}

func TestNewConfigRepositoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breachtracker.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
business_units = ["Legal", "Finance"]

[storage]
path = "/tmp/state.json"

[incident]
code_prefix = "BR-2026"

[query]
enabled = false
cache_ttl = "30s"

[[classification.trigger_keywords]]
name = "Ransomware"
keywords = ["ransom", "encrypted"]
`), 0o600))

	c, err := repository.NewConfigRepository(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/state.json", c.Storage.Path)
	assert.Equal(t, "BR-2026", c.Incident.CodePrefix)
	assert.Equal(t, repository.DefaultAuthor, c.Incident.DefaultAuthor)
	assert.Equal(t, []string{"Legal", "Finance"}, c.BusinessUnits)
	assert.False(t, c.Query.Enabled)
	assert.Equal(t, 30*time.Second, c.Query.CacheTTL)
	assert.Equal(t, []classification.KeywordGroup{
		{Name: "Ransomware", Keywords: []string{"ransom", "encrypted"}},
	}, c.Classification.TriggerKeywords)
	assert.Equal(t, classification.DefaultActionGroups(), c.Classification.ActionKeywords)

	engine := c.EngineConfig()
	assert.Equal(t, c.Classification.TriggerKeywords, engine.TriggerGroups)
	assert.Len(t, c.RepositoryOptions(), 3)
}

func TestNewConfigRepositoryEnvOverride(t *testing.T) {
	t.Setenv("BREACHTRACKER_STORAGE_PATH", "/var/lib/breachtracker/state.json")
	t.Setenv("BREACHTRACKER_LOG_LEVEL", "debug")

	c, err := repository.NewConfigRepository("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/breachtracker/state.json", c.Storage.Path)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestNewConfigRepositoryValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad log level", body: "[log]\nlevel = \"verbose\"\n"},
		{name: "keyword group without keywords", body: "[[classification.action_keywords]]\nname = \"Empty\"\nkeywords = []\n"},
		{name: "malformed toml", body: "[storage\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "breachtracker.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			_, err := repository.NewConfigRepository(path)
			assert.Error(t, err)
		})
	}
}

package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, path, store.Path())
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".faqd", "config.toml"), store.Path())
}

func TestConfigStore_MissingFileYieldsDefaults(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig().Retrieval, cfg.Retrieval)
	assert.Equal(t, domain.DefaultConfig().Session, cfg.Session)
}

func TestConfigStore_PartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[document]
path = "faq.txt"

[retrieval]
top_n = 5
require_keyword = true

[session]
ttl = "10m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "faq.txt", cfg.Document.Path)
	assert.Equal(t, 5, cfg.Retrieval.TopN)
	assert.True(t, cfg.Retrieval.RequireKeyword)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)

	// Untouched values stay at defaults.
	defaults := domain.DefaultConfig()
	assert.Equal(t, defaults.Retrieval.MinScore, cfg.Retrieval.MinScore)
	assert.Equal(t, defaults.Session.SweepInterval, cfg.Session.SweepInterval)
	assert.Equal(t, defaults.Embedding.Model, cfg.Embedding.Model)
}

func TestConfigStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.Document.Path = "conocimiento.txt"
	want.Retrieval.RequireMargin = true
	want.Validation.AcceptThreshold = 0.7
	want.Embedding.IngestDelay = 500 * time.Millisecond

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigStore_APIKeysComeFromEnvironment(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	t.Setenv(envAPIKey, "shared-key")
	t.Setenv(envGenerationAPIKey, "gen-key")

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "shared-key", cfg.Embedding.APIKey)
	assert.Equal(t, "gen-key", cfg.Generation.APIKey, "per-backend variable wins over the shared one")
}

func TestConfigStore_SaveNeverWritesAPIKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.Embedding.APIKey = "sk-secret"
	cfg.Generation.APIKey = "sk-also-secret"
	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret")
	assert.NotContains(t, string(data), "sk-also-secret")
}

func TestConfigStore_InvalidDurationIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[session]\nttl = \"pronto\"\n"), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.ttl")
}

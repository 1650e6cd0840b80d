package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewPromptStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(tmpDir, driven.PromptChatSystem+".txt"))
	assert.FileExists(t, filepath.Join(tmpDir, "README.md"))
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	assert.Contains(t, prompt, "%s")
	assert.Contains(t, prompt, "Contexto")
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	tmpDir := t.TempDir()
	custom := "Responde usando solo este contexto:\n%s"
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptChatSystem+".txt"),
		[]byte(custom), 0600))

	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptStore_Reload_PicksUpEdits(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	// Prime the cache with the default.
	_, err = store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	edited := "Prompt editado:\n%s"
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptChatSystem+".txt"),
		[]byte(edited), 0600))

	// Cached value until reload.
	prompt, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.NotEqual(t, edited, prompt)

	store.Reload()

	prompt, err = store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, edited, prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load(driven.PromptChatSystem)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptChatSystem+".txt"),
		[]byte("\n\nPrompt con espacio:\n%s\n\n"), 0600))

	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)
	assert.Equal(t, "Prompt con espacio:\n%s", prompt)
}

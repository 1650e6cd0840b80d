package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_ReadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.txt")
	content := "=== Horarios ===\n\nLa oficina abre de 8 a 17.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	src := NewFileSource(path)

	got, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "faq.txt", src.Name())
}

func TestFileSource_MissingFileIsError(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "no-such-file.txt"))

	_, err := src.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_CancelledContext(t *testing.T) {
	src := NewFileSource("irrelevante.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

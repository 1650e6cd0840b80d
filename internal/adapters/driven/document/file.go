// Package document provides the plain-file source for the knowledge
// document.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

// Ensure FileSource implements the interface.
var _ driven.DocumentSource = (*FileSource)(nil)

// FileSource reads the knowledge document from a file on disk. The file is
// read in full on each call; callers read it once at startup.
type FileSource struct {
	path string
}

// NewFileSource creates a document source for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Read returns the full document text.
func (s *FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", s.path, err)
	}
	return string(data), nil
}

// Name returns the document's base name, for logging.
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// Path returns the full document path.
func (s *FileSource) Path() string {
	return s.path
}

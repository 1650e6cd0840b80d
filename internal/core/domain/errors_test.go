package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrEmbeddingOmitted", ErrEmbeddingOmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrEmbeddingOmitted,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

func TestErrors_WithWrapping(t *testing.T) {
	// Omission travels through fmt.Errorf wrapping, which is how the
	// embedder reports it.
	wrapped := fmt.Errorf("embed passage 3: %w", ErrEmbeddingOmitted)

	assert.True(t, errors.Is(wrapped, ErrEmbeddingOmitted))
	assert.Contains(t, wrapped.Error(), "embedding omitted")
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
}

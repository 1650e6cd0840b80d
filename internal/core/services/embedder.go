package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/time/rate"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
	"github.com/civika-labs/faqd/internal/logger"
)

// Embedder applies the embedding omission policy in front of the backend:
// input is cleaned, length-checked and truncated before any call is made,
// and every backend failure maps to domain.ErrEmbeddingOmitted rather than
// propagating. Embedding failure for one passage must never abort ingestion
// of the rest.
type Embedder struct {
	svc     driven.EmbeddingService
	cfg     domain.EmbeddingConfig
	limiter *rate.Limiter
}

// NewEmbedder wraps the embedding backend with the omission policy from cfg.
func NewEmbedder(svc driven.EmbeddingService, cfg domain.EmbeddingConfig) *Embedder {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.IngestDelay > 0 {
		// Fixed inter-call delay for batch ingestion. There is no retry
		// or backoff on failure; a failed passage is simply omitted.
		limiter = rate.NewLimiter(rate.Every(cfg.IngestDelay), 1)
	}

	return &Embedder{
		svc:     svc,
		cfg:     cfg,
		limiter: limiter,
	}
}

// EmbedQuery embeds a live user query. Returns domain.ErrEmbeddingOmitted
// when the cleaned query is below MinQueryChars or the backend fails.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, e.cfg.MinQueryChars)
}

// EmbedPassage embeds a corpus passage during ingestion. The stricter
// MinPassageChars threshold applies, and calls are throttled with the
// configured inter-call delay.
func (e *Embedder) EmbedPassage(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingOmitted, err)
	}
	return e.embed(ctx, text, e.cfg.MinPassageChars)
}

// Dimensions returns the backend embedding dimensionality.
func (e *Embedder) Dimensions() int {
	return e.svc.Dimensions()
}

func (e *Embedder) embed(ctx context.Context, text string, minChars int) ([]float32, error) {
	cleaned := sanitizeForEmbedding(text)
	if len([]rune(cleaned)) < minChars {
		logger.Debug("embedding omitted: cleaned input below %d chars", minChars)
		return nil, fmt.Errorf("%w: input too short", domain.ErrEmbeddingOmitted)
	}

	cleaned = truncateRunes(cleaned, e.cfg.MaxInputChars)

	vec, err := e.svc.Embed(ctx, cleaned)
	if err != nil {
		logger.Warn("embedding backend failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingOmitted, err)
	}
	if len(vec) == 0 {
		logger.Warn("embedding backend returned empty vector")
		return nil, fmt.Errorf("%w: empty vector", domain.ErrEmbeddingOmitted)
	}

	return vec, nil
}

// sanitizeForEmbedding strips control and non-printable runes, mapping
// whitespace variants to plain spaces, and trims the result.
func sanitizeForEmbedding(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsGraphic(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// truncateRunes caps s at max runes. The backend has an undocumented input
// limit; truncation is defensive, not semantically ideal.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

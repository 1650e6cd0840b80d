package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/logger"
)

// blankLine splits context back into the passages it was joined from.
var blankLine = regexp.MustCompile(`\n\s*\n`)

// ValidationOutcome is the result of checking an answer against context.
type ValidationOutcome struct {
	// Verdict classifies the support level.
	Verdict domain.Verdict

	// Text is the answer to store and return: unchanged on accept,
	// prefixed with a low-confidence marker on low_confidence, replaced
	// by the canonical refusal on reject.
	Text string

	// Score is the similarity that produced the verdict.
	Score float64

	// Lexical is true when the Jaccard fallback decided the verdict
	// because the embedding backend failed.
	Lexical bool
}

// GroundednessValidator verifies that a generated answer is supported by
// the retrieved context. The primary method compares embeddings; when the
// embedding backend fails mid-validation, a lexical-overlap fallback still
// makes a conservative decision rather than passing the answer through
// unverified.
type GroundednessValidator struct {
	embedder *Embedder
	cfg      domain.ValidationConfig
}

// NewGroundednessValidator creates a validator with the given thresholds.
func NewGroundednessValidator(embedder *Embedder, cfg domain.ValidationConfig) *GroundednessValidator {
	return &GroundednessValidator{
		embedder: embedder,
		cfg:      cfg,
	}
}

// Validate classifies answer against context.
//
// The canonical refusal passes through unchanged, so validating an already
// refused reply is a no-op. Blank context always rejects: with nothing to
// ground on, no answer can be supported.
func (v *GroundednessValidator) Validate(ctx context.Context, answer, contextText string) ValidationOutcome {
	logger.Section("Groundedness")

	if answer == domain.Refusal {
		return ValidationOutcome{Verdict: domain.VerdictReject, Text: domain.Refusal}
	}

	if strings.TrimSpace(contextText) == "" {
		logger.Debug("blank context, rejecting")
		return ValidationOutcome{Verdict: domain.VerdictReject, Text: domain.Refusal}
	}

	passages := splitPassages(contextText, v.cfg.MaxPassages)

	score, err := v.embeddingScore(ctx, answer, passages)
	if err != nil {
		logger.Warn("embedding validation unavailable, falling back to lexical overlap: %v", err)
		return v.lexicalVerdict(answer, passages)
	}

	logger.Debug("max answer/context similarity: %.4f", score)
	return v.verdict(answer, score, v.cfg.AcceptThreshold, v.cfg.BlockThreshold, false)
}

// embeddingScore returns the maximum cosine similarity between the answer
// and any passage. Any omitted embedding aborts the primary method.
func (v *GroundednessValidator) embeddingScore(ctx context.Context, answer string, passages []string) (float64, error) {
	answerVec, err := v.embedder.EmbedQuery(ctx, answer)
	if err != nil {
		return 0, fmt.Errorf("embed answer: %w", err)
	}

	best := -1.0
	for i, p := range passages {
		passageVec, err := v.embedder.EmbedQuery(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("embed passage %d: %w", i, err)
		}
		if sim := CosineSimilarity(answerVec, passageVec); sim > best {
			best = sim
		}
	}

	return best, nil
}

// lexicalVerdict decides with normalized token overlap. Casefolded,
// diacritic-free, stopword-filtered token sets are compared with Jaccard
// similarity against each passage; the best passage decides.
func (v *GroundednessValidator) lexicalVerdict(answer string, passages []string) ValidationOutcome {
	answerSet := tokenSet(answer)

	best := 0.0
	for _, p := range passages {
		if sim := jaccard(answerSet, tokenSet(p)); sim > best {
			best = sim
		}
	}

	logger.Debug("max lexical overlap: %.4f", best)
	return v.verdict(answer, best, v.cfg.LexicalAccept, v.cfg.LexicalBlock, true)
}

func (v *GroundednessValidator) verdict(answer string, score, accept, block float64, lexical bool) ValidationOutcome {
	switch {
	case score >= accept:
		return ValidationOutcome{Verdict: domain.VerdictAccept, Text: answer, Score: score, Lexical: lexical}
	case score < block:
		return ValidationOutcome{Verdict: domain.VerdictReject, Text: domain.Refusal, Score: score, Lexical: lexical}
	default:
		return ValidationOutcome{
			Verdict: domain.VerdictLowConfidence,
			Text:    LowConfidencePrefix(score) + answer,
			Score:   score,
			Lexical: lexical,
		}
	}
}

// LowConfidencePrefix is the visible marker put in front of answers whose
// grounding is uncertain, carrying the numeric score so callers can tell
// certain from uncertain replies.
func LowConfidencePrefix(score float64) string {
	return fmt.Sprintf("[Confianza baja: %.2f] ", score)
}

// splitPassages splits context at blank-line boundaries, capped at max as
// a defensive bound on validation cost.
func splitPassages(contextText string, max int) []string {
	parts := blankLine.Split(contextText, -1)

	passages := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		passages = append(passages, p)
		if max > 0 && len(passages) == max {
			break
		}
	}
	return passages
}

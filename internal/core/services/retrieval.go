package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/logger"
)

// RetrievalResult is the outcome of ranking the store against one query.
type RetrievalResult struct {
	// Passages are the surviving hits, sorted by descending score and
	// truncated to the policy's TopN. Empty means "insufficient
	// grounding" and must short-circuit the caller before any
	// generation-backend call.
	Passages []domain.ScoredPassage

	// TopScore is the best raw similarity seen before any gate, or 0
	// when the store is empty or the query could not be embedded.
	TopScore float64

	// Candidates are the texts of the best-ranked chunks before gating,
	// kept for the unanswered log. Capped at the policy's TopN.
	Candidates []string
}

// RetrievalEngine ranks the vector store against query embeddings and
// applies the configured score, length, margin and keyword gates. The
// margin and keyword gates are composable refinements over the same ranked
// list, not separate engines.
type RetrievalEngine struct {
	store    *domain.VectorStore
	embedder *Embedder
	policy   domain.RetrievalPolicy
}

// NewRetrievalEngine creates a retrieval engine over an immutable store.
func NewRetrievalEngine(store *domain.VectorStore, embedder *Embedder, policy domain.RetrievalPolicy) *RetrievalEngine {
	return &RetrievalEngine{
		store:    store,
		embedder: embedder,
		policy:   policy,
	}
}

// Retrieve ranks every chunk against the query and returns the passages
// that pass all configured gates. Retrieval fails closed: an unembeddable
// query or an empty store yields an empty result, never an error.
func (e *RetrievalEngine) Retrieve(ctx context.Context, query string) RetrievalResult {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if e.store.Len() == 0 {
		logger.Debug("Empty store, returning no results")
		return RetrievalResult{}
	}

	queryVec, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingOmitted) {
			logger.Warn("query embedding error: %v", err)
		}
		logger.Debug("Query embedding omitted, failing closed")
		return RetrievalResult{}
	}

	ranked := e.rank(queryVec)

	result := RetrievalResult{TopScore: ranked[0].Score}
	for i := 0; i < len(ranked) && i < e.policy.TopN; i++ {
		result.Candidates = append(result.Candidates, ranked[i].Text)
	}

	if e.policy.RequireMargin && len(ranked) >= 2 {
		margin := ranked[0].Score - ranked[1].Score
		if margin < e.policy.Margin {
			logger.Info("margin gate: top-1/top-2 gap %.4f below %.4f, treating query as ambiguous", margin, e.policy.Margin)
			return result
		}
	}

	if e.policy.RequireKeyword && !e.keywordMatch(query, ranked[0].Text) {
		logger.Info("keyword gate: top passage shares no content keyword with the query")
		return result
	}

	for _, sp := range ranked {
		if sp.Score < e.policy.MinScore {
			// Ranked descending, nothing further can pass.
			break
		}
		if wordCount(sp.Text) < e.policy.MinWords {
			continue
		}
		result.Passages = append(result.Passages, sp)
		if len(result.Passages) == e.policy.TopN {
			break
		}
	}

	logger.Debug("Retrieval: %d passages, top score %.4f", len(result.Passages), result.TopScore)
	return result
}

// rank scores every chunk and sorts by descending score, ties broken by
// ascending chunk id for determinism.
func (e *RetrievalEngine) rank(queryVec []float32) []domain.ScoredPassage {
	chunks := e.store.Chunks()

	ranked := make([]domain.ScoredPassage, len(chunks))
	for i, c := range chunks {
		ranked[i] = domain.ScoredPassage{
			ChunkID: c.ID,
			Text:    c.Text,
			Score:   CosineSimilarity(queryVec, c.Embedding),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ChunkID < ranked[j].ChunkID
	})

	return ranked
}

// keywordMatch reports whether the passage contains at least one content
// keyword from the query. A query with no content keywords fails the gate:
// there is nothing to anchor the passage to.
func (e *RetrievalEngine) keywordMatch(query, passage string) bool {
	keywords := contentTokens(query)
	if len(keywords) == 0 {
		return false
	}

	normalized := normalizeText(passage)
	for _, kw := range keywords {
		if containsToken(normalized, kw) {
			return true
		}
	}
	return false
}

// containsToken reports whether the normalized text contains tok as a
// whole word.
func containsToken(normalized, tok string) bool {
	for _, f := range strings.Fields(normalized) {
		if f == tok {
			return true
		}
	}
	return false
}

// ContextText joins the surviving passages, in rank order, with blank
// lines. The result is the grounding context handed to prompt construction
// and later split back at the same boundaries by the validator.
func ContextText(passages []domain.ScoredPassage) string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. A zero-magnitude vector yields 0; the function never divides by
// zero and never returns NaN for finite input. Vectors of unequal length
// are compared over their common prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp rounding spill so callers can rely on [-1, 1].
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

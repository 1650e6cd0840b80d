package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
	"github.com/civika-labs/faqd/internal/core/ports/driving"
	"github.com/civika-labs/faqd/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// minMessageRunes is the minimum length of a useful question.
const minMessageRunes = 3

// defaultSystemPrompt is used when the prompt store cannot provide one.
// The %s placeholder receives the retrieved context.
const defaultSystemPrompt = `Eres el asistente de atención ciudadana del ayuntamiento.
Responde ÚNICAMENTE con la información del contexto siguiente. Si el contexto
no contiene la respuesta, di que no dispones de esa información. No inventes
datos, teléfonos ni horarios.

Contexto:
%s`

// ChatService orchestrates one chat turn: retrieve, refuse or generate,
// validate, record. It is safe for concurrent use; handlers for distinct
// sessions never block one another, and no backend call is made while
// holding a session or store lock.
type ChatService struct {
	retrieval  *RetrievalEngine
	validator  *GroundednessValidator
	generator  driven.GenerationService
	sessions   *SessionStore
	unanswered driven.UnansweredStore
	prompts    driven.PromptStore
	cfg        domain.GenerationConfig
}

// NewChatService wires the chat pipeline. The unanswered store and prompt
// store may be nil; both degrade to logging only.
func NewChatService(
	retrieval *RetrievalEngine,
	validator *GroundednessValidator,
	generator driven.GenerationService,
	sessions *SessionStore,
	unanswered driven.UnansweredStore,
	prompts driven.PromptStore,
	cfg domain.GenerationConfig,
) *ChatService {
	return &ChatService{
		retrieval:  retrieval,
		validator:  validator,
		generator:  generator,
		sessions:   sessions,
		unanswered: unanswered,
		prompts:    prompts,
		cfg:        cfg,
	}
}

// Ask handles one chat turn.
//
// Invalid input returns a canned reply without touching any backend.
// Empty retrieval returns the canonical refusal without calling the
// generation backend and appends an unanswered record for triage.
// A generated answer only reaches the session history after the
// groundedness validator has had its say, so stored history never contains
// an unverified hallucinated answer.
func (c *ChatService) Ask(ctx context.Context, sessionID, message string) (domain.Reply, error) {
	sessionID = strings.TrimSpace(sessionID)
	message = strings.TrimSpace(message)

	if sessionID == "" || !validMessage(message) {
		logger.Debug("input rejected: session=%q message length=%d", sessionID, len(message))
		return domain.Reply{Answer: domain.InvalidInputReply}, nil
	}

	sess := c.sessions.Acquire(sessionID)
	defer c.sessions.Release(sess)

	retrieved := c.retrieval.Retrieve(ctx, message)

	if len(retrieved.Passages) == 0 {
		c.recordUnanswered(ctx, sessionID, message, retrieved)
		sess.Append(domain.RoleUser, message)
		sess.Append(domain.RoleAssistant, domain.Refusal)
		return domain.Reply{Answer: domain.Refusal}, nil
	}

	contextText := ContextText(retrieved.Passages)
	prompt := c.buildPrompt(sess, message, contextText)

	sess.Append(domain.RoleUser, message)

	raw, err := c.generator.Chat(ctx, prompt, driven.ChatOptions{
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		logger.Error("generation backend failed: %v", err)
		sess.Append(domain.RoleAssistant, domain.GenerationFallback)
		return domain.Reply{Answer: domain.GenerationFallback, ContextFound: true}, nil
	}

	outcome := c.validator.Validate(ctx, raw, contextText)
	logger.Info("groundedness verdict: %s (score %.4f)", outcome.Verdict, outcome.Score)

	sess.Append(domain.RoleAssistant, outcome.Text)
	return domain.Reply{Answer: outcome.Text, ContextFound: true}, nil
}

// buildPrompt assembles the grounded conversation: system template with
// context, a bounded window of recent history, then the new question.
// History is read before the new message is appended.
func (c *ChatService) buildPrompt(sess *Session, message, contextText string) []domain.Message {
	template := defaultSystemPrompt
	if c.prompts != nil {
		if loaded, err := c.prompts.Load(driven.PromptChatSystem); err == nil && loaded != "" {
			template = loaded
		}
	}

	history := sess.Messages()
	if c.cfg.MaxHistory > 0 && len(history) > c.cfg.MaxHistory {
		history = history[len(history)-c.cfg.MaxHistory:]
	}

	prompt := make([]domain.Message, 0, len(history)+2)
	prompt = append(prompt, domain.Message{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(template, contextText),
	})
	prompt = append(prompt, history...)
	prompt = append(prompt, domain.Message{Role: domain.RoleUser, Content: message})

	return prompt
}

// recordUnanswered appends a triage record. Best effort: losing a record
// must not fail the chat request.
func (c *ChatService) recordUnanswered(ctx context.Context, sessionID, message string, retrieved RetrievalResult) {
	if c.unanswered == nil {
		return
	}

	rec := domain.UnansweredRecord{
		ID:               uuid.New().String(),
		SessionID:        sessionID,
		Message:          message,
		ContextFragments: retrieved.Candidates,
		TopScore:         retrieved.TopScore,
		CreatedAt:        time.Now(),
	}

	if err := c.unanswered.Append(ctx, rec); err != nil {
		logger.Warn("unanswered log append failed: %v", err)
	}
}

// validMessage applies the minimal validity checks: long enough and with
// at least one letter.
func validMessage(message string) bool {
	if len([]rune(message)) < minMessageRunes {
		return false
	}
	return hasLetter(message)
}

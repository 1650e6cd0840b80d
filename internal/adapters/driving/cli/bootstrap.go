package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/civika-labs/faqd/internal/adapters/driven/ai"
	"github.com/civika-labs/faqd/internal/adapters/driven/config/file"
	"github.com/civika-labs/faqd/internal/adapters/driven/document"
	"github.com/civika-labs/faqd/internal/adapters/driven/storage/sqlite"
	"github.com/civika-labs/faqd/internal/chunker"
	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
	"github.com/civika-labs/faqd/internal/core/services"
	"github.com/civika-labs/faqd/internal/logger"
)

// startSweeper runs the session sweeper in the background and returns a
// function that stops it and waits for it to exit. SessionStore.Start
// blocks until stopped, so it must never run on the caller's goroutine.
func startSweeper(ctx context.Context, sessions *services.SessionStore) func() {
	go func() {
		if err := sessions.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("session sweeper stopped: %v", err)
		}
	}()

	return func() {
		if err := sessions.Stop(); err != nil {
			logger.Warn("stop session sweeper: %v", err)
		}
	}
}

// loadConfig resolves the effective configuration: file contents merged
// over defaults, environment keys applied last.
func loadConfig() (domain.Config, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return domain.Config{}, fmt.Errorf("open config store: %w", err)
	}

	cfg, err := store.Load()
	if err != nil {
		return domain.Config{}, fmt.Errorf("load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid configuration (%s): %w", store.Path(), err)
	}

	logger.Debug("configuration loaded from %s", store.Path())
	return cfg, nil
}

// ingestStack is the subset of the application needed to build the chunk
// cache: storage, the source document and a validated embedding backend.
type ingestStack struct {
	cfg       domain.Config
	store     *sqlite.Store
	embedding driven.EmbeddingService
	embedder  *services.Embedder
	ingestor  *services.Ingestor
}

func buildIngestStack() (*ingestStack, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(cfg.Document.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open chunk cache: %w", err)
	}

	embedding, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		store.Close()
		return nil, err
	}

	embedder := services.NewEmbedder(embedding, cfg.Embedding)
	ingestor := services.NewIngestor(
		document.NewFileSource(cfg.Document.Path),
		store.ChunkStore(),
		chunker.New(),
		embedder,
	)

	return &ingestStack{
		cfg:       cfg,
		store:     store,
		embedding: embedding,
		embedder:  embedder,
		ingestor:  ingestor,
	}, nil
}

func (s *ingestStack) Close() {
	if err := s.embedding.Close(); err != nil {
		logger.Warn("close embedding service: %v", err)
	}
	if err := s.store.Close(); err != nil {
		logger.Warn("close chunk cache: %v", err)
	}
}

// app is the fully wired chat application.
type app struct {
	*ingestStack

	generation driven.GenerationService
	sessions   *services.SessionStore
	chat       *services.ChatService
}

// buildApp wires the chat pipeline end to end. Both AI backends are pinged
// before any document work: a misconfigured backend is a startup error,
// never a runtime surprise.
func buildApp(ctx context.Context) (*app, error) {
	stack, err := buildIngestStack()
	if err != nil {
		return nil, err
	}

	generation, err := ai.CreateAndValidateGenerationService(stack.cfg.Generation)
	if err != nil {
		stack.Close()
		return nil, err
	}

	vectors, err := stack.ingestor.Load(ctx)
	if err != nil {
		generation.Close()
		stack.Close()
		return nil, err
	}

	var prompts driven.PromptStore
	if ps, err := file.NewPromptStore(""); err != nil {
		logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
	} else {
		prompts = ps
	}

	retrieval := services.NewRetrievalEngine(vectors, stack.embedder, stack.cfg.Retrieval)
	validator := services.NewGroundednessValidator(stack.embedder, stack.cfg.Validation)
	sessions := services.NewSessionStore(stack.cfg.Session)
	chat := services.NewChatService(
		retrieval,
		validator,
		generation,
		sessions,
		stack.store.UnansweredStore(),
		prompts,
		stack.cfg.Generation,
	)

	return &app{
		ingestStack: stack,
		generation:  generation,
		sessions:    sessions,
		chat:        chat,
	}, nil
}

func (a *app) Close() {
	if err := a.generation.Close(); err != nil {
		logger.Warn("close generation service: %v", err)
	}
	a.ingestStack.Close()
}

// Package chat orchestrates the conversational pipeline: intent gate,
// optional translation, retrieval, prompt composition and generation.
package chat

import (
	"context"
	"strings"

	"recipe-chat/internal/core/ai/cache"
	"recipe-chat/internal/core/ai/gemini"
	"recipe-chat/internal/core/retrieval"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Result is the outcome of one fully processed user turn.
type Result struct {
	Generated string
	Retrieved []retrieval.Match
	Source    gemini.Source
	OffTopic  bool
	SessionID string
}

// Generator is the prompt-in/text-out boundary to the generation backend.
// Satisfied by *gemini.Client.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) gemini.Result
}

// Translator is the optional translation collaborator boundary.
// Satisfied by *translate.Client.
type Translator interface {
	Enabled() bool
	Translate(ctx context.Context, text string) (string, bool)
}

// Service runs the recipe chat pipeline. Stateless per turn apart from the
// ephemeral session log; the retriever and its index are immutable after
// construction, so concurrent requests share them without locking.
type Service struct {
	config       *config.Config
	retriever    *retrieval.Retriever
	ai           Generator
	translator   Translator
	cacheManager *cache.Manager
	sessions     *SessionStore
}

// NewService creates the chat pipeline service.
func NewService(cfg *config.Config, retriever *retrieval.Retriever, ai Generator, translator Translator, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		retriever:    retriever,
		ai:           ai,
		translator:   translator,
		cacheManager: cacheManager,
		sessions:     NewSessionStore(),
	}
}

// Respond processes one user turn end to end. Blank input is the only error;
// every collaborator failure degrades to well-formed text instead.
func (s *Service) Respond(ctx context.Context, message string, topN int, sessionID string) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, common.ErrEmptyInput
	}

	sessionID = s.sessions.Resolve(sessionID)
	s.sessions.Append(sessionID, Turn{Role: RoleUser, Content: message})

	topN = s.retriever.ClampTopN(topN)

	// Intent gate: one classification call, reject early when off-topic.
	intentReply := s.generate(ctx, IntentPrompt(message))
	if !IsFoodRelated(intentReply.Content) {
		common.LogInfo("Intent gate rejected utterance",
			zap.String("session_id", sessionID),
		)
		s.sessions.Append(sessionID, Turn{Role: RoleAssistant, Content: OffTopicMessage})
		return &Result{
			Generated: OffTopicMessage,
			Source:    intentReply.Source,
			OffTopic:  true,
			SessionID: sessionID,
		}, nil
	}

	// Optional translation into the corpus working language; retrieval uses
	// the translated text, the prompt keeps the user's original words.
	query := message
	if s.translator != nil && s.translator.Enabled() {
		if translated, ok := s.translator.Translate(ctx, message); ok {
			query = translated
		}
	}

	matches := s.retriever.Retrieve(query, topN)
	common.LogInfo("Recipes retrieved",
		zap.Int("matches", len(matches)),
		zap.Int("top_n", topN),
		zap.String("session_id", sessionID),
	)

	prompt := ComposePrompt(message, matches, topN)
	generated := s.generate(ctx, prompt)

	s.sessions.Append(sessionID, Turn{Role: RoleAssistant, Content: generated.Content})

	return &Result{
		Generated: generated.Content,
		Retrieved: matches,
		Source:    generated.Source,
		SessionID: sessionID,
	}, nil
}

// History returns the ordered conversation log for a session.
func (s *Service) History(sessionID string) []Turn {
	return s.sessions.History(sessionID)
}

// IndexBuilt reports whether the similarity index is available.
func (s *Service) IndexBuilt() bool {
	return s.retriever.IndexBuilt()
}

// CorpusSize returns the number of recipes behind the retriever.
func (s *Service) CorpusSize() int {
	return s.retriever.CorpusSize()
}

// generate runs a prompt through the cache and the generation client. Cached
// entries only ever hold live model output, so replaying them keeps the
// mock/error semantics of fresh calls intact.
func (s *Service) generate(ctx context.Context, prompt string) gemini.Result {
	if content, ok := s.cacheManager.Get(ctx, prompt); ok {
		return gemini.Result{Content: content, Source: gemini.SourceModel}
	}

	result := s.ai.Generate(ctx, prompt, "")
	if result.Source == gemini.SourceModel {
		s.cacheManager.Set(ctx, prompt, result.Content)
	}
	return result
}

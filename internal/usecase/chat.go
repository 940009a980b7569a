package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"portfolio-chat/internal/domain"
)

const defaultModel = "gemini-1.5-flash"

var errEmptyMessages = errors.New("messages must not be empty")

// Generator produces text for a single flattened prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, cfg domain.GenerationConfig) (string, error)
}

// ChatService answers one chat turn, either from the static developer record
// or by calling the generation endpoint with a flattened prompt.
type ChatService struct {
	llm       Generator
	model     string
	developer domain.DeveloperInfo
	keywords  []string
	genConfig domain.GenerationConfig
	logger    *slog.Logger
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithKeywords replaces DefaultKeywords. Matching stays case-insensitive and
// follows the given order.
func WithKeywords(keywords []string) ChatOption {
	return func(s *ChatService) {
		s.keywords = normalizeKeywords(keywords)
	}
}

func WithLogger(logger *slog.Logger) ChatOption {
	return func(s *ChatService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ReplyOutput is the answer to one chat turn. Keyword is set when Intercepted.
type ReplyOutput struct {
	Text        string
	Intercepted bool
	Keyword     string
}

func NewChatService(llm Generator, model string, developer domain.DeveloperInfo, opts ...ChatOption) (*ChatService, error) {
	if llm == nil {
		return nil, errors.New("usecase: generator must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	if strings.TrimSpace(developer.Name) == "" {
		return nil, errors.New("usecase: developer name must not be empty")
	}
	s := &ChatService{
		llm:       llm,
		model:     model,
		developer: developer,
		keywords:  normalizeKeywords(DefaultKeywords),
		genConfig: DefaultGenerationConfig,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reply answers the last message in messages, treating every earlier entry
// as history. messages must not be empty.
func (s *ChatService) Reply(ctx context.Context, messages []domain.Message) (ReplyOutput, error) {
	if len(messages) == 0 {
		return ReplyOutput{}, newError(ErrorInvalidInput, "empty_messages", errEmptyMessages)
	}
	last := len(messages) - 1
	utterance := messages[last].Content

	if keyword, ok := MatchKeyword(utterance, s.keywords); ok {
		s.logger.InfoContext(ctx, "developer info intercepted", "keyword", keyword)
		return ReplyOutput{
			Text:        FormatDeveloperInfo(s.developer),
			Intercepted: true,
			Keyword:     keyword,
		}, nil
	}

	prompt := BuildPrompt(messages[:last], utterance)
	text, err := s.llm.Generate(ctx, s.model, prompt, s.genConfig)
	if err != nil {
		s.logger.ErrorContext(ctx, "generation failed", "model", s.model, "history", last, "err", err)
		return ReplyOutput{}, newError(ErrorGenerationFailed, "generation_error", err)
	}
	s.logger.InfoContext(ctx, "generation complete", "model", s.model, "history", last, "chars", len(text))
	return ReplyOutput{Text: text}, nil
}

// UpstreamStatusCode extracts the HTTP status of a generation failure, if any.
func UpstreamStatusCode(err error) (int, bool) {
	var statusErr interface{ HTTPStatusCode() int }
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

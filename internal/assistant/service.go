package assistant

import (
	"clima/internal/models"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	ModeRules = "rules"
	ModeLLM   = "llm"
)

var (
	ErrUnknownMode    = errors.New("unknown mode")
	ErrLLMUnavailable = errors.New("llm mode is not configured")
)

// Asker answers a free-form question, e.g. a chat-completion client
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Publisher receives every question entry after it is answered
type Publisher interface {
	Publish(ctx context.Context, entry models.QuestionEntry) error
}

// Service routes a question to the rule engine or to the LLM and journals
// the outcome
type Service struct {
	engine      *Engine
	llm         Asker
	publisher   Publisher
	defaultMode string
}

// NewService creates a service. llm may be nil, in which case only rules
// mode is available.
func NewService(engine *Engine, llm Asker, defaultMode string) *Service {
	if defaultMode == "" {
		defaultMode = ModeRules
	}
	return &Service{engine: engine, llm: llm, defaultMode: defaultMode}
}

// WithPublisher sets where answered questions are journaled
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// DefaultMode returns the mode used when Ask gets an empty mode
func (s *Service) DefaultMode() string {
	return s.defaultMode
}

// Ask answers question in the given mode. The returned entry is filled in
// even when err is non-nil.
func (s *Service) Ask(ctx context.Context, question, mode string) (models.QuestionEntry, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = s.defaultMode
	}

	entry := models.QuestionEntry{
		AskedAt:  time.Now().UTC(),
		Question: question,
		Mode:     mode,
	}

	var err error
	switch mode {
	case ModeRules:
		var resp Response
		resp, err = s.engine.Respond(question)
		entry.Intent = resp.Intent.String()
		entry.Answer = resp.Text
	case ModeLLM:
		entry.Intent = ModeLLM
		if s.llm == nil {
			err = ErrLLMUnavailable
			break
		}
		entry.Answer, err = s.llm.Ask(ctx, question)
	default:
		return entry, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if err != nil {
		entry.Error = err.Error()
	}
	s.publish(ctx, entry)
	return entry, err
}

func (s *Service) publish(ctx context.Context, entry models.QuestionEntry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		log.Printf("Failed to journal question: %v", err)
	}
}

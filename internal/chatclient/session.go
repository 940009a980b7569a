// Package chatclient is the client side of the chat endpoint. A Session owns
// the displayed conversation and allows one outstanding request at a time.
package chatclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"portfolio-chat/internal/domain"
)

// Apology is appended as the assistant reply when a turn fails.
const Apology = "I'm sorry, I encountered an error. Please try again later."

var (
	ErrEmptyInput = errors.New("chatclient: message must not be empty")
	ErrBusy       = errors.New("chatclient: a request is already in flight")
)

// Transport delivers the full conversation and returns the assistant reply.
type Transport interface {
	Send(ctx context.Context, messages []domain.Message) (string, error)
}

// Session is the in-memory conversation shown to the user.
// States: idle -> (Submit) -> waiting -> (reply or error) -> idle.
type Session struct {
	transport Transport

	mu       sync.Mutex
	messages []domain.Message
	inFlight bool
	lastErr  string
}

// Greeting is the default first assistant message for a developer's assistant.
func Greeting(developerName string) string {
	return fmt.Sprintf("Hi there! I'm your AI assistant created by %s. How can I help you today?", developerName)
}

func NewSession(transport Transport, greeting string) (*Session, error) {
	if transport == nil {
		return nil, errors.New("chatclient: transport must not be nil")
	}
	s := &Session{transport: transport}
	if strings.TrimSpace(greeting) != "" {
		s.messages = append(s.messages, domain.AssistantMessage(greeting))
	}
	return s, nil
}

// Submit sends one user turn. Blank input and submissions while a request is
// in flight are rejected without touching the conversation. A transport
// failure is not returned: it appends Apology and is exposed via LastError.
func (s *Session) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inFlight = true
	s.lastErr = ""
	s.messages = append(s.messages, domain.UserMessage(input))
	history := make([]domain.Message, len(s.messages))
	copy(history, s.messages)
	s.mu.Unlock()

	reply, err := s.transport.Send(ctx, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.lastErr = err.Error()
		s.messages = append(s.messages, domain.AssistantMessage(Apology))
		return nil
	}
	s.messages = append(s.messages, domain.AssistantMessage(reply))
	return nil
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// LastError is the raw error text of the most recent failed turn. It is
// cleared when the next turn starts.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

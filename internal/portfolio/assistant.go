// Package portfolio implements the add-a-project assistant. It keeps the
// conversation and the ordered portfolio item list as plain data; rendering
// lives in render.go and never mutates state.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio-chat/internal/domain"
)

const (
	Greeting     = "Hi there! I'm your portfolio assistant. I can help you add new projects to your portfolio. Would you like to add a new project now?"
	FormPrompt   = "Great! Let's add a new project to your portfolio. Please fill out the form below."
	DefaultReply = "I'm here to help you add projects to your portfolio. Would you like to add a new project?"
)

var (
	ErrEmptyInput      = errors.New("portfolio: message must not be empty")
	ErrIncompleteDraft = errors.New("portfolio: title and description are required")
)

// Store is an ordered, append-only list of portfolio items.
type Store interface {
	Append(ctx context.Context, item domain.PortfolioItem) error
	List(ctx context.Context) ([]domain.PortfolioItem, error)
}

// Assistant holds one portfolio-assistant conversation.
type Assistant struct {
	store Store

	mu       sync.Mutex
	messages []domain.Message
	formOpen bool
}

func NewAssistant(store Store) (*Assistant, error) {
	if store == nil {
		return nil, errors.New("portfolio: store must not be nil")
	}
	return &Assistant{
		store:    store,
		messages: []domain.Message{domain.AssistantMessage(Greeting)},
	}, nil
}

// WantsToAdd reports whether input asks to add a project: it must mention
// "add" together with "project" or "portfolio".
func WantsToAdd(input string) bool {
	s := strings.ToLower(input)
	return strings.Contains(s, "add") &&
		(strings.Contains(s, "project") || strings.Contains(s, "portfolio"))
}

// Send records a user message and the assistant's canned reply.
func (a *Assistant) Send(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.messages = append(a.messages, domain.UserMessage(input))
	reply := DefaultReply
	if WantsToAdd(input) {
		reply = FormPrompt
		a.formOpen = true
	}
	a.messages = append(a.messages, domain.AssistantMessage(reply))
	return reply, nil
}

// Submit appends the draft to the store, confirms it in the conversation and
// closes the form. An incomplete draft changes nothing.
func (a *Assistant) Submit(ctx context.Context, d Draft) (domain.PortfolioItem, string, error) {
	if !d.Complete() {
		return domain.PortfolioItem{}, "", ErrIncompleteDraft
	}

	item := d.Item(newID(), now())

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Append(ctx, item); err != nil {
		return domain.PortfolioItem{}, "", fmt.Errorf("portfolio: append item: %w", err)
	}
	reply := fmt.Sprintf("Great! I've added \"%s\" to your portfolio. Would you like to add another project?", item.Title)
	a.messages = append(a.messages, domain.AssistantMessage(reply))
	a.formOpen = false
	return item, reply, nil
}

// Items lists the portfolio in insertion order.
func (a *Assistant) Items(ctx context.Context) ([]domain.PortfolioItem, error) {
	return a.store.List(ctx)
}

// Messages returns a copy of the conversation.
func (a *Assistant) Messages() []domain.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// FormOpen reports whether the add-project form should be shown.
func (a *Assistant) FormOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.formOpen
}

var newID = func() string {
	return uuid.NewString()
}

var now = func() time.Time {
	return time.Now().UTC()
}

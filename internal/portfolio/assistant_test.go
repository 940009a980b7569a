package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portfolio-chat/internal/domain"
)

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Append(_ context.Context, _ domain.PortfolioItem) error {
	return f.err
}

func fixedClock(t *testing.T) time.Time {
	t.Helper()
	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	prevID, prevNow := newID, now
	newID = func() string { return "item-1" }
	now = func() time.Time { return ts }
	t.Cleanup(func() { newID, now = prevID, prevNow })
	return ts
}

func newTestAssistant(t *testing.T) (*Assistant, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	a, err := NewAssistant(store)
	require.NoError(t, err)
	return a, store
}

func TestNewAssistant_ValidatesStore(t *testing.T) {
	_, err := NewAssistant(nil)
	require.Error(t, err)
}

func TestNewAssistant_StartsWithGreeting(t *testing.T) {
	a, _ := newTestAssistant(t)
	require.Equal(t, []domain.Message{domain.AssistantMessage(Greeting)}, a.Messages())
	require.False(t, a.FormOpen())
}

func TestWantsToAdd(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"I want to add a project", true},
		{"ADD something to my Portfolio", true},
		{"add", false},
		{"show me my projects", false},
		{"portfolio please", false},
		{"Can you address my project?", true}, // substring match: "address" contains "add"
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, WantsToAdd(tc.input), tc.input)
	}
}

func TestSend_OpensFormOnAddIntent(t *testing.T) {
	a, _ := newTestAssistant(t)

	reply, err := a.Send("Let's add a new project")
	require.NoError(t, err)
	require.Equal(t, FormPrompt, reply)
	require.True(t, a.FormOpen())

	msgs := a.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, domain.UserMessage("Let's add a new project"), msgs[1])
	require.Equal(t, domain.AssistantMessage(FormPrompt), msgs[2])
}

func TestSend_DefaultReply(t *testing.T) {
	a, _ := newTestAssistant(t)

	reply, err := a.Send("hello")
	require.NoError(t, err)
	require.Equal(t, DefaultReply, reply)
	require.False(t, a.FormOpen())
	require.Len(t, a.Messages(), 3)
}

func TestSend_EmptyInput(t *testing.T) {
	a, _ := newTestAssistant(t)

	_, err := a.Send("   ")
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Len(t, a.Messages(), 1)
}

func TestSubmit_AppendsItemAndClosesForm(t *testing.T) {
	ts := fixedClock(t)
	a, store := newTestAssistant(t)
	_, err := a.Send("add project")
	require.NoError(t, err)

	d := NewDraft()
	d.Title = "Personal Blog"
	d.Description = "A blog built with Go"
	d.AddTag("Go")
	d.AddTag(" HTMX ")

	item, reply, err := a.Submit(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, domain.PortfolioItem{
		ID:          "item-1",
		Title:       "Personal Blog",
		Description: "A blog built with Go",
		Tags:        []string{"Go", "HTMX"},
		ImageURL:    domain.DefaultPortfolioImageURL,
		CreatedAt:   ts,
	}, item)
	require.Equal(t, `Great! I've added "Personal Blog" to your portfolio. Would you like to add another project?`, reply)
	require.False(t, a.FormOpen())

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.PortfolioItem{item}, items)

	msgs := a.Messages()
	require.Equal(t, domain.AssistantMessage(reply), msgs[len(msgs)-1])
}

func TestSubmit_IncompleteDraft(t *testing.T) {
	a, store := newTestAssistant(t)

	_, _, err := a.Submit(context.Background(), Draft{Title: "Only title"})
	require.ErrorIs(t, err, ErrIncompleteDraft)

	_, _, err = a.Submit(context.Background(), Draft{Description: "Only description"})
	require.ErrorIs(t, err, ErrIncompleteDraft)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
	require.Len(t, a.Messages(), 1)
}

func TestSubmit_StoreError(t *testing.T) {
	a, err := NewAssistant(&failingStore{err: errors.New("table missing")})
	require.NoError(t, err)

	_, _, err = a.Submit(context.Background(), Draft{Title: "t", Description: "d"})
	require.ErrorContains(t, err, "table missing")
	require.Len(t, a.Messages(), 1)
}

func TestSubmit_PreservesOrder(t *testing.T) {
	a, _ := newTestAssistant(t)
	for _, title := range []string{"first", "second", "third"} {
		_, _, err := a.Submit(context.Background(), Draft{Title: title, Description: "d"})
		require.NoError(t, err)
	}

	items, err := a.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "first", items[0].Title)
	require.Equal(t, "third", items[2].Title)
}

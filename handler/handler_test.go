package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"portfolio-chat/internal/domain"
	"portfolio-chat/internal/portfolio"
	"portfolio-chat/internal/usecase"
)

type stubChat struct {
	out   usecase.ReplyOutput
	err   error
	in    []domain.Message
	calls int
}

func (s *stubChat) Reply(_ context.Context, messages []domain.Message) (usecase.ReplyOutput, error) {
	s.calls++
	s.in = messages
	return s.out, s.err
}

type failingStore struct{}

func (failingStore) Append(context.Context, domain.PortfolioItem) error {
	return errors.New("table unavailable")
}

func (failingStore) List(context.Context) ([]domain.PortfolioItem, error) {
	return nil, errors.New("table unavailable")
}

func makeEvent(method, path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func newTestHandler(t *testing.T, chat ChatUseCase, store portfolio.Store) *Handler {
	t.Helper()
	var assistant PortfolioAssistant
	if store != nil {
		a, err := portfolio.NewAssistant(store)
		require.NoError(t, err)
		assistant = a
	}
	h, err := NewHandler(chat, assistant, nil)
	require.NoError(t, err)
	return h
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil, nil, nil)
	require.Error(t, err)
}

// ---- /chat ----

func TestHandle_ChatHappyPath(t *testing.T) {
	uc := &stubChat{out: usecase.ReplyOutput{Text: "I'm doing well."}}
	h := newTestHandler(t, uc, nil)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat",
		`{"messages":[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello"},{"role":"user","content":"How are you?"}]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []domain.Message{
		domain.UserMessage("Hi"),
		domain.AssistantMessage("Hello"),
		domain.UserMessage("How are you?"),
	}, uc.in)

	out := parseBody[chatResponse](t, resp.Body)
	require.Equal(t, "I'm doing well.", out.Response)
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestHandle_ChatInvalidBody(t *testing.T) {
	for _, body := range []string{`not-json`, ``} {
		uc := &stubChat{}
		h := newTestHandler(t, uc, nil)

		resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat", body))
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Zero(t, uc.calls)

		out := parseBody[errorResponse](t, resp.Body)
		require.Equal(t, "Failed to generate response", out.Error)
		require.NotEmpty(t, out.Details)
	}
}

func TestHandle_ChatMapsUseCaseErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		details string
	}{
		{
			name:    "empty messages",
			err:     &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "empty_messages", Err: errors.New("messages must not be empty")},
			status:  http.StatusBadRequest,
			message: "Invalid request",
			details: "messages must not be empty",
		},
		{
			name:    "generation failed",
			err:     &usecase.Error{Code: usecase.ErrorGenerationFailed, Reason: "generation_error", Err: errors.New("gemini: API key is not configured")},
			status:  http.StatusInternalServerError,
			message: "Failed to generate response",
			details: "gemini: API key is not configured",
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Failed to generate response",
			details: "boom",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, &stubChat{err: tc.err}, nil)

			resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat", `{"messages":[]}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			out := parseBody[errorResponse](t, resp.Body)
			require.Equal(t, tc.message, out.Error)
			require.Equal(t, tc.details, out.Details)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h := newTestHandler(t, &stubChat{out: usecase.ReplyOutput{Text: "ok"}}, nil)

	event := makeEvent(http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}

func TestHandle_HealthAndUnknownRoutes(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, nil)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodGet, "/health", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", parseBody[healthResponse](t, resp.Body).Status)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodGet, "/chat", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodOptions, "/chat", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, resp.Body)
}

// ---- /portfolio ----

func TestHandle_PortfolioDisabled(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, nil)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodGet, "/portfolio/items", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandle_PortfolioFlow(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, portfolio.NewMemoryStore())
	ctx := context.Background()

	resp, err := h.Handle(ctx, makeEvent(http.MethodPost, "/portfolio/messages", `{"message":"hello"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msg := parseBody[portfolioMessageResponse](t, resp.Body)
	require.Equal(t, portfolio.DefaultReply, msg.Reply)
	require.False(t, msg.FormOpen)

	resp, err = h.Handle(ctx, makeEvent(http.MethodPost, "/portfolio/messages", `{"message":"I want to add a project"}`))
	require.NoError(t, err)
	msg = parseBody[portfolioMessageResponse](t, resp.Body)
	require.Equal(t, portfolio.FormPrompt, msg.Reply)
	require.True(t, msg.FormOpen)
	require.Len(t, msg.Messages, 5)

	resp, err = h.Handle(ctx, makeEvent(http.MethodPost, "/portfolio/items",
		`{"title":"Chatbot","description":"A Gemini chat backend","tags":["go"," ","aws"]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := parseBody[portfolioItemResponse](t, resp.Body)
	require.Equal(t, "Chatbot", added.Item.Title)
	require.Equal(t, []string{"go", "aws"}, added.Item.Tags)
	require.Equal(t, domain.DefaultPortfolioImageURL, added.Item.ImageURL)
	require.Equal(t, `Great! I've added "Chatbot" to your portfolio. Would you like to add another project?`, added.Reply)

	resp, err = h.Handle(ctx, makeEvent(http.MethodGet, "/portfolio/items", ""))
	require.NoError(t, err)
	list := parseBody[portfolioListResponse](t, resp.Body)
	require.Len(t, list.Items, 1)
	require.Equal(t, added.Item.ID, list.Items[0].ID)

	resp, err = h.Handle(ctx, makeEvent(http.MethodGet, "/portfolio/", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	require.Contains(t, resp.Body, "Chatbot")
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
}

func TestHandle_PortfolioRejectsBadInput(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, portfolio.NewMemoryStore())
	ctx := context.Background()

	cases := []struct {
		name string
		path string
		body string
	}{
		{name: "empty message", path: "/portfolio/messages", body: `{"message":"   "}`},
		{name: "malformed message", path: "/portfolio/messages", body: `{`},
		{name: "incomplete draft", path: "/portfolio/items", body: `{"title":"Only a title"}`},
		{name: "malformed draft", path: "/portfolio/items", body: `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := h.Handle(ctx, makeEvent(http.MethodPost, tc.path, tc.body))
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "Invalid request", parseBody[errorResponse](t, resp.Body).Error)
		})
	}

	resp, err := h.Handle(ctx, makeEvent(http.MethodGet, "/portfolio/items", ""))
	require.NoError(t, err)
	require.Empty(t, parseBody[portfolioListResponse](t, resp.Body).Items)
}

func TestHandle_PortfolioStoreFailure(t *testing.T) {
	h := newTestHandler(t, &stubChat{}, failingStore{})
	ctx := context.Background()

	resp, err := h.Handle(ctx, makeEvent(http.MethodPost, "/portfolio/items", `{"title":"t","description":"d"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := parseBody[errorResponse](t, resp.Body)
	require.Equal(t, "Failed to add project", out.Error)
	require.Contains(t, out.Details, "table unavailable")

	resp, err = h.Handle(ctx, makeEvent(http.MethodGet, "/portfolio", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
}

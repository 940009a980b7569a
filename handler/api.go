package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"portfolio-chat/internal/domain"
	"portfolio-chat/internal/portfolio"
	"portfolio-chat/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"

	msgGenerationFailed = "Failed to generate response"
	msgInvalidRequest   = "Invalid request"
	msgAddFailed        = "Failed to add project"
	msgListFailed       = "Failed to list projects"
	msgNotFound         = "Not found"
)

type ChatUseCase interface {
	Reply(ctx context.Context, messages []domain.Message) (usecase.ReplyOutput, error)
}

type PortfolioAssistant interface {
	Send(input string) (string, error)
	Submit(ctx context.Context, d portfolio.Draft) (domain.PortfolioItem, string, error)
	Items(ctx context.Context) ([]domain.PortfolioItem, error)
	Messages() []domain.Message
	FormOpen() bool
}

type chatRequest struct {
	Messages []domain.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type portfolioMessageRequest struct {
	Message string `json:"message"`
}

type portfolioMessageResponse struct {
	Reply    string           `json:"reply"`
	FormOpen bool             `json:"formOpen"`
	Messages []domain.Message `json:"messages"`
}

type portfolioItemResponse struct {
	Item  domain.PortfolioItem `json:"item"`
	Reply string               `json:"reply"`
}

type portfolioListResponse struct {
	Items []domain.PortfolioItem `json:"items"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Handler serves the chat and portfolio endpoints. The Lambda entry point
// (Handle) and the gin router (NewRouter) both delegate to it.
type Handler struct {
	chat      ChatUseCase
	assistant PortfolioAssistant
	logger    *slog.Logger
}

// NewHandler validates dependencies. assistant may be nil, in which case the
// portfolio routes answer 404.
func NewHandler(chat ChatUseCase, assistant PortfolioAssistant, logger *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{chat: chat, assistant: assistant, logger: logger}, nil
}

func (h *Handler) health() (int, any) {
	return http.StatusOK, healthResponse{Status: "ok"}
}

// chatTurn implements POST /chat.
func (h *Handler) chatTurn(ctx context.Context, corrID string, body []byte) (int, any) {
	var req chatRequest
	if err := decodeJSON(body, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid chat request", "correlation_id", corrID, "err", err)
		return http.StatusInternalServerError, errorResponse{Error: msgGenerationFailed, Details: err.Error()}
	}

	out, err := h.chat.Reply(ctx, req.Messages)
	if err != nil {
		status, resp := chatErrorResponse(err)
		attrs := []any{"correlation_id", corrID, "status", status, "err", err}
		if upstream, ok := usecase.UpstreamStatusCode(err); ok {
			attrs = append(attrs, "upstream_status", upstream)
		}
		h.logger.ErrorContext(ctx, "chat turn failed", attrs...)
		return status, resp
	}
	h.logger.InfoContext(ctx, "chat turn complete",
		"correlation_id", corrID,
		"messages", len(req.Messages),
		"intercepted", out.Intercepted,
	)
	return http.StatusOK, chatResponse{Response: out.Text}
}

func chatErrorResponse(err error) (int, errorResponse) {
	var usecaseErr *usecase.Error
	if !errors.As(err, &usecaseErr) {
		return http.StatusInternalServerError, errorResponse{Error: msgGenerationFailed, Details: err.Error()}
	}
	if usecaseErr.Code == usecase.ErrorInvalidInput {
		return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: usecaseErr.Details()}
	}
	return http.StatusInternalServerError, errorResponse{Error: msgGenerationFailed, Details: usecaseErr.Details()}
}

// portfolioMessage implements POST /portfolio/messages.
func (h *Handler) portfolioMessage(body []byte) (int, any) {
	if h.assistant == nil {
		return http.StatusNotFound, errorResponse{Error: msgNotFound}
	}
	var req portfolioMessageRequest
	if err := decodeJSON(body, &req); err != nil {
		return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()}
	}
	reply, err := h.assistant.Send(req.Message)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()}
	}
	return http.StatusOK, portfolioMessageResponse{
		Reply:    reply,
		FormOpen: h.assistant.FormOpen(),
		Messages: h.assistant.Messages(),
	}
}

// portfolioAdd implements POST /portfolio/items.
func (h *Handler) portfolioAdd(ctx context.Context, corrID string, body []byte) (int, any) {
	if h.assistant == nil {
		return http.StatusNotFound, errorResponse{Error: msgNotFound}
	}
	draft := portfolio.NewDraft()
	if err := decodeJSON(body, &draft); err != nil {
		return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()}
	}
	item, reply, err := h.assistant.Submit(ctx, draft)
	if errors.Is(err, portfolio.ErrIncompleteDraft) {
		return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()}
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "portfolio add failed", "correlation_id", corrID, "err", err)
		return http.StatusInternalServerError, errorResponse{Error: msgAddFailed, Details: err.Error()}
	}
	h.logger.InfoContext(ctx, "portfolio item added", "correlation_id", corrID, "item_id", item.ID)
	return http.StatusCreated, portfolioItemResponse{Item: item, Reply: reply}
}

// portfolioList implements GET /portfolio/items.
func (h *Handler) portfolioList(ctx context.Context) (int, any) {
	if h.assistant == nil {
		return http.StatusNotFound, errorResponse{Error: msgNotFound}
	}
	items, err := h.assistant.Items(ctx)
	if err != nil {
		return http.StatusInternalServerError, errorResponse{Error: msgListFailed, Details: err.Error()}
	}
	if items == nil {
		items = []domain.PortfolioItem{}
	}
	return http.StatusOK, portfolioListResponse{Items: items}
}

// portfolioPage implements GET /portfolio. On success the returned body is HTML.
func (h *Handler) portfolioPage(ctx context.Context) (int, []byte, any) {
	status, payload := h.portfolioList(ctx)
	if status != http.StatusOK {
		return status, nil, payload
	}
	var buf bytes.Buffer
	if err := portfolio.RenderHTML(&buf, payload.(portfolioListResponse).Items); err != nil {
		return http.StatusInternalServerError, nil, errorResponse{Error: msgListFailed, Details: err.Error()}
	}
	return http.StatusOK, buf.Bytes(), nil
}

func decodeJSON(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is empty")
	}
	return json.Unmarshal(body, v)
}

// correlationID returns the first non-empty correlation header, matched
// case-insensitively, or a fresh id.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return newCorrelationID()
}

var newCorrelationID = func() string {
	return uuid.NewString()
}

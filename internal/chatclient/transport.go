package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-chat/internal/domain"
)

const fallbackError = "Failed to get response"

type chatRequest struct {
	Messages []domain.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
	Details  string `json:"details"`
}

// HTTPTransport posts the conversation to a chat server's /chat endpoint.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for baseURL. httpClient may be nil.
// No timeout is applied beyond what ctx and httpClient impose.
func NewHTTPTransport(baseURL string, httpClient *http.Client) (*HTTPTransport, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("chatclient: base URL must not be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPTransport{baseURL: baseURL, httpClient: httpClient}, nil
}

func (t *HTTPTransport) Send(ctx context.Context, messages []domain.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("chatclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chatclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatclient: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chatclient: read response body: %w", err)
	}

	var payload chatResponse
	decErr := json.Unmarshal(raw, &payload)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		switch {
		case payload.Details != "":
			return "", errors.New(payload.Details)
		case payload.Error != "":
			return "", errors.New(payload.Error)
		default:
			return "", errors.New(fallbackError)
		}
	}
	if decErr != nil {
		return "", fmt.Errorf("chatclient: decode response: %w", decErr)
	}
	return payload.Response, nil
}

type portfolioListResponse struct {
	Items   []domain.PortfolioItem `json:"items"`
	Error   string                 `json:"error"`
	Details string                 `json:"details"`
}

// PortfolioItems fetches the server's portfolio list from /portfolio/items.
func (t *HTTPTransport) PortfolioItems(ctx context.Context) ([]domain.PortfolioItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/portfolio/items", nil)
	if err != nil {
		return nil, fmt.Errorf("chatclient: create request: %w", err)
	}
	res, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatclient: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var payload portfolioListResponse
	decErr := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&payload)
	if res.StatusCode != http.StatusOK {
		if payload.Error != "" {
			return nil, fmt.Errorf("chatclient: portfolio: %s", payload.Error)
		}
		return nil, fmt.Errorf("chatclient: portfolio: unexpected status %d", res.StatusCode)
	}
	if decErr != nil {
		return nil, fmt.Errorf("chatclient: decode response: %w", decErr)
	}
	return payload.Items, nil
}

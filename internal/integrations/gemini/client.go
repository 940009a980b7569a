package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"portfolio-chat/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 60 * time.Second
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// generateRequest is the minimal request shape for models.generateContent.
type generateRequest struct {
	Contents         []content               `json:"contents"`
	GenerationConfig domain.GenerationConfig `json:"generationConfig"`
}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// tokenPayload is the JSON shape accepted from Parameter Store for the API key.
type tokenPayload struct {
	Token string `json:"token"`
}

// Getter reads a named parameter, e.g. from AWS SSM Parameter Store.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx responses from the generation endpoint.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gemini: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client calls the Gemini generateContent REST endpoint with a single-turn prompt.
type Client struct {
	baseURL    string
	httpClient *http.Client

	apiKey    string
	getter    Getter
	paramName string

	keyMu       sync.Mutex
	resolvedKey string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets a static API key. It takes precedence over WithParamStore.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithParamStore makes the client fetch its API key from the named parameter
// on first use. The value may be a raw key or JSON of the form {"token":"..."}.
func WithParamStore(getter Getter, name string) Option {
	return func(c *Client) {
		c.getter = getter
		c.paramName = strings.TrimSpace(name)
	}
}

// NewClient creates a Client. A client without any key source is still
// returned; every Generate call then fails, so a missing credential shows up
// as a generation failure at call time.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	if c.getter == nil {
		return "", errors.New("gemini: API key is not configured")
	}

	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if c.resolvedKey != "" {
		return c.resolvedKey, nil
	}
	// Only a successful fetch is cached. The fetch outlives a cancelled caller.
	key, err := fetchAPIKeyFromParamStore(context.WithoutCancel(ctx), c.getter, c.paramName)
	if err != nil {
		return "", err
	}
	c.resolvedKey = key
	return key, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func generateURL(baseURL, model string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if !strings.HasSuffix(base, "/v1beta") {
		base += "/v1beta"
	}
	return base + "/models/" + url.PathEscape(model) + ":generateContent"
}

// Generate sends prompt as one user turn and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, model, prompt string, cfg domain.GenerationConfig) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", errors.New("gemini: model must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := generateURL(c.baseURL, model)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if reqErr != nil {
		return "", fmt.Errorf("gemini: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	raw, err := c.doJSONRequest(req, endpoint)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}

	var payload generateResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return "", fmt.Errorf("gemini: decode response: %w", decErr)
	}
	if len(payload.Candidates) == 0 {
		if payload.PromptFeedback != nil && payload.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini: prompt blocked: %s", payload.PromptFeedback.BlockReason)
		}
		return "", errors.New("gemini: no candidates in response")
	}

	candidate := payload.Candidates[0]
	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 && !completedNormally(candidate.FinishReason) {
		return "", fmt.Errorf("gemini: candidate blocked: %s", candidate.FinishReason)
	}
	return sb.String(), nil
}

// completedNormally reports whether a finish reason means the model stopped on
// its own or hit the token limit. An empty reason is treated as normal.
func completedNormally(reason string) bool {
	switch reason {
	case "", "STOP", "MAX_TOKENS":
		return true
	}
	return false
}

func (c *Client) doJSONRequest(req *http.Request, endpoint string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        endpoint,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

func fetchAPIKeyFromParamStore(ctx context.Context, getter Getter, name string) (string, error) {
	if getter == nil {
		return "", errors.New("gemini: paramstore getter is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("gemini: key parameter name is empty")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("gemini: fetch key from paramstore: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		if raw == "" {
			return "", errors.New("gemini: API key is empty")
		}
		return raw, nil
	}
	var tp tokenPayload
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return "", fmt.Errorf("gemini: unmarshal paramstore key value as JSON: %w", err)
	}
	if tp.Token == "" {
		return "", errors.New("gemini: API key is empty")
	}
	return tp.Token, nil
}

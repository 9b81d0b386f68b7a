package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"righthome-agent/internal/domain"
)

// chatRequest is the request shape for the chat endpoint. Only role and
// content travel upstream.
type chatRequest struct {
	ChatHistory []domain.ChatMessage `json:"chat_history"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware
// context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("chatapi: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused client for the RightHome chat endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client for the given chat endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("chatapi: endpoint must not be empty")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolvedHTTPClient returns the configured HTTP client, or a default if
// none was set (e.g. in tests that nil out the field).
func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Send posts the full transcript to the chat endpoint and returns the
// decoded reply. History may be empty for the initial exchange. The reply
// keeps its raw body so the caller can run the options recovery path.
func (c *Client) Send(ctx context.Context, history []domain.ChatMessage) (*Reply, error) {
	if history == nil {
		history = []domain.ChatMessage{}
	}
	body, err := json.Marshal(chatRequest{ChatHistory: history})
	if err != nil {
		return nil, fmt.Errorf("chatapi: marshal request: %w", err)
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if reqErr != nil {
		return nil, fmt.Errorf("chatapi: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.doJSONRequest(req, c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("chatapi: request failed: %w", err)
	}

	var reply Reply
	if decErr := json.Unmarshal(raw, &reply); decErr != nil {
		return nil, fmt.Errorf("chatapi: decode response: %w", decErr)
	}
	reply.raw = raw
	return &reply, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

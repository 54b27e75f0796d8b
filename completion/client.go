// Package completion talks to OpenAI-compatible completion backends and
// applies priority-order fallback across them.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fernlabs/storechat/domain"
)

// Client is an OpenAI-compatible completion API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new completion client. The timeout bounds every
// individual backend call so a stalled backend cannot block fallback.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatCompletionRequest represents the chat completion request.
type ChatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature *float64             `json:"temperature,omitempty"`
	MaxTokens   *int                 `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse represents the chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int                 `json:"index"`
	Message      *domain.ChatMessage `json:"message,omitempty"`
	FinishReason string              `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error *APIError `json:"error"`
}

// APIError is a structured error returned by a completion backend.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       string `json:"code,omitempty"`
	Param      string `json:"param,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error [%d]: %s (type: %s)", e.HTTPStatus, e.Message, e.Type)
}

// QuotaExhausted reports whether the error is a recoverable rate or usage
// limit on this backend, as opposed to a hard failure. Structured fields
// are checked first; message text only as a last resort.
func (e *APIError) QuotaExhausted() bool {
	if e.HTTPStatus == http.StatusTooManyRequests {
		return true
	}
	switch e.Type {
	case "insufficient_quota", "rate_limit_exceeded":
		return true
	}
	switch e.Code {
	case "insufficient_quota", "rate_limit_exceeded":
		return true
	}
	return quotaMessageHeuristic(e.Message)
}

// quotaMessageHeuristic is the documented fallback for backends that do not
// tag quota errors with structured type or code fields. This is the only
// place error text is inspected.
func quotaMessageHeuristic(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "quota") || strings.Contains(m, "rate limit")
}

// CreateChatCompletion sends a chat completion request. Backend errors with
// a decodable error payload are returned as *APIError so callers can
// classify them.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			errResp.Error.HTTPStatus = resp.StatusCode
			return nil, errResp.Error
		}
		return nil, fmt.Errorf("completion API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

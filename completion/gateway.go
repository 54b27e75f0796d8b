package completion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fernlabs/storechat/domain"
)

// Backend is the minimal completion surface the gateway needs.
type Backend interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements Backend.
var _ Backend = (*Client)(nil)

// AllExhaustedError is returned when every configured backend reported
// quota exhaustion and none produced a reply.
type AllExhaustedError struct {
	Last error // last exhaustion reason
}

func (e *AllExhaustedError) Error() string {
	return fmt.Sprintf("all completion backends exhausted: %v", e.Last)
}

func (e *AllExhaustedError) Unwrap() error {
	return e.Last
}

// ErrNoBackends is returned when the gateway has no configured models.
var ErrNoBackends = errors.New("no completion backends configured")

// Gateway obtains a single reply from an ordered list of backend model
// identifiers. Priority order is fixed at configuration time and never
// reordered at runtime.
type Gateway struct {
	backend Backend
	models  []string
}

// NewGateway creates a gateway over the given backend and model list.
func NewGateway(backend Backend, models []string) *Gateway {
	return &Gateway{backend: backend, models: models}
}

// Complete tries each model in priority order. A reply with non-empty
// content wins. Quota exhaustion on one backend moves on to the next; any
// other failure aborts immediately so hard failures are never masked by
// cheaper fallbacks. If every backend is exhausted, Complete returns an
// AllExhaustedError carrying the last exhaustion reason.
func (g *Gateway) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if len(g.models) == 0 {
		return "", ErrNoBackends
	}

	var lastExhausted error
	for _, model := range g.models {
		resp, err := g.backend.CreateChatCompletion(ctx, &ChatCompletionRequest{
			Model:    model,
			Messages: messages,
		})
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.QuotaExhausted() {
				log.Printf("WARN: completion backend %s exhausted, trying next: %v", model, err)
				lastExhausted = err
				continue
			}
			return "", err
		}

		reply := firstContent(resp)
		if reply == "" {
			return "", fmt.Errorf("completion backend %s returned an empty reply", model)
		}
		return reply, nil
	}

	return "", &AllExhaustedError{Last: lastExhausted}
}

func firstContent(resp *ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return ""
	}
	return resp.Choices[0].Message.Content
}

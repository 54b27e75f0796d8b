// Package api provides HTTP handlers for storechat.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fernlabs/storechat/catalog"
	"github.com/fernlabs/storechat/config"
	"github.com/fernlabs/storechat/domain"
	"github.com/fernlabs/storechat/policy"
	"github.com/fernlabs/storechat/prompt"
	"github.com/fernlabs/storechat/store"
)

// Completer obtains one reply for an assembled message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// SnapshotSource provides the currently published catalog snapshot.
type SnapshotSource interface {
	Snapshot() *catalog.Snapshot
}

// Handler handles HTTP requests.
type Handler struct {
	store     store.Store
	completer Completer
	snapshots SnapshotSource
	assembler *prompt.Assembler
	facts     domain.StoreFacts
	policy    *policy.Engine
	config    *config.Config
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, completer Completer, snapshots SnapshotSource, assembler *prompt.Assembler, facts domain.StoreFacts, policyEngine *policy.Engine, config *config.Config) *Handler {
	return &Handler{
		store:     store,
		completer: completer,
		snapshots: snapshots,
		assembler: assembler,
		facts:     facts,
		policy:    policyEngine,
		config:    config,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.POST("/chat/message", h.ChatSingleTurn)

	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/v1/catalog", h.GetCatalog)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

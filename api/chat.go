package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fernlabs/storechat/domain"
)

// degradedReply is what callers see when no backend produced an answer.
// The underlying cause is logged for operators, never leaked to the user.
const degradedReply = "Sorry, I could not get an answer right now. Please try again in a moment."

// Chat handles a multi-turn chat request.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "messages is required"})
	}
	return h.respond(c, req.SessionID, req.Messages)
}

// ChatSingleTurn handles the single-turn variant, normalized internally to
// one user-role message.
// POST /chat/message
func (h *Handler) ChatSingleTurn(c echo.Context) error {
	var req domain.SingleTurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: req.Message}}
	return h.respond(c, req.SessionID, history)
}

// respond runs the shared chat pipeline: validate configuration, apply the
// inbound policy, assemble the prompt off the current snapshot and obtain a
// reply. Never blocks on catalog sync.
func (h *Handler) respond(c echo.Context, sessionID string, history []domain.ChatMessage) error {
	ctx := c.Request().Context()

	// Fail fast before any remote work.
	if h.config.OpenAIAPIKey == "" {
		log.Printf("ERROR: chat request rejected: completion provider not configured")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "completion provider not configured"})
	}

	userMessage := lastUserContent(history)
	if decision := h.evaluatePolicy(ctx, userMessage, len(history)); decision == "block" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "request refused"})
	}

	messages := h.assembler.Build(h.facts, h.snapshots.Snapshot(), history)

	reply, err := h.completer.Complete(ctx, messages)
	if err != nil {
		log.Printf("ERROR: completion failed: %v", err)
		reply = degradedReply
	}

	h.recordTranscript(ctx, sessionID, userMessage, reply)

	return c.JSON(http.StatusOK, domain.ChatResponse{Reply: reply, SessionID: sessionID})
}

// evaluatePolicy returns the policy decision, failing open on engine errors
// so a broken policy cannot take chat down.
func (h *Handler) evaluatePolicy(ctx context.Context, message string, historyLen int) string {
	if h.policy == nil {
		return "allow"
	}
	decision, err := h.policy.Evaluate(ctx, map[string]interface{}{
		"message":     message,
		"history_len": historyLen,
	})
	if err != nil {
		log.Printf("WARN: policy evaluation failed, allowing request: %v", err)
		return "allow"
	}
	return decision
}

// recordTranscript stores the latest user turn and the reply, best-effort.
func (h *Handler) recordTranscript(ctx context.Context, sessionID, userMessage, reply string) {
	if h.store == nil || sessionID == "" {
		return
	}
	if _, err := h.store.GetOrCreateSession(ctx, sessionID, "anonymous"); err != nil {
		log.Printf("WARN: failed to get or create session: %v", err)
		return
	}
	now := time.Now()
	turns := []domain.Message{
		{MessageID: "msg_" + uuid.New().String()[:8], SessionID: sessionID, Role: domain.RoleUser, Content: userMessage, CreatedAt: now},
		{MessageID: "msg_" + uuid.New().String()[:8], SessionID: sessionID, Role: domain.RoleAssistant, Content: reply, CreatedAt: now.Add(time.Millisecond)},
	}
	for i := range turns {
		if err := h.store.CreateMessage(ctx, &turns[i]); err != nil {
			log.Printf("WARN: failed to record transcript message: %v", err)
		}
	}
}

func lastUserContent(history []domain.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

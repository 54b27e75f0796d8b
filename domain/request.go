package domain

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string        `json:"session_id,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}

// SingleTurnRequest is the body of POST /chat/message, the single-turn
// variant. It is normalized internally to one user-role message.
type SingleTurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the reply envelope for both chat endpoints.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
}

// Package domain defines the core domain models for storechat.
package domain

import (
	"encoding/json"
	"time"
)

// Message roles understood by the completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape shared by the
// HTTP API and the completion backends.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Unknown is the sentinel for fields with no usable value, such as a
// product without a price or an absent store-facts entry.
const Unknown = "—"

// Product is one catalog entry. Handle uniquely identifies a product within
// one snapshot. Products are immutable once constructed.
type Product struct {
	Title  string   `json:"title"`
	Handle string   `json:"handle"`
	Tags   []string `json:"tags,omitempty"`
	// Price is pre-formatted as "amount currency", Unknown when absent.
	Price string `json:"price"`
	// URL is the public product page, derived from the shop domain and
	// handle at normalization time.
	URL string `json:"url"`
}

// StoreFacts is the static store information block loaded once at startup.
// Every field is optional; an entirely empty StoreFacts is valid.
type StoreFacts struct {
	OfficeHours string `json:"office_hours,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Promo       string `json:"promo,omitempty"`
	Returns     string `json:"returns,omitempty"`
	Shipping    string `json:"shipping,omitempty"`
	Tracking    string `json:"tracking,omitempty"`
}

// Session represents a conversation session.
type Session struct {
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Message represents a single recorded message in a session transcript.
type Message struct {
	MessageID string          `json:"message_id"`
	SessionID string          `json:"session_id"`
	Role      string          `json:"role"` // user, assistant, system
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

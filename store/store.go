// Package store defines the conversation transcript storage interface and
// its sqlite implementation.
package store

import (
	"context"

	"github.com/fernlabs/storechat/domain"
)

// Store defines the interface for transcript persistence. The default
// deployment uses an in-memory sqlite database, so transcripts live only
// for the lifetime of the process.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error)

	// Lifecycle
	Close() error
}

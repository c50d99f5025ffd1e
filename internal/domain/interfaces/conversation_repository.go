package interfaces

import (
	"context"

	"github.com/skchalotra/skgpt/internal/domain/entities"
)

// ConversationRepository holds message histories keyed by conversation id.
//
// GetMessages never fails for an unknown or expired id; it returns a fresh
// history seeded with the system message instead. SaveMessages replaces the
// stored history and restarts its expiry window.
type ConversationRepository interface {
	GetMessages(ctx context.Context, conversationID string) ([]*entities.Message, error)
	SaveMessages(ctx context.Context, conversationID string, messages []*entities.Message) error
}

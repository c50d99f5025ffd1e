package entities

import (
	"time"
)

// Conversation is the history kept for one conversation id. The first
// message is always the system message.
type Conversation struct {
	ID        string     `json:"id"`
	Messages  []*Message `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// NewConversation stores a copy of messages that expires ttl after now.
func NewConversation(id string, messages []*Message, now time.Time, ttl time.Duration) *Conversation {
	return &Conversation{
		ID:        id,
		Messages:  CloneMessages(messages),
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (c *Conversation) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// CloneMessages returns a copy of the message slice. Messages themselves are
// never mutated once appended, so the pointers are shared.
func CloneMessages(messages []*Message) []*Message {
	out := make([]*Message, len(messages))
	copy(out, messages)
	return out
}

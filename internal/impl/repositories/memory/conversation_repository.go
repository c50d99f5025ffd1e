package repositories_memory

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
)

// MemoryConversationRepository keeps histories in process memory and drops
// them after ttl without a write.
//
// Two concurrent turns on the same conversation id are not serialized: the
// later SaveMessages wins.
type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations map[string]*entities.Conversation
	ttl           time.Duration
	seed          func(now time.Time) *entities.Message
	now           func() time.Time
	logger        *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryConversationRepository creates the store. seed builds the system
// message of a fresh conversation. A positive cleanupInterval starts a
// janitor goroutine that is stopped by Close.
func NewMemoryConversationRepository(ttl, cleanupInterval time.Duration, seed func(now time.Time) *entities.Message, logger *zap.Logger) *MemoryConversationRepository {
	repo := &MemoryConversationRepository{
		conversations: make(map[string]*entities.Conversation),
		ttl:           ttl,
		seed:          seed,
		now:           time.Now,
		logger:        logger,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go repo.janitor(cleanupInterval)
	} else {
		close(repo.done)
	}

	return repo
}

func (r *MemoryConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]*entities.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	conversation, ok := r.conversations[conversationID]
	if ok && conversation.Expired(now) {
		r.logger.Debug("Conversation expired",
			zap.String("conversation_id", conversationID),
			zap.String("expired", humanize.Time(conversation.ExpiresAt)))
		delete(r.conversations, conversationID)
		ok = false
	}
	if !ok {
		return []*entities.Message{r.seed(now)}, nil
	}

	return entities.CloneMessages(conversation.Messages), nil
}

func (r *MemoryConversationRepository) SaveMessages(ctx context.Context, conversationID string, messages []*entities.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation := entities.NewConversation(conversationID, messages, r.now(), r.ttl)
	r.conversations[conversationID] = conversation

	r.logger.Debug("Saved conversation",
		zap.String("conversation_id", conversationID),
		zap.Int("messages", len(messages)),
		zap.String("expires", humanize.Time(conversation.ExpiresAt)))
	return nil
}

// Len returns the number of unexpired conversations.
func (r *MemoryConversationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	count := 0
	for _, conversation := range r.conversations {
		if !conversation.Expired(now) {
			count++
		}
	}
	return count
}

// Close stops the janitor. The stored conversations are simply dropped.
func (r *MemoryConversationRepository) Close() error {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
	return nil
}

func (r *MemoryConversationRepository) janitor(interval time.Duration) {
	defer close(r.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := r.deleteExpired(); removed > 0 {
				r.logger.Info("Removed expired conversations",
					zap.Int("removed", removed),
					zap.Int("live", r.Len()))
			}
		case <-r.stop:
			return
		}
	}
}

func (r *MemoryConversationRepository) deleteExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, conversation := range r.conversations {
		if conversation.Expired(now) {
			delete(r.conversations, id)
			removed++
		}
	}
	return removed
}

var _ interfaces.ConversationRepository = (*MemoryConversationRepository)(nil)

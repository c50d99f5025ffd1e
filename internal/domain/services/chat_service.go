package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/errs"
	"github.com/skchalotra/skgpt/internal/domain/events"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
)

type ChatService interface {
	// Generate runs one turn for a stored conversation and persists the
	// resulting history.
	Generate(ctx context.Context, conversationID, userMessage string) (string, error)

	// Reply runs one turn over a caller-owned history and returns the
	// extended history together with the answer.
	Reply(ctx context.Context, history []*entities.Message, userMessage string) ([]*entities.Message, string, error)

	// NewHistory returns a history holding only the system message.
	NewHistory() []*entities.Message

	// OnToolCall registers a listener called right before each tool runs.
	OnToolCall(listener ToolCallListener)
}

// ToolCallListener runs on the goroutine of the turn, so whatever it writes
// is ordered before the answer of that turn.
type ToolCallListener func(toolCall entities.ToolCall)

type chatService struct {
	agent            *entities.Agent
	aiModel          interfaces.AIModelIntegration
	toolService      ToolService
	conversationRepo interfaces.ConversationRepository
	logger           *zap.Logger

	listenersMu sync.RWMutex
	listeners   []ToolCallListener
}

// NewChatService wires the completion loop. conversationRepo may be nil for
// callers that only use Reply.
func NewChatService(
	agent *entities.Agent,
	aiModel interfaces.AIModelIntegration,
	toolService ToolService,
	conversationRepo interfaces.ConversationRepository,
	logger *zap.Logger,
) *chatService {
	return &chatService{
		agent:            agent,
		aiModel:          aiModel,
		toolService:      toolService,
		conversationRepo: conversationRepo,
		logger:           logger,
	}
}

func (s *chatService) OnToolCall(listener ToolCallListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *chatService) NewHistory() []*entities.Message {
	return []*entities.Message{s.agent.SystemMessage(time.Now())}
}

func (s *chatService) Generate(ctx context.Context, conversationID, userMessage string) (string, error) {
	if conversationID == "" {
		return "", errs.ValidationErrorf("conversation ID is required")
	}
	if userMessage == "" {
		return "", errs.ValidationErrorf("message is required")
	}
	if s.conversationRepo == nil {
		return "", errs.InternalErrorf("no conversation store configured")
	}

	history, err := s.conversationRepo.GetMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}

	messages, answer, err := s.Reply(ctx, history, userMessage)
	if err != nil {
		s.logger.Error("Turn failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return "", err
	}
	if IsFarewell(userMessage) {
		return answer, nil
	}

	if err := s.conversationRepo.SaveMessages(ctx, conversationID, messages); err != nil {
		return "", err
	}
	return answer, nil
}

func (s *chatService) Reply(ctx context.Context, history []*entities.Message, userMessage string) ([]*entities.Message, string, error) {
	messages := entities.CloneMessages(history)
	messages = append(messages, entities.NewMessage(entities.RoleUser, userMessage))

	if IsFarewell(userMessage) {
		return messages, defaults.FarewellMessage, nil
	}

	tools := s.toolService.Definitions()
	maxRounds := s.agent.MaxToolRounds

	// Every round but the last ends in tool calls; the bound stops a model
	// that keeps calling tools without converging.
	for round := 0; ; round++ {
		if round > maxRounds {
			s.logger.Warn("Tool rounds exhausted without a final answer",
				zap.Int("max_rounds", maxRounds),
				zap.Int("messages", len(messages)))
			return messages, defaults.ExhaustedMessage, nil
		}

		s.logger.Info("Starting AI processing iteration", zap.Int("iteration", round+1))
		request := entities.NewCompletionRequest(s.agent, messages, tools)
		response, err := s.aiModel.Complete(ctx, request)
		if err != nil {
			return messages, "", fmt.Errorf("completion call %d failed: %w", round+1, err)
		}

		if response.Message == nil {
			return messages, defaults.EmptyAnswerMessage, nil
		}
		messages = append(messages, response.Message)

		if !response.Message.HasToolCalls() {
			if response.Message.Content == "" {
				return messages, defaults.EmptyAnswerMessage, nil
			}
			return messages, response.Message.Content, nil
		}

		for _, toolCall := range response.Message.ToolCalls {
			content := s.executeToolCall(ctx, toolCall)
			messages = append(messages, entities.NewToolMessage(toolCall.ID, content))
		}
	}
}

func (s *chatService) executeToolCall(ctx context.Context, toolCall entities.ToolCall) string {
	name := toolCall.Function.Name
	s.notifyToolCall(toolCall)

	result, err := s.toolService.Invoke(ctx, name, toolCall.Function.Arguments)
	content := toolResultText(name, result, err)

	errorMsg := ""
	if err != nil {
		errorMsg = err.Error()
	}
	events.PublishToolCallCompleted(entities.NewToolCallEvent(toolCall.ID, name, toolCall.Function.Arguments, content, errorMsg))

	return content
}

func (s *chatService) notifyToolCall(toolCall entities.ToolCall) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, listener := range s.listeners {
		listener(toolCall)
	}
}

// IsFarewell matches "bye" in any case. Surrounding whitespace is not trimmed.
func IsFarewell(userMessage string) bool {
	return strings.ToLower(userMessage) == "bye"
}

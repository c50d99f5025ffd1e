package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/errs"
	"github.com/skchalotra/skgpt/internal/domain/events"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
)

// Mock completion service for testing
type mockAIModel struct {
	mock.Mock
}

func (m *mockAIModel) Complete(ctx context.Context, request *entities.CompletionRequest) (*entities.CompletionResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.CompletionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock conversation store for testing
type mockConversationRepository struct {
	mock.Mock
}

func (m *mockConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]*entities.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).([]*entities.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepository) SaveMessages(ctx context.Context, conversationID string, messages []*entities.Message) error {
	args := m.Called(ctx, conversationID, messages)
	return args.Error(0)
}

type stubTool struct {
	name   entities.ToolName
	result string
	err    error
	calls  []string
}

func (s *stubTool) Name() entities.ToolName { return s.name }

func (s *stubTool) Description() string { return "stub" }

func (s *stubTool) Parameters() []entities.Parameter {
	return []entities.Parameter{{Name: "searchTopic", Type: "string", Required: true}}
}

func (s *stubTool) Execute(ctx context.Context, arguments string) (string, error) {
	s.calls = append(s.calls, arguments)
	return s.result, s.err
}

func textResponse(content string) *entities.CompletionResponse {
	return &entities.CompletionResponse{
		Message:      entities.NewAssistantMessage(content, nil),
		FinishReason: "stop",
	}
}

func toolCallResponse(ids ...string) *entities.CompletionResponse {
	calls := make([]entities.ToolCall, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, entities.ToolCall{
			ID:   id,
			Type: "function",
			Function: entities.ToolCallFunction{
				Name:      string(entities.ToolWebSearch),
				Arguments: `{"searchTopic":"weather in Mumbai"}`,
			},
		})
	}
	return &entities.CompletionResponse{
		Message:      entities.NewAssistantMessage("", calls),
		FinishReason: "tool_calls",
	}
}

func newTestChatService(t *testing.T, aiModel *mockAIModel, repo *mockConversationRepository, tool *stubTool) *chatService {
	t.Helper()
	toolSvc, err := NewToolService([]entities.Tool{tool}, zap.NewNop())
	require.NoError(t, err)

	agent := defaults.ServerAgent()
	if repo == nil {
		return NewChatService(agent, aiModel, toolSvc, nil, zap.NewNop())
	}
	return NewChatService(agent, aiModel, toolSvc, repo, zap.NewNop())
}

func roles(messages []*entities.Message) []entities.Role {
	out := make([]entities.Role, len(messages))
	for i, msg := range messages {
		out[i] = msg.Role
	}
	return out
}

func TestChatService_Generate_DirectAnswer(t *testing.T) {
	aiModel := new(mockAIModel)
	repo := new(mockConversationRepository)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, repo, tool)

	ctx := context.Background()
	system := entities.NewMessage(entities.RoleSystem, "persona")

	repo.On("GetMessages", ctx, "c1").Return([]*entities.Message{system}, nil)
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("4"), nil).Once()

	var saved []*entities.Message
	repo.On("SaveMessages", ctx, "c1", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).([]*entities.Message)
	}).Return(nil).Once()

	answer, err := service.Generate(ctx, "c1", "What is 2+2?")

	require.NoError(t, err)
	assert.Equal(t, "4", answer)
	require.Len(t, saved, 3)
	assert.Equal(t, []entities.Role{entities.RoleSystem, entities.RoleUser, entities.RoleAssistant}, roles(saved))
	assert.Equal(t, "What is 2+2?", saved[1].Content)
	assert.Equal(t, "4", saved[2].Content)
	assert.Empty(t, tool.calls)
	aiModel.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestChatService_Reply_SendsAgentSettings(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, nil, tool)

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.MatchedBy(func(req *entities.CompletionRequest) bool {
		return req.Model == defaults.DefaultModel &&
			req.Temperature == defaults.ServerTemperature &&
			req.ToolChoice == entities.ToolChoiceAuto &&
			len(req.Tools) == 1 &&
			req.Tools[0].Name == entities.ToolWebSearch
	})).Return(textResponse("hello"), nil).Once()

	_, answer, err := service.Reply(ctx, service.NewHistory(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
	aiModel.AssertExpectations(t)
}

func TestChatService_Reply_ToolCalls(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch, result: "sunny"}
	service := newTestChatService(t, aiModel, nil, tool)

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.Anything).Return(toolCallResponse("call_1", "call_2"), nil).Once()
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("It is sunny in Mumbai."), nil).Once()

	history := service.NewHistory()
	messages, answer, err := service.Reply(ctx, history, "weather in Mumbai")

	require.NoError(t, err)
	assert.Equal(t, "It is sunny in Mumbai.", answer)
	assert.Equal(t, []entities.Role{
		entities.RoleSystem,
		entities.RoleUser,
		entities.RoleAssistant,
		entities.RoleTool,
		entities.RoleTool,
		entities.RoleAssistant,
	}, roles(messages))

	requested := map[string]int{}
	for _, call := range messages[2].ToolCalls {
		requested[call.ID]++
	}
	answered := map[string]int{}
	for _, msg := range messages[3:5] {
		answered[msg.ToolCallID]++
		assert.Equal(t, "sunny", msg.Content)
	}
	assert.Equal(t, requested, answered)
	assert.Equal(t, []string{`{"searchTopic":"weather in Mumbai"}`, `{"searchTopic":"weather in Mumbai"}`}, tool.calls)

	// the caller's history is untouched
	assert.Len(t, history, 1)
	aiModel.AssertNumberOfCalls(t, "Complete", 2)
}

func TestChatService_Reply_SearchFailureFedBack(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch, result: defaults.SearchFailedMessage}
	service := newTestChatService(t, aiModel, nil, tool)

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.Anything).Return(toolCallResponse("call_1"), nil).Once()
	aiModel.On("Complete", ctx, mock.MatchedBy(func(req *entities.CompletionRequest) bool {
		last := req.Messages[len(req.Messages)-1]
		return last.Role == entities.RoleTool && last.Content == defaults.SearchFailedMessage
	})).Return(textResponse("I could not reach the search service."), nil).Once()

	_, answer, err := service.Reply(ctx, service.NewHistory(), "weather in Mumbai")

	require.NoError(t, err)
	assert.Equal(t, "I could not reach the search service.", answer)
	aiModel.AssertExpectations(t)
}

func TestChatService_Reply_Farewell(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, nil, tool)

	for _, input := range []string{"bye", "BYE", "Bye"} {
		t.Run(input, func(t *testing.T) {
			_, answer, err := service.Reply(context.Background(), service.NewHistory(), input)

			require.NoError(t, err)
			assert.Equal(t, defaults.FarewellMessage, answer)
		})
	}

	aiModel.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestChatService_Reply_FarewellIsNotTrimmed(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, nil, tool)

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("See you!"), nil).Once()

	_, answer, err := service.Reply(ctx, service.NewHistory(), " bye ")

	require.NoError(t, err)
	assert.Equal(t, "See you!", answer)
}

func TestChatService_Generate_FarewellNotPersisted(t *testing.T) {
	aiModel := new(mockAIModel)
	repo := new(mockConversationRepository)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, repo, tool)

	ctx := context.Background()
	repo.On("GetMessages", ctx, "c1").Return(service.NewHistory(), nil)

	answer, err := service.Generate(ctx, "c1", "bye")

	require.NoError(t, err)
	assert.Equal(t, defaults.FarewellMessage, answer)
	repo.AssertNotCalled(t, "SaveMessages", mock.Anything, mock.Anything, mock.Anything)
	aiModel.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestChatService_Generate_RoundsExhausted(t *testing.T) {
	aiModel := new(mockAIModel)
	repo := new(mockConversationRepository)
	tool := &stubTool{name: entities.ToolWebSearch, result: "more"}
	service := newTestChatService(t, aiModel, repo, tool)

	ctx := context.Background()
	repo.On("GetMessages", ctx, "c1").Return(service.NewHistory(), nil)
	aiModel.On("Complete", ctx, mock.Anything).Return(toolCallResponse("call"), nil)

	var saved []*entities.Message
	repo.On("SaveMessages", ctx, "c1", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).([]*entities.Message)
	}).Return(nil).Once()

	answer, err := service.Generate(ctx, "c1", "loop forever")

	require.NoError(t, err)
	assert.Equal(t, defaults.ExhaustedMessage, answer)
	aiModel.AssertNumberOfCalls(t, "Complete", entities.DefaultMaxToolRounds+1)
	assert.Len(t, tool.calls, entities.DefaultMaxToolRounds+1)
	// system + user + 6 * (assistant + tool)
	assert.Len(t, saved, 2+2*(entities.DefaultMaxToolRounds+1))
}

func TestChatService_Reply_EmptyAnswer(t *testing.T) {
	tool := &stubTool{name: entities.ToolWebSearch}
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		aiModel := new(mockAIModel)
		service := newTestChatService(t, aiModel, nil, tool)
		aiModel.On("Complete", ctx, mock.Anything).Return(textResponse(""), nil).Once()

		messages, answer, err := service.Reply(ctx, service.NewHistory(), "hello")

		require.NoError(t, err)
		assert.Equal(t, defaults.EmptyAnswerMessage, answer)
		assert.Len(t, messages, 3)
	})

	t.Run("no choices", func(t *testing.T) {
		aiModel := new(mockAIModel)
		service := newTestChatService(t, aiModel, nil, tool)
		aiModel.On("Complete", ctx, mock.Anything).Return(&entities.CompletionResponse{}, nil).Once()

		messages, answer, err := service.Reply(ctx, service.NewHistory(), "hello")

		require.NoError(t, err)
		assert.Equal(t, defaults.EmptyAnswerMessage, answer)
		assert.Equal(t, []entities.Role{entities.RoleSystem, entities.RoleUser}, roles(messages))
	})
}

func TestChatService_Reply_UnknownTool(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, nil, tool)

	ctx := context.Background()
	unknown := &entities.CompletionResponse{
		Message: entities.NewAssistantMessage("", []entities.ToolCall{{
			ID:       "call_9",
			Type:     "function",
			Function: entities.ToolCallFunction{Name: "calculator", Arguments: `{"x":1}`},
		}}),
	}
	aiModel.On("Complete", ctx, mock.Anything).Return(unknown, nil).Once()
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("done"), nil).Once()

	messages, answer, err := service.Reply(ctx, service.NewHistory(), "add one")

	require.NoError(t, err)
	assert.Equal(t, "done", answer)
	toolMsg := messages[3]
	assert.Equal(t, entities.RoleTool, toolMsg.Role)
	assert.Equal(t, "call_9", toolMsg.ToolCallID)
	assert.Equal(t, "tool calculator not found", toolMsg.Content)
	assert.Empty(t, tool.calls)
}

func TestChatService_Generate_CompletionError(t *testing.T) {
	aiModel := new(mockAIModel)
	repo := new(mockConversationRepository)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, repo, tool)

	ctx := context.Background()
	failure := errors.New("connection refused")
	repo.On("GetMessages", ctx, "c1").Return(service.NewHistory(), nil)
	aiModel.On("Complete", ctx, mock.Anything).Return(nil, failure).Once()

	answer, err := service.Generate(ctx, "c1", "hello")

	assert.ErrorIs(t, err, failure)
	assert.Empty(t, answer)
	repo.AssertNotCalled(t, "SaveMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatService_Generate_Validation(t *testing.T) {
	aiModel := new(mockAIModel)
	repo := new(mockConversationRepository)
	tool := &stubTool{name: entities.ToolWebSearch}
	service := newTestChatService(t, aiModel, repo, tool)

	t.Run("missing conversation id", func(t *testing.T) {
		_, err := service.Generate(context.Background(), "", "hello")
		assert.IsType(t, &errs.ValidationError{}, err)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := service.Generate(context.Background(), "c1", "")
		assert.IsType(t, &errs.ValidationError{}, err)
	})

	t.Run("no store", func(t *testing.T) {
		storeless := newTestChatService(t, aiModel, nil, tool)
		_, err := storeless.Generate(context.Background(), "c1", "hello")
		assert.IsType(t, &errs.InternalError{}, err)
	})
}

func TestChatService_Reply_NotifiesToolCallListeners(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch, result: "sunny"}
	service := newTestChatService(t, aiModel, nil, tool)

	var seen []string
	service.OnToolCall(func(toolCall entities.ToolCall) {
		// the tool has not run yet for this call
		seen = append(seen, fmt.Sprintf("%s:%d", toolCall.ID, len(tool.calls)))
	})

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.Anything).Return(toolCallResponse("call_1", "call_2"), nil).Once()
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("done"), nil).Once()

	_, _, err := service.Reply(ctx, service.NewHistory(), "weather in Mumbai")

	require.NoError(t, err)
	assert.Equal(t, []string{"call_1:0", "call_2:1"}, seen)
}

func TestChatService_Reply_PublishesCompletedToolCalls(t *testing.T) {
	aiModel := new(mockAIModel)
	tool := &stubTool{name: entities.ToolWebSearch, result: "sunny"}
	service := newTestChatService(t, aiModel, nil, tool)

	var mu sync.Mutex
	results := map[string]string{}
	unsubscribe := events.SubscribeToToolCallCompleted(func(data events.ToolCallCompletedData) {
		mu.Lock()
		defer mu.Unlock()
		results[data.Event.ToolCallID] = data.Event.Result
	})
	defer unsubscribe()

	ctx := context.Background()
	aiModel.On("Complete", ctx, mock.Anything).Return(toolCallResponse("call_published"), nil).Once()
	aiModel.On("Complete", ctx, mock.Anything).Return(textResponse("done"), nil).Once()

	_, _, err := service.Reply(ctx, service.NewHistory(), "weather in Mumbai")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return results["call_published"] == "sunny"
	}, time.Second, 10*time.Millisecond)
}

package integrations

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
)

// GroqIntegration talks to Groq through its OpenAI-compatible chat
// completions endpoint.
type GroqIntegration struct {
	client  openai.Client
	baseURL string
	model   string
	logger  *zap.Logger
}

// NewGroqIntegration creates a new Groq integration. An empty apiKey is not
// rejected here; the service refuses the first request instead.
func NewGroqIntegration(baseURL, apiKey, model string, logger *zap.Logger, opts ...option.RequestOption) (*GroqIntegration, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: 300 * time.Second}),
		// the tool loop is the only retry budget
		option.WithMaxRetries(0),
	}
	clientOpts = append(clientOpts, opts...)

	return &GroqIntegration{
		client:  openai.NewClient(clientOpts...),
		baseURL: baseURL,
		model:   model,
		logger:  logger,
	}, nil
}

// Complete sends one chat completion request. The model configured on the
// integration is used when the request does not name one.
func (g *GroqIntegration) Complete(ctx context.Context, request *entities.CompletionRequest) (*entities.CompletionResponse, error) {
	model := request.Model
	if model == "" {
		model = g.model
	}

	params := openai.ChatCompletionNewParams{
		Messages:    convertToOpenAIMessages(request.Messages),
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(request.Temperature),
	}
	if len(request.Tools) > 0 {
		params.Tools = convertToOpenAITools(request.Tools)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String(string(request.ToolChoice)),
		}
	}

	g.logger.Debug("Sending chat completion",
		zap.String("model", model),
		zap.Int("messages", len(request.Messages)),
		zap.Int("tools", len(request.Tools)))

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("groq chat completion failed: %w", err)
	}

	response := &entities.CompletionResponse{
		Usage: entities.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	if len(completion.Choices) == 0 {
		g.logger.Warn("No choices in chat completion response", zap.String("model", model))
		return response, nil
	}

	choice := completion.Choices[0]
	response.FinishReason = choice.FinishReason

	toolCalls := make([]entities.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, entities.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: entities.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	if len(toolCalls) == 0 {
		toolCalls = nil
	}
	response.Message = entities.NewAssistantMessage(choice.Message.Content, toolCalls)

	g.logger.Info("AI response analysis",
		zap.String("finishReason", choice.FinishReason),
		zap.Int("toolCallsCount", len(toolCalls)),
		zap.Bool("hasContent", choice.Message.Content != ""),
		zap.Int("totalTokens", response.Usage.TotalTokens))

	return response, nil
}

// convertToOpenAIMessages converts message entities to the chat completions format
func convertToOpenAIMessages(messages []*entities.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case entities.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case entities.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case entities.RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case entities.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, tc := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Function.Name,
							Arguments: tc.Function.Arguments,
						},
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}
	return result
}

func convertToOpenAITools(definitions []entities.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, len(definitions))
	for i, def := range definitions {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        string(def.Name),
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.JSONSchema()),
			},
		)
	}
	return result
}

// Ensure GroqIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*GroqIntegration)(nil)

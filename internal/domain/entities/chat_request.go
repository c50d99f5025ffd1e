package entities

type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// CompletionRequest is one call to the completion service.
type CompletionRequest struct {
	Model       string
	Messages    []*Message
	Temperature float64
	Tools       []ToolDefinition
	ToolChoice  ToolChoice
}

func NewCompletionRequest(agent *Agent, messages []*Message, tools []ToolDefinition) *CompletionRequest {
	choice := ToolChoiceAuto
	if len(tools) == 0 {
		choice = ToolChoiceNone
	}
	return &CompletionRequest{
		Model:       agent.Model,
		Messages:    messages,
		Temperature: agent.Temperature,
		Tools:       tools,
		ToolChoice:  choice,
	}
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse carries the assistant message, which is nil when the
// service returned no choices.
type CompletionResponse struct {
	Message      *Message
	FinishReason string
	Usage        Usage
}

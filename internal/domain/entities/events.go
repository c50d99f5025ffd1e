package entities

import (
	"time"

	"github.com/google/uuid"
)

// ToolCallEvent is published whenever a tool is invoked.
type ToolCallEvent struct {
	ID         string    `json:"id"`
	ToolCallID string    `json:"tool_call_id"`
	ToolName   string    `json:"tool_name"`
	Arguments  string    `json:"arguments"`
	Result     string    `json:"result"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewToolCallEvent(toolCallID, toolName, arguments, result, errorMsg string) *ToolCallEvent {
	return &ToolCallEvent{
		ID:         uuid.New().String(),
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Arguments:  arguments,
		Result:     result,
		Error:      errorMsg,
		Timestamp:  time.Now(),
	}
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// Message is one turn of a conversation. Content is empty for an assistant
// turn that only requests tool calls.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string, toolCalls []ToolCall) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.ToolCalls = toolCalls
	return msg
}

// NewToolMessage answers the tool call identified by toolCallID.
func NewToolMessage(toolCallID, content string) *Message {
	msg := NewMessage(RoleTool, content)
	msg.ToolCallID = toolCallID
	return msg
}

func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

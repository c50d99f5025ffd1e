package entities

import (
	"time"
)

// Agent is the persona and inference settings used for a conversation.
type Agent struct {
	Name          string     `json:"name" toml:"name"`
	SystemPrompt  string     `json:"system_prompt" toml:"system_prompt"`
	Model         string     `json:"model" toml:"model"`
	Temperature   float64    `json:"temperature" toml:"temperature"`
	MaxToolRounds int        `json:"max_tool_rounds" toml:"max_tool_rounds"`
	Tools         []ToolName `json:"tools,omitempty" toml:"tools"`
}

func NewAgent(name, systemPrompt, model string, temperature float64, tools []ToolName) *Agent {
	return &Agent{
		Name:          name,
		SystemPrompt:  systemPrompt,
		Model:         model,
		Temperature:   temperature,
		MaxToolRounds: DefaultMaxToolRounds,
		Tools:         tools,
	}
}

// DefaultMaxToolRounds bounds the completion calls of one turn to
// DefaultMaxToolRounds+1.
const DefaultMaxToolRounds = 5

// FullSystemPrompt appends the current date and time in UTC.
func (a *Agent) FullSystemPrompt(now time.Time) string {
	return a.SystemPrompt + "\n\ncurrent date and time: " + now.UTC().Format(time.RFC1123)
}

// SystemMessage seeds a fresh conversation.
func (a *Agent) SystemMessage(now time.Time) *Message {
	return NewMessage(RoleSystem, a.FullSystemPrompt(now))
}

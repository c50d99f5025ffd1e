package entities

import (
	"context"
	"slices"

	"github.com/skchalotra/skgpt/internal/domain/errs"
)

// ToolName enumerates the tools the assistant can call.
type ToolName string

const (
	ToolWebSearch ToolName = "webSearch"
)

var knownTools = []ToolName{ToolWebSearch}

// KnownTools lists every registered tool name.
func KnownTools() []ToolName {
	return slices.Clone(knownTools)
}

// ParseToolName maps a model-supplied name onto the closed set of tools.
func ParseToolName(name string) (ToolName, error) {
	if slices.Contains(knownTools, ToolName(name)) {
		return ToolName(name), nil
	}
	return "", errs.NewUnknownToolError(name)
}

type Item struct {
	Type string
}

type Parameter struct {
	Name        string
	Type        string
	Enum        []string
	Items       []Item
	Description string
	Required    bool
}

// ToolDefinition is the schema advertised to the completion service.
type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  []Parameter
}

// JSONSchema renders the parameters as a JSON schema object.
func (d ToolDefinition) JSONSchema() map[string]any {
	required := make([]string, 0)
	properties := make(map[string]any)
	for _, param := range d.Parameters {
		property := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			property["enum"] = param.Enum
		}
		if param.Type == "array" && len(param.Items) > 0 {
			property["items"] = map[string]any{
				"type": param.Items[0].Type,
			}
		}
		properties[param.Name] = property
		if param.Required {
			required = append(required, param.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

type Tool interface {
	Name() ToolName
	Description() string
	Parameters() []Parameter
	Execute(ctx context.Context, arguments string) (string, error)
}

func DefinitionOf(tool Tool) ToolDefinition {
	return ToolDefinition{
		Name:        tool.Name(),
		Description: tool.Description(),
		Parameters:  tool.Parameters(),
	}
}

// SearchResult is one hit returned by the search service.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

package tools

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
)

// WebSearchTool looks up current information through a search integration.
type WebSearchTool struct {
	description string
	search      interfaces.SearchIntegration
	logger      *zap.Logger
}

// NewWebSearchTool creates a new instance of WebSearchTool.
func NewWebSearchTool(description string, search interfaces.SearchIntegration, logger *zap.Logger) *WebSearchTool {
	return &WebSearchTool{
		description: description,
		search:      search,
		logger:      logger,
	}
}

func (t *WebSearchTool) Name() entities.ToolName {
	return entities.ToolWebSearch
}

func (t *WebSearchTool) Description() string {
	return t.description
}

func (t *WebSearchTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "searchTopic",
			Type:        "string",
			Description: "The topic to search for",
			Required:    true,
		},
	}
}

// Execute runs one search and joins the result contents with blank lines,
// so no results give an empty string. Search failures are reported as text
// so the model can react to them.
func (t *WebSearchTool) Execute(ctx context.Context, arguments string) (string, error) {
	topic := parseSearchTopic(arguments)
	t.logger.Info("Searching the web for information", zap.String("topic", topic))

	results, err := t.search.Search(ctx, topic)
	if err != nil {
		t.logger.Error("Web search failed", zap.String("topic", topic), zap.Error(err))
		return defaults.SearchFailedMessage, nil
	}

	contents := make([]string, 0, len(results))
	for _, res := range results {
		contents = append(contents, res.Content)
	}
	return strings.Join(contents, "\n\n"), nil
}

// parseSearchTopic accepts {"searchTopic": "..."} and falls back to the raw
// payload when it is not such an object.
func parseSearchTopic(arguments string) string {
	var args struct {
		SearchTopic string `json:"searchTopic"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.SearchTopic != "" {
		return args.SearchTopic
	}
	return strings.TrimSpace(arguments)
}

var _ entities.Tool = (*WebSearchTool)(nil)

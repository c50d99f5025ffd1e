package tools

import (
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/errs"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
)

type ToolFactoryEntry struct {
	Name        entities.ToolName
	Description string
	Factory     func(description string, logger *zap.Logger) entities.Tool
}

type ToolFactory struct {
	toolFactories map[entities.ToolName]*ToolFactoryEntry
}

func NewToolFactory(search interfaces.SearchIntegration) (*ToolFactory, error) {
	toolFactory := &ToolFactory{}
	toolFactory.toolFactories = make(map[entities.ToolName]*ToolFactoryEntry)

	toolFactory.toolFactories[entities.ToolWebSearch] = &ToolFactoryEntry{
		Name:        entities.ToolWebSearch,
		Description: `Search the web for the relevant information the user has asked for`,
		Factory: func(description string, logger *zap.Logger) entities.Tool {
			return NewWebSearchTool(description, search, logger)
		},
	}

	return toolFactory, nil
}

func (t *ToolFactory) GetFactoryByName(name entities.ToolName) (*ToolFactoryEntry, error) {
	factory, exists := t.toolFactories[name]
	if !exists {
		return nil, errs.NotFoundErrorf("Tool factory with name '%s' not found", name)
	}
	return factory, nil
}

// BuildTools instantiates the named tools.
func (t *ToolFactory) BuildTools(names []entities.ToolName, logger *zap.Logger) ([]entities.Tool, error) {
	tools := make([]entities.Tool, 0, len(names))
	for _, name := range names {
		entry, err := t.GetFactoryByName(name)
		if err != nil {
			return nil, err
		}
		tools = append(tools, entry.Factory(entry.Description, logger))
	}
	return tools, nil
}

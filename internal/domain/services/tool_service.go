package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/errs"
)

/**
 * @description
 * ToolService executes the tools the model may call during a turn. Tools are
 * registered once at startup and looked up by their enumerated ToolName.
 *
 * Key features:
 * - Definitions: the schemas advertised to the completion service.
 * - Invoke: runs a tool by name; names outside the registered set fail with
 *   an UnknownToolError.
 *
 * @notes
 * - A tool that fails to run never fails the turn. Its error is turned into
 *   text and handed back to the model like any other tool result.
 */

type ToolService interface {
	// Definitions returns the registered tool schemas ordered by name.
	Definitions() []entities.ToolDefinition

	// Invoke runs the named tool with the raw argument payload from the model.
	Invoke(ctx context.Context, name, arguments string) (string, error)
}

type toolService struct {
	tools  map[entities.ToolName]entities.Tool
	logger *zap.Logger
}

// NewToolService registers the given tools. Registering the same name twice
// is an error.
func NewToolService(tools []entities.Tool, logger *zap.Logger) (*toolService, error) {
	registry := make(map[entities.ToolName]entities.Tool, len(tools))
	for _, tool := range tools {
		if tool == nil {
			return nil, errs.ValidationErrorf("tool is nil")
		}
		if _, err := entities.ParseToolName(string(tool.Name())); err != nil {
			return nil, err
		}
		if _, exists := registry[tool.Name()]; exists {
			return nil, errs.ValidationErrorf("tool %s already registered", tool.Name())
		}
		registry[tool.Name()] = tool
	}
	return &toolService{
		tools:  registry,
		logger: logger,
	}, nil
}

func (s *toolService) Definitions() []entities.ToolDefinition {
	definitions := make([]entities.ToolDefinition, 0, len(s.tools))
	for _, tool := range s.tools {
		definitions = append(definitions, entities.DefinitionOf(tool))
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions
}

func (s *toolService) Invoke(ctx context.Context, name, arguments string) (string, error) {
	toolName, err := entities.ParseToolName(name)
	if err != nil {
		s.logger.Warn("Model requested an unknown tool", zap.String("toolName", name))
		return "", err
	}
	tool, ok := s.tools[toolName]
	if !ok {
		s.logger.Warn("Tool is known but not registered", zap.String("toolName", name))
		return "", errs.NewUnknownToolError(name)
	}

	s.logger.Info("Executing tool", zap.String("toolName", name))
	result, err := tool.Execute(ctx, arguments)
	if err != nil {
		s.logger.Error("Tool execution failed", zap.String("toolName", name), zap.Error(err))
		return fmt.Sprintf("Tool %s execution failed: %v", name, err), nil
	}

	s.logger.Info("Tool executed successfully",
		zap.String("toolName", name),
		zap.Int("resultLength", len(result)))
	return result, nil
}

// toolResultText renders the outcome of Invoke as the content of a tool message.
func toolResultText(name, result string, err error) string {
	if err == nil {
		return result
	}
	var unknown *errs.UnknownToolError
	if errors.As(err, &unknown) {
		return err.Error()
	}
	return fmt.Sprintf("Tool %s failed with error: %v", name, err)
}

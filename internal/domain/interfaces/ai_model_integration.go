package interfaces

import (
	"context"

	"github.com/skchalotra/skgpt/internal/domain/entities"
)

// AIModelIntegration is a hosted chat completion service.
type AIModelIntegration interface {
	// Complete sends the full history and returns the assistant reply,
	// including any tool calls it requested
	Complete(ctx context.Context, request *entities.CompletionRequest) (*entities.CompletionResponse, error)
}

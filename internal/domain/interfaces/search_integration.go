package interfaces

import (
	"context"

	"github.com/skchalotra/skgpt/internal/domain/entities"
)

// SearchIntegration is a hosted web search service.
type SearchIntegration interface {
	Search(ctx context.Context, query string) ([]entities.SearchResult, error)
}

package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/interfaces"
)

// TavilyIntegration searches the web using the Tavily API.
type TavilyIntegration struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTavilyIntegration(baseURL, apiKey string, logger *zap.Logger) (*TavilyIntegration, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	return &TavilyIntegration{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}, nil
}

type tavilyResponse struct {
	Answer  string                  `json:"answer"`
	Results []entities.SearchResult `json:"results"`
}

// Search issues one search request and returns the results in ranked order.
func (t *TavilyIntegration) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	payloadBytes, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	t.logger.Debug("Search API response body", zap.String("body", string(bodyBytes)))

	if resp.StatusCode != http.StatusOK {
		t.logger.Error("Search API request failed", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("search API request failed with status code: %d", resp.StatusCode)
	}

	var result tavilyResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	t.logger.Info("Search completed", zap.String("query", query), zap.Int("results", len(result.Results)))
	return result.Results, nil
}

var _ interfaces.SearchIntegration = (*TavilyIntegration)(nil)

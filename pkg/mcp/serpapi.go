package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPITool implements the "google" search tool against SerpAPI.
type SerpAPITool struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ Tool = &SerpAPITool{}

func NewSerpAPITool(apiKey string) *SerpAPITool {
	return &SerpAPITool{
		BaseURL: serpAPIBaseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *SerpAPITool) Name() string {
	return "google"
}

type serpAPIResponse struct {
	OrganicResults []map[string]interface{} `json:"organic_results"`
	Error          string                   `json:"error,omitempty"`
}

func (s *SerpAPITool) Search(ctx context.Context, query string, num int) ([]SearchResult, error) {
	if num <= 0 {
		num = 5
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", num))
	params.Set("api_key", s.APIKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var serpResp serpAPIResponse
	if err := json.Unmarshal(bodyBytes, &serpResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if serpResp.Error != "" {
		return nil, fmt.Errorf("serpapi error: %s", serpResp.Error)
	}

	results := NormalizeResults(serpResp.OrganicResults)
	if len(results) > num {
		results = results[:num]
	}
	return results, nil
}

// NormalizeResults maps raw result objects into SearchResult, tolerating the
// field-name variants different search backends emit.
func NormalizeResults(raw []map[string]interface{}) []SearchResult {
	results := make([]SearchResult, 0, len(raw))
	for _, item := range raw {
		results = append(results, SearchResult{
			Title:   stringField(item, "title", "name"),
			Link:    stringField(item, "link", "url"),
			Snippet: stringField(item, "snippet", "snippet_text"),
		})
	}
	return results
}

func stringField(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSearcher queries an external knowledge-base service. Such services
// disagree on response shape, so hits are decoded as loose maps and pushed
// through FromRaw.
type HTTPSearcher struct {
	BaseURL string
	Client  *http.Client
}

var _ Searcher = &HTTPSearcher{}

func NewHTTPSearcher(baseURL string) *HTTPSearcher {
	return &HTTPSearcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type httpSearchResponse struct {
	Results []map[string]interface{} `json:"results"`
}

func (s *HTTPSearcher) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("top_k", fmt.Sprintf("%d", topK))

	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge base request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("knowledge base error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Tolerate both {"results": [...]} envelopes and bare arrays
	var envelope httpSearchResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Results != nil {
		return FromRaw(envelope.Results), nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &items); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return FromRaw(items), nil
}

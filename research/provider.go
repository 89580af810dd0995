// Package research turns a search query into stored documents: a provider
// finds pages, a fetcher reads them, and a summarizer condenses each one
// under a unique file name.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Topic filters search results by category.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
	TopicFinance Topic = "finance"
)

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	switch t {
	case TopicGeneral, TopicNews, TopicFinance:
		return true
	}
	return false
}

// Hit is one search provider result.
type Hit struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content,omitempty"`
}

// Provider runs a web search. It may return fewer than maxResults hits,
// including none.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int, topic Topic) ([]Hit, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string, maxResults int, topic Topic) ([]Hit, error)

// Search calls f.
func (f ProviderFunc) Search(ctx context.Context, query string, maxResults int, topic Topic) ([]Hit, error) {
	return f(ctx, query, maxResults, topic)
}

// DefaultTavilyEndpoint is the Tavily search API.
const DefaultTavilyEndpoint = "https://api.tavily.com/search"

// ErrNoAPIKey is returned by a TavilyClient built without a key.
var ErrNoAPIKey = errors.New("research: tavily api key not set")

// TavilyClient is a Provider backed by the Tavily search API.
type TavilyClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithEndpoint overrides the search URL.
func WithEndpoint(url string) TavilyOption {
	return func(c *TavilyClient) { c.endpoint = url }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) TavilyOption {
	return func(c *TavilyClient) { c.client = hc }
}

// NewTavilyClient creates a client authenticating with apiKey.
func NewTavilyClient(apiKey string, opts ...TavilyOption) *TavilyClient {
	c := &TavilyClient{
		apiKey:   apiKey,
		endpoint: DefaultTavilyEndpoint,
		client:   &http.Client{Timeout: fetchTimeout},
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

type tavilyRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	Topic             Topic  `json:"topic"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []Hit  `json:"results"`
}

// Search implements Provider.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int, topic Topic) ([]Hit, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if maxResults <= 0 {
		maxResults = 1
	}
	if !topic.Valid() {
		topic = TopicGeneral
	}

	body, err := json.Marshal(tavilyRequest{
		Query:             query,
		MaxResults:        maxResults,
		Topic:             topic,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("research: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("research: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research: tavily search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("research: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("research: tavily search: HTTP %d: %s", resp.StatusCode, prefixRunes(string(data), 200))
	}

	var out tavilyResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("research: decode response: %w", err)
	}
	return out.Results, nil
}

var _ Provider = (*TavilyClient)(nil)

// fetchTimeout bounds one HTTP round trip.
const fetchTimeout = 30 * time.Second

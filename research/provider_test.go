package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilyClient_Search(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"go","results":[
			{"title":"Go","url":"https://go.dev","content":"The Go language","raw_content":"raw go"},
			{"title":"Tour","url":"https://go.dev/tour","content":"A tour"}
		]}`))
	}))
	defer srv.Close()

	c := NewTavilyClient("tvly-test", WithEndpoint(srv.URL))
	hits, err := c.Search(context.Background(), "go", 2, TopicNews)
	require.NoError(t, err)

	assert.Equal(t, "go", got.Query)
	assert.Equal(t, 2, got.MaxResults)
	assert.Equal(t, TopicNews, got.Topic)
	assert.True(t, got.IncludeRawContent)

	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Title: "Go", URL: "https://go.dev", Content: "The Go language", RawContent: "raw go"}, hits[0])
	assert.Empty(t, hits[1].RawContent)
}

func TestTavilyClient_Defaults(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewTavilyClient("k", WithEndpoint(srv.URL))
	hits, err := c.Search(context.Background(), "q", 0, "sports")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 1, got.MaxResults)
	assert.Equal(t, TopicGeneral, got.Topic)
}

func TestTavilyClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewTavilyClient("k", WithEndpoint(srv.URL))
	_, err := c.Search(context.Background(), "q", 1, TopicGeneral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestTavilyClient_NoAPIKey(t *testing.T) {
	_, err := NewTavilyClient("").Search(context.Background(), "q", 1, TopicGeneral)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestTopic_Valid(t *testing.T) {
	assert.True(t, TopicGeneral.Valid())
	assert.True(t, TopicNews.Valid())
	assert.True(t, TopicFinance.Valid())
	assert.False(t, Topic("").Valid())
}

package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/research"
)

// Searcher produces processed search results. *research.Pipeline
// satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, topic research.Topic) ([]research.Document, error)
}

// SearchInput defines the input for the tavily_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"required,description=Search query to execute"`
}

// SearchTool searches the web, stores one file per result in the calling
// loop's state, and returns only a short listing of what it saved.
type SearchTool struct {
	Searcher   Searcher
	MaxResults int            // default 1
	Topic      research.Topic // default general
	Now        func() time.Time
}

var _ agent.Tool[SearchInput] = (*SearchTool)(nil)

func (t *SearchTool) Name() string { return "tavily_search" }
func (t *SearchTool) Description() string {
	return "Search the web and save detailed results to files while returning minimal context. Use read_file to access the full results."
}

func (t *SearchTool) Execute(ctx context.Context, call agent.Call, input SearchInput) (*agent.ToolResult, error) {
	if input.Query == "" {
		return agent.ErrorResult("query is required"), nil
	}
	if t.Searcher == nil {
		return agent.ErrorResult("search backend not configured"), nil
	}
	if call.State == nil {
		return agent.ErrorResult(noStateText), nil
	}

	maxResults := t.MaxResults
	if maxResults <= 0 {
		maxResults = 1
	}
	topic := t.Topic
	if topic == "" {
		topic = research.TopicGeneral
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	docs, err := t.Searcher.Search(ctx, input.Query, maxResults, topic)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("search failed: %s", err.Error())), nil
	}

	date := research.Today(now())
	files := make(agent.Files, len(docs))
	saved := make([]string, 0, len(docs))
	summaries := make([]string, 0, len(docs))
	for _, d := range docs {
		files[d.Filename] = resultFile(d, input.Query, date)
		saved = append(saved, d.Filename)
		summaries = append(summaries, fmt.Sprintf("- %s: %s...", d.Filename, d.Summary))
	}
	call.Do(func(st *agent.State) { st.MergeFiles(files) })

	return agent.TextResult(fmt.Sprintf("🔍 Found %d result(s) for '%s':\n\n%s\n\nFiles: %s\n💡 Use read_file() to access full details when needed.",
		len(docs), input.Query, strings.Join(summaries, "\n"), strings.Join(saved, ", "))), nil
}

func resultFile(d research.Document, query, date string) string {
	raw := d.RawContent
	if raw == "" {
		raw = "No raw content available"
	}
	return fmt.Sprintf("# Search Result: %s\n\n**URL:** %s\n**Query:** %s\n**Date:** %s\n\n## Summary\n%s\n\n## Raw Content\n%s\n",
		d.Title, d.URL, query, date, d.Summary, raw)
}

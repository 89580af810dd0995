package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/research"
)

type fakeSearcher struct {
	docs       []research.Document
	err        error
	maxResults int
	topic      research.Topic
}

func (f *fakeSearcher) Search(_ context.Context, _ string, maxResults int, topic research.Topic) ([]research.Document, error) {
	f.maxResults, f.topic = maxResults, topic
	return f.docs, f.err
}

func fixedNow() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }

func TestSearchTool_StoresFilesAndReturnsListing(t *testing.T) {
	s := &fakeSearcher{docs: []research.Document{
		{URL: "https://go.dev", Title: "Go", Summary: "Go is a language.", Filename: "go_abc12345.md", RawContent: "full page"},
		{URL: "https://down", Title: "Down", Summary: "provider text", Filename: "URL_error_zz.md"},
	}}
	call := newCall(agent.Files{"existing.md": "kept"})
	tool := &SearchTool{Searcher: s, Now: fixedNow}

	result, err := tool.Execute(context.Background(), call, SearchInput{Query: "golang"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.False(t, result.Recorded)

	assert.Equal(t, 1, s.maxResults)
	assert.Equal(t, research.TopicGeneral, s.topic)

	assert.Equal(t, "🔍 Found 2 result(s) for 'golang':\n\n"+
		"- go_abc12345.md: Go is a language....\n"+
		"- URL_error_zz.md: provider text...\n\n"+
		"Files: go_abc12345.md, URL_error_zz.md\n"+
		"💡 Use read_file() to access full details when needed.", text(result))

	assert.Equal(t, "kept", call.State.Files["existing.md"])
	assert.Equal(t, "# Search Result: Go\n\n"+
		"**URL:** https://go.dev\n"+
		"**Query:** golang\n"+
		"**Date:** Thu Mar 5, 2026\n\n"+
		"## Summary\nGo is a language.\n\n"+
		"## Raw Content\nfull page\n", call.State.Files["go_abc12345.md"])
	assert.Contains(t, call.State.Files["URL_error_zz.md"], "## Raw Content\nNo raw content available\n")
}

func TestSearchTool_Settings(t *testing.T) {
	s := &fakeSearcher{}
	tool := &SearchTool{Searcher: s, MaxResults: 3, Topic: research.TopicNews, Now: fixedNow}
	result, err := tool.Execute(context.Background(), newCall(nil), SearchInput{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.maxResults)
	assert.Equal(t, research.TopicNews, s.topic)
	assert.Contains(t, text(result), "Found 0 result(s)")
}

func TestSearchTool_Errors(t *testing.T) {
	result, err := (&SearchTool{Searcher: &fakeSearcher{}}).Execute(context.Background(), newCall(nil), SearchInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = (&SearchTool{}).Execute(context.Background(), newCall(nil), SearchInput{Query: "q"})
	require.NoError(t, err)
	assert.Contains(t, text(result), "not configured")

	call := newCall(nil)
	result, err = (&SearchTool{Searcher: &fakeSearcher{err: errors.New("quota")}}).Execute(context.Background(), call, SearchInput{Query: "q"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "search failed: quota")
	assert.Empty(t, call.State.Files)
}

func TestCapabilityGroups(t *testing.T) {
	reg := agent.NewCapabilityRegistry()
	RegisterAll(reg)
	assert.Equal(t, []string{"ls", "read_file", "write_file", "edit_file", "glob", "grep", "write_todos", "read_todos", "think_tool"}, reg.Names())

	names := func(caps []agent.Capability) []string {
		out := make([]string, len(caps))
		for i, c := range caps {
			out[i] = c.Name()
		}
		return out
	}
	assert.Equal(t, []string{"tavily_search", "think_tool"}, names(ResearchCapabilities(&SearchTool{Searcher: &fakeSearcher{}})))
}

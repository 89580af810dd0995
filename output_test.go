package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutputStruct struct {
	Name  string `json:"name" jsonschema:"required,description=The name"`
	Score int    `json:"score" jsonschema:"required,description=A numeric score"`
}

// flakyMessages fails the first n non-streaming calls.
type flakyMessages struct {
	*fakeMessages
	n int
}

func (f *flakyMessages) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	if f.n > 0 {
		f.n--
		f.mu.Lock()
		f.requests = append(f.requests, params)
		f.mu.Unlock()
		return nil, errors.New("overloaded")
	}
	return f.fakeMessages.New(ctx, params, opts...)
}

func TestNewOutputFormatType(t *testing.T) {
	format := NewOutputFormatType[testOutputStruct]("test_output")
	assert.Equal(t, "test_output", format.Name)
	assert.NotEmpty(t, format.Description)
	assert.Contains(t, format.Schema.Properties, "name")
	assert.Contains(t, format.Schema.Properties, "score")
}

func TestOutputFormatRequest(t *testing.T) {
	format := NewOutputFormatType[testOutputStruct]("test_tool")

	params := format.request(anthropic.ModelClaudeHaiku4_5, "", "rate it")

	assert.Equal(t, anthropic.ModelClaudeHaiku4_5, params.Model)
	assert.Empty(t, params.System)
	require.Len(t, params.Messages, 1)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, "test_tool", params.Tools[0].OfTool.Name)
	require.NotNil(t, params.ToolChoice.OfTool)
	assert.Equal(t, "test_tool", params.ToolChoice.OfTool.Name)
}

func TestDecode(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Here is the result"},
			{Type: "tool_use", ID: "toolu_1", Name: "other", Input: json.RawMessage(`{"name":"Eve"}`)},
			{Type: "tool_use", ID: "toolu_2", Name: "my_output", Input: json.RawMessage(`{"name":"Alice","score":95}`)},
		},
	}

	got, err := decode[testOutputStruct](msg, "my_output")
	require.NoError(t, err)
	assert.Equal(t, &testOutputStruct{Name: "Alice", Score: 95}, got)
}

func TestDecode_NotFound(t *testing.T) {
	msg := &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "just text"}}}

	_, err := decode[testOutputStruct](msg, "my_output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tool_use block")
}

func TestDecode_InvalidJSON(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: "toolu_1", Name: "test_output", Input: json.RawMessage(`{"name":123}`)},
		},
	}

	_, err := decode[testOutputStruct](msg, "test_output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `structured output "test_output"`)
}

func TestStructured(t *testing.T) {
	m, fake := fakeModel()
	fake.replies = []*anthropic.Message{toolUseMessage("score_card", `{"name":"Ada","score":7}`)}
	format := NewOutputFormatType[testOutputStruct]("score_card")

	got, err := Structured[testOutputStruct](context.Background(), m, format, "be brief", "rate Ada")
	require.NoError(t, err)
	assert.Equal(t, &testOutputStruct{Name: "Ada", Score: 7}, got)

	req := fake.lastRequest()
	require.Len(t, req.System, 1)
	assert.Equal(t, "be brief", req.System[0].Text)
	require.NotNil(t, req.ToolChoice.OfTool)
	assert.Equal(t, "score_card", req.ToolChoice.OfTool.Name)
	assert.Equal(t, int64(DefaultStructuredOutputTokens), req.MaxTokens)
}

func TestStructured_RetriesOnFallback(t *testing.T) {
	_, fake := fakeModel()
	fake.replies = []*anthropic.Message{toolUseMessage("score_card", `{"name":"Ada","score":7}`)}
	flaky := &flakyMessages{fakeMessages: fake, n: 1}
	m := &Model{ID: anthropic.ModelClaudeSonnet4_5, Fallback: anthropic.ModelClaudeHaiku4_5, Messages: flaky}

	got, err := Structured[testOutputStruct](context.Background(), m, NewOutputFormatType[testOutputStruct]("score_card"), "", "rate Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	require.Len(t, fake.requests, 2)
	assert.Equal(t, anthropic.ModelClaudeSonnet4_5, fake.requests[0].Model)
	assert.Equal(t, anthropic.ModelClaudeHaiku4_5, fake.requests[1].Model)
}

func TestStructured_TransportError(t *testing.T) {
	m, fake := fakeModel()
	fake.newErr = errors.New("boom")

	_, err := Structured[testOutputStruct](context.Background(), m, NewOutputFormatType[testOutputStruct]("x"), "", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, fake.requests, 1)
}

func TestStructured_NoModel(t *testing.T) {
	_, err := Structured[testOutputStruct](context.Background(), nil, NewOutputFormatType[testOutputStruct]("x"), "", "p")
	assert.ErrorIs(t, err, ErrNoModel)
}

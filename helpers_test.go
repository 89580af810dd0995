package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// fakeMessages implements MessageService with scripted replies.
type fakeMessages struct {
	mu        sync.Mutex
	streams   []string
	replies   []*anthropic.Message
	newErr    error
	requests  []anthropic.MessageNewParams
	streamIdx int
	replyIdx  int
}

func (f *fakeMessages) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, params)
	if f.newErr != nil {
		return nil, f.newErr
	}
	if f.replyIdx >= len(f.replies) {
		return nil, fmt.Errorf("no more mock replies")
	}
	r := f.replies[f.replyIdx]
	f.replyIdx++
	return r, nil
}

func (f *fakeMessages) NewStreaming(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion] {
	f.mu.Lock()
	f.requests = append(f.requests, params)
	idx := f.streamIdx
	f.streamIdx++
	f.mu.Unlock()

	if idx >= len(f.streams) {
		return ssestream.NewStream[anthropic.MessageStreamEventUnion](nil, fmt.Errorf("no more mock responses"))
	}
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(f.streams[idx])),
		Header:     http.Header{},
	}
	return ssestream.NewStream[anthropic.MessageStreamEventUnion](ssestream.NewDecoder(resp), nil)
}

func (f *fakeMessages) lastRequest() anthropic.MessageNewParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func fakeModel(streams ...string) (*Model, *fakeMessages) {
	f := &fakeMessages{streams: streams}
	return &Model{ID: anthropic.ModelClaudeSonnet4_5, Messages: f}, f
}

// toolUseMessage builds a non-streaming reply carrying one tool_use block.
func toolUseMessage(name, input string) *anthropic.Message {
	raw := fmt.Sprintf(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5","stop_reason":"tool_use","content":[{"type":"tool_use","id":"toolu_1","name":%q,"input":%s}],"usage":{"input_tokens":5,"output_tokens":5}}`, name, input)
	var msg anthropic.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		panic(err)
	}
	return &msg
}

// --- SSE helpers ---

type sseEvent struct {
	Type string
	Data string
}

func buildSSE(events ...sseEvent) string {
	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "event: %s\ndata: %s\n\n", e.Type, e.Data)
	}
	return sb.String()
}

func messageStart(inputTokens int64) sseEvent {
	return sseEvent{
		Type: "message_start",
		Data: fmt.Sprintf(`{"type":"message_start","message":{"id":"msg_test","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","stop_reason":null,"usage":{"input_tokens":%d,"output_tokens":0}}}`, inputTokens),
	}
}

func textBlockStart(index int) sseEvent {
	return sseEvent{
		Type: "content_block_start",
		Data: fmt.Sprintf(`{"type":"content_block_start","index":%d,"content_block":{"type":"text","text":""}}`, index),
	}
}

func textDelta(index int, text string) sseEvent {
	return sseEvent{
		Type: "content_block_delta",
		Data: fmt.Sprintf(`{"type":"content_block_delta","index":%d,"delta":{"type":"text_delta","text":"%s"}}`, index, text),
	}
}

func blockStop(index int) sseEvent {
	return sseEvent{
		Type: "content_block_stop",
		Data: fmt.Sprintf(`{"type":"content_block_stop","index":%d}`, index),
	}
}

func toolUseStart(index int, id, name string) sseEvent {
	return sseEvent{
		Type: "content_block_start",
		Data: fmt.Sprintf(`{"type":"content_block_start","index":%d,"content_block":{"type":"tool_use","id":"%s","name":"%s","input":{}}}`, index, id, name),
	}
}

// inputJSONDelta takes already-escaped JSON, e.g. `{\"a\":1}`.
func inputJSONDelta(index int, json string) sseEvent {
	return sseEvent{
		Type: "content_block_delta",
		Data: fmt.Sprintf(`{"type":"content_block_delta","index":%d,"delta":{"type":"input_json_delta","partial_json":"%s"}}`, index, json),
	}
}

func messageDelta(stopReason string, outputTokens int64) sseEvent {
	return sseEvent{
		Type: "message_delta",
		Data: fmt.Sprintf(`{"type":"message_delta","delta":{"stop_reason":"%s","stop_sequence":null},"usage":{"output_tokens":%d}}`, stopReason, outputTokens),
	}
}

func messageStop() sseEvent {
	return sseEvent{Type: "message_stop", Data: `{"type":"message_stop"}`}
}

func textTurn(text string) string {
	return buildSSE(
		messageStart(20),
		textBlockStart(0),
		textDelta(0, text),
		blockStop(0),
		messageDelta("end_turn", 5),
		messageStop(),
	)
}

func toolTurn(id, name, escapedInput string) string {
	return buildSSE(
		messageStart(10),
		toolUseStart(0, id, name),
		inputJSONDelta(0, escapedInput),
		blockStop(0),
		messageDelta("tool_use", 10),
		messageStop(),
	)
}

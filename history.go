package agent

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
)

// stateHistory exposes a State's message history to the reasoning loop.
// Every access goes through the run's locker so capabilities running
// concurrently (delegation merges, todo writes) never race the loop.
type stateHistory struct {
	st     *State
	locker sync.Locker
}

func (h *stateHistory) Params() []anthropic.MessageParam {
	h.locker.Lock()
	defer h.locker.Unlock()
	return toParams(h.st.Messages)
}

func (h *stateHistory) AppendAssistant(msg anthropic.Message) {
	m := fromAssistant(msg)
	h.locker.Lock()
	defer h.locker.Unlock()
	h.st.AppendMessage(m)
}

func (h *stateHistory) AppendToolResult(id, content string, isError bool) {
	h.locker.Lock()
	defer h.locker.Unlock()
	h.st.AppendMessage(Message{Role: RoleTool, Content: content, CallID: id, IsError: isError})
}

// fromAssistant flattens an API response into a history turn.
func fromAssistant(msg anthropic.Message) Message {
	out := Message{Role: RoleAssistant}
	var text []string
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text = append(text, block.Text)
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: json.RawMessage(block.Input),
			})
		}
	}
	out.Content = strings.Join(text, "")
	return out
}

// toParams converts history to API messages. Consecutive user and tool turns
// collapse into one user message since the API requires alternating roles.
func toParams(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		var role anthropic.MessageParamRole
		var blocks []anthropic.ContentBlockParamUnion

		switch m.Role {
		case RoleAssistant:
			role = anthropic.MessageParamRoleAssistant
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, toolInput(tc.Input), tc.Name))
			}
		case RoleTool:
			role = anthropic.MessageParamRoleUser
			if m.CallID == "" {
				blocks = append(blocks, anthropic.NewTextBlock(nonEmpty(m.Content)))
			} else {
				blocks = append(blocks, anthropic.NewToolResultBlock(m.CallID, nonEmpty(m.Content), m.IsError))
			}
		default:
			role = anthropic.MessageParamRoleUser
			blocks = append(blocks, anthropic.NewTextBlock(nonEmpty(m.Content)))
		}
		if len(blocks) == 0 {
			continue
		}

		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, blocks...)
			continue
		}
		out = append(out, anthropic.MessageParam{Role: role, Content: blocks})
	}
	return out
}

func toolInput(raw json.RawMessage) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	return raw
}

func nonEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

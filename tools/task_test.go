package tools

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/subagent"
)

func newTaskEngine(t *testing.T, workers map[string]subagent.WorkerFunc) *subagent.Engine {
	t.Helper()
	var reg subagent.Registry
	for _, name := range []string{"research-agent", "critique-agent"} {
		if w, ok := workers[name]; ok {
			require.NoError(t, reg.Add(subagent.Definition{Name: name, Description: "does " + name}, w))
		}
	}
	return subagent.New(&reg)
}

func TestTaskTool_NameAndDescription(t *testing.T) {
	e := newTaskEngine(t, map[string]subagent.WorkerFunc{
		"research-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) { return st, nil },
	})
	tool := NewTaskTool(e)
	assert.Equal(t, "task", tool.Name())
	assert.Contains(t, tool.Description(), "- research-agent: does research-agent")
}

func TestTaskTool_DelegatesAndRecords(t *testing.T) {
	var seen *agent.State
	e := newTaskEngine(t, map[string]subagent.WorkerFunc{
		"research-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) {
			seen = st.Clone()
			st.WriteFile("findings.md", "Go was announced in 2009")
			st.AppendMessage(agent.Message{Role: agent.RoleAssistant, Content: "Saved findings.md"})
			return st, nil
		},
	})
	call := newCall(agent.Files{"user_request.md": "history of Go"})
	call.State.AppendMessage(agent.Message{Role: agent.RoleUser, Content: "parent context"})

	result, err := NewTaskTool(e).Execute(context.Background(), call, TaskInput{
		Description:  "Research the history of Go",
		SubagentType: "research-agent",
	})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, "Saved findings.md", result.Content)

	require.NotNil(t, seen)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "Research the history of Go", seen.Messages[0].Content)
	assert.Equal(t, "history of Go", seen.Files["user_request.md"])

	assert.Equal(t, "Go was announced in 2009", call.State.Files["findings.md"])
	last, _ := call.State.LastMessage()
	assert.Equal(t, agent.Message{Role: agent.RoleTool, Content: "Saved findings.md", CallID: "call_1"}, last)
}

func TestTaskTool_UnknownTypeIsRecordedNotError(t *testing.T) {
	e := newTaskEngine(t, map[string]subagent.WorkerFunc{
		"research-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) { return st, nil },
		"critique-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) { return st, nil },
	})
	call := newCall(nil)

	result, err := NewTaskTool(e).Execute(context.Background(), call, TaskInput{Description: "x", SubagentType: "poet"})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, "Error: invoked agent of type poet, the only allowed types are [`research-agent`, `critique-agent`]", result.Content)
	require.Len(t, call.State.Messages, 1)
	assert.Equal(t, "call_1", call.State.Messages[0].CallID)
}

func TestTaskTool_WorkerErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	e := newTaskEngine(t, map[string]subagent.WorkerFunc{
		"research-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) {
			st.WriteFile("partial.md", "half")
			return nil, boom
		},
	})
	call := newCall(nil)

	result, err := NewTaskTool(e).Execute(context.Background(), call, TaskInput{Description: "x", SubagentType: "research-agent"})
	assert.Nil(t, result)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, call.State.Files)
	assert.Empty(t, call.State.Messages)
}

func TestTaskTool_ParallelCallsShareLocker(t *testing.T) {
	e := newTaskEngine(t, map[string]subagent.WorkerFunc{
		"research-agent": func(ctx context.Context, st *agent.State) (*agent.State, error) {
			st.WriteFile(st.Messages[0].Content+".md", "done")
			st.AppendMessage(agent.Message{Role: agent.RoleAssistant, Content: "ok"})
			return st, nil
		},
	})
	call := newCall(nil)
	tool := NewTaskTool(e)

	topics := []string{"a", "b", "c", "d", "e", "f"}
	var wg sync.WaitGroup
	for _, topic := range topics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := call
			c.ID = "call_" + topic
			_, err := tool.Execute(context.Background(), c, TaskInput{Description: topic, SubagentType: "research-agent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, call.State.Files, len(topics))
	assert.Len(t, call.State.Messages, len(topics))
}

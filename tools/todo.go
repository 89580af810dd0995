package tools

import (
	"context"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/internal/config"
)

// WriteTodosInput defines the input for the write_todos tool.
type WriteTodosInput struct {
	Todos []agent.Todo `json:"todos" jsonschema:"required,description=The complete todo list; it replaces the previous one"`
}

// WriteTodosTool replaces the task list of the calling loop's state.
type WriteTodosTool struct{}

var _ agent.Tool[WriteTodosInput] = (*WriteTodosTool)(nil)

func (t *WriteTodosTool) Name() string        { return "write_todos" }
func (t *WriteTodosTool) Description() string { return config.WriteTodosDescription }

// Execute appends its own correlated confirmation, so the result is marked
// recorded.
func (t *WriteTodosTool) Execute(_ context.Context, call agent.Call, input WriteTodosInput) (*agent.ToolResult, error) {
	var msg agent.Message
	if !withState(call, func(st *agent.State) { msg = agent.WriteTodos(st, call.ID, input.Todos) }) {
		return agent.ErrorResult(noStateText), nil
	}
	return agent.RecordedResult(msg), nil
}

// ReadTodosInput defines the input for the read_todos tool. It has no fields.
type ReadTodosInput struct{}

// ReadTodosTool renders the task list of the calling loop's state.
type ReadTodosTool struct{}

var _ agent.Tool[ReadTodosInput] = (*ReadTodosTool)(nil)

func (t *ReadTodosTool) Name() string        { return "read_todos" }
func (t *ReadTodosTool) Description() string { return config.ReadTodosDescription }

func (t *ReadTodosTool) Execute(_ context.Context, call agent.Call, _ ReadTodosInput) (*agent.ToolResult, error) {
	var text string
	if !withState(call, func(st *agent.State) { text = agent.ReadTodos(st) }) {
		return agent.ErrorResult(noStateText), nil
	}
	return agent.TextResult(text), nil
}

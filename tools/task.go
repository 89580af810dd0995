package tools

import (
	"context"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/internal/config"
	"github.com/armatrix/deepagents-go/subagent"
)

// TaskInput defines the input for the task tool.
type TaskInput struct {
	Description  string `json:"description" jsonschema:"required,description=Complete self-contained description of the task for the sub-agent"`
	SubagentType string `json:"subagent_type" jsonschema:"required,description=Name of the sub-agent type to delegate to"`
}

// TaskTool delegates a task to a specialization through a delegation engine
// and blocks until the worker finishes.
type TaskTool struct {
	engine *subagent.Engine
}

// NewTaskTool creates a TaskTool backed by the given engine.
func NewTaskTool(engine *subagent.Engine) *TaskTool {
	return &TaskTool{engine: engine}
}

var _ agent.Tool[TaskInput] = (*TaskTool)(nil)

func (t *TaskTool) Name() string { return "task" }

// Description lists the engine's specializations.
func (t *TaskTool) Description() string {
	return config.TaskDescription(t.engine.Describe())
}

// Execute runs the delegation against the calling loop's state. The engine
// appends the correlated result message itself, including for an unknown
// subagent_type, so the result is marked recorded. A worker failure is
// returned as an error and leaves the state untouched.
func (t *TaskTool) Execute(ctx context.Context, call agent.Call, input TaskInput) (*agent.ToolResult, error) {
	if call.State == nil {
		return agent.ErrorResult(noStateText), nil
	}
	res, err := t.engine.Delegate(ctx, subagent.Request{
		Description: input.Description,
		Target:      input.SubagentType,
		State:       call.State,
		CallID:      call.ID,
		Locker:      call.Locker,
	})
	if err != nil {
		return nil, err
	}
	return agent.RecordedResult(res.Message), nil
}

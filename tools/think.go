package tools

import (
	"context"

	agent "github.com/armatrix/deepagents-go"
)

// ThinkInput defines the input for the think_tool tool.
type ThinkInput struct {
	Reflection string `json:"reflection" jsonschema:"required,description=Your reflection on research progress: findings and gaps and next steps"`
}

// ThinkTool records a reflection. It has no effect beyond echoing it back.
type ThinkTool struct{}

var _ agent.Tool[ThinkInput] = (*ThinkTool)(nil)

func (t *ThinkTool) Name() string { return "think_tool" }
func (t *ThinkTool) Description() string {
	return `Tool for strategic reflection on research progress and decision-making.

Use it after each search to analyze results and plan next steps: what key information was found, what is still missing, whether there is enough to answer, and whether to search again or answer now.`
}

func (t *ThinkTool) Execute(_ context.Context, _ agent.Call, input ThinkInput) (*agent.ToolResult, error) {
	return agent.TextResult("Reflection recorded: " + input.Reflection), nil
}

package tools

import (
	"context"
	"fmt"

	agent "github.com/armatrix/deepagents-go"
)

// WriteFileInput defines the input for the write_file tool.
type WriteFileInput struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Name of the file to create or overwrite"`
	Content  string `json:"content" jsonschema:"required,description=The content to write to the file"`
}

// WriteFileTool creates or overwrites a file of the virtual file store.
type WriteFileTool struct{}

var _ agent.Tool[WriteFileInput] = (*WriteFileTool)(nil)

func (t *WriteFileTool) Name() string { return "write_file" }
func (t *WriteFileTool) Description() string {
	return "Create a file in the virtual file system, replacing any existing content."
}

func (t *WriteFileTool) Execute(_ context.Context, call agent.Call, input WriteFileInput) (*agent.ToolResult, error) {
	if input.FilePath == "" {
		return agent.ErrorResult("file_path is required"), nil
	}
	if !withState(call, func(st *agent.State) { st.WriteFile(input.FilePath, input.Content) }) {
		return agent.ErrorResult(noStateText), nil
	}
	return agent.TextResult(fmt.Sprintf("Updated file %s", input.FilePath)), nil
}

package tools

import (
	"context"
	"fmt"
	"strings"

	agent "github.com/armatrix/deepagents-go"
)

// EditFileInput defines the input for the edit_file tool.
type EditFileInput struct {
	FilePath   string `json:"file_path" jsonschema:"required,description=Name of the file to modify"`
	OldString  string `json:"old_string" jsonschema:"required,description=The exact text to replace"`
	NewString  string `json:"new_string" jsonschema:"required,description=The replacement text"`
	ReplaceAll bool   `json:"replace_all,omitempty" jsonschema:"description=Replace all occurrences"`
}

// EditFileTool performs exact string replacements in a virtual file.
type EditFileTool struct{}

var _ agent.Tool[EditFileInput] = (*EditFileTool)(nil)

func (t *EditFileTool) Name() string { return "edit_file" }
func (t *EditFileTool) Description() string {
	return "Perform an exact string replacement in a file of the virtual file system. old_string must be unique unless replace_all is set."
}

func (t *EditFileTool) Execute(_ context.Context, call agent.Call, input EditFileInput) (*agent.ToolResult, error) {
	if input.FilePath == "" {
		return agent.ErrorResult("file_path is required"), nil
	}
	if input.OldString == input.NewString {
		return agent.ErrorResult("old_string and new_string must be different"), nil
	}

	var result *agent.ToolResult
	ok := withState(call, func(st *agent.State) {
		result = applyEdit(st, input)
	})
	if !ok {
		return agent.ErrorResult(noStateText), nil
	}
	return result, nil
}

// applyEdit runs under the call's lock so the read and the write are atomic.
func applyEdit(st *agent.State, input EditFileInput) *agent.ToolResult {
	content, found := st.ReadFile(input.FilePath)
	if !found {
		return agent.ErrorResult(fmt.Sprintf("Error: File '%s' not found", input.FilePath))
	}

	count := strings.Count(content, input.OldString)
	if input.OldString == "" || count == 0 {
		return agent.ErrorResult(fmt.Sprintf("Error: String not found in file: '%s'", input.OldString))
	}
	if !input.ReplaceAll && count > 1 {
		return agent.ErrorResult(fmt.Sprintf(
			"Error: String '%s' appears %d times in file. Use replace_all=true to replace all instances, or provide a more specific string with surrounding context.",
			input.OldString, count,
		))
	}

	var updated string
	if input.ReplaceAll {
		updated = strings.ReplaceAll(content, input.OldString, input.NewString)
	} else {
		updated = strings.Replace(content, input.OldString, input.NewString, 1)
		count = 1
	}
	st.WriteFile(input.FilePath, updated)

	return agent.TextResult(fmt.Sprintf("Successfully replaced %d instance(s) of the string in '%s'", count, input.FilePath))
}

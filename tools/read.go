package tools

import (
	"context"
	"fmt"
	"strings"

	agent "github.com/armatrix/deepagents-go"
)

const (
	defaultReadLimit   = 2000
	maxLineLength      = 2000
	lineNumberTabWidth = 6 // right-justified width for line numbers
)

// EmptyFileText is returned when reading a file with no content.
const EmptyFileText = "System reminder: File exists but has empty contents"

// ReadFileInput defines the input for the read_file tool.
type ReadFileInput struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Name of the file to read"`
	Offset   int    `json:"offset,omitempty" jsonschema:"description=Zero-based line to start reading from (default 0)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Maximum number of lines to read (default 2000)"`
}

// ReadFileTool reads a file of the virtual file store with line numbers.
type ReadFileTool struct{}

var _ agent.Tool[ReadFileInput] = (*ReadFileTool)(nil)

func (t *ReadFileTool) Name() string { return "read_file" }
func (t *ReadFileTool) Description() string {
	return "Read a file from the virtual file system. Output is numbered like cat -n; use offset and limit to page through long files."
}

func (t *ReadFileTool) Execute(_ context.Context, call agent.Call, input ReadFileInput) (*agent.ToolResult, error) {
	if input.FilePath == "" {
		return agent.ErrorResult("file_path is required"), nil
	}

	var (
		content string
		found   bool
	)
	if !withState(call, func(st *agent.State) { content, found = st.ReadFile(input.FilePath) }) {
		return agent.ErrorResult(noStateText), nil
	}
	if !found {
		return agent.ErrorResult(fmt.Sprintf("Error: File '%s' not found", input.FilePath)), nil
	}
	if strings.TrimSpace(content) == "" {
		return agent.TextResult(EmptyFileText), nil
	}

	limit := defaultReadLimit
	if input.Limit > 0 {
		limit = input.Limit
	}
	offset := max(input.Offset, 0)

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if offset >= len(lines) {
		return agent.ErrorResult(fmt.Sprintf("Error: Line offset %d exceeds file length (%d lines)", offset, len(lines))), nil
	}
	end := min(offset+limit, len(lines))

	var b strings.Builder
	for i := offset; i < end; i++ {
		line := lines[i]
		if r := []rune(line); len(r) > maxLineLength {
			line = string(r[:maxLineLength])
		}
		fmt.Fprintf(&b, "%*d\t%s\n", lineNumberTabWidth, i+1, line)
	}
	return agent.TextResult(strings.TrimSuffix(b.String(), "\n")), nil
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	agent "github.com/armatrix/deepagents-go"
)

// NoFilesText is returned when a listing is empty.
const NoFilesText = "No files found."

// LsInput defines the input for the ls tool.
type LsInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"description=Optional glob pattern restricting the listing (e.g. *.md)"`
}

// LsTool lists the files of the virtual file store.
type LsTool struct{}

var _ agent.Tool[LsInput] = (*LsTool)(nil)

func (t *LsTool) Name() string        { return "ls" }
func (t *LsTool) Description() string { return "List all files in the virtual file system." }

func (t *LsTool) Execute(_ context.Context, call agent.Call, input LsInput) (*agent.ToolResult, error) {
	if input.Pattern != "" && !doublestar.ValidatePattern(input.Pattern) {
		return agent.ErrorResult(fmt.Sprintf("invalid pattern: %s", input.Pattern)), nil
	}
	names, ok := matchFiles(call, input.Pattern)
	if !ok {
		return agent.ErrorResult(noStateText), nil
	}
	if len(names) == 0 {
		return agent.TextResult(NoFilesText), nil
	}
	return agent.TextResult(strings.Join(names, "\n")), nil
}

// GlobInput defines the input for the glob tool.
type GlobInput struct {
	Pattern string `json:"pattern" jsonschema:"required,description=The glob pattern to match file names against (supports **)"`
}

// GlobTool matches file names of the virtual file store.
type GlobTool struct{}

var _ agent.Tool[GlobInput] = (*GlobTool)(nil)

func (t *GlobTool) Name() string        { return "glob" }
func (t *GlobTool) Description() string { return "Fast file name pattern matching over the virtual file system" }

func (t *GlobTool) Execute(_ context.Context, call agent.Call, input GlobInput) (*agent.ToolResult, error) {
	if input.Pattern == "" {
		return agent.ErrorResult("pattern is required"), nil
	}
	if !doublestar.ValidatePattern(input.Pattern) {
		return agent.ErrorResult(fmt.Sprintf("glob error: invalid pattern %s", input.Pattern)), nil
	}
	names, ok := matchFiles(call, input.Pattern)
	if !ok {
		return agent.ErrorResult(noStateText), nil
	}
	if len(names) == 0 {
		return agent.TextResult("No files matched the pattern."), nil
	}
	return agent.TextResult(strings.Join(names, "\n")), nil
}

// matchFiles returns the sorted file names matching pattern, or all names
// when pattern is empty. The pattern must already be valid.
func matchFiles(call agent.Call, pattern string) ([]string, bool) {
	var names []string
	ok := withState(call, func(st *agent.State) { names = st.Files.Names() })
	if !ok || pattern == "" {
		return names, ok
	}
	matched := names[:0]
	for _, n := range names {
		if doublestar.MatchUnvalidated(pattern, n) {
			matched = append(matched, n)
		}
	}
	return matched, true
}

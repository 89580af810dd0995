package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	agent "github.com/armatrix/deepagents-go"
)

const maxOutputBytes = 30_000

// Grep output modes.
const (
	GrepContent          = "content"
	GrepFilesWithMatches = "files_with_matches"
	GrepCount            = "count"
)

// GrepInput defines the input for the grep tool.
type GrepInput struct {
	Pattern         string `json:"pattern" jsonschema:"required,description=The regex pattern to search for"`
	Glob            string `json:"glob,omitempty" jsonschema:"description=Glob pattern to filter file names"`
	OutputMode      string `json:"output_mode,omitempty" jsonschema:"enum=content,enum=files_with_matches,enum=count,description=Output mode (default content)"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty" jsonschema:"description=Case insensitive search"`
}

// GrepTool searches the contents of the virtual file store.
type GrepTool struct{}

var _ agent.Tool[GrepInput] = (*GrepTool)(nil)

func (t *GrepTool) Name() string        { return "grep" }
func (t *GrepTool) Description() string { return "Search file contents of the virtual file system using regex patterns" }

func (t *GrepTool) Execute(_ context.Context, call agent.Call, input GrepInput) (*agent.ToolResult, error) {
	if input.Pattern == "" {
		return agent.ErrorResult("pattern is required"), nil
	}
	expr := input.Pattern
	if input.CaseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid pattern: %s", err.Error())), nil
	}
	if input.Glob != "" && !doublestar.ValidatePattern(input.Glob) {
		return agent.ErrorResult(fmt.Sprintf("invalid glob: %s", input.Glob)), nil
	}

	var files agent.Files
	if !withState(call, func(st *agent.State) { files = st.Files.Clone() }) {
		return agent.ErrorResult(noStateText), nil
	}

	var b strings.Builder
	for _, name := range files.Names() {
		if input.Glob != "" && !doublestar.MatchUnvalidated(input.Glob, name) {
			continue
		}
		writeMatches(&b, input.OutputMode, name, files[name], re)
	}

	text := b.String()
	if text == "" {
		return agent.TextResult("No matches found."), nil
	}
	if len(text) > maxOutputBytes {
		cut := maxOutputBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "\n... [output truncated]"
	}
	return agent.TextResult(strings.TrimSuffix(text, "\n")), nil
}

func writeMatches(b *strings.Builder, mode, name, content string, re *regexp.Regexp) {
	count := 0
	for i, line := range strings.Split(content, "\n") {
		if !re.MatchString(line) {
			continue
		}
		count++
		switch mode {
		case GrepFilesWithMatches:
			fmt.Fprintf(b, "%s\n", name)
			return
		case GrepCount:
		default:
			fmt.Fprintf(b, "%s:%d: %s\n", name, i+1, line)
		}
	}
	if mode == GrepCount && count > 0 {
		fmt.Fprintf(b, "%s:%d\n", name, count)
	}
}

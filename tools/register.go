package tools

import (
	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/subagent"
)

// FileCapabilities returns the virtual file store capabilities.
func FileCapabilities() []agent.Capability {
	return []agent.Capability{
		agent.Bind[LsInput](&LsTool{}),
		agent.Bind[ReadFileInput](&ReadFileTool{}),
		agent.Bind[WriteFileInput](&WriteFileTool{}),
		agent.Bind[EditFileInput](&EditFileTool{}),
		agent.Bind[GlobInput](&GlobTool{}),
		agent.Bind[GrepInput](&GrepTool{}),
	}
}

// TodoCapabilities returns write_todos and read_todos.
func TodoCapabilities() []agent.Capability {
	return []agent.Capability{
		agent.Bind[WriteTodosInput](&WriteTodosTool{}),
		agent.Bind[ReadTodosInput](&ReadTodosTool{}),
	}
}

// ResearchCapabilities returns search as tavily_search, and think_tool.
func ResearchCapabilities(search *SearchTool) []agent.Capability {
	return []agent.Capability{
		agent.Bind[SearchInput](search),
		agent.Bind[ThinkInput](&ThinkTool{}),
	}
}

// TaskCapability returns the task capability over engine.
func TaskCapability(engine *subagent.Engine) agent.Capability {
	return agent.Bind[TaskInput](NewTaskTool(engine))
}

// RegisterAll registers the file, todo and think capabilities into registry.
func RegisterAll(registry *agent.CapabilityRegistry) {
	for _, c := range FileCapabilities() {
		registry.Register(c)
	}
	for _, c := range TodoCapabilities() {
		registry.Register(c)
	}
	agent.RegisterTool[ThinkInput](registry, &ThinkTool{})
}

package tools

import (
	"sync"

	agent "github.com/armatrix/deepagents-go"
)

// newCall returns a call over a fresh state holding files.
func newCall(files agent.Files) agent.Call {
	st := agent.NewState()
	st.MergeFiles(files)
	return agent.Call{ID: "call_1", State: st, Locker: &sync.Mutex{}}
}

func text(r *agent.ToolResult) string {
	if r == nil {
		return ""
	}
	return r.Content
}

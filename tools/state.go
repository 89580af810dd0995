package tools

import (
	agent "github.com/armatrix/deepagents-go"
)

// noStateText is returned by capabilities invoked without a state.
const noStateText = "Error: no state available for this call"

// withState runs fn under the call's lock. It reports false when the call
// carries no state.
func withState(call agent.Call, fn func(st *agent.State)) bool {
	if call.State == nil {
		return false
	}
	call.Do(fn)
	return true
}

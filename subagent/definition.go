// Package subagent declares specializations (named worker types) and the
// delegation engine that hands a task to one of them in an isolated context
// and reconciles its file writes back into the caller's state.
package subagent

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"

	agent "github.com/armatrix/deepagents-go"
)

// Definition describes a specialization. It is immutable once a Registry
// has been built from it.
type Definition struct {
	// Name is the unique key the task capability refers to.
	Name string `json:"name" yaml:"name"`

	// Description tells the primary process when to pick this worker.
	Description string `json:"description" yaml:"description"`

	// Directive is the worker's system prompt.
	Directive string `json:"directive" yaml:"directive"`

	// Capabilities names the capabilities bound to the worker. Nil means the
	// full capability list.
	Capabilities []string `json:"tools,omitempty" yaml:"tools,omitempty"`

	// Model overrides the shared model ID. Empty means inherit.
	Model anthropic.Model `json:"model,omitempty" yaml:"model,omitempty"`

	// MaxTurns limits the worker's loop iterations. 0 means unlimited.
	MaxTurns int `json:"maxTurns,omitempty" yaml:"maxTurns,omitempty"`

	// MaxBudget limits the worker's spend per delegation. Zero means unlimited.
	MaxBudget decimal.Decimal `json:"maxBudgetUSD,omitempty" yaml:"-"`

	// Options are additional AgentOption functions applied to the worker.
	Options []agent.AgentOption `json:"-" yaml:"-"`
}

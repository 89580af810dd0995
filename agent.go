package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/armatrix/deepagents-go/internal/budget"
	"github.com/armatrix/deepagents-go/internal/engine"
)

// Agent is an executable reasoning context: a directive, a capability set and
// a model handle. It holds no conversation of its own; every Run works on the
// State it is given, so one Agent can serve many goroutines.
type Agent struct {
	model *Model
	caps  *CapabilityRegistry
	opts  agentOptions
}

// NewAgent creates a new Agent with the given options.
func NewAgent(opts ...AgentOption) *Agent {
	resolved := resolveOptions(opts)
	return &Agent{
		model: resolved.model,
		caps:  NewCapabilityRegistry(resolved.capabilities...),
		opts:  resolved,
	}
}

// Run drives the reasoning loop against st until the model ends its turn.
// Assistant turns and tool results are appended to st.Messages and
// capabilities mutate st directly. The returned state is st itself.
//
// A run that stops early returns st together with ErrMaxTurns,
// ErrBudgetExhausted, the context error, or a *RunError.
func (a *Agent) Run(ctx context.Context, st *State) (*State, error) {
	if a.model == nil || a.model.Messages == nil {
		return nil, ErrNoModel
	}
	if st == nil {
		st = NewState()
	}

	var mu sync.Mutex
	tracker := budget.NewTracker(a.opts.maxBudget, nil)
	fallback := a.model.Fallback
	if a.opts.fallbackModel != "" {
		fallback = a.opts.fallbackModel
	}

	cfg := engine.LoopConfig{
		Streamer:      engine.NewMessageStreamer(a.model.Messages),
		Tools:         &capabilityExecutor{registry: a.caps, state: st, locker: &mu},
		History:       &stateHistory{st: st, locker: &mu},
		Model:         a.model.ID,
		FallbackModel: fallback,
		MaxTokens:     a.opts.maxOutputTokens,
		MaxTurns:      a.opts.maxTurns,
		RunID:         GenerateID(PrefixRun),
		Budget:        &budgetAdapter{tracker: tracker},
		ParallelTools: *a.opts.parallelTools,
		Sink: &runSink{
			handler: a.opts.handler,
			logger:  a.opts.logger.With(zap.String("agent", a.opts.name)),
			stateID: st.ID,
			tracker: tracker,
		},
	}
	if a.opts.directive != "" {
		cfg.SystemPrompt = []anthropic.TextBlockParam{{Text: a.opts.directive}}
	}

	info := engine.RunLoop(ctx, cfg)
	return st, resultError(ctx, info)
}

// RunPrompt runs the agent on a fresh state holding a single user turn.
func (a *Agent) RunPrompt(ctx context.Context, prompt string) (*State, error) {
	st := NewState()
	st.AppendMessage(Message{Role: RoleUser, Content: prompt})
	return a.Run(ctx, st)
}

// Capabilities returns the agent's capability registry. Capabilities
// registered after construction are visible to subsequent runs.
func (a *Agent) Capabilities() *CapabilityRegistry {
	return a.caps
}

// Directive returns the system prompt.
func (a *Agent) Directive() string {
	return a.opts.directive
}

// Model returns the model handle.
func (a *Agent) Model() *Model {
	return a.model
}

// Name returns the label the agent logs under.
func (a *Agent) Name() string {
	return a.opts.name
}

func resultError(ctx context.Context, info engine.ResultInfo) error {
	switch info.Subtype {
	case engine.SubtypeSuccess:
		return nil
	case engine.SubtypeMaxTurns:
		return fmt.Errorf("%w after %d turns", ErrMaxTurns, info.NumTurns)
	case engine.SubtypeMaxBudget:
		return ErrBudgetExhausted
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("agent: run interrupted: %w", err)
	}
	return &RunError{Subtype: info.Subtype, Errors: info.Errors}
}

// capabilityExecutor binds the registry to the state of one run.
type capabilityExecutor struct {
	registry *CapabilityRegistry
	state    *State
	locker   sync.Locker
}

func (e *capabilityExecutor) Execute(ctx context.Context, id, name string, input json.RawMessage) (engine.ToolOutcome, error) {
	call := Call{ID: id, State: e.state, Locker: e.locker}
	result, err := e.registry.Invoke(ctx, call, name, input)
	if err != nil {
		return engine.ToolOutcome{}, err
	}
	if result == nil {
		return engine.ToolOutcome{}, nil
	}
	return engine.ToolOutcome{Content: result.Content, IsError: result.IsError, Recorded: result.Recorded}, nil
}

func (e *capabilityExecutor) ListForAPI() []anthropic.ToolUnionParam {
	return e.registry.ListForAPI()
}

// budgetAdapter wraps budget.Tracker to implement engine.BudgetChecker.
type budgetAdapter struct {
	tracker *budget.Tracker
}

func (b *budgetAdapter) RecordUsage(model anthropic.Model, usage engine.BudgetUsage) {
	b.tracker.RecordUsage(model, budget.Usage{
		InputTokens:              usage.InputTokens,
		OutputTokens:             usage.OutputTokens,
		CacheReadInputTokens:     usage.CacheRead,
		CacheCreationInputTokens: usage.CacheCreation,
	})
}

func (b *budgetAdapter) Exhausted() bool {
	return b.tracker.Exhausted()
}

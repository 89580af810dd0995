package agent

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AgentOption configures an Agent via the functional options pattern.
type AgentOption func(*agentOptions)

// agentOptions holds all configurable fields set via AgentOption functions.
type agentOptions struct {
	model           *Model
	directive       string
	capabilities    []Capability
	maxTurns        int
	maxOutputTokens int
	maxBudget       decimal.Decimal
	fallbackModel   anthropic.Model
	parallelTools   *bool
	logger          *zap.Logger
	handler         EventHandler
	name            string
	store           StateStore
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *agentOptions) applyDefaults() {
	if o.maxOutputTokens == 0 {
		o.maxOutputTokens = DefaultMaxOutputTokens
	}
	if o.parallelTools == nil {
		on := true
		o.parallelTools = &on
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.name == "" {
		o.name = "agent"
	}
}

// resolveOptions applies all option functions and fills defaults.
func resolveOptions(opts []AgentOption) agentOptions {
	var o agentOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// --- Model ---

// WithModel sets the model handle the agent reasons with.
func WithModel(m *Model) AgentOption {
	return func(o *agentOptions) { o.model = m }
}

// WithFallbackModel sets a model to retry with when the primary one is
// overloaded or unavailable. It overrides the handle's own Fallback.
func WithFallbackModel(model anthropic.Model) AgentOption {
	return func(o *agentOptions) { o.fallbackModel = model }
}

// WithMaxOutputTokens sets the maximum output tokens per response.
func WithMaxOutputTokens(tokens int) AgentOption {
	return func(o *agentOptions) { o.maxOutputTokens = tokens }
}

// --- Behaviour ---

// WithDirective sets the system prompt.
func WithDirective(text string) AgentOption {
	return func(o *agentOptions) { o.directive = text }
}

// WithName labels the agent in logs.
func WithName(name string) AgentOption {
	return func(o *agentOptions) { o.name = name }
}

// WithCapabilities appends capabilities the agent may invoke. A later
// capability with an already registered name replaces the earlier one.
func WithCapabilities(caps ...Capability) AgentOption {
	return func(o *agentOptions) { o.capabilities = append(o.capabilities, caps...) }
}

// WithMaxTurns sets the maximum number of loop turns (0 = unlimited).
func WithMaxTurns(n int) AgentOption {
	return func(o *agentOptions) { o.maxTurns = n }
}

// WithParallelTools toggles concurrent execution of the capability calls
// requested in one model turn. Enabled by default.
func WithParallelTools(enabled bool) AgentOption {
	return func(o *agentOptions) { o.parallelTools = &enabled }
}

// --- Budget ---

// WithBudget sets the maximum budget in USD for a run. Zero means unlimited.
func WithBudget(maxUSD decimal.Decimal) AgentOption {
	return func(o *agentOptions) { o.maxBudget = maxUSD }
}

// --- Observability ---

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) AgentOption {
	return func(o *agentOptions) { o.logger = l }
}

// WithEventHandler registers a callback receiving every run event.
func WithEventHandler(h EventHandler) AgentOption {
	return func(o *agentOptions) { o.handler = h }
}

// --- Client ---

// WithStateStore sets where a Client saves and resumes its state.
func WithStateStore(store StateStore) AgentOption {
	return func(o *agentOptions) { o.store = store }
}

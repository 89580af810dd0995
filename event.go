package agent

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/armatrix/deepagents-go/internal/budget"
	"github.com/armatrix/deepagents-go/internal/engine"
)

// EventType identifies the kind of event emitted during a run.
type EventType string

const (
	EventSystem     EventType = "system"
	EventAssistant  EventType = "assistant"
	EventStream     EventType = "stream"
	EventToolResult EventType = "tool_result"
	EventResult     EventType = "result"
)

// Event is the interface implemented by all run events.
type Event interface {
	Type() EventType
}

// EventHandler observes the events of a run. Calls are serialized.
type EventHandler func(Event)

// SystemEvent is emitted once at the start of a run.
type SystemEvent struct {
	RunID   string
	StateID string
	Model   anthropic.Model
}

func (e *SystemEvent) Type() EventType { return EventSystem }

// AssistantEvent is emitted when the model produces a complete response.
type AssistantEvent struct {
	Message anthropic.Message
}

func (e *AssistantEvent) Type() EventType { return EventAssistant }

// StreamEvent is emitted for streaming text deltas as they arrive.
type StreamEvent struct {
	Delta string
}

func (e *StreamEvent) Type() EventType { return EventStream }

// ToolResultEvent is emitted after each capability invocation.
type ToolResultEvent struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

func (e *ToolResultEvent) Type() EventType { return EventToolResult }

// Usage tracks token consumption for a run.
type Usage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheReadInputTokens     int64
	CacheCreationInputTokens int64
}

// ResultEvent is emitted once at the end of a run.
type ResultEvent struct {
	// Subtype indicates the outcome: "success", "error_max_turns",
	// "error_max_tokens", "error_max_budget_usd", or "error_during_execution".
	Subtype    string
	RunID      string
	DurationMs int64
	IsError    bool
	NumTurns   int
	TotalCost  decimal.Decimal
	Usage      Usage
	Errors     []string
}

func (e *ResultEvent) Type() EventType { return EventResult }

// runSink turns loop callbacks into events and log lines.
type runSink struct {
	mu      sync.Mutex
	handler EventHandler
	logger  *zap.Logger
	stateID string
	tracker *budget.Tracker
}

func (s *runSink) emit(e Event) {
	if s.handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler(e)
}

func (s *runSink) OnSystem(runID string, model anthropic.Model) {
	s.logger.Debug("run started", zap.String("run_id", runID), zap.String("state_id", s.stateID), zap.String("model", string(model)))
	s.emit(&SystemEvent{RunID: runID, StateID: s.stateID, Model: model})
}

func (s *runSink) OnStream(delta string) {
	s.emit(&StreamEvent{Delta: delta})
}

func (s *runSink) OnAssistant(msg anthropic.Message) {
	s.logger.Debug("model turn",
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.Int("blocks", len(msg.Content)),
	)
	s.emit(&AssistantEvent{Message: msg})
}

func (s *runSink) OnToolResult(id, name string, outcome engine.ToolOutcome) {
	s.logger.Debug("tool finished", zap.String("call_id", id), zap.String("tool", name), zap.Bool("is_error", outcome.IsError))
	s.emit(&ToolResultEvent{CallID: id, Name: name, Content: outcome.Content, IsError: outcome.IsError})
}

func (s *runSink) OnResult(info engine.ResultInfo) {
	cost := decimal.Zero
	if s.tracker != nil {
		cost = s.tracker.TotalCost()
	}
	s.logger.Debug("run finished",
		zap.String("run_id", info.RunID),
		zap.String("subtype", info.Subtype),
		zap.Int("turns", info.NumTurns),
		zap.Int64("duration_ms", info.DurationMs),
		zap.String("cost_usd", cost.String()),
	)
	s.emit(&ResultEvent{
		Subtype:    info.Subtype,
		RunID:      info.RunID,
		DurationMs: info.DurationMs,
		IsError:    info.IsError,
		NumTurns:   info.NumTurns,
		TotalCost:  cost,
		Usage: Usage{
			InputTokens:              info.InputTokens,
			OutputTokens:             info.OutputTokens,
			CacheReadInputTokens:     info.CacheReadInputTokens,
			CacheCreationInputTokens: info.CacheCreationInputTokens,
		},
		Errors: info.Errors,
	})
}

// Package engine runs the reasoning loop of a single agent: stream a model
// turn, dispatch any requested tool calls, repeat until the model stops.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"golang.org/x/sync/errgroup"
)

// MessageStreamer abstracts the Anthropic Messages API so the loop can be tested
// with a mock.
type MessageStreamer interface {
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// StreamingService is satisfied by *anthropic.MessageService.
type StreamingService interface {
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

type serviceAdapter struct {
	svc StreamingService
}

func (a *serviceAdapter) NewStreaming(ctx context.Context, params anthropic.MessageNewParams) *ssestream.Stream[anthropic.MessageStreamEventUnion] {
	return a.svc.NewStreaming(ctx, params)
}

// NewMessageStreamer wraps a Messages service as a MessageStreamer.
func NewMessageStreamer(svc StreamingService) MessageStreamer {
	return &serviceAdapter{svc: svc}
}

// ToolOutcome is the result of one tool call.
type ToolOutcome struct {
	Content string
	IsError bool

	// Recorded means the tool already appended its own result to the
	// history; the loop must not append another.
	Recorded bool
}

// ToolExecutor executes a tool call by name with raw JSON input.
type ToolExecutor interface {
	Execute(ctx context.Context, id, name string, input json.RawMessage) (ToolOutcome, error)
	ListForAPI() []anthropic.ToolUnionParam
}

// History is the conversation the loop reads from and appends to.
// Implementations must tolerate concurrent AppendToolResult calls.
type History interface {
	Params() []anthropic.MessageParam
	AppendAssistant(msg anthropic.Message)
	AppendToolResult(id, content string, isError bool)
}

// EventSink receives events from the loop.
type EventSink interface {
	OnSystem(runID string, model anthropic.Model)
	OnStream(delta string)
	OnAssistant(msg anthropic.Message)
	OnToolResult(id, name string, outcome ToolOutcome)
	OnResult(info ResultInfo)
}

// BudgetUsage holds token counts for a single API call.
type BudgetUsage struct {
	InputTokens   int
	OutputTokens  int
	CacheRead     int
	CacheCreation int
}

// BudgetChecker tracks and enforces budget limits. Nil means no budget enforcement.
type BudgetChecker interface {
	RecordUsage(model anthropic.Model, usage BudgetUsage)
	Exhausted() bool
}

// Result subtypes.
const (
	SubtypeSuccess        = "success"
	SubtypeMaxTurns       = "error_max_turns"
	SubtypeMaxTokens      = "error_max_tokens"
	SubtypeMaxBudget      = "error_max_budget_usd"
	SubtypeExecutionError = "error_during_execution"
)

// ResultInfo summarizes a finished run.
type ResultInfo struct {
	Subtype                  string
	RunID                    string
	IsError                  bool
	NumTurns                 int
	DurationMs               int64
	InputTokens              int64
	OutputTokens             int64
	CacheReadInputTokens     int64
	CacheCreationInputTokens int64
	Errors                   []string
}

// LoopConfig holds everything the loop needs to execute.
type LoopConfig struct {
	Streamer  MessageStreamer
	Tools     ToolExecutor
	History   History
	Model     anthropic.Model
	MaxTokens int
	MaxTurns  int

	// FallbackModel is used when the primary model returns overloaded/unavailable.
	FallbackModel anthropic.Model

	SystemPrompt []anthropic.TextBlockParam
	RunID        string

	// Sink may be nil.
	Sink EventSink

	// Budget tracks token/cost usage and enforces limits. Nil = no limit.
	Budget BudgetChecker

	// ParallelTools runs the tool calls of one model turn concurrently.
	ParallelTools bool
}

type nopSink struct{}

func (nopSink) OnSystem(string, anthropic.Model)         {}
func (nopSink) OnStream(string)                           {}
func (nopSink) OnAssistant(anthropic.Message)             {}
func (nopSink) OnToolResult(string, string, ToolOutcome)  {}
func (nopSink) OnResult(ResultInfo)                       {}

// RunLoop executes the loop in the calling goroutine until the model ends
// its turn or a limit is hit, and returns the run summary.
func RunLoop(ctx context.Context, cfg LoopConfig) ResultInfo {
	if cfg.Sink == nil {
		cfg.Sink = nopSink{}
	}
	start := time.Now()
	var usage ResultInfo
	turns := 0

	finish := func(subtype string, numTurns int, errs ...string) ResultInfo {
		info := usage
		info.Subtype = subtype
		info.RunID = cfg.RunID
		info.IsError = subtype != SubtypeSuccess
		info.NumTurns = numTurns
		info.DurationMs = time.Since(start).Milliseconds()
		info.Errors = errs
		cfg.Sink.OnResult(info)
		return info
	}

	cfg.Sink.OnSystem(cfg.RunID, cfg.Model)

	for {
		if err := ctx.Err(); err != nil {
			return finish(SubtypeExecutionError, turns, err.Error())
		}

		params := anthropic.MessageNewParams{
			Model:     cfg.Model,
			MaxTokens: int64(cfg.MaxTokens),
			Messages:  cfg.History.Params(),
		}
		if len(cfg.SystemPrompt) > 0 {
			params.System = cfg.SystemPrompt
		}
		if tools := cfg.Tools.ListForAPI(); len(tools) > 0 {
			params.Tools = tools
		}

		msg, err := streamTurn(ctx, cfg, params)
		if err != nil && cfg.FallbackModel != "" && cfg.FallbackModel != cfg.Model && isRetryableError(err) {
			params.Model = cfg.FallbackModel
			msg, err = streamTurn(ctx, cfg, params)
			if err != nil {
				return finish(SubtypeExecutionError, turns, fmt.Sprintf("fallback stream error: %s", err.Error()))
			}
		} else if err != nil {
			return finish(SubtypeExecutionError, turns, fmt.Sprintf("stream error: %s", err.Error()))
		}

		usage.InputTokens += msg.Usage.InputTokens
		usage.OutputTokens += msg.Usage.OutputTokens
		usage.CacheReadInputTokens += msg.Usage.CacheReadInputTokens
		usage.CacheCreationInputTokens += msg.Usage.CacheCreationInputTokens

		cfg.Sink.OnAssistant(msg)
		cfg.History.AppendAssistant(msg)

		if cfg.Budget != nil {
			cfg.Budget.RecordUsage(params.Model, BudgetUsage{
				InputTokens:   int(msg.Usage.InputTokens),
				OutputTokens:  int(msg.Usage.OutputTokens),
				CacheRead:     int(msg.Usage.CacheReadInputTokens),
				CacheCreation: int(msg.Usage.CacheCreationInputTokens),
			})
			if cfg.Budget.Exhausted() {
				return finish(SubtypeMaxBudget, turns+1, "budget exhausted")
			}
		}

		switch msg.StopReason {
		case anthropic.StopReasonToolUse:
			processToolUse(ctx, cfg, msg.Content)
		case anthropic.StopReasonMaxTokens:
			return finish(SubtypeMaxTokens, turns+1, "max_tokens reached")
		default:
			return finish(SubtypeSuccess, turns+1)
		}

		turns++
		if cfg.MaxTurns > 0 && turns >= cfg.MaxTurns {
			return finish(SubtypeMaxTurns, turns, "max turns reached")
		}
	}
}

// streamTurn performs one streaming API call and accumulates the response.
func streamTurn(ctx context.Context, cfg LoopConfig, params anthropic.MessageNewParams) (anthropic.Message, error) {
	stream := cfg.Streamer.NewStreaming(ctx, params)
	defer stream.Close()

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return msg, fmt.Errorf("accumulate: %w", err)
		}
		if event.Type == "content_block_delta" && event.Delta.Type == "text_delta" && event.Delta.Text != "" {
			cfg.Sink.OnStream(event.Delta.Text)
		}
	}
	if err := stream.Err(); err != nil {
		return msg, err
	}
	return msg, nil
}

type toolUse struct {
	id, name string
	input    json.RawMessage
}

// processToolUse executes each tool_use block and records the outcomes.
func processToolUse(ctx context.Context, cfg LoopConfig, content []anthropic.ContentBlockUnion) {
	var calls []toolUse
	for _, block := range content {
		if block.Type != "tool_use" {
			continue
		}
		calls = append(calls, toolUse{id: block.ID, name: block.Name, input: json.RawMessage(block.Input)})
	}

	run := func(c toolUse) {
		outcome, err := cfg.Tools.Execute(ctx, c.id, c.name, c.input)
		if err != nil {
			outcome = ToolOutcome{Content: fmt.Sprintf("error: %s", err.Error()), IsError: true}
		}
		if !outcome.Recorded {
			cfg.History.AppendToolResult(c.id, outcome.Content, outcome.IsError)
		}
		cfg.Sink.OnToolResult(c.id, c.name, outcome)
	}

	if !cfg.ParallelTools || len(calls) < 2 {
		for _, c := range calls {
			run(c)
		}
		return
	}

	var g errgroup.Group
	for _, c := range calls {
		g.Go(func() error {
			run(c)
			return nil
		})
	}
	_ = g.Wait()
}

// isRetryableError returns true if the error indicates the model is overloaded
// or unavailable (suitable for fallback retry).
func isRetryableError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "model_unavailable") ||
		strings.Contains(msg, "529") ||
		strings.Contains(msg, "503")
}

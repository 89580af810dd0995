package subagent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	agent "github.com/armatrix/deepagents-go"
)

// NoOutputText is the result content of a worker that returned no messages.
const NoOutputText = "(sub-agent completed with no output)"

// Request is one delegation.
type Request struct {
	// Description is the task text; it becomes the worker's only message.
	Description string

	// Target names the specialization.
	Target string

	// State is the caller's Shared State. It is read when building the
	// isolated state and written when reconciling.
	State *agent.State

	// CallID is the correlation token of the result message.
	CallID string

	// Locker guards State against the caller's other concurrent writers.
	// Nil selects the engine's own mutex.
	Locker sync.Locker
}

// Result is the observable outcome of a delegation.
type Result struct {
	// State is the caller's state after reconciliation.
	State *agent.State

	// Message is the correlated message appended to State.
	Message agent.Message

	// Rejected reports an unknown target. State's files and todos are
	// untouched in that case.
	Rejected bool
}

// delegation tracks an in-flight worker run.
type delegation struct {
	id      string
	target  string
	started time.Time
}

// Engine delegates tasks to the specializations of a Registry.
type Engine struct {
	registry *Registry
	logger   *zap.Logger

	mu sync.Mutex // default critical section for reconciliation

	activeMu sync.RWMutex
	active   map[string]*delegation
}

// New creates an Engine over registry.
func New(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   zap.NewNop(),
		active:   make(map[string]*delegation),
	}
	for _, fn := range opts {
		fn(e)
	}
	return e
}

// Delegate runs req.Target on an isolated copy of req.State and blocks until
// it finishes. Files the worker wrote are merged into req.State (worker
// values win) and exactly one correlated tool message carrying the worker's
// final message is appended. Todos never flow back.
//
// An unknown target is not an error: the returned Result is marked Rejected
// and its message lists the valid names. A worker error is returned as is,
// wrapped with the target name, and req.State is left unchanged.
func (e *Engine) Delegate(ctx context.Context, req Request) (*Result, error) {
	locker := req.Locker
	if locker == nil {
		locker = &e.mu
	}

	spec, ok := e.registry.Lookup(req.Target)
	if !ok {
		msg := agent.Message{Role: agent.RoleTool, Content: e.unknownTarget(req.Target), CallID: req.CallID}
		locker.Lock()
		req.State.AppendMessage(msg)
		locker.Unlock()
		e.logger.Info("delegation rejected", zap.String("target", req.Target), zap.String("call_id", req.CallID))
		return &Result{State: req.State, Message: msg, Rejected: true}, nil
	}

	locker.Lock()
	isolated := req.State.Isolate(req.Description)
	locker.Unlock()

	d := e.track(req.Target)
	defer e.untrack(d.id)
	e.logger.Info("delegation started",
		zap.String("delegation_id", d.id),
		zap.String("target", req.Target),
		zap.String("call_id", req.CallID),
	)

	out, err := spec.Worker.Run(ctx, isolated)
	if err == nil && out == nil {
		err = ErrNoState
	}
	if err != nil {
		e.logger.Warn("delegation failed",
			zap.String("delegation_id", d.id),
			zap.String("target", req.Target),
			zap.Duration("elapsed", time.Since(d.started)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("subagent: %s: %w", req.Target, err)
	}

	msg := agent.Message{Role: agent.RoleTool, Content: finalContent(out), CallID: req.CallID}

	locker.Lock()
	req.State.MergeFiles(out.Files)
	req.State.AppendMessage(msg)
	locker.Unlock()

	e.logger.Info("delegation finished",
		zap.String("delegation_id", d.id),
		zap.String("target", req.Target),
		zap.Int("files", len(out.Files)),
		zap.Duration("elapsed", time.Since(d.started)),
	)
	return &Result{State: req.State, Message: msg}, nil
}

// Names returns the specialization names in registration order.
func (e *Engine) Names() []string {
	return e.registry.Names()
}

// Describe renders the specializations for the task capability description.
func (e *Engine) Describe() string {
	return e.registry.Describe()
}

// Active returns the number of delegations currently running.
func (e *Engine) Active() int {
	e.activeMu.RLock()
	defer e.activeMu.RUnlock()
	return len(e.active)
}

func (e *Engine) unknownTarget(target string) string {
	names := e.registry.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return fmt.Sprintf("Error: invoked agent of type %s, the only allowed types are [%s]", target, strings.Join(quoted, ", "))
}

func (e *Engine) track(target string) *delegation {
	d := &delegation{id: agent.GenerateID(agent.PrefixRun), target: target, started: time.Now()}
	e.activeMu.Lock()
	e.active[d.id] = d
	e.activeMu.Unlock()
	return d
}

func (e *Engine) untrack(id string) {
	e.activeMu.Lock()
	delete(e.active, id)
	e.activeMu.Unlock()
}

func finalContent(st *agent.State) string {
	last, ok := st.LastMessage()
	if !ok || last.Content == "" {
		return NoOutputText
	}
	return last.Content
}

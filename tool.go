package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/armatrix/deepagents-go/internal/schema"
)

// Call carries the per-invocation context handed to a capability.
type Call struct {
	// ID is the correlation token of the tool call being served.
	ID string

	// State is the state of the loop that invoked the capability: the
	// primary's shared state, or a worker's private copy.
	State *State

	// Locker serializes mutation of State across capabilities running
	// concurrently within one reasoning step. Nil means no other goroutine
	// touches State.
	Locker sync.Locker
}

// Do runs fn with exclusive access to the call's state.
func (c Call) Do(fn func(st *State)) {
	if c.Locker != nil {
		c.Locker.Lock()
		defer c.Locker.Unlock()
	}
	fn(c.State)
}

// Tool is the generic interface for capabilities. The type parameter T defines
// the input struct that will be automatically deserialized from JSON.
type Tool[T any] interface {
	Name() string
	Description() string
	Execute(ctx context.Context, call Call, input T) (*ToolResult, error)
}

// ToolResult is the output of a capability invocation.
type ToolResult struct {
	Content string
	IsError bool

	// Recorded reports that the capability already appended its own
	// correlated message to the call's state, so the loop must not append
	// another.
	Recorded bool
}

// TextResult is a convenience constructor for a text-only tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: text}
}

// ErrorResult is a convenience constructor for an error tool result.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{Content: text, IsError: true}
}

// RecordedResult wraps a message the capability has already appended.
func RecordedResult(msg Message) *ToolResult {
	return &ToolResult{Content: msg.Content, IsError: msg.IsError, Recorded: true}
}

// Capability is a named callable operation, type-erased over its input.
type Capability interface {
	Name() string
	Description() string
	InputSchema() anthropic.ToolInputSchemaParam
	Invoke(ctx context.Context, call Call, args json.RawMessage) (*ToolResult, error)
}

// boundTool adapts a Tool[T] to Capability.
type boundTool[T any] struct {
	tool   Tool[T]
	schema anthropic.ToolInputSchemaParam
}

// Bind converts a generic tool into a Capability. The input type T is used
// to auto-generate a JSON Schema.
func Bind[T any](tool Tool[T]) Capability {
	return &boundTool[T]{tool: tool, schema: schema.Generate[T]()}
}

func (b *boundTool[T]) Name() string                                { return b.tool.Name() }
func (b *boundTool[T]) Description() string                         { return b.tool.Description() }
func (b *boundTool[T]) InputSchema() anthropic.ToolInputSchemaParam { return b.schema }

func (b *boundTool[T]) Invoke(ctx context.Context, call Call, args json.RawMessage) (*ToolResult, error) {
	var input T
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return ErrorResult(fmt.Sprintf("invalid input: %s", err.Error())), nil
		}
	}
	return b.tool.Execute(ctx, call, input)
}

// rawCapability is a capability with a pre-built schema and invoke function.
type rawCapability struct {
	name        string
	description string
	schema      anthropic.ToolInputSchemaParam
	invoke      func(ctx context.Context, call Call, args json.RawMessage) (*ToolResult, error)
}

// NewCapability builds a capability from a pre-built schema and invoke
// function, for dynamic sources that don't use the generic Tool[T] interface.
func NewCapability(
	name, description string,
	inputSchema anthropic.ToolInputSchemaParam,
	invoke func(ctx context.Context, call Call, args json.RawMessage) (*ToolResult, error),
) Capability {
	return &rawCapability{name: name, description: description, schema: inputSchema, invoke: invoke}
}

func (r *rawCapability) Name() string                                { return r.name }
func (r *rawCapability) Description() string                         { return r.description }
func (r *rawCapability) InputSchema() anthropic.ToolInputSchemaParam { return r.schema }

func (r *rawCapability) Invoke(ctx context.Context, call Call, args json.RawMessage) (*ToolResult, error) {
	return r.invoke(ctx, call, args)
}

// CapabilityRegistry maps capability names to implementations. It is
// concurrent-safe.
type CapabilityRegistry struct {
	mu    sync.RWMutex
	caps  map[string]Capability
	order []string // preserve registration order
}

// NewCapabilityRegistry builds a registry from a flat capability list. A later
// capability with the same name replaces an earlier one in place.
func NewCapabilityRegistry(caps ...Capability) *CapabilityRegistry {
	r := &CapabilityRegistry{caps: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		r.Register(c)
	}
	return r
}

// Register adds or replaces a capability.
func (r *CapabilityRegistry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caps[c.Name()]; !exists {
		r.order = append(r.order, c.Name())
	}
	r.caps[c.Name()] = c
}

// RegisterTool binds and registers a generic tool.
func RegisterTool[T any](r *CapabilityRegistry, tool Tool[T]) {
	r.Register(Bind(tool))
}

// Resolve returns the capability registered under name, or an error wrapping
// ErrCapabilityNotFound.
func (r *CapabilityRegistry) Resolve(name string) (Capability, error) {
	r.mu.RLock()
	c, ok := r.caps[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCapabilityNotFound, name)
	}
	return c, nil
}

// Subset resolves each name and returns a new registry holding exactly those
// capabilities, in the order given.
func (r *CapabilityRegistry) Subset(names ...string) (*CapabilityRegistry, error) {
	out := NewCapabilityRegistry()
	for _, name := range names {
		c, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out.Register(c)
	}
	return out, nil
}

// List returns the registered capabilities in registration order.
func (r *CapabilityRegistry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capability, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.caps[name])
	}
	return out
}

// Names returns the names of all registered capabilities in registration order.
func (r *CapabilityRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered capabilities.
func (r *CapabilityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Invoke runs a capability by name.
func (r *CapabilityRegistry) Invoke(ctx context.Context, call Call, name string, args json.RawMessage) (*ToolResult, error) {
	c, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return c.Invoke(ctx, call, args)
}

// ListForAPI returns the registered capabilities in the format expected by the Anthropic API.
func (r *CapabilityRegistry) ListForAPI() []anthropic.ToolUnionParam {
	caps := r.List()
	result := make([]anthropic.ToolUnionParam, 0, len(caps))
	for _, c := range caps {
		result = append(result, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        c.Name(),
				Description: param.NewOpt(c.Description()),
				InputSchema: c.InputSchema(),
			},
		})
	}
	return result
}

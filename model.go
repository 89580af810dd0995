package agent

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// MessageService is the subset of the Anthropic Messages API the agents use.
// *anthropic.MessageService satisfies it.
type MessageService interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// Model is a shared handle to a language model. It is constructed once at
// startup and passed explicitly to every agent that uses it.
type Model struct {
	ID       anthropic.Model
	Fallback anthropic.Model
	Messages MessageService
}

// NewModel builds a model handle backed by a new Anthropic client. With no
// request options the client reads ANTHROPIC_API_KEY from the environment.
func NewModel(id anthropic.Model, opts ...option.RequestOption) *Model {
	if id == "" {
		id = DefaultModel
	}
	client := anthropic.NewClient(opts...)
	return &Model{ID: id, Messages: &client.Messages}
}

// WithID returns a handle to a different model sharing the same client.
// An empty id returns m itself.
func (m *Model) WithID(id anthropic.Model) *Model {
	if id == "" || id == m.ID {
		return m
	}
	cp := *m
	cp.ID = id
	return &cp
}

package agent

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Client hosts the primary reasoning process: it owns one Shared State and
// runs its Agent against it for every Query, so history accumulates across
// calls.
type Client struct {
	agent  *Agent
	store  StateStore
	logger *zap.Logger

	runMu sync.Mutex // one Query at a time

	mu     sync.Mutex
	state  *State
	cancel context.CancelFunc // cancel for current Query
}

// NewClient creates a new Client with its own Agent configured by the given options.
func NewClient(opts ...AgentOption) *Client {
	a := NewAgent(opts...)
	return &Client{
		agent:  a,
		store:  a.opts.store,
		logger: a.opts.logger,
		state:  NewState(),
	}
}

// Query appends prompt as a user turn and runs the agent to completion. It
// returns the final turn of the history.
func (c *Client) Query(ctx context.Context, prompt string) (Message, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	st := c.state
	c.mu.Unlock()
	defer cancel()

	st.AppendMessage(Message{Role: RoleUser, Content: prompt})
	if _, err := c.agent.Run(ctx, st); err != nil {
		c.logger.Warn("query failed", zap.String("state_id", st.ID), zap.Error(err))
		return Message{}, err
	}
	last, _ := st.LastMessage()
	return last, nil
}

// Interrupt cancels the currently running Query, if any. The state keeps
// whatever the run appended before it stopped.
func (c *Client) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Resume loads a state from the store and makes it current.
func (c *Client) Resume(ctx context.Context, id string) error {
	if c.store == nil {
		return ErrNoSessionStore
	}
	st, err := c.store.Load(ctx, id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
	return nil
}

// ContinueLatest makes the most recently updated stored state current.
// Requires a store that implements StateLister.
func (c *Client) ContinueLatest(ctx context.Context) error {
	if c.store == nil {
		return ErrNoSessionStore
	}
	lister, ok := c.store.(StateLister)
	if !ok {
		return ErrStoreNotListable
	}
	states, err := lister.List(ctx)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return ErrNoStates
	}
	latest := states[0]
	for _, s := range states[1:] {
		if s.UpdatedAt.After(latest.UpdatedAt) {
			latest = s
		}
	}
	c.mu.Lock()
	c.state = latest
	c.mu.Unlock()
	return nil
}

// Fork returns a Client sharing the same Agent with an independent copy of
// the current state under a new ID.
func (c *Client) Fork() *Client {
	c.mu.Lock()
	cloned := c.state.Clone()
	c.mu.Unlock()
	cloned.ID = GenerateID(PrefixState)

	return &Client{
		agent:  c.agent,
		store:  c.store,
		logger: c.logger,
		state:  cloned,
	}
}

// State returns the client's current state.
func (c *Client) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Agent returns the underlying Agent.
func (c *Client) Agent() *Agent {
	return c.agent
}

// Close saves the current state if a store is configured.
func (c *Client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(context.Background(), c.State())
}

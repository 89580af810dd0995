package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	agent "github.com/armatrix/deepagents-go"
)

// ErrNotFound is returned for an unknown state ID.
var ErrNotFound = errors.New("session: state not found")

// MemoryStore is an in-memory state store backed by a sync.RWMutex-protected map.
// States are deep-copied on save and load to prevent external mutation.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*agent.State
}

var _ agent.StateLister = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*agent.State),
	}
}

// Save stores a deep copy of st under its ID, replacing any earlier snapshot.
func (m *MemoryStore) Save(_ context.Context, st *agent.State) error {
	if st == nil {
		return errors.New("session: state is nil")
	}
	if st.ID == "" {
		return errors.New("session: state has no ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[st.ID] = st.Clone()
	return nil
}

// Load retrieves a deep copy of the snapshot stored under id.
func (m *MemoryStore) Load(_ context.Context, id string) (*agent.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return st.Clone(), nil
}

// Delete removes a snapshot by ID.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.states, id)
	return nil
}

// List returns deep copies of all snapshots, most recently updated first.
func (m *MemoryStore) List(_ context.Context) ([]*agent.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*agent.State, 0, len(m.states))
	for _, st := range m.states {
		result = append(result, st.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// Fork copies the snapshot stored under id to a new ID, saves the copy, and
// returns it.
func (m *MemoryStore) Fork(_ context.Context, id string) (*agent.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	forked := original.Clone()
	forked.ID = agent.GenerateID(agent.PrefixState)
	m.states[forked.ID] = forked.Clone()
	return forked, nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

package agent

import "context"

// StateStore persists Shared State snapshots between Client sessions.
type StateStore interface {
	Save(ctx context.Context, st *State) error
	Load(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
}

// StateLister extends StateStore with the ability to list snapshots.
type StateLister interface {
	StateStore
	List(ctx context.Context) ([]*State, error)
}

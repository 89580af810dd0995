package subagent

import (
	"errors"
	"fmt"

	agent "github.com/armatrix/deepagents-go"
)

// Sentinel errors for the subagent package.
var (
	ErrDuplicateSpecialization = errors.New("subagent: duplicate specialization")
	ErrEmptyName               = errors.New("subagent: specialization name is empty")
	ErrNoState                 = errors.New("subagent: worker returned no state")
)

// UnknownCapabilityError reports a specialization that names a capability
// missing from the capability list. It unwraps to agent.ErrCapabilityNotFound.
type UnknownCapabilityError struct {
	Specialization string
	Capability     string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("subagent: specialization %q references unknown capability %q", e.Specialization, e.Capability)
}

func (e *UnknownCapabilityError) Unwrap() error {
	return agent.ErrCapabilityNotFound
}

package agent

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the capability registry, the reasoning loop and
// the client.
var (
	ErrCapabilityNotFound = errors.New("agent: capability not found")
	ErrBudgetExhausted    = errors.New("agent: budget exhausted")
	ErrMaxTurns           = errors.New("agent: max turns reached")
	ErrNoSessionStore     = errors.New("agent: no session store configured")
	ErrStoreNotListable   = errors.New("agent: state store does not support listing")
	ErrNoStates           = errors.New("agent: no stored states")
	ErrNoModel            = errors.New("agent: no model configured")
)

// RunError reports a reasoning loop that ended in failure for a reason other
// than the turn or budget limits.
type RunError struct {
	Subtype string
	Errors  []string
}

func (e *RunError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("agent: run failed (%s)", e.Subtype)
	}
	return fmt.Sprintf("agent: run failed (%s): %s", e.Subtype, strings.Join(e.Errors, "; "))
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

// NonConvergenceError is returned when a session hits its iteration bound without a terminal
// result. History holds every Missing set observed, in order.
type NonConvergenceError struct {
	Iterations int
	History    []MissingAccounts
}

func (e *NonConvergenceError) Error() string {
	parts := make([]string, 0, len(e.History))
	for i, m := range e.History {
		parts = append(parts, fmt.Sprintf("round %d: accounts=%v lookupTables=%v", i+1, m.Accounts, m.AddressLookupTables))
	}
	return fmt.Sprintf("resolver did not converge after %d iterations [%s]", e.Iterations, strings.Join(parts, "; "))
}

// ProtocolViolationError is returned when a resolver asks for something already supplied, or
// makes no request at all while not terminal.
type ProtocolViolationError struct {
	Iteration int
	Reason    string
	Accounts  []solana.PublicKey
}

func (e *ProtocolViolationError) Error() string {
	if len(e.Accounts) == 0 {
		return fmt.Sprintf("resolver protocol violation at iteration %d: %s", e.Iteration, e.Reason)
	}
	return fmt.Sprintf("resolver protocol violation at iteration %d: %s: %v", e.Iteration, e.Reason, e.Accounts)
}

// SimulationError is returned when the resolving entrypoint fails during simulation.
type SimulationError struct {
	Err  any
	Logs []string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("resolver simulation failed: %v", e.Err)
}

// IsTransient reports whether err may succeed on retry. Decode failures, protocol violations,
// program errors and cancellation are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var (
		pv  *ProtocolViolationError
		nc  *NonConvergenceError
		sim *SimulationError
	)
	switch {
	case protocol.IsMalformed(err),
		errors.As(err, &pv),
		errors.As(err, &nc),
		errors.As(err, &sim),
		errors.Is(err, ErrMalformedResult),
		errors.Is(err, ErrUnresolvable):
		return false
	}
	return true
}

var (
	// ErrMalformedResult wraps return data that could not be decoded.
	ErrMalformedResult = errors.New("malformed resolver result")
	// ErrUnresolvable wraps failures that no amount of retrying or extra context will fix.
	ErrUnresolvable = errors.New("message cannot be resolved")
)

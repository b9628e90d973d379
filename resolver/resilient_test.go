package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

func testResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		FailureThreshold:    3,
		SuccessThreshold:    1,
		CircuitBreakerDelay: time.Minute,
		MaxRetries:          2,
		InitialBackoff:      time.Millisecond,
		MaxBackoff:          5 * time.Millisecond,
		Jitter:              time.Millisecond,
		RequestTimeout:      time.Second,
	}
}

func TestIsTransient(t *testing.T) {
	testcases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"io", errors.New("connection reset"), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), false},
		{"malformed", fmt.Errorf("wrapped: %w", protocol.ErrInvalidLength), false},
		{"violation", &ProtocolViolationError{Iteration: 1, Reason: "x"}, false},
		{"non convergence", &NonConvergenceError{Iterations: 5}, false},
		{"simulation", &SimulationError{Err: "custom program error: 0x1"}, false},
		{"malformed result", fmt.Errorf("%w: bad tag", ErrMalformedResult), false},
		{"unresolvable", fmt.Errorf("%w: no mint", ErrUnresolvable), false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.transient, IsTransient(tc.err))
		})
	}
}

func TestResilientResolver_RetriesTransientErrors(t *testing.T) {
	calls := 0
	underlying := ResolverFunc(func(context.Context, []byte, *Context) (*Result, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("503 service unavailable")
		}
		return NewResolved(), nil
	})
	r := NewResilientResolver(underlying, logger.Test(t), testResilienceConfig())

	res, err := r.Resolve(t.Context(), []byte{1}, &Context{})
	require.NoError(t, err)
	assert.Equal(t, KindResolved, res.Kind)
	assert.Equal(t, 3, calls)
	assert.Equal(t, circuitbreaker.ClosedState, r.CircuitBreakerState())
}

func TestResilientResolver_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	underlying := ResolverFunc(func(context.Context, []byte, *Context) (*Result, error) {
		calls++
		return nil, &SimulationError{Err: "custom program error: 0x1771"}
	})
	r := NewResilientResolver(underlying, logger.Test(t), testResilienceConfig())

	_, err := r.Resolve(t.Context(), []byte{1}, &Context{})
	var sim *SimulationError
	require.ErrorAs(t, err, &sim)
	assert.Equal(t, 1, calls)
}

func TestResilientResolver_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	sentinel := errors.New("connection refused")
	underlying := ResolverFunc(func(context.Context, []byte, *Context) (*Result, error) {
		calls++
		return nil, sentinel
	})
	r := NewResilientResolver(underlying, logger.Test(t), testResilienceConfig())

	_, err := r.Resolve(t.Context(), []byte{1}, &Context{})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
}

func TestResilientAccountFetcher(t *testing.T) {
	key := solana.NewWallet().PublicKey()
	calls := 0
	underlying := accountFetcherFunc(func(_ context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("timeout awaiting response headers")
		}
		return []SuppliedAccount{{Pubkey: keys[0], Exists: true}}, nil
	})
	f := NewResilientAccountFetcher(underlying, logger.Test(t), testResilienceConfig())

	accounts, err := f.FetchAccounts(t.Context(), []solana.PublicKey{key})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, key, accounts[0].Pubkey)
	assert.Equal(t, 2, calls)
}

type accountFetcherFunc func(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error)

func (f accountFetcherFunc) FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
	return f(ctx, keys)
}

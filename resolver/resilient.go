package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var (
	_ Resolver       = (*ResilientResolver)(nil)
	_ AccountFetcher = (*ResilientAccountFetcher)(nil)
)

type ResilienceConfig struct {
	FailureThreshold    uint          // Failures before the circuit opens (default: 5)
	SuccessThreshold    uint          // Successes in half-open state to close the circuit (default: 2)
	CircuitBreakerDelay time.Duration // Time the circuit stays open (default: 5s)

	MaxRetries     int           // Retries after the first attempt (default: 3)
	InitialBackoff time.Duration // (default: 200ms)
	MaxBackoff     time.Duration // (default: 5s)
	Jitter         time.Duration // (default: 50ms)

	RequestTimeout time.Duration // Per attempt (default: 10s)
}

func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		CircuitBreakerDelay: 5 * time.Second,
		MaxRetries:          3,
		InitialBackoff:      200 * time.Millisecond,
		MaxBackoff:          5 * time.Second,
		Jitter:              50 * time.Millisecond,
		RequestTimeout:      10 * time.Second,
	}
}

// ResilientResolver retries transient resolver failures with backoff, bounds each attempt with a
// timeout, and stops calling an unhealthy endpoint while its circuit is open.
type ResilientResolver struct {
	underlying     Resolver
	executor       failsafe.Executor[*Result]
	circuitBreaker circuitbreaker.CircuitBreaker[*Result]
}

func NewResilientResolver(underlying Resolver, lggr logger.Logger, config ResilienceConfig) *ResilientResolver {
	lggr = logger.Named(lggr, "ResilientResolver")
	cb := createCircuitBreaker[*Result](config, lggr)
	return &ResilientResolver{
		underlying:     underlying,
		executor:       failsafe.With[*Result](cb, createRetryPolicy[*Result](config, lggr), createTimeoutPolicy[*Result](config, lggr)),
		circuitBreaker: cb,
	}
}

func (r *ResilientResolver) Resolve(ctx context.Context, message []byte, rctx *Context) (*Result, error) {
	res, err := r.executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[*Result]) (*Result, error) {
		return r.underlying.Resolve(exec.Context(), message, rctx)
	})
	if err != nil {
		return nil, handleError(r.circuitBreaker, err)
	}
	return res, nil
}

func (r *ResilientResolver) CircuitBreakerState() circuitbreaker.State {
	return r.circuitBreaker.State()
}

// ResilientAccountFetcher applies the same policies to account fetches.
type ResilientAccountFetcher struct {
	underlying     AccountFetcher
	executor       failsafe.Executor[[]SuppliedAccount]
	circuitBreaker circuitbreaker.CircuitBreaker[[]SuppliedAccount]
}

func NewResilientAccountFetcher(underlying AccountFetcher, lggr logger.Logger, config ResilienceConfig) *ResilientAccountFetcher {
	lggr = logger.Named(lggr, "ResilientAccountFetcher")
	cb := createCircuitBreaker[[]SuppliedAccount](config, lggr)
	return &ResilientAccountFetcher{
		underlying: underlying,
		executor: failsafe.With[[]SuppliedAccount](
			cb,
			createRetryPolicy[[]SuppliedAccount](config, lggr),
			createTimeoutPolicy[[]SuppliedAccount](config, lggr),
		),
		circuitBreaker: cb,
	}
}

func (f *ResilientAccountFetcher) FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
	accounts, err := f.executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[[]SuppliedAccount]) ([]SuppliedAccount, error) {
		return f.underlying.FetchAccounts(exec.Context(), keys)
	})
	if err != nil {
		return nil, handleError(f.circuitBreaker, err)
	}
	return accounts, nil
}

func handleError[R any](cb circuitbreaker.CircuitBreaker[R], err error) error {
	if cb.State() == circuitbreaker.OpenState {
		return fmt.Errorf("circuit breaker is open, downstream service unavailable: %w", err)
	}
	return err
}

func retryable[R any](_ R, err error) bool {
	return IsTransient(err)
}

func createCircuitBreaker[R any](config ResilienceConfig, lggr logger.Logger) circuitbreaker.CircuitBreaker[R] {
	return circuitbreaker.NewBuilder[R]().
		WithDelay(config.CircuitBreakerDelay).
		HandleIf(retryable[R]).
		OnOpen(func(event circuitbreaker.StateChangedEvent) {
			lggr.Warnw("Circuit breaker opened", "failures", config.FailureThreshold)
		}).
		OnHalfOpen(func(event circuitbreaker.StateChangedEvent) {
			lggr.Info("Circuit breaker entering half-open state, attempting recovery")
		}).
		OnClose(func(event circuitbreaker.StateChangedEvent) {
			lggr.Infow("Circuit breaker closed", "successes", config.SuccessThreshold)
		}).
		WithFailureThreshold(config.FailureThreshold).
		WithSuccessThreshold(config.SuccessThreshold).
		Build()
}

func createRetryPolicy[R any](config ResilienceConfig, lggr logger.Logger) retrypolicy.RetryPolicy[R] {
	return retrypolicy.NewBuilder[R]().
		HandleIf(retryable[R]).
		WithMaxRetries(config.MaxRetries).
		WithBackoff(config.InitialBackoff, config.MaxBackoff).
		WithJitter(config.Jitter).
		ReturnLastFailure().
		OnRetry(func(event failsafe.ExecutionEvent[R]) {
			lggr.Debugw("Retrying request", "attempt", event.Attempts(), "error", event.LastError())
		}).
		OnRetriesExceeded(func(event failsafe.ExecutionEvent[R]) {
			lggr.Warnw("Max retries exceeded", "maxRetries", config.MaxRetries, "error", event.LastError())
		}).
		Build()
}

func createTimeoutPolicy[R any](config ResilienceConfig, lggr logger.Logger) timeout.Timeout[R] {
	return timeout.NewBuilder[R](config.RequestTimeout).
		OnTimeoutExceeded(func(event failsafe.ExecutionDoneEvent[R]) {
			lggr.Warnw("Request timeout exceeded", "timeout", config.RequestTimeout)
		}).
		Build()
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

const (
	DefaultMaxIterations = 5
	DefaultParallelism   = 4
)

// DefaultLookupTableBackoff re-polls lookup tables that are not yet visible for about 3 seconds.
func DefaultLookupTableBackoff() retry.Backoff {
	return retry.WithMaxRetries(4, retry.NewExponential(200*time.Millisecond))
}

// Client drives a resolver from an empty context to a terminal result.
type Client struct {
	lggr          logger.Logger
	resolver      Resolver
	fetcher       AccountFetcher
	maxIterations int
	parallelism   int
	lutBackoff    func() retry.Backoff
}

type Option func(*Client)

// WithMaxIterations bounds the number of resolver calls per session.
func WithMaxIterations(n int) Option {
	return func(c *Client) {
		c.maxIterations = n
	}
}

// WithParallelism bounds the number of concurrent sessions in ResolveAll.
func WithParallelism(n int) Option {
	return func(c *Client) {
		c.parallelism = n
	}
}

// WithLookupTableBackoff sets the policy for re-polling lookup tables that do not exist yet.
// A nil factory disables re-polling.
func WithLookupTableBackoff(f func() retry.Backoff) Option {
	return func(c *Client) {
		c.lutBackoff = f
	}
}

func NewClient(lggr logger.Logger, resolver Resolver, fetcher AccountFetcher, opts ...Option) (*Client, error) {
	c := &Client{
		lggr:          lggr,
		resolver:      resolver,
		fetcher:       fetcher,
		maxIterations: DefaultMaxIterations,
		parallelism:   DefaultParallelism,
		lutBackoff:    DefaultLookupTableBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}

	var errs []error
	appendIfNil := func(field interface{}, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(c.lggr, "logger")
	appendIfNil(c.resolver, "resolver")
	appendIfNil(c.fetcher, "fetcher")
	if c.maxIterations < 1 {
		errs = append(errs, fmt.Errorf("max iterations must be positive, got %d", c.maxIterations))
	}
	if c.parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be positive, got %d", c.parallelism))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.lggr = logger.Named(c.lggr, "ResolverClient")
	return c, nil
}

// Resolution is the outcome of a session.
type Resolution struct {
	SessionID  string
	Result     *Result
	Context    *Context
	Iterations int
	History    []MissingAccounts
}

// Resolve runs one session for message. Each round passes the accumulated context to the
// resolver; a Missing result is fetched and added to the context for the next round.
func (c *Client) Resolve(ctx context.Context, message []byte) (*Resolution, error) {
	session := uuid.NewString()
	lggr := logger.With(c.lggr, "session", session)

	rctx := &Context{Accounts: []SuppliedAccount{}, AddressLookupTables: []SuppliedAccount{}}
	history := make([]MissingAccounts, 0, c.maxIterations)

	for i := 1; i <= c.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := c.resolver.Resolve(ctx, message, rctx)
		if err != nil {
			return nil, fmt.Errorf("resolver call %d failed: %w", i, err)
		}
		if res == nil {
			return nil, &ProtocolViolationError{Iteration: i, Reason: "nil result"}
		}

		if res.IsTerminal() {
			lggr.Infow("Resolution complete", "kind", res.Kind.String(), "iterations", i, "suppliedAccounts", rctx.Len())
			return &Resolution{
				SessionID:  session,
				Result:     res,
				Context:    rctx,
				Iterations: i,
				History:    history,
			}, nil
		}

		if err = checkMissing(i, res.Missing, rctx); err != nil {
			return nil, err
		}
		history = append(history, *res.Missing)
		lggr.Debugw("Resolver requested accounts",
			"iteration", i,
			"accounts", res.Missing.Accounts,
			"addressLookupTables", res.Missing.AddressLookupTables)

		if i == c.maxIterations {
			break
		}
		if err = c.supply(ctx, rctx, res.Missing); err != nil {
			return nil, err
		}
	}

	lggr.Warnw("Resolver did not converge", "iterations", c.maxIterations, "history", history)
	return nil, &NonConvergenceError{Iterations: c.maxIterations, History: history}
}

// ResolveAll runs independent sessions concurrently. Results are in input order. The first
// failure cancels the remaining sessions.
func (c *Client) ResolveAll(ctx context.Context, messages [][]byte) ([]*Resolution, error) {
	results := make([]*Resolution, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, msg := range messages {
		g.Go(func() error {
			res, err := c.Resolve(gctx, msg)
			if err != nil {
				return fmt.Errorf("message %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkMissing(iteration int, m *MissingAccounts, rctx *Context) error {
	if m == nil || (len(m.Accounts) == 0 && len(m.AddressLookupTables) == 0) {
		return &ProtocolViolationError{Iteration: iteration, Reason: "missing result requests nothing"}
	}

	seen := make(map[solana.PublicKey]struct{}, len(m.Accounts)+len(m.AddressLookupTables))
	var repeated, supplied []solana.PublicKey
	for _, k := range m.All() {
		if _, ok := seen[k]; ok {
			repeated = append(repeated, k)
			continue
		}
		seen[k] = struct{}{}
		if _, ok := rctx.Find(k); ok {
			supplied = append(supplied, k)
		}
	}
	if len(supplied) > 0 {
		return &ProtocolViolationError{Iteration: iteration, Reason: "requested accounts already supplied", Accounts: supplied}
	}
	if len(repeated) > 0 {
		return &ProtocolViolationError{Iteration: iteration, Reason: "requested accounts repeated", Accounts: repeated}
	}
	return nil
}

func (c *Client) supply(ctx context.Context, rctx *Context, m *MissingAccounts) error {
	if len(m.Accounts) > 0 {
		accounts, err := c.fetch(ctx, m.Accounts)
		if err != nil {
			return fmt.Errorf("failed to fetch missing accounts: %w", err)
		}
		rctx.Accounts = append(rctx.Accounts, accounts...)
	}
	if len(m.AddressLookupTables) > 0 {
		tables, err := c.fetchLookupTables(ctx, m.AddressLookupTables)
		if err != nil {
			return fmt.Errorf("failed to fetch missing lookup tables: %w", err)
		}
		rctx.AddressLookupTables = append(rctx.AddressLookupTables, tables...)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
	accounts, err := c.fetcher.FetchAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(keys) {
		return nil, fmt.Errorf("fetcher returned %d accounts for %d keys", len(accounts), len(keys))
	}
	for i := range keys {
		if accounts[i].Pubkey != keys[i] {
			return nil, fmt.Errorf("fetcher returned %s at position %d, expected %s", accounts[i].Pubkey, i, keys[i])
		}
	}
	return accounts, nil
}

var errLookupTableNotVisible = errors.New("lookup table not visible yet")

// fetchLookupTables re-polls tables that do not exist yet, since a freshly created table may
// take a few slots to propagate. Tables still absent when the backoff is exhausted are supplied
// as non-existent.
func (c *Client) fetchLookupTables(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
	var tables []SuppliedAccount
	poll := func(ctx context.Context) error {
		var err error
		tables, err = c.fetch(ctx, keys)
		if err != nil {
			return err
		}
		for _, t := range tables {
			if !t.Exists {
				return retry.RetryableError(fmt.Errorf("%w: %s", errLookupTableNotVisible, t.Pubkey))
			}
		}
		return nil
	}

	if c.lutBackoff == nil {
		if err := poll(ctx); err != nil && !errors.Is(err, errLookupTableNotVisible) {
			return nil, err
		}
		return tables, nil
	}

	err := retry.Do(ctx, c.lutBackoff(), poll)
	switch {
	case err == nil:
	case errors.Is(err, errLookupTableNotVisible):
		c.lggr.Warnw("Supplying lookup tables that are not visible", "tables", keys, "error", err)
	default:
		return nil, err
	}
	return tables, nil
}

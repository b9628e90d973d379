package resolver_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/internal/mocks"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

var (
	programID = solana.MustPublicKeyFromBase58("tbr7Qje6qBzPwfM52csL5KFi8ps5c5vDyiVVBLYVdRf")
	accountA  = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	accountB  = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	tableT    = solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")
)

// twoRoundResolver needs accountA, then resolves to an instruction whose data is accountA's data.
func twoRoundResolver(calls *atomic.Int32) resolver.Resolver {
	return resolver.ResolverFunc(func(_ context.Context, message []byte, rctx *resolver.Context) (*resolver.Result, error) {
		calls.Add(1)
		a, ok := rctx.Find(accountA)
		if !ok {
			return resolver.NewMissing([]solana.PublicKey{accountA}, nil), nil
		}
		data := append([]byte{}, message...)
		data = append(data, a.Data...)
		return resolver.NewResolved(resolver.InstructionGroup{
			Instructions: []resolver.SerializableInstruction{{
				ProgramID: programID,
				Accounts:  []resolver.AccountMeta{{Pubkey: resolver.PlaceholderPayer, IsSigner: true, IsWritable: true}, {Pubkey: accountA}},
				Data:      data,
			}},
			AddressLookupTables: []solana.PublicKey{},
		}), nil
	})
}

// staticFetcher answers every key with an existing account whose data is the key's first byte.
func staticFetcher(t *testing.T) *mocks.MockAccountFetcher {
	f := mocks.NewMockAccountFetcher(t)
	f.EXPECT().FetchAccounts(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, keys []solana.PublicKey) ([]resolver.SuppliedAccount, error) {
		out := make([]resolver.SuppliedAccount, 0, len(keys))
		for _, k := range keys {
			out = append(out, resolver.SuppliedAccount{Pubkey: k, Exists: true, Owner: solana.SystemProgramID, Lamports: 1, Data: []byte{k[0]}})
		}
		return out, nil
	}).Maybe()
	return f
}

func TestNewClient(t *testing.T) {
	lggr := logger.Test(t)
	r := resolver.ResolverFunc(func(context.Context, []byte, *resolver.Context) (*resolver.Result, error) { return nil, nil })
	f := mocks.NewMockAccountFetcher(t)

	testcases := []struct {
		name      string
		lggr      logger.Logger
		resolver  resolver.Resolver
		fetcher   resolver.AccountFetcher
		opts      []resolver.Option
		expectErr bool
	}{
		{name: "happy", lggr: lggr, resolver: r, fetcher: f},
		{name: "missing everything", expectErr: true},
		{name: "missing logger", resolver: r, fetcher: f, expectErr: true},
		{name: "missing resolver", lggr: lggr, fetcher: f, expectErr: true},
		{name: "missing fetcher", lggr: lggr, resolver: r, expectErr: true},
		{name: "zero iterations", lggr: lggr, resolver: r, fetcher: f, opts: []resolver.Option{resolver.WithMaxIterations(0)}, expectErr: true},
		{name: "zero parallelism", lggr: lggr, resolver: r, fetcher: f, opts: []resolver.Option{resolver.WithParallelism(0)}, expectErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.NewClient(tc.lggr, tc.resolver, tc.fetcher, tc.opts...)
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestClient_TwoRoundResolution(t *testing.T) {
	message := []byte("attested message")

	run := func() (*resolver.Resolution, int32) {
		var calls atomic.Int32
		c, err := resolver.NewClient(logger.Test(t), twoRoundResolver(&calls), staticFetcher(t))
		require.NoError(t, err)
		res, err := c.Resolve(t.Context(), message)
		require.NoError(t, err)
		return res, calls.Load()
	}

	first, calls := run()
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, 2, first.Iterations)
	assert.Equal(t, resolver.KindResolved, first.Result.Kind)
	require.Len(t, first.History, 1)
	assert.Equal(t, []solana.PublicKey{accountA}, first.History[0].Accounts)
	assert.NotEmpty(t, first.SessionID)

	second, _ := run()
	assert.NotEqual(t, first.SessionID, second.SessionID)

	a, err := resolver.EncodeResult(first.Result)
	require.NoError(t, err)
	b, err := resolver.EncodeResult(second.Result)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClient_ImmediateTerminal(t *testing.T) {
	r := mocks.NewMockResolver(t)
	r.EXPECT().Resolve(mock.Anything, mock.Anything, mock.Anything).Return(resolver.NewAccountResult(), nil).Once()

	c, err := resolver.NewClient(logger.Test(t), r, mocks.NewMockAccountFetcher(t))
	require.NoError(t, err)

	res, err := c.Resolve(t.Context(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, resolver.KindAccount, res.Result.Kind)
	assert.Equal(t, 1, res.Iterations)
	assert.Empty(t, res.History)
}

func TestClient_ProtocolViolations(t *testing.T) {
	testcases := []struct {
		name    string
		results []*resolver.Result
		reason  string
	}{
		{
			name: "asks again for a supplied account",
			results: []*resolver.Result{
				resolver.NewMissing([]solana.PublicKey{accountA}, nil),
				resolver.NewMissing([]solana.PublicKey{accountB, accountA}, nil),
			},
			reason: "already supplied",
		},
		{
			name: "lookup table already supplied as account",
			results: []*resolver.Result{
				resolver.NewMissing([]solana.PublicKey{tableT}, nil),
				resolver.NewMissing(nil, []solana.PublicKey{tableT}),
			},
			reason: "already supplied",
		},
		{
			name:    "repeats a key in one request",
			results: []*resolver.Result{resolver.NewMissing([]solana.PublicKey{accountA}, []solana.PublicKey{accountA})},
			reason:  "repeated",
		},
		{
			name:    "requests nothing",
			results: []*resolver.Result{resolver.NewMissing(nil, nil)},
			reason:  "requests nothing",
		},
		{
			name:    "nil result",
			results: []*resolver.Result{nil},
			reason:  "nil result",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			r := mocks.NewMockResolver(t)
			for _, res := range tc.results {
				r.EXPECT().Resolve(mock.Anything, mock.Anything, mock.Anything).Return(res, nil).Once()
			}
			c, err := resolver.NewClient(logger.Test(t), r, staticFetcher(t), resolver.WithLookupTableBackoff(nil))
			require.NoError(t, err)

			_, err = c.Resolve(t.Context(), []byte{1})
			var violation *resolver.ProtocolViolationError
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, len(tc.results), violation.Iteration)
			assert.Contains(t, violation.Error(), tc.reason)
			assert.False(t, resolver.IsTransient(err))
		})
	}
}

func TestClient_NonConvergence(t *testing.T) {
	keys := make([]solana.PublicKey, 0, 3)
	for range 3 {
		keys = append(keys, solana.NewWallet().PublicKey())
	}
	var calls atomic.Int32
	r := resolver.ResolverFunc(func(_ context.Context, _ []byte, rctx *resolver.Context) (*resolver.Result, error) {
		calls.Add(1)
		return resolver.NewMissing([]solana.PublicKey{keys[rctx.Len()]}, nil), nil
	})
	fetcher := staticFetcher(t)

	c, err := resolver.NewClient(logger.Test(t), r, fetcher, resolver.WithMaxIterations(3))
	require.NoError(t, err)

	_, err = c.Resolve(t.Context(), []byte{1})
	var nc *resolver.NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, 3, nc.Iterations)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, nc.History, 3)

	seen := map[solana.PublicKey]bool{}
	for i, m := range nc.History {
		assert.Equal(t, []solana.PublicKey{keys[i]}, m.Accounts)
		for _, k := range m.All() {
			assert.False(t, seen[k], "key %s requested twice", k)
			seen[k] = true
		}
	}
	// The last Missing set is reported but never fetched.
	fetcher.AssertNumberOfCalls(t, "FetchAccounts", 2)
	assert.Contains(t, err.Error(), keys[2].String())
	assert.False(t, resolver.IsTransient(err))
}

func TestClient_LookupTablePolling(t *testing.T) {
	lutResolver := func() resolver.Resolver {
		return resolver.ResolverFunc(func(_ context.Context, _ []byte, rctx *resolver.Context) (*resolver.Result, error) {
			if _, ok := rctx.Find(tableT); !ok {
				return resolver.NewMissing(nil, []solana.PublicKey{tableT}), nil
			}
			return resolver.NewResolved(resolver.InstructionGroup{
				Instructions:        []resolver.SerializableInstruction{},
				AddressLookupTables: []solana.PublicKey{tableT},
			}), nil
		})
	}
	backoff := func() retry.Backoff {
		return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	}
	absent := []resolver.SuppliedAccount{{Pubkey: tableT}}
	present := []resolver.SuppliedAccount{{Pubkey: tableT, Exists: true, Data: []byte{1}}}

	t.Run("becomes visible", func(t *testing.T) {
		f := mocks.NewMockAccountFetcher(t)
		f.EXPECT().FetchAccounts(mock.Anything, []solana.PublicKey{tableT}).Return(absent, nil).Once()
		f.EXPECT().FetchAccounts(mock.Anything, []solana.PublicKey{tableT}).Return(present, nil).Once()

		c, err := resolver.NewClient(logger.Test(t), lutResolver(), f, resolver.WithLookupTableBackoff(backoff))
		require.NoError(t, err)
		res, err := c.Resolve(t.Context(), []byte{1})
		require.NoError(t, err)

		table, ok := res.Context.Find(tableT)
		require.True(t, ok)
		assert.True(t, table.Exists)
		assert.Len(t, res.Context.AddressLookupTables, 1)
		assert.Empty(t, res.Context.Accounts)
	})

	t.Run("never visible", func(t *testing.T) {
		f := mocks.NewMockAccountFetcher(t)
		f.EXPECT().FetchAccounts(mock.Anything, []solana.PublicKey{tableT}).Return(absent, nil).Times(3)

		c, err := resolver.NewClient(logger.Test(t), lutResolver(), f, resolver.WithLookupTableBackoff(backoff))
		require.NoError(t, err)
		res, err := c.Resolve(t.Context(), []byte{1})
		require.NoError(t, err)

		table, ok := res.Context.Find(tableT)
		require.True(t, ok)
		assert.False(t, table.Exists)
	})
}

func TestClient_FetcherMisbehaves(t *testing.T) {
	missingA := func(t *testing.T) *mocks.MockResolver {
		r := mocks.NewMockResolver(t)
		r.EXPECT().Resolve(mock.Anything, mock.Anything, mock.Anything).Return(resolver.NewMissing([]solana.PublicKey{accountA}, nil), nil).Once()
		return r
	}

	testcases := []struct {
		name     string
		accounts []resolver.SuppliedAccount
		err      error
		contains string
	}{
		{name: "error", err: errors.New("rpc down"), contains: "rpc down"},
		{name: "wrong count", accounts: []resolver.SuppliedAccount{}, contains: "returned 0 accounts for 1 keys"},
		{name: "wrong key", accounts: []resolver.SuppliedAccount{{Pubkey: accountB}}, contains: "at position 0"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			f := mocks.NewMockAccountFetcher(t)
			f.EXPECT().FetchAccounts(mock.Anything, mock.Anything).Return(tc.accounts, tc.err).Once()

			c, err := resolver.NewClient(logger.Test(t), missingA(t), f)
			require.NoError(t, err)
			_, err = c.Resolve(t.Context(), []byte{1})
			require.ErrorContains(t, err, tc.contains)
		})
	}
}

func TestClient_ResolverError(t *testing.T) {
	sentinel := errors.New("simulation node unavailable")
	r := mocks.NewMockResolver(t)
	r.EXPECT().Resolve(mock.Anything, mock.Anything, mock.Anything).Return(nil, sentinel).Once()

	c, err := resolver.NewClient(logger.Test(t), r, mocks.NewMockAccountFetcher(t))
	require.NoError(t, err)
	_, err = c.Resolve(t.Context(), []byte{1})
	require.ErrorIs(t, err, sentinel)
	assert.True(t, resolver.IsTransient(err))
}

func TestClient_Cancelled(t *testing.T) {
	c, err := resolver.NewClient(logger.Test(t), mocks.NewMockResolver(t), mocks.NewMockAccountFetcher(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = c.Resolve(ctx, []byte{1})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, resolver.IsTransient(err))
}

func TestClient_ResolveAll(t *testing.T) {
	var calls atomic.Int32
	c, err := resolver.NewClient(logger.Test(t), twoRoundResolver(&calls), staticFetcher(t), resolver.WithParallelism(2))
	require.NoError(t, err)

	messages := [][]byte{[]byte("one"), []byte("two"), []byte("three"), []byte("four")}
	results, err := c.ResolveAll(t.Context(), messages)
	require.NoError(t, err)
	require.Len(t, results, len(messages))
	assert.Equal(t, int32(2*len(messages)), calls.Load())
	for i, res := range results {
		data := res.Result.Groups[0].Instructions[0].Data
		assert.Equal(t, messages[i], data[:len(messages[i])])
	}

	failing := resolver.ResolverFunc(func(_ context.Context, message []byte, _ *resolver.Context) (*resolver.Result, error) {
		if string(message) == "bad" {
			return nil, resolver.ErrUnresolvable
		}
		return resolver.NewResolved(), nil
	})
	c, err = resolver.NewClient(logger.Test(t), failing, staticFetcher(t))
	require.NoError(t, err)
	_, err = c.ResolveAll(t.Context(), [][]byte{[]byte("good"), []byte("bad")})
	require.ErrorIs(t, err, resolver.ErrUnresolvable)
	require.ErrorContains(t, err, "message 1")
}

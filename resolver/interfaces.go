package resolver

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Resolver answers one read-only resolution query. Implementations must be deterministic:
// the same message and context yield the same result.
type Resolver interface {
	Resolve(ctx context.Context, message []byte, rctx *Context) (*Result, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ctx context.Context, message []byte, rctx *Context) (*Result, error)

func (f ResolverFunc) Resolve(ctx context.Context, message []byte, rctx *Context) (*Result, error) {
	return f(ctx, message, rctx)
}

// AccountFetcher loads account state for keys a resolver reported missing. It returns one entry
// per key, in order, with Exists false for accounts not found on chain.
type AccountFetcher interface {
	FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error)
}

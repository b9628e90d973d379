package resolver

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

// maxMultipleAccounts is the getMultipleAccounts key limit.
const maxMultipleAccounts = 100

var _ AccountFetcher = (*RPCAccountFetcher)(nil)

// MultipleAccountsGetter is the subset of the solana-go JSON-RPC client the fetcher uses.
type MultipleAccountsGetter interface {
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
}

// RPCAccountFetcher loads accounts with getMultipleAccounts.
type RPCAccountFetcher struct {
	lggr       logger.Logger
	client     MultipleAccountsGetter
	commitment rpc.CommitmentType
}

func NewRPCAccountFetcher(lggr logger.Logger, client MultipleAccountsGetter, commitment rpc.CommitmentType) *RPCAccountFetcher {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &RPCAccountFetcher{
		lggr:       logger.Named(lggr, "RPCAccountFetcher"),
		client:     client,
		commitment: commitment,
	}
}

func (f *RPCAccountFetcher) FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]SuppliedAccount, error) {
	out := make([]SuppliedAccount, 0, len(keys))
	for start := 0; start < len(keys); start += maxMultipleAccounts {
		end := min(start+maxMultipleAccounts, len(keys))
		batch := keys[start:end]

		res, err := f.client.GetMultipleAccountsWithOpts(ctx, batch, &rpc.GetMultipleAccountsOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: f.commitment,
		})
		if err != nil {
			return nil, fmt.Errorf("getMultipleAccounts failed: %w", err)
		}
		if res == nil || len(res.Value) != len(batch) {
			return nil, fmt.Errorf("getMultipleAccounts returned unexpected number of accounts for %d keys", len(batch))
		}

		for i, acc := range res.Value {
			supplied := SuppliedAccount{Pubkey: batch[i]}
			if acc != nil {
				supplied.Exists = true
				supplied.Owner = acc.Owner
				supplied.Lamports = acc.Lamports
				if acc.Data != nil {
					supplied.Data = acc.Data.GetBinary()
				}
			}
			out = append(out, supplied)
		}
	}
	f.lggr.Debugw("Fetched accounts", "requested", len(keys), "found", countExisting(out))
	return out, nil
}

func countExisting(accounts []SuppliedAccount) int {
	n := 0
	for _, a := range accounts {
		if a.Exists {
			n++
		}
	}
	return n
}

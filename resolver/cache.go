package resolver

import (
	"bytes"
	"context"
	"encoding/binary"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

var _ Resolver = (*CachingResolver)(nil)

// CachingResolver memoizes results by message and context. Resolution is a pure function of its
// inputs, so a cached result is identical to a fresh one until the entry expires.
type CachingResolver struct {
	lggr       logger.Logger
	underlying Resolver
	cache      *expirable.LRU[protocol.Bytes32, *Result]
}

func NewCachingResolver(lggr logger.Logger, underlying Resolver, size int, ttl time.Duration) *CachingResolver {
	return &CachingResolver{
		lggr:       logger.Named(lggr, "CachingResolver"),
		underlying: underlying,
		cache:      expirable.NewLRU[protocol.Bytes32, *Result](size, nil, ttl),
	}
}

func (r *CachingResolver) Resolve(ctx context.Context, message []byte, rctx *Context) (*Result, error) {
	key := cacheKey(message, rctx)
	if res, ok := r.cache.Get(key); ok {
		r.lggr.Debugw("Resolver cache hit", "key", key.String())
		return res, nil
	}

	res, err := r.underlying.Resolve(ctx, message, rctx)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, res)
	return res, nil
}

// Len is the number of cached results.
func (r *CachingResolver) Len() int {
	return r.cache.Len()
}

func cacheKey(message []byte, rctx *Context) protocol.Bytes32 {
	var buf bytes.Buffer
	writeChunk := func(b []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(b))) //nolint:gosec // inputs are bounded by transaction size
		buf.Write(b)
	}
	writeAccounts := func(accounts []SuppliedAccount) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(accounts))) //nolint:gosec // bounded by iteration count
		for _, a := range accounts {
			buf.Write(a.Pubkey[:])
			if a.Exists {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
			buf.Write(a.Owner[:])
			_ = binary.Write(&buf, binary.BigEndian, a.Lamports)
			writeChunk(a.Data)
		}
	}

	writeChunk(message)
	if rctx != nil {
		writeAccounts(rctx.Accounts)
		writeAccounts(rctx.AddressLookupTables)
	} else {
		writeAccounts(nil)
		writeAccounts(nil)
	}
	return protocol.Keccak256(buf.Bytes())
}

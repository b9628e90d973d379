// Package quoter prices and signs execution quotes and serves them over HTTP.
package quoter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/holiman/uint256"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

var (
	ErrUnsupportedChain    = errors.New("unsupported chain")
	ErrInvalidInstructions = errors.New("invalid relay instructions")
)

// Quote is a signed quote together with what the quoter expects to be paid for the given relay
// instructions.
type Quote struct {
	SignedQuote   *protocol.SignedQuote
	EstimatedCost *uint256.Int
}

type Quoter struct {
	lggr   logger.Logger
	signer protocol.QuoteSigner
	payee  protocol.Bytes32
	ttl    time.Duration
	chains map[protocol.ChainID]ChainPricing
	now    func() time.Time
}

func New(lggr logger.Logger, cfg QuoterConfig, signer protocol.QuoteSigner) (*Quoter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	payee, err := protocol.NewBytes32FromString(cfg.PayeeAddress)
	if err != nil {
		return nil, err
	}
	chains := make(map[protocol.ChainID]ChainPricing, len(cfg.Chains))
	for _, c := range cfg.Chains {
		chains[protocol.ChainID(c.ChainID)] = c
	}
	return &Quoter{
		lggr:   logger.Named(lggr, "Quoter"),
		signer: signer,
		payee:  payee,
		ttl:    cfg.QuoteTTL.Duration(),
		chains: chains,
		now:    time.Now,
	}, nil
}

func (q *Quoter) Address() string {
	return q.signer.Address().Hex()
}

// Quote prices a route and signs the quote. relayInstructions may be empty, in which case only
// the base fee is charged.
func (q *Quoter) Quote(src, dst protocol.ChainID, relayInstructions []byte) (*Quote, error) {
	srcPricing, ok := q.chains[src]
	if !ok {
		PromQuoteErrors.WithLabelValues(reasonUnsupportedChain).Inc()
		return nil, fmt.Errorf("%w: source %s", ErrUnsupportedChain, src)
	}
	dstPricing, ok := q.chains[dst]
	if !ok {
		PromQuoteErrors.WithLabelValues(reasonUnsupportedChain).Inc()
		return nil, fmt.Errorf("%w: destination %s", ErrUnsupportedChain, dst)
	}
	instructions, err := protocol.DecodeRelayInstructions(relayInstructions)
	if err != nil {
		PromQuoteErrors.WithLabelValues(reasonInvalidInstruction).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstructions, err)
	}

	expiry := q.now().Add(q.ttl).Unix()
	body := &protocol.Quote{
		Quoter:      q.signer.Address(),
		Payee:       q.payee,
		SrcChain:    src,
		DstChain:    dst,
		ExpiryTime:  uint64(max(expiry, 0)), //nolint:gosec // clamped above
		BaseFee:     dstPricing.BaseFee,
		DstGasPrice: dstPricing.GasPrice,
		SrcPrice:    srcPricing.NativePrice,
		DstPrice:    dstPricing.NativePrice,
	}
	cost, err := body.EstimatedCost(instructions)
	if err != nil {
		PromQuoteErrors.WithLabelValues(reasonInvalidInstruction).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstructions, err)
	}
	signed, err := body.Sign(q.signer)
	if err != nil {
		PromQuoteErrors.WithLabelValues(reasonInternal).Inc()
		return nil, err
	}

	srcLabel, dstLabel := strconv.FormatUint(uint64(src), 10), strconv.FormatUint(uint64(dst), 10)
	PromQuotesIssued.WithLabelValues(srcLabel, dstLabel).Inc()
	PromQuoteEstimatedCost.WithLabelValues(srcLabel, dstLabel).Observe(costFloat(cost))
	q.lggr.Debugw("Issued quote",
		"srcChain", uint16(src),
		"dstChain", uint16(dst),
		"expiry", body.Expiry(),
		"estimatedCost", cost.Dec())

	return &Quote{SignedQuote: signed, EstimatedCost: cost}, nil
}

func costFloat(cost *uint256.Int) float64 {
	if cost.IsUint64() {
		return float64(cost.Uint64())
	}
	return math.MaxFloat64
}

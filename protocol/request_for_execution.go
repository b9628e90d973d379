package protocol

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// RequestForExecution is the envelope a client emits on the source chain to pay an executor.
type RequestForExecution struct {
	QuoterAddress     common.Address `json:"quoterAddress"`
	AmountPaid        *big.Int       `json:"amtPaid"`
	DstChain          ChainID        `json:"dstChain"`
	DstAddress        Bytes32        `json:"dstAddr"`
	RefundAddress     Bytes32        `json:"refundAddr"`
	SignedQuote       hexutil.Bytes  `json:"signedQuoteBytes"`
	Request           hexutil.Bytes  `json:"requestBytes"`
	RelayInstructions hexutil.Bytes  `json:"relayInstructionsBytes"`
}

// ValidatedRequest is a RequestForExecution whose byte fields decoded and whose quote verified.
type ValidatedRequest struct {
	Envelope      *RequestForExecution
	SrcChain      ChainID
	Quote         *SignedQuote
	Request       ExecutionRequest
	Instructions  []RelayInstruction
	EstimatedCost *uint256.Int
}

// Validate decodes the signed quote, execution request and relay instructions, verifies the quote
// for the srcChain to DstChain route at now, and checks that AmountPaid covers the quoted cost.
// ourChain is the destination chain the caller serves.
func (r *RequestForExecution) Validate(now time.Time, srcChain, ourChain ChainID) (*ValidatedRequest, error) {
	if r.DstChain != ourChain {
		return nil, newVerifyError(ErrChainMismatch, "dstChain", uint16(ourChain), uint16(r.DstChain))
	}

	quote, err := DecodeSignedQuote(r.SignedQuote)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signed quote: %w", err)
	}
	if err = quote.Verify(now, r.QuoterAddress, srcChain, r.DstChain); err != nil {
		return nil, err
	}

	request, err := DecodeExecutionRequest(r.Request)
	if err != nil {
		return nil, fmt.Errorf("failed to decode execution request: %w", err)
	}

	instructions, err := DecodeRelayInstructions(r.RelayInstructions)
	if err != nil {
		return nil, fmt.Errorf("failed to decode relay instructions: %w", err)
	}

	cost, err := quote.EstimatedCost(instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to price relay instructions: %w", err)
	}
	if r.AmountPaid == nil || r.AmountPaid.Sign() < 0 || r.AmountPaid.Cmp(cost.ToBig()) < 0 {
		return nil, &UnderpaidError{Paid: r.AmountPaid, Required: cost.ToBig()}
	}

	return &ValidatedRequest{
		Envelope:      r,
		SrcChain:      srcChain,
		Quote:         quote,
		Request:       request,
		Instructions:  instructions,
		EstimatedCost: cost,
	}, nil
}

// UnderpaidError is returned when the amount paid does not cover the quoted cost.
type UnderpaidError struct {
	Paid     *big.Int
	Required *big.Int
}

func (e *UnderpaidError) Error() string {
	return fmt.Sprintf("underpaid: paid %s, required %s", e.Paid, e.Required)
}

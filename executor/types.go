package executor

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

// RequestID identifies an execution request by the source chain, the transaction that paid for it
// and the position of the RequestForExecution log in that transaction. It is the 4 hex digit chain
// id, the lowercased transaction hash without 0x, a dash and the decimal log index.
type RequestID string

func NewRequestID(chain protocol.ChainID, txHash string, logIndex uint64) RequestID {
	return RequestID(chain.Hex() + strings.TrimPrefix(strings.ToLower(txHash), "0x") + "-" + strconv.FormatUint(logIndex, 10))
}

// Hash is used to order executors for a request.
func (id RequestID) Hash() protocol.Bytes32 {
	return protocol.Keccak256([]byte(id))
}

func (id RequestID) String() string {
	return string(id)
}

// Request is an execution request observed on a source chain.
type Request struct {
	ID         RequestID
	SrcChain   protocol.ChainID
	TxHash     string
	LogIndex   uint64
	Envelope   protocol.RequestForExecution
	ReceivedAt time.Time
}

// Type returns the 4 byte prefix of the execution request, or an empty string if the request is
// too short to carry one.
func (r Request) Type() string {
	if len(r.Envelope.Request) < 4 {
		return ""
	}
	return string(r.Envelope.Request[:4])
}

// Status is the lifecycle state of a request.
type Status string

const (
	StatusPending     Status = "pending"
	StatusSubmitted   Status = "submitted"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
	StatusExpired     Status = "expired"
)

// IsFinal reports whether no further processing will happen.
func (s Status) IsFinal() bool {
	switch s {
	case StatusSubmitted, StatusUnsupported, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}

// StatusRecord is what the status store keeps per request.
type StatusRecord struct {
	ID           RequestID        `json:"id"`
	SrcChain     protocol.ChainID `json:"srcChain"`
	TxHash       string           `json:"txHash"`
	LogIndex     uint64           `json:"logIndex"`
	RequestType  string           `json:"requestType,omitempty"`
	Status       Status           `json:"status"`
	Signatures   []string         `json:"signatures,omitempty"`
	FailureCause string           `json:"failureCause,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

var (
	// ErrStatusNotFound is returned by a StatusStore for unknown request ids.
	ErrStatusNotFound = errors.New("request status not found")
	// ErrVAANotFound is returned by a VAAFetcher while the attestation is not available yet.
	ErrVAANotFound = errors.New("signed VAA not found")
)

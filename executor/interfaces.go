package executor

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

// Executor is responsible for carrying out validated requests.
type Executor interface {
	// Start prepares the executor's dependencies.
	Start(ctx context.Context) error
	// CheckValidRequest decodes the envelope and verifies its quote and payment.
	CheckValidRequest(ctx context.Context, req Request) error
	// HandleRequest resolves and transmits a request. shouldRetry reports whether a failure may
	// succeed on a later attempt.
	HandleRequest(ctx context.Context, req Request) (shouldRetry bool, err error)
}

// RequestSubscriber produces newly observed requests.
type RequestSubscriber interface {
	// Start the subscriber as a background process. The returned channels are closed when ctx is done.
	Start(ctx context.Context) (<-chan Request, <-chan error, error)
}

// LeaderElector decides when this executor takes its turn on a request.
type LeaderElector interface {
	// GetReadyTimestamp returns when this executor should first attempt the request.
	GetReadyTimestamp(id RequestID, baseTime time.Time) time.Time
	// GetRetryDelay returns the delay before this executor attempts the request again.
	GetRetryDelay() time.Duration
}

type TimeProvider interface {
	GetTime() time.Time
}

// StatusStore persists request statuses.
type StatusStore interface {
	// Put inserts or replaces the record for rec.ID.
	Put(ctx context.Context, rec StatusRecord) error
	// Get returns ErrStatusNotFound for unknown ids.
	Get(ctx context.Context, id RequestID) (*StatusRecord, error)
	// ListByStatus returns up to limit records in the given status, oldest first.
	ListByStatus(ctx context.Context, status Status, limit int) ([]StatusRecord, error)
}

// VAAFetcher loads signed VAAs from the attestation network.
type VAAFetcher interface {
	// FetchVAA returns ErrVAANotFound while the VAA is not signed yet.
	FetchVAA(ctx context.Context, chain protocol.ChainID, emitter protocol.Bytes32, sequence uint64) ([]byte, error)
}

// InstructionResolver runs a full resolution session for an attested message.
type InstructionResolver interface {
	Resolve(ctx context.Context, message []byte) (*resolver.Resolution, error)
}

// Transmitter sends resolved instruction groups to the destination chain.
type Transmitter interface {
	// Transmit sends one transaction per group, in order, and returns their signatures.
	Transmit(ctx context.Context, groups []resolver.InstructionGroup, vaa *protocol.VAA) ([]solana.Signature, error)
}

// Monitoring provides all core monitoring functionality for the executor. Also can be implemented as a no-op.
type Monitoring interface {
	// Metrics returns the metrics labeler for the executor.
	Metrics() MetricLabeler
}

// MetricLabeler provides all metric recording functionality for the executor.
type MetricLabeler interface {
	// With returns a new metrics labeler with the given key-value pairs.
	With(keyValues ...string) MetricLabeler
	// RecordRequestExecutionLatency records the time from intake to a submitted transaction.
	RecordRequestExecutionLatency(ctx context.Context, duration time.Duration)
	// RecordResolverIterations records how many resolver calls a session took.
	RecordResolverIterations(ctx context.Context, iterations int)
	// IncrementRequestsProcessed increments the counter for submitted requests.
	IncrementRequestsProcessed(ctx context.Context)
	// IncrementRequestsProcessingFailed increments the counter for failed attempts.
	IncrementRequestsProcessingFailed(ctx context.Context)
	IncrementUnsupportedRequests(ctx context.Context)
	IncrementExpiredRequests(ctx context.Context)
	RecordRequestHeapSize(ctx context.Context, size int64)
}

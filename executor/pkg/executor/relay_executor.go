package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

// Ensure RelayExecutor implements the Executor interface.
var _ executor.Executor = (*RelayExecutor)(nil)

// RelayExecutor relays paid requests to an SVM destination. VAA requests are resolved through the
// destination program's resolver and transmitted; other request types are recorded as
// unsupported.
type RelayExecutor struct {
	lggr         logger.Logger
	ourChain     protocol.ChainID
	quoters      map[common.Address]struct{}
	fetcher      executor.VAAFetcher
	resolver     executor.InstructionResolver
	transmitter  executor.Transmitter
	store        executor.StatusStore
	monitoring   executor.Monitoring
	timeProvider executor.TimeProvider
}

func NewRelayExecutor(
	lggr logger.Logger,
	ourChain protocol.ChainID,
	quoters []common.Address,
	fetcher executor.VAAFetcher,
	instructionResolver executor.InstructionResolver,
	transmitter executor.Transmitter,
	store executor.StatusStore,
	monitoring executor.Monitoring,
	timeProvider executor.TimeProvider,
) (*RelayExecutor, error) {
	var errs []error
	appendIfNil := func(field interface{}, fieldName string) {
		if field == nil {
			errs = append(errs, fmt.Errorf("%s is not set", fieldName))
		}
	}
	appendIfNil(lggr, "logger")
	appendIfNil(fetcher, "vaaFetcher")
	appendIfNil(instructionResolver, "instructionResolver")
	appendIfNil(transmitter, "transmitter")
	appendIfNil(store, "statusStore")
	appendIfNil(monitoring, "monitoring")
	appendIfNil(timeProvider, "timeProvider")
	if ourChain == 0 {
		errs = append(errs, errors.New("ourChain is not set"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	allowed := make(map[common.Address]struct{}, len(quoters))
	for _, q := range quoters {
		allowed[q] = struct{}{}
	}

	return &RelayExecutor{
		lggr:         logger.Named(lggr, "RelayExecutor"),
		ourChain:     ourChain,
		quoters:      allowed,
		fetcher:      fetcher,
		resolver:     instructionResolver,
		transmitter:  transmitter,
		store:        store,
		monitoring:   monitoring,
		timeProvider: timeProvider,
	}, nil
}

func (re *RelayExecutor) Start(context.Context) error {
	re.lggr.Infow("relay executor started", "ourChain", re.ourChain, "quoters", len(re.quoters))
	return nil
}

// CheckValidRequest verifies the quote, payment and route of the request's envelope.
func (re *RelayExecutor) CheckValidRequest(_ context.Context, req executor.Request) error {
	_, err := re.validate(req)
	return err
}

// validate checks the envelope as of the time the request was received so that a quote that
// expires while the request waits for its turn is still honored.
func (re *RelayExecutor) validate(req executor.Request) (*protocol.ValidatedRequest, error) {
	if len(re.quoters) > 0 {
		if _, ok := re.quoters[req.Envelope.QuoterAddress]; !ok {
			return nil, fmt.Errorf("quoter %s is not accepted", req.Envelope.QuoterAddress.Hex())
		}
	}
	at := req.ReceivedAt
	if at.IsZero() {
		at = re.timeProvider.GetTime()
	}
	return req.Envelope.Validate(at, req.SrcChain, re.ourChain)
}

// HandleRequest processes a single request:
// 1. Re-validate the envelope.
// 2. Fetch and check the attested message referenced by the request.
// 3. Run a resolution session against the destination program.
// 4. Transmit the resolved instruction groups and record the signatures.
func (re *RelayExecutor) HandleRequest(ctx context.Context, req executor.Request) (shouldRetry bool, err error) {
	lggr := logger.With(re.lggr, "requestID", req.ID)
	metrics := re.monitoring.Metrics().With("request_type", req.Type())

	validated, err := re.validate(req)
	if err != nil {
		return false, fmt.Errorf("invalid request: %w", err)
	}

	vaaReq, ok := validated.Request.(*protocol.VAAv1Request)
	if !ok {
		lggr.Infow("request type is not supported on this destination", "type", validated.Request.Prefix())
		metrics.IncrementUnsupportedRequests(ctx)
		re.record(ctx, req, executor.StatusUnsupported, nil, fmt.Sprintf("%s requests are not supported", validated.Request.Prefix()))
		return false, nil
	}

	raw, err := re.fetcher.FetchVAA(ctx, vaaReq.Chain, vaaReq.Address, vaaReq.Sequence)
	if err != nil {
		lggr.Warnw("delaying execution, VAA is not available", "vaa", vaaReq.String(), "error", err)
		return true, err
	}
	vaa, err := protocol.ParseVAA(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse VAA: %w", err)
	}
	if err = vaa.MatchesRequest(vaaReq); err != nil {
		return false, err
	}

	resolution, err := re.resolver.Resolve(ctx, vaa.Body)
	if err != nil {
		retry := resolver.IsTransient(err)
		lggr.Warnw("failed to resolve instructions", "error", err, "retry", retry)
		return retry, err
	}
	metrics.RecordResolverIterations(ctx, resolution.Iterations)

	if resolution.Result.Kind != resolver.KindResolved {
		lggr.Infow("resolver returned a result this executor cannot act on", "result", resolution.Result.String())
		metrics.IncrementUnsupportedRequests(ctx)
		re.record(ctx, req, executor.StatusUnsupported, nil, fmt.Sprintf("resolver returned %s", resolution.Result.Kind))
		return false, nil
	}
	if len(resolution.Result.Groups) == 0 {
		return false, errors.New("resolver returned no instruction groups")
	}

	lggr.Infow("transmitting resolved instructions",
		"session", resolution.SessionID,
		"iterations", resolution.Iterations,
		"groups", len(resolution.Result.Groups))
	sigs, err := re.transmitter.Transmit(ctx, resolution.Result.Groups, vaa)
	if err != nil {
		lggr.Warnw("will retry execution due to failed transmission", "error", err, "sent", len(sigs))
		return true, err
	}

	re.record(ctx, req, executor.StatusSubmitted, sigs, "")
	metrics.IncrementRequestsProcessed(ctx)
	if !req.ReceivedAt.IsZero() {
		metrics.RecordRequestExecutionLatency(ctx, re.timeProvider.GetTime().Sub(req.ReceivedAt))
	}
	lggr.Infow("request submitted", "signatures", sigs)
	return false, nil
}

func (re *RelayExecutor) record(ctx context.Context, req executor.Request, status executor.Status, sigs []solana.Signature, cause string) {
	rec := executor.StatusRecord{
		ID:           req.ID,
		SrcChain:     req.SrcChain,
		TxHash:       req.TxHash,
		LogIndex:     req.LogIndex,
		RequestType:  req.Type(),
		Status:       status,
		FailureCause: cause,
		UpdatedAt:    re.timeProvider.GetTime(),
	}
	for _, s := range sigs {
		rec.Signatures = append(rec.Signatures, s.String())
	}
	if err := re.store.Put(ctx, rec); err != nil {
		re.lggr.Errorw("failed to store request status", "requestID", req.ID, "status", status, "error", err)
	}
}

package executor

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor/pkg/monitoring"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/internal/mocks"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

const testTxHash = "0x11aa"

type fixture struct {
	signer      *protocol.PrivateKeySigner
	emitter     protocol.Bytes32
	fetcher     *mocks.MockVAAFetcher
	resolver    *mocks.MockInstructionResolver
	transmitter *mocks.MockTransmitter
	store       *mocks.MockStatusStore
	exec        *RelayExecutor
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		signer:      protocol.NewTestSigner(t),
		emitter:     protocol.RandomBytes32(t),
		fetcher:     mocks.NewMockVAAFetcher(t),
		resolver:    mocks.NewMockInstructionResolver(t),
		transmitter: mocks.NewMockTransmitter(t),
		store:       mocks.NewMockStatusStore(t),
	}

	timeProvider := mocks.NewMockTimeProvider(t)
	timeProvider.EXPECT().GetTime().Return(time.Now().UTC()).Maybe()

	exec, err := NewRelayExecutor(
		logger.Test(t),
		protocol.ChainIDSolana,
		[]common.Address{f.signer.Address()},
		f.fetcher,
		f.resolver,
		f.transmitter,
		f.store,
		monitoring.NewNoopExecutorMonitoring(),
		timeProvider,
	)
	require.NoError(t, err)
	f.exec = exec
	return f
}

// request builds a fully paid request carrying the given execution request.
func (f *fixture) request(t *testing.T, execReq protocol.ExecutionRequest) executor.Request {
	sq := protocol.NewTestQuote(t, f.signer, protocol.RandomBytes32(t), protocol.ChainIDEthereum, protocol.ChainIDSolana, time.Hour)
	return executor.Request{
		ID:       executor.NewRequestID(protocol.ChainIDEthereum, testTxHash, 0),
		SrcChain: protocol.ChainIDEthereum,
		TxHash:   testTxHash,
		Envelope: protocol.RequestForExecution{
			QuoterAddress: f.signer.Address(),
			AmountPaid:    big.NewInt(10_000_000),
			DstChain:      protocol.ChainIDSolana,
			SignedQuote:   sq.Encode(),
			Request:       execReq.Encode(),
			RelayInstructions: protocol.EncodeRelayInstructions([]protocol.RelayInstruction{
				protocol.GasInstruction{GasLimit: uint256.NewInt(200_000), MsgValue: uint256.NewInt(0)},
			}),
		},
		ReceivedAt: time.Now().UTC(),
	}
}

func (f *fixture) vaaRequest(sequence uint64) *protocol.VAAv1Request {
	return &protocol.VAAv1Request{Chain: protocol.ChainIDEthereum, Address: f.emitter, Sequence: sequence}
}

func (f *fixture) signedVAA(sequence uint64) []byte {
	return protocol.NewTestVAA(&protocol.VAABody{
		EmitterChain:   protocol.ChainIDEthereum,
		EmitterAddress: f.emitter,
		Sequence:       sequence,
		Payload:        []byte{3},
	})
}

func (f *fixture) expectStatus(t *testing.T, status executor.Status) <-chan executor.StatusRecord {
	out := make(chan executor.StatusRecord, 1)
	f.store.EXPECT().Put(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, rec executor.StatusRecord) error {
		assert.Equal(t, status, rec.Status)
		out <- rec
		return nil
	}).Once()
	return out
}

var testGroup = resolver.InstructionGroup{Instructions: []resolver.SerializableInstruction{{
	ProgramID: solana.SystemProgramID,
	Data:      []byte{1},
}}}

func TestNewRelayExecutor_MissingDependencies(t *testing.T) {
	_, err := NewRelayExecutor(nil, 0, nil, nil, nil, nil, nil, nil, nil)
	require.Error(t, err)
	for _, field := range []string{"logger", "vaaFetcher", "instructionResolver", "transmitter", "statusStore", "monitoring", "timeProvider", "ourChain"} {
		assert.ErrorContains(t, err, field)
	}
}

func TestCheckValidRequest(t *testing.T) {
	f := newFixture(t)

	valid := f.request(t, f.vaaRequest(1))
	require.NoError(t, f.exec.CheckValidRequest(t.Context(), valid))

	unknownQuoter := valid
	unknownQuoter.Envelope.QuoterAddress = common.HexToAddress("0x1")
	require.ErrorContains(t, f.exec.CheckValidRequest(t.Context(), unknownQuoter), "is not accepted")

	underpaid := valid
	underpaid.Envelope.AmountPaid = big.NewInt(1)
	var underpaidErr *protocol.UnderpaidError
	require.ErrorAs(t, f.exec.CheckValidRequest(t.Context(), underpaid), &underpaidErr)

	wrongDst := valid
	wrongDst.Envelope.DstChain = protocol.ChainIDEthereum
	require.ErrorIs(t, f.exec.CheckValidRequest(t.Context(), wrongDst), protocol.ErrChainMismatch)

	wrongSrc := valid
	wrongSrc.SrcChain = protocol.ChainIDAvalanche
	require.ErrorIs(t, f.exec.CheckValidRequest(t.Context(), wrongSrc), protocol.ErrChainMismatch)
}

func TestHandleRequest_Submitted(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, f.vaaRequest(19067))
	raw := f.signedVAA(19067)
	vaa, err := protocol.ParseVAA(raw)
	require.NoError(t, err)

	sig := solana.Signature{7}
	f.fetcher.EXPECT().FetchVAA(mock.Anything, protocol.ChainIDEthereum, f.emitter, uint64(19067)).Return(raw, nil)
	f.resolver.EXPECT().Resolve(mock.Anything, vaa.Body).Return(&resolver.Resolution{
		SessionID:  "s",
		Result:     resolver.NewResolved(testGroup),
		Iterations: 2,
	}, nil)
	f.transmitter.EXPECT().Transmit(mock.Anything, []resolver.InstructionGroup{testGroup}, vaa).Return([]solana.Signature{sig}, nil)
	recorded := f.expectStatus(t, executor.StatusSubmitted)

	retry, err := f.exec.HandleRequest(t.Context(), req)
	require.NoError(t, err)
	assert.False(t, retry)

	rec := <-recorded
	assert.Equal(t, req.ID, rec.ID)
	assert.Equal(t, "ERV1", rec.RequestType)
	assert.Equal(t, []string{sig.String()}, rec.Signatures)
}

func TestHandleRequest_UnsupportedRequestTypes(t *testing.T) {
	f := newFixture(t)

	for _, execReq := range []protocol.ExecutionRequest{
		&protocol.ModularMessageRequest{Chain: protocol.ChainIDEthereum, Address: f.emitter, Sequence: 1, Payload: []byte("hi")},
		&protocol.NTTv1Request{SrcChain: protocol.ChainIDEthereum, SrcManager: f.emitter, MessageID: protocol.RandomBytes32(t)},
	} {
		t.Run(execReq.Prefix(), func(t *testing.T) {
			recorded := f.expectStatus(t, executor.StatusUnsupported)

			retry, err := f.exec.HandleRequest(t.Context(), f.request(t, execReq))
			require.NoError(t, err)
			assert.False(t, retry)

			rec := <-recorded
			assert.Equal(t, execReq.Prefix(), rec.RequestType)
			assert.Contains(t, rec.FailureCause, "not supported")
		})
	}
}

func TestHandleRequest_AccountResultIsUnsupported(t *testing.T) {
	f := newFixture(t)
	raw := f.signedVAA(5)

	f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)
	f.resolver.EXPECT().Resolve(mock.Anything, mock.Anything).Return(&resolver.Resolution{Result: resolver.NewAccountResult(), Iterations: 1}, nil)
	recorded := f.expectStatus(t, executor.StatusUnsupported)

	retry, err := f.exec.HandleRequest(t.Context(), f.request(t, f.vaaRequest(5)))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Contains(t, (<-recorded).FailureCause, "Account")
}

func TestHandleRequest_EmptyResolutionIsPermanent(t *testing.T) {
	f := newFixture(t)

	f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(f.signedVAA(5), nil)
	f.resolver.EXPECT().Resolve(mock.Anything, mock.Anything).Return(&resolver.Resolution{Result: resolver.NewResolved(), Iterations: 1}, nil)

	retry, err := f.exec.HandleRequest(t.Context(), f.request(t, f.vaaRequest(5)))
	require.ErrorContains(t, err, "no instruction groups")
	assert.False(t, retry)
	f.transmitter.AssertNotCalled(t, "Transmit", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRequest_Failures(t *testing.T) {
	testcases := []struct {
		name        string
		setup       func(f *fixture)
		expectRetry bool
		expectErr   string
	}{
		{
			name: "VAA not signed yet",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, executor.ErrVAANotFound)
			},
			expectRetry: true,
			expectErr:   executor.ErrVAANotFound.Error(),
		},
		{
			name: "malformed VAA",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]byte{9, 9}, nil)
			},
			expectRetry: false,
			expectErr:   "failed to parse VAA",
		},
		{
			name: "VAA for another sequence",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(f.signedVAA(2), nil)
			},
			expectRetry: false,
			expectErr:   "does not match",
		},
		{
			name: "transient resolver error",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(f.signedVAA(1), nil)
				f.resolver.EXPECT().Resolve(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
			},
			expectRetry: true,
			expectErr:   "connection reset",
		},
		{
			name: "resolver did not converge",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(f.signedVAA(1), nil)
				f.resolver.EXPECT().Resolve(mock.Anything, mock.Anything).Return(nil, &resolver.NonConvergenceError{Iterations: 5})
			},
			expectRetry: false,
			expectErr:   "did not converge",
		},
		{
			name: "transmission failed",
			setup: func(f *fixture) {
				f.fetcher.EXPECT().FetchVAA(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(f.signedVAA(1), nil)
				f.resolver.EXPECT().Resolve(mock.Anything, mock.Anything).Return(&resolver.Resolution{Result: resolver.NewResolved(testGroup), Iterations: 1}, nil)
				f.transmitter.EXPECT().Transmit(mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("blockhash not found"))
			},
			expectRetry: true,
			expectErr:   "blockhash not found",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)

			retry, err := f.exec.HandleRequest(t.Context(), f.request(t, f.vaaRequest(1)))
			require.ErrorContains(t, err, tc.expectErr)
			assert.Equal(t, tc.expectRetry, retry)
		})
	}
}

func TestHandleRequest_InvalidEnvelopeIsPermanent(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, f.vaaRequest(1))
	req.Envelope.SignedQuote = req.Envelope.SignedQuote[:10]

	retry, err := f.exec.HandleRequest(t.Context(), req)
	require.Error(t, err)
	assert.False(t, retry)
	assert.True(t, protocol.IsMalformed(err))
}

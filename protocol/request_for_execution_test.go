package protocol

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvelope(t *testing.T, signer *PrivateKeySigner) *RequestForExecution {
	sq := NewTestQuote(t, signer, RandomBytes32(t), ChainIDEthereum, ChainIDSolana, time.Hour)
	instructions := []RelayInstruction{GasInstruction{GasLimit: uint256.NewInt(200_000), MsgValue: uint256.NewInt(0)}}
	cost, err := sq.EstimatedCost(instructions)
	require.NoError(t, err)

	return &RequestForExecution{
		QuoterAddress:     signer.Address(),
		AmountPaid:        cost.ToBig(),
		DstChain:          ChainIDSolana,
		DstAddress:        RandomBytes32(t),
		RefundAddress:     RandomBytes32(t),
		SignedQuote:       sq.Encode(),
		Request:           (&VAAv1Request{Chain: ChainIDEthereum, Address: RandomBytes32(t), Sequence: 9}).Encode(),
		RelayInstructions: EncodeRelayInstructions(instructions),
	}
}

func TestRequestForExecution_Validate(t *testing.T) {
	signer := NewTestSigner(t)
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		validated, err := env.Validate(now, ChainIDEthereum, ChainIDSolana)
		require.NoError(t, err)
		require.IsType(t, &VAAv1Request{}, validated.Request)
		require.Len(t, validated.Instructions, 1)
		assert.Equal(t, 0, env.AmountPaid.Cmp(validated.EstimatedCost.ToBig()))
	})

	t.Run("underpaid", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		env.AmountPaid = new(big.Int).Sub(env.AmountPaid, big.NewInt(1))
		_, err := env.Validate(now, ChainIDEthereum, ChainIDSolana)
		var underpaid *UnderpaidError
		require.ErrorAs(t, err, &underpaid)
	})

	t.Run("not our destination", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		_, err := env.Validate(now, ChainIDEthereum, ChainIDAvalanche)
		require.ErrorIs(t, err, ErrChainMismatch)
	})

	t.Run("wrong source chain", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		_, err := env.Validate(now, ChainIDAvalanche, ChainIDSolana)
		require.ErrorIs(t, err, ErrChainMismatch)
	})

	t.Run("quote from another quoter", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		env.QuoterAddress = NewTestSigner(t).Address()
		_, err := env.Validate(now, ChainIDEthereum, ChainIDSolana)
		require.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("expired", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		_, err := env.Validate(now.Add(2*time.Hour), ChainIDEthereum, ChainIDSolana)
		require.ErrorIs(t, err, ErrQuoteExpired)
	})

	t.Run("malformed request", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		env.Request = env.Request[:10]
		_, err := env.Validate(now, ChainIDEthereum, ChainIDSolana)
		require.ErrorIs(t, err, ErrInvalidLength)
		assert.True(t, IsMalformed(err))
	})

	t.Run("malformed relay instructions", func(t *testing.T) {
		env := newTestEnvelope(t, signer)
		env.RelayInstructions = []byte{0x7f}
		_, err := env.Validate(now, ChainIDEthereum, ChainIDSolana)
		require.ErrorIs(t, err, ErrUnknownOpcode)
	})
}

func TestRequestForExecution_JSON(t *testing.T) {
	env := newTestEnvelope(t, NewTestSigner(t))

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"requestBytes":"0x45525631`)

	var decoded RequestForExecution
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, env.Request, decoded.Request)
	require.Equal(t, env.DstAddress, decoded.DstAddress)
	require.Equal(t, 0, env.AmountPaid.Cmp(decoded.AmountPaid))
}

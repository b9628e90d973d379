package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// RandomBytes32 generates a random 32 byte address for testing.
func RandomBytes32(t testing.TB) Bytes32 {
	var b Bytes32
	_, err := rand.Read(b[:])
	require.NoError(t, err)
	return b
}

// NewTestSigner generates a fresh quote signer.
func NewTestSigner(t testing.TB) *PrivateKeySigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewPrivateKeySigner(key)
}

// NewTestQuote signs a quote for the route that expires ttl after now.
func NewTestQuote(t testing.TB, signer QuoteSigner, payee Bytes32, src, dst ChainID, ttl time.Duration) *SignedQuote {
	q := &Quote{
		Quoter:      signer.Address(),
		Payee:       payee,
		SrcChain:    src,
		DstChain:    dst,
		ExpiryTime:  uint64(time.Now().Add(ttl).Unix()), //nolint:gosec // test timestamps are positive
		BaseFee:     1_000,
		DstGasPrice: 10,
		SrcPrice:    2_000,
		DstPrice:    1_000,
	}
	sq, err := q.Sign(signer)
	require.NoError(t, err)
	return sq
}

// NewTestVAA builds an unsigned VAA (zero guardian signatures) around body.
func NewTestVAA(body *VAABody) []byte {
	encoded := body.Encode()
	out := make([]byte, vaaHeaderFixedLength, vaaHeaderFixedLength+len(encoded))
	out[0] = vaaVersion
	binary.BigEndian.PutUint32(out[1:5], 4)
	out[5] = 0
	return append(out, encoded...)
}

package protocol

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of a recoverable secp256k1 signature (R||S||V).
const SignatureLength = 65

// curve order n for secp256k1.
var secpN = crypto.S256().Params().N

// QuoteSigner produces recoverable signatures over 32 byte digests.
type QuoteSigner interface {
	// Sign returns a 65 byte R||S||V signature. V may be 0/1 or 27/28.
	Sign(digest []byte) ([]byte, error)
	// Address is the 20 byte address the signature recovers to.
	Address() common.Address
}

// PrivateKeySigner signs with an in-memory secp256k1 key.
type PrivateKeySigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func NewPrivateKeySigner(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// NewPrivateKeySignerFromHex loads a hex encoded key, with or without 0x prefix.
func NewPrivateKeySignerFromHex(hexKey string) (*PrivateKeySigner, error) {
	if len(hexKey) >= 2 && hexKey[:2] == "0x" {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewPrivateKeySigner(key), nil
}

func (s *PrivateKeySigner) Sign(digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, err
	}
	// Emit the 27/28 form that on-chain ecrecover expects.
	sig[64] += 27
	return sig, nil
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.addr
}

// normalizeRecoveryID returns a copy of sig with V in the 0/1 form expected by crypto.SigToPub.
// Both 0/1 and 27/28 are accepted. R and S must be non-zero and below the curve order.
func normalizeRecoveryID(sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	out := make([]byte, SignatureLength)
	copy(out, sig)

	switch out[64] {
	case 0, 1:
	case 27, 28:
		out[64] -= 27
	default:
		return nil, errors.New("invalid v (expected 0/1/27/28)")
	}

	r := new(big.Int).SetBytes(out[0:32])
	s := new(big.Int).SetBytes(out[32:64])
	if r.Sign() == 0 || s.Sign() == 0 || r.Cmp(secpN) >= 0 || s.Cmp(secpN) >= 0 {
		return nil, errors.New("invalid r or s")
	}
	return out, nil
}

// RecoverSigner recovers the address that produced sig over digest.
func RecoverSigner(digest Bytes32, sig []byte) (common.Address, error) {
	normalized, err := normalizeRecoveryID(sig)
	if err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

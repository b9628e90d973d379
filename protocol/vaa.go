package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

const (
	vaaVersion             = 1
	vaaSignatureLength     = 1 + SignatureLength
	vaaHeaderFixedLength   = 1 + 4 + 1
	VAABodyHeaderLength    = 4 + 4 + 2 + 32 + 8 + 1
	TokenBridgeTransferTag = 3

	tokenBridgeTransferHeaderLength = 1 + 32 + 32 + 2 + 32 + 2 + 32
)

// VAASignature is one guardian signature.
type VAASignature struct {
	GuardianIndex uint8
	Signature     [SignatureLength]byte
}

// VAA is a parsed signed v1 attestation.
type VAA struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []VAASignature
	Body             []byte
	VAABody
}

// VAABody is the attested portion of a VAA.
type VAABody struct {
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     ChainID
	EmitterAddress   Bytes32
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte
}

// ParseVAA parses a signed VAA. Guardian signatures are not checked.
func ParseVAA(data []byte) (*VAA, error) {
	if len(data) < vaaHeaderFixedLength {
		return nil, newDecodeError(ErrInvalidLength, "VAA", "header", vaaHeaderFixedLength, len(data))
	}
	if data[0] != vaaVersion {
		return nil, newDecodeError(ErrInvalidPrefix, "VAA", "version", vaaVersion, data[0])
	}

	v := &VAA{Version: data[0]}
	v.GuardianSetIndex = binary.BigEndian.Uint32(data[1:5])
	numSigs := int(data[5])

	bodyStart := vaaHeaderFixedLength + numSigs*vaaSignatureLength
	if len(data) < bodyStart+VAABodyHeaderLength {
		return nil, newDecodeError(ErrInvalidLength, "VAA", "signatures", bodyStart+VAABodyHeaderLength, len(data))
	}

	v.Signatures = make([]VAASignature, numSigs)
	for i := range v.Signatures {
		off := vaaHeaderFixedLength + i*vaaSignatureLength
		v.Signatures[i].GuardianIndex = data[off]
		copy(v.Signatures[i].Signature[:], data[off+1:off+vaaSignatureLength])
	}

	v.Body = data[bodyStart:]
	body, err := ParseVAABody(v.Body)
	if err != nil {
		return nil, err
	}
	v.VAABody = *body
	return v, nil
}

// ParseVAABody parses the attested body.
func ParseVAABody(data []byte) (*VAABody, error) {
	if len(data) < VAABodyHeaderLength {
		return nil, newDecodeError(ErrInvalidLength, "VAABody", "header", VAABodyHeaderLength, len(data))
	}

	reader := bytes.NewReader(data)
	b := &VAABody{}

	if err := binary.Read(reader, binary.BigEndian, &b.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to read timestamp: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &b.Nonce); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	var chain uint16
	if err := binary.Read(reader, binary.BigEndian, &chain); err != nil {
		return nil, fmt.Errorf("failed to read emitter chain: %w", err)
	}
	b.EmitterChain = ChainID(chain)
	if _, err := io.ReadFull(reader, b.EmitterAddress[:]); err != nil {
		return nil, fmt.Errorf("failed to read emitter address: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &b.Sequence); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &b.ConsistencyLevel); err != nil {
		return nil, fmt.Errorf("failed to read consistency level: %w", err)
	}
	b.Payload = data[VAABodyHeaderLength:]
	return b, nil
}

// Encode serializes the body.
func (b *VAABody) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, VAABodyHeaderLength+len(b.Payload)))
	_ = binary.Write(buf, binary.BigEndian, b.Timestamp)
	_ = binary.Write(buf, binary.BigEndian, b.Nonce)
	_ = binary.Write(buf, binary.BigEndian, uint16(b.EmitterChain))
	buf.Write(b.EmitterAddress[:])
	_ = binary.Write(buf, binary.BigEndian, b.Sequence)
	buf.WriteByte(b.ConsistencyLevel)
	buf.Write(b.Payload)
	return buf.Bytes()
}

// Digest is keccak256 of the body. Posted VAA accounts are keyed by it.
func (v *VAA) Digest() Bytes32 {
	return Keccak256(v.Body)
}

// MatchesRequest checks that the VAA is the one a VAAv1Request references.
func (b *VAABody) MatchesRequest(req *VAAv1Request) error {
	if b.EmitterChain != req.Chain {
		return newMismatchError(ErrChainMismatch, "emitterChain", uint16(req.Chain), uint16(b.EmitterChain))
	}
	if b.EmitterAddress != req.Address {
		return newMismatchError(nil, "emitterAddress", req.Address, b.EmitterAddress)
	}
	if b.Sequence != req.Sequence {
		return newMismatchError(nil, "sequence", req.Sequence, b.Sequence)
	}
	return nil
}

// TransferWithMessage is a token bridge payload of type 3.
type TransferWithMessage struct {
	Amount       *big.Int
	TokenAddress Bytes32
	TokenChain   ChainID
	To           Bytes32
	ToChain      ChainID
	FromAddress  Bytes32
	Payload      []byte
}

// ParseTransferWithMessage parses a token bridge transfer-with-payload.
func ParseTransferWithMessage(data []byte) (*TransferWithMessage, error) {
	if len(data) < tokenBridgeTransferHeaderLength {
		return nil, newDecodeError(ErrInvalidLength, "TransferWithMessage", "header", tokenBridgeTransferHeaderLength, len(data))
	}
	if data[0] != TokenBridgeTransferTag {
		return nil, newDecodeError(ErrInvalidPrefix, "TransferWithMessage", "payloadType", TokenBridgeTransferTag, data[0])
	}

	t := &TransferWithMessage{}
	off := 1
	t.Amount = new(big.Int).SetBytes(data[off : off+32])
	off += 32
	copy(t.TokenAddress[:], data[off:off+32])
	off += 32
	t.TokenChain = ChainID(binary.BigEndian.Uint16(data[off : off+2]))
	off += 2
	copy(t.To[:], data[off:off+32])
	off += 32
	t.ToChain = ChainID(binary.BigEndian.Uint16(data[off : off+2]))
	off += 2
	copy(t.FromAddress[:], data[off:off+32])
	off += 32
	t.Payload = data[off:]
	return t, nil
}

// Encode serializes the payload including the type byte.
func (t *TransferWithMessage) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, tokenBridgeTransferHeaderLength+len(t.Payload)))
	buf.WriteByte(TokenBridgeTransferTag)
	var amount [32]byte
	if t.Amount != nil {
		t.Amount.FillBytes(amount[:])
	}
	buf.Write(amount[:])
	buf.Write(t.TokenAddress[:])
	_ = binary.Write(buf, binary.BigEndian, uint16(t.TokenChain))
	buf.Write(t.To[:])
	_ = binary.Write(buf, binary.BigEndian, uint16(t.ToChain))
	buf.Write(t.FromAddress[:])
	buf.Write(t.Payload)
	return buf.Bytes()
}

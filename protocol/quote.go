package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	PrefixSignedQuote = "EQ01"

	// QuoteHeaderLength covers every field preceding the signature.
	QuoteHeaderLength = requestPrefixLength + common.AddressLength + 32 + 2 + 2 + 8*5
	// SignedQuoteLength is the header plus a 65 byte signature.
	SignedQuoteLength = QuoteHeaderLength + SignatureLength
)

// Quote is the unsigned body of a quote. Prices use the quoter's fixed point units.
type Quote struct {
	Quoter      common.Address
	Payee       Bytes32
	SrcChain    ChainID
	DstChain    ChainID
	ExpiryTime  uint64
	BaseFee     uint64
	DstGasPrice uint64
	SrcPrice    uint64
	DstPrice    uint64
}

// SignedQuote is a quote with the quoter's recoverable signature over the encoded header.
type SignedQuote struct {
	Quote
	Signature [SignatureLength]byte
}

// EncodeHeader returns the canonical encoding of every field but the signature.
func (q *Quote) EncodeHeader() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, SignedQuoteLength))
	buf.WriteString(PrefixSignedQuote)
	buf.Write(q.Quoter[:])
	buf.Write(q.Payee[:])
	_ = binary.Write(buf, binary.BigEndian, uint16(q.SrcChain))
	_ = binary.Write(buf, binary.BigEndian, uint16(q.DstChain))
	_ = binary.Write(buf, binary.BigEndian, q.ExpiryTime)
	_ = binary.Write(buf, binary.BigEndian, q.BaseFee)
	_ = binary.Write(buf, binary.BigEndian, q.DstGasPrice)
	_ = binary.Write(buf, binary.BigEndian, q.SrcPrice)
	_ = binary.Write(buf, binary.BigEndian, q.DstPrice)
	return buf.Bytes()
}

// Digest is keccak256 of the encoded header. This is what the quoter signs.
func (q *Quote) Digest() Bytes32 {
	return Keccak256(q.EncodeHeader())
}

// Sign signs the quote. The signer address must match Quoter.
func (q *Quote) Sign(signer QuoteSigner) (*SignedQuote, error) {
	if signer.Address() != q.Quoter {
		return nil, fmt.Errorf("signer %s does not match quoter %s", signer.Address(), q.Quoter)
	}
	digest := q.Digest()
	sig, err := signer.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign quote: %w", err)
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("signer returned %d byte signature, expected %d", len(sig), SignatureLength)
	}
	sq := &SignedQuote{Quote: *q}
	copy(sq.Signature[:], sig)
	return sq, nil
}

func (q *SignedQuote) Encode() []byte {
	return append(q.EncodeHeader(), q.Signature[:]...)
}

// Verify checks that the quote was signed by expectedQuoter, has not expired at now, and
// prices the expected route. It does not mutate the quote and may be called repeatedly.
func (q *SignedQuote) Verify(now time.Time, expectedQuoter common.Address, expectedSrc, expectedDst ChainID) error {
	signer, err := RecoverSigner(q.Digest(), q.Signature[:])
	if err != nil {
		return newVerifyError(ErrSignatureMismatch, "signature", expectedQuoter.Hex(), err.Error())
	}
	if signer != expectedQuoter {
		return newVerifyError(ErrSignatureMismatch, "signature", expectedQuoter.Hex(), signer.Hex())
	}
	if q.Quoter != expectedQuoter {
		return newVerifyError(ErrSignatureMismatch, "quoter", expectedQuoter.Hex(), q.Quoter.Hex())
	}

	nowUnix := now.Unix()
	if nowUnix >= 0 && uint64(nowUnix) >= q.ExpiryTime {
		return newVerifyError(ErrQuoteExpired, "expiryTime", fmt.Sprintf("> %d", nowUnix), q.ExpiryTime)
	}

	if q.SrcChain != expectedSrc {
		return newVerifyError(ErrChainMismatch, "srcChain", uint16(expectedSrc), uint16(q.SrcChain))
	}
	if q.DstChain != expectedDst {
		return newVerifyError(ErrChainMismatch, "dstChain", uint16(expectedDst), uint16(q.DstChain))
	}
	return nil
}

// Expiry returns the expiry time as a time.Time.
func (q *Quote) Expiry() time.Time {
	return time.Unix(int64(q.ExpiryTime), 0) //nolint:gosec // expiry is a unix timestamp
}

// DecodeSignedQuote decodes an EQ01 record. The length must be exactly SignedQuoteLength.
func DecodeSignedQuote(data []byte) (*SignedQuote, error) {
	if err := checkPrefix(data, PrefixSignedQuote, "SignedQuote"); err != nil {
		return nil, err
	}
	if len(data) != SignedQuoteLength {
		return nil, newDecodeError(ErrInvalidLength, "SignedQuote", "length", SignedQuoteLength, len(data))
	}

	reader := bytes.NewReader(data[requestPrefixLength:])
	q := &SignedQuote{}

	if _, err := io.ReadFull(reader, q.Quoter[:]); err != nil {
		return nil, fmt.Errorf("failed to read quoter: %w", err)
	}
	if _, err := io.ReadFull(reader, q.Payee[:]); err != nil {
		return nil, fmt.Errorf("failed to read payee: %w", err)
	}
	var srcChain, dstChain uint16
	if err := binary.Read(reader, binary.BigEndian, &srcChain); err != nil {
		return nil, fmt.Errorf("failed to read source chain: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &dstChain); err != nil {
		return nil, fmt.Errorf("failed to read destination chain: %w", err)
	}
	q.SrcChain = ChainID(srcChain)
	q.DstChain = ChainID(dstChain)

	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{"expiryTime", &q.ExpiryTime},
		{"baseFee", &q.BaseFee},
		{"dstGasPrice", &q.DstGasPrice},
		{"srcPrice", &q.SrcPrice},
		{"dstPrice", &q.DstPrice},
	} {
		if err := binary.Read(reader, binary.BigEndian, f.dst); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
	}

	if _, err := io.ReadFull(reader, q.Signature[:]); err != nil {
		return nil, fmt.Errorf("failed to read signature: %w", err)
	}
	return q, nil
}

// EstimatedCost returns the price in source chain native units of performing instructions under this quote:
// baseFee + ceil((gasLimit*dstGasPrice + msgValue + dropOff) * dstPrice / srcPrice).
func (q *Quote) EstimatedCost(instructions []RelayInstruction) (*uint256.Int, error) {
	if q.SrcPrice == 0 {
		return nil, fmt.Errorf("quote has zero source price")
	}
	totals, err := TotalRelayInstructions(instructions)
	if err != nil {
		return nil, err
	}

	dstCost, overflow := new(uint256.Int).MulOverflow(totals.GasLimit, uint256.NewInt(q.DstGasPrice))
	if overflow {
		return nil, fmt.Errorf("gas cost overflows 256 bits")
	}
	for _, v := range []*uint256.Int{totals.MsgValue, totals.DropOff} {
		if _, overflow = dstCost.AddOverflow(dstCost, v); overflow {
			return nil, fmt.Errorf("destination cost overflows 256 bits")
		}
	}

	scaled, overflow := new(uint256.Int).MulOverflow(dstCost, uint256.NewInt(q.DstPrice))
	if overflow {
		return nil, fmt.Errorf("converted cost overflows 256 bits")
	}
	srcPrice := uint256.NewInt(q.SrcPrice)
	converted, rem := new(uint256.Int).DivMod(scaled, srcPrice, new(uint256.Int))
	if !rem.IsZero() {
		converted.AddUint64(converted, 1)
	}

	total, overflow := converted.AddOverflow(converted, uint256.NewInt(q.BaseFee))
	if overflow {
		return nil, fmt.Errorf("estimated cost overflows 256 bits")
	}
	return total, nil
}

package protocol

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ChainID is a Wormhole chain id. Chain ids are 16 bits on the wire.
type ChainID uint16

const (
	ChainIDSolana    ChainID = 1
	ChainIDEthereum  ChainID = 2
	ChainIDAvalanche ChainID = 6
)

func (c ChainID) String() string {
	return fmt.Sprintf("ChainID(%d)", uint16(c))
}

// Hex returns the chain id as four hex characters, the form used in request ids.
func (c ChainID) Hex() string {
	return fmt.Sprintf("%04x", uint16(c))
}

// ParseChainID parses a decimal chain id.
func ParseChainID(s string) (ChainID, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	return ChainID(v), nil
}

// Bytes32 is a chain-agnostic 32 byte identifier. Shorter native addresses are left-padded.
type Bytes32 [32]byte

// NewBytes32FromString parses a 0x-prefixed hex string of at most 32 bytes, left-padding shorter input.
func NewBytes32FromString(s string) (Bytes32, error) {
	if !strings.HasPrefix(s, "0x") {
		return Bytes32{}, fmt.Errorf("Bytes32 must start with '0x' prefix: %s", s)
	}
	if len(s) > 66 {
		return Bytes32{}, fmt.Errorf("Bytes32 must be at most 32 bytes (64 hex chars) long: %s", s)
	}

	raw := s[2:]
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Bytes32{}, fmt.Errorf("failed to decode hex: %w", err)
	}

	var res Bytes32
	copy(res[32-len(b):], b)
	return res, nil
}

// LeftPadBytes32 copies b into the low-order bytes of a Bytes32.
func LeftPadBytes32(b []byte) (Bytes32, error) {
	if len(b) > 32 {
		return Bytes32{}, fmt.Errorf("address is %d bytes, at most 32 allowed", len(b))
	}
	var res Bytes32
	copy(res[32-len(b):], b)
	return res, nil
}

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// Hex returns the address without the 0x prefix.
func (b Bytes32) Hex() string {
	return hex.EncodeToString(b[:])
}

func (b Bytes32) IsEmpty() bool {
	return b == Bytes32{}
}

func (b Bytes32) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, b.String())), nil
}

func (b *Bytes32) UnmarshalJSON(data []byte) error {
	v := string(data)
	if len(v) < 4 {
		return fmt.Errorf("invalid Bytes32: %s", v)
	}
	parsed, err := NewBytes32FromString(v[1 : len(v)-1])
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ByteSlice is a wrapper around []byte that marshals to and from 0x-prefixed hex instead of base64.
type ByteSlice []byte

// NewByteSliceFromHex decodes a hex string with or without the 0x prefix.
func NewByteSliceFromHex(s string) (ByteSlice, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex: %w", err)
	}
	return b, nil
}

func (h ByteSlice) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, h.String())), nil
}

func (h *ByteSlice) UnmarshalJSON(data []byte) error {
	v := string(data)
	if v == "null" {
		*h = nil
		return nil
	}
	if len(v) < 2 {
		return fmt.Errorf("invalid ByteSlice: %s", v)
	}

	v = v[1 : len(v)-1]
	if v == "" || v == "0x" {
		*h = ByteSlice{}
		return nil
	}

	b, err := NewByteSliceFromHex(v)
	if err != nil {
		return err
	}
	*h = b
	return nil
}

func (h ByteSlice) String() string {
	return "0x" + hex.EncodeToString(h)
}

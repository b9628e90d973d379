package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Execution request prefixes.
const (
	PrefixModularMessageRequest = "ERM1"
	PrefixVAAv1Request          = "ERV1"
	PrefixNTTv1Request          = "ERN1"
)

const (
	requestPrefixLength = 4

	// ModularMessageRequestHeaderLength is prefix, chain, address, sequence and payload length.
	ModularMessageRequestHeaderLength = requestPrefixLength + 2 + 32 + 8 + 4
	// VAAv1RequestLength is prefix, chain, emitter address and sequence.
	VAAv1RequestLength = requestPrefixLength + 2 + 32 + 8
	// NTTv1RequestLength is prefix, source chain, source manager and message id.
	NTTv1RequestLength = requestPrefixLength + 2 + 32 + 32
)

var requestPrefixes = []string{PrefixModularMessageRequest, PrefixVAAv1Request, PrefixNTTv1Request}

// ExecutionRequest identifies a pending attested action. It is one of
// *ModularMessageRequest, *VAAv1Request or *NTTv1Request.
type ExecutionRequest interface {
	// Prefix returns the 4 byte ASCII tag of the variant.
	Prefix() string
	// Encode returns the canonical wire form.
	Encode() []byte

	isExecutionRequest()
}

// ModularMessageRequest references a message by emitter and sequence and carries an opaque payload.
type ModularMessageRequest struct {
	Chain    ChainID
	Address  Bytes32
	Sequence uint64
	Payload  []byte
}

// VAAv1Request references a v1 VAA by emitter chain, emitter address and sequence.
type VAAv1Request struct {
	Chain    ChainID
	Address  Bytes32
	Sequence uint64
}

// NTTv1Request references an NTT manager message.
type NTTv1Request struct {
	SrcChain   ChainID
	SrcManager Bytes32
	MessageID  Bytes32
}

func (*ModularMessageRequest) isExecutionRequest() {}
func (*VAAv1Request) isExecutionRequest()          {}
func (*NTTv1Request) isExecutionRequest()          {}

func (*ModularMessageRequest) Prefix() string { return PrefixModularMessageRequest }
func (*VAAv1Request) Prefix() string          { return PrefixVAAv1Request }
func (*NTTv1Request) Prefix() string          { return PrefixNTTv1Request }

func (r *ModularMessageRequest) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, ModularMessageRequestHeaderLength+len(r.Payload)))
	buf.WriteString(PrefixModularMessageRequest)
	_ = binary.Write(buf, binary.BigEndian, uint16(r.Chain))
	buf.Write(r.Address[:])
	_ = binary.Write(buf, binary.BigEndian, r.Sequence)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(r.Payload))) //nolint:gosec // payloads are bounded by transaction size
	buf.Write(r.Payload)
	return buf.Bytes()
}

func (r *VAAv1Request) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, VAAv1RequestLength))
	buf.WriteString(PrefixVAAv1Request)
	_ = binary.Write(buf, binary.BigEndian, uint16(r.Chain))
	buf.Write(r.Address[:])
	_ = binary.Write(buf, binary.BigEndian, r.Sequence)
	return buf.Bytes()
}

func (r *NTTv1Request) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, NTTv1RequestLength))
	buf.WriteString(PrefixNTTv1Request)
	_ = binary.Write(buf, binary.BigEndian, uint16(r.SrcChain))
	buf.Write(r.SrcManager[:])
	buf.Write(r.MessageID[:])
	return buf.Bytes()
}

func (r *ModularMessageRequest) String() string {
	return fmt.Sprintf("ModularMessageRequest{chain: %d, address: %s, sequence: %d, payload: %d bytes}", r.Chain, r.Address, r.Sequence, len(r.Payload))
}

func (r *VAAv1Request) String() string {
	return fmt.Sprintf("VAAv1Request{chain: %d, address: %s, sequence: %d}", r.Chain, r.Address, r.Sequence)
}

func (r *NTTv1Request) String() string {
	return fmt.Sprintf("NTTv1Request{srcChain: %d, srcManager: %s, messageId: %s}", r.SrcChain, r.SrcManager, r.MessageID)
}

// DecodeExecutionRequest dispatches on the 4 byte prefix and decodes the matching variant.
// Lengths must match exactly; trailing bytes are rejected.
func DecodeExecutionRequest(data []byte) (ExecutionRequest, error) {
	if len(data) < requestPrefixLength {
		for _, p := range requestPrefixes {
			if bytes.HasPrefix([]byte(p), data) {
				return nil, newDecodeError(ErrInvalidLength, "ExecutionRequest", "prefix", requestPrefixLength, len(data))
			}
		}
		return nil, newDecodeError(ErrInvalidPrefix, "ExecutionRequest", "prefix", requestPrefixes, fmt.Sprintf("%x", data))
	}

	switch prefix := string(data[:requestPrefixLength]); prefix {
	case PrefixModularMessageRequest:
		return DecodeModularMessageRequest(data)
	case PrefixVAAv1Request:
		return DecodeVAAv1Request(data)
	case PrefixNTTv1Request:
		return DecodeNTTv1Request(data)
	default:
		return nil, newDecodeError(ErrInvalidPrefix, "ExecutionRequest", "prefix", requestPrefixes, fmt.Sprintf("%x", data[:requestPrefixLength]))
	}
}

// DecodeModularMessageRequest decodes an ERM1 record.
func DecodeModularMessageRequest(data []byte) (*ModularMessageRequest, error) {
	if err := checkPrefix(data, PrefixModularMessageRequest, "ModularMessageRequest"); err != nil {
		return nil, err
	}
	if len(data) < ModularMessageRequestHeaderLength {
		return nil, newDecodeError(ErrInvalidLength, "ModularMessageRequest", "header", ModularMessageRequestHeaderLength, len(data))
	}

	reader := bytes.NewReader(data[requestPrefixLength:])
	req := &ModularMessageRequest{}

	var chain uint16
	if err := binary.Read(reader, binary.BigEndian, &chain); err != nil {
		return nil, fmt.Errorf("failed to read chain: %w", err)
	}
	req.Chain = ChainID(chain)
	if _, err := io.ReadFull(reader, req.Address[:]); err != nil {
		return nil, fmt.Errorf("failed to read address: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &req.Sequence); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}
	var payloadLen uint32
	if err := binary.Read(reader, binary.BigEndian, &payloadLen); err != nil {
		return nil, fmt.Errorf("failed to read payload length: %w", err)
	}

	expected := uint64(ModularMessageRequestHeaderLength) + uint64(payloadLen)
	if uint64(len(data)) != expected {
		return nil, newDecodeError(ErrInvalidLength, "ModularMessageRequest", "payloadLen", expected, len(data))
	}
	if payloadLen > 0 {
		req.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(reader, req.Payload); err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
	}
	return req, nil
}

// DecodeVAAv1Request decodes an ERV1 record.
func DecodeVAAv1Request(data []byte) (*VAAv1Request, error) {
	if err := checkPrefix(data, PrefixVAAv1Request, "VAAv1Request"); err != nil {
		return nil, err
	}
	if len(data) != VAAv1RequestLength {
		return nil, newDecodeError(ErrInvalidLength, "VAAv1Request", "length", VAAv1RequestLength, len(data))
	}

	reader := bytes.NewReader(data[requestPrefixLength:])
	req := &VAAv1Request{}

	var chain uint16
	if err := binary.Read(reader, binary.BigEndian, &chain); err != nil {
		return nil, fmt.Errorf("failed to read chain: %w", err)
	}
	req.Chain = ChainID(chain)
	if _, err := io.ReadFull(reader, req.Address[:]); err != nil {
		return nil, fmt.Errorf("failed to read address: %w", err)
	}
	if err := binary.Read(reader, binary.BigEndian, &req.Sequence); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}
	return req, nil
}

// DecodeNTTv1Request decodes an ERN1 record.
func DecodeNTTv1Request(data []byte) (*NTTv1Request, error) {
	if err := checkPrefix(data, PrefixNTTv1Request, "NTTv1Request"); err != nil {
		return nil, err
	}
	if len(data) != NTTv1RequestLength {
		return nil, newDecodeError(ErrInvalidLength, "NTTv1Request", "length", NTTv1RequestLength, len(data))
	}

	reader := bytes.NewReader(data[requestPrefixLength:])
	req := &NTTv1Request{}

	var chain uint16
	if err := binary.Read(reader, binary.BigEndian, &chain); err != nil {
		return nil, fmt.Errorf("failed to read source chain: %w", err)
	}
	req.SrcChain = ChainID(chain)
	if _, err := io.ReadFull(reader, req.SrcManager[:]); err != nil {
		return nil, fmt.Errorf("failed to read source manager: %w", err)
	}
	if _, err := io.ReadFull(reader, req.MessageID[:]); err != nil {
		return nil, fmt.Errorf("failed to read message id: %w", err)
	}
	return req, nil
}

func checkPrefix(data []byte, prefix, format string) error {
	if len(data) < requestPrefixLength {
		if bytes.HasPrefix([]byte(prefix), data) {
			return newDecodeError(ErrInvalidLength, format, "prefix", requestPrefixLength, len(data))
		}
		return newDecodeError(ErrInvalidPrefix, format, "prefix", prefix, fmt.Sprintf("%x", data))
	}
	if string(data[:requestPrefixLength]) != prefix {
		return newDecodeError(ErrInvalidPrefix, format, "prefix", prefix, fmt.Sprintf("%x", data[:requestPrefixLength]))
	}
	return nil
}

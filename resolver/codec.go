package resolver

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MaxReturnDataLength is the largest program return data the runtime accepts.
const MaxReturnDataLength = 1024

const (
	pubkeyLength      = solana.PublicKeyLength
	accountMetaLength = pubkeyLength + 2
)

// EncodeResult serializes a Result with Borsh, the layout the resolving entrypoint returns.
func EncodeResult(r *Result) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteUint8(uint8(r.Kind)); err != nil {
		return nil, err
	}
	switch r.Kind {
	case KindResolved:
		if err := writeLength(enc, len(r.Groups)); err != nil {
			return nil, err
		}
		for _, g := range r.Groups {
			if err := encodeGroup(enc, g); err != nil {
				return nil, err
			}
		}
	case KindMissing:
		if r.Missing == nil {
			return nil, fmt.Errorf("missing result without payload")
		}
		if err := writePubkeys(enc, r.Missing.Accounts); err != nil {
			return nil, err
		}
		if err := writePubkeys(enc, r.Missing.AddressLookupTables); err != nil {
			return nil, err
		}
	case KindAccount:
	default:
		return nil, fmt.Errorf("unknown result kind %d", r.Kind)
	}
	return buf.Bytes(), nil
}

func encodeGroup(enc *bin.Encoder, g InstructionGroup) error {
	if err := writeLength(enc, len(g.Instructions)); err != nil {
		return err
	}
	for _, ix := range g.Instructions {
		if err := enc.WriteBytes(ix.ProgramID[:], false); err != nil {
			return err
		}
		if err := writeLength(enc, len(ix.Accounts)); err != nil {
			return err
		}
		for _, a := range ix.Accounts {
			if err := enc.WriteBytes(a.Pubkey[:], false); err != nil {
				return err
			}
			if err := enc.WriteBool(a.IsSigner); err != nil {
				return err
			}
			if err := enc.WriteBool(a.IsWritable); err != nil {
				return err
			}
		}
		if err := writeLength(enc, len(ix.Data)); err != nil {
			return err
		}
		if err := enc.WriteBytes(ix.Data, false); err != nil {
			return err
		}
	}
	return writePubkeys(enc, g.AddressLookupTables)
}

func writeLength(enc *bin.Encoder, n int) error {
	return enc.WriteUint32(uint32(n), binary.LittleEndian) //nolint:gosec // bounded by return data size
}

func writePubkeys(enc *bin.Encoder, keys []solana.PublicKey) error {
	if err := writeLength(enc, len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := enc.WriteBytes(k[:], false); err != nil {
			return err
		}
	}
	return nil
}

// DecodeResult parses a Borsh encoded Result. Trailing bytes are rejected.
func DecodeResult(data []byte) (*Result, error) {
	dec := bin.NewBorshDecoder(data)
	r, err := decodeResult(dec)
	if err != nil {
		return nil, err
	}
	if dec.Remaining() != 0 {
		return nil, fmt.Errorf("failed to decode resolver result: %d trailing bytes", dec.Remaining())
	}
	return r, nil
}

// DecodeReturnData parses program return data. The runtime strips trailing zero bytes from
// return data, so the input is padded back out before decoding and trailing zeros are ignored.
func DecodeReturnData(data []byte) (*Result, error) {
	if len(data) > MaxReturnDataLength {
		return nil, fmt.Errorf("return data is %d bytes, max %d", len(data), MaxReturnDataLength)
	}
	padded := make([]byte, MaxReturnDataLength)
	copy(padded, data)
	return decodeResult(bin.NewBorshDecoder(padded))
}

func decodeResult(dec *bin.Decoder) (*Result, error) {
	tag, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to read result tag: %w", err)
	}

	switch ResultKind(tag) {
	case KindResolved:
		n, err := readLength(dec, 8)
		if err != nil {
			return nil, fmt.Errorf("failed to read group count: %w", err)
		}
		groups := make([]InstructionGroup, 0, n)
		for i := 0; i < n; i++ {
			g, err := decodeGroup(dec)
			if err != nil {
				return nil, fmt.Errorf("failed to read group %d: %w", i, err)
			}
			groups = append(groups, g)
		}
		return NewResolved(groups...), nil
	case KindMissing:
		accounts, err := readPubkeys(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to read missing accounts: %w", err)
		}
		tables, err := readPubkeys(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to read missing lookup tables: %w", err)
		}
		return NewMissing(accounts, tables), nil
	case KindAccount:
		return NewAccountResult(), nil
	default:
		return nil, fmt.Errorf("unknown result tag %d", tag)
	}
}

func decodeGroup(dec *bin.Decoder) (InstructionGroup, error) {
	n, err := readLength(dec, pubkeyLength+8)
	if err != nil {
		return InstructionGroup{}, fmt.Errorf("failed to read instruction count: %w", err)
	}
	g := InstructionGroup{Instructions: make([]SerializableInstruction, 0, n)}
	for i := 0; i < n; i++ {
		var ix SerializableInstruction
		if ix.ProgramID, err = readPubkey(dec); err != nil {
			return InstructionGroup{}, fmt.Errorf("failed to read program id of instruction %d: %w", i, err)
		}
		numAccounts, err := readLength(dec, accountMetaLength)
		if err != nil {
			return InstructionGroup{}, fmt.Errorf("failed to read account count of instruction %d: %w", i, err)
		}
		ix.Accounts = make([]AccountMeta, 0, numAccounts)
		for j := 0; j < numAccounts; j++ {
			var meta AccountMeta
			if meta.Pubkey, err = readPubkey(dec); err != nil {
				return InstructionGroup{}, fmt.Errorf("failed to read account %d of instruction %d: %w", j, i, err)
			}
			if meta.IsSigner, err = dec.ReadBool(); err != nil {
				return InstructionGroup{}, fmt.Errorf("failed to read signer flag: %w", err)
			}
			if meta.IsWritable, err = dec.ReadBool(); err != nil {
				return InstructionGroup{}, fmt.Errorf("failed to read writable flag: %w", err)
			}
			ix.Accounts = append(ix.Accounts, meta)
		}
		dataLen, err := readLength(dec, 1)
		if err != nil {
			return InstructionGroup{}, fmt.Errorf("failed to read data length of instruction %d: %w", i, err)
		}
		if ix.Data, err = dec.ReadNBytes(dataLen); err != nil {
			return InstructionGroup{}, fmt.Errorf("failed to read data of instruction %d: %w", i, err)
		}
		g.Instructions = append(g.Instructions, ix)
	}
	if g.AddressLookupTables, err = readPubkeys(dec); err != nil {
		return InstructionGroup{}, fmt.Errorf("failed to read lookup tables: %w", err)
	}
	return g, nil
}

// readLength reads a u32 vector length and rejects lengths that cannot fit in the remaining input.
func readLength(dec *bin.Decoder, minElemSize int) (int, error) {
	n, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(minElemSize) > uint64(dec.Remaining()) {
		return 0, fmt.Errorf("length %d exceeds remaining %d bytes", n, dec.Remaining())
	}
	return int(n), nil
}

func readPubkey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(pubkeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func readPubkeys(dec *bin.Decoder) ([]solana.PublicKey, error) {
	n, err := readLength(dec, pubkeyLength)
	if err != nil {
		return nil, err
	}
	out := make([]solana.PublicKey, 0, n)
	for i := 0; i < n; i++ {
		k, err := readPubkey(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

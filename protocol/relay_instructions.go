package protocol

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// Relay instruction opcodes.
const (
	OpcodeGas        byte = 1
	OpcodeGasDropOff byte = 2
)

const (
	gasInstructionOperandLength        = 64
	gasDropOffInstructionOperandLength = 64
)

// RelayInstruction tells the executor how to perform a relay. Each variant has a fixed width operand.
type RelayInstruction interface {
	Opcode() byte
	// EncodeOperand returns the operand without the opcode byte.
	EncodeOperand() []byte
}

// GasInstruction requests a destination gas limit and native value to forward.
type GasInstruction struct {
	GasLimit *uint256.Int
	MsgValue *uint256.Int
}

// GasDropOffInstruction requests native tokens be dropped off to a recipient on the destination.
type GasDropOffInstruction struct {
	DropOff   *uint256.Int
	Recipient Bytes32
}

func (GasInstruction) Opcode() byte        { return OpcodeGas }
func (GasDropOffInstruction) Opcode() byte { return OpcodeGasDropOff }

func (g GasInstruction) EncodeOperand() []byte {
	out := make([]byte, 0, gasInstructionOperandLength)
	out = append(out, word(g.GasLimit)...)
	return append(out, word(g.MsgValue)...)
}

func (g GasDropOffInstruction) EncodeOperand() []byte {
	out := make([]byte, 0, gasDropOffInstructionOperandLength)
	out = append(out, word(g.DropOff)...)
	return append(out, g.Recipient[:]...)
}

func word(v *uint256.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	b := v.Bytes32()
	return b[:]
}

// EncodeRelayInstructions concatenates opcode and operand for each instruction in order.
func EncodeRelayInstructions(instructions []RelayInstruction) []byte {
	var buf bytes.Buffer
	for _, ix := range instructions {
		buf.WriteByte(ix.Opcode())
		buf.Write(ix.EncodeOperand())
	}
	return buf.Bytes()
}

// DecodeRelayInstructions consumes instructions until the input is exhausted.
// Empty input decodes to an empty list.
func DecodeRelayInstructions(data []byte) ([]RelayInstruction, error) {
	instructions := make([]RelayInstruction, 0)
	offset := 0
	for offset < len(data) {
		opcode := data[offset]
		offset++

		switch opcode {
		case OpcodeGas:
			if len(data)-offset < gasInstructionOperandLength {
				return nil, newDecodeError(ErrTruncatedOperand, "RelayInstructions", fmt.Sprintf("gas operand at offset %d", offset), gasInstructionOperandLength, len(data)-offset)
			}
			instructions = append(instructions, GasInstruction{
				GasLimit: new(uint256.Int).SetBytes32(data[offset : offset+32]),
				MsgValue: new(uint256.Int).SetBytes32(data[offset+32 : offset+64]),
			})
			offset += gasInstructionOperandLength
		case OpcodeGasDropOff:
			if len(data)-offset < gasDropOffInstructionOperandLength {
				return nil, newDecodeError(ErrTruncatedOperand, "RelayInstructions", fmt.Sprintf("gas drop-off operand at offset %d", offset), gasDropOffInstructionOperandLength, len(data)-offset)
			}
			ix := GasDropOffInstruction{DropOff: new(uint256.Int).SetBytes32(data[offset : offset+32])}
			copy(ix.Recipient[:], data[offset+32:offset+64])
			instructions = append(instructions, ix)
			offset += gasDropOffInstructionOperandLength
		default:
			return nil, newDecodeError(ErrUnknownOpcode, "RelayInstructions", fmt.Sprintf("opcode at offset %d", offset-1), "1 or 2", opcode)
		}
	}
	return instructions, nil
}

// RelayTotals sums the gas limits, forwarded values and drop-offs of a set of instructions.
type RelayTotals struct {
	GasLimit *uint256.Int
	MsgValue *uint256.Int
	DropOff  *uint256.Int
}

// TotalRelayInstructions aggregates instructions. It fails if any sum overflows 256 bits.
func TotalRelayInstructions(instructions []RelayInstruction) (RelayTotals, error) {
	totals := RelayTotals{GasLimit: new(uint256.Int), MsgValue: new(uint256.Int), DropOff: new(uint256.Int)}
	for i, ix := range instructions {
		var overflow bool
		switch v := ix.(type) {
		case GasInstruction:
			if v.GasLimit != nil {
				_, o := totals.GasLimit.AddOverflow(totals.GasLimit, v.GasLimit)
				overflow = overflow || o
			}
			if v.MsgValue != nil {
				_, o := totals.MsgValue.AddOverflow(totals.MsgValue, v.MsgValue)
				overflow = overflow || o
			}
		case GasDropOffInstruction:
			if v.DropOff != nil {
				_, overflow = totals.DropOff.AddOverflow(totals.DropOff, v.DropOff)
			}
		default:
			return RelayTotals{}, fmt.Errorf("instruction %d: unsupported type %T", i, ix)
		}
		if overflow {
			return RelayTotals{}, fmt.Errorf("instruction %d: total overflows 256 bits", i)
		}
	}
	return totals, nil
}

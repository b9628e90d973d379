package resolver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

// ResolveInstructionName is the resolving entrypoint every participating program exposes.
const ResolveInstructionName = "resolve_execute_vaa_v1"

var _ Resolver = (*SimulationResolver)(nil)

// RPCCaller is the subset of the solana-go JSON-RPC client the simulation resolver uses.
type RPCCaller interface {
	RPCCallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error
}

// SimulationResolver resolves by simulating the destination program's resolving entrypoint.
// Simulation never mutates chain state, so the query is read-only.
type SimulationResolver struct {
	lggr      logger.Logger
	rpc       RPCCaller
	programID solana.PublicKey
	payer     solana.PublicKey
}

// NewSimulationResolver targets programID. payer must be an existing account; it pays the
// simulated fee and is never asked to sign.
func NewSimulationResolver(lggr logger.Logger, rpc RPCCaller, programID, payer solana.PublicKey) *SimulationResolver {
	return &SimulationResolver{
		lggr:      logger.Named(lggr, "SimulationResolver"),
		rpc:       rpc,
		programID: programID,
		payer:     payer,
	}
}

type simulateTransactionResult struct {
	Value struct {
		Err           interface{} `json:"err"`
		Logs          []string    `json:"logs"`
		UnitsConsumed *uint64     `json:"unitsConsumed"`
		ReturnData    *struct {
			ProgramID string    `json:"programId"`
			Data      [2]string `json:"data"`
		} `json:"returnData"`
	} `json:"value"`
}

func (r *SimulationResolver) Resolve(ctx context.Context, message []byte, rctx *Context) (*Result, error) {
	ix, err := BuildResolveInstruction(r.programID, message, rctx.Keys())
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(r.payer))
	if err != nil {
		return nil, fmt.Errorf("failed to build simulation transaction: %w", err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize simulation transaction: %w", err)
	}

	var out simulateTransactionResult
	err = r.rpc.RPCCallForInto(ctx, &out, "simulateTransaction", []interface{}{
		base64.StdEncoding.EncodeToString(raw),
		map[string]interface{}{
			"encoding":               "base64",
			"sigVerify":              false,
			"replaceRecentBlockhash": true,
			"commitment":             "confirmed",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("simulateTransaction failed: %w", err)
	}

	if out.Value.Err != nil {
		r.lggr.Debugw("Resolver simulation returned an error", "error", out.Value.Err, "logs", out.Value.Logs)
		return nil, &SimulationError{Err: out.Value.Err, Logs: out.Value.Logs}
	}

	rd := out.Value.ReturnData
	if rd == nil {
		return nil, fmt.Errorf("%w: simulation returned no data", ErrMalformedResult)
	}
	if rd.ProgramID != r.programID.String() {
		return nil, fmt.Errorf("%w: return data from %s, expected %s", ErrMalformedResult, rd.ProgramID, r.programID)
	}
	// Present data may still be trimmed of trailing zeros; DecodeReturnData restores them.
	data, err := base64.StdEncoding.DecodeString(rd.Data[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode return data: %w", ErrMalformedResult, err)
	}

	res, err := DecodeReturnData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	r.lggr.Debugw("Resolver simulation complete", "result", res.String(), "supplied", rctx.Len())
	return res, nil
}

// BuildResolveInstruction encodes the resolving entrypoint call: the Anchor discriminator, the
// message as a Borsh byte vector, and every supplied key as a read-only remaining account.
func BuildResolveInstruction(programID solana.PublicKey, message []byte, supplied []solana.PublicKey) (*solana.GenericInstruction, error) {
	if len(message) == 0 {
		return nil, errors.New("message is empty")
	}
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, ResolveInstructionName), false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(uint32(len(message)), binary.LittleEndian); err != nil { //nolint:gosec // bounded by transaction size
		return nil, err
	}
	if err := enc.WriteBytes(message, false); err != nil {
		return nil, err
	}

	metas := make(solana.AccountMetaSlice, 0, len(supplied))
	for _, k := range supplied {
		metas = append(metas, solana.Meta(k))
	}
	return solana.NewInstruction(programID, metas, buf.Bytes()), nil
}
